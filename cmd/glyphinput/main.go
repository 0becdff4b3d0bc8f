// Command glyphinput prints, for every glyph of a font, the minimal
// (features, text) input which makes a shaping engine produce the glyph.
//
// Usage:
//
//	glyphinput -font Some.ttf [-pad] [-verify] [-trace Info]
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphtools/internal/fontload"
	"github.com/npillmayer/glyphtools/shapecheck"
	"github.com/npillmayer/glyphtools/subinput"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'glyphtools.input'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.input")
}

func main() {
	fontname := flag.String("font", "", "Font to load")
	pad := flag.Bool("pad", false, "Pad zero-advance glyphs with spaces")
	verify := flag.Bool("verify", false, "Shape every input and check the glyph comes out")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	setupTracing(*tlevel)
	if *fontname == "" {
		pterm.Error.Println("no font given, use -font")
		os.Exit(1)
	}
	otf, err := fontload.FromFile(*fontname)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	src, err := subinput.ScanFont(otf)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	var checker *shapecheck.Checker
	if *verify {
		if checker, err = shapecheck.NewChecker(fontload.Binary(otf)); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
	}
	resolver := subinput.New(src)
	rows := pterm.TableData{{"glyph", "features", "text"}}
	resolved, mismatches := 0, 0
	for g, in := range resolver.ResolveAll(*pad) {
		resolved++
		row := []string{
			strconv.Itoa(int(g)),
			featureList(in.Features),
			strconv.Quote(in.Text),
		}
		if checker != nil && !checker.Produces(in, g) {
			mismatches++
			row[2] += "  (shaper disagrees)"
		}
		rows = append(rows, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
	total := len(src.GlyphOrder)
	pterm.Info.Printf("%d of %d glyphs reachable\n", resolved, total)
	if unreachable := total - resolved; unreachable > 0 {
		pterm.Warning.Printf("%d glyphs have no input\n", unreachable)
	}
	if mismatches > 0 {
		pterm.Error.Printf("%d inputs not confirmed by the shaper\n", mismatches)
		os.Exit(2)
	}
}

func featureList(tags []ot.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.String()
	}
	return strings.Join(names, ",")
}

func setupTracing(level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":             "go",
		"trace.glyphtools.input":      level,
		"trace.glyphtools.subst":      level,
		"trace.glyphtools.fontload":   level,
		"trace.glyphtools.shapecheck": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Println("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}
