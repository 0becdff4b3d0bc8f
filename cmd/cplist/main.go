// Command cplist lists code points with their Unicode character names,
// either the coverage of a font or an explicit range string.
//
// Usage:
//
//	cplist -font Some.ttf
//	cplist -ranges "0041-005a 00c0-00c5"
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/glyphtools/coverage"
	"github.com/npillmayer/glyphtools/internal/fontload"
	"github.com/npillmayer/glyphtools/unirange"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

func main() {
	fontname := flag.String("font", "", "Font to take code points from")
	ranges := flag.String("ranges", "", "Code point ranges, e.g. \"0041-005a 0061\"")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	setupTracing(*tlevel)
	var set *coverage.Set
	switch {
	case *fontname != "" && *ranges != "":
		pterm.Error.Println("use either -font or -ranges, not both")
		os.Exit(1)
	case *fontname != "":
		otf, err := fontload.FromFile(*fontname)
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		set = coverage.CharacterSet(otf)
	case *ranges != "":
		var err error
		if set, err = unirange.Parse(*ranges); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
	default:
		pterm.Error.Println("nothing to list, use -font or -ranges")
		os.Exit(1)
	}
	for _, r := range set.Runes() {
		name := runenames.Name(r)
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Printf("U+%04X  %s\n", r, name)
	}
	pterm.Info.Printf("%d code points\n", set.Len())
}

func setupTracing(level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.glyphtools.coverage": level,
		"trace.glyphtools.fontload": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Println("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}
