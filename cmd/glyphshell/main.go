// Command glyphshell is an interactive shell over a font: look up glyphs,
// compute substitution inputs, inspect coverage and GSUB features.
//
// Usage:
//
//	glyphshell [-font Some.ttf] [-trace Info]
//
// Commands inside the shell:
//
//	font <path>              load a font
//	input <gid|U+xxxx|char>  minimal input for a glyph
//	glyph <char>             glyph index for a character
//	coverage                 code point ranges of the font
//	features                 GSUB features and their lookups
//	quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphtools/coverage"
	"github.com/npillmayer/glyphtools/internal/fontload"
	"github.com/npillmayer/glyphtools/subinput"
	"github.com/npillmayer/glyphtools/unirange"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/opentype/otquery"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'glyphtools.shell'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.shell")
}

func main() {
	initDisplay()
	fontname := flag.String("font", "", "Font to load on startup")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	setupTracing(*tlevel)
	pterm.Info.Println("Welcome to the glyph shell")
	repl, err := readline.New("glyph > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	if *fontname != "" {
		if err := intp.loadFont(*fontname); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setupTracing(level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.glyphtools.shell":    level,
		"trace.glyphtools.input":    level,
		"trace.glyphtools.subst":    level,
		"trace.glyphtools.fontload": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Println("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// Intp is our interpreter object.
type Intp struct {
	repl     *readline.Instance
	fontname string
	font     *ot.Font
	src      *subinput.Source
	resolver *subinput.Resolver
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true, nil
	case "font":
		if arg == "" {
			return false, errors.New("usage: font <path>")
		}
		return false, intp.loadFont(arg)
	case "input":
		return false, intp.showInput(arg)
	case "glyph":
		return false, intp.showGlyph(arg)
	case "coverage":
		return false, intp.showCoverage()
	case "features":
		return false, intp.showFeatures()
	case "help":
		pterm.Println("commands: font <path> | input <gid|U+xxxx|char> | glyph <char> | coverage | features | quit")
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q, try help", cmd)
}

func (intp *Intp) loadFont(path string) error {
	otf, err := fontload.FromFile(path)
	if err != nil {
		return err
	}
	src, err := subinput.ScanFont(otf)
	if err != nil {
		return err
	}
	intp.fontname = path
	intp.font = otf
	intp.src = src
	intp.resolver = subinput.New(src)
	pterm.Info.Printf("loaded %s with %d glyphs\n", path, len(src.GlyphOrder))
	if report := src.Tables.Unsupported(); len(report) > 0 {
		pterm.Warning.Printf("%d unsupported GSUB rule shapes\n", len(report))
		for _, entry := range report {
			tracer().Infof(entry)
		}
	}
	return nil
}

func (intp *Intp) ensureFont() error {
	if intp.font == nil {
		return errors.New("no font loaded, use: font <path>")
	}
	return nil
}

func (intp *Intp) showInput(arg string) error {
	if err := intp.ensureFont(); err != nil {
		return err
	}
	gid, err := intp.glyphArg(arg)
	if err != nil {
		return err
	}
	in, ok := intp.resolver.Resolve(gid)
	if !ok {
		pterm.Warning.Printf("glyph %d is not reachable by cmap or substitution\n", gid)
		return nil
	}
	pterm.Printf("glyph %d <- %v\n", gid, in)
	return nil
}

func (intp *Intp) showGlyph(arg string) error {
	if err := intp.ensureFont(); err != nil {
		return err
	}
	runes := []rune(arg)
	if len(runes) != 1 {
		return errors.New("usage: glyph <single character>")
	}
	gid := otquery.GlyphIndex(intp.font, runes[0])
	if gid == 0 {
		pterm.Warning.Printf("no glyph for %q\n", arg)
		return nil
	}
	pterm.Printf("%q = U+%04X -> glyph %d\n", arg, runes[0], gid)
	return nil
}

func (intp *Intp) showCoverage() error {
	if err := intp.ensureFont(); err != nil {
		return err
	}
	set := coverage.CharacterSet(intp.font)
	pterm.Info.Printf("%d code points\n", set.Len())
	pterm.Println(unirange.Write(set))
	return nil
}

func (intp *Intp) showFeatures() error {
	if err := intp.ensureFont(); err != nil {
		return err
	}
	feats := intp.src.Tables.Features
	if len(feats) == 0 {
		pterm.Info.Println("font has no GSUB features")
		return nil
	}
	rows := pterm.TableData{{"feature", "lookups"}}
	for _, f := range feats {
		indices := make([]string, len(f.Lookups))
		for i, inx := range f.Lookups {
			indices[i] = strconv.Itoa(inx)
		}
		rows = append(rows, []string{f.Tag.String(), strings.Join(indices, ",")})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// glyphArg reads a glyph from a decimal glyph index, a U+xxxx code point or
// a single character.
func (intp *Intp) glyphArg(arg string) (ot.GlyphIndex, error) {
	if arg == "" {
		return 0, errors.New("usage: input <gid|U+xxxx|char>")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 0 || n >= len(intp.src.GlyphOrder) {
			return 0, fmt.Errorf("glyph %d out of range", n)
		}
		return ot.GlyphIndex(n), nil
	}
	if rest, ok := strings.CutPrefix(strings.ToUpper(arg), "U+"); ok {
		n, err := strconv.ParseUint(rest, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("not a code point: %q", arg)
		}
		if gid := otquery.GlyphIndex(intp.font, rune(n)); gid != 0 {
			return gid, nil
		}
		return 0, fmt.Errorf("no glyph for U+%04X", n)
	}
	runes := []rune(arg)
	if len(runes) != 1 {
		return 0, fmt.Errorf("not a glyph index, code point or character: %q", arg)
	}
	if gid := otquery.GlyphIndex(intp.font, runes[0]); gid != 0 {
		return gid, nil
	}
	return 0, fmt.Errorf("no glyph for %q", arg)
}
