// Command fontcoverage reports which Unicode code points a font covers,
// either as a plain range string or as a cmapdata XML document.
//
// Usage:
//
//	fontcoverage -font Some.ttf [-xml] [-script Latn] [-trace Info]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/npillmayer/glyphtools/cmapdata"
	"github.com/npillmayer/glyphtools/coverage"
	"github.com/npillmayer/glyphtools/internal/fontload"
	"github.com/npillmayer/glyphtools/unirange"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'glyphtools.coverage'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.coverage")
}

func main() {
	fontname := flag.String("font", "", "Font to load")
	asXML := flag.Bool("xml", false, "Write a cmapdata XML document")
	script := flag.String("script", "Zyyy", "Script code for the XML table row")
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
	set := coverage.CharacterSet(otf)
	tracer().Infof("%s covers %d code points", *fontname, set.Len())
	if !*asXML {
		pterm.Info.Printf("%d code points\n", set.Len())
		fmt.Println(unirange.Write(set))
		return
	}
	doc := cmapdata.FromScriptSets(map[string]*coverage.Set{*script: set}, cmapdata.Meta{
		Date:    time.Now().Format("2006-01-02"),
		Program: "fontcoverage",
		Args:    []cmapdata.Arg{{Key: "font", Value: *fontname}},
	})
	if err := doc.Write(os.Stdout); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	fmt.Println()
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
