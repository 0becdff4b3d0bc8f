/*
Package cmapdata reads and writes the XML report format for per-script
character coverage data. A document carries a meta block, recording when and
by which program the data was generated, and a table of comma-separated
rows, conventionally "script,name,count,ranges".

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package cmapdata

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphtools/coverage"
	"github.com/npillmayer/glyphtools/unirange"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Arg is one key/value pair of the meta block, usually a command line
// argument the generating program ran with.
type Arg struct {
	Key   string
	Value string
}

// Meta describes how a document was generated.
type Meta struct {
	Date    string
	Program string
	Args    []Arg
}

// Document is a cmap data report: meta block plus a table with a header and
// rows of equal column count. Columns may not contain commas.
type Document struct {
	Meta   Meta
	Header []string
	Rows   [][]string
}

// ScriptTableHeader is the column layout FromScriptSets produces.
var ScriptTableHeader = []string{"script", "name", "count", "ranges"}

// FromScriptSets builds a document with one row per script, sorted by script
// code. The name column holds the English script name when the code is a
// valid ISO 15924 code, otherwise the code itself.
func FromScriptSets(sets map[string]*coverage.Set, meta Meta) *Document {
	doc := &Document{Meta: meta, Header: ScriptTableHeader}
	scripts := make([]string, 0, len(sets))
	for script := range sets {
		scripts = append(scripts, script)
	}
	sort.Strings(scripts)
	for _, script := range scripts {
		set := sets[script]
		doc.Rows = append(doc.Rows, []string{
			script,
			scriptName(script),
			strconv.Itoa(set.Len()),
			unirange.Write(set),
		})
	}
	return doc
}

func scriptName(code string) string {
	script, err := language.ParseScript(code)
	if err != nil {
		return code
	}
	return display.English.Scripts().Name(script)
}

// --- XML shape -------------------------------------------------------------

type xmlDocument struct {
	XMLName xml.Name `xml:"cmapdata"`
	Meta    xmlMeta  `xml:"meta"`
	Table   xmlTable `xml:"table"`
}

type xmlMeta struct {
	Date    string   `xml:"date,attr"`
	Program string   `xml:"program,attr"`
	Args    *xmlArgs `xml:"args,omitempty"`
}

// Arg element names carry the key, so they must go through xml.Name.
type xmlArgs struct {
	Args []xmlArg `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

type xmlTable struct {
	NRows  int      `xml:"nrows,attr"`
	Header string   `xml:"th"`
	Rows   []string `xml:"tr"`
}

// Read parses a cmap data document.
func Read(r io.Reader) (*Document, error) {
	var xdoc xmlDocument
	if err := xml.NewDecoder(r).Decode(&xdoc); err != nil {
		return nil, fmt.Errorf("cmapdata: %w", err)
	}
	doc := &Document{
		Meta: Meta{Date: xdoc.Meta.Date, Program: xdoc.Meta.Program},
	}
	if xdoc.Meta.Args != nil {
		for _, arg := range xdoc.Meta.Args.Args {
			doc.Meta.Args = append(doc.Meta.Args, Arg{Key: arg.XMLName.Local, Value: strings.TrimSpace(arg.Val)})
		}
	}
	doc.Header = splitRow(xdoc.Table.Header)
	for i, row := range xdoc.Table.Rows {
		cols := splitRow(row)
		if len(cols) != len(doc.Header) {
			return nil, fmt.Errorf("cmapdata: table has %d cols but row %d has %d", len(doc.Header), i, len(cols))
		}
		doc.Rows = append(doc.Rows, cols)
	}
	return doc, nil
}

// ReadFile parses the cmap data document in the named file.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write serializes the document as indented XML with a standard header.
func (d *Document) Write(w io.Writer) error {
	xdoc := xmlDocument{
		Meta:  xmlMeta{Date: d.Meta.Date, Program: d.Meta.Program},
		Table: xmlTable{NRows: len(d.Rows), Header: strings.Join(d.Header, ",")},
	}
	if len(d.Meta.Args) > 0 {
		args := &xmlArgs{}
		for _, arg := range d.Meta.Args {
			args.Args = append(args.Args, xmlArg{XMLName: xml.Name{Local: arg.Key}, Val: arg.Value})
		}
		xdoc.Meta.Args = args
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Header) {
			return fmt.Errorf("cmapdata: table has %d cols but row %d has %d", len(d.Header), i, len(row))
		}
		xdoc.Table.Rows = append(xdoc.Table.Rows, strings.Join(row, ","))
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(xdoc); err != nil {
		return fmt.Errorf("cmapdata: %w", err)
	}
	return enc.Flush()
}

// WriteFile serializes the document into the named file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func splitRow(row string) []string {
	cols := strings.Split(row, ",")
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return cols
}
