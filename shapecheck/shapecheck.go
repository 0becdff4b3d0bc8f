/*
Package shapecheck validates substitution inputs against a real shaping
engine. A computed (features, text) input is only as good as the glyph run a
shaper makes of it, so the package feeds inputs through the HarfBuzz port of
github.com/benoitkugler/textlayout and checks that the target glyph shows up
in the output.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package shapecheck

import (
	"bytes"
	"fmt"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/npillmayer/glyphtools/subinput"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphtools.shapecheck'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.shapecheck")
}

// Checker shapes text with one font. Checkers are not safe for concurrent
// use, the underlying shaper buffers are mutable.
type Checker struct {
	font *hb.Font
}

// NewChecker builds a checker from the raw binary of an OpenType font.
func NewChecker(fontBytes []byte) (*Checker, error) {
	face, err := hbtt.Parse(bytes.NewReader(fontBytes), true)
	if err != nil {
		return nil, fmt.Errorf("shapecheck: cannot parse font: %w", err)
	}
	return &Checker{font: hb.NewFont(face)}, nil
}

// Shape runs the input through the shaper and returns the output glyph run.
func (c *Checker) Shape(in subinput.Input) []ot.GlyphIndex {
	runes := []rune(in.Text)
	if len(runes) == 0 {
		return nil
	}
	features := make([]hb.Feature, 0, len(in.Features))
	for _, tag := range in.Features {
		features = append(features, hb.Feature{
			Tag:   hbtt.Tag(tag),
			Value: 1,
			Start: 0,
			End:   len(runes),
		})
	}
	buf := hb.NewBuffer()
	buf.AddRunes(runes, 0, len(runes))
	buf.Shape(c.font, features)
	glyphs := make([]ot.GlyphIndex, len(buf.Info))
	for i, info := range buf.Info {
		glyphs[i] = ot.GlyphIndex(info.Glyph)
	}
	tracer().Debugf("shaped %q into %d glyphs", in.Text, len(glyphs))
	return glyphs
}

// Produces reports whether shaping the input yields glyph g anywhere in the
// output run.
func (c *Checker) Produces(in subinput.Input, g ot.GlyphIndex) bool {
	for _, out := range c.Shape(in) {
		if out == g {
			return true
		}
	}
	return false
}
