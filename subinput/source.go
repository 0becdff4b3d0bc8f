package subinput

import (
	"errors"
	"unicode"

	"github.com/npillmayer/glyphtools/subst"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/opentype/otquery"
)

// Source is the read-only font snapshot a Resolver is bound to. All fields
// are populated eagerly by ScanFont and never mutated afterwards, so a Source
// may be shared between resolvers.
type Source struct {
	GlyphOrder []ot.GlyphIndex           // all glyphs of the font, in glyph-ID order
	Runes      map[ot.GlyphIndex]rune    // reverse cmap: smallest scalar mapping to a glyph
	Advances   map[ot.GlyphIndex]int     // raw advance widths
	Widths     map[ot.GlyphIndex]int     // advance width, falling back to ink width for zero advances
	SpaceWidth int                       // width of the space glyph, 0 if the font has none
	Tables     *subst.Tables             // materialized substitution rules
}

// ScanFont builds a Source from a parsed font. The reverse character map is
// built by scanning the Unicode scalar space in ascending order and keeping
// the first codepoint found for each glyph, so every glyph maps to its
// smallest preimage. This is a full sweep over the cmap and is meant to run
// once per font.
func ScanFont(otf *ot.Font) (*Source, error) {
	if otf == nil {
		return nil, errors.New("no font given")
	}
	tables, err := subst.FromFont(otf)
	if err != nil {
		return nil, err
	}
	maxp, ok := otquery.MaxPInfo(otf)
	if !ok {
		return nil, errors.New("font has no readable maxp table")
	}
	numGlyphs := int(maxp.NumGlyphs)
	src := &Source{
		GlyphOrder: make([]ot.GlyphIndex, numGlyphs),
		Runes:      make(map[ot.GlyphIndex]rune),
		Advances:   make(map[ot.GlyphIndex]int, numGlyphs),
		Widths:     make(map[ot.GlyphIndex]int, numGlyphs),
		Tables:     tables,
	}
	for g := 0; g < numGlyphs; g++ {
		src.GlyphOrder[g] = ot.GlyphIndex(g)
	}
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF { // surrogates are not scalar values
			continue
		}
		g := otquery.GlyphIndex(otf, r)
		if g == 0 {
			continue
		}
		if _, have := src.Runes[g]; !have {
			src.Runes[g] = r
		}
	}
	tracer().Debugf("reverse cmap covers %d of %d glyphs", len(src.Runes), numGlyphs)
	for _, g := range src.GlyphOrder {
		metrics := otquery.GlyphMetrics(otf, g)
		advance := int(metrics.Advance)
		src.Advances[g] = advance
		width := advance
		if width == 0 {
			width = int(metrics.BBox.Dx())
		}
		src.Widths[g] = width
	}
	// some stripped fonts have no space glyph
	if space := otquery.GlyphIndex(otf, 0x20); space != 0 {
		src.SpaceWidth = src.Widths[space]
	}
	return src, nil
}
