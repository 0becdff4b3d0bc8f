package coverage

import (
	"unicode"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/opentype/otquery"
)

// Set is an ordered set of Unicode code points. The zero value is not usable,
// create sets with NewSet or FromRanges.
type Set struct {
	points *treeset.Set
}

// Range is an inclusive code point interval.
type Range struct {
	Lo, Hi rune
}

// NewSet creates an empty code point set.
func NewSet() *Set {
	return &Set{points: treeset.NewWith(utils.Int32Comparator)}
}

// FromRanges creates a set holding every code point of the given ranges.
func FromRanges(ranges ...Range) *Set {
	set := NewSet()
	for _, r := range ranges {
		set.AddRange(r.Lo, r.Hi)
	}
	return set
}

// Add inserts a single code point.
func (s *Set) Add(r rune) {
	s.points.Add(int32(r))
}

// AddRange inserts every code point from lo to hi inclusive. A reversed range
// inserts nothing.
func (s *Set) AddRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		s.points.Add(int32(r))
	}
}

// Contains checks membership of a single code point.
func (s *Set) Contains(r rune) bool {
	return s.points.Contains(int32(r))
}

// Len returns the number of code points in the set.
func (s *Set) Len() int {
	return s.points.Size()
}

// Runes lists the code points in ascending order.
func (s *Set) Runes() []rune {
	values := s.points.Values()
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = rune(v.(int32))
	}
	return runes
}

// Union returns a new set with the members of s and other.
func (s *Set) Union(other *Set) *Set {
	result := NewSet()
	for _, v := range s.points.Values() {
		result.points.Add(v)
	}
	for _, v := range other.points.Values() {
		result.points.Add(v)
	}
	return result
}

// Difference returns a new set with the members of s not in other.
func (s *Set) Difference(other *Set) *Set {
	result := NewSet()
	for _, v := range s.points.Values() {
		if !other.points.Contains(v) {
			result.points.Add(v)
		}
	}
	return result
}

// Intersect returns a new set with the members common to s and other.
func (s *Set) Intersect(other *Set) *Set {
	result := NewSet()
	for _, v := range s.points.Values() {
		if other.points.Contains(v) {
			result.points.Add(v)
		}
	}
	return result
}

// Ranges compresses the set into a minimal list of inclusive ranges, in
// ascending order. Singletons come back as one-element ranges.
func (s *Set) Ranges() []Range {
	var ranges []Range
	for _, r := range s.Runes() {
		if n := len(ranges); n > 0 && ranges[n-1].Hi+1 == r {
			ranges[n-1].Hi = r
			continue
		}
		ranges = append(ranges, Range{Lo: r, Hi: r})
	}
	return ranges
}

// CharacterSet collects the code points for which the font's character map
// yields a glyph. Surrogate code points are not scalar values and are skipped.
func CharacterSet(otf *ot.Font) *Set {
	set := NewSet()
	if otf == nil {
		return set
	}
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		if otquery.GlyphIndex(otf, r) != 0 {
			set.Add(r)
		}
	}
	tracer().Debugf("font covers %d code points", set.Len())
	return set
}
