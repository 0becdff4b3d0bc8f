package subinput

import (
	"testing"

	"github.com/npillmayer/glyphtools/subst"
	"github.com/npillmayer/opentype/ot"
)

// Glyph IDs for the synthetic test fonts. 0 is .notdef, as in real fonts.
const (
	gdSpace ot.GlyphIndex = iota + 1
	gdA
	gdB
	gdC
	gdD
	gdE
	gdF
	gdI
	gdN
	gdU
	gdZero
	gdZeroOldstyle
	gdASmall
	gdDAlt
	gdFISmall
	gdNEnd
	gdAcute
	gdMax // one past the highest test glyph
)

// testSource builds a Source over the test glyph set with uniform advance
// widths of 600 units.
func testSource(runes map[ot.GlyphIndex]rune, tables *subst.Tables) *Source {
	src := &Source{
		Runes:    runes,
		Tables:   tables,
		Advances: make(map[ot.GlyphIndex]int),
		Widths:   make(map[ot.GlyphIndex]int),
	}
	for g := ot.GlyphIndex(0); g < gdMax; g++ {
		src.GlyphOrder = append(src.GlyphOrder, g)
		src.Advances[g] = 600
		src.Widths[g] = 600
	}
	if _, ok := runes[gdSpace]; ok {
		src.SpaceWidth = 600
	}
	return src
}

func noTables() *subst.Tables {
	return &subst.Tables{}
}

func single(index int, mapping map[ot.GlyphIndex]ot.GlyphIndex) subst.Lookup {
	return subst.Lookup{
		Index:  index,
		Kind:   subst.KindSingle,
		Single: &subst.SingleSubst{Map: mapping},
	}
}

func feature(tag string, lookups ...int) subst.Feature {
	return subst.Feature{Tag: ot.T(tag), Lookups: lookups}
}

func tags(names ...string) []ot.Tag {
	var ts []ot.Tag
	for _, n := range names {
		ts = append(ts, ot.T(n))
	}
	return ts
}

func checkInput(t *testing.T, in Input, ok bool, features []ot.Tag, text string) {
	t.Helper()
	if !ok {
		t.Fatalf("expected input %v %q, got none", features, text)
	}
	if len(in.Features) != len(features) {
		t.Fatalf("expected features %v, got %v", features, in.Features)
	}
	for i := range features {
		if in.Features[i] != features[i] {
			t.Fatalf("expected features %v, got %v", features, in.Features)
		}
	}
	if in.Text != text {
		t.Fatalf("expected text %q, got %q", text, in.Text)
	}
}

func TestNoRulesDirectMapping(t *testing.T) {
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a'}, noTables()))
	in, ok := rsv.Resolve(gdA)
	checkInput(t, in, ok, nil, "a")
}

func TestNoInputFound(t *testing.T) {
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a'}, noTables()))
	if in, ok := rsv.Resolve(gdASmall); ok {
		t.Fatalf("expected no input for unreachable glyph, got %v", in)
	}
	// the negative outcome is memoized, a second call must agree
	if _, ok := rsv.Resolve(gdASmall); ok {
		t.Fatalf("expected memoized miss for unreachable glyph")
	}
}

func TestSmallestCodepointWins(t *testing.T) {
	// Resolver trusts the Source's reverse cmap to hold the smallest
	// preimage; ScanFont guarantees it by scanning in ascending order.
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a'}, noTables()))
	in, ok := rsv.Resolve(gdA)
	checkInput(t, in, ok, nil, "a")
}

func TestCyclicRulesNotFollowed(t *testing.T) {
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			single(0, map[ot.GlyphIndex]ot.GlyphIndex{gdZero: gdZeroOldstyle}),
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdZeroOldstyle: gdZero}),
		},
		Features: []subst.Feature{feature("onum", 0), feature("lnum", 1)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdZero: '0'}, tables))
	in, ok := rsv.Resolve(gdZeroOldstyle)
	checkInput(t, in, ok, tags("onum"), "0")
}

func TestOldstyleAfterLining(t *testing.T) {
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			single(0, map[ot.GlyphIndex]ot.GlyphIndex{gdZero: gdZeroOldstyle}),
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdZeroOldstyle: gdZero}),
		},
		Features: []subst.Feature{feature("onum", 0), feature("lnum", 1)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdZero: '0'}, tables))
	in, ok := rsv.Resolve(gdZero)
	checkInput(t, in, ok, nil, "0")
	in, ok = rsv.Resolve(gdZeroOldstyle)
	checkInput(t, in, ok, tags("onum"), "0")
}

func TestLiningAfterOldstyle(t *testing.T) {
	// resolution order must not change results via the memo cache
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			single(0, map[ot.GlyphIndex]ot.GlyphIndex{gdZero: gdZeroOldstyle}),
		},
		Features: []subst.Feature{feature("onum", 0)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdZero: '0'}, tables))
	in, ok := rsv.Resolve(gdZeroOldstyle)
	checkInput(t, in, ok, tags("onum"), "0")
	in, ok = rsv.Resolve(gdZero)
	checkInput(t, in, ok, nil, "0")
}

func TestLigatureComposition(t *testing.T) {
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindLigature,
				Ligature: &subst.LigatureSubst{Rules: []subst.LigatureRule{
					{First: gdF, Components: []ot.GlyphIndex{gdI}, Ligature: gdFISmall},
				}},
			},
		},
		Features: []subst.Feature{feature("liga", 0)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdF: 'f', gdI: 'i'}, tables))
	in, ok := rsv.Resolve(gdFISmall)
	checkInput(t, in, ok, tags("liga"), "fi")
}

func TestContextualSubstitution(t *testing.T) {
	// lookup 0: context rule "b a", activating lookup 1 at position 1
	// lookup 1: a -> A.sc, not activated by any feature directly
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindContext,
				Context: &subst.GlyphContext{
					Rules: []subst.SeqRule{
						{First: gdB, Input: []ot.GlyphIndex{gdA}, At: []subst.NestedLookup{{SequenceIndex: 1, LookupIndex: 1}}},
					},
				},
			},
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdA: gdASmall}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a', gdB: 'b'}, tables))
	in, ok := rsv.Resolve(gdASmall)
	checkInput(t, in, ok, tags("test"), "ba")
}

func TestClassContextSubstitution(t *testing.T) {
	// class 1 = {a, d}, class 2 = {b}, class 3 = {c}; rule classes 1,2,3,1
	// activates a ligature lookup at position 1: a b c -> A.sc, d b c -> D.sc
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindClassContext,
				ClassContext: &subst.ClassContext{
					Members: map[int][]ot.GlyphIndex{
						1: {gdA, gdD},
						2: {gdB},
						3: {gdC},
					},
					Rules: []subst.ClassRule{
						{FirstClass: 1, Classes: []int{2, 3, 1}, At: []subst.NestedLookup{{SequenceIndex: 1, LookupIndex: 1}}},
					},
				},
			},
			{
				Index: 1,
				Kind:  subst.KindLigature,
				Ligature: &subst.LigatureSubst{Rules: []subst.LigatureRule{
					{First: gdA, Components: []ot.GlyphIndex{gdB, gdC}, Ligature: gdASmall},
					{First: gdD, Components: []ot.GlyphIndex{gdB, gdC}, Ligature: gdDAlt},
				}},
			},
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{gdA: 'a', gdB: 'b', gdC: 'c', gdD: 'd'}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdASmall)
	checkInput(t, in, ok, tags("test"), "abca")
	in, ok = rsv.Resolve(gdDAlt)
	checkInput(t, in, ok, tags("test"), "dbca")
}

func TestChainingSubstitution(t *testing.T) {
	// chaining rule: backtrack b, input a, lookahead c; activates a -> A.sc
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindChaining,
				Chaining: &subst.GlyphChaining{
					Rules: []subst.ChainRule{
						{
							First:     gdA,
							Backtrack: []ot.GlyphIndex{gdB},
							Lookahead: []ot.GlyphIndex{gdC},
							At:        []subst.NestedLookup{{SequenceIndex: 0, LookupIndex: 1}},
						},
					},
				},
			},
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdA: gdASmall}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{gdA: 'a', gdB: 'b', gdC: 'c'}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdASmall)
	checkInput(t, in, ok, tags("test"), "bac")
}

func TestCoverageChainingSubstitution(t *testing.T) {
	// feature test activates a coverage-based chain [a e i u] f' i' n',
	// nesting a ligature lookup at 0 and a single lookup at 2
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindCoverageChaining,
				CoverageChaining: &subst.CoverageChaining{
					Backtrack: [][]ot.GlyphIndex{{gdA, gdE, gdI, gdU}},
					Input:     [][]ot.GlyphIndex{{gdF}, {gdI}, {gdN}},
					At: []subst.NestedLookup{
						{SequenceIndex: 0, LookupIndex: 1},
						{SequenceIndex: 2, LookupIndex: 2},
					},
				},
			},
			{
				Index: 1,
				Kind:  subst.KindLigature,
				Ligature: &subst.LigatureSubst{Rules: []subst.LigatureRule{
					{First: gdF, Components: []ot.GlyphIndex{gdI}, Ligature: gdFISmall},
				}},
			},
			single(2, map[ot.GlyphIndex]ot.GlyphIndex{gdN: gdNEnd}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{gdA: 'a', gdE: 'e', gdF: 'f', gdI: 'i', gdN: 'n', gdU: 'u'}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdFISmall)
	checkInput(t, in, ok, tags("test"), "afin")
	in, ok = rsv.Resolve(gdNEnd)
	checkInput(t, in, ok, tags("test"), "afin")
}

func TestContextPrecedence(t *testing.T) {
	// "substitute [a e n] d' by d.alt" compiles to a coverage-based chain
	// with one backtrack coverage; representative is the minimum member
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindCoverageChaining,
				CoverageChaining: &subst.CoverageChaining{
					Backtrack: [][]ot.GlyphIndex{{gdA, gdE, gdN}},
					Input:     [][]ot.GlyphIndex{{gdD}},
					At:        []subst.NestedLookup{{SequenceIndex: 0, LookupIndex: 1}},
				},
			},
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdD: gdDAlt}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{gdA: 'a', gdD: 'd', gdE: 'e', gdN: 'n'}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdDAlt)
	checkInput(t, in, ok, tags("test"), "ad")
}

func TestDirectMappingTakesPrecedence(t *testing.T) {
	// a is reachable both directly and through a small-caps reversal rule;
	// the empty feature set sorts first
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			single(0, map[ot.GlyphIndex]ot.GlyphIndex{gdASmall: gdA}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{gdA: 'a', gdASmall: 'A'}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdA)
	checkInput(t, in, ok, nil, "a")
}

func TestChainingBacktrackReversed(t *testing.T) {
	// "substitute [b e] [c f] a' [d g] by A.sc": backtrack coverages are
	// stored closest-first, so the input text must read "bcad"
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{
				Index: 0,
				Kind:  subst.KindCoverageChaining,
				CoverageChaining: &subst.CoverageChaining{
					Backtrack: [][]ot.GlyphIndex{{gdC, gdF}, {gdB, gdE}},
					Input:     [][]ot.GlyphIndex{{gdA}},
					Lookahead: [][]ot.GlyphIndex{{gdD, gdU}},
					At:        []subst.NestedLookup{{SequenceIndex: 0, LookupIndex: 1}},
				},
			},
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdA: gdASmall}),
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	runes := map[ot.GlyphIndex]rune{
		gdA: 'a', gdB: 'b', gdC: 'c', gdD: 'd', gdE: 'e', gdF: 'f', gdU: 'g',
	}
	rsv := New(testSource(runes, tables))
	in, ok := rsv.Resolve(gdASmall)
	checkInput(t, in, ok, tags("test"), "bcad")
}

func TestMinimalityAcrossFeatures(t *testing.T) {
	// two features produce the same glyph; 'aalt' sorts before 'zero'
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			single(0, map[ot.GlyphIndex]ot.GlyphIndex{gdZero: gdZeroOldstyle}),
			single(1, map[ot.GlyphIndex]ot.GlyphIndex{gdZero: gdZeroOldstyle}),
		},
		Features: []subst.Feature{feature("zero", 0), feature("aalt", 1)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdZero: '0'}, tables))
	in, ok := rsv.Resolve(gdZeroOldstyle)
	checkInput(t, in, ok, tags("aalt"), "0")
}

func TestUnsupportedRulesYieldNoCandidates(t *testing.T) {
	tables := &subst.Tables{
		Lookups: []subst.Lookup{
			{Index: 0, Kind: subst.KindUnsupported, Unsupported: &subst.UnsupportedRule{Type: 8, Format: 1}},
		},
		Features: []subst.Feature{feature("test", 0)},
	}
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a'}, tables))
	if _, ok := rsv.Resolve(gdASmall); ok {
		t.Fatalf("unsupported rule must not produce inputs")
	}
}

func TestResolveAllSkipsUnreachable(t *testing.T) {
	rsv := New(testSource(map[ot.GlyphIndex]rune{gdA: 'a', gdB: 'b'}, noTables()))
	count := 0
	for g, in := range rsv.ResolveAll(false) {
		if g != gdA && g != gdB {
			t.Fatalf("unexpected glyph %d in ResolveAll output", g)
		}
		if in.Text == "" {
			t.Fatalf("empty input text for glyph %d", g)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 resolvable glyphs, got %d", count)
	}
}

func TestResolveAllPadsZeroWidthGlyphs(t *testing.T) {
	src := testSource(map[ot.GlyphIndex]rune{gdSpace: ' ', gdAcute: '´'}, noTables())
	src.Advances[gdAcute] = 0
	src.Widths[gdAcute] = 1150 // ink width; ceil(1150/600) = 2 spaces
	rsv := New(src)
	var acute Input
	for g, in := range rsv.ResolveAll(true) {
		if g == gdAcute {
			acute = in
		}
	}
	if acute.Text != "  ´" {
		t.Fatalf("expected two-space padding, got %q", acute.Text)
	}
}

func TestResolveAllNoSpaceNoPadding(t *testing.T) {
	src := testSource(map[ot.GlyphIndex]rune{gdAcute: '´'}, noTables())
	src.Advances[gdAcute] = 0
	src.SpaceWidth = 0 // stripped font without a space glyph
	rsv := New(src)
	for g, in := range rsv.ResolveAll(true) {
		if g == gdAcute && in.Text != "´" {
			t.Fatalf("expected unpadded text, got %q", in.Text)
		}
	}
}

// --- Helper unit tests -----------------------------------------------------

func TestIsSublist(t *testing.T) {
	cases := []struct {
		list, sub []ot.GlyphIndex
		want      bool
	}{
		{nil, nil, true},
		{nil, []ot.GlyphIndex{1}, false},
		{[]ot.GlyphIndex{1, 2, 3}, []ot.GlyphIndex{2, 3}, true},
		{[]ot.GlyphIndex{1, 2, 3}, []ot.GlyphIndex{1, 3}, false},
	}
	for i, c := range cases {
		if got := isSublist(c.list, c.sub); got != c.want {
			t.Errorf("case %d: isSublist(%v, %v) = %v, want %v", i, c.list, c.sub, got, c.want)
		}
	}
}

func TestMinPermutation(t *testing.T) {
	lists := [][]ot.GlyphIndex{{1, 2}, {3, 4}, {5, 6}}
	cases := []struct {
		lists  [][]ot.GlyphIndex
		target []ot.GlyphIndex
		want   []ot.GlyphIndex
	}{
		{lists, []ot.GlyphIndex{2, 3}, []ot.GlyphIndex{2, 3, 5}},
		{lists, []ot.GlyphIndex{3, 6}, []ot.GlyphIndex{1, 3, 6}},
		{lists, []ot.GlyphIndex{1, 4, 5}, []ot.GlyphIndex{1, 4, 5}},
		{[][]ot.GlyphIndex{{1}, {}, {2}}, []ot.GlyphIndex{1}, nil},
	}
	for i, c := range cases {
		got := minPermutation(c.lists, c.target)
		if len(got) != len(c.want) {
			t.Errorf("case %d: minPermutation = %v, want %v", i, got, c.want)
			continue
		}
		for j := range got {
			if got[j] != c.want[j] {
				t.Errorf("case %d: minPermutation = %v, want %v", i, got, c.want)
				break
			}
		}
	}
}

func TestInputOrdering(t *testing.T) {
	cases := []struct {
		a, b Input
		less bool
	}{
		{Input{Text: "a"}, Input{Features: tags("test"), Text: "a"}, true},
		{Input{Features: tags("aalt"), Text: "x"}, Input{Features: tags("zero"), Text: "a"}, true},
		{Input{Features: tags("test"), Text: "a"}, Input{Features: tags("test"), Text: "b"}, true},
		{Input{Features: tags("test"), Text: "a"}, Input{Features: tags("test", "liga"), Text: "a"}, true},
		{Input{Features: tags("test"), Text: "a"}, Input{Features: tags("test"), Text: "a"}, false},
	}
	for i, c := range cases {
		if got := c.a.Less(c.b); got != c.less {
			t.Errorf("case %d: (%v).Less(%v) = %v, want %v", i, c.a, c.b, got, c.less)
		}
	}
}
