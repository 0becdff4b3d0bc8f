package subinput

import (
	"iter"
	"strings"

	"github.com/npillmayer/glyphtools/subst"
	"github.com/npillmayer/opentype/ot"
)

// Resolver computes minimal shaping input for glyphs of one font. It owns a
// memo cache which is populated as glyphs are resolved; instances are not
// safe for concurrent use.
type Resolver struct {
	src  *Source
	memo map[ot.GlyphIndex]memoEntry
}

type memoEntry struct {
	input Input
	ok    bool
}

// seenSet tracks the glyphs on the active resolution stack, to cut cycles
// through mutually substituting features.
type seenSet map[ot.GlyphIndex]struct{}

// ctxKey guards against re-entering a context resolution for the same
// (lookup, glyph sequence) pair while it is still active. Fonts have no
// legitimate way to express such a cycle, but a defect in a rule table must
// not hang the resolver.
type ctxKey struct {
	target int
	seq    string
}

// New creates a Resolver bound to src. The source must not be mutated for
// the lifetime of the resolver.
func New(src *Source) *Resolver {
	return &Resolver{
		src:  src,
		memo: make(map[ot.GlyphIndex]memoEntry),
	}
}

// Resolve returns the minimal (features, text) input that makes a shaping
// engine produce glyph g, or ok=false if no character mapping and no
// substitution path reaches the glyph. Unreachable glyphs are a normal
// outcome, not an error.
//
// Among all discoverable derivations the minimum by Input.Less is returned,
// so results are reproducible for a fixed font.
func (rsv *Resolver) Resolve(g ot.GlyphIndex) (Input, bool) {
	return rsv.resolve(g, make(seenSet))
}

func (rsv *Resolver) resolve(g ot.GlyphIndex, seen seenSet) (Input, bool) {
	if entry, hit := rsv.memo[g]; hit {
		return entry.input, entry.ok
	}
	if _, active := seen[g]; active {
		return Input{}, false // cyclic branch, contributes no candidate
	}
	seen[g] = struct{}{}
	var candidates []Input
	if r, ok := rsv.src.Runes[g]; ok { // simple unicode mapping
		candidates = append(candidates, Input{Text: string(r)})
	}
	candidates = append(candidates, rsv.inputsFromRules(g, seen)...)
	delete(seen, g)
	if best, ok := minimal(candidates); ok {
		rsv.memo[g] = memoEntry{input: best, ok: true}
		return best, true
	}
	// A failure under a non-empty seen set may be cycle-induced and would
	// poison the cache for other call paths; only top-level failures are
	// definitive.
	if len(seen) == 0 {
		rsv.memo[g] = memoEntry{}
	}
	return Input{}, false
}

// inputsFromRules collects candidate inputs from every substitution rule that
// produces g: single substitutions contribute their source glyph, ligatures
// their component sequence. Each candidate sequence is then contextualized,
// because an un-contextualized substitution may never fire during real
// shaping.
func (rsv *Resolver) inputsFromRules(g ot.GlyphIndex, seen seenSet) []Input {
	var inputs []Input
	for _, lookup := range rsv.src.Tables.Lookups {
		switch lookup.Kind {
		case subst.KindSingle:
			for from, to := range lookup.Single.Map {
				if to != g {
					continue
				}
				if in, ok := rsv.contextualize([]ot.GlyphIndex{from}, lookup.Index, seen, make(map[ctxKey]bool)); ok {
					inputs = append(inputs, in)
				}
			}
		case subst.KindLigature:
			for _, rule := range lookup.Ligature.Rules {
				if rule.Ligature != g {
					continue
				}
				glyphs := make([]ot.GlyphIndex, 0, 1+len(rule.Components))
				glyphs = append(glyphs, rule.First)
				glyphs = append(glyphs, rule.Components...)
				if in, ok := rsv.contextualize(glyphs, lookup.Index, seen, make(map[ctxKey]bool)); ok {
					inputs = append(inputs, in)
				}
			}
		}
	}
	return inputs
}

// contextualize finds input that makes a shaper apply lookup #target to the
// glyph sequence glyphs. Two kinds of derivation are pooled: a feature that
// activates the target lookup directly, and contextual or chaining rules
// whose nested lookup records reach the target, in which case the fuller
// sequence implied by the rule is contextualized recursively.
func (rsv *Resolver) contextualize(glyphs []ot.GlyphIndex, target int, seen seenSet, visited map[ctxKey]bool) (Input, bool) {
	key := ctxKey{target: target, seq: glyphKey(glyphs)}
	if visited[key] {
		return Input{}, false
	}
	visited[key] = true
	defer delete(visited, key)
	var candidates []Input
	for _, feature := range rsv.src.Tables.Features {
		if !feature.ActivatesLookup(target) {
			continue
		}
		if in, ok := rsv.sequenceInput(glyphs, feature.Tag, seen); ok {
			candidates = append(candidates, in)
		}
	}
	for _, lookup := range rsv.src.Tables.Lookups {
		switch lookup.Kind {
		case subst.KindContext:
			candidates = append(candidates, rsv.fromContext(lookup, glyphs, target, seen, visited)...)
		case subst.KindClassContext:
			candidates = append(candidates, rsv.fromClassContext(lookup, glyphs, target, seen, visited)...)
		case subst.KindChaining:
			candidates = append(candidates, rsv.fromChaining(lookup, glyphs, target, seen, visited)...)
		case subst.KindCoverageChaining:
			candidates = append(candidates, rsv.fromCoverageChaining(lookup, glyphs, target, seen, visited)...)
		}
	}
	return minimal(candidates)
}

// fromContext derives inputs from simple context rules (GSUB 5.1) that
// activate the target lookup.
func (rsv *Resolver) fromContext(lookup subst.Lookup, glyphs []ot.GlyphIndex, target int, seen seenSet, visited map[ctxKey]bool) []Input {
	var inputs []Input
	for _, rule := range lookup.Context.Rules {
		if !activates(rule.At, target) {
			continue
		}
		input := prepend(rule.First, rule.Input)
		if !isSublist(input, glyphs) {
			continue
		}
		if in, ok := rsv.contextualize(input, lookup.Index, seen, visited); ok {
			inputs = append(inputs, in)
		}
	}
	return inputs
}

// fromClassContext derives inputs from class-based context rules (GSUB 5.2).
// One representative glyph is selected per class such that the target
// sequence stays a contiguous sublist of the representative sequence.
func (rsv *Resolver) fromClassContext(lookup subst.Lookup, glyphs []ot.GlyphIndex, target int, seen seenSet, visited map[ctxKey]bool) []Input {
	var inputs []Input
	ctx := lookup.ClassContext
	for _, rule := range ctx.Rules {
		lists := make([][]ot.GlyphIndex, 0, 1+len(rule.Classes))
		lists = append(lists, ctx.Members[rule.FirstClass])
		for _, class := range rule.Classes {
			lists = append(lists, ctx.Members[class])
		}
		input := minPermutation(lists, glyphs)
		if !activates(rule.At, target) || !isSublist(input, glyphs) {
			continue
		}
		if in, ok := rsv.contextualize(input, lookup.Index, seen, visited); ok {
			inputs = append(inputs, in)
		}
	}
	return inputs
}

// fromChaining derives inputs from simple chaining rules (GSUB 6.1).
// Backtrack glyphs are stored closest-first and are prepended in reverse;
// lookahead glyphs are appended. Both must match during shaping but are not
// substituted themselves.
func (rsv *Resolver) fromChaining(lookup subst.Lookup, glyphs []ot.GlyphIndex, target int, seen seenSet, visited map[ctxKey]bool) []Input {
	var inputs []Input
	for _, rule := range lookup.Chaining.Rules {
		if !activates(rule.At, target) {
			continue
		}
		input := prepend(rule.First, rule.Input)
		if !isSublist(input, glyphs) {
			continue
		}
		if len(rule.Lookahead) > 0 {
			input = append(input, rule.Lookahead...)
		}
		if len(rule.Backtrack) > 0 {
			input = append(reversed(rule.Backtrack), input...)
		}
		if in, ok := rsv.contextualize(input, lookup.Index, seen, visited); ok {
			inputs = append(inputs, in)
		}
	}
	return inputs
}

// fromCoverageChaining derives inputs from coverage-based chaining rules
// (GSUB 6.3). Representatives for backtrack and lookahead positions are the
// minimum member of each coverage.
func (rsv *Resolver) fromCoverageChaining(lookup subst.Lookup, glyphs []ot.GlyphIndex, target int, seen seenSet, visited map[ctxKey]bool) []Input {
	chain := lookup.CoverageChaining
	input := minPermutation(chain.Input, glyphs)
	if !activates(chain.At, target) || !isSublist(input, glyphs) {
		return nil
	}
	for _, cov := range chain.Lookahead {
		g, ok := minGlyph(cov)
		if !ok {
			return nil
		}
		input = append(input, g)
	}
	if len(chain.Backtrack) > 0 {
		bt := make([]ot.GlyphIndex, 0, len(chain.Backtrack))
		for i := len(chain.Backtrack) - 1; i >= 0; i-- { // closest-first order reversed
			g, ok := minGlyph(chain.Backtrack[i])
			if !ok {
				return nil
			}
			bt = append(bt, g)
		}
		input = append(bt, input...)
	}
	if in, ok := rsv.contextualize(input, lookup.Index, seen, visited); ok {
		return []Input{in}
	}
	return nil
}

// sequenceInput resolves every glyph of a sequence to its own minimal input
// and concatenates, tagged with the activating feature. Nested features are
// appended in sequence order.
func (rsv *Resolver) sequenceInput(glyphs []ot.GlyphIndex, feature ot.Tag, seen seenSet) (Input, bool) {
	features := []ot.Tag{feature}
	var text strings.Builder
	for _, g := range glyphs {
		in, ok := rsv.resolve(g, seen)
		if !ok {
			return Input{}, false
		}
		features = append(features, in.Features...)
		text.WriteString(in.Text)
	}
	return Input{Features: features, Text: text.String()}, true
}

// ResolveAll resolves every glyph of the font in glyph order, yielding
// (glyph, input) pairs. Unreachable glyphs are traced and skipped. With pad
// set, the text of zero-advance glyphs (combining marks) is left-padded with
// enough spaces to cover the glyph's ink width; padding is skipped when the
// font has no space glyph. The sequence is lazy and single-use.
func (rsv *Resolver) ResolveAll(pad bool) iter.Seq2[ot.GlyphIndex, Input] {
	return func(yield func(ot.GlyphIndex, Input) bool) {
		for _, g := range rsv.src.GlyphOrder {
			in, ok := rsv.Resolve(g)
			if !ok {
				tracer().Infof("no input found for glyph %d (unreachable?)", g)
				continue
			}
			if pad && rsv.src.Advances[g] == 0 && rsv.src.SpaceWidth > 0 {
				in.Text = strings.Repeat(" ", padCount(rsv.src.Widths[g], rsv.src.SpaceWidth)) + in.Text
			}
			if !yield(g, in) {
				return
			}
		}
	}
}

// padCount is ceil(width/space).
func padCount(width, space int) int {
	n := width / space
	if width%space != 0 {
		n++
	}
	return n
}

// --- Sequence helpers ------------------------------------------------------

func activates(nested []subst.NestedLookup, target int) bool {
	for _, n := range nested {
		if n.LookupIndex == target {
			return true
		}
	}
	return false
}

func prepend(first ot.GlyphIndex, rest []ot.GlyphIndex) []ot.GlyphIndex {
	out := make([]ot.GlyphIndex, 0, 1+len(rest))
	out = append(out, first)
	return append(out, rest...)
}

func reversed(glyphs []ot.GlyphIndex) []ot.GlyphIndex {
	out := make([]ot.GlyphIndex, len(glyphs))
	for i, g := range glyphs {
		out[len(glyphs)-1-i] = g
	}
	return out
}

// isSublist reports whether sub occurs as a contiguous sublist of list.
func isSublist(list, sub []ot.GlyphIndex) bool {
	if len(sub) == 0 {
		return true
	}
outer:
	for i := 0; i+len(sub) <= len(list); i++ {
		for j := range sub {
			if list[i+j] != sub[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

// minPermutation deterministically selects one glyph from each list such that
// target occurs in the result, preferring target glyphs in order and falling
// back to the minimum member. Returns nil when a list is empty or target
// glyphs are left over.
func minPermutation(lists [][]ot.GlyphIndex, target []ot.GlyphIndex) []ot.GlyphIndex {
	res := make([]ot.GlyphIndex, 0, len(lists))
	j := 0
	for _, list := range lists {
		if len(list) == 0 {
			return nil
		}
		if j < len(target) && containsGlyph(list, target[j]) {
			res = append(res, target[j])
			j++
			continue
		}
		g, _ := minGlyph(list)
		res = append(res, g)
	}
	if j < len(target) {
		return nil
	}
	return res
}

func containsGlyph(list []ot.GlyphIndex, g ot.GlyphIndex) bool {
	for _, m := range list {
		if m == g {
			return true
		}
	}
	return false
}

func minGlyph(list []ot.GlyphIndex) (ot.GlyphIndex, bool) {
	if len(list) == 0 {
		return 0, false
	}
	min := list[0]
	for _, g := range list[1:] {
		if g < min {
			min = g
		}
	}
	return min, true
}

// glyphKey encodes a glyph sequence as a comparable string.
func glyphKey(glyphs []ot.GlyphIndex) string {
	var sb strings.Builder
	sb.Grow(len(glyphs) * 2)
	for _, g := range glyphs {
		sb.WriteByte(byte(g >> 8))
		sb.WriteByte(byte(g))
	}
	return sb.String()
}
