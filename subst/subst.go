package subst

import (
	"fmt"

	"github.com/npillmayer/opentype/ot"
)

// LookupKind enumerates the rule variants a Lookup may carry.
type LookupKind int

const (
	KindUnsupported LookupKind = iota
	KindSingle
	KindLigature
	KindContext
	KindClassContext
	KindChaining
	KindCoverageChaining
)

func (k LookupKind) String() string {
	switch k {
	case KindSingle:
		return "Single"
	case KindLigature:
		return "Ligature"
	case KindContext:
		return "Context"
	case KindClassContext:
		return "ClassContext"
	case KindChaining:
		return "Chaining"
	case KindCoverageChaining:
		return "CoverageChaining"
	}
	return "Unsupported"
}

// NestedLookup identifies a lookup activated at a position within a matched
// input sequence (OpenType SequenceLookupRecord).
type NestedLookup struct {
	SequenceIndex int
	LookupIndex   int
}

// Lookup is one GSUB lookup, reduced to a typed rule variant. Exactly one of
// the payload pointers is non-nil; Kind names which. An unsupported lookup
// keeps its Unsupported payload so that the gap can be reported instead of
// vanishing.
type Lookup struct {
	Index int
	Kind  LookupKind

	Single           *SingleSubst
	Ligature         *LigatureSubst
	Context          *GlyphContext
	ClassContext     *ClassContext
	Chaining         *GlyphChaining
	CoverageChaining *CoverageChaining
	Unsupported      *UnsupportedRule
}

// SingleSubst is a one-to-one glyph replacement (GSUB type 1, both formats
// materialized to an explicit mapping).
type SingleSubst struct {
	Map map[ot.GlyphIndex]ot.GlyphIndex
}

// LigatureRule collapses First followed by Components into Ligature.
// Components does not include First.
type LigatureRule struct {
	First      ot.GlyphIndex
	Components []ot.GlyphIndex
	Ligature   ot.GlyphIndex
}

// LigatureSubst is a many-to-one substitution (GSUB type 4).
type LigatureSubst struct {
	Rules []LigatureRule
}

// SeqRule is one simple-context rule: the full input sequence starting with
// First (the coverage glyph of the rule set the rule came from) and the
// nested lookups to activate on a match.
type SeqRule struct {
	First ot.GlyphIndex
	Input []ot.GlyphIndex
	At    []NestedLookup
}

// GlyphContext is a simple contextual lookup (GSUB 5.1), flattened over all
// rule sets. The pairing of coverage glyph and rule set is kept per rule.
type GlyphContext struct {
	Rules []SeqRule
}

// ClassRule is one class-based context rule. FirstClass is the class of the
// first input glyph (the rule-set position the rule came from); Classes holds
// the classes of the remaining input glyphs.
type ClassRule struct {
	FirstClass int
	Classes    []int
	At         []NestedLookup
}

// ClassContext is a class-based contextual lookup (GSUB 5.2). Members maps a
// class number to its glyphs in ascending order; class 0 (the catch-all) has
// no materialized members and yields no candidates.
type ClassContext struct {
	Members map[int][]ot.GlyphIndex
	Rules   []ClassRule
}

// ChainRule is one simple-chaining rule. First is the coverage glyph of the
// rule set the rule came from and starts the input sequence; Input holds the
// remaining input glyphs. Backtrack is kept in table order, i.e. closest
// glyph first.
type ChainRule struct {
	First     ot.GlyphIndex
	Backtrack []ot.GlyphIndex
	Input     []ot.GlyphIndex
	Lookahead []ot.GlyphIndex
	At        []NestedLookup
}

// GlyphChaining is a simple chaining-context lookup (GSUB 6.1), flattened
// over all rule sets.
type GlyphChaining struct {
	Rules []ChainRule
}

// CoverageChaining is a coverage-based chaining-context lookup (GSUB 6.3).
// Each position holds the coverage members for that position, ascending.
// Backtrack coverages are in table order (closest first).
type CoverageChaining struct {
	Backtrack [][]ot.GlyphIndex
	Input     [][]ot.GlyphIndex
	Lookahead [][]ot.GlyphIndex
	At        []NestedLookup
}

// UnsupportedRule records a lookup type/format combination outside the closed
// variant set.
type UnsupportedRule struct {
	Type   uint16
	Format uint16
}

func (u UnsupportedRule) String() string {
	return fmt.Sprintf("GSUB %d.%d", u.Type, u.Format)
}

// Feature is a named activator for a list of lookups, identified by position
// in the lookup list.
type Feature struct {
	Tag     ot.Tag
	Lookups []int
}

// ActivatesLookup reports whether the feature turns on lookup inx.
func (f Feature) ActivatesLookup(inx int) bool {
	for _, i := range f.Lookups {
		if i == inx {
			return true
		}
	}
	return false
}

// Tables holds the materialized substitution rules and features of one font.
// Instances are immutable after construction.
type Tables struct {
	Lookups  []Lookup
	Features []Feature
}

// Unsupported lists the rule shapes that were present in the font but fall
// outside the supported variants, one entry per affected lookup subtable.
func (t *Tables) Unsupported() []string {
	if t == nil {
		return nil
	}
	var report []string
	for _, lookup := range t.Lookups {
		if lookup.Kind == KindUnsupported && lookup.Unsupported != nil {
			report = append(report, fmt.Sprintf("lookup %d: %s", lookup.Index, lookup.Unsupported))
		}
	}
	return report
}

// FeaturesActivating returns the features that directly activate lookup inx,
// in feature-list order.
func (t *Tables) FeaturesActivating(inx int) []Feature {
	if t == nil {
		return nil
	}
	var feats []Feature
	for _, f := range t.Features {
		if f.ActivatesLookup(inx) {
			feats = append(feats, f)
		}
	}
	return feats
}
