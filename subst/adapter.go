package subst

import (
	"errors"

	"github.com/npillmayer/opentype/ot"
	"github.com/npillmayer/opentype/otquery"
)

// FromFont materializes the GSUB rule tables of a parsed font into Tables.
// A font without a GSUB table yields empty Tables, which is not an error.
// Lookup subtables with shapes outside the supported variants are recorded as
// unsupported entries rather than dropped.
//
// Coverage sets and class definitions are materialized by scanning the
// glyph-ID space of the font, so construction cost is proportional to the
// number of glyphs times the number of rule positions. Tables are meant to be
// built once per font and reused.
func FromFont(otf *ot.Font) (*Tables, error) {
	if otf == nil {
		return nil, errors.New("no font given")
	}
	tables := &Tables{}
	gsub := otf.Layout.GSub
	if gsub == nil {
		tracer().Infof("font has no GSUB table")
		return tables, nil
	}
	maxp, ok := otquery.MaxPInfo(otf)
	if !ok {
		return nil, errors.New("font has no readable maxp table")
	}
	numGlyphs := int(maxp.NumGlyphs)
	if fl := gsub.FeatureGraph(); fl != nil {
		for tag, feature := range fl.Range() {
			if feature == nil {
				continue
			}
			indices := make([]int, 0, feature.LookupCount())
			for i := 0; i < feature.LookupCount(); i++ {
				indices = append(indices, feature.LookupIndex(i))
			}
			tables.Features = append(tables.Features, Feature{Tag: tag, Lookups: indices})
		}
	}
	lg := gsub.LookupGraph()
	for i, lookup := range lg.Range() {
		if lookup == nil {
			continue
		}
		if err := lookup.Error(); err != nil {
			tracer().Errorf("GSUB lookup %d unreadable: %v", i, err)
			tables.Lookups = append(tables.Lookups, unsupported(i, uint16(lookup.Type), 0))
			continue
		}
		for _, node := range lookup.Range() {
			tables.Lookups = append(tables.Lookups, lookupFromNode(i, node, numGlyphs))
		}
	}
	if report := tables.Unsupported(); len(report) > 0 {
		tracer().Infof("font has %d unsupported GSUB rule shapes", len(report))
	}
	return tables, nil
}

func unsupported(index int, ltype, format uint16) Lookup {
	return Lookup{
		Index:       index,
		Kind:        KindUnsupported,
		Unsupported: &UnsupportedRule{Type: ltype, Format: format},
	}
}

// lookupFromNode converts one lookup subtable into a typed Lookup entry.
// Several entries may share an Index when a lookup has multiple subtables.
func lookupFromNode(index int, node *ot.LookupNode, numGlyphs int) Lookup {
	if node == nil {
		return unsupported(index, 0, 0)
	}
	if err := node.Error(); err != nil {
		tracer().Errorf("GSUB lookup %d subtable unreadable: %v", index, err)
		return unsupported(index, uint16(node.LookupType), node.Format)
	}
	payload := node.GSubPayload()
	if payload == nil {
		return unsupported(index, uint16(node.LookupType), node.Format)
	}
	// Extension subtables wrap a resolved node of the actual type.
	if payload.ExtensionFmt1 != nil {
		if resolved := payload.ExtensionFmt1.Resolved; resolved != nil {
			return lookupFromNode(index, resolved, numGlyphs)
		}
		return unsupported(index, uint16(node.LookupType), node.Format)
	}
	switch {
	case payload.SingleFmt1 != nil:
		return singleFromDelta(index, node, payload.SingleFmt1, numGlyphs)
	case payload.SingleFmt2 != nil:
		return singleFromArray(index, node, payload.SingleFmt2, numGlyphs)
	case payload.LigatureFmt1 != nil:
		return ligatureFromSets(index, node, payload.LigatureFmt1, numGlyphs)
	case payload.ContextFmt1 != nil:
		return contextFromRules(index, node, payload.ContextFmt1, numGlyphs)
	case payload.ContextFmt2 != nil:
		return contextFromClasses(index, payload.ContextFmt2, numGlyphs)
	case payload.ChainingContextFmt1 != nil:
		return chainingFromRules(index, node, payload.ChainingContextFmt1, numGlyphs)
	case payload.ChainingContextFmt3 != nil:
		return chainingFromCoverages(index, payload.ChainingContextFmt3, numGlyphs)
	}
	return unsupported(index, uint16(node.LookupType), node.Format)
}

func singleFromDelta(index int, node *ot.LookupNode, p *ot.GSubSingleFmt1Payload, numGlyphs int) Lookup {
	members := coverageMembers(node.Coverage, numGlyphs)
	mapping := make(map[ot.GlyphIndex]ot.GlyphIndex, len(members))
	for _, g := range members {
		mapping[g] = ot.GlyphIndex(int(g) + int(p.DeltaGlyphID))
	}
	return Lookup{Index: index, Kind: KindSingle, Single: &SingleSubst{Map: mapping}}
}

func singleFromArray(index int, node *ot.LookupNode, p *ot.GSubSingleFmt2Payload, numGlyphs int) Lookup {
	members := coverageMembers(node.Coverage, numGlyphs)
	mapping := make(map[ot.GlyphIndex]ot.GlyphIndex, len(members))
	for _, g := range members {
		inx, ok := node.Coverage.Match(g)
		if !ok || inx < 0 || inx >= len(p.SubstituteGlyphIDs) {
			continue
		}
		mapping[g] = p.SubstituteGlyphIDs[inx]
	}
	return Lookup{Index: index, Kind: KindSingle, Single: &SingleSubst{Map: mapping}}
}

func ligatureFromSets(index int, node *ot.LookupNode, p *ot.GSubLigatureFmt1Payload, numGlyphs int) Lookup {
	members := coverageMembers(node.Coverage, numGlyphs)
	lig := &LigatureSubst{}
	for si, set := range p.LigatureSets {
		if si >= len(members) {
			break
		}
		for _, rule := range set {
			lig.Rules = append(lig.Rules, LigatureRule{
				First:      members[si],
				Components: rule.Components,
				Ligature:   rule.Ligature,
			})
		}
	}
	return Lookup{Index: index, Kind: KindLigature, Ligature: lig}
}

func contextFromRules(index int, node *ot.LookupNode, p *ot.GSubContextFmt1Payload, numGlyphs int) Lookup {
	members := coverageMembers(node.Coverage, numGlyphs)
	ctx := &GlyphContext{}
	for si, set := range p.RuleSets {
		if si >= len(members) {
			break
		}
		for _, rule := range set {
			ctx.Rules = append(ctx.Rules, SeqRule{
				First: members[si],
				Input: rule.InputGlyphs,
				At:    nestedLookups(rule.Records),
			})
		}
	}
	return Lookup{Index: index, Kind: KindContext, Context: ctx}
}

func contextFromClasses(index int, p *ot.GSubContextFmt2Payload, numGlyphs int) Lookup {
	ctx := &ClassContext{
		Members: classMembers(&p.ClassDef, numGlyphs),
	}
	// rule-set position is the class of the first input glyph
	for si, set := range p.RuleSets {
		for _, rule := range set {
			classes := make([]int, len(rule.InputClasses))
			for i, c := range rule.InputClasses {
				classes[i] = int(c)
			}
			ctx.Rules = append(ctx.Rules, ClassRule{
				FirstClass: si,
				Classes:    classes,
				At:         nestedLookups(rule.Records),
			})
		}
	}
	return Lookup{Index: index, Kind: KindClassContext, ClassContext: ctx}
}

func chainingFromRules(index int, node *ot.LookupNode, p *ot.GSubChainingContextFmt1Payload, numGlyphs int) Lookup {
	members := coverageMembers(node.Coverage, numGlyphs)
	chain := &GlyphChaining{}
	for si, set := range p.RuleSets {
		if si >= len(members) {
			break
		}
		for _, rule := range set {
			chain.Rules = append(chain.Rules, ChainRule{
				First:     members[si],
				Backtrack: rule.Backtrack,
				Input:     rule.Input,
				Lookahead: rule.Lookahead,
				At:        nestedLookups(rule.Records),
			})
		}
	}
	return Lookup{Index: index, Kind: KindChaining, Chaining: chain}
}

func chainingFromCoverages(index int, p *ot.GSubChainingContextFmt3Payload, numGlyphs int) Lookup {
	chain := &CoverageChaining{
		Backtrack: coverageLists(p.BacktrackCoverages, numGlyphs),
		Input:     coverageLists(p.InputCoverages, numGlyphs),
		Lookahead: coverageLists(p.LookaheadCoverages, numGlyphs),
		At:        nestedLookups(p.Records),
	}
	return Lookup{Index: index, Kind: KindCoverageChaining, CoverageChaining: chain}
}

func nestedLookups(records []ot.SequenceLookupRecord) []NestedLookup {
	if len(records) == 0 {
		return nil
	}
	nested := make([]NestedLookup, len(records))
	for i, rec := range records {
		nested[i] = NestedLookup{
			SequenceIndex: int(rec.SequenceIndex),
			LookupIndex:   int(rec.LookupListIndex),
		}
	}
	return nested
}

// coverageMembers lists the glyphs of a coverage in ascending order. The
// coverage tables of the underlying font library only answer membership
// queries, so the glyph-ID space is scanned.
func coverageMembers(cov ot.Coverage, numGlyphs int) []ot.GlyphIndex {
	var members []ot.GlyphIndex
	for g := 0; g < numGlyphs; g++ {
		if cov.Contains(ot.GlyphIndex(g)) {
			members = append(members, ot.GlyphIndex(g))
		}
	}
	return members
}

func coverageLists(covs []ot.Coverage, numGlyphs int) [][]ot.GlyphIndex {
	if len(covs) == 0 {
		return nil
	}
	lists := make([][]ot.GlyphIndex, len(covs))
	for i, cov := range covs {
		lists[i] = coverageMembers(cov, numGlyphs)
	}
	return lists
}

// classMembers lists the glyphs of each non-zero class, ascending. Class 0 is
// the implicit catch-all and is deliberately left without members: a rule
// position referencing it cannot nominate a representative glyph.
func classMembers(cdef *ot.ClassDefinitions, numGlyphs int) map[int][]ot.GlyphIndex {
	members := make(map[int][]ot.GlyphIndex)
	for g := 0; g < numGlyphs; g++ {
		if class := cdef.Lookup(ot.GlyphIndex(g)); class > 0 {
			members[class] = append(members[class], ot.GlyphIndex(g))
		}
	}
	return members
}
