/*
Package subinput infers shaping-engine input for glyphs of a font.

Glyphs of production fonts are frequently unreachable by simply typing a
character: ligatures, small caps, oldstyle figures or contextual alternates
only appear after the shaping engine has applied substitution rules. For
testing and proofing pipelines one nevertheless wants, for every glyph of a
font, some input text (plus the OpenType features to activate) that makes a
shaper produce exactly that glyph.

A Resolver answers this question. It is bound to an immutable Source
snapshot of one font (glyph order, reverse character map, advance widths
and the materialized substitution rules of package subst) and searches the
rule tables recursively: a glyph is reachable either directly through the
character map, or as the output of a single or ligature substitution whose
input glyphs are themselves reachable and whose lookup is activated by a
feature or by a contextual rule. Cycles between substitution rules are cut
off, and among all derivations the lexicographically minimal
(features, text) pair is selected, so results are reproducible.

Resolvers memoize per-glyph results and are not safe for concurrent use.
A Source is read-only and may be shared; create one Resolver per goroutine.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package subinput

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphtools.input'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.input")
}
