/*
Package subst models OpenType glyph-substitution rule tables (GSUB) as a
closed set of typed rule variants, decoupled from the byte-level table
formats of a font file.

The OpenType GSUB table expresses substitutions through numbered lookup
types and subtable formats. For the purposes of this toolbox only a subset
of those shapes matters: single substitutions, ligatures, contextual rules
(simple and class-based) and chaining-contextual rules (simple and
coverage-based). Package subst materializes these into plain Go values,
with coverage sets and class definitions expanded to explicit glyph slices,
so that clients like package subinput can search them without touching the
underlying font tables again.

Rule shapes outside this set (multiple/alternate substitutions, context
format 3, chaining format 2, reverse chaining) are not silently dropped:
they are recorded as Unsupported entries and can be reported.

Tables are built once per font with FromFont and are read-only afterwards.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package subst

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphtools.subst'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.subst")
}
