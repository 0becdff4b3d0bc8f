/*
Package coverage does character-coverage bookkeeping for fonts: which
Unicode code points a font's character map supports, kept as an ordered set
with the usual set algebra and a conversion to and from inclusive code
point ranges.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package coverage

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glyphtools.coverage'
func tracer() tracing.Trace {
	return tracing.Select("glyphtools.coverage")
}
