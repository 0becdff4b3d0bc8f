/*
Package unirange reads and writes the compact hex range syntax for code
point sets used by font production reports, e.g. "0041-005a 0061 00c0-00c5".
Values are hexadecimal without a prefix, ranges are inclusive.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package unirange

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/glyphtools/coverage"
)

// Parse reads a range string into a code point set. Duplicate values and
// reversed ranges are errors, as they point to a corrupt report.
func Parse(s string) (*coverage.Set, error) {
	set := coverage.NewSet()
	for _, field := range strings.Fields(s) {
		lo, hi, err := parseField(field)
		if err != nil {
			return nil, err
		}
		for r := lo; r <= hi; r++ {
			if set.Contains(r) {
				return nil, fmt.Errorf("duplicate code point %04x in %q", r, field)
			}
			set.Add(r)
		}
	}
	return set, nil
}

func parseField(field string) (lo, hi rune, err error) {
	lostr, histr, isRange := strings.Cut(field, "-")
	if lo, err = parseHex(lostr); err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	if hi, err = parseHex(histr); err != nil {
		return 0, 0, err
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("reversed range %q", field)
	}
	return lo, hi, nil
}

func parseHex(s string) (rune, error) {
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("not a hex code point: %q", s)
	}
	if n > unicode.MaxRune {
		return 0, fmt.Errorf("code point %x out of range", n)
	}
	return rune(n), nil
}

// Write formats a set as a minimal sorted range string, the inverse of Parse.
// Singleton ranges come out as single values.
func Write(set *coverage.Set) string {
	var sb strings.Builder
	for i, r := range set.Ranges() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if r.Lo == r.Hi {
			fmt.Fprintf(&sb, "%04x", r.Lo)
		} else {
			fmt.Fprintf(&sb, "%04x-%04x", r.Lo, r.Hi)
		}
	}
	return sb.String()
}
