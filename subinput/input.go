package subinput

import (
	"strings"

	"github.com/npillmayer/opentype/ot"
)

// Input is shaping-engine input for one glyph: the feature tags to activate
// and the text to shape. Features may contain a tag more than once when
// nested derivations contributed the same feature.
type Input struct {
	Features []ot.Tag
	Text     string
}

// Less is the total order used to select among candidate inputs: feature
// slices compare lexicographically element by element (numeric tag order,
// which for 4-character ASCII tags equals string order; a shorter slice that
// is a prefix of a longer one sorts first), and equal feature slices compare
// by text, byte-wise. Byte-wise comparison of UTF-8 text equals codepoint
// order.
func (in Input) Less(other Input) bool {
	a, b := in.Features, other.Features
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return in.Text < other.Text
}

func (in Input) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range in.Features {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("] ")
	sb.WriteString(in.Text)
	return sb.String()
}

// minimal selects the least candidate by Less. The first of several equal
// minima wins, so append order never changes the outcome for distinct
// candidates.
func minimal(candidates []Input) (Input, bool) {
	if len(candidates) == 0 {
		return Input{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Less(best) {
			best = c
		}
	}
	return best, true
}
