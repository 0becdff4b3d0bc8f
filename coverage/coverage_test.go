package coverage

import (
	"testing"
)

func TestSetBasics(t *testing.T) {
	set := NewSet()
	set.Add('a')
	set.Add('a')
	set.AddRange('x', 'z')
	if set.Len() != 4 {
		t.Fatalf("expected 4 members, got %d", set.Len())
	}
	if !set.Contains('a') || !set.Contains('y') {
		t.Errorf("expected members a and y")
	}
	if set.Contains('b') {
		t.Errorf("b must not be a member")
	}
	runes := set.Runes()
	want := []rune{'a', 'x', 'y', 'z'}
	for i, r := range want {
		if runes[i] != r {
			t.Fatalf("expected runes %q, got %q", string(want), string(runes))
		}
	}
}

func TestReversedRangeAddsNothing(t *testing.T) {
	set := NewSet()
	set.AddRange('z', 'a')
	if set.Len() != 0 {
		t.Errorf("reversed range must add nothing, got %d members", set.Len())
	}
}

func TestSetAlgebra(t *testing.T) {
	a := FromRanges(Range{'a', 'd'})
	b := FromRanges(Range{'c', 'f'})
	if u := a.Union(b); u.Len() != 6 {
		t.Errorf("union: expected 6 members, got %d", u.Len())
	}
	d := a.Difference(b)
	if d.Len() != 2 || !d.Contains('a') || !d.Contains('b') {
		t.Errorf("difference: expected {a b}, got %q", string(d.Runes()))
	}
	i := a.Intersect(b)
	if i.Len() != 2 || !i.Contains('c') || !i.Contains('d') {
		t.Errorf("intersect: expected {c d}, got %q", string(i.Runes()))
	}
}

func TestRangesCompression(t *testing.T) {
	set := NewSet()
	set.AddRange(0x41, 0x5a)
	set.Add(0x61)
	set.AddRange(0xc0, 0xc5)
	ranges := set.Ranges()
	want := []Range{{0x41, 0x5a}, {0x61, 0x61}, {0xc0, 0xc5}}
	if len(ranges) != len(want) {
		t.Fatalf("expected %d ranges, got %d: %v", len(want), len(ranges), ranges)
	}
	for i, r := range want {
		if ranges[i] != r {
			t.Errorf("range %d: expected %+v, got %+v", i, r, ranges[i])
		}
	}
}

func TestRangesRoundTrip(t *testing.T) {
	set := FromRanges(Range{0x20, 0x7e}, Range{0xa0, 0xa0})
	again := FromRanges(set.Ranges()...)
	if again.Len() != set.Len() {
		t.Fatalf("round trip changed cardinality: %d != %d", again.Len(), set.Len())
	}
	for _, r := range set.Runes() {
		if !again.Contains(r) {
			t.Fatalf("round trip lost %#x", r)
		}
	}
}

func TestEmptySetRanges(t *testing.T) {
	if ranges := NewSet().Ranges(); ranges != nil {
		t.Errorf("empty set must yield no ranges, got %v", ranges)
	}
}
