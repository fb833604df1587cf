package edit

import (
	"testing"

	"livehl/internal/rangeset"

	"pgregory.net/rapid"
)

func TestRange(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
		in   rangeset.Range
		want rangeset.Range
	}{
		{
			name: "pure insert inside range extends it",
			edit: Edit{Location: 10, OldLength: 0, NewLength: 3},
			in:   rangeset.Range{Start: 5, End: 20},
			want: rangeset.Range{Start: 5, End: 23},
		},
		{
			name: "replacement straddling range end truncates",
			edit: Edit{Location: 5, OldLength: 10, NewLength: 2},
			in:   rangeset.Range{Start: 0, End: 8},
			want: rangeset.Range{Start: 0, End: 7},
		},
		{
			name: "edit after range leaves it alone",
			edit: Edit{Location: 30, OldLength: 4, NewLength: 1},
			in:   rangeset.Range{Start: 0, End: 8},
			want: rangeset.Range{Start: 0, End: 8},
		},
		{
			name: "deletion starting at range end leaves it alone",
			edit: Edit{Location: 8, OldLength: 2, NewLength: 0},
			in:   rangeset.Range{Start: 0, End: 8},
			want: rangeset.Range{Start: 0, End: 8},
		},
		{
			name: "insertion at range end extends it",
			edit: Edit{Location: 8, OldLength: 0, NewLength: 2},
			in:   rangeset.Range{Start: 0, End: 8},
			want: rangeset.Range{Start: 0, End: 10},
		},
		{
			name: "edit before range shifts it",
			edit: Edit{Location: 0, OldLength: 2, NewLength: 7},
			in:   rangeset.Range{Start: 10, End: 15},
			want: rangeset.Range{Start: 15, End: 20},
		},
		{
			name: "deletion ending at range start shifts it",
			edit: Edit{Location: 4, OldLength: 6, NewLength: 0},
			in:   rangeset.Range{Start: 10, End: 15},
			want: rangeset.Range{Start: 4, End: 9},
		},
		{
			name: "pure insert at range start moves it forward",
			edit: Edit{Location: 10, OldLength: 0, NewLength: 4},
			in:   rangeset.Range{Start: 10, End: 15},
			want: rangeset.Range{Start: 14, End: 19},
		},
		{
			name: "edit overlapping range head consumes it",
			edit: Edit{Location: 5, OldLength: 8, NewLength: 1},
			in:   rangeset.Range{Start: 10, End: 20},
			want: rangeset.Range{Start: 6, End: 13},
		},
		{
			name: "edit covering range collapses it",
			edit: Edit{Location: 0, OldLength: 30, NewLength: 3},
			in:   rangeset.Range{Start: 10, End: 20},
			want: rangeset.Range{Start: 3, End: 3},
		},
		{
			name: "replacement inside range",
			edit: Edit{Location: 12, OldLength: 3, NewLength: 1},
			in:   rangeset.Range{Start: 10, End: 20},
			want: rangeset.Range{Start: 10, End: 18},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.edit.Range(tc.in); got != tc.want {
				t.Fatalf("%v.Range(%v) = %v, want %v", tc.edit, tc.in, got, tc.want)
			}
		})
	}
}

func TestFromNotification(t *testing.T) {
	e, ok := FromNotification(rangeset.Range{Start: 3, End: 16}, 13)
	if !ok {
		t.Fatalf("FromNotification rejected a valid insertion")
	}
	if e != (Edit{Location: 3, OldLength: 0, NewLength: 13}) {
		t.Fatalf("edit = %v", e)
	}

	e, ok = FromNotification(rangeset.Range{Start: 4, End: 4}, -3)
	if !ok || e != (Edit{Location: 4, OldLength: 3, NewLength: 0}) {
		t.Fatalf("deletion edit = %v %v", e, ok)
	}

	if !rangeset.Debug {
		if _, ok := FromNotification(rangeset.Range{Start: 4, End: 5}, 3); ok {
			t.Fatalf("delta larger than edited range should be rejected")
		}
	}
}

func TestOffset(t *testing.T) {
	e := Edit{Location: 10, OldLength: 5, NewLength: 2}
	tests := map[int]int{0: 0, 9: 9, 10: 10, 12: 12, 14: 12, 15: 12, 20: 17}
	for in, want := range tests {
		if got := e.Offset(in); got != want {
			t.Fatalf("Offset(%d) = %d, want %d", in, got, want)
		}
	}

	ins := Edit{Location: 10, OldLength: 0, NewLength: 3}
	if got := ins.Offset(10); got != 13 {
		t.Fatalf("insertion Offset(10) = %d, want 13", got)
	}
}

func TestBytesScalesUniformly(t *testing.T) {
	e := Edit{Location: 3, OldLength: 4, NewLength: 1}
	b, ok := e.Bytes(2)
	if !ok {
		t.Fatalf("Bytes rejected a valid edit")
	}
	if b != (ByteEdit{StartByte: 6, OldEndByte: 14, NewEndByte: 8}) {
		t.Fatalf("byte edit = %+v", b)
	}
	if back := b.Units(2); back != e {
		t.Fatalf("Units round trip = %v, want %v", back, e)
	}
}

func TestSetRemap(t *testing.T) {
	s := rangeset.Of(rangeset.Range{Start: 0, End: 5}, rangeset.Range{Start: 10, End: 15})
	Edit{Location: 7, OldLength: 0, NewLength: 3}.Set(&s)
	want := rangeset.Of(rangeset.Range{Start: 0, End: 5}, rangeset.Range{Start: 13, End: 18})
	if !s.Equal(want) {
		t.Fatalf("remapped = %v, want %v", s, want)
	}
}

func TestRangeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 100).Draw(rt, "a")
		b := rapid.IntRange(0, 100).Draw(rt, "b")
		r := rangeset.Range{Start: min(a, b), End: max(a, b)}
		e := Edit{
			Location:  rapid.IntRange(0, 100).Draw(rt, "loc"),
			OldLength: rapid.IntRange(0, 20).Draw(rt, "old"),
			NewLength: rapid.IntRange(0, 20).Draw(rt, "new"),
		}

		got := e.Range(r)
		if got.Start < 0 || got.End < got.Start {
			rt.Fatalf("%v.Range(%v) = %v is malformed", e, r, got)
		}
		if r.End < e.Location && got != r {
			rt.Fatalf("range before edit moved: %v -> %v", r, got)
		}
		if r.Start > e.OldEnd() && got != (rangeset.Range{Start: r.Start + e.Delta(), End: r.End + e.Delta()}) {
			rt.Fatalf("range after edit not shifted by %d: %v -> %v", e.Delta(), r, got)
		}
		if e.IsPureInsertion() && r.Contains(e.Location) && e.Location > r.Start && got.Len() != r.Len()+e.NewLength {
			rt.Fatalf("insertion inside %v should grow it by %d, got %v", r, e.NewLength, got)
		}
	})
}
