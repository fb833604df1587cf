package document

import (
	"testing"

	"livehl/internal/rangeset"
	"livehl/internal/theme"
)

func TestReplaceNotifiesInNewCoordinates(t *testing.T) {
	d := New("abc")
	var got []Notification
	d.OnEdit(func(n Notification) { got = append(got, n) })

	e, err := d.Insert(3, "// TODO: fix\n")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if d.String() != "abc// TODO: fix\n" {
		t.Fatalf("text = %q", d.String())
	}
	if e.Location != 3 || e.OldLength != 0 || e.NewLength != 13 {
		t.Fatalf("edit = %v", e)
	}
	want := Notification{Range: rangeset.Span(3, 13), Delta: 13, Characters: true}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("notifications = %+v, want %+v", got, want)
	}
	if d.Version() != 1 {
		t.Fatalf("version = %d", d.Version())
	}
}

func TestReplaceShiftsAttributes(t *testing.T) {
	d := New("hello world")
	red := theme.Attributes{Foreground: "#ff0000"}
	d.ApplyAttributes(rangeset.Span(6, 5), red)

	if _, err := d.Replace(rangeset.Span(0, 5), "hi"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if d.String() != "hi world" {
		t.Fatalf("text = %q", d.String())
	}
	for off := 3; off < 8; off++ {
		if d.AttributesAt(off) != red {
			t.Fatalf("offset %d lost its attributes", off)
		}
	}
	if d.AttributesAt(0) != (theme.Attributes{}) {
		t.Fatalf("inserted text should be plain")
	}
}

func TestAttributeChangesAreNotCharacterEdits(t *testing.T) {
	d := New("abc")
	var got []Notification
	d.OnEdit(func(n Notification) { got = append(got, n) })

	d.ApplyAttributes(rangeset.Span(1, 10), theme.Attributes{Bold: true})
	if len(got) != 1 || got[0].Characters || got[0].Range != rangeset.Span(1, 2) {
		t.Fatalf("notifications = %+v", got)
	}
	if d.Version() != 0 {
		t.Fatalf("attribute writes must not bump the version")
	}
}

func TestSubstringBounds(t *testing.T) {
	d := New("abcdef")
	tests := []struct {
		r    rangeset.Range
		want string
		ok   bool
	}{
		{rangeset.Span(0, 3), "abc", true},
		{rangeset.Span(6, 0), "", true},
		{rangeset.Span(4, 5), "", false},
		{rangeset.Range{Start: -1, End: 2}, "", false},
	}
	for _, tc := range tests {
		got, ok := d.Substring(tc.r)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Substring(%v) = %q,%v want %q,%v", tc.r, got, ok, tc.want, tc.ok)
		}
	}
}

func TestReplaceRejectsBadInput(t *testing.T) {
	d := New("abc")
	if _, err := d.Replace(rangeset.Span(2, 5), "x"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if _, err := d.Insert(0, string([]byte{0xff})); err == nil {
		t.Fatalf("expected invalid UTF-8 error")
	}
	if d.String() != "abc" || d.Version() != 0 {
		t.Fatalf("failed replace changed the document")
	}
}

func TestRuns(t *testing.T) {
	d := New("aabbcc")
	bold := theme.Attributes{Bold: true}
	d.ApplyAttributes(rangeset.Span(2, 2), bold)

	runs := d.Runs(rangeset.Span(1, 4))
	want := []Run{
		{Range: rangeset.Span(1, 1)},
		{Range: rangeset.Span(2, 2), Attrs: bold},
		{Range: rangeset.Span(4, 1)},
	}
	if len(runs) != len(want) {
		t.Fatalf("runs = %+v", runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("run %d = %+v want %+v", i, runs[i], want[i])
		}
	}
}
