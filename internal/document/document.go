// Package document holds an editable in-memory text with per-unit display
// attributes. A document is owned by one goroutine; it does no locking.
package document

import (
	"fmt"
	"unicode/utf8"

	"livehl/internal/edit"
	"livehl/internal/rangeset"
	"livehl/internal/theme"
)

// Notification reports a change to the document. Range is in post-edit
// coordinates and Delta is the change in length. Characters is false when
// only attributes changed.
type Notification struct {
	Range      rangeset.Range
	Delta      int
	Characters bool
}

// Run is a maximal span of identical attributes.
type Run struct {
	Range rangeset.Range
	Attrs theme.Attributes
}

// Document stores UTF-8 text addressed in bytes.
type Document struct {
	text      []byte
	attrs     []theme.Attributes
	version   uint64
	listeners []func(Notification)
}

func New(text string) *Document {
	return &Document{
		text:  []byte(text),
		attrs: make([]theme.Attributes, len(text)),
	}
}

// Bytes returns the current contents. Callers must not modify the slice.
func (d *Document) Bytes() []byte {
	return d.text
}

func (d *Document) String() string {
	return string(d.text)
}

func (d *Document) Length() int {
	return len(d.text)
}

// Version counts character edits applied so far.
func (d *Document) Version() uint64 {
	return d.version
}

// Substring returns the text in r, or false when r is outside the document.
func (d *Document) Substring(r rangeset.Range) (string, bool) {
	if r.Start < 0 || r.End > len(d.text) || r.Start > r.End {
		return "", false
	}
	return string(d.text[r.Start:r.End]), true
}

// OnEdit registers fn to receive every notification.
func (d *Document) OnEdit(fn func(Notification)) {
	d.listeners = append(d.listeners, fn)
}

// Replace substitutes text for the contents of r and notifies listeners. The
// new text starts with plain attributes.
func (d *Document) Replace(r rangeset.Range, text string) (edit.Edit, error) {
	if r.Start < 0 || r.End > len(d.text) || r.Start > r.End {
		return edit.Edit{}, fmt.Errorf("replace %v: outside document of length %d", r, len(d.text))
	}
	if !utf8.ValidString(text) {
		return edit.Edit{}, fmt.Errorf("replace %v: text is not valid UTF-8", r)
	}

	e := edit.Edit{Location: r.Start, OldLength: r.Len(), NewLength: len(text)}
	if e.OldLength == 0 && e.NewLength == 0 {
		return e, nil
	}

	tail := len(d.text) - r.End
	text2 := make([]byte, 0, len(d.text)+e.Delta())
	text2 = append(text2, d.text[:r.Start]...)
	text2 = append(text2, text...)
	text2 = append(text2, d.text[r.End:]...)

	attrs := make([]theme.Attributes, len(text2))
	copy(attrs, d.attrs[:r.Start])
	copy(attrs[e.NewEnd():], d.attrs[len(d.attrs)-tail:])

	d.text = text2
	d.attrs = attrs
	d.version++
	d.notify(Notification{Range: e.NewRange(), Delta: e.Delta(), Characters: true})
	return e, nil
}

// Insert is Replace of an empty range at off.
func (d *Document) Insert(off int, text string) (edit.Edit, error) {
	return d.Replace(rangeset.Range{Start: off, End: off}, text)
}

// Delete removes the contents of r.
func (d *Document) Delete(r rangeset.Range) (edit.Edit, error) {
	return d.Replace(r, "")
}

// ApplyAttributes sets attrs on every unit of r. Out-of-range parts are
// ignored.
func (d *Document) ApplyAttributes(r rangeset.Range, attrs theme.Attributes) {
	r = r.Clip(len(d.text))
	if r.Empty() {
		return
	}
	for i := r.Start; i < r.End; i++ {
		d.attrs[i] = attrs
	}
	d.notify(Notification{Range: r})
}

// AttributesAt returns the attributes of the unit at off.
func (d *Document) AttributesAt(off int) theme.Attributes {
	if off < 0 || off >= len(d.attrs) {
		return theme.Attributes{}
	}
	return d.attrs[off]
}

// Runs splits r into spans of identical attributes.
func (d *Document) Runs(r rangeset.Range) []Run {
	r = r.Clip(len(d.text))
	if r.Empty() {
		return nil
	}
	var runs []Run
	start := r.Start
	for i := r.Start + 1; i <= r.End; i++ {
		if i < r.End && d.attrs[i] == d.attrs[start] {
			continue
		}
		runs = append(runs, Run{Range: rangeset.Range{Start: start, End: i}, Attrs: d.attrs[start]})
		start = i
	}
	return runs
}

func (d *Document) notify(n Notification) {
	for _, fn := range d.listeners {
		fn(n)
	}
}
