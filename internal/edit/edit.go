// Package edit translates text edits into shifted document ranges and parser
// byte offsets. Range remapping follows tree-sitter's own subtree edit rules so
// cached ranges never drift from the parse tree.
package edit

import (
	"fmt"

	"livehl/internal/rangeset"
)

// Edit replaces OldLength units at Location with NewLength units.
type Edit struct {
	Location  int
	OldLength int
	NewLength int
}

// FromNotification builds an edit from a text-storage change report. edited is
// expressed in post-edit coordinates and delta is the change in document length.
// The boolean is false when the report is inconsistent.
func FromNotification(edited rangeset.Range, delta int) (Edit, bool) {
	oldLength := edited.Len() - delta
	if edited.Start < 0 || oldLength < 0 || edited.Len() < 0 {
		rangeset.Assertf(false, "inconsistent edit notification %v delta %d", edited, delta)
		return Edit{}, false
	}
	return Edit{Location: edited.Start, OldLength: oldLength, NewLength: edited.Len()}, true
}

func (e Edit) Delta() int {
	return e.NewLength - e.OldLength
}

func (e Edit) OldEnd() int {
	return e.Location + e.OldLength
}

func (e Edit) NewEnd() int {
	return e.Location + e.NewLength
}

// OldRange is the replaced span in pre-edit coordinates.
func (e Edit) OldRange() rangeset.Range {
	return rangeset.Range{Start: e.Location, End: e.OldEnd()}
}

// NewRange is the inserted span in post-edit coordinates.
func (e Edit) NewRange() rangeset.Range {
	return rangeset.Range{Start: e.Location, End: e.NewEnd()}
}

func (e Edit) IsPureInsertion() bool {
	return e.OldLength == 0
}

func (e Edit) String() string {
	return fmt.Sprintf("edit{at=%d old=%d new=%d}", e.Location, e.OldLength, e.NewLength)
}

// Range returns r moved to post-edit coordinates.
//
// A range ending before the edit is unchanged. A range at or after the old end
// shifts by Delta. A straddling range is clamped at the edit start and keeps
// whatever tail extended past the old end. A pure insertion at the start of r
// pushes r forward without changing its length.
func (e Edit) Range(r rangeset.Range) rangeset.Range {
	start := e.Location
	oldEnd := e.OldEnd()
	newEnd := e.NewEnd()
	pure := e.IsPureInsertion()

	switch {
	case start > r.End:
		return r
	case oldEnd < r.Start:
		return shift(r, e.Delta())
	case start < r.Start:
		// Starts before r and reaches into it: the overlapped head is consumed.
		length := r.Len() - (oldEnd - r.Start)
		if length < 0 {
			length = 0
		}
		return rangeset.Range{Start: newEnd, End: newEnd + length}
	case start == r.Start && pure:
		return rangeset.Range{Start: newEnd, End: newEnd + r.Len()}
	case start < r.End || (start == r.End && pure):
		tail := max(0, r.End-oldEnd)
		return rangeset.Range{Start: r.Start, End: newEnd + tail}
	default:
		return r
	}
}

// Offset returns off moved to post-edit coordinates. Offsets inside the
// replaced span collapse onto the end of the inserted text.
func (e Edit) Offset(off int) int {
	switch {
	case off < e.Location:
		return off
	case off == e.Location && !e.IsPureInsertion():
		return off
	case off >= e.OldEnd():
		return off + e.Delta()
	default:
		return e.NewEnd()
	}
}

// Set remaps every member of s in place.
func (e Edit) Set(s *rangeset.Set) {
	s.Remap(e.Range)
}

func shift(r rangeset.Range, delta int) rangeset.Range {
	start := r.Start + delta
	end := r.End + delta
	if start < 0 {
		rangeset.Assertf(false, "edit shifted range %v to negative start", r)
		start = 0
		end = max(end, 0)
	}
	return rangeset.Range{Start: start, End: end}
}
