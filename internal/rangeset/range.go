// Package rangeset implements half-open offset intervals and sets of disjoint,
// non-adjacent intervals kept in ascending order.
package rangeset

import "fmt"

// Range is the half-open interval [Start, End) over document offsets.
// A zero-length range is a valid insertion point.
type Range struct {
	Start int
	End   int
}

// NewRange builds a range from bounds, enforcing 0 <= start <= end.
func NewRange(start int, end int) Range {
	assertf(start >= 0, "negative range start %d", start)
	assertf(start <= end, "inverted range [%d,%d)", start, end)
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// Span builds the range [location, location+length).
func Span(location int, length int) Range {
	return NewRange(location, location+length)
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether off lies inside r.
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// ContainsRange reports whether o lies entirely inside r. An empty o is
// contained when its position is within [r.Start, r.End].
func (r Range) ContainsRange(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one offset.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Intersect returns the common part of r and o. The boolean is false when the
// intersection is empty.
func (r Range) Intersect(o Range) (Range, bool) {
	start := max(r.Start, o.Start)
	end := min(r.End, o.End)
	if end <= start {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Clip limits r to [0, limit).
func (r Range) Clip(limit int) Range {
	start := clampInt(r.Start, 0, limit)
	end := clampInt(r.End, start, limit)
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

func clampInt(v int, lo int, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Assertf panics in hldebug builds when cond is false and is a no-op otherwise.
// Callers clamp the offending value themselves.
func Assertf(cond bool, format string, args ...any) {
	assertf(cond, format, args...)
}
