package rangeset

import (
	"iter"
	"slices"
	"sort"
	"strings"
)

// Set holds disjoint, non-adjacent, non-empty ranges in ascending order.
// The zero value is an empty set. A Set is not safe for concurrent mutation.
type Set struct {
	ranges []Range
}

// Of builds a set from arbitrary, possibly overlapping ranges.
func Of(ranges ...Range) Set {
	var s Set
	for _, r := range ranges {
		s.Union(r)
	}
	return s
}

// Union adds r to the set, merging with overlapping and touching members.
func (s *Set) Union(r Range) {
	if r.Empty() {
		return
	}

	out := make([]Range, 0, len(s.ranges)+1)
	i := 0
	for i < len(s.ranges) && s.ranges[i].End < r.Start {
		out = append(out, s.ranges[i])
		i++
	}
	for i < len(s.ranges) && s.ranges[i].Start <= r.End {
		r.Start = min(r.Start, s.ranges[i].Start)
		r.End = max(r.End, s.ranges[i].End)
		i++
	}
	out = append(out, r)
	out = append(out, s.ranges[i:]...)
	s.ranges = out
}

// UnionSet adds every member of o with a single merge sweep.
func (s *Set) UnionSet(o Set) {
	if len(o.ranges) == 0 {
		return
	}
	if len(s.ranges) == 0 {
		s.ranges = slices.Clone(o.ranges)
		return
	}

	out := make([]Range, 0, len(s.ranges)+len(o.ranges))
	i, j := 0, 0
	appendMerged := func(r Range) {
		if n := len(out); n > 0 && out[n-1].End >= r.Start {
			out[n-1].End = max(out[n-1].End, r.End)
			return
		}
		out = append(out, r)
	}
	for i < len(s.ranges) || j < len(o.ranges) {
		switch {
		case j >= len(o.ranges):
			appendMerged(s.ranges[i])
			i++
		case i >= len(s.ranges):
			appendMerged(o.ranges[j])
			j++
		case s.ranges[i].Start <= o.ranges[j].Start:
			appendMerged(s.ranges[i])
			i++
		default:
			appendMerged(o.ranges[j])
			j++
		}
	}
	s.ranges = out
}

// Subtract removes r. Members fully inside r disappear, partial overlaps are
// truncated and members outside r are untouched.
func (s *Set) Subtract(r Range) {
	if r.Empty() || len(s.ranges) == 0 {
		return
	}

	out := make([]Range, 0, len(s.ranges)+1)
	for _, x := range s.ranges {
		if !x.Overlaps(r) {
			out = append(out, x)
			continue
		}
		if x.Start < r.Start {
			out = append(out, Range{Start: x.Start, End: r.Start})
		}
		if r.End < x.End {
			out = append(out, Range{Start: r.End, End: x.End})
		}
	}
	s.ranges = out
}

// SubtractSet removes every member of o with a single sweep.
func (s *Set) SubtractSet(o Set) {
	if len(s.ranges) == 0 || len(o.ranges) == 0 {
		return
	}

	out := make([]Range, 0, len(s.ranges))
	j := 0
	for _, x := range s.ranges {
		cur := x
		for j < len(o.ranges) && o.ranges[j].End <= cur.Start {
			j++
		}
		k := j
		for k < len(o.ranges) && o.ranges[k].Start < cur.End {
			cut := o.ranges[k]
			if cut.Start > cur.Start {
				out = append(out, Range{Start: cur.Start, End: cut.Start})
			}
			cur.Start = max(cur.Start, cut.End)
			if cur.Empty() {
				break
			}
			k++
		}
		if !cur.Empty() {
			out = append(out, cur)
		}
	}
	s.ranges = out
}

// Intersect keeps only the offsets that are also in o.
func (s *Set) Intersect(o Set) {
	out := make([]Range, 0, min(len(s.ranges), len(o.ranges)))
	i, j := 0, 0
	for i < len(s.ranges) && j < len(o.ranges) {
		if r, ok := s.ranges[i].Intersect(o.ranges[j]); ok {
			out = append(out, r)
		}
		if s.ranges[i].End < o.ranges[j].End {
			i++
		} else {
			j++
		}
	}
	s.ranges = out
}

// IntersectRange keeps only the offsets inside r.
func (s *Set) IntersectRange(r Range) {
	s.Intersect(Of(r))
}

// Remap replaces every member by fn(member) and re-normalises the result.
func (s *Set) Remap(fn func(Range) Range) {
	old := s.ranges
	s.ranges = nil
	for _, r := range old {
		s.Union(fn(r))
	}
}

// Contains reports whether off belongs to a member.
func (s Set) Contains(off int) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End > off })
	return i < len(s.ranges) && s.ranges[i].Start <= off
}

// ContainsRange reports whether a single member covers all of r.
func (s Set) ContainsRange(r Range) bool {
	if r.Empty() {
		return true
	}
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End > r.Start })
	return i < len(s.ranges) && s.ranges[i].Start <= r.Start && s.ranges[i].End >= r.End
}

// Intersects reports whether any member overlaps r.
func (s Set) Intersects(r Range) bool {
	if r.Empty() {
		return false
	}
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End > r.Start })
	return i < len(s.ranges) && s.ranges[i].Start < r.End
}

// First returns the lowest member.
func (s Set) First() (Range, bool) {
	if len(s.ranges) == 0 {
		return Range{}, false
	}
	return s.ranges[0], true
}

// FirstGap returns the first maximal sub-range of within that the set does
// not cover.
func (s Set) FirstGap(within Range) (Range, bool) {
	if within.Empty() {
		return Range{}, false
	}
	cursor := within.Start
	for _, r := range s.ranges {
		if r.End <= cursor {
			continue
		}
		if r.Start >= within.End {
			break
		}
		if r.Start > cursor {
			return Range{Start: cursor, End: r.Start}, true
		}
		cursor = r.End
		if cursor >= within.End {
			return Range{}, false
		}
	}
	if cursor < within.End {
		return Range{Start: cursor, End: within.End}, true
	}
	return Range{}, false
}

// Complement returns the parts of within not covered by the set.
func (s Set) Complement(within Range) Set {
	out := Of(within)
	out.SubtractSet(s)
	return out
}

// Ranges returns a copy of the members in ascending order.
func (s Set) Ranges() []Range {
	return slices.Clone(s.ranges)
}

// All iterates the members in ascending order.
func (s Set) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for _, r := range s.ranges {
			if !yield(r) {
				return
			}
		}
	}
}

// Len is the number of members.
func (s Set) Len() int {
	return len(s.ranges)
}

// Count is the number of offsets covered.
func (s Set) Count() int {
	n := 0
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

func (s Set) Empty() bool {
	return len(s.ranges) == 0
}

func (s Set) Clone() Set {
	return Set{ranges: slices.Clone(s.ranges)}
}

func (s Set) Equal(o Set) bool {
	return slices.Equal(s.ranges, o.ranges)
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range s.ranges {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.String())
	}
	b.WriteByte('}')
	return b.String()
}
