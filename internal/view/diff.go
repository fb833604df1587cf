package view

import (
	"livehl/internal/rangeset"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// editFor finds the smallest single replacement turning before into after:
// the range of before to replace and its new text.
func editFor(before, after string) (rangeset.Range, string, bool) {
	if before == after {
		return rangeset.Range{}, "", false
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	prefix, suffix := 0, 0
	first, last := 0, len(diffs)
	if first < last && diffs[first].Type == diffmatchpatch.DiffEqual {
		prefix = len(diffs[first].Text)
		first++
	}
	if first < last && diffs[last-1].Type == diffmatchpatch.DiffEqual {
		suffix = len(diffs[last-1].Text)
	}

	r := rangeset.Range{Start: prefix, End: len(before) - suffix}
	return r, after[prefix : len(after)-suffix], true
}
