package view

import (
	"sort"
	"strings"

	"livehl/internal/rangeset"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// lineIndex maps between byte offsets and line numbers. A trailing newline
// starts one final empty line, as strings.Split would.
type lineIndex struct {
	starts []int
	length int
}

func newLineIndex(text []byte) lineIndex {
	starts := []int{0}
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts, length: len(text)}
}

func (ix lineIndex) Count() int {
	return len(ix.starts)
}

// Line returns the range of line i without its newline.
func (ix lineIndex) Line(i int) rangeset.Range {
	if i < 0 || i >= len(ix.starts) {
		return rangeset.Range{Start: ix.length, End: ix.length}
	}
	end := ix.length
	if i+1 < len(ix.starts) {
		end = ix.starts[i+1] - 1
	}
	return rangeset.Range{Start: ix.starts[i], End: end}
}

// LineAt returns the line containing off.
func (ix lineIndex) LineAt(off int) int {
	return sort.SearchInts(ix.starts, off+1) - 1
}

// Span covers n lines from first, including the newline of the last one.
func (ix lineIndex) Span(first, n int) rangeset.Range {
	if n <= 0 || len(ix.starts) == 0 {
		return rangeset.Range{}
	}
	first = clamp(first, 0, len(ix.starts)-1)
	last := min(first+n, len(ix.starts))
	end := ix.length
	if last < len(ix.starts) {
		end = ix.starts[last]
	}
	return rangeset.Range{Start: ix.starts[first], End: end}
}

// expandTabs makes s printable on one terminal row.
func expandTabs(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func truncateText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	s = strings.ReplaceAll(expandTabs(s), "\n", " ")

	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func padRightANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
