package highlighter

import (
	"strings"

	"livehl/internal/capture"
	"livehl/internal/rangeset"
)

// span is a run of one capture kind in document offsets.
type span struct {
	Start int
	End   int
	Kind  capture.Kind
}

// paintSpans flattens captures into contiguous runs covering chunk. Later
// captures win where they overlap and uncovered text gets capture.None.
func paintSpans(chunk rangeset.Range, captures []capture.Capture) []span {
	if chunk.Empty() {
		return nil
	}
	kinds := make([]capture.Kind, chunk.Len())
	for _, c := range captures {
		r, ok := c.Range.Intersect(chunk)
		if !ok {
			continue
		}
		for i := r.Start; i < r.End; i++ {
			kinds[i-chunk.Start] = c.Kind
		}
	}

	out := make([]span, 0, len(captures)*2+1)
	for i, k := range kinds {
		off := chunk.Start + i
		out = appendMergedSpan(out, off, off+1, k)
	}
	return out
}

func appendMergedSpan(spans []span, start int, end int, kind capture.Kind) []span {
	if end <= start {
		return spans
	}

	if len(spans) > 0 {
		last := &spans[len(spans)-1]
		if last.End == start && last.Kind == kind {
			last.End = end
			return spans
		}
	}

	return append(spans, span{Start: start, End: end, Kind: kind})
}

// apply writes the attributes for chunk, then overlays comment markers.
func (h *Highlighter) apply(chunk rangeset.Range, captures []capture.Capture) {
	for _, s := range paintSpans(chunk, captures) {
		h.text.ApplyAttributes(rangeset.Range{Start: s.Start, End: s.End}, h.attrs.AttributesFor(s.Kind))
	}
	for _, c := range captures {
		if c.Kind == capture.Comment {
			h.overlayMarkers(chunk, c)
		}
	}
}

// overlayMarkers styles the marker word of every comment line that starts
// with one, leaving the rest of the comment untouched. Lines are matched
// against the whole comment so a chunk boundary inside a marker still
// styles its visible part.
func (h *Highlighter) overlayMarkers(chunk rangeset.Range, c capture.Capture) {
	extent := c.Extent
	if extent.Empty() {
		extent = c.Range
	}
	text := c.Text
	if text == "" {
		var ok bool
		if text, ok = h.text.Substring(extent); !ok {
			return
		}
	}

	off := extent.Start
	for line := range strings.SplitSeq(text, "\n") {
		if lo, hi, pattern, ok := h.markers.match(line); ok {
			r := rangeset.Range{Start: off + lo, End: off + hi}
			if r, ok := r.Intersect(chunk); ok {
				h.text.ApplyAttributes(r, h.attrs.MarkerAttributes(pattern))
			}
		}
		off += len(line) + 1
	}
}
