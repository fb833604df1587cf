// Package highlighter keeps the attributes of a document in step with its
// parse state, re-highlighting only text that is both visible and invalid.
//
// All methods, and every completion delivered by the QueryRunner, must run on
// the goroutine that owns the document.
package highlighter

import (
	"context"

	"livehl/internal/capture"
	"livehl/internal/document"
	"livehl/internal/edit"
	"livehl/internal/log"
	"livehl/internal/rangeset"
	"livehl/internal/scheduler"
	"livehl/internal/theme"
)

// DefaultChunkLength caps the length of a single highlight request.
const DefaultChunkLength = 256

// TextSource is the document being highlighted.
type TextSource interface {
	Length() int
	Substring(r rangeset.Range) (string, bool)
	ApplyAttributes(r rangeset.Range, attrs theme.Attributes)
}

// AttributeProvider maps capture kinds and comment markers to attributes.
type AttributeProvider interface {
	AttributesFor(kind capture.Kind) theme.Attributes
	MarkerAttributes(pattern string) theme.Attributes
}

// ViewportProvider reports the range currently on screen, false when unknown.
type ViewportProvider interface {
	VisibleRange() (rangeset.Range, bool)
}

// EditInvalidator applies an edit to the parse state and reports the ranges
// whose highlighting changed beyond the edited text.
type EditInvalidator interface {
	ApplyEdit(e edit.Edit) rangeset.Set
}

// QueryRunner produces captures for a range.
type QueryRunner interface {
	RequestSync(ctx context.Context, r rangeset.Range) scheduler.Result
	RequestAsync(r rangeset.Range, done func(scheduler.Result)) bool
}

type Config struct {
	ChunkLength    int
	Synchronous    bool
	MarkerPrefix   string
	MarkerPatterns []string
}

func DefaultConfig() Config {
	return Config{
		ChunkLength:    DefaultChunkLength,
		MarkerPrefix:   "//",
		MarkerPatterns: []string{"TODO:", "FIXME:", "MARK:"},
	}
}

// request is one in-flight async query. r follows later edits; version is
// the edit count when it was issued.
type request struct {
	r       rangeset.Range
	version uint64
}

type Highlighter struct {
	text        TextSource
	attrs       AttributeProvider
	viewport    ViewportProvider
	invalidator EditInvalidator
	runner      QueryRunner

	chunk       int
	synchronous bool
	markers     *markerMatcher

	valid   rangeset.Set
	pending rangeset.Set
	visible rangeset.Set

	version  uint64
	nextID   uint64
	inflight map[uint64]*request
	driving  bool
	closed   bool
}

// New returns a highlighter with nothing valid. Call Invalidate to start the
// first pass. invalidator may be nil.
func New(text TextSource, runner QueryRunner, attrs AttributeProvider, viewport ViewportProvider, invalidator EditInvalidator, cfg Config) *Highlighter {
	if cfg.ChunkLength <= 0 {
		cfg.ChunkLength = DefaultChunkLength
	}
	h := &Highlighter{
		text:        text,
		attrs:       attrs,
		viewport:    viewport,
		invalidator: invalidator,
		runner:      runner,
		chunk:       cfg.ChunkLength,
		synchronous: cfg.Synchronous,
		markers:     newMarkerMatcher(cfg.MarkerPrefix, cfg.MarkerPatterns),
		inflight:    make(map[uint64]*request),
	}
	h.updateVisible()
	return h
}

// Invalidate discards every highlight, e.g. after a theme change. Queries
// already in flight are discarded when they complete.
func (h *Highlighter) Invalidate() {
	if h.closed {
		return
	}
	h.version++
	h.updateVisible()
	h.InvalidateRange(rangeset.Span(0, h.text.Length()))
}

// InvalidateRange marks r invalid and highlights whatever visible text is
// now invalid. Invalidating invalid text is a no-op.
func (h *Highlighter) InvalidateRange(r rangeset.Range) {
	if h.closed {
		return
	}
	h.invalidate(r)
	h.drive()
}

// SetInvalidator swaps the parse-state collaborator, e.g. after a language
// change, and re-highlights everything.
func (h *Highlighter) SetInvalidator(inv EditInvalidator) {
	if h.closed {
		return
	}
	h.invalidator = inv
	h.Invalidate()
}

// SetAttributeProvider swaps the theme and re-highlights everything.
func (h *Highlighter) SetAttributeProvider(p AttributeProvider) {
	if h.closed {
		return
	}
	h.attrs = p
	h.Invalidate()
}

// ViewportChanged re-reads the visible range and highlights newly revealed
// invalid text. Text that scrolled away is left as it is.
func (h *Highlighter) ViewportChanged() {
	if h.closed {
		return
	}
	h.updateVisible()
	revealed := h.visible.Clone()
	revealed.SubtractSet(h.valid)
	for r := range revealed.All() {
		h.invalidate(r)
	}
	h.drive()
}

// TextEdited handles a change notification from the document. Attribute-only
// notifications are ignored.
func (h *Highlighter) TextEdited(n document.Notification) {
	if h.closed || !n.Characters {
		return
	}
	e, ok := edit.FromNotification(n.Range, n.Delta)
	if !ok {
		return
	}

	h.version++
	e.Set(&h.valid)
	e.Set(&h.visible)
	for _, req := range h.inflight {
		req.r = e.Range(req.r)
	}
	h.rebuildPending()
	if n.Delta > 0 {
		h.visible.Union(n.Range)
	}

	var dirty rangeset.Set
	if h.invalidator != nil {
		dirty = h.invalidator.ApplyEdit(e)
	}
	// Hidden dirty text must lose its validity too; drive only queries what
	// is visible.
	dirty.Union(n.Range)
	for r := range dirty.All() {
		h.invalidate(r)
	}
	h.drive()
}

// NextChunk returns the first run of visible, invalid, non-pending text, at
// most one chunk long.
func (h *Highlighter) NextChunk() (rangeset.Range, bool) {
	if h.closed {
		return rangeset.Range{}, false
	}
	todo := rangeset.Of(rangeset.Span(0, h.text.Length()))
	todo.SubtractSet(h.valid)
	todo.Intersect(h.visible)
	todo.SubtractSet(h.pending)

	first, ok := todo.First()
	if !ok {
		return rangeset.Range{}, false
	}
	if first.Len() > h.chunk {
		first.End = first.Start + h.chunk
	}
	return first, true
}

// Close drops every collaborator. Completions arriving afterwards are
// ignored.
func (h *Highlighter) Close() {
	h.closed = true
	h.text = nil
	h.attrs = nil
	h.viewport = nil
	h.invalidator = nil
	h.runner = nil
	h.inflight = make(map[uint64]*request)
	h.pending = rangeset.Set{}
}

func (h *Highlighter) Valid() rangeset.Set {
	return h.valid.Clone()
}

func (h *Highlighter) Pending() rangeset.Set {
	return h.pending.Clone()
}

func (h *Highlighter) Visible() rangeset.Set {
	return h.visible.Clone()
}

func (h *Highlighter) invalidate(r rangeset.Range) {
	r = r.Clip(h.text.Length())
	if r.Empty() {
		return
	}
	h.valid.Subtract(r)
}

func (h *Highlighter) updateVisible() {
	if h.viewport == nil {
		return
	}
	if r, ok := h.viewport.VisibleRange(); ok {
		h.visible = rangeset.Of(r.Clip(h.text.Length()))
	}
}

// drive issues requests until nothing is left or the runner refuses one.
// Re-entrant calls from inline completions fold into the running loop.
func (h *Highlighter) drive() {
	if h.driving {
		return
	}
	h.driving = true
	defer func() { h.driving = false }()

	for !h.closed {
		chunk, ok := h.NextChunk()
		if !ok {
			return
		}
		if !h.highlight(chunk) {
			return
		}
	}
}

func (h *Highlighter) highlight(chunk rangeset.Range) bool {
	if h.synchronous {
		h.pending.Union(chunk)
		res := h.runner.RequestSync(context.Background(), chunk)
		h.pending.Subtract(chunk)
		h.valid.Union(chunk)
		h.apply(chunk, res.Captures)
		return true
	}

	h.nextID++
	id := h.nextID
	h.inflight[id] = &request{r: chunk, version: h.version}
	h.pending.Union(chunk)
	if !h.runner.RequestAsync(chunk, func(res scheduler.Result) { h.complete(id, res) }) {
		delete(h.inflight, id)
		h.rebuildPending()
		return false
	}
	return true
}

func (h *Highlighter) complete(id uint64, res scheduler.Result) {
	req, ok := h.inflight[id]
	if !ok || h.closed {
		return
	}
	delete(h.inflight, id)
	h.rebuildPending()

	switch {
	case req.version != h.version:
		log.Debug(log.CatHL, "discarding stale completion", "range", req.r, "reason", "edited")
	case !h.visible.Intersects(req.r):
		log.Debug(log.CatHL, "discarding stale completion", "range", req.r, "reason", "hidden")
	default:
		h.valid.Union(req.r)
		h.valid.SubtractSet(h.pending)
		h.apply(req.r, res.Captures)
	}
	h.drive()
}

func (h *Highlighter) rebuildPending() {
	var pending rangeset.Set
	for _, req := range h.inflight {
		pending.Union(req.r)
	}
	h.pending = pending
}
