// Package resolver turns a document range into highlight captures by
// splitting it between the injected layers that govern parts of it and the
// primary grammar that covers the rest.
package resolver

import (
	"cmp"
	"context"
	"sort"
	"sync"

	"livehl/internal/capture"
	"livehl/internal/log"
	"livehl/internal/rangeset"
	"livehl/internal/syntax"

	"github.com/rdleal/intervalst/interval"
)

// DefaultMatchLimit caps the grammar matches enumerated by one Resolve call.
const DefaultMatchLimit = 256

// Resolver is safe for concurrent use.
type Resolver struct {
	matchLimit int

	mu     sync.Mutex
	cached *syntax.Snapshot
	index  *interval.MultiValueSearchTree[int, int]
}

// New returns a resolver whose queries stop after matchLimit matches.
// A non-positive limit disables the ceiling.
func New(matchLimit int) *Resolver {
	return &Resolver{matchLimit: matchLimit}
}

// Resolve returns the captures for window in snap. Injected layers claim
// their regions first, deepest first, and the primary layer is queried over
// whatever is left, so no offset is queried twice. Captures are clipped to
// window. A missing tree or grammar contributes nothing.
func (r *Resolver) Resolve(ctx context.Context, window rangeset.Range, snap *syntax.Snapshot) []capture.Capture {
	if snap == nil {
		return nil
	}
	window = window.Clip(snap.Len())
	if window.Empty() {
		return nil
	}

	remaining := rangeset.Of(window)
	budget := syntax.NewBudget(r.matchLimit)
	var out []capture.Capture

	for _, layer := range r.injectedIn(snap, window) {
		claimed := remaining.Clone()
		claimed.Intersect(rangeset.Of(layer.Ranges...))
		for piece := range claimed.All() {
			caps, err := layer.Captures(ctx, piece, budget)
			if err != nil {
				log.Debug(log.CatSyntax, "injected layer query abandoned", "layer", layer.ID, "error", err)
				return out
			}
			out = append(out, caps...)
		}
		remaining.SubtractSet(claimed)
	}

	primary := snap.Primary()
	for piece := range remaining.All() {
		caps, err := primary.Captures(ctx, piece, budget)
		if err != nil {
			log.Debug(log.CatSyntax, "primary layer query abandoned", "error", err)
			return out
		}
		out = append(out, caps...)
	}
	return out
}

// injectedIn lists the injected layers governing part of window, deepest
// first and in discovery order within a depth.
func (r *Resolver) injectedIn(snap *syntax.Snapshot, window rangeset.Range) []*syntax.Layer {
	if len(snap.Injected()) == 0 {
		return nil
	}

	ids, ok := r.indexFor(snap).AllIntersections(window.Start, window.End)
	if !ok {
		return nil
	}

	seen := make(map[int]bool, len(ids))
	layers := make([]*syntax.Layer, 0, len(ids))
	for _, id := range ids {
		if seen[id] || id <= syntax.PrimaryLayer || id >= len(snap.Layers) {
			continue
		}
		seen[id] = true
		layer := snap.Layers[id]
		for _, gr := range layer.Ranges {
			if gr.Overlaps(window) {
				layers = append(layers, layer)
				break
			}
		}
	}

	sort.Slice(layers, func(i, j int) bool {
		if layers[i].Depth != layers[j].Depth {
			return layers[i].Depth > layers[j].Depth
		}
		return layers[i].ID < layers[j].ID
	})
	return layers
}

// indexFor returns an interval tree of injected layer ranges for snap,
// rebuilding it when a newer snapshot arrives.
func (r *Resolver) indexFor(snap *syntax.Snapshot) *interval.MultiValueSearchTree[int, int] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached == snap && r.index != nil {
		return r.index
	}

	tree := interval.NewMultiValueSearchTree[int](func(a, b int) int {
		return cmp.Compare(a, b)
	})
	for _, layer := range snap.Injected() {
		for _, gr := range layer.Ranges {
			if gr.Empty() {
				continue
			}
			if err := tree.Insert(gr.Start, gr.End, layer.ID); err != nil {
				log.Debug(log.CatSyntax, "layer range not indexed", "layer", layer.ID, "range", gr, "error", err)
			}
		}
	}
	r.cached, r.index = snap, tree
	return tree
}
