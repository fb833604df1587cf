// Package scheduler runs highlight queries against parser snapshots. Async
// requests are drained FIFO by a single worker goroutine and their results
// are handed back through a post function that runs them on the primary
// context.
package scheduler

import (
	"context"
	"sync"
	"time"

	"livehl/internal/capture"
	"livehl/internal/log"
	"livehl/internal/rangeset"
	"livehl/internal/syntax"
	"livehl/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultCapacity is the backpressure ceiling on outstanding async requests.
const DefaultCapacity = 255

// Resolver produces the captures for a range of a snapshot.
type Resolver interface {
	Resolve(ctx context.Context, r rangeset.Range, snap *syntax.Snapshot) []capture.Capture
}

// StateSource hands out the current parser snapshot.
type StateSource interface {
	Snapshot() *syntax.Snapshot
}

// Result is the outcome of one query. Generation identifies the snapshot it
// ran against, zero when nothing had been parsed yet.
type Result struct {
	ID         uuid.UUID
	Range      rangeset.Range
	Generation uint64
	Captures   []capture.Capture
}

type queuedQuery struct {
	id       uuid.UUID
	r        rangeset.Range
	done     func(Result)
	enqueued time.Time
}

// Scheduler is safe for concurrent use. Outstanding requests are those
// queued, running, or waiting for their completion to be delivered.
type Scheduler struct {
	resolver Resolver
	states   StateSource
	post     func(func())
	capacity int
	tracer   trace.Tracer

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	queue       []queuedQuery
	outstanding int
	draining    bool
	closed      bool
	wg          sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCapacity overrides DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithTracer records a span per executed query.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New returns a scheduler. post must run its argument on the primary
// context, serially with every other primary-context function.
func New(resolver Resolver, states StateSource, post func(func()), opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		resolver: resolver,
		states:   states,
		post:     post,
		capacity: DefaultCapacity,
		tracer:   noop.NewTracerProvider().Tracer("livehl/scheduler"),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestSync runs a query on the calling goroutine. It must not be called
// from inside a completion that the worker is waiting on.
func (s *Scheduler) RequestSync(ctx context.Context, r rangeset.Range) Result {
	return s.run(ctx, uuid.New(), r, "sync", time.Time{})
}

// RequestAsync queues a query and reports whether it was accepted. done is
// invoked through post once the query has run. A request is dropped when the
// scheduler already has its full capacity outstanding or has been closed.
func (s *Scheduler) RequestAsync(r rangeset.Range, done func(Result)) bool {
	q := queuedQuery{id: uuid.New(), r: r, done: done, enqueued: time.Now()}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.outstanding >= s.capacity {
		n := s.outstanding
		s.mu.Unlock()
		log.Warn(log.CatSched, "query queue full, request dropped", "range", r, "outstanding", n)
		return false
	}
	s.queue = append(s.queue, q)
	s.outstanding++
	if !s.draining {
		s.draining = true
		s.wg.Add(1)
		go s.drain()
	}
	s.mu.Unlock()

	log.Debug(log.CatSched, "query queued", "id", q.id, "range", r)
	return true
}

// Outstanding reports the number of accepted requests whose completion has
// not been delivered yet.
func (s *Scheduler) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

// Close drops queued requests, cancels the running one and waits for the
// worker to exit. Completions already posted are still delivered.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.outstanding -= len(s.queue)
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// drain pops and runs the oldest request until the queue is empty, then
// exits. A new drain is started by the next accepted request.
func (s *Scheduler) drain() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.closed {
			s.draining = false
			s.mu.Unlock()
			return
		}
		q := s.queue[0]
		s.queue[0] = queuedQuery{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		res := s.run(s.ctx, q.id, q.r, "async", q.enqueued)
		s.post(func() {
			s.mu.Lock()
			s.outstanding--
			s.mu.Unlock()
			if q.done != nil {
				q.done(res)
			}
		})
	}
}

func (s *Scheduler) run(ctx context.Context, id uuid.UUID, r rangeset.Range, mode string, enqueued time.Time) Result {
	attrs := []attribute.KeyValue{
		attribute.String(tracing.AttrQueryID, id.String()),
		attribute.String(tracing.AttrQueryMode, mode),
		attribute.Int(tracing.AttrRangeStart, r.Start),
		attribute.Int(tracing.AttrRangeEnd, r.End),
	}
	if !enqueued.IsZero() {
		attrs = append(attrs, attribute.Float64(tracing.AttrQueueWait, float64(time.Since(enqueued).Microseconds())/1000.0))
	}
	ctx, span := s.tracer.Start(ctx, tracing.SpanQuery, trace.WithAttributes(attrs...))
	defer span.End()

	res := Result{ID: id, Range: r}
	snap := s.states.Snapshot()
	if snap != nil {
		res.Generation = snap.Generation
	}
	res.Captures = s.resolver.Resolve(ctx, r, snap)

	span.SetAttributes(
		attribute.Int(tracing.AttrCaptures, len(res.Captures)),
		attribute.Int64(tracing.AttrGeneration, int64(res.Generation)),
	)
	return res
}
