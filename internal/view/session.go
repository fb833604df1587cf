// Package view hosts a document and its highlight pipeline in a terminal:
// an interactive bubbletea viewer and a one-shot ANSI renderer.
package view

import (
	"context"
	"fmt"

	"livehl/internal/config"
	"livehl/internal/document"
	"livehl/internal/highlighter"
	"livehl/internal/lang"
	"livehl/internal/log"
	"livehl/internal/resolver"
	"livehl/internal/scheduler"
	"livehl/internal/syntax"
	"livehl/internal/theme"

	"go.opentelemetry.io/otel/trace"
)

// Session wires one document to its parser, scheduler and highlighter.
// Everything except the scheduler's worker runs on the goroutine that calls
// the Session methods and drains post.
type Session struct {
	Doc    *document.Document
	Client *syntax.Client
	Sched  *scheduler.Scheduler
	HL     *highlighter.Highlighter

	cfg   config.Config
	theme *theme.Theme
}

// NewSession parses text as language id. Completions of async queries are
// handed to post.
func NewSession(ctx context.Context, text string, id lang.ID, cfg config.Config, th *theme.Theme, post func(func()), tracer trace.Tracer) (*Session, error) {
	doc := document.New(text)
	client := syntax.NewClient(syntax.NewRegistry(), id, doc,
		syntax.WithMaxInjectionDepth(cfg.Highlight.MaxInjectionDepth))
	if err := client.Parse(ctx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", id, err)
	}

	sched := scheduler.New(resolver.New(cfg.Highlight.MatchLimit), client, post,
		scheduler.WithCapacity(cfg.Highlight.QueueCapacity),
		scheduler.WithTracer(tracer))

	log.Debug(log.CatView, "session ready", "lang", id, "length", doc.Length())
	return &Session{Doc: doc, Client: client, Sched: sched, cfg: cfg, theme: th}, nil
}

// Attach creates the highlighter for viewport and starts the first pass.
func (s *Session) Attach(viewport highlighter.ViewportProvider) {
	s.HL = highlighter.New(s.Doc, s.Sched, s.theme, viewport, s.Client, highlighter.Config{
		ChunkLength:    s.cfg.Highlight.ChunkLength,
		Synchronous:    s.cfg.Highlight.Synchronous,
		MarkerPrefix:   s.cfg.Markers.Prefix,
		MarkerPatterns: s.cfg.Markers.Patterns,
	})
	s.Doc.OnEdit(func(n document.Notification) {
		if s.HL != nil {
			s.HL.TextEdited(n)
		}
	})
	s.HL.Invalidate()
}

func (s *Session) Theme() *theme.Theme {
	return s.theme
}

// SetTheme repaints the document with th.
func (s *Session) SetTheme(th *theme.Theme) {
	s.theme = th
	if s.HL != nil {
		s.HL.SetAttributeProvider(th)
	}
}

// SetLanguage reparses the document as id and re-highlights it.
func (s *Session) SetLanguage(ctx context.Context, id lang.ID) error {
	if err := s.Client.SetLanguage(ctx, id); err != nil {
		return fmt.Errorf("set language %s: %w", id, err)
	}
	if s.HL != nil {
		s.HL.SetInvalidator(s.Client)
	}
	return nil
}

// Reload turns the document into text with a single edit covering what
// changed. It reports false when text is already the current contents.
func (s *Session) Reload(text string) (bool, error) {
	r, repl, ok := editFor(s.Doc.String(), text)
	if !ok {
		return false, nil
	}
	if _, err := s.Doc.Replace(r, repl); err != nil {
		return false, err
	}
	return true, nil
}

// Close tears down the highlighter and stops the scheduler.
func (s *Session) Close() {
	if s.HL != nil {
		s.HL.Close()
		s.HL = nil
	}
	s.Sched.Close()
}
