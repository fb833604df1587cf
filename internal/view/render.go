package view

import (
	"bufio"
	"context"
	"io"
	"strings"

	"livehl/internal/config"
	"livehl/internal/document"
	"livehl/internal/lang"
	"livehl/internal/mainloop"
	"livehl/internal/rangeset"
	"livehl/internal/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.opentelemetry.io/otel/trace"
)

// renderLine draws r using the document attributes. Text that has not been
// highlighted yet uses pending. A width of zero or less disables truncation
// and padding.
func renderLine(doc *document.Document, r rangeset.Range, width int, pending lipgloss.Style) string {
	var b strings.Builder
	used := 0
	for _, run := range doc.Runs(r) {
		text, ok := doc.Substring(run.Range)
		if !ok {
			continue
		}
		text = expandTabs(text)
		if width > 0 {
			room := width - used
			if room <= 0 {
				break
			}
			if runewidth.StringWidth(text) > room {
				text = runewidth.Truncate(text, room, "")
			}
			used += runewidth.StringWidth(text)
		}

		style := run.Attrs.Style()
		if run.Attrs == (theme.Attributes{}) {
			style = pending
		}
		b.WriteString(style.Render(text))
	}
	if width > 0 {
		return padRightANSI(b.String(), width)
	}
	return b.String()
}

func pendingStyle(th *theme.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(th.Palette().Muted))
}

// Render highlights text synchronously and writes it to w with ANSI styling,
// one output line per document line.
func Render(ctx context.Context, w io.Writer, text string, id lang.ID, cfg config.Config, th *theme.Theme, tracer trace.Tracer) error {
	cfg.Highlight.Synchronous = true
	sess, err := NewSession(ctx, text, id, cfg, th, mainloop.New().Post, tracer)
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.Attach(wholeDocument{sess.Doc})

	lines := newLineIndex(sess.Doc.Bytes())
	pending := pendingStyle(th)
	out := bufio.NewWriter(w)
	for i := range lines.Count() {
		if i == lines.Count()-1 && lines.Line(i).Empty() {
			break
		}
		if _, err := io.WriteString(out, renderLine(sess.Doc, lines.Line(i), 0, pending)+"\n"); err != nil {
			return err
		}
	}
	return out.Flush()
}

// wholeDocument reports the entire document as visible.
type wholeDocument struct {
	doc *document.Document
}

func (w wholeDocument) VisibleRange() (rangeset.Range, bool) {
	return rangeset.Span(0, w.doc.Length()), true
}
