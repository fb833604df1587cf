package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"livehl/internal/capture"
	"livehl/internal/config"
	"livehl/internal/document"
	"livehl/internal/lang"
	"livehl/internal/rangeset"
	"livehl/internal/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	// lipgloss drops colours when there is no TTY.
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestRenderLineUsesDocumentAttributes(t *testing.T) {
	th := theme.MustLoad("monokai")
	doc := document.New("func\tmain")
	doc.ApplyAttributes(rangeset.Span(0, 4), th.AttributesFor(capture.KeywordFunction))
	doc.ApplyAttributes(rangeset.Span(4, 1), th.AttributesFor(capture.None))

	out := renderLine(doc, rangeset.Span(0, doc.Length()), 0, pendingStyle(th))
	require.Equal(t, "func    main", ansi.Strip(out))
	require.Contains(t, out, th.AttributesFor(capture.KeywordFunction).Style().Render("func"))
	require.Contains(t, out, pendingStyle(th).Render("main"), "unhighlighted text uses the pending style")
}

func TestRenderLineTruncatesAndPads(t *testing.T) {
	th := theme.MustLoad("nord")
	doc := document.New("abcdefghij")
	doc.ApplyAttributes(rangeset.Span(0, 5), th.AttributesFor(capture.Keyword))
	doc.ApplyAttributes(rangeset.Span(5, 5), th.AttributesFor(capture.String))

	require.Equal(t, "abcdefg", ansi.Strip(renderLine(doc, rangeset.Span(0, 10), 7, pendingStyle(th))))
	require.Equal(t, "abc   ", ansi.Strip(renderLine(doc, rangeset.Span(0, 3), 6, pendingStyle(th))))
	require.Equal(t, 6, lipgloss.Width(renderLine(doc, rangeset.Span(0, 3), 6, pendingStyle(th))))
}

func TestRenderHighlightsWholeFile(t *testing.T) {
	src := "package main\n\n// TODO: say hi\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	th := theme.MustLoad("monokai")

	var out bytes.Buffer
	require.NoError(t, Render(context.Background(), &out, src, lang.Go, config.Defaults(), th, nil))

	want := strings.ReplaceAll(src, "\t", "    ")
	require.Equal(t, want, ansi.Strip(out.String()))
	require.Contains(t, out.String(), th.AttributesFor(capture.String).Style().Render(`"hi"`))
	require.Contains(t, out.String(), th.MarkerAttributes("TODO:").Style().Render("TODO:"))
}

func TestRenderEmptyText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render(context.Background(), &out, "", lang.Plain, config.Defaults(), theme.MustLoad("nord"), nil))
	require.Empty(t, out.String())
}
