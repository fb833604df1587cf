package view

import (
	"context"
	"testing"
	"time"

	"livehl/internal/capture"
	"livehl/internal/config"
	"livehl/internal/lang"
	"livehl/internal/mainloop"
	"livehl/internal/rangeset"
	"livehl/internal/theme"

	"github.com/stretchr/testify/require"
)

func newSyncSession(t *testing.T, text string, id lang.ID) *Session {
	t.Helper()
	cfg := config.Defaults()
	cfg.Highlight.Synchronous = true
	sess, err := NewSession(context.Background(), text, id, cfg, theme.MustLoad("monokai"), mainloop.New().Post, nil)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	sess.Attach(wholeDocument{sess.Doc})
	return sess
}

func TestSessionSetLanguageRehighlights(t *testing.T) {
	sess := newSyncSession(t, `{"a": 1}`, lang.Plain)
	th := sess.Theme()
	require.Equal(t, th.AttributesFor(capture.None), sess.Doc.AttributesAt(6))

	require.NoError(t, sess.SetLanguage(context.Background(), lang.JSON))
	require.Equal(t, lang.JSON, sess.Client.Language())
	require.Equal(t, th.AttributesFor(capture.Number), sess.Doc.AttributesAt(6))
}

func TestSessionSetThemeRepaints(t *testing.T) {
	sess := newSyncSession(t, "package p\n", lang.Go)
	dracula := theme.MustLoad("dracula")
	sess.SetTheme(dracula)
	require.Equal(t, dracula, sess.Theme())
	require.Equal(t, dracula.AttributesFor(capture.Include), sess.Doc.AttributesAt(0))
}

func TestSessionReload(t *testing.T) {
	sess := newSyncSession(t, "package p\n", lang.Go)

	changed, err := sess.Reload("package p\n")
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = sess.Reload("package p\n\nconst n = 42\n")
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, rangeset.Of(rangeset.Span(0, sess.Doc.Length())), sess.HL.Valid())
	require.Equal(t, sess.Theme().AttributesFor(capture.Number), sess.Doc.AttributesAt(21))
}

func TestSessionAsyncCompletionsArriveThroughPost(t *testing.T) {
	loop := mainloop.New()
	sess, err := NewSession(context.Background(), "package p\n", lang.Go, config.Defaults(), theme.MustLoad("nord"), loop.Post, nil)
	require.NoError(t, err)
	defer sess.Close()
	sess.Attach(wholeDocument{sess.Doc})

	require.False(t, sess.HL.Pending().Empty(), "first pass is in flight")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, loop.RunUntil(ctx, func() bool { return sess.HL.Pending().Empty() }))
	require.Equal(t, rangeset.Of(rangeset.Span(0, sess.Doc.Length())), sess.HL.Valid())
}
