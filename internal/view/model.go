package view

import (
	"fmt"
	"time"

	"livehl/internal/log"
	"livehl/internal/mainloop"
	"livehl/internal/rangeset"
	"livehl/internal/readfile"
	"livehl/internal/theme"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultThemes is the rotation the theme key steps through.
var DefaultThemes = []string{"nord", "dracula", "monokai", "github-dark", "solarized-dark", "gruvbox", "onedark"}

type Options struct {
	Path      string
	EditorCmd string
	Themes    []string
	// Changes, when set, signals that Path changed on disk.
	Changes <-chan struct{}
}

// screen is the viewer state the highlighter reads back as its viewport.
type screen struct {
	lines  lineIndex
	top    int
	height int
}

func (s *screen) VisibleRange() (rangeset.Range, bool) {
	if s.height <= 0 {
		return rangeset.Range{}, false
	}
	return s.lines.Span(s.top, s.height), true
}

type tickMsg struct{}

type fileChangedMsg struct{}

type editorDoneMsg struct{ err error }

func tickCmd() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// Model is the interactive viewer. Completions posted to loop are run on
// the bubbletea goroutine by the tick.
type Model struct {
	opts   Options
	sess   *Session
	loop   *mainloop.Loop
	screen *screen
	vp     viewport.Model

	themes   []string
	themeIdx int

	width  int
	height int

	status string
	errMsg string
}

// NewModel attaches a highlighter to sess that follows the viewer's scroll
// position. sess must post its completions to loop.
func NewModel(sess *Session, loop *mainloop.Loop, opts Options) Model {
	themes := opts.Themes
	if len(themes) == 0 {
		themes = DefaultThemes
	}
	idx := -1
	for i, name := range themes {
		if name == sess.Theme().Name() {
			idx = i
			break
		}
	}
	if idx < 0 {
		themes = append([]string{sess.Theme().Name()}, themes...)
		idx = 0
	}

	sc := &screen{lines: newLineIndex(sess.Doc.Bytes())}
	vp := viewport.New(0, 0)
	vp.SetContent(sess.Doc.String())
	sess.Attach(sc)

	return Model{
		opts:     opts,
		sess:     sess,
		loop:     loop,
		screen:   sc,
		vp:       vp,
		themes:   themes,
		themeIdx: idx,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForChange(m.opts.Changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(0, msg.Height-2)
		m.syncViewport()
		return m, nil

	case tickMsg:
		m.loop.Drain()
		return m, tickCmd()

	case fileChangedMsg:
		m.reload()
		return m, waitForChange(m.opts.Changes)

	case editorDoneMsg:
		if msg.err != nil {
			m.errMsg = "editor: " + msg.err.Error()
			return m, nil
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "t":
			m.cycleTheme()
			return m, nil
		case "r":
			m.reload()
			return m, nil
		case "e":
			cmd, err := editorCommand(m.opts.EditorCmd, m.opts.Path, m.screen.top+1)
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			return m, tea.ExecProcess(cmd, func(err error) tea.Msg { return editorDoneMsg{err: err} })
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	m.syncViewport()
	return m, cmd
}

// syncViewport tells the highlighter when the visible lines moved.
func (m *Model) syncViewport() {
	if m.screen.top == m.vp.YOffset && m.screen.height == m.vp.Height {
		return
	}
	m.screen.top = m.vp.YOffset
	m.screen.height = m.vp.Height
	m.sess.HL.ViewportChanged()
}

func (m *Model) cycleTheme() {
	for range m.themes {
		m.themeIdx = (m.themeIdx + 1) % len(m.themes)
		th, err := theme.Load(m.themes[m.themeIdx])
		if err != nil {
			log.Warn(log.CatView, "skipping theme", "theme", m.themes[m.themeIdx], "error", err)
			continue
		}
		m.sess.SetTheme(th)
		m.status = "theme " + th.Name()
		return
	}
}

func (m *Model) reload() {
	if m.opts.Path == "" {
		return
	}
	text, err := readfile.ReadNormalized(m.opts.Path)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	changed, err := m.sess.Reload(text)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	if !changed {
		return
	}

	m.screen.lines = newLineIndex(m.sess.Doc.Bytes())
	m.vp.SetContent(m.sess.Doc.String())
	m.screen.top = m.vp.YOffset
	m.sess.HL.ViewportChanged()
	m.status = fmt.Sprintf("reloaded %d lines", m.screen.lines.Count())
	log.Info(log.CatView, "reloaded", "path", m.opts.Path, "length", m.sess.Doc.Length())
}
