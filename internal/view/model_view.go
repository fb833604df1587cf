package view

import (
	"fmt"
	"path/filepath"
	"strings"

	"livehl/internal/rangeset"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	p := m.sess.Theme().Palette()
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Background(lipgloss.Color(p.StatusBG))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Background(lipgloss.Color(p.StatusBG)).Bold(true)

	name := filepath.Base(m.opts.Path)
	if m.opts.Path == "" {
		name = "[stdin]"
	}
	status := fmt.Sprintf("%s | %s | %s | %s", name, m.sess.Client.Language(), m.sess.Theme().Name(), m.coverage())
	if m.status != "" {
		status += " | " + m.status
	}
	line := truncateText(status, m.width)
	if m.errMsg != "" {
		room := m.width - lipgloss.Width(line) - 2
		if room > 0 {
			line += "  " + errStyle.Render(truncateText(m.errMsg, room))
		}
	}
	return barStyle.Render(padRightANSI(line, m.width))
}

// coverage summarises how much of the screen is highlighted.
func (m Model) coverage() string {
	r, ok := m.screen.VisibleRange()
	if !ok || r.Empty() {
		return "-"
	}
	valid := m.sess.HL.Valid()
	valid.Intersect(rangeset.Of(r))
	if valid.Count() == r.Len() {
		return "highlighted"
	}
	return fmt.Sprintf("highlighting %d%%", valid.Count()*100/r.Len())
}

func (m Model) renderBody() string {
	if m.vp.Height <= 0 {
		return ""
	}
	p := m.sess.Theme().Palette()
	filler := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	pending := pendingStyle(m.sess.Theme())

	rows := make([]string, 0, m.vp.Height)
	for i := m.screen.top; i < m.screen.top+m.vp.Height; i++ {
		if i >= m.screen.lines.Count() {
			rows = append(rows, padRightANSI(filler.Render("~"), m.width))
			continue
		}
		rows = append(rows, renderLine(m.sess.Doc, m.screen.lines.Line(i), m.width, pending))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderFooter() string {
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.sess.Theme().Palette().Muted))
	text := "up/down scroll  pgup/pgdn page  t theme  e edit  r reload  q quit"
	return footerStyle.Render(truncateText(text, m.width))
}
