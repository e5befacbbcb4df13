// Package tui provides the Bubble Tea trial screens.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/reflex/internal/trial"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	scoreStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	ratingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B48EF0"))
	activeOptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Underline(true)
	inactiveOptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	panelStyle = lipgloss.NewStyle().
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	waitingPanel  = panelStyle.BorderForeground(lipgloss.Color("#FF4D4F"))
	readyPanel    = panelStyle.BorderForeground(lipgloss.Color("#52C41A"))
	tooEarlyPanel = panelStyle.BorderForeground(lipgloss.Color("#FAAD14"))
)

// schedule turns a trial tick into a Bubble Tea timer command.
func schedule(t trial.Tick, wrap func(tag uint64) tea.Msg) tea.Cmd {
	return tea.Tick(t.After, func(time.Time) tea.Msg {
		return wrap(t.Tag)
	})
}

// place centers content with an optional one-line footer.
func place(width, height int, content, footer string) string {
	if width == 0 || height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n" + footer
	}
	if footer == "" || height < 3 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}
