package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/stats"
	"github.com/verte-zerg/reflex/internal/trial"
)

type readyMsg struct {
	tag uint64
}

// ReactionModel drives a reaction time session.
type ReactionModel struct {
	trial *trial.Reaction
	agg   *stats.Aggregator

	width  int
	height int
}

// NewReactionModel constructs the reaction screen.
func NewReactionModel(tr *trial.Reaction, agg *stats.Aggregator) *ReactionModel {
	return &ReactionModel{trial: tr, agg: agg}
}

// Init schedules the first ready signal.
func (m *ReactionModel) Init() tea.Cmd {
	return m.schedule(m.trial.Start())
}

// Update implements tea.Model.
func (m *ReactionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case readyMsg:
		m.trial.Elapse(msg.tag)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.press()
		}
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeySpace, tea.KeyEnter:
			return m, m.press()
		case tea.KeyTab:
			return m, m.schedule(m.trial.Reset())
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ReactionModel) press() tea.Cmd {
	if tick, ok := m.trial.Press(); ok {
		return m.schedule(tick)
	}
	return nil
}

func (m *ReactionModel) schedule(t trial.Tick) tea.Cmd {
	return schedule(t, func(tag uint64) tea.Msg { return readyMsg{tag: tag} })
}

// View implements tea.Model.
func (m *ReactionModel) View() string {
	snap := m.trial.Snapshot()
	var body string
	switch snap.Phase {
	case trial.Waiting:
		body = waitingPanel.Render(lipgloss.JoinVertical(lipgloss.Center,
			"Wait for green...",
			"",
			"Pressing now counts as too early",
		))
	case trial.Ready:
		body = readyPanel.Render(scoreStyle.Render("PRESS!"))
	case trial.TooEarly:
		body = tooEarlyPanel.Render(lipgloss.JoinVertical(lipgloss.Center,
			"Too early!",
			"",
			"Press to try again",
		))
	case trial.Result:
		body = panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			renderOutcome(snap.Outcome),
			"",
			"Press to go again",
		))
	}

	sections := []string{titleStyle.Render("Reaction Time Test"), "", body}
	if len(snap.Attempts) > 0 {
		sections = append(sections, "", fmt.Sprintf("Attempts %d · Average %d ms · Best %d ms",
			len(snap.Attempts), snap.Average, snap.Best))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return place(m.width, m.height, content, m.renderFooter())
}

func (m *ReactionModel) renderFooter() string {
	segments := []string{}
	if best, ok := m.agg.BestScore(model.ReactionTime); ok {
		segments = append(segments, fmt.Sprintf("Best %s ms", stats.FormatScore(model.ReactionTime, best)))
	}
	segments = append(segments, "space/click: press  tab: new session  q: quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}
