package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/stats"
	"github.com/verte-zerg/reflex/internal/textgen"
	"github.com/verte-zerg/reflex/internal/trial"
)

type countdownTickMsg struct {
	tag uint64
}

// CountdownModel drives a click, spacebar or typing trial.
type CountdownModel struct {
	trial *trial.Countdown
	agg   *stats.Aggregator
	gen   *textgen.Generator

	width  int
	height int
}

// NewCountdownModel constructs a trial screen. gen supplies typing targets
// and may be nil for counter trials.
func NewCountdownModel(tr *trial.Countdown, agg *stats.Aggregator, gen *textgen.Generator) *CountdownModel {
	m := &CountdownModel{trial: tr, agg: agg, gen: gen}
	m.nextTarget()
	return m
}

// Init implements tea.Model.
func (m *CountdownModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *CountdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownTickMsg:
		if next, ok := m.trial.Tick(msg.tag); ok {
			return m, m.schedule(next)
		}
		return m, nil
	case tea.MouseMsg:
		if m.trial.Variant().Kind == trial.Counter &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.press()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *CountdownModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.reset()
		return m, nil
	case tea.KeyLeft:
		m.cycleDuration(-1)
		return m, nil
	case tea.KeyRight:
		m.cycleDuration(1)
		return m, nil
	}

	if m.trial.Variant().Kind == trial.Text {
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			typed := []rune(m.trial.Snapshot().Typed)
			if len(typed) > 0 {
				return m, m.input(string(typed[:len(typed)-1]))
			}
		case tea.KeySpace:
			return m, m.appendRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.appendRunes(msg.Runes)
		}
		return m, nil
	}

	switch {
	case msg.Type == tea.KeySpace:
		return m, m.press()
	case msg.Type == tea.KeyEnter && m.trial.Variant().Type == model.ClickSpeed:
		return m, m.press()
	case msg.String() == "q":
		return m, tea.Quit
	case msg.String() == "r":
		m.reset()
	}
	return m, nil
}

func (m *CountdownModel) press() tea.Cmd {
	if tick, ok := m.trial.Press(); ok {
		return m.schedule(tick)
	}
	return nil
}

func (m *CountdownModel) appendRunes(runes []rune) tea.Cmd {
	snap := m.trial.Snapshot()
	if snap.Phase == trial.Finished {
		return nil
	}
	typed := []rune(snap.Typed)
	room := len([]rune(snap.Target)) - len(typed)
	if room <= 0 {
		return nil
	}
	if len(runes) > room {
		runes = runes[:room]
	}
	return m.input(string(append(typed, runes...)))
}

func (m *CountdownModel) input(text string) tea.Cmd {
	if tick, ok := m.trial.Input(text); ok {
		return m.schedule(tick)
	}
	return nil
}

func (m *CountdownModel) schedule(t trial.Tick) tea.Cmd {
	return schedule(t, func(tag uint64) tea.Msg { return countdownTickMsg{tag: tag} })
}

func (m *CountdownModel) reset() {
	m.trial.Reset()
	m.nextTarget()
}

func (m *CountdownModel) nextTarget() {
	if m.trial.Variant().Kind == trial.Text && m.gen != nil {
		m.trial.SetTarget(m.gen.Next())
	}
}

func (m *CountdownModel) cycleDuration(delta int) {
	snap := m.trial.Snapshot()
	if snap.Phase != trial.Idle || len(snap.Durations) == 0 {
		return
	}
	idx := slices.Index(snap.Durations, snap.Duration)
	idx = (idx + delta + len(snap.Durations)) % len(snap.Durations)
	m.trial.SelectDuration(snap.Durations[idx])
}

// View implements tea.Model.
func (m *CountdownModel) View() string {
	snap := m.trial.Snapshot()
	sections := []string{
		titleStyle.Render(title(snap.Type)),
		renderDurations(snap),
		"",
	}
	if snap.Type == model.TypingSpeed {
		sections = append(sections, m.typingBody(snap))
	} else {
		sections = append(sections, counterBody(snap))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return place(m.width, m.height, content, m.renderFooter(snap))
}

func title(t model.TestType) string {
	switch t {
	case model.ClickSpeed:
		return "CPS Test"
	case model.SpacebarSpeed:
		return "Spacebar Test"
	case model.TypingSpeed:
		return "Typing Test"
	}
	return t.Label()
}

func renderDurations(snap trial.CountdownSnapshot) string {
	parts := make([]string, 0, len(snap.Durations))
	for _, d := range snap.Durations {
		label := fmt.Sprintf("%ds", d)
		if d == snap.Duration {
			parts = append(parts, activeOptStyle.Render(label))
		} else {
			parts = append(parts, inactiveOptStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func counterBody(snap trial.CountdownSnapshot) string {
	action := "Click (or press Space or Enter)"
	noun := "clicks"
	if snap.Type == model.SpacebarSpeed {
		action = "Press Space (or click)"
		noun = "hits"
	}
	switch snap.Phase {
	case trial.Running:
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			scoreStyle.Render(fmt.Sprintf("%d", snap.Count)),
			noun,
			"",
			fmt.Sprintf("%.1fs", snap.Remaining.Seconds()),
		))
	case trial.Finished:
		return panelStyle.Render(renderOutcome(snap.Outcome))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		action+" to start",
		fmt.Sprintf("%d second test", snap.Duration),
	))
}

func (m *CountdownModel) typingBody(snap trial.CountdownSnapshot) string {
	if snap.Phase == trial.Finished && snap.Outcome != nil {
		ts := snap.Outcome.Typing
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			renderOutcome(snap.Outcome),
			"",
			fmt.Sprintf("CPM %d · Accuracy %d%% · Errors %d", ts.CPM, ts.Accuracy, ts.Errors),
		))
	}
	target := []rune(snap.Target)
	typed := []rune(snap.Typed)
	cursor := -1
	if len(typed) < len(target) {
		cursor = len(typed)
	}
	styled := buildStyledRunes(target, typed, cursor)
	width := int(float64(m.width) * 0.70)
	text := wrapStyledRunes(styled, width)
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	status := "Start typing to begin"
	if snap.Phase == trial.Running {
		status = fmt.Sprintf("%.0fs left", snap.Remaining.Seconds())
	}
	return lipgloss.JoinVertical(lipgloss.Center, text, "", status)
}

func renderOutcome(o *trial.Outcome) string {
	if o == nil {
		return ""
	}
	t := o.Result.Type
	return lipgloss.JoinVertical(lipgloss.Center,
		scoreStyle.Render(stats.FormatScore(t, o.Result.Score)+" "+t.Unit()),
		ratingStyle.Render(o.Rating),
	)
}

func (m *CountdownModel) renderFooter(snap trial.CountdownSnapshot) string {
	segments := []string{}
	if best, ok := m.agg.BestScore(snap.Type); ok {
		segments = append(segments, fmt.Sprintf("Best %s %s", stats.FormatScore(snap.Type, best), snap.Type.Unit()))
	}
	help := "tab: retry  ←/→: duration  esc: quit"
	if snap.Type != model.TypingSpeed {
		help = "r: retry  ←/→: duration  q: quit"
	}
	segments = append(segments, help)
	return footerStyle.Render(strings.Join(segments, "  "))
}
