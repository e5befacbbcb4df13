// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/reflex/internal/model"
	"github.com/verte-zerg/reflex/internal/scoring"
	"github.com/verte-zerg/reflex/internal/stats"
)

const timeLayout = "2006-01-02 15:04"

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	bestStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// tab is a history filter; an empty type shows every result.
type tab struct {
	label string
	typ   model.TestType
}

// Model implements the Bubble Tea history browser.
type Model struct {
	src  stats.Source
	cfg  model.HistoryConfig
	loc  *time.Location
	tabs []tab

	activeTab int
	results   []model.TestResult
	table     table.Model

	width  int
	height int
}

// NewModel constructs a history browser over src. cfg.Type selects the
// initial tab and cfg.Last limits the rows per tab.
func NewModel(src stats.Source, cfg model.HistoryConfig, loc *time.Location) *Model {
	if loc == nil {
		loc = time.Local
	}
	m := &Model{
		src:  src,
		cfg:  cfg,
		loc:  loc,
		tabs: []tab{{label: "All"}},
	}
	for _, t := range model.TestTypes {
		m.tabs = append(m.tabs, tab{label: t.Label(), typ: t})
		if t == cfg.Type {
			m.activeTab = len(m.tabs) - 1
		}
	}
	m.table = table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs() + "\n" + m.renderSummary()
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q")
	body := "No results found."
	if len(m.results) > 0 {
		body = tableMutedStyle.Render(m.table.View())
	}
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{header, body, footer}, "\n")
	}
	bodyHeight := maxInt(1, m.height-lipgloss.Height(header)-1)
	return strings.Join([]string{
		fitLines(header, m.width, lipgloss.Height(header)),
		fitLines(body, m.width, bodyHeight),
		fitLines(footer, m.width, 1),
	}, "\n")
}

// Active returns the test type of the selected tab, empty for All.
func (m *Model) Active() model.TestType {
	return m.tabs[m.activeTab].typ
}

// Rows returns the number of results shown.
func (m *Model) Rows() int {
	return len(m.results)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.refresh()
}

func (m *Model) refresh() {
	all := m.src.All()
	if typ := m.Active(); typ != "" {
		all = stats.ByType(all, typ)
	}
	if m.cfg.Last > 0 && len(all) > m.cfg.Last {
		all = all[:m.cfg.Last]
	}
	m.results = all
	rows := make([]table.Row, 0, len(all))
	for _, r := range all {
		rows = append(rows, table.Row{
			r.Time().In(m.loc).Format(timeLayout),
			r.Type.Label(),
			stats.FormatScore(r.Type, r.Score) + " " + r.Type.Unit(),
			scoring.ScaleFor(r.Type).Rate(r.Score),
			fmt.Sprintf("%gs", r.Duration),
			stats.FormatDetails(r.Details),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	headerHeight := lipgloss.Height(m.renderTabs()) + 1
	m.table.SetColumns(columns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, m.height-headerHeight-2))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(t.label))
		} else {
			parts = append(parts, inactiveNavStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSummary() string {
	typ := m.Active()
	if typ == "" {
		return headerStyle.Render(fmt.Sprintf("%d results stored", len(m.src.All())))
	}
	s := stats.Summarize(m.src.All(), typ)
	if s.Count == 0 {
		return headerStyle.Render("No " + typ.Label() + " results yet")
	}
	return headerStyle.Render(fmt.Sprintf("Runs %d  Average %s  Best ", s.Count, stats.FormatScore(typ, s.Average))) +
		bestStyle.Render(stats.FormatScore(typ, s.Best)+" "+typ.Unit())
}

func columns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Test", Width: 8},
		{Title: "Score", Width: 11},
		{Title: "Rating", Width: 16},
		{Title: "Duration", Width: 8},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 1
	}
	return append(fixed, table.Column{Title: "Details", Width: maxInt(10, width-used-1)})
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
