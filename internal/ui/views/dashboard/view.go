package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cxassist/internal/modules/dashboard/domain"
	modedomain "cxassist/internal/modules/mode/domain"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
)

type Port interface {
	NewBoard(view domain.View) *domain.Board
	Weeks(ctx context.Context) ([]string, error)
	Results(ctx context.Context, week, agentID string) ([]domain.Row, error)
}

type WeeksMsg struct {
	Instance int
	Weeks    []string
	Err      error
}

type ResultsMsg struct {
	Instance   int
	Generation uint64
	Rows       []domain.Row
	Err        error
}

const barWidth = 40

type Model struct {
	port     Port
	instance int
	agentID  string
	board    *domain.Board
	table    table.Model
	spinner  spinner.Model
	width    int
}

// New builds the dashboard. A non-empty agentID narrows the results to that
// agent.
func New(port Port, instance int, agentID string) Model {
	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Peach).Bold(true)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		instance: instance,
		agentID:  agentID,
		board:    port.NewBoard(domain.Chart),
		table:    t,
		spinner:  sp,
	}
}

func columns(width int) []table.Column {
	feedback := max((width-46)/2, 20)
	return []table.Column{
		{Title: "Agent", Width: 12},
		{Title: "Scenario", Width: 8},
		{Title: "Score", Width: 5},
		{Title: "Good Points", Width: feedback},
		{Title: "Needs Improvement", Width: feedback},
		{Title: "Timestamp", Width: 16},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.weeksCmd(), m.spinner.Tick)
}

// Abandon is a no-op hook for the router; stale results are dropped by the
// instance and generation checks.
func (m Model) Abandon() {}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case WeeksMsg:
		if msg.Instance != m.instance {
			return m, nil
		}
		if gen, ok := m.board.WeeksLoaded(msg.Weeks, msg.Err); ok {
			return m, m.resultsCmd(gen, m.board.Week())
		}
		return m, nil

	case ResultsMsg:
		if msg.Instance != m.instance || !m.board.ResultsLoaded(msg.Generation, msg.Rows, msg.Err) {
			return m, nil
		}
		m.table.SetRows(tableRows(m.board.Rows()))
		m.table.GotoTop()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, components.Navigate(modedomain.ModeSelect())
		case "v":
			m.board.Toggle()
			return m, nil
		case "[", "]":
			return m, m.cycleWeek(msg.String() == "]")
		}
	}

	if m.board.View() == domain.Table {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) cycleWeek(forward bool) tea.Cmd {
	weeks := m.board.Weeks()
	if len(weeks) == 0 {
		return nil
	}
	idx := 0
	for i, w := range weeks {
		if w == m.board.Week() {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(weeks)
	} else {
		idx = (idx + len(weeks) - 1) % len(weeks)
	}
	gen, err := m.board.SelectWeek(weeks[idx])
	if err != nil {
		return nil
	}
	return m.resultsCmd(gen, weeks[idx])
}

func (m Model) View() string {
	week := m.board.Week()
	if week == "" {
		week = "-"
	}
	title := "Dashboard"
	if m.agentID != "" {
		title += ": " + modedomain.DisplayName(m.agentID)
	}
	header := theme.Title.Render(title) +
		theme.Muted.Render(fmt.Sprintf("  week %s  [/]: week  v: %s view  esc: back", week, other(m.board.View())))

	var body string
	switch {
	case m.board.Err() != nil:
		body = theme.Error.Render("Error loading results: " + m.board.Err().Error())
	case m.board.Loading():
		body = m.spinner.View() + " Loading results…"
	case m.board.NoWeeks():
		body = theme.Muted.Render(domain.NoWeeksMessage)
	case len(m.board.Weeks()) == 0 && m.board.Week() == "":
		body = m.spinner.View() + " Loading weeks…"
	case m.board.Empty():
		body = theme.Muted.Render(domain.EmptyMessage)
	case m.board.View() == domain.Table:
		body = m.table.View()
	default:
		body = renderChart(m.board.Aggregate())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func other(v domain.View) string {
	if v == domain.Chart {
		return domain.Table.String()
	}
	return domain.Chart.String()
}

func renderChart(scores []domain.AgentScore) string {
	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		filled := int(s.Average / 100 * barWidth)
		filled = min(max(filled, 0), barWidth)
		bar := theme.ScoreStyle(s.Average).Render(strings.Repeat("█", filled)) +
			theme.Muted.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%-12s %s %5.1f  (%d)", modedomain.DisplayName(s.AgentID), bar, s.Average, s.Count))
	}
	return strings.Join(lines, "\n")
}

func tableRows(rows []domain.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		ts := ""
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Local().Format("2006-01-02 15:04")
		}
		out = append(out, table.Row{
			r.AgentID,
			strconv.Itoa(r.ScenarioID),
			strconv.Itoa(r.Score),
			r.FeedbackGoodPoints,
			r.FeedbackNeedsImprovement,
			ts,
		})
	}
	return out
}

func (m Model) weeksCmd() tea.Cmd {
	instance := m.instance
	return func() tea.Msg {
		weeks, err := m.port.Weeks(context.Background())
		return WeeksMsg{Instance: instance, Weeks: weeks, Err: err}
	}
}

func (m Model) resultsCmd(gen uint64, week string) tea.Cmd {
	instance, agentID := m.instance, m.agentID
	return tea.Batch(func() tea.Msg {
		rows, err := m.port.Results(context.Background(), week, agentID)
		return ResultsMsg{Instance: instance, Generation: gen, Rows: rows, Err: err}
	}, m.spinner.Tick)
}
