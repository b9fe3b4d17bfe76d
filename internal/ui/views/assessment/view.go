package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"cxassist/internal/modules/assessment/domain"
	modedomain "cxassist/internal/modules/mode/domain"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
)

type Port interface {
	NewMachine(agentID string) *domain.Machine
	Weeks(ctx context.Context) ([]string, error)
	Scenarios(ctx context.Context, week string) ([]domain.Scenario, error)
	SubmitOne(ctx context.Context, sub domain.Submission) (domain.Result, error)
	WriteReport(ctx context.Context, m *domain.Machine, reviewer string) (string, error)
}

type WeeksMsg struct {
	Instance int
	Weeks    []string
	Err      error
}

type ScenariosMsg struct {
	Instance   int
	Generation uint64
	Scenarios  []domain.Scenario
	Err        error
}

type ResultMsg struct {
	Instance   int
	Generation uint64
	Result     domain.Result
	Err        error
}

type Model struct {
	port     Port
	instance int
	reviewer string
	machine  *domain.Machine
	current  int
	draft    textarea.Model
	results  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	notice   string
	err      string
	width    int
	height   int
}

func New(port Port, instance int, agentID, reviewer string) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your reply to the client…"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(80))

	return Model{
		port:     port,
		instance: instance,
		reviewer: reviewer,
		machine:  port.NewMachine(agentID),
		draft:    ta,
		results:  viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.weeksCmd(), m.spinner.Tick, textarea.Blink)
}

// Abandon drops pending loads and submissions.
func (m Model) Abandon() { m.machine.Abandon() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.draft.SetWidth(max(msg.Width-2, 20))
		m.results.Width = msg.Width
		m.results.Height = max(msg.Height-4, 3)
		if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(max(msg.Width-4, 20))); err == nil {
			m.renderer = r
		}
		m.renderResults()
		return m, nil

	case WeeksMsg:
		if msg.Instance != m.instance {
			return m, nil
		}
		if msg.Err != nil {
			m.err = "Error loading weeks: " + msg.Err.Error()
			return m, nil
		}
		if gen, ok := m.machine.WeeksLoaded(msg.Weeks); ok {
			return m, m.scenariosCmd(gen, m.machine.Week())
		}
		return m, nil

	case ScenariosMsg:
		if msg.Instance != m.instance || !m.machine.ScenariosLoaded(msg.Generation, msg.Scenarios, msg.Err) {
			return m, nil
		}
		m.current = 0
		m.err = ""
		if msg.Err != nil {
			m.err = "Error loading scenarios: " + msg.Err.Error()
		}
		m.loadDraft()
		return m, nil

	case ResultMsg:
		if msg.Instance != m.instance {
			return m, nil
		}
		step, ok := m.machine.Advance(msg.Generation, msg.Result, msg.Err)
		if !ok {
			return m, nil
		}
		return m.afterStep(step)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.machine.State() {
	case domain.Answering:
		m.draft, cmd = m.draft.Update(msg)
	case domain.Reviewing:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	state := m.machine.State()
	switch msg.String() {
	case "esc":
		m.machine.Abandon()
		return components.Navigate(modedomain.ModeSelect()), true
	case "ctrl+n", "ctrl+p":
		if state != domain.Answering || len(m.machine.Scenarios()) == 0 {
			return nil, true
		}
		m.saveDraft()
		n := len(m.machine.Scenarios())
		if msg.String() == "ctrl+n" {
			m.current = (m.current + 1) % n
		} else {
			m.current = (m.current + n - 1) % n
		}
		m.loadDraft()
		return nil, true
	case "ctrl+left", "ctrl+right":
		return m.cycleWeek(msg.String() == "ctrl+right"), true
	case "[", "]":
		if state == domain.Answering {
			return nil, false
		}
		return m.cycleWeek(msg.String() == "]"), true
	case "ctrl+s":
		if state != domain.Answering {
			return nil, true
		}
		m.saveDraft()
		step, err := m.machine.BeginSubmit()
		if err != nil {
			m.err = err.Error()
			return nil, true
		}
		m.err = ""
		return m.requestCmd(step), true
	case "r":
		if state != domain.Reviewing {
			return nil, false
		}
		if err := m.machine.Retake(); err != nil {
			m.err = err.Error()
		}
		m.notice = ""
		m.loadDraft()
		return nil, true
	case "w":
		if state != domain.Reviewing {
			return nil, false
		}
		path, err := m.port.WriteReport(context.Background(), m.machine, m.reviewer)
		if err != nil {
			m.err = err.Error()
		} else {
			m.notice = "report written to " + path
		}
		return nil, true
	}
	return nil, false
}

func (m Model) afterStep(step domain.Step) (Model, tea.Cmd) {
	switch step.State {
	case domain.Answering:
		m.err = "Error submitting assessment: " + step.Err.Error()
		m.loadDraft()
		return m, nil
	case domain.Reviewing:
		m.err = ""
		m.renderResults()
		m.results.GotoTop()
		return m, nil
	}
	return m, m.requestCmd(step)
}

func (m *Model) cycleWeek(forward bool) tea.Cmd {
	weeks := m.machine.Weeks()
	if len(weeks) == 0 || m.machine.State() == domain.Submitting {
		return nil
	}
	idx := 0
	for i, w := range weeks {
		if w == m.machine.Week() {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(weeks)
	} else {
		idx = (idx + len(weeks) - 1) % len(weeks)
	}
	gen, err := m.machine.SelectWeek(weeks[idx])
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.notice = ""
	m.draft.Reset()
	return m.scenariosCmd(gen, weeks[idx])
}

func (m *Model) saveDraft() {
	scenarios := m.machine.Scenarios()
	if m.current < len(scenarios) {
		_ = m.machine.SetDraft(scenarios[m.current].ID, m.draft.Value())
	}
}

func (m *Model) loadDraft() {
	scenarios := m.machine.Scenarios()
	if m.current < len(scenarios) {
		m.draft.SetValue(m.machine.Draft(scenarios[m.current].ID))
	} else {
		m.draft.Reset()
	}
}

func (m Model) View() string {
	week := m.machine.Week()
	if week == "" {
		week = "-"
	}
	header := theme.Title.Render("Assessment: "+modedomain.DisplayName(m.machine.AgentID())) +
		theme.Muted.Render(fmt.Sprintf("  week %s  (ctrl+←/ctrl+→ change)  esc: back", week))

	var body string
	switch m.machine.State() {
	case domain.SelectingWeek:
		if len(m.machine.Weeks()) == 0 && m.err == "" {
			body = m.spinner.View() + " Loading weeks…"
		} else {
			body = theme.Muted.Render("Please select a week for the assessment.")
		}
	case domain.LoadingScenarios:
		body = m.spinner.View() + " Loading scenarios…"
	case domain.Answering:
		body = m.renderAnswering()
	case domain.Submitting:
		done, total := m.machine.Progress()
		body = m.spinner.View() + fmt.Sprintf(" Scoring scenario %d of %d…", done+1, total)
	case domain.Reviewing:
		body = m.results.View() + "\n" + theme.Muted.Render("r: retake  w: write report  ↑/↓: scroll")
	}

	parts := []string{header, body}
	if m.err != "" {
		parts = append(parts, theme.Error.Render(m.err))
	}
	if m.notice != "" {
		parts = append(parts, theme.OK.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderAnswering() string {
	scenarios := m.machine.Scenarios()
	if len(scenarios) == 0 {
		return theme.Muted.Render("No scenarios for this week.")
	}
	sc := scenarios[m.current]
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", theme.Hot.Render(fmt.Sprintf("Scenario %d of %d: %s", m.current+1, len(scenarios), sc.Title)))
	fmt.Fprintf(&sb, "%s\n", theme.Muted.Render("Client: ")+sc.ClientMessage)
	if sc.ImagePath != "" {
		fmt.Fprintf(&sb, "%s\n", theme.Muted.Render("Image: "+sc.ImagePath))
	}
	sb.WriteString("\n" + m.draft.View() + "\n")

	marks := make([]string, len(scenarios))
	for i, s := range scenarios {
		mark := "○"
		if strings.TrimSpace(m.machine.Draft(s.ID)) != "" {
			mark = "●"
		}
		if i == m.current {
			mark = theme.Hot.Render(mark)
		}
		marks[i] = mark
	}
	sb.WriteString(strings.Join(marks, " ") + "  " + theme.Muted.Render("ctrl+n/ctrl+p: scenario  ctrl+s: submit all"))
	return sb.String()
}

func (m *Model) renderResults() {
	results := m.machine.Results()
	if len(results) == 0 {
		m.results.SetContent("")
		return
	}
	titles := map[int]string{}
	for _, sc := range m.machine.Scenarios() {
		titles[sc.ID] = sc.Title
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Results\n\nAverage score: **%.1f**\n", domain.AverageScore(results))
	for _, r := range results {
		fmt.Fprintf(&sb, "\n## %s (score %d)\n\n> %s\n", titles[r.ScenarioID], r.Score, strings.ReplaceAll(r.AgentReply, "\n", "\n> "))
		if len(r.Feedback.GoodPoints) > 0 {
			sb.WriteString("\n**Good points**\n\n")
			for _, p := range r.Feedback.GoodPoints {
				fmt.Fprintf(&sb, "- %s\n", p)
			}
		}
		if len(r.Feedback.NeedsImprovement) > 0 {
			sb.WriteString("\n**Needs improvement**\n\n")
			for _, p := range r.Feedback.NeedsImprovement {
				fmt.Fprintf(&sb, "- %s\n", p)
			}
		}
	}
	content := sb.String()
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = rendered
		}
	}
	m.results.SetContent(content)
}

func (m Model) weeksCmd() tea.Cmd {
	instance := m.instance
	return func() tea.Msg {
		weeks, err := m.port.Weeks(context.Background())
		return WeeksMsg{Instance: instance, Weeks: weeks, Err: err}
	}
}

func (m Model) scenariosCmd(gen uint64, week string) tea.Cmd {
	instance := m.instance
	return tea.Batch(func() tea.Msg {
		scenarios, err := m.port.Scenarios(context.Background(), week)
		return ScenariosMsg{Instance: instance, Generation: gen, Scenarios: scenarios, Err: err}
	}, m.spinner.Tick)
}

// requestCmd issues step.Next; the following request is only issued once
// this one's ResultMsg arrives.
func (m Model) requestCmd(step domain.Step) tea.Cmd {
	if step.Next == nil {
		return nil
	}
	instance := m.instance
	gen := m.machine.Generation()
	sub := *step.Next
	return tea.Batch(func() tea.Msg {
		result, err := m.port.SubmitOne(context.Background(), sub)
		return ResultMsg{Instance: instance, Generation: gen, Result: result, Err: err}
	}, m.spinner.Tick)
}
