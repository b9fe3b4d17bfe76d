package modeselect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	modedomain "cxassist/internal/modules/mode/domain"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
)

type agentItem struct {
	agent modedomain.Agent
}

func (i agentItem) Title() string       { return i.agent.Name }
func (i agentItem) Description() string { return i.agent.ID }
func (i agentItem) FilterValue() string { return i.agent.ID }

// Model lets the user pick an agent and a flow. It holds no network state.
type Model struct {
	list   list.Model
	email  string
	err    string
	width  int
	height int
}

func New(agents []modedomain.Agent, email string) Model {
	items := make([]list.Item, len(agents))
	for i, a := range agents {
		items[i] = agentItem{agent: a}
	}
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Choose an agent"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{list: l, email: email}
}

func (m Model) Init() tea.Cmd { return nil }

// Filtering reports whether the agent filter is capturing keys.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-4, 3))

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		var flow modedomain.Flow
		switch msg.String() {
		case "enter", "a":
			flow = modedomain.FlowAssist
		case "s":
			flow = modedomain.FlowAssessment
		case "d":
			flow = modedomain.FlowDashboard
		}
		if flow != "" {
			return m.choose(flow)
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) choose(flow modedomain.Flow) (Model, tea.Cmd) {
	agentID := ""
	if item, ok := m.list.SelectedItem().(agentItem); ok {
		agentID = item.agent.ID
	}
	route, err := modedomain.Select(agentID, flow)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	return m, components.Navigate(route)
}

func (m Model) View() string {
	footer := theme.Muted.Render("enter/a: assist  s: assessment  d: dashboard  /: filter")
	if m.email != "" {
		footer = theme.Muted.Render(fmt.Sprintf("signed in as %s  ", m.email)) + footer
	}
	parts := []string{m.list.View(), footer}
	if m.err != "" {
		parts = append(parts, theme.Error.Render(m.err))
	}
	return strings.Join(parts, "\n")
}
