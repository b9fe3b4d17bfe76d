package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	modedomain "cxassist/internal/modules/mode/domain"
	sessiondto "cxassist/internal/modules/session/dto"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
	assessmentview "cxassist/internal/ui/views/assessment"
	assistview "cxassist/internal/ui/views/assist"
	dashboardview "cxassist/internal/ui/views/dashboard"
	guidelineview "cxassist/internal/ui/views/guideline"
	loginview "cxassist/internal/ui/views/login"
	modeselectview "cxassist/internal/ui/views/modeselect"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type SessionPort interface {
	Login(ctx context.Context, email string) (sessiondto.IdentityOutput, error)
	Logout(ctx context.Context) error
	Check(ctx context.Context) (sessiondto.GateOutput, error)
}

// Ports bundles everything the router hands to its screens.
type Ports struct {
	Session    SessionPort
	Assist     assistview.Port
	Assessment assessmentview.Port
	Dashboard  dashboardview.Port
	Guideline  guidelineview.Port
	Roster     []modedomain.Agent
	Suffix     string
}

// ─── screens ─────────────────────────────────────────────────────────────────

type screen int

const (
	screenLogin screen = iota
	screenModes
	screenAssist
	screenAssessment
	screenDashboard
)

// ─── async messages ───────────────────────────────────────────────────────────

type loggedOutMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Help    key.Binding
	Palette key.Binding
	Guide   key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys("ctrl+k", ":"), key.WithHelp("ctrl+k", "palette")),
		Guide:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "guidelines")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Palette, k.Guide, k.Back},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns routing, the session gate, the
// help overlay, and the command palette. Screens are rebuilt on every visit
// and tagged with a fresh instance id so late responses for an old screen are
// ignored.
type Model struct {
	ports Ports
	start modedomain.Route

	screen     screen
	route      modedomain.Route
	instance   int
	email      string
	login      loginview.Model
	modes      modeselectview.Model
	assist     assistview.Model
	assessment assessmentview.Model
	dashboard  dashboardview.Model
	guide      guidelineview.Model
	showGuide  bool

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

// NewModel builds the router. start is the first route requested; it still
// passes through the session gate.
func NewModel(ports Ports, start modedomain.Route) Model {
	m := Model{
		ports:   ports,
		start:   start,
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(paletteHints()),
		status:  "ready",
		guide:   guidelineview.New(ports.Guideline),
	}
	m.login = loginview.New(ports.Session, m.instance, ports.Suffix, "")
	return m
}

func (m Model) Init() tea.Cmd {
	return components.Navigate(m.start)
}

// ─── update ───────────────────────────────────────────────────────────────────

// Update routes msg. The open palette takes keyboard input only; every other
// message still reaches the active screen so in-flight responses land.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.palette.Visible() {
		return m.update(msg)
	}
	var paletteCmd tea.Cmd
	m.palette, paletteCmd = m.palette.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, paletteCmd
	}
	next, cmd := m.update(msg)
	return next, tea.Batch(paletteCmd, cmd)
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.guide, _ = m.guide.Update(m.contentSize())
		return m.forward(m.contentSize())

	case components.NavigateMsg:
		return m.navigate(msg.Route)

	case components.StatusMsg:
		m.status = msg.Text
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
			return m, nil
		}
		m.email = ""
		m.status = "signed out"
		return m.open(modedomain.Login(), "")

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case guidelineview.ClosedMsg:
		if m.showGuide {
			m.showGuide = false
			return m, nil
		}

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+k" {
			return m, m.palette.Open()
		}
		if m.showGuide {
			var cmd tea.Cmd
			m.guide, cmd = m.guide.Update(msg)
			return m, cmd
		}
		if m.acceptsShortcuts() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case ":":
				return m, m.palette.Open()
			case "ctrl+g":
				m.showGuide = true
				return m, nil
			}
		}
	}

	return m.forward(msg)
}

// forward hands msg to the active screen.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.Update(msg)
	case screenModes:
		m.modes, cmd = m.modes.Update(msg)
	case screenAssist:
		m.assist, cmd = m.assist.Update(msg)
	case screenAssessment:
		m.assessment, cmd = m.assessment.Update(msg)
	case screenDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

// acceptsShortcuts reports whether single-key globals are safe, i.e. the
// active screen has no free-text input with focus.
func (m Model) acceptsShortcuts() bool {
	switch m.screen {
	case screenModes:
		return !m.modes.Filtering()
	case screenDashboard:
		return true
	}
	return false
}

// navigate runs the session gate and then opens route. The login route is
// checked too so an already authorized user skips the form.
func (m Model) navigate(route modedomain.Route) (tea.Model, tea.Cmd) {
	gate, err := m.ports.Session.Check(context.Background())
	if err != nil {
		m.status = "session check failed: " + err.Error()
		return m.open(modedomain.Login(), err.Error())
	}
	if !gate.Allowed {
		m.email = ""
		notice := "Please log in to continue."
		if gate.Cleared {
			notice = "Your session was cleared. Please log in with an " + m.ports.Suffix + " address."
		}
		return m.open(modedomain.Login(), notice)
	}
	m.email = gate.Email
	if route.Path == modedomain.PathLogin {
		route = modedomain.ModeSelect()
	}
	return m.open(route, "")
}

// open abandons the current screen and builds a new one for route.
func (m Model) open(route modedomain.Route, notice string) (tea.Model, tea.Cmd) {
	m.abandon()
	m.instance++
	m.route = route
	m.showGuide = false

	var cmd tea.Cmd
	switch route.Path {
	case modedomain.PathLogin:
		m.screen = screenLogin
		m.login = loginview.New(m.ports.Session, m.instance, m.ports.Suffix, notice)
		cmd = m.login.Init()
	case modedomain.PathAssist:
		m.screen = screenAssist
		m.assist = assistview.New(m.ports.Assist, m.ports.Guideline, m.instance, route.Agent)
		cmd = m.assist.Init()
	case modedomain.PathAssessment:
		m.screen = screenAssessment
		m.assessment = assessmentview.New(m.ports.Assessment, m.instance, route.Agent, m.email)
		cmd = m.assessment.Init()
	case modedomain.PathDashboard:
		m.screen = screenDashboard
		m.dashboard = dashboardview.New(m.ports.Dashboard, m.instance, route.Agent)
		cmd = m.dashboard.Init()
	default:
		m.screen = screenModes
		m.route = modedomain.ModeSelect()
		m.modes = modeselectview.New(m.ports.Roster, m.email)
		cmd = m.modes.Init()
	}
	if m.width > 0 {
		next, sizeCmd := m.forward(m.contentSize())
		return next, tea.Batch(cmd, sizeCmd)
	}
	return m, cmd
}

func (m *Model) abandon() {
	switch m.screen {
	case screenAssist:
		m.assist.Abandon()
	case screenAssessment:
		m.assessment.Abandon()
	case screenDashboard:
		m.dashboard.Abandon()
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.showGuide:
		content = m.guide.View()
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) activeView() string {
	switch m.screen {
	case screenLogin:
		return m.login.View()
	case screenModes:
		return m.modes.View()
	case screenAssist:
		return m.assist.View()
	case screenAssessment:
		return m.assessment.View()
	case screenDashboard:
		return m.dashboard.View()
	}
	return ""
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render("cxassist") + "  " + theme.Muted.Render(m.route.String())
	if m.email != "" {
		bar += "  " + theme.Muted.Render(m.email)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("ctrl+k:palette  ctrl+c:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) contentSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)}
}

// ─── palette execution ────────────────────────────────────────────────────────

type paletteCommand struct {
	name  string
	usage string
	run   func(m Model, arg string) (tea.Model, tea.Cmd)
}

// paletteCommands is the command table behind executePalette and the
// palette's hint list.
var paletteCommands = []paletteCommand{
	{name: "go:modes", usage: "go:modes", run: func(m Model, _ string) (tea.Model, tea.Cmd) {
		return m.navigate(modedomain.ModeSelect())
	}},
	{name: "go:assist", usage: "go:assist <agent>", run: runFlow(modedomain.FlowAssist)},
	{name: "go:assessment", usage: "go:assessment <agent>", run: runFlow(modedomain.FlowAssessment)},
	{name: "go:dashboard", usage: "go:dashboard [agent]", run: runFlow(modedomain.FlowDashboard)},
	{name: "go", usage: "go /assist?agent=<agent>", run: func(m Model, arg string) (tea.Model, tea.Cmd) {
		if arg == "" {
			m.status = "usage: go <route>"
			return m, nil
		}
		route, err := modedomain.ParseRoute(arg)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m.navigate(route)
	}},
	{name: "guideline", usage: "guideline", run: func(m Model, _ string) (tea.Model, tea.Cmd) {
		if m.screen == screenLogin {
			m.status = "log in first"
			return m, nil
		}
		m.showGuide = true
		return m, nil
	}},
	{name: "logout", usage: "logout", run: func(m Model, _ string) (tea.Model, tea.Cmd) {
		return m, m.logoutCmd()
	}},
}

func paletteHints() []string {
	hints := make([]string, len(paletteCommands))
	for i, c := range paletteCommands {
		hints[i] = c.usage
	}
	return hints
}

func runFlow(flow modedomain.Flow) func(Model, string) (tea.Model, tea.Cmd) {
	return func(m Model, agent string) (tea.Model, tea.Cmd) {
		route, err := modedomain.Select(agent, flow)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		route.Agent = agent
		return m.navigate(route)
	}
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}
	for _, c := range paletteCommands {
		if c.name == parts[0] {
			return c.run(m, arg)
		}
	}
	m.status = "unknown command: " + parts[0]
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.ports.Session.Logout(context.Background())}
	}
}
