package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	modedomain "cxassist/internal/modules/mode/domain"
	sessiondto "cxassist/internal/modules/session/dto"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
)

type Port interface {
	Login(ctx context.Context, email string) (sessiondto.IdentityOutput, error)
}

type LoggedInMsg struct {
	Instance int
	Identity sessiondto.IdentityOutput
	Err      error
}

type Model struct {
	port     Port
	instance int
	suffix   string
	input    textinput.Model
	err      string
	pending  bool
	width    int
	height   int
}

func New(port Port, instance int, suffix, notice string) Model {
	ti := textinput.New()
	ti.Placeholder = "you" + suffix
	ti.CharLimit = 254
	ti.Width = 40
	ti.Focus()
	return Model{port: port, instance: instance, suffix: suffix, input: ti, err: notice}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoggedInMsg:
		if msg.Instance != m.instance {
			return m, nil
		}
		m.pending = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		return m, tea.Batch(
			components.Status("signed in as "+msg.Identity.Email),
			components.Navigate(modedomain.ModeSelect()),
		)

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.pending {
			email := strings.TrimSpace(m.input.Value())
			if email == "" {
				m.err = "Please enter your email address."
				return m, nil
			}
			m.pending = true
			m.err = ""
			return m, m.loginCmd(email)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("CX Assistant Login") + "\n\n")
	sb.WriteString(theme.Muted.Render("Sign in with your "+m.suffix+" email address.") + "\n\n")
	sb.WriteString(m.input.View() + "\n")
	if m.err != "" {
		sb.WriteString("\n" + theme.Error.Render(m.err) + "\n")
	}
	if m.pending {
		sb.WriteString("\n" + theme.Muted.Render("signing in…") + "\n")
	}
	box := theme.PaneActive.Padding(1, 2).Render(sb.String())
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) loginCmd(email string) tea.Cmd {
	instance := m.instance
	return func() tea.Msg {
		out, err := m.port.Login(context.Background(), email)
		return LoggedInMsg{Instance: instance, Identity: out, Err: err}
	}
}
