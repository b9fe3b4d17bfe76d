package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"cxassist/internal/modules/assist/domain"
	modedomain "cxassist/internal/modules/mode/domain"
	"cxassist/internal/ui/components"
	"cxassist/internal/ui/theme"
	guidelineview "cxassist/internal/ui/views/guideline"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Start(ctx context.Context, agentID string) *domain.Conversation
	Attach(ctx context.Context, conv *domain.Conversation, paths []string) ([]domain.Attachment, error)
	Begin(ctx context.Context, conv *domain.Conversation) (domain.Request, error)
	Dispatch(ctx context.Context, req domain.Request) (domain.Reply, error)
	Complete(ctx context.Context, conv *domain.Conversation, gen uint64, reply domain.Reply, failure error) (domain.Turn, bool)
	SelectReply(ctx context.Context, conv *domain.Conversation, index int) (domain.Turn, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// ReplyMsg carries a backend response back to the view that issued it.
type ReplyMsg struct {
	Instance   int
	Generation uint64
	Reply      domain.Reply
	Err        error
}

type focus int

const (
	focusPrompt focus = iota
	focusTranscript
	focusAttach
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       Port
	instance   int
	conv       *domain.Conversation
	transcript viewport.Model
	prompt     textarea.Model
	attach     textinput.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	guide      guidelineview.Model
	showGuide  bool
	focus      focus
	err        string
	width      int
	height     int
}

func New(port Port, guidelines guidelineview.Port, instance int, agentID string) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste the client's message…"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "file paths, comma separated"
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(80))

	m := Model{
		port:       port,
		instance:   instance,
		conv:       port.Start(context.Background(), agentID),
		transcript: viewport.New(0, 0),
		prompt:     ta,
		attach:     ti,
		spinner:    sp,
		renderer:   r,
		guide:      guidelineview.New(guidelines),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return textarea.Blink }

// Abandon drops any pending response; called when the user navigates away.
func (m Model) Abandon() { m.conv.Abandon() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.showGuide {
		switch msg := msg.(type) {
		case guidelineview.ClosedMsg:
			m.showGuide = false
			return m, nil
		case ReplyMsg:
			return m.onReply(msg)
		default:
			var cmd tea.Cmd
			m.guide, cmd = m.guide.Update(msg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.guide, _ = m.guide.Update(msg)

	case ReplyMsg:
		return m.onReply(msg)

	case spinner.TickMsg:
		if m.conv.InFlight() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.focus == focusAttach {
				return m, m.setFocus(focusPrompt)
			}
			m.conv.Abandon()
			return m, components.Navigate(modedomain.ModeSelect())
		case "ctrl+g":
			m.showGuide = true
			return m, nil
		case "ctrl+o":
			return m, m.setFocus(focusAttach)
		case "tab":
			if m.focus == focusPrompt {
				return m, m.setFocus(focusTranscript)
			}
			return m, m.setFocus(focusPrompt)
		case "enter":
			switch m.focus {
			case focusPrompt:
				return m.submit()
			case focusAttach:
				m.addAttachments()
				return m, m.setFocus(focusPrompt)
			}
		}
		if m.focus == focusTranscript {
			if n := replyIndex(msg.String()); n >= 0 {
				if _, err := m.port.SelectReply(context.Background(), m.conv, n); err != nil {
					m.err = err.Error()
				} else {
					m.err = ""
				}
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusPrompt:
		if !m.conv.InFlight() {
			m.prompt, cmd = m.prompt.Update(msg)
		}
	case focusAttach:
		m.attach, cmd = m.attach.Update(msg)
	case focusTranscript:
		m.transcript, cmd = m.transcript.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.showGuide {
		return m.guide.View()
	}
	header := theme.Title.Render("Assist: "+modedomain.DisplayName(m.conv.AgentID)) +
		theme.Muted.Render("  enter: send  ctrl+o: attach  tab: transcript  1-9: pick reply  ctrl+g: guidelines  esc: back")

	var status string
	switch {
	case m.conv.InFlight():
		status = m.spinner.View() + " Generating replies…"
	case m.err != "":
		status = theme.Error.Render(m.err)
	}

	parts := []string{header, m.transcript.View(), m.renderAttachments()}
	if m.focus == focusAttach {
		parts = append(parts, "attach: "+m.attach.View())
	}
	parts = append(parts, m.prompt.View(), status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) submit() (Model, tea.Cmd) {
	if err := m.conv.SetPrompt(m.prompt.Value()); err != nil {
		m.err = err.Error()
		return m, nil
	}
	req, err := m.port.Begin(context.Background(), m.conv)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""
	m.refresh()
	return m, tea.Batch(m.dispatchCmd(req), m.spinner.Tick)
}

func (m Model) onReply(msg ReplyMsg) (Model, tea.Cmd) {
	if msg.Instance != m.instance {
		return m, nil
	}
	if _, ok := m.port.Complete(context.Background(), m.conv, msg.Generation, msg.Reply, msg.Err); !ok {
		return m, nil
	}
	m.prompt.Reset()
	m.refresh()
	return m, nil
}

func (m *Model) addAttachments() {
	var paths []string
	for _, p := range strings.Split(m.attach.Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	m.attach.SetValue("")
	if len(paths) == 0 {
		return
	}
	if _, err := m.port.Attach(context.Background(), m.conv, paths); err != nil {
		m.err = err.Error()
		return
	}
	m.err = ""
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.prompt.Blur()
	m.attach.Blur()
	switch f {
	case focusPrompt:
		return m.prompt.Focus()
	case focusAttach:
		return m.attach.Focus()
	}
	return nil
}

func (m *Model) resize() {
	m.prompt.SetWidth(max(m.width-2, 20))
	m.attach.Width = max(m.width-10, 20)
	m.transcript.Width = m.width
	// header, attachments, prompt (3 + border), status
	m.transcript.Height = max(m.height-9, 3)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(m.width-4, 20)),
	); err == nil {
		m.renderer = r
	}
	m.refresh()
}

func (m *Model) refresh() {
	var sb strings.Builder
	for _, turn := range m.conv.Turns() {
		sb.WriteString(m.renderTurn(turn))
		sb.WriteString("\n")
	}
	m.transcript.SetContent(sb.String())
	m.transcript.GotoBottom()
}

func (m Model) renderTurn(turn domain.Turn) string {
	label := theme.AssistantTurn.Render("Assistant")
	if turn.Role == domain.RoleUser {
		label = theme.UserTurn.Render("You")
	}
	reply, ok := turn.Content.Reply()
	if !ok {
		return label + "\n" + turn.Content.Text() + "\n"
	}
	md := feedbackMarkdown(reply)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			return label + "\n" + rendered
		}
	}
	return label + "\n" + md + "\n"
}

func (m Model) renderAttachments() string {
	items := m.conv.Attachments()
	if len(items) == 0 {
		return theme.Muted.Render(fmt.Sprintf("no attachments (max %d)", domain.MaxAttachments))
	}
	names := make([]string, len(items))
	for i, a := range items {
		names[i] = a.Name
		if a.Preview != "" {
			names[i] += " [" + a.Preview + "]"
		}
	}
	return theme.Muted.Render(fmt.Sprintf("attached %d/%d: %s", len(items), domain.MaxAttachments, strings.Join(names, ", ")))
}

func (m Model) dispatchCmd(req domain.Request) tea.Cmd {
	instance := m.instance
	return func() tea.Msg {
		reply, err := m.port.Dispatch(context.Background(), req)
		return ReplyMsg{Instance: instance, Generation: req.Generation, Reply: reply, Err: err}
	}
}

func feedbackMarkdown(reply domain.Reply) string {
	var sb strings.Builder
	sb.WriteString("### Feedback\n\n")
	fmt.Fprintf(&sb, "- **Tone:** %s\n", reply.Feedback.Tone)
	fmt.Fprintf(&sb, "- **Solution Effectiveness:** %s\n", reply.Feedback.SolutionEffectiveness)
	if len(reply.Feedback.Suggestions) > 0 {
		sb.WriteString("- **Suggestions:**\n")
		for _, s := range reply.Feedback.Suggestions {
			fmt.Fprintf(&sb, "  - %s\n", s)
		}
	}
	if len(reply.Replies) > 0 {
		sb.WriteString("\n### Reply options\n\n")
		for i, r := range reply.Replies {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, r)
		}
	}
	return sb.String()
}

func replyIndex(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1')
	}
	return -1
}
