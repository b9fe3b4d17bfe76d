package guideline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cxassist/internal/modules/guideline/domain"
	guidelinedto "cxassist/internal/modules/guideline/dto"
	"cxassist/internal/ui/theme"
)

type Port interface {
	StagePDF(ctx context.Context, staging *domain.Staging, path string) (guidelinedto.DocumentOutput, error)
	SetText(staging *domain.Staging, text string)
	Ingest(ctx context.Context, staging *domain.Staging) (guidelinedto.AckOutput, error)
}

// ClosedMsg is emitted when the user leaves the guideline manager.
type ClosedMsg struct{}

type focus int

const (
	focusPath focus = iota
	focusText
)

// Model stages a guideline PDF or pasted text. Staging and ingestion are
// local file operations and run inline.
type Model struct {
	port    Port
	staging *domain.Staging
	path    textinput.Model
	text    textarea.Model
	focus   focus
	staged  string
	notice  string
	err     string
	width   int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/guideline.pdf"
	ti.CharLimit = 1024
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Or paste guideline text here…"
	ta.ShowLineNumbers = false
	ta.SetHeight(6)

	return Model{port: port, staging: &domain.Staging{}, path: ti, text: ta}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.path.Width = max(msg.Width-8, 20)
		m.text.SetWidth(max(msg.Width-6, 20))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return ClosedMsg{} }
		case "tab":
			return m, m.toggleFocus()
		case "ctrl+s":
			m.ingest()
			return m, nil
		case "enter":
			if m.focus == focusPath {
				m.stage()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusPath {
		m.path, cmd = m.path.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusPath {
		m.focus = focusText
		m.path.Blur()
		return m.text.Focus()
	}
	m.focus = focusPath
	m.text.Blur()
	return m.path.Focus()
}

func (m *Model) stage() {
	path := strings.TrimSpace(m.path.Value())
	m.notice = ""
	if path == "" {
		return
	}
	doc, err := m.port.StagePDF(context.Background(), m.staging, path)
	if err != nil {
		m.staged = ""
		m.err = err.Error()
		return
	}
	m.err = ""
	m.staged = fmt.Sprintf("%s (%d pages)", doc.Name, doc.Pages)
	if doc.Title != "" {
		m.staged += " " + doc.Title
	}
}

func (m *Model) ingest() {
	m.port.SetText(m.staging, m.text.Value())
	ack, err := m.port.Ingest(context.Background(), m.staging)
	if err != nil {
		m.err = err.Error()
		m.notice = ""
		return
	}
	m.err = ""
	m.notice = ack.Message
	if ack.Kind == domain.KindPDF.String() {
		m.staged = ""
		m.path.SetValue("")
		return
	}
	m.text.Reset()
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Guideline Manager") + "\n\n")
	sb.WriteString(theme.Muted.Render("PDF file") + "\n" + m.path.View() + "\n")
	if m.staged != "" {
		sb.WriteString(theme.OK.Render("staged: "+m.staged) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("Text") + "\n" + m.text.View() + "\n\n")
	if m.err != "" {
		sb.WriteString(theme.Error.Render(m.err) + "\n")
	}
	if m.notice != "" {
		sb.WriteString(theme.OK.Render(m.notice) + "\n")
	}
	sb.WriteString(theme.Muted.Render("enter: stage pdf  tab: switch field  ctrl+s: ingest  esc: close"))
	return theme.PaneActive.Render(sb.String())
}
