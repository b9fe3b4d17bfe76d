package components

import (
	tea "github.com/charmbracelet/bubbletea"

	modedomain "cxassist/internal/modules/mode/domain"
)

// NavigateMsg asks the root model to move to Route. The root runs the session
// gate before any protected screen is shown.
type NavigateMsg struct{ Route modedomain.Route }

func Navigate(route modedomain.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// StatusMsg replaces the status bar text.
type StatusMsg struct{ Text string }

func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}
