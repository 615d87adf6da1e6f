package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/farol/internal/domain"
)

// SessionAwareMsg is implemented by messages that need session context.
// Messages without session requirements don't need to implement this.
type SessionAwareMsg interface {
	WithSession(session domain.Session) tea.Msg
}

// Action messages emitted by the session list and the command palette.
// Model handles these in updateList() and takes appropriate action.

// QuitMsg requests quitting the dashboard
type QuitMsg struct{}

// ShowHelpMsg requests showing the help screen
type ShowHelpMsg struct{}

// ShowCommandPaletteMsg requests showing the command palette
type ShowCommandPaletteMsg struct{}

// RespondSessionMsg requests the respond form for a pending permission
type RespondSessionMsg struct {
	SessionID string
}

func (m RespondSessionMsg) WithSession(s domain.Session) tea.Msg {
	return RespondSessionMsg{SessionID: s.ID}
}

// AllowSessionMsg resolves a pending permission with allow
type AllowSessionMsg struct {
	SessionID string
}

func (m AllowSessionMsg) WithSession(s domain.Session) tea.Msg {
	return AllowSessionMsg{SessionID: s.ID}
}

// DenySessionMsg resolves a pending permission with deny
type DenySessionMsg struct {
	SessionID string
}

func (m DenySessionMsg) WithSession(s domain.Session) tea.Msg {
	return DenySessionMsg{SessionID: s.ID}
}

// KillSessionMsg requests killing the agent process behind a session
type KillSessionMsg struct {
	SessionID string
}

func (m KillSessionMsg) WithSession(s domain.Session) tea.Msg {
	return KillSessionMsg{SessionID: s.ID}
}

// DismissSessionMsg removes a session from the board
type DismissSessionMsg struct {
	SessionID string
}

func (m DismissSessionMsg) WithSession(s domain.Session) tea.Msg {
	return DismissSessionMsg{SessionID: s.ID}
}

// ToggleActivityMsg toggles the activity panel for the selected session
type ToggleActivityMsg struct{}

// ToggleTimestampsMsg cycles timestamp display
type ToggleTimestampsMsg struct{}

// ToggleUsageChartMsg toggles the token usage chart
type ToggleUsageChartMsg struct{}
