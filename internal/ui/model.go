package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/services"
	"github.com/renato0307/farol/internal/theme"
)

type uiState int

const (
	stateList uiState = iota
	stateCommandPalette
	stateConfirmingKill
	stateHelp
	stateResponding
)

// activityPanelHeight is the fixed height of the activity panel (including
// its border lines)
const activityPanelHeight = 10

// ControlPlane injects control frames back into the agent's terminal. The
// socket server satisfies it.
type ControlPlane interface {
	SendKill(sessionID string) error
}

// transitionMsg carries one engine change notification into the update loop
type transitionMsg struct {
	transition domain.Transition
}

// ModelConfig carries the dependencies and display settings for the dashboard
type ModelConfig struct {
	Control         ControlPlane // Can be nil (kill disabled)
	DevMode         bool
	Engine          *services.Engine
	ErrorClearDelay time.Duration
	Keys            config.KeyBindingsConfig
	PhaseConfig     *config.PhaseConfig
	ShowTimestamps  bool
	ShowUsageChart  bool
	Stats           *services.StatsService
	TimestampConfig *TimestampColorConfig
	Tips            TipsConfig
}

type Model struct {
	activityPanel   *ActivityPanel  // Activity log panel for the selected session
	activityVisible bool            // Whether the activity panel is shown
	commandPalette  *CommandPalette // Command palette overlay
	control         ControlPlane    // Kill frame injection (can be nil)
	devMode         bool            // Development mode (shows version info in dialogs)
	engine          *services.Engine
	errorManager    *ErrorManager // Error display and auto-clearing
	formConfirmKill *bool         // Kill decision (pointer to persist across updates)
	height          int
	helpScreen      *Dialog // Help screen dialog
	keys            KeyMap  // Keyboard shortcuts
	killForm        *Dialog // Kill confirmation dialog
	respondForm     *Dialog // Permission respond dialog
	sessionList     *SessionList
	sessionToKill   *domain.Session // Session being killed
	state           uiState
	timestampConfig *TimestampColorConfig
	timestampMode   TimestampMode
	transitions     <-chan domain.Transition // Engine change notifications
	unsubscribe     func()                   // Releases the engine subscription
	usageChart      *UsageChart              // Per-model token usage chart component
	width           int
}

// NewModel creates the dashboard model and subscribes to engine transitions.
// Call Close when the program exits to release the subscription.
func NewModel(cfg ModelConfig) *Model {
	errorManager := NewErrorManager(cfg.ErrorClearDelay)

	phaseConfig := cfg.PhaseConfig
	if phaseConfig == nil {
		phaseConfig = config.NewPhaseConfig(nil)
	}

	timestampConfig := cfg.TimestampConfig
	if timestampConfig == nil {
		timestampConfig = DefaultTimestampColorConfig()
	}

	// Convert showTimestamps flag to TimestampMode
	var initialMode TimestampMode
	if cfg.ShowTimestamps {
		initialMode = TimestampRelative
	} else {
		initialMode = TimestampHidden
	}

	// Create shared key map
	keys := NewKeyMap(cfg.Keys)

	// Create session list component (the engine is its provider)
	sessionList := NewSessionList(cfg.Engine, phaseConfig, timestampConfig, initialMode, keys, cfg.Tips)

	// Create usage chart component
	usageChart := NewUsageChart(cfg.Stats)
	if cfg.ShowUsageChart {
		usageChart.SetVisible(true)
	}

	transitions, unsubscribe := cfg.Engine.Subscribe()

	return &Model{
		activityPanel:   NewActivityPanel(),
		control:         cfg.Control,
		devMode:         cfg.DevMode,
		engine:          cfg.Engine,
		errorManager:    errorManager,
		keys:            keys,
		sessionList:     sessionList,
		state:           stateList,
		timestampConfig: timestampConfig,
		timestampMode:   initialMode,
		transitions:     transitions,
		unsubscribe:     unsubscribe,
		usageChart:      usageChart,
	}
}

// Close releases the engine subscription. Safe to call more than once.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	// Session list starts auto-refresh polling; waitTransition arms the
	// push channel
	return tea.Batch(m.sessionList.Init(), m.waitTransition())
}

// waitTransition blocks on the engine subscription and converts the next
// change into a message. Re-armed after every transitionMsg.
func (m *Model) waitTransition() tea.Cmd {
	return func() tea.Msg {
		transition, ok := <-m.transitions
		if !ok {
			return nil
		}
		return transitionMsg{transition: transition}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Engine push notifications are handled in every state so the board is
	// current the moment a dialog closes. Exactly one waitTransition is
	// re-armed per message.
	if _, ok := msg.(transitionMsg); ok {
		cmds := []tea.Cmd{m.waitTransition()}
		if m.state == stateList && m.sessionList.list.FilterState() != list.Filtering {
			cmds = append(cmds, m.sessionList.Refresh())
			m.refreshActivityPanel()
		}
		return m, tea.Batch(cmds...)
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateCommandPalette:
		return m.updateCommandPalette(msg)
	case stateConfirmingKill:
		return m.updateConfirmingKill(msg)
	case stateHelp:
		return m.updateHelp(msg)
	case stateResponding:
		return m.updateResponding(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle action messages from SessionList
	switch msg := msg.(type) {
	case QuitMsg:
		m.Close()
		return m, tea.Quit

	case ShowHelpMsg:
		contentForm := NewHelpScreen(&m.keys)
		m.helpScreen = NewDialog("Help", contentForm, m.devMode)
		m.state = stateHelp
		// Send initial WindowSizeMsg so viewport can initialize
		initCmd := m.helpScreen.Init()
		updatedDialog, sizeCmd := m.helpScreen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.helpScreen = updatedDialog.(*Dialog)
		return m, tea.Batch(initCmd, sizeCmd)

	case ShowCommandPaletteMsg:
		// Get selected session info for the palette header
		var session *domain.Session
		if selected, ok := m.sessionList.SelectedSession(); ok {
			session = &selected
		}

		m.commandPalette = NewCommandPalette(session, m.keys)
		m.state = stateCommandPalette

		// Send initial window size
		initCmd := m.commandPalette.Init()
		_, sizeCmd := m.commandPalette.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(initCmd, sizeCmd)

	case RespondSessionMsg:
		return m.handleRespondSession(msg.SessionID)

	case AllowSessionMsg:
		return m.handleQuickDecision(msg.SessionID, domain.Decision{Behavior: domain.DecisionAllow})

	case DenySessionMsg:
		return m.handleQuickDecision(msg.SessionID, domain.Decision{Behavior: domain.DecisionDeny})

	case KillSessionMsg:
		return m.handleKillSession(msg.SessionID)

	case DismissSessionMsg:
		return m.handleDismissSession(msg.SessionID)

	case ToggleActivityMsg:
		m.activityVisible = !m.activityVisible
		if m.activityVisible {
			m.refreshActivityPanel()
		}
		m.recalculateListHeight()
		return m, m.sessionList.Init()

	case ToggleTimestampsMsg:
		m.cycleTimestampMode()
		refreshCmd := m.sessionList.Refresh()
		return m, tea.Batch(refreshCmd, m.sessionList.Init())

	case ToggleUsageChartMsg:
		m.usageChart.Toggle()
		m.recalculateListHeight()
		return m, m.sessionList.Init()
	}

	// Handle clear error message
	if _, ok := msg.(clearErrorMsg); ok {
		m.errorManager.ClearError()
		return m, nil
	}

	// Refresh chart and activity panel on poll cycle (when visible)
	if _, ok := msg.(checkStateMsg); ok {
		if m.usageChart.IsVisible() {
			m.usageChart.Refresh()
			m.recalculateListHeight()
		}
		m.refreshActivityPanel()
	}

	// Handle window size updates
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height

		// Recalculate list height
		m.recalculateListHeight()
	}

	// Handle errors pushed by commands
	if err, ok := msg.(error); ok {
		m.errorManager.SetError(err)
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}

	// Toggle timestamps display mode
	// Cycle: Relative -> Absolute -> Hidden -> Relative -> ...
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Application.Timestamps.Binding) &&
		m.sessionList.list.FilterState() != list.Filtering {
		m.cycleTimestampMode()
		refreshCmd := m.sessionList.Refresh()
		return m, tea.Batch(refreshCmd, m.sessionList.Init())
	}

	// Toggle usage chart
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Application.UsageChart.Binding) &&
		m.sessionList.list.FilterState() != list.Filtering {
		m.usageChart.Toggle()
		m.recalculateListHeight()
		return m, m.sessionList.Init()
	}

	// Toggle activity panel
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Application.Activity.Binding) &&
		m.sessionList.list.FilterState() != list.Filtering {
		m.activityVisible = !m.activityVisible
		if m.activityVisible {
			m.refreshActivityPanel()
		}
		m.recalculateListHeight()
		return m, m.sessionList.Init()
	}

	// Delegate to SessionList component
	newList, cmd := m.sessionList.Update(msg)
	if sl, ok := newList.(*SessionList); ok {
		m.sessionList = sl
	}

	// Keep the activity panel in sync with the cursor
	if m.activityVisible {
		m.refreshActivityPanel()
	}

	return m, cmd
}

// handleRespondSession opens the respond dialog for a pending permission
func (m *Model) handleRespondSession(sessionID string) (tea.Model, tea.Cmd) {
	session, ok := m.engine.Get(sessionID)
	if !ok {
		m.errorManager.SetError(fmt.Errorf("session %s is gone", sessionID))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}
	if session.Permission == nil {
		m.errorManager.SetError(fmt.Errorf("%s has nothing waiting for approval", displayTitle(session)))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}

	contentForm := NewRespondForm(m.engine, session)
	m.respondForm = NewDialog("Respond to Permission", contentForm, m.devMode)
	m.state = stateResponding
	return m, m.respondForm.Init()
}

// handleQuickDecision resolves a pending permission without opening the form
func (m *Model) handleQuickDecision(sessionID string, decision domain.Decision) (tea.Model, tea.Cmd) {
	session, ok := m.engine.Get(sessionID)
	if !ok {
		m.errorManager.SetError(fmt.Errorf("session %s is gone", sessionID))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}
	if !m.engine.Respond(sessionID, decision) {
		m.errorManager.SetError(fmt.Errorf("%s has nothing waiting for approval", displayTitle(session)))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}

	refreshCmd := m.sessionList.Refresh()
	return m, tea.Batch(refreshCmd, m.sessionList.Init())
}

// handleKillSession opens the kill confirmation dialog
func (m *Model) handleKillSession(sessionID string) (tea.Model, tea.Cmd) {
	session, ok := m.engine.Get(sessionID)
	if !ok {
		m.errorManager.SetError(fmt.Errorf("session %s is gone", sessionID))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}
	if m.control == nil {
		m.errorManager.SetError(fmt.Errorf("kill is not available in this mode"))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}

	m.sessionToKill = &session
	confirmKill := false
	m.formConfirmKill = &confirmKill

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Kill %s?", displayTitle(session))).
				Description("Sends SIGTERM to the agent process (pid " + fmt.Sprint(session.PID) + ")").
				Affirmative("Kill").
				Negative("Cancel").
				Value(m.formConfirmKill),
		),
	)
	m.killForm = NewDialog("Kill Session", form, m.devMode)
	m.state = stateConfirmingKill
	return m, m.killForm.Init()
}

// handleDismissSession removes an ended or errored session from the board
func (m *Model) handleDismissSession(sessionID string) (tea.Model, tea.Cmd) {
	if !m.engine.Remove(sessionID) {
		m.errorManager.SetError(fmt.Errorf("session %s is gone", sessionID))
		return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
	}

	refreshCmd := m.sessionList.Refresh()
	return m, tea.Batch(refreshCmd, m.sessionList.Init())
}

// cycleTimestampMode advances Relative -> Absolute -> Hidden -> Relative
func (m *Model) cycleTimestampMode() {
	switch m.timestampMode {
	case TimestampRelative:
		m.timestampMode = TimestampAbsolute
	case TimestampAbsolute:
		m.timestampMode = TimestampHidden
	case TimestampHidden:
		m.timestampMode = TimestampRelative
	}
	m.sessionList.SetTimestampMode(m.timestampMode)
}

// refreshActivityPanel pushes the selected session's activity log into the panel
func (m *Model) refreshActivityPanel() {
	if !m.activityVisible {
		return
	}
	if session, ok := m.sessionList.SelectedSession(); ok {
		m.activityPanel.SetSession(session)
	}
}

// recalculateListHeight calculates and sets the list height based on current state
func (m *Model) recalculateListHeight() {
	// Layout breakdown:
	// - Header (2 lines) + Legend (1 line) + spacing (1) = 4 lines from SessionList fixed content
	// - Bottom section: separator (1) + tip/error (2) = 3 lines
	// - With chart: chart height (includes its trailing blank row)
	// - With activity panel: fixed panel height
	overhead := 7 // header + legend + spacing + bottom section
	if m.usageChart.IsVisible() {
		overhead += m.usageChart.Height()
	}
	if m.activityVisible {
		overhead += activityPanelHeight
	}

	listHeight := m.height - overhead
	if listHeight < 1 {
		listHeight = 1
	}
	m.sessionList.SetSize(m.width, m.height, listHeight)

	if m.activityVisible {
		m.activityPanel.SetSize(m.width, activityPanelHeight)
	}
}

func (m *Model) updateCommandPalette(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Forward window size to palette
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sizeMsg.Width
		m.height = sizeMsg.Height
	}

	// Delegate to palette
	updated, cmd := m.commandPalette.Update(msg)
	m.commandPalette = updated.(*CommandPalette)

	// Check if palette completed
	if m.commandPalette.Completed {
		result := m.commandPalette.Result
		m.state = stateList
		m.commandPalette = nil

		if result.Cancelled || result.Action == nil {
			return m, m.sessionList.Init()
		}

		// Get selected session for dispatcher
		var session *domain.Session
		if selected, ok := m.sessionList.SelectedSession(); ok {
			session = &selected
		}

		// Dispatch the action
		dispatcher := NewActionDispatcher(session)
		actionMsg := dispatcher.Dispatch(*result.Action)

		if actionMsg != nil {
			// Process the action message through updateList
			return m.updateList(actionMsg)
		}

		return m, m.sessionList.Init()
	}

	return m, cmd
}

func (m *Model) updateConfirmingKill(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle Escape or Ctrl+C to cancel
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Navigation.ClearFilter.Binding, m.keys.Application.ForceQuit.Binding) {
			m.state = stateList
			m.killForm = nil
			m.sessionToKill = nil
			m.formConfirmKill = nil
			return m, m.sessionList.Init()
		}
	}

	// Delegate to dialog
	updated, cmd := m.killForm.Update(msg)
	m.killForm = updated.(*Dialog)

	// Check if confirm form completed
	if form, ok := m.killForm.Content().(*huh.Form); ok && form.State == huh.StateCompleted {
		confirmed := m.formConfirmKill != nil && *m.formConfirmKill
		session := m.sessionToKill
		m.state = stateList
		m.killForm = nil
		m.sessionToKill = nil
		m.formConfirmKill = nil

		if confirmed && session != nil {
			if err := m.control.SendKill(session.ID); err != nil {
				m.errorManager.SetError(fmt.Errorf("failed to kill %s: %w", displayTitle(*session), err))
				return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
			}
		}

		refreshCmd := m.sessionList.Refresh()
		return m, tea.Batch(refreshCmd, m.sessionList.Init())
	}

	return m, cmd
}

func (m *Model) updateHelp(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Delegate to dialog (it handles cancel internally)
	updated, cmd := m.helpScreen.Update(msg)
	m.helpScreen = updated.(*Dialog)

	// Check if dialog completed
	if content, ok := m.helpScreen.Content().(*HelpScreen); ok && content.Completed {
		m.state = stateList
		m.helpScreen = nil
		return m, m.sessionList.Init()
	}

	return m, cmd
}

func (m *Model) updateResponding(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Delegate to dialog (it handles cancel internally)
	updated, cmd := m.respondForm.Update(msg)
	m.respondForm = updated.(*Dialog)

	// Check if dialog completed
	if content, ok := m.respondForm.Content().(*RespondForm); ok && content.Completed {
		result := content.Result()
		m.state = stateList
		m.respondForm = nil

		if result.Error != nil {
			m.errorManager.SetError(result.Error)
			return m, tea.Batch(m.sessionList.Init(), m.errorManager.ClearAfterDelay())
		}

		refreshCmd := m.sessionList.Refresh()
		return m, tea.Batch(refreshCmd, m.sessionList.Init())
	}

	return m, cmd
}

func (m *Model) View() string {
	switch m.state {
	case stateList:
		return m.renderBoard()
	case stateCommandPalette:
		if m.commandPalette != nil {
			// Palette is centered over the dimmed board
			background := m.renderBoard()
			palette := m.commandPalette.View()
			return compositeOverlay(background, palette, m.width, m.height)
		}
	case stateConfirmingKill:
		if m.killForm != nil {
			return m.killForm.View()
		}
	case stateHelp:
		if m.helpScreen != nil {
			return m.helpScreen.View()
		}
	case stateResponding:
		if m.respondForm != nil {
			return m.respondForm.View()
		}
	}
	return ""
}

// renderBoard renders the list screen with its optional panels and the
// bottom error/tip section
func (m *Model) renderBoard() string {
	view := m.sessionList.View()

	// Activity panel (if visible)
	if m.activityVisible {
		view += "\n" + m.activityPanel.View()
	}

	// Usage chart (if visible)
	if m.usageChart.IsVisible() {
		view += "\n" + m.usageChart.View() + "\n"
	}

	// Bottom section - fixed 2 lines (error or tip or empty)
	// Error takes priority over tip (tip is hidden while error displays)
	view += "\n"
	if m.errorManager.HasError() {
		errorText := formatErrorForDisplay(m.errorManager.GetError(), m.width)
		view += theme.ErrorStyle.Render(errorText)
	} else if tip := m.sessionList.GetCurrentTip(); tip != "" {
		view += tip + "\n "
	} else {
		view += " \n "
	}

	return view
}
