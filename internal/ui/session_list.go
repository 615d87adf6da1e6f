package ui

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/theme"
)

const escTimeout = 500 * time.Millisecond

// Provider supplies the live sessions shown on the board. The engine
// satisfies it.
type Provider interface {
	Sessions() []domain.Session
}

// Messages for SessionList (checkStateMsg also drives chart refresh in Model)
type checkStateMsg struct{}
type hideTipMsg struct{}
type showTipMsg struct{}

// SessionItem implements list.Item and wraps one live session
type SessionItem struct {
	Session domain.Session
}

// FilterValue implements list.Item
func (i SessionItem) FilterValue() string {
	return displayTitle(i.Session) + " " + i.Session.CWD + " " + i.Session.ID
}

// Title implements list.DefaultItem
func (i SessionItem) Title() string {
	return displayTitle(i.Session)
}

// Description implements list.DefaultItem
func (i SessionItem) Description() string {
	return i.Session.CWD
}

// displayTitle prefers the prompt-derived title, falling back to a shortened id
func displayTitle(s domain.Session) string {
	if s.Title != "" {
		return s.Title
	}
	if len(s.ID) > 8 {
		return s.ID[:8]
	}
	return s.ID
}

// SessionDelegate is a custom delegate for rendering session items
type SessionDelegate struct {
	phaseConfig     *config.PhaseConfig
	timestampConfig *TimestampColorConfig
	timestampMode   TimestampMode
}

func newSessionDelegate(phaseConfig *config.PhaseConfig, timestampConfig *TimestampColorConfig, timestampMode TimestampMode) SessionDelegate {
	return SessionDelegate{
		phaseConfig:     phaseConfig,
		timestampConfig: timestampConfig,
		timestampMode:   timestampMode,
	}
}

// Height implements list.ItemDelegate
func (d SessionDelegate) Height() int {
	return 2 // Two lines per item (title + working directory)
}

// Spacing implements list.ItemDelegate
func (d SessionDelegate) Spacing() int {
	return 0
}

// Update implements list.ItemDelegate
func (d SessionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate
func (d SessionDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(SessionItem)
	if !ok {
		return
	}
	session := item.Session

	isSelected := index == m.Index()
	cursor := " "
	if isSelected {
		cursor = ">"
	}

	// Phase symbol in the configured phase color
	color := d.phaseConfig.GetColor(string(session.Phase))
	symbol := theme.PhaseStyle(color).Render(session.Phase.Symbol())

	// First line: cursor + zero-padded number + phase + title + agent badge
	line1 := theme.NormalStyle.Render(fmt.Sprintf("%s %02d. ", cursor, index+1)) +
		symbol + theme.NormalStyle.Render(" "+displayTitle(session)) +
		theme.AgentBadgeStyle.Render(" ["+string(session.Agent)+"]")

	// Pending permission indicator with the tool awaiting approval
	if session.Permission != nil {
		line1 += theme.PermissionStyle.Render(" ⏳ " + session.Permission.ToolName)
	}

	// Timestamp at the end with color based on age
	if !session.LastActivity.IsZero() {
		var timeStr string
		switch d.timestampMode {
		case TimestampRelative:
			timeStr = formatRelativeTime(session.LastActivity)
		case TimestampAbsolute:
			timeStr = formatAbsoluteTime(session.LastActivity)
		case TimestampHidden:
			// Don't show timestamp
		}

		if timeStr != "" {
			tsColor := getTimestampColor(session.LastActivity, d.timestampConfig)
			line1 += " " + theme.TimestampStyle(tsColor).Render("["+timeStr+"]")
		}
	}

	// Second line: working directory + last activity (indented to align with title)
	indent := "        " // 8 spaces to align with title (> 01. ● name)
	detail := session.CWD
	if last := lastActivityLine(session); last != "" {
		if detail != "" {
			detail += " · " + last
		} else {
			detail = last
		}
	}
	line2 := indent + theme.DetailStyle.Render(truncateLine(detail, 100))

	fmt.Fprint(w, line1+"\n"+line2)
}

// lastActivityLine summarizes the newest activity entry for the second line
func lastActivityLine(session domain.Session) string {
	if len(session.Activity) == 0 {
		return ""
	}
	entry := session.Activity[len(session.Activity)-1]
	if entry.Tool != "" {
		return entry.Tool
	}
	if entry.Message != "" {
		return entry.Message
	}
	return string(entry.Event)
}

// truncateLine cuts s to at most max runes, appending an ellipsis
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// SessionList is a Bubble Tea component for displaying live sessions
type SessionList struct {
	err             error
	keys            KeyMap
	list            list.Model
	phaseConfig     *config.PhaseConfig
	provider        Provider
	timestampConfig *TimestampColorConfig
	timestampMode   TimestampMode

	// Tips feature
	currentTip *Tip       // Currently displayed tip (nil = hidden)
	tipsConfig TipsConfig // Tips display configuration

	// Escape handling for filter clearing
	escPressCount int
	escPressTime  time.Time

	// Window dimensions
	height     int
	listHeight int // Height available for the list component
	width      int
}

// NewSessionList creates a new session list component
func NewSessionList(provider Provider, phaseConfig *config.PhaseConfig, timestampConfig *TimestampColorConfig, timestampMode TimestampMode, keys KeyMap, tipsConfig TipsConfig) *SessionList {
	delegate := newSessionDelegate(phaseConfig, timestampConfig, timestampMode)
	items := buildListItems(provider.Sessions())

	// Created with a reasonable default size, resized on WindowSizeMsg
	l := list.New(items, delegate, 80, 28)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	// Show a tip immediately at startup if tips are enabled
	var initialTip *Tip
	allTips := GetTips()
	if tipsConfig.Enabled && len(allTips) > 0 {
		initialTip = &allTips[rand.Intn(len(allTips))]
	}

	return &SessionList{
		currentTip:      initialTip,
		keys:            keys,
		list:            l,
		phaseConfig:     phaseConfig,
		provider:        provider,
		timestampConfig: timestampConfig,
		timestampMode:   timestampMode,
		tipsConfig:      tipsConfig,
	}
}

// Init starts the session list component, including auto-refresh polling
func (sl *SessionList) Init() tea.Cmd {
	cmds := []tea.Cmd{pollStateCmd()}

	// Schedule hide for the initial tip (already shown at startup)
	if sl.tipsConfig.Enabled && sl.currentTip != nil {
		cmds = append(cmds, tea.Tick(time.Duration(sl.tipsConfig.DisplayDurationSeconds)*time.Second, func(time.Time) tea.Msg {
			return hideTipMsg{}
		}))
	}

	return tea.Batch(cmds...)
}

// Update handles messages for the session list component
func (sl *SessionList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case checkStateMsg:
		// Sent by the poll timer every 2 seconds. Exactly ONE new poll is
		// scheduled at the end to maintain the loop.

		// Skip refresh when user is actively filtering to prevent flickering
		if sl.list.FilterState() == list.Filtering {
			return sl, pollStateCmd()
		}

		cmd := sl.Refresh()
		return sl, tea.Batch(cmd, pollStateCmd())

	case showTipMsg:
		// Don't show tip if there's an error - reschedule for later
		if sl.err != nil {
			return sl, tea.Tick(time.Duration(sl.tipsConfig.ShowIntervalSeconds)*time.Second, func(time.Time) tea.Msg {
				return showTipMsg{}
			})
		}
		allTips := GetTips()
		if len(allTips) > 0 {
			sl.currentTip = &allTips[rand.Intn(len(allTips))]
			return sl, tea.Tick(time.Duration(sl.tipsConfig.DisplayDurationSeconds)*time.Second, func(time.Time) tea.Msg {
				return hideTipMsg{}
			})
		}
		return sl, nil

	case hideTipMsg:
		sl.currentTip = nil
		if sl.tipsConfig.Enabled {
			return sl, tea.Tick(time.Duration(sl.tipsConfig.ShowIntervalSeconds)*time.Second, func(time.Time) tea.Msg {
				return showTipMsg{}
			})
		}
		return sl, nil

	case error:
		sl.err = msg
		return sl, nil

	// Each time you add something here, don't forget to add it to the help screen
	case tea.KeyMsg:
		// Guard clause: When actively filtering, bypass shortcuts to allow typing
		if sl.list.FilterState() == list.Filtering {
			// ESC is the only key handled specially during filtering
			if msg.String() == "esc" {
				now := time.Now()
				if now.Sub(sl.escPressTime) < escTimeout && sl.escPressCount >= 1 {
					sl.list.ResetFilter()
					sl.escPressCount = 0
					return sl, nil
				}
				sl.escPressCount = 1
				sl.escPressTime = now
			}

			var cmd tea.Cmd
			sl.list, cmd = sl.list.Update(msg)
			return sl, cmd
		}

		// Normal shortcut processing when NOT filtering
		switch {
		case key.Matches(msg, sl.keys.Application.Quit.Binding, sl.keys.Application.ForceQuit.Binding):
			return sl, emitMsg(QuitMsg{})

		case key.Matches(msg, sl.keys.Application.Help.Binding):
			return sl, emitMsg(ShowHelpMsg{})

		case key.Matches(msg, sl.keys.Application.CommandPalette.Binding):
			return sl, emitMsg(ShowCommandPaletteMsg{})

		case key.Matches(msg, sl.keys.Permissions.Respond.Binding):
			if session, ok := sl.SelectedSession(); ok {
				return sl, emitMsg(RespondSessionMsg{SessionID: session.ID})
			}

		case key.Matches(msg, sl.keys.Permissions.Allow.Binding):
			if session, ok := sl.SelectedSession(); ok {
				return sl, emitMsg(AllowSessionMsg{SessionID: session.ID})
			}

		case key.Matches(msg, sl.keys.Permissions.Deny.Binding):
			if session, ok := sl.SelectedSession(); ok {
				return sl, emitMsg(DenySessionMsg{SessionID: session.ID})
			}

		case key.Matches(msg, sl.keys.Sessions.Kill.Binding):
			if session, ok := sl.SelectedSession(); ok {
				return sl, emitMsg(KillSessionMsg{SessionID: session.ID})
			}

		case key.Matches(msg, sl.keys.Sessions.Dismiss.Binding):
			if session, ok := sl.SelectedSession(); ok {
				return sl, emitMsg(DismissSessionMsg{SessionID: session.ID})
			}

		case key.Matches(msg, sl.keys.Navigation.QuickSelect.Binding):
			// Jump to session by number (0 selects the 10th)
			numStr := msg.String()
			num := int(numStr[0] - '0')
			index := num - 1
			if index < 0 {
				index = 9
			}

			items := sl.list.VisibleItems()
			if index >= 0 && index < len(items) {
				sl.list.Select(index)
			}
			return sl, nil

		case key.Matches(msg, sl.keys.Navigation.ClearFilter.Binding):
			// Handle double-ESC for filter clearing (only when filtering)
			if sl.list.FilterState() != list.Unfiltered {
				now := time.Now()
				if now.Sub(sl.escPressTime) < escTimeout && sl.escPressCount >= 1 {
					sl.list.ResetFilter()
					sl.escPressCount = 0
					return sl, nil
				}
				sl.escPressCount = 1
				sl.escPressTime = now
			}
			// When not filtering, ESC does nothing (only q and ctrl+c exit)
			return sl, nil
		}

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			sl.list.CursorUp()
			return sl, nil
		case tea.MouseWheelDown:
			sl.list.CursorDown()
			return sl, nil
		}

	case tea.WindowSizeMsg:
		// Store dimensions - actual sizing is done by Model via SetSize()
		sl.width = msg.Width
		sl.height = msg.Height
	}

	// Delegate to list for normal handling
	var cmd tea.Cmd
	sl.list, cmd = sl.list.Update(msg)

	// IMPORTANT: Don't schedule new polls here!
	// The poll loop is maintained by checkStateMsg scheduling exactly one new poll.
	return sl, cmd
}

// View renders the session list component
func (sl *SessionList) View() string {
	var s string

	// Title + Tagline
	s += renderHeader(false, "")

	// Legend + Shortcuts (below header)
	helpText := sl.renderPhaseLegend() + "  " + theme.HelpShortcutStyle.Render("?") + theme.HelpLabelStyle.Render(" shortcuts")

	// Highlight the respond key when something is waiting for approval
	if sl.countPendingPermissions() > 0 {
		helpText += "  " + theme.HintKeyStyle.Render(sl.keys.Permissions.Respond.Binding.Help().Key) + theme.HintLabelStyle.Render(" respond ") +
			theme.HintKeyStyle.Render(sl.keys.Permissions.Allow.Binding.Help().Key) + theme.HintLabelStyle.Render(" approve")
	}

	s += theme.HelpStyle.Render(helpText) + "\n"

	// Session list
	if len(sl.list.Items()) == 0 {
		s += theme.HelpLabelStyle.Render("No sessions. Hook an agent with ") + theme.HelpShortcutStyle.Render("farol setup") + theme.HelpLabelStyle.Render(" or start one with ") + theme.HelpShortcutStyle.Render("farol launch") + theme.HelpLabelStyle.Render(".") + "\n"
	} else {
		s += sl.list.View()
	}

	// Show SessionList error if any (transient, limited to 2 lines)
	if sl.err != nil {
		errorText := formatErrorForDisplay(sl.err, sl.width)
		s += "\n" + theme.ErrorStyle.Render(errorText)
		sl.currentTip = nil // Clear tip when error is shown
		sl.err = nil
	}

	// Pad output to the expected height (4 lines header/legend/spacing + listHeight)
	// so the layout does not shift with list content
	expectedHeight := 4 + sl.listHeight
	actualHeight := lipgloss.Height(s)
	if actualHeight < expectedHeight {
		s += strings.Repeat("\n", expectedHeight-actualHeight)
	}

	return s
}

// GetCurrentTip returns the current tip text with highlighted keys (empty if no tip to show)
func (sl *SessionList) GetCurrentTip() string {
	if sl.currentTip == nil {
		return ""
	}
	return RenderTip(*sl.currentTip)
}

// SetSize sets the available size for the session list.
// width/height are the full terminal dimensions, listHeight is the
// calculated height available for the list component.
func (sl *SessionList) SetSize(width, height, listHeight int) {
	sl.width = width
	sl.height = height
	sl.listHeight = listHeight
	sl.list.SetSize(width, listHeight)
}

// SetTimestampMode switches timestamp rendering and rebuilds the delegate
func (sl *SessionList) SetTimestampMode(mode TimestampMode) {
	sl.timestampMode = mode
	sl.list.SetDelegate(newSessionDelegate(sl.phaseConfig, sl.timestampConfig, mode))
}

// SelectedSession returns the session under the cursor
func (sl *SessionList) SelectedSession() (domain.Session, bool) {
	if item, ok := sl.list.SelectedItem().(SessionItem); ok {
		return item.Session, true
	}
	return domain.Session{}, false
}

// Refresh rebuilds the list from the provider's current sessions
func (sl *SessionList) Refresh() tea.Cmd {
	items := buildListItems(sl.provider.Sessions())
	return sl.list.SetItems(items)
}

// pollStateCmd returns a command that waits 2 seconds then sends checkStateMsg
func pollStateCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return checkStateMsg{}
	})
}

// emitMsg wraps a message into a command for the Model to handle
func emitMsg(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// buildListItems converts sessions to list items in a stable order
// (registration time, then id) so the cursor does not jump on refresh
func buildListItems(sessions []domain.Session) []list.Item {
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	items := make([]list.Item, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, SessionItem{Session: session})
	}
	return items
}

// renderPhaseLegend renders the phase legend with counts
func (sl *SessionList) renderPhaseLegend() string {
	working, waiting, idle, errored, ended := sl.countSessionsByPhase()

	legend := theme.WorkingIconStyle.Render(domain.SymbolWorking) + fmt.Sprintf(" %d working • ", working)
	legend += theme.WaitingIconStyle.Render(domain.SymbolWaiting) + fmt.Sprintf(" %d waiting • ", waiting)
	legend += theme.IdleIconStyle.Render(domain.SymbolIdle) + fmt.Sprintf(" %d idle • ", idle)
	legend += theme.ErrorIconStyle.Render(domain.SymbolError) + fmt.Sprintf(" %d error • ", errored)
	legend += theme.EndedIconStyle.Render(domain.SymbolEnded) + fmt.Sprintf(" %d ended", ended)

	return legend
}

// countSessionsByPhase counts sessions by phase group
func (sl *SessionList) countSessionsByPhase() (working, waiting, idle, errored, ended int) {
	for _, item := range sl.list.Items() {
		sessionItem, ok := item.(SessionItem)
		if !ok {
			continue
		}
		switch sessionItem.Session.Phase {
		case domain.PhaseProcessing, domain.PhaseRunningTool, domain.PhaseCompacting:
			working++
		case domain.PhaseWaitingForInput, domain.PhaseWaitingForApproval:
			waiting++
		case domain.PhaseError:
			errored++
		case domain.PhaseEnded:
			ended++
		default:
			idle++
		}
	}
	return
}

// countPendingPermissions counts sessions with an outstanding permission request
func (sl *SessionList) countPendingPermissions() int {
	pending := 0
	for _, item := range sl.list.Items() {
		if sessionItem, ok := item.(SessionItem); ok && sessionItem.Session.Permission != nil {
			pending++
		}
	}
	return pending
}
