package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/theme"
)

// ActivityPanel displays the activity log of the selected session
type ActivityPanel struct {
	height       int
	initialized  bool
	sessionTitle string
	viewport     viewport.Model
	width        int
}

// NewActivityPanel creates a new activity panel component
func NewActivityPanel() *ActivityPanel {
	return &ActivityPanel{
		initialized: false,
		viewport:    viewport.New(0, 0),
	}
}

// SetSession updates the panel with the session's activity log. New entries
// appear at the bottom, so only the last viewportHeight lines are kept.
func (p *ActivityPanel) SetSession(session domain.Session) {
	p.sessionTitle = displayTitle(session)
	if !p.initialized {
		return
	}

	lines := make([]string, 0, len(session.Activity))
	for _, entry := range session.Activity {
		lines = append(lines, formatActivityEntry(entry))
	}

	if len(lines) > p.viewport.Height {
		lines = lines[len(lines)-p.viewport.Height:]
	}

	p.viewport.SetContent(strings.Join(lines, "\n"))
}

// formatActivityEntry renders one activity log line
func formatActivityEntry(entry domain.ActivityEntry) string {
	line := theme.DetailStyle.Render(entry.Time.Format("15:04:05")) + " " + string(entry.Event)
	if entry.Tool != "" {
		line += " " + entry.Tool
	}
	if entry.Message != "" {
		line += theme.DetailStyle.Render(" · " + truncateLine(entry.Message, 80))
	}
	return line
}

// SetSize handles resize and marks as initialized
func (p *ActivityPanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	// Account for top line (1) + header (1) + bottom line (1) = 3 lines overhead
	viewportWidth := width
	viewportHeight := height - 3
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	p.viewport.Width = viewportWidth
	p.viewport.Height = viewportHeight
	p.initialized = true
}

// Height returns the current height of the activity panel
func (p *ActivityPanel) Height() int {
	return p.height
}

// Initialized returns whether the activity panel has been sized
func (p *ActivityPanel) Initialized() bool {
	return p.initialized
}

// View renders the activity panel
func (p *ActivityPanel) View() string {
	if !p.initialized {
		return ""
	}

	// Build horizontal line (double border character)
	line := theme.PanelLineStyle.Render(strings.Repeat("═", p.width))

	// Build header
	header := theme.PanelHeaderStyle.Render("Activity: " + p.sessionTitle)

	// Get content
	content := p.viewport.View()

	// Combine: top line + header + content + bottom line
	return line + "\n" + header + "\n" + content + "\n" + line
}
