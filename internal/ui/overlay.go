package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/farol/internal/theme"
)

// compositeOverlay renders an overlay centered on top of a dimmed background.
// The background content is visible but dimmed, with the overlay rendered on top.
func compositeOverlay(background, overlay string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	overlayLines := strings.Split(overlay, "\n")

	// Use actual background height, but ensure minimum of terminal height
	actualHeight := len(bgLines)
	if height > actualHeight {
		actualHeight = height
	}

	for len(bgLines) < actualHeight {
		bgLines = append(bgLines, "")
	}

	// Dim each background line and pad to full width
	for i := range bgLines {
		plainText := stripAnsi(bgLines[i])
		dimmedLine := theme.DimmedStyle.Render(plainText)

		visibleWidth := lipgloss.Width(dimmedLine)
		if visibleWidth < width {
			dimmedLine = dimmedLine + strings.Repeat(" ", width-visibleWidth)
		}
		bgLines[i] = dimmedLine
	}

	// Calculate overlay dimensions
	overlayWidth := 0
	for _, line := range overlayLines {
		w := lipgloss.Width(line)
		if w > overlayWidth {
			overlayWidth = w
		}
	}
	overlayHeight := len(overlayLines)

	// Calculate centered position
	startX := (width - overlayWidth) / 2
	startY := (height - overlayHeight) / 2

	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	// Composite the overlay onto the dimmed background
	result := make([]string, len(bgLines))
	for y := 0; y < len(bgLines); y++ {
		if y >= startY && y < startY+overlayHeight {
			overlayLineIdx := y - startY
			if overlayLineIdx < len(overlayLines) {
				overlayLine := overlayLines[overlayLineIdx]
				overlayLineWidth := lipgloss.Width(overlayLine)

				leftPad := theme.DimmedStyle.Render(strings.Repeat(" ", startX))

				rightPadWidth := width - startX - overlayLineWidth
				if rightPadWidth < 0 {
					rightPadWidth = 0
				}
				rightPad := theme.DimmedStyle.Render(strings.Repeat(" ", rightPadWidth))

				result[y] = leftPad + overlayLine + rightPad
			} else {
				result[y] = bgLines[y]
			}
		} else {
			result[y] = bgLines[y]
		}
	}

	return strings.Join(result, "\n")
}

// stripAnsi removes ANSI escape codes from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			// Escape sequences terminate at a letter ('m' for SGR)
			if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}
