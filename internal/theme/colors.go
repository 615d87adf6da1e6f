package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Phase group colors for status symbols and the legend
const (
	ColorEnded   Color = "8"   // Gray - session ended
	ColorError   Color = "196" // Bright red - interrupted or failed
	ColorIdle    Color = "3"   // Yellow - idle
	ColorWaiting Color = "1"   // Red - waiting for input or approval
	ColorWorking Color = "2"   // Green - processing, running a tool, compacting
)

// UI semantic colors
const (
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorHelpGroup Color = "141" // Purple
	ColorHintKey   Color = "226" // Yellow - first session hint keys
	ColorHintLabel Color = "178" // Gold - first session hint labels
	ColorSpinner   Color = "205" // Pink
)

// Usage chart colors
const (
	ColorTokenInput  Color = "40" // Green - input tokens
	ColorTokenOutput Color = "33" // Blue - output tokens
)

// Command palette colors
const (
	ColorDimmed          Color = "240" // Dimmed background behind overlays
	ColorPaletteSelected Color = "236" // Selection background
	ColorScrollIndicator Color = "240" // More-items arrows
)
