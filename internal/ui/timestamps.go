package ui

import (
	"fmt"
	"time"
)

// TimestampMode controls how the last-activity timestamp is rendered
type TimestampMode int

const (
	TimestampHidden TimestampMode = iota
	TimestampRelative
	TimestampAbsolute
)

// TimestampColorConfig holds configuration for timestamp display colors.
// Colors change based on how recently the session saw activity.
type TimestampColorConfig struct {
	RecentColor    string // Color for recent updates (< RecentMinutes)
	RecentMinutes  int    // Threshold in minutes for recent color
	StaleColor     string // Color for very old updates (>= WarningMinutes)
	WarningColor   string // Color for moderately old updates (>= RecentMinutes, < WarningMinutes)
	WarningMinutes int    // Threshold in minutes for warning color
}

// NewTimestampColorConfig creates a new TimestampColorConfig with the provided values.
func NewTimestampColorConfig(recentMin, warningMin int, recentColor, warningColor, staleColor string) *TimestampColorConfig {
	return &TimestampColorConfig{
		RecentMinutes:  recentMin,
		WarningMinutes: warningMin,
		RecentColor:    recentColor,
		WarningColor:   warningColor,
		StaleColor:     staleColor,
	}
}

// DefaultTimestampColorConfig is the palette used when settings provide none.
func DefaultTimestampColorConfig() *TimestampColorConfig {
	return NewTimestampColorConfig(5, 20, "241", "3", "1")
}

// formatRelativeTime converts a timestamp to a human-readable relative time string.
// Returns empty string for zero times.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	elapsed := time.Since(t)

	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		return formatWithUnit(int(elapsed.Minutes()), "m")
	}
	if elapsed < 24*time.Hour {
		return formatWithUnit(int(elapsed.Hours()), "h")
	}
	if elapsed < 7*24*time.Hour {
		return formatWithUnit(int(elapsed.Hours()/24), "d")
	}
	if elapsed < 30*24*time.Hour {
		return formatWithUnit(int(elapsed.Hours()/(24*7)), "w")
	}
	if elapsed < 365*24*time.Hour {
		return formatWithUnit(int(elapsed.Hours()/(24*30)), "mo")
	}
	return formatWithUnit(int(elapsed.Hours()/(24*365)), "y")
}

// formatWithUnit creates a formatted string with value and unit followed by "ago"
func formatWithUnit(value int, unit string) string {
	return fmt.Sprintf("%d%s ago", value, unit)
}

// formatAbsoluteTime renders a wall-clock timestamp, with the date only when
// it is not from today.
func formatAbsoluteTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04:05")
	}
	return t.Format("Jan 2 15:04")
}

// getTimestampColor determines the color code based on how long ago the timestamp was.
// Recent updates use one color, older updates use warning color, very old use stale color.
func getTimestampColor(t time.Time, config *TimestampColorConfig) string {
	if t.IsZero() {
		return config.RecentColor
	}

	elapsed := time.Since(t).Minutes()

	if elapsed < float64(config.RecentMinutes) {
		return config.RecentColor
	} else if elapsed < float64(config.WarningMinutes) {
		return config.WarningColor
	}
	return config.StaleColor
}
