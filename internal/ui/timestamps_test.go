package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		when     time.Time
		expected string
	}{
		{name: "just now", when: now.Add(-30 * time.Second), expected: "just now"},
		{name: "minutes", when: now.Add(-5 * time.Minute), expected: "5m ago"},
		{name: "hours", when: now.Add(-3 * time.Hour), expected: "3h ago"},
		{name: "days", when: now.Add(-49 * time.Hour), expected: "2d ago"},
		{name: "weeks", when: now.Add(-8 * 24 * time.Hour), expected: "1w ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatRelativeTime(tt.when))
		})
	}
}

func TestFormatAbsoluteTime(t *testing.T) {
	today := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 14, 30, 5, 0, time.Local)
	assert.Equal(t, "14:30:05", formatAbsoluteTime(today))

	older := today.AddDate(0, 0, -3)
	assert.Equal(t, older.Format("Jan 2 15:04"), formatAbsoluteTime(older))
}

func TestGetTimestampColor(t *testing.T) {
	cfg := DefaultTimestampColorConfig()
	now := time.Now()

	tests := []struct {
		name     string
		when     time.Time
		expected string
	}{
		{name: "recent activity", when: now.Add(-1 * time.Minute), expected: cfg.RecentColor},
		{name: "warning threshold", when: now.Add(-10 * time.Minute), expected: cfg.WarningColor},
		{name: "stale session", when: now.Add(-45 * time.Minute), expected: cfg.StaleColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getTimestampColor(tt.when, cfg))
		})
	}
}
