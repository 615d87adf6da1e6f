package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsControlSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "color codes",
			input:    "\x1b[36mhello\x1b[0m world",
			expected: "hello world",
		},
		{
			name:     "cursor movement and hide",
			input:    "\x1b[2A\x1b[?25lrunning\x1b[?25h",
			expected: "running",
		},
		{
			name:     "line clear and carriage return",
			input:    "progress\r\x1b[2Kdone",
			expected: "progressdone",
		},
		{
			name:     "osc title sequence",
			input:    "\x1b]0;my title\x07text",
			expected: "text",
		},
		{
			name:     "whitespace collapse",
			input:    "a  \t b\n\n\n\n\nc",
			expected: "a b\n\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input).Text)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"\x1b[31m⠋ Thinking...\x1b[0m (3s · 120 tokens)",
		"plain text with   spaces",
		"\r\n\n\n\nmulti\nline\x1b[2K",
		"",
		"45% complete \x1b[1mdownloading\x1b[0m",
	}

	for _, input := range inputs {
		first := Normalize(input)
		second := Normalize(first.Text)
		assert.Equal(t, first.Text, second.Text, "input %q", input)
	}
}

func TestNormalizeSpinnerSurvivesStyling(t *testing.T) {
	// Spinner glyph wrapped in heavy ANSI styling must still be detected
	// and must still be present in the cleaned text.
	raw := "\x1b[1m\x1b[38;5;213m⠧\x1b[0m\x1b[2K Summoning..."

	result := Normalize(raw)

	assert.True(t, result.HasSpinner)
	assert.Contains(t, result.Text, "⠧")
}

func TestNormalizeSpinnerGlyphs(t *testing.T) {
	assert.True(t, Normalize("⠙ working").HasSpinner, "braille")
	assert.True(t, Normalize("◐ loading").HasSpinner, "arc")
	assert.False(t, Normalize("· plain bullet").HasSpinner)
	assert.False(t, Normalize("no spinner here").HasSpinner)
}

func TestNormalizeProgress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{name: "simple", input: "downloading 45% done", expected: intPtr(45)},
		{name: "zero", input: "0% started", expected: intPtr(0)},
		{name: "hundred", input: "100%", expected: intPtr(100)},
		{name: "styled", input: "\x1b[32m72%\x1b[0m", expected: intPtr(72)},
		{name: "over range skipped", input: "150% but then 80%", expected: intPtr(80)},
		{name: "no percent", input: "45 of 100", expected: nil},
		{name: "percent without number", input: "a % sign", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if tt.expected == nil {
				assert.Nil(t, result.Progress)
				return
			}
			require.NotNil(t, result.Progress)
			assert.Equal(t, *tt.expected, *result.Progress)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
