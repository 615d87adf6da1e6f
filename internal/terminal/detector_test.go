package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fastConfig removes debounce so transition tests are not time dependent.
func fastConfig() DetectorConfig {
	return DetectorConfig{Debounce: time.Nanosecond, MinConfidence: 0.5}
}

func TestDetectorMatchesFamilies(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		expected string
	}{
		{name: "approval prompt", chunk: "Do you want to run this command?", expected: StatusWaitingApproval},
		{name: "error line", chunk: "API Error: overloaded", expected: StatusError},
		{name: "busy marker", chunk: "✶ Crafting... (3s · esc to interrupt)", expected: StatusThinking},
		{name: "question prompt", chunk: "? Which approach should I take", expected: StatusWaitingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(ClaudeProfile(), fastConfig())
			result := d.Detect(tt.chunk)
			assert.Equal(t, tt.expected, result.Status)
			assert.NotEmpty(t, result.MatchedPattern)
		})
	}
}

func TestDetectorErrorOutranksApproval(t *testing.T) {
	d := NewDetector(ClaudeProfile(), fastConfig())

	// Both families present in the rolling buffer; error has the higher
	// priority and must govern.
	d.Detect("Do you want to proceed? (y/n)")
	result := d.Detect("API Error: request failed")

	assert.Equal(t, StatusError, result.Status)
}

func TestDetectorSpinnerForcesThinking(t *testing.T) {
	d := NewDetector(ClaudeProfile(), fastConfig())

	result := d.Detect("⠹ some unclassifiable text")

	assert.Equal(t, StatusThinking, result.Status)
	assert.Equal(t, "spinner", result.MatchedPattern)
}

func TestDetectorSpinnerDoesNotOverrideHigherPriority(t *testing.T) {
	d := NewDetector(ClaudeProfile(), fastConfig())

	result := d.Detect("⠹ Do you want to make this edit?")

	assert.Equal(t, StatusWaitingApproval, result.Status)
}

func TestDetectorRetainsStatusWhenNothingMatches(t *testing.T) {
	d := NewDetector(ClaudeProfile(), fastConfig())

	d.Detect("Do you want to proceed?")
	assert.Equal(t, StatusWaitingApproval, d.Current())

	d.Reset()
	d.Detect("completely unremarkable output")
	result := d.Detect("still nothing of note")

	assert.Equal(t, StatusIdle, result.Status)
	assert.Less(t, result.Confidence, defaultMinConfidence)
}

func TestDetectorDebounceSuppressesFlapping(t *testing.T) {
	d := NewDetector(ClaudeProfile(), DetectorConfig{
		Debounce:      time.Hour,
		MinConfidence: 0.5,
	})

	// First transition commits (no prior change recorded).
	d.Detect("esc to interrupt")
	assert.Equal(t, StatusThinking, d.Current())

	// A competing candidate inside the debounce window must not commit,
	// but the call still reports its own confidence.
	d.Reset()
	d.Detect("esc to interrupt")
	result := d.Detect("Do you want to proceed?")

	assert.Equal(t, StatusThinking, result.Status)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestDetectorReset(t *testing.T) {
	d := NewDetector(CodexProfile(), fastConfig())

	d.Detect("Working (12s · esc to interrupt)")
	assert.Equal(t, StatusThinking, d.Current())

	d.Reset()
	assert.Equal(t, StatusIdle, d.Current())
}

func TestProfileFor(t *testing.T) {
	assert.NotEmpty(t, ProfileFor("claude"))
	assert.NotEmpty(t, ProfileFor("codex"))
	assert.NotEmpty(t, ProfileFor("gemini"))
	assert.NotEmpty(t, ProfileFor("unknown"))
}
