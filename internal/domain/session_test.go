package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseSymbol(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseProcessing, SymbolWorking},
		{PhaseRunningTool, SymbolWorking},
		{PhaseCompacting, SymbolWorking},
		{PhaseWaitingForInput, SymbolWaiting},
		{PhaseWaitingForApproval, SymbolWaiting},
		{PhaseError, SymbolError},
		{PhaseEnded, SymbolEnded},
		{PhaseIdle, SymbolIdle},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.Symbol())
		})
	}
}

func TestAgentFamilyValid(t *testing.T) {
	assert.True(t, AgentClaude.Valid())
	assert.True(t, AgentCodex.Valid())
	assert.True(t, AgentGemini.Valid())
	assert.False(t, AgentFamily("").Valid())
	assert.False(t, AgentFamily("copilot").Valid())
}

func TestRecordActivity_Bounded(t *testing.T) {
	s := &Session{ID: "s1"}

	for i := 0; i < MaxActivityEntries+10; i++ {
		s.RecordActivity(ActivityEntry{
			Event:   EventPreToolUse,
			Message: fmt.Sprintf("entry-%d", i),
			Time:    time.Now(),
		})
	}

	assert.Len(t, s.Activity, MaxActivityEntries)
	// Oldest entries were dropped, newest kept
	assert.Equal(t, "entry-10", s.Activity[0].Message)
	assert.Equal(t, fmt.Sprintf("entry-%d", MaxActivityEntries+9), s.Activity[len(s.Activity)-1].Message)
}

func TestTokenUsageAdd(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 50}
	u.Add(TokenUsage{InputTokens: 20, OutputTokens: 5, CacheReadTokens: 7, CacheCreationTokens: 3})

	assert.Equal(t, 120, u.InputTokens)
	assert.Equal(t, 55, u.OutputTokens)
	assert.Equal(t, 7, u.CacheReadTokens)
	assert.Equal(t, 3, u.CacheCreationTokens)
}
