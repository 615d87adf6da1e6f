package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

func TestPriceForLookupOrder(t *testing.T) {
	tests := []struct {
		name       string
		modelID    string
		expectedID string
	}{
		{name: "exact", modelID: "claude-opus-4-5", expectedID: "claude-opus-4-5"},
		{name: "date stamped id", modelID: "claude-opus-4-5-20251101", expectedID: "claude-opus-4-5"},
		{name: "versioned opus 4", modelID: "claude-opus-4-20250514", expectedID: "claude-opus-4"},
		{name: "known id inside longer query", modelID: "anthropic/claude-sonnet-4-5", expectedID: "claude-sonnet-4-5"},
		{name: "family heuristic sonnet", modelID: "sonnet-next-preview", expectedID: "claude-sonnet-4-5"},
		{name: "family heuristic codex", modelID: "codex-mini-latest", expectedID: "gpt-5-codex"},
		{name: "family heuristic gemini", modelID: "gemini-experimental", expectedID: "gemini-2.5-pro"},
		{name: "mixed case", modelID: "Claude-Opus-4-5", expectedID: "claude-opus-4-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := PriceFor(tt.modelID)
			require.True(t, ok)
			assert.Equal(t, tt.expectedID, price.ID)
		})
	}
}

func TestPriceForUnknown(t *testing.T) {
	for _, modelID := range []string{"", "   ", "llama-3-70b", "mystery-model"} {
		_, ok := PriceFor(modelID)
		assert.False(t, ok, "modelID %q", modelID)
	}
}

func TestCostExactness(t *testing.T) {
	price, ok := PriceFor("claude-opus-4")
	require.True(t, ok)

	usage := domain.TokenUsage{
		InputTokens:         1_000_000,
		OutputTokens:        200_000,
		CacheReadTokens:     500_000,
		CacheCreationTokens: 100_000,
	}

	// 1M * 15 + 0.2M * 75 + 0.5M * 1.5 + 0.1M * 18.75 per million
	expected := 15.0 + 15.0 + 0.75 + 1.875
	assert.InDelta(t, expected, Cost(usage, price), 1e-9)
}

func TestCostMissingCachePricesContributeZero(t *testing.T) {
	price := ModelPrice{ID: "bare", Input: 2, Output: 4}
	usage := domain.TokenUsage{
		InputTokens:         500_000,
		OutputTokens:        250_000,
		CacheReadTokens:     9_999_999,
		CacheCreationTokens: 9_999_999,
	}

	assert.InDelta(t, 1.0+1.0, Cost(usage, price), 1e-9)
}

func TestOpus45PricesBelowOpus4(t *testing.T) {
	// The 4.5 generation is cheaper than 4; a lookup regression that
	// lands 4.5 ids on the 4 price would overstate costs threefold.
	usage := domain.TokenUsage{
		InputTokens:         3_000_000,
		OutputTokens:        1_000_000,
		CacheReadTokens:     10_000_000,
		CacheCreationTokens: 2_000_000,
	}

	newPrice, ok := PriceFor("claude-opus-4-5-20251101")
	require.True(t, ok)
	oldPrice, ok := PriceFor("claude-opus-4-20250514")
	require.True(t, ok)

	assert.Less(t, Cost(usage, newPrice), Cost(usage, oldPrice))
}

func TestCostByAgentFallsBackToFamilyDefault(t *testing.T) {
	usage := domain.TokenUsage{InputTokens: 1_000_000}

	t.Run("unknown model uses family default", func(t *testing.T) {
		cost := CostByAgent(usage, "totally-unknown", domain.AgentClaude)
		sonnet, _ := PriceFor("claude-sonnet-4-5")
		assert.InDelta(t, Cost(usage, sonnet), cost, 1e-9)
	})

	t.Run("known model ignores family", func(t *testing.T) {
		cost := CostByAgent(usage, "gpt-5", domain.AgentClaude)
		gpt, _ := PriceFor("gpt-5")
		assert.InDelta(t, Cost(usage, gpt), cost, 1e-9)
	})

	t.Run("unknown model and family", func(t *testing.T) {
		assert.Zero(t, CostByAgent(usage, "unknown", domain.AgentFamily("mystery")))
	})
}
