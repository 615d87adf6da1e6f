package pricing

import (
	"strings"

	"github.com/renato0307/farol/internal/domain"
)

// PriceFor resolves a model id to a price entry. Lookup order: exact id,
// substring containment in either direction (longest known id wins),
// then the ordered family heuristics. Unknown, empty or whitespace-only
// ids yield no entry.
func PriceFor(modelID string) (ModelPrice, bool) {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if id == "" {
		return ModelPrice{}, false
	}

	if price, ok := byID[id]; ok {
		return price, true
	}

	// Substring match either direction; prefer the most specific
	// (longest) known id so versioned ids resolve to their own price.
	var best ModelPrice
	bestLen := 0
	for _, model := range models {
		if strings.Contains(id, model.ID) || strings.Contains(model.ID, id) {
			if len(model.ID) > bestLen {
				best = model
				bestLen = len(model.ID)
			}
		}
	}
	if bestLen > 0 {
		return best, true
	}

	for _, rule := range familyRules {
		if strings.Contains(id, rule.fragment) {
			return byID[rule.fallback], true
		}
	}

	return ModelPrice{}, false
}

// Cost computes the USD cost of a usage record at the given price.
func Cost(usage domain.TokenUsage, price ModelPrice) float64 {
	return float64(usage.InputTokens)/1e6*price.Input +
		float64(usage.OutputTokens)/1e6*price.Output +
		float64(usage.CacheReadTokens)/1e6*price.CacheRead +
		float64(usage.CacheCreationTokens)/1e6*price.CacheWrite
}

// CostByAgent prices a usage record, falling back to the agent family's
// default model when the model id is unknown. Returns zero for an unknown
// family with an unknown model.
func CostByAgent(usage domain.TokenUsage, modelID string, agent domain.AgentFamily) float64 {
	price, ok := PriceFor(modelID)
	if !ok {
		price, ok = PriceFor(defaultModels[string(agent)])
		if !ok {
			return 0
		}
	}
	return Cost(usage, price)
}

// Models returns the full price table, newest first per provider.
func Models() []ModelPrice {
	out := make([]ModelPrice, len(models))
	copy(out, models)
	return out
}
