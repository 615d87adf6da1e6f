package pricing

// ModelPrice holds USD prices per million tokens for one model.
// Zero cache prices simply contribute nothing to the cost.
type ModelPrice struct {
	CacheRead   float64
	CacheWrite  float64
	DisplayName string
	ID          string
	Input       float64
	Output      float64
	Provider    string
}

// models is the immutable price table, ordered roughly newest-first per
// provider. Prices are USD per million tokens.
var models = []ModelPrice{
	{ID: "claude-opus-4-5", DisplayName: "Claude Opus 4.5", Provider: "anthropic", Input: 5, Output: 25, CacheRead: 0.5, CacheWrite: 6.25},
	{ID: "claude-opus-4-1", DisplayName: "Claude Opus 4.1", Provider: "anthropic", Input: 15, Output: 75, CacheRead: 1.5, CacheWrite: 18.75},
	{ID: "claude-opus-4", DisplayName: "Claude Opus 4", Provider: "anthropic", Input: 15, Output: 75, CacheRead: 1.5, CacheWrite: 18.75},
	{ID: "claude-sonnet-4-5", DisplayName: "Claude Sonnet 4.5", Provider: "anthropic", Input: 3, Output: 15, CacheRead: 0.3, CacheWrite: 3.75},
	{ID: "claude-sonnet-4", DisplayName: "Claude Sonnet 4", Provider: "anthropic", Input: 3, Output: 15, CacheRead: 0.3, CacheWrite: 3.75},
	{ID: "claude-haiku-4-5", DisplayName: "Claude Haiku 4.5", Provider: "anthropic", Input: 1, Output: 5, CacheRead: 0.1, CacheWrite: 1.25},
	{ID: "claude-3-5-haiku", DisplayName: "Claude Haiku 3.5", Provider: "anthropic", Input: 0.8, Output: 4, CacheRead: 0.08, CacheWrite: 1},
	{ID: "gpt-5-codex", DisplayName: "GPT-5 Codex", Provider: "openai", Input: 1.25, Output: 10, CacheRead: 0.125},
	{ID: "gpt-5-mini", DisplayName: "GPT-5 mini", Provider: "openai", Input: 0.25, Output: 2, CacheRead: 0.025},
	{ID: "gpt-5", DisplayName: "GPT-5", Provider: "openai", Input: 1.25, Output: 10, CacheRead: 0.125},
	{ID: "o3", DisplayName: "o3", Provider: "openai", Input: 2, Output: 8, CacheRead: 0.5},
	{ID: "gemini-2.5-pro", DisplayName: "Gemini 2.5 Pro", Provider: "google", Input: 1.25, Output: 10, CacheRead: 0.31},
	{ID: "gemini-2.5-flash", DisplayName: "Gemini 2.5 Flash", Provider: "google", Input: 0.3, Output: 2.5, CacheRead: 0.075},
	{ID: "gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", Provider: "google", Input: 0.1, Output: 0.4, CacheRead: 0.025},
}

// familyRule maps an id fragment to a canonical fallback model.
type familyRule struct {
	fallback string
	fragment string
}

// familyRules are evaluated in order; more specific fragments come first so
// e.g. an opus 4.5 date-stamped id never lands on the opus 4 price.
var familyRules = []familyRule{
	{fragment: "opus-4-5", fallback: "claude-opus-4-5"},
	{fragment: "opus-4-1", fallback: "claude-opus-4-1"},
	{fragment: "opus-4", fallback: "claude-opus-4"},
	{fragment: "opus", fallback: "claude-opus-4-5"},
	{fragment: "sonnet-4-5", fallback: "claude-sonnet-4-5"},
	{fragment: "sonnet", fallback: "claude-sonnet-4-5"},
	{fragment: "haiku-4-5", fallback: "claude-haiku-4-5"},
	{fragment: "haiku", fallback: "claude-haiku-4-5"},
	{fragment: "claude", fallback: "claude-sonnet-4-5"},
	{fragment: "gpt-5-codex", fallback: "gpt-5-codex"},
	{fragment: "gpt-5-mini", fallback: "gpt-5-mini"},
	{fragment: "gpt-5", fallback: "gpt-5"},
	{fragment: "codex", fallback: "gpt-5-codex"},
	{fragment: "o3", fallback: "o3"},
	{fragment: "2.5-pro", fallback: "gemini-2.5-pro"},
	{fragment: "2.5-flash", fallback: "gemini-2.5-flash"},
	{fragment: "gemini", fallback: "gemini-2.5-pro"},
}

// defaultModels is the fixed fallback model per agent family.
var defaultModels = map[string]string{
	"claude": "claude-sonnet-4-5",
	"codex":  "gpt-5-codex",
	"gemini": "gemini-2.5-pro",
}

var byID = func() map[string]ModelPrice {
	m := make(map[string]ModelPrice, len(models))
	for _, model := range models {
		m[model.ID] = model
	}
	return m
}()
