package ports

import "github.com/renato0307/farol/internal/domain"

// UsageReader reads token usage from agent transcript files
type UsageReader interface {
	// SessionUsage returns cumulative token usage for a session, keyed by
	// model id
	SessionUsage(agent domain.AgentFamily, sessionID, cwd string) (map[string]domain.TokenUsage, error)
}
