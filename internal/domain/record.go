package domain

import "time"

// SessionRecord is the archived form of a session, written to the history
// store when the session ends.
type SessionRecord struct {
	Agent     AgentFamily
	CostUSD   float64
	CWD       string
	EndedAt   time.Time
	ID        string
	Model     string
	StartedAt time.Time
	Title     string
	Usage     TokenUsage
}
