package ports

import (
	"time"

	"github.com/renato0307/farol/internal/domain"
)

// Protocol adapts one agent family's native hook payloads to canonical
// frames and decisions back to the agent's own output envelope
type Protocol interface {
	// Family identifies the agent this protocol serves
	Family() domain.AgentFamily

	// ParseInput translates the agent's native hook payload into a canonical
	// frame
	ParseInput(raw []byte) (domain.HookFrame, error)

	// DecisionEnvelope renders a decision in the agent's own output shape.
	// An empty envelope means print nothing.
	DecisionEnvelope(decision domain.Decision) ([]byte, error)

	// ResponseTimeout bounds the wait for a permission decision
	ResponseTimeout() time.Duration
}
