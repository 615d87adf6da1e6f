package domain

import "time"

// PermissionRequest is a pending approval tied to exactly one session.
// At most one is outstanding per session; a newer request replaces it for
// display but the superseded waiter is still resolved (with ask).
type PermissionRequest struct {
	CreatedAt time.Time
	ToolInput map[string]any
	ToolName  string
	ToolUseID string
}

// DecisionBehavior is the canonical outcome of a permission request
type DecisionBehavior string

const (
	DecisionAllow DecisionBehavior = "allow"
	DecisionDeny  DecisionBehavior = "deny"
	// DecisionAsk defers to the agent's own native prompt. It is the safe
	// default on timeout or error and must never be conflated with deny.
	DecisionAsk DecisionBehavior = "ask"
)

// Decision is the response frame for a permission-class event. UpdatedInput
// lets the responder mutate the tool input before execution; Interrupt aborts
// the agent run entirely.
type Decision struct {
	Behavior     DecisionBehavior `json:"decision"`
	Reason       string           `json:"reason,omitempty"`
	UpdatedInput map[string]any   `json:"updatedInput,omitempty"`
	Interrupt    bool             `json:"interrupt,omitempty"`
}

// AskDecision is the degrade-gracefully response used on timeout or transport
// failure
func AskDecision() Decision {
	return Decision{Behavior: DecisionAsk}
}
