package codex

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/ports"
)

// responseTimeout is deliberately short. Codex blocks the tool call while the
// hook runs, so an unanswered request quickly degrades to ask and lets Codex
// show its own approval UI.
const responseTimeout = 5 * time.Second

// Protocol translates Codex CLI hook payloads into canonical frames
type Protocol struct{}

// New creates a new Protocol
func New() *Protocol {
	return &Protocol{}
}

var _ ports.Protocol = (*Protocol)(nil)

func (p *Protocol) Family() domain.AgentFamily {
	return domain.AgentCodex
}

func (p *Protocol) ResponseTimeout() time.Duration {
	return responseTimeout
}

// hookInput is the JSON Codex pipes to notify/hook programs on stdin
type hookInput struct {
	CallID    string         `json:"call_id"`
	CWD       string         `json:"cwd"`
	Msg       string         `json:"msg"`
	SessionID string         `json:"session_id"`
	Status    string         `json:"status"`
	Tool      string         `json:"tool"`
	ToolInput map[string]any `json:"tool_input"`
	Type      string         `json:"type"`
}

var eventTypes = map[string]domain.EventKind{
	"session-start":       domain.EventSessionStart,
	"user-prompt":         domain.EventUserPromptSubmit,
	"exec-begin":          domain.EventPreToolUse,
	"exec-end":            domain.EventPostToolUse,
	"permission-request":  domain.EventPermissionRequest,
	"notification":        domain.EventNotification,
	"agent-turn-complete": domain.EventStop,
	"session-end":         domain.EventSessionEnd,
	"compact":             domain.EventPreCompact,
}

// Codex notifications name their wait state in an explicit status field
var notificationStatuses = map[string]string{
	"awaiting-input":    domain.NotificationIdlePrompt,
	"awaiting-approval": domain.NotificationPermissionPrompt,
}

// ParseInput translates a Codex hook payload into a canonical frame
func (p *Protocol) ParseInput(raw []byte) (domain.HookFrame, error) {
	var input hookInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return domain.HookFrame{}, fmt.Errorf("failed to parse hook payload: %w", err)
	}
	if input.SessionID == "" {
		return domain.HookFrame{}, domain.ErrMissingSessionID
	}

	event, ok := eventTypes[input.Type]
	if !ok {
		return domain.HookFrame{}, fmt.Errorf("unknown event type %q", input.Type)
	}

	frame := domain.HookFrame{
		Agent:     domain.AgentCodex,
		CWD:       input.CWD,
		Event:     event,
		Message:   input.Msg,
		PID:       os.Getppid(),
		SessionID: input.SessionID,
		Tool:      input.Tool,
		ToolInput: input.ToolInput,
		ToolUseID: input.CallID,
	}

	if event == domain.EventNotification {
		frame.NotificationType = notificationStatuses[input.Status]
	}

	if phase, ok := domain.PhaseFor(frame); ok {
		frame.Status = string(phase)
	}

	return frame, nil
}

// DecisionEnvelope renders the decision in Codex's flat permission shape.
// Codex understands ask natively, so the envelope is always printed.
func (p *Protocol) DecisionEnvelope(decision domain.Decision) ([]byte, error) {
	return json.Marshal(map[string]string{
		"permission": string(decision.Behavior),
	})
}
