package claude

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/ports"
)

// responseTimeout bounds how long a hook process may block on a decision.
// Claude Code keeps the hook alive until its own dialog would time out, so
// the bound is generous; superseded waiters are resolved with ask long
// before it fires.
const responseTimeout = 24 * time.Hour

// Protocol translates Claude Code hook payloads into canonical frames
type Protocol struct{}

// New creates a new Protocol
func New() *Protocol {
	return &Protocol{}
}

var _ ports.Protocol = (*Protocol)(nil)

// Family identifies the agent this protocol serves
func (p *Protocol) Family() domain.AgentFamily {
	return domain.AgentClaude
}

// ResponseTimeout bounds the wait for a permission decision
func (p *Protocol) ResponseTimeout() time.Duration {
	return responseTimeout
}

// hookInput is the JSON Claude Code pipes to hook commands on stdin
type hookInput struct {
	CWD            string         `json:"cwd"`
	HookEventName  string         `json:"hook_event_name"`
	Message        string         `json:"message"`
	PermissionMode string         `json:"permission_mode"`
	Prompt         string         `json:"prompt"`
	SessionID      string         `json:"session_id"`
	ToolInput      map[string]any `json:"tool_input"`
	ToolName       string         `json:"tool_name"`
	ToolUseID      string         `json:"tool_use_id"`
	TranscriptPath string         `json:"transcript_path"`
	Trigger        string         `json:"trigger"`
}

// Claude's native hook event names match the canonical vocabulary one to one
var eventNames = map[string]domain.EventKind{
	"UserPromptSubmit":  domain.EventUserPromptSubmit,
	"PreToolUse":        domain.EventPreToolUse,
	"PostToolUse":       domain.EventPostToolUse,
	"PermissionRequest": domain.EventPermissionRequest,
	"Notification":      domain.EventNotification,
	"Stop":              domain.EventStop,
	"SubagentStop":      domain.EventSubagentStop,
	"SessionStart":      domain.EventSessionStart,
	"SessionEnd":        domain.EventSessionEnd,
	"PreCompact":        domain.EventPreCompact,
}

// ParseInput translates a Claude Code hook payload into a canonical frame
func (p *Protocol) ParseInput(raw []byte) (domain.HookFrame, error) {
	var input hookInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return domain.HookFrame{}, fmt.Errorf("failed to parse hook payload: %w", err)
	}
	if input.SessionID == "" {
		return domain.HookFrame{}, domain.ErrMissingSessionID
	}

	event, ok := eventNames[input.HookEventName]
	if !ok {
		return domain.HookFrame{}, fmt.Errorf("unknown hook event %q", input.HookEventName)
	}

	frame := domain.HookFrame{
		Agent: domain.AgentClaude,
		CWD:   input.CWD,
		Event: event,
		// The hook process is a child of the agent CLI
		PID:       os.Getppid(),
		SessionID: input.SessionID,
		Tool:      input.ToolName,
		ToolInput: input.ToolInput,
		ToolUseID: input.ToolUseID,
	}

	switch event {
	case domain.EventUserPromptSubmit:
		frame.Message = input.Prompt
	case domain.EventNotification:
		frame.Message = input.Message
		frame.NotificationType = notificationType(input.Message)
	case domain.EventPreCompact:
		frame.Message = input.Trigger
	}

	if phase, ok := domain.PhaseFor(frame); ok {
		frame.Status = string(phase)
	}

	return frame, nil
}

// notificationType classifies notification text into the canonical subtypes.
// Claude does not tag its notifications, so classification is heuristic.
func notificationType(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "permission"):
		return domain.NotificationPermissionPrompt
	case strings.Contains(lower, "waiting for your input"):
		return domain.NotificationIdlePrompt
	}
	return ""
}

// DecisionEnvelope renders the decision as Claude Code hook output. An ask
// decision produces no output at all, which makes Claude fall back to its
// own permission dialog.
func (p *Protocol) DecisionEnvelope(decision domain.Decision) ([]byte, error) {
	if decision.Behavior == domain.DecisionAsk {
		return nil, nil
	}

	inner := map[string]any{"behavior": string(decision.Behavior)}
	if decision.Reason != "" {
		inner["message"] = decision.Reason
	}
	if decision.UpdatedInput != nil {
		inner["updatedInput"] = decision.UpdatedInput
	}
	if decision.Interrupt {
		inner["interrupt"] = true
	}

	return json.Marshal(map[string]any{
		"hookSpecificOutput": map[string]any{
			"hookEventName": "PermissionRequest",
			"decision":      inner,
		},
	})
}
