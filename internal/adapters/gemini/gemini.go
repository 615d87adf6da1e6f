package gemini

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/ports"
)

// responseTimeout is deliberately short; on expiry Gemini falls back to its
// own confirmation prompt via an ask decision.
const responseTimeout = 5 * time.Second

// correlationBucket is the time window within which a synthesized tool-use id
// stays stable, wide enough to span the gap between the before-tool and
// after-tool events of one call.
const correlationBucket = 30 * time.Second

// toolUseNamespace seeds deterministic correlation ids. Gemini omits the tool
// call id on some events, and the adapter process is one-shot, so pre/post
// correlation cannot rely on adapter-side memory.
var toolUseNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("farol.tool-use"))

// Protocol translates Gemini CLI hook payloads into canonical frames
type Protocol struct {
	now func() time.Time
}

// New creates a new Protocol
func New() *Protocol {
	return &Protocol{now: time.Now}
}

var _ ports.Protocol = (*Protocol)(nil)

func (p *Protocol) Family() domain.AgentFamily {
	return domain.AgentGemini
}

func (p *Protocol) ResponseTimeout() time.Duration {
	return responseTimeout
}

// hookInput is the JSON Gemini pipes to hook commands on stdin
type hookInput struct {
	CWD        string         `json:"cwd"`
	EventName  string         `json:"event_name"`
	Message    string         `json:"message"`
	SessionID  string         `json:"session_id"`
	ToolArgs   map[string]any `json:"tool_args"`
	ToolCallID string         `json:"tool_call_id"`
	ToolName   string         `json:"tool_name"`
}

var eventNames = map[string]domain.EventKind{
	"session-start":      domain.EventSessionStart,
	"prompt-submit":      domain.EventUserPromptSubmit,
	"before-tool":        domain.EventPreToolUse,
	"after-tool":         domain.EventPostToolUse,
	"permission-request": domain.EventPermissionRequest,
	"notification":       domain.EventNotification,
	"agent-finish":       domain.EventStop,
	"session-end":        domain.EventSessionEnd,
	"compress":           domain.EventPreCompact,
}

// ParseInput translates a Gemini hook payload into a canonical frame
func (p *Protocol) ParseInput(raw []byte) (domain.HookFrame, error) {
	var input hookInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return domain.HookFrame{}, fmt.Errorf("failed to parse hook payload: %w", err)
	}
	if input.SessionID == "" {
		return domain.HookFrame{}, domain.ErrMissingSessionID
	}

	event, ok := eventNames[input.EventName]
	if !ok {
		return domain.HookFrame{}, fmt.Errorf("unknown event name %q", input.EventName)
	}

	frame := domain.HookFrame{
		Agent:     domain.AgentGemini,
		CWD:       input.CWD,
		Event:     event,
		Message:   input.Message,
		PID:       os.Getppid(),
		SessionID: input.SessionID,
		Tool:      input.ToolName,
		ToolInput: input.ToolArgs,
		ToolUseID: input.ToolCallID,
	}

	if frame.ToolUseID == "" && frame.Tool != "" {
		switch event {
		case domain.EventPreToolUse, domain.EventPostToolUse, domain.EventPermissionRequest:
			frame.ToolUseID = syntheticToolUseID(input.SessionID, input.ToolName, p.now())
		}
	}

	if phase, ok := domain.PhaseFor(frame); ok {
		frame.Status = string(phase)
	}

	return frame, nil
}

// syntheticToolUseID derives a stable id from the session, the tool name and
// a coarse time bucket so the pre-use and post-use frames of one call meet at
// the same id on the server side
func syntheticToolUseID(sessionID, toolName string, now time.Time) string {
	bucket := now.Unix() / int64(correlationBucket/time.Second)
	name := fmt.Sprintf("%s|%s|%s|%d", domain.AgentGemini, sessionID, toolName, bucket)
	return uuid.NewSHA1(toolUseNamespace, []byte(name)).String()
}

// DecisionEnvelope renders the decision in Gemini's shape. An interrupting
// deny becomes block, which aborts the whole agent turn; reasons surface to
// the user as a system message on deny.
func (p *Protocol) DecisionEnvelope(decision domain.Decision) ([]byte, error) {
	out := map[string]any{"decision": verdict(decision)}
	if decision.Reason != "" {
		out["reason"] = decision.Reason
		if decision.Behavior == domain.DecisionDeny {
			out["systemMessage"] = decision.Reason
		}
	}
	return json.Marshal(out)
}

func verdict(decision domain.Decision) string {
	if decision.Behavior == domain.DecisionDeny && decision.Interrupt {
		return "block"
	}
	return string(decision.Behavior)
}
