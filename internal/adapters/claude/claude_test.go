package claude

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

func payload(event string, extra string) []byte {
	base := fmt.Sprintf(`{"session_id":"sess-1","cwd":"/home/dev/project","hook_event_name":%q`, event)
	if extra != "" {
		base += "," + extra
	}
	return []byte(base + "}")
}

func TestParseInputMapsEvents(t *testing.T) {
	tests := []struct {
		name       string
		native     string
		wantEvent  domain.EventKind
		wantStatus string
	}{
		{"prompt", "UserPromptSubmit", domain.EventUserPromptSubmit, "processing"},
		{"pre tool", "PreToolUse", domain.EventPreToolUse, "runningTool"},
		{"post tool", "PostToolUse", domain.EventPostToolUse, "processing"},
		{"stop", "Stop", domain.EventStop, "waitingForInput"},
		{"subagent stop", "SubagentStop", domain.EventSubagentStop, "waitingForInput"},
		{"session start", "SessionStart", domain.EventSessionStart, "waitingForInput"},
		{"session end", "SessionEnd", domain.EventSessionEnd, "ended"},
		{"compact", "PreCompact", domain.EventPreCompact, "compacting"},
	}

	protocol := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := protocol.ParseInput(payload(tt.native, ""))
			require.NoError(t, err)

			assert.Equal(t, tt.wantEvent, frame.Event)
			assert.Equal(t, tt.wantStatus, frame.Status)
			assert.Equal(t, domain.AgentClaude, frame.Agent)
			assert.Equal(t, "sess-1", frame.SessionID)
			assert.Equal(t, "/home/dev/project", frame.CWD)
		})
	}
}

func TestParseInputCarriesPrompt(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("UserPromptSubmit", `"prompt":"fix the flaky test"`))
	require.NoError(t, err)

	assert.Equal(t, "fix the flaky test", frame.Message)
}

func TestParseInputCarriesToolFields(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("PermissionRequest",
		`"tool_name":"Bash","tool_input":{"command":"rm -rf build"},"tool_use_id":"toolu_1"`))
	require.NoError(t, err)

	assert.Equal(t, "Bash", frame.Tool)
	assert.Equal(t, map[string]any{"command": "rm -rf build"}, frame.ToolInput)
	assert.Equal(t, "toolu_1", frame.ToolUseID)
	assert.Equal(t, "waitingForApproval", frame.Status)
	assert.True(t, frame.PermissionClass())
}

func TestParseInputQuestionToolStatus(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("PermissionRequest",
		`"tool_name":"AskUserQuestion","tool_use_id":"toolu_2"`))
	require.NoError(t, err)

	assert.Equal(t, "waitingForInput", frame.Status)
}

func TestParseInputClassifiesNotifications(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantSubtype string
		wantStatus  string
	}{
		{"permission prompt", "Claude needs your permission to use Bash", domain.NotificationPermissionPrompt, ""},
		{"idle prompt", "Claude is waiting for your input", domain.NotificationIdlePrompt, "waitingForInput"},
		{"untyped", "Build finished", "", ""},
	}

	protocol := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := protocol.ParseInput(payload("Notification", fmt.Sprintf(`"message":%q`, tt.message)))
			require.NoError(t, err)

			assert.Equal(t, domain.EventNotification, frame.Event)
			assert.Equal(t, tt.message, frame.Message)
			assert.Equal(t, tt.wantSubtype, frame.NotificationType)
			assert.Equal(t, tt.wantStatus, frame.Status)
		})
	}
}

func TestParseInputStampsParentPID(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("Stop", ""))
	require.NoError(t, err)

	assert.Equal(t, os.Getppid(), frame.PID)
}

func TestParseInputRejectsBadPayloads(t *testing.T) {
	protocol := New()

	_, err := protocol.ParseInput([]byte("{not json"))
	assert.Error(t, err)

	_, err = protocol.ParseInput([]byte(`{"hook_event_name":"Stop"}`))
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)

	_, err = protocol.ParseInput(payload("TeaBreak", ""))
	assert.ErrorContains(t, err, "unknown hook event")
}

func TestDecisionEnvelopeAllow(t *testing.T) {
	protocol := New()

	out, err := protocol.DecisionEnvelope(domain.Decision{Behavior: domain.DecisionAllow})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"hookSpecificOutput": {
			"hookEventName": "PermissionRequest",
			"decision": {"behavior": "allow"}
		}
	}`, string(out))
}

func TestDecisionEnvelopeDenyWithDetails(t *testing.T) {
	protocol := New()

	out, err := protocol.DecisionEnvelope(domain.Decision{
		Behavior:  domain.DecisionDeny,
		Reason:    "touching prod config",
		Interrupt: true,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"hookSpecificOutput": {
			"hookEventName": "PermissionRequest",
			"decision": {"behavior": "deny", "message": "touching prod config", "interrupt": true}
		}
	}`, string(out))
}

func TestDecisionEnvelopeAllowWithUpdatedInput(t *testing.T) {
	protocol := New()

	out, err := protocol.DecisionEnvelope(domain.Decision{
		Behavior:     domain.DecisionAllow,
		UpdatedInput: map[string]any{"command": "rm -rf build/tmp"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"hookSpecificOutput": {
			"hookEventName": "PermissionRequest",
			"decision": {"behavior": "allow", "updatedInput": {"command": "rm -rf build/tmp"}}
		}
	}`, string(out))
}

func TestDecisionEnvelopeAskIsSilent(t *testing.T) {
	protocol := New()

	out, err := protocol.DecisionEnvelope(domain.AskDecision())
	require.NoError(t, err)

	assert.Nil(t, out)
}
