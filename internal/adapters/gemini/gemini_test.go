package gemini

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/farol/internal/domain"
)

func payload(eventName string, extra string) []byte {
	base := fmt.Sprintf(`{"session_id":"sess-g","cwd":"/home/dev/web","event_name":%q`, eventName)
	if extra != "" {
		base += "," + extra
	}
	return []byte(base + "}")
}

func frozen(t time.Time) *Protocol {
	protocol := New()
	protocol.now = func() time.Time { return t }
	return protocol
}

func TestParseInputMapsEvents(t *testing.T) {
	tests := []struct {
		name       string
		native     string
		wantEvent  domain.EventKind
		wantStatus string
	}{
		{"session start", "session-start", domain.EventSessionStart, "waitingForInput"},
		{"prompt submit", "prompt-submit", domain.EventUserPromptSubmit, "processing"},
		{"before tool", "before-tool", domain.EventPreToolUse, "runningTool"},
		{"after tool", "after-tool", domain.EventPostToolUse, "processing"},
		{"agent finish", "agent-finish", domain.EventStop, "waitingForInput"},
		{"session end", "session-end", domain.EventSessionEnd, "ended"},
		{"compress", "compress", domain.EventPreCompact, "compacting"},
	}

	protocol := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := protocol.ParseInput(payload(tt.native, ""))
			require.NoError(t, err)

			assert.Equal(t, tt.wantEvent, frame.Event)
			assert.Equal(t, tt.wantStatus, frame.Status)
			assert.Equal(t, domain.AgentGemini, frame.Agent)
			assert.Equal(t, "sess-g", frame.SessionID)
		})
	}
}

func TestParseInputCarriesToolFields(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("permission-request",
		`"tool_name":"run_shell_command","tool_args":{"command":"npm ci"},"tool_call_id":"tc-1"`))
	require.NoError(t, err)

	assert.Equal(t, "run_shell_command", frame.Tool)
	assert.Equal(t, map[string]any{"command": "npm ci"}, frame.ToolInput)
	assert.Equal(t, "tc-1", frame.ToolUseID)
	assert.Equal(t, "waitingForApproval", frame.Status)
}

func TestParseInputQuestionToolStatus(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("permission-request", `"tool_name":"ask_user"`))
	require.NoError(t, err)

	assert.Equal(t, "waitingForInput", frame.Status)
}

func TestSyntheticToolUseIDCorrelatesWithinBucket(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 26, 5, 0, time.UTC)
	extra := `"tool_name":"write_file","tool_args":{"path":"main.go"}`

	before, err := frozen(base).ParseInput(payload("before-tool", extra))
	require.NoError(t, err)
	after, err := frozen(base.Add(10 * time.Second)).ParseInput(payload("after-tool", extra))
	require.NoError(t, err)

	require.NotEmpty(t, before.ToolUseID)
	assert.Equal(t, before.ToolUseID, after.ToolUseID)
}

func TestSyntheticToolUseIDChangesAcrossBuckets(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	extra := `"tool_name":"write_file"`

	first, err := frozen(base).ParseInput(payload("before-tool", extra))
	require.NoError(t, err)
	later, err := frozen(base.Add(90 * time.Second)).ParseInput(payload("before-tool", extra))
	require.NoError(t, err)

	assert.NotEqual(t, first.ToolUseID, later.ToolUseID)
}

func TestSyntheticToolUseIDVariesBySessionAndTool(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 5, 0, time.UTC)

	assert.NotEqual(t,
		syntheticToolUseID("sess-g", "write_file", at),
		syntheticToolUseID("sess-h", "write_file", at))
	assert.NotEqual(t,
		syntheticToolUseID("sess-g", "write_file", at),
		syntheticToolUseID("sess-g", "read_file", at))
}

func TestParseInputKeepsNativeToolCallID(t *testing.T) {
	protocol := New()

	frame, err := protocol.ParseInput(payload("before-tool",
		`"tool_name":"read_file","tool_call_id":"native-7"`))
	require.NoError(t, err)

	assert.Equal(t, "native-7", frame.ToolUseID)
}

func TestParseInputRejectsBadPayloads(t *testing.T) {
	protocol := New()

	_, err := protocol.ParseInput([]byte("????"))
	assert.Error(t, err)

	_, err = protocol.ParseInput([]byte(`{"event_name":"agent-finish"}`))
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)

	_, err = protocol.ParseInput(payload("tea-break", ""))
	assert.ErrorContains(t, err, "unknown event name")
}

func TestDecisionEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		decision domain.Decision
		want     string
	}{
		{"allow", domain.Decision{Behavior: domain.DecisionAllow}, `{"decision":"allow"}`},
		{"ask", domain.AskDecision(), `{"decision":"ask"}`},
		{
			"deny with reason",
			domain.Decision{Behavior: domain.DecisionDeny, Reason: "wrong branch"},
			`{"decision":"deny","reason":"wrong branch","systemMessage":"wrong branch"}`,
		},
		{
			"interrupting deny becomes block",
			domain.Decision{Behavior: domain.DecisionDeny, Interrupt: true},
			`{"decision":"block"}`,
		},
	}

	protocol := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := protocol.DecisionEnvelope(tt.decision)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}
