package integration_test

import (
	"fmt"
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

// claudePayload builds a minimal Claude Code hook payload
func claudePayload(sessionID, event string, extra string) string {
	payload := fmt.Sprintf(`{"session_id": %q, "cwd": "/tmp/project", "hook_event_name": %q`, sessionID, event)
	if extra != "" {
		payload += ", " + extra
	}
	return payload + "}"
}

func TestHookWithoutRunningInstance(t *testing.T) {
	// Hooks run inside the agent's lifecycle: a dead or missing farol must
	// never break the agent, so every failure path exits zero.

	tests := []struct {
		name  string
		stdin string
	}{
		{
			name:  "fire-and-forget event is dropped silently",
			stdin: claudePayload("s-no-daemon", "UserPromptSubmit", `"prompt": "hello"`),
		},
		{
			name:  "malformed JSON input",
			stdin: "this is not json{",
		},
		{
			name:  "unknown hook event name",
			stdin: claudePayload("s-unknown", "SomeFutureEvent", ""),
		},
		{
			name:  "missing session id",
			stdin: `{"hook_event_name": "Stop", "cwd": "/tmp"}`,
		},
		{
			name:  "empty input",
			stdin: "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			result := harness.RunCommandWithStdin(t, env, tt.stdin, "hook", "claude")

			harness.AssertSuccess(t, result)
			harness.AssertStdoutEmpty(t, result)
		})
	}
}

func TestHookQuestionToolNeverBlocks(t *testing.T) {
	// AskUserQuestion is answered inside Claude's own UI. The hook must not
	// wait for a dashboard decision, even when no instance is running.
	env := harness.NewTestEnvironment(t)

	stdin := claudePayload("s-question", "PermissionRequest",
		`"tool_name": "AskUserQuestion", "tool_input": {"question": "Which file?"}, "tool_use_id": "toolu_01"`)
	result := harness.RunCommandWithStdin(t, env, stdin, "hook", "claude")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutEmpty(t, result)
}

func TestHookPermissionDegradesToAsk(t *testing.T) {
	// With no instance listening, a real permission request degrades to ask,
	// which for Claude means printing nothing and letting its native dialog
	// take over.
	env := harness.NewTestEnvironment(t)

	stdin := claudePayload("s-degraded", "PermissionRequest",
		`"tool_name": "Bash", "tool_input": {"command": "rm -rf /"}, "tool_use_id": "toolu_02"`)
	result := harness.RunCommandWithStdin(t, env, stdin, "hook", "claude")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutEmpty(t, result)
}

func TestHookCodexPermissionDegradesToAsk(t *testing.T) {
	// Codex understands ask natively, so the degraded envelope is explicit.
	env := harness.NewTestEnvironment(t)

	stdin := `{"session_id": "s-codex", "type": "permission-request", "tool": "shell", "call_id": "call_1", "tool_input": {"command": ["ls"]}}`
	result := harness.RunCommandWithStdin(t, env, stdin, "hook", "codex")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, `"permission":"ask"`)
}

func TestHookInvalidAgent(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommandWithStdin(t, env, "{}", "hook", "cursor")

	harness.AssertFailure(t, result)
}
