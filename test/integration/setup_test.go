package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/renato0307/farol/test/integration/harness"
)

func TestSetupClaude(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	claudeDir := t.TempDir()
	env.SetEnv("CLAUDE_CONFIG_DIR", claudeDir)

	result := harness.RunCommand(t, env, "setup", "--agent", "claude")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Configured claude hooks")

	data, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("Failed to read claude settings: %v", err)
	}
	content := string(data)
	for _, event := range []string{"UserPromptSubmit", "PreToolUse", "PermissionRequest", "SessionEnd"} {
		if !strings.Contains(content, event) {
			t.Errorf("Expected settings to register %s hook.\nContent: %s", event, content)
		}
	}
	if !strings.Contains(content, "hook claude") {
		t.Errorf("Expected settings to call the farol hook command.\nContent: %s", content)
	}
}

func TestSetupClaudeIsIdempotent(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	claudeDir := t.TempDir()
	env.SetEnv("CLAUDE_CONFIG_DIR", claudeDir)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "setup", "--agent", "claude"))
	first, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("Failed to read claude settings: %v", err)
	}

	harness.AssertSuccess(t, harness.RunCommand(t, env, "setup", "--agent", "claude"))
	second, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("Failed to read claude settings: %v", err)
	}

	// Running setup twice must not duplicate hook entries
	if strings.Count(string(first), "hook claude") != strings.Count(string(second), "hook claude") {
		t.Errorf("Second setup duplicated hook entries.\nFirst: %s\nSecond: %s", first, second)
	}
}

func TestSetupClaudePreservesUserHooks(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	claudeDir := t.TempDir()
	env.SetEnv("CLAUDE_CONFIG_DIR", claudeDir)

	existing := map[string]any{
		"model": "opus",
		"hooks": map[string]any{
			"PreToolUse": []any{
				map[string]any{
					"matcher": "Bash",
					"hooks": []any{
						map[string]any{"type": "command", "command": "/usr/local/bin/my-linter"},
					},
				},
			},
		},
	}
	data, _ := json.Marshal(existing)
	if err := os.WriteFile(filepath.Join(claudeDir, "settings.json"), data, 0644); err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}

	harness.AssertSuccess(t, harness.RunCommand(t, env, "setup", "--agent", "claude"))

	merged, err := os.ReadFile(filepath.Join(claudeDir, "settings.json"))
	if err != nil {
		t.Fatalf("Failed to read claude settings: %v", err)
	}
	content := string(merged)
	if !strings.Contains(content, "my-linter") {
		t.Errorf("Setup dropped a user-defined hook.\nContent: %s", content)
	}
	if !strings.Contains(content, `"model": "opus"`) {
		t.Errorf("Setup dropped unrelated settings.\nContent: %s", content)
	}
	if !strings.Contains(content, "hook claude") {
		t.Errorf("Setup did not install the farol hook.\nContent: %s", content)
	}
}

func TestSetupCodex(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	codexDir := t.TempDir()
	env.SetEnv("CODEX_HOME", codexDir)

	result := harness.RunCommand(t, env, "setup", "--agent", "codex")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Configured codex hooks")

	data, err := os.ReadFile(filepath.Join(codexDir, "config.toml"))
	if err != nil {
		t.Fatalf("Failed to read codex config: %v", err)
	}
	if !strings.Contains(string(data), `"hook", "codex"`) {
		t.Errorf("Expected notify program pointing at farol.\nContent: %s", data)
	}
}

func TestSetupCodexReplacesNotifyLine(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	codexDir := t.TempDir()
	env.SetEnv("CODEX_HOME", codexDir)

	seed := "# my config\nmodel = \"o4\"\nnotify = [\"old-notifier\"]\n\n[profiles.work]\nmodel = \"o3\"\n"
	if err := os.WriteFile(filepath.Join(codexDir, "config.toml"), []byte(seed), 0644); err != nil {
		t.Fatalf("Failed to seed config: %v", err)
	}

	harness.AssertSuccess(t, harness.RunCommand(t, env, "setup", "--agent", "codex"))

	data, err := os.ReadFile(filepath.Join(codexDir, "config.toml"))
	if err != nil {
		t.Fatalf("Failed to read codex config: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "old-notifier") {
		t.Errorf("Old notify line survived.\nContent: %s", content)
	}
	if !strings.Contains(content, "# my config") || !strings.Contains(content, "[profiles.work]") {
		t.Errorf("Setup destroyed user config.\nContent: %s", content)
	}
}

func TestSetupGemini(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	home := t.TempDir()
	env.SetEnv("HOME", home)

	result := harness.RunCommand(t, env, "setup", "--agent", "gemini")

	harness.AssertSuccess(t, result)

	data, err := os.ReadFile(filepath.Join(home, ".gemini", "settings.json"))
	if err != nil {
		t.Fatalf("Failed to read gemini settings: %v", err)
	}
	if !strings.Contains(string(data), "hook gemini") {
		t.Errorf("Expected gemini hook command.\nContent: %s", data)
	}
}
