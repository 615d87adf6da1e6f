package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/logging"
)

// claudeHookEvents are the Claude Code hook points farol subscribes to
var claudeHookEvents = []string{
	"UserPromptSubmit",
	"PreToolUse",
	"PostToolUse",
	"PermissionRequest",
	"Notification",
	"Stop",
	"SubagentStop",
	"SessionStart",
	"SessionEnd",
	"PreCompact",
}

// geminiHookEvents are the Gemini CLI hook points farol subscribes to
var geminiHookEvents = []string{
	"session-start",
	"prompt-submit",
	"before-tool",
	"after-tool",
	"permission-request",
	"notification",
	"agent-finish",
	"session-end",
	"compress",
}

// SetupCmd installs the hook commands into each agent's settings file. It is
// idempotent: previously installed farol entries are replaced, everything
// else in the files is preserved.
type SetupCmd struct {
	Agent string `help:"Agent to configure" default:"all" enum:"all,claude,codex,gemini"`
}

// Run executes the setup command
func (s *SetupCmd) Run(cli *CLI) error {
	farolBin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve farol executable path: %w", err)
	}

	var agents []string
	if s.Agent == "all" {
		agents = []string{"claude", "codex", "gemini"}
		// settings.json can narrow the default set
		if cli.settings != nil && len(cli.settings.Agents) > 0 {
			agents = cli.settings.Agents
		}
	} else {
		agents = []string{s.Agent}
	}

	for _, agent := range agents {
		var path string
		var err error
		switch domain.AgentFamily(agent) {
		case domain.AgentClaude:
			path = filepath.Join(claudeConfigDir(), "settings.json")
			err = installClaudeHooks(path, farolBin)
		case domain.AgentCodex:
			path = filepath.Join(codexConfigDir(), "config.toml")
			err = installCodexNotify(path, farolBin)
		case domain.AgentGemini:
			path = filepath.Join(geminiConfigDir(), "settings.json")
			err = installGeminiHooks(path, farolBin)
		default:
			return fmt.Errorf("unknown agent %q in settings", agent)
		}
		if err != nil {
			return fmt.Errorf("failed to configure %s: %w", agent, err)
		}
		logging.Logger.Info("Installed hooks", "agent", agent, "path", path)
		fmt.Printf("Configured %s hooks in %s\n", agent, path)
	}

	fmt.Println("\nDone. New agent sessions will now report to farol.")
	return nil
}

// installClaudeHooks merges farol hook commands into Claude Code's
// settings.json hooks map
func installClaudeHooks(settingsPath, farolBin string) error {
	settings, err := readJSONFile(settingsPath)
	if err != nil {
		return err
	}

	hookCommand := fmt.Sprintf("%s hook claude", farolBin)
	marker := " hook claude"

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
	}

	for _, event := range claudeHookEvents {
		entries, _ := hooks[event].([]any)
		entries = removeClaudeManagedEntries(entries, marker)
		entries = append(entries, map[string]any{
			"hooks": []any{
				map[string]any{"type": "command", "command": hookCommand},
			},
		})
		hooks[event] = entries
	}
	settings["hooks"] = hooks

	return writeJSONFile(settingsPath, settings)
}

// removeClaudeManagedEntries drops previously installed farol commands from a
// Claude hooks event list, leaving user-defined hooks alone
func removeClaudeManagedEntries(entries []any, marker string) []any {
	var kept []any
	for _, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			kept = append(kept, rawEntry)
			continue
		}
		inner, _ := entry["hooks"].([]any)
		if len(inner) == 0 {
			kept = append(kept, rawEntry)
			continue
		}
		var keptInner []any
		for _, rawHook := range inner {
			if hook, ok := rawHook.(map[string]any); ok {
				if command, _ := hook["command"].(string); strings.Contains(command, marker) {
					continue
				}
			}
			keptInner = append(keptInner, rawHook)
		}
		if len(keptInner) == 0 {
			continue
		}
		entry["hooks"] = keptInner
		kept = append(kept, entry)
	}
	return kept
}

// installGeminiHooks merges farol hook commands into Gemini's settings.json.
// Gemini takes a flat command list per event.
func installGeminiHooks(settingsPath, farolBin string) error {
	settings, err := readJSONFile(settingsPath)
	if err != nil {
		return err
	}

	hookCommand := fmt.Sprintf("%s hook gemini", farolBin)
	marker := " hook gemini"

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
	}

	for _, event := range geminiHookEvents {
		entries, _ := hooks[event].([]any)
		var kept []any
		for _, rawEntry := range entries {
			if entry, ok := rawEntry.(map[string]any); ok {
				if command, _ := entry["command"].(string); strings.Contains(command, marker) {
					continue
				}
			}
			kept = append(kept, rawEntry)
		}
		hooks[event] = append(kept, map[string]any{"command": hookCommand})
	}
	settings["hooks"] = hooks

	return writeJSONFile(settingsPath, settings)
}

// installCodexNotify points Codex's notify program at farol. The config is
// edited line by line so the user's comments and formatting survive.
func installCodexNotify(configPath, farolBin string) error {
	notifyLine := fmt.Sprintf(`notify = [%q, "hook", "codex"]`, farolBin)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return err
		}
		return os.WriteFile(configPath, []byte(notifyLine+"\n"), 0644)
	}
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	replaced := false
	for i, line := range lines {
		key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
		if key == "notify" {
			lines[i] = notifyLine
			replaced = true
			break
		}
	}
	if !replaced {
		// Top-level keys must appear before the first table header
		insertAt := len(lines)
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "[") {
				insertAt = i
				break
			}
		}
		lines = append(lines[:insertAt], append([]string{notifyLine}, lines[insertAt:]...)...)
	}
	return os.WriteFile(configPath, []byte(strings.Join(lines, "\n")), 0644)
}

// readJSONFile loads a settings file as a generic map; a missing file is an
// empty one
func readJSONFile(path string) (map[string]any, error) {
	settings := map[string]any{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}

func writeJSONFile(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// claudeConfigDir resolves Claude Code's config directory
func claudeConfigDir() string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return config.ExpandPath(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude"
	}
	return filepath.Join(home, ".claude")
}

// codexConfigDir resolves the Codex CLI config directory
func codexConfigDir() string {
	if dir := os.Getenv("CODEX_HOME"); dir != "" {
		return config.ExpandPath(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codex"
	}
	return filepath.Join(home, ".codex")
}

// geminiConfigDir resolves the Gemini CLI config directory
func geminiConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemini"
	}
	return filepath.Join(home, ".gemini")
}
