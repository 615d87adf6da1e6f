package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own
// FAROL_HOME and runtime directory.
type TestEnvironment struct {
	FarolHome  string
	RuntimeDir string
	extraEnv   map[string]string
	tb         testing.TB
}

// NewTestEnvironment creates an isolated test environment with a temp
// FAROL_HOME. The temp directories are automatically cleaned up when the
// test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	return &TestEnvironment{
		FarolHome:  tb.TempDir(),
		RuntimeDir: tb.TempDir(),
		extraEnv:   make(map[string]string),
		tb:         tb,
	}
}

// Environ returns environment variables configured for test isolation.
// It filters out FAROL_* variables and sets:
//   - FAROL_HOME to the temp directory
//   - FAROL_DEBUG to empty string (disables debug logging)
//   - XDG_RUNTIME_DIR to a per-test directory (socket isolation)
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+3+len(e.extraEnv))

	// Build a set of keys we want to override
	overrideKeys := make(map[string]bool)
	overrideKeys["FAROL_HOME"] = true
	overrideKeys["FAROL_DEBUG"] = true
	overrideKeys["XDG_RUNTIME_DIR"] = true
	for k := range e.extraEnv {
		overrideKeys[k] = true
	}

	// Filter out existing FAROL_* variables and any we're overriding
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		key := parts[0]
		if strings.HasPrefix(key, "FAROL_") || overrideKeys[key] {
			continue
		}
		env = append(env, kv)
	}

	// Add isolated environment variables
	env = append(env,
		"FAROL_HOME="+e.FarolHome,
		"FAROL_DEBUG=",
		"XDG_RUNTIME_DIR="+e.RuntimeDir,
	)

	// Add extra environment variables
	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// DBPath returns the path to the test history database.
func (e *TestEnvironment) DBPath() string {
	return filepath.Join(e.FarolHome, "history.db")
}

// SocketPath returns the event socket path the test daemon listens on.
func (e *TestEnvironment) SocketPath() string {
	return filepath.Join(e.RuntimeDir, "farol", "farol.sock")
}

// SettingsPath returns the path to the test settings.json.
func (e *TestEnvironment) SettingsPath() string {
	return filepath.Join(e.FarolHome, "settings.json")
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	if e.extraEnv == nil {
		e.extraEnv = make(map[string]string)
	}
	e.extraEnv[key] = value
}

// WriteSettings writes a settings.json into FAROL_HOME.
func (e *TestEnvironment) WriteSettings(content string) {
	e.tb.Helper()
	if err := os.WriteFile(e.SettingsPath(), []byte(content), 0644); err != nil {
		e.tb.Fatalf("Failed to write settings: %v", err)
	}
}
