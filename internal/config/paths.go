package config

import (
	"os"
	"path/filepath"
)

// GetFarolHome returns FAROL_HOME or ~/.farol default
func GetFarolHome() string {
	farolHome := os.Getenv("FAROL_HOME")
	if farolHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".farol"
		}
		return filepath.Join(homeDir, ".farol")
	}
	return ExpandPath(farolHome)
}

// GetDBPath returns $FAROL_HOME/history.db
func GetDBPath() string {
	return filepath.Join(GetFarolHome(), "history.db")
}

// GetSettingsPath returns $FAROL_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetFarolHome(), "settings.json")
}

// GetRunDir returns the directory holding the socket and state file.
// Prefers $XDG_RUNTIME_DIR/farol (tmpfs, per-user 0700 on most distros),
// falls back to $FAROL_HOME/run.
func GetRunDir() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "farol")
	}
	return filepath.Join(GetFarolHome(), "run")
}

// GetSocketPath returns the unix socket path for the session event channel
func GetSocketPath() string {
	return filepath.Join(GetRunDir(), "farol.sock")
}

// GetStatePath returns the path of the running-instance state file
func GetStatePath() string {
	return filepath.Join(GetRunDir(), "state.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
