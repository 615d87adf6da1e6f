package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Run       RunCmd       `cmd:"" help:"Start the farol dashboard (default)" default:"1"`
	Serve     ServeCmd     `cmd:"serve" help:"Run the session engine without the local dashboard"`
	Setup     SetupCmd     `cmd:"setup" help:"Install farol hooks into agent settings files"`
	Launch    LaunchCmd    `cmd:"launch" help:"Run an agent CLI under farol's PTY wrapper"`
	Sessions  SessionsCmd  `cmd:"sessions" help:"Manage session history (list, view, del)"`
	Stats     StatsCmd     `cmd:"stats" help:"Show token usage and cost statistics"`
	Hook      HookCmd      `cmd:"hook" help:"Handle a hook event from an agent CLI" hidden:""`
	Respond   RespondCmd   `cmd:"respond" help:"Resolve a pending permission request" hidden:""`
	Status    StatusCmd    `cmd:"status" help:"Show session phase counts for tmux status bar" hidden:""`
	PlaySound PlaySoundCmd `cmd:"play-sound" help:"Play notification sound (cross-platform)" hidden:""`

	// Internal fields (not flags)
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		// Apply MaxLogFiles setting
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("FAROL_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		// Apply Debug setting
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("FAROL_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so child processes inherit
	// debug settings and use the SAME log file (important for correlating
	// parent/child process logs)
	if c.Debug || c.DebugFile != "" {
		os.Setenv("FAROL_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("FAROL_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("FAROL_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	return nil
}

// socketPath resolves the event socket path, honoring the settings.json
// override
func (c *CLI) socketPath() string {
	if c.settings != nil && c.settings.SocketPath != "" {
		return config.ExpandPath(c.settings.SocketPath)
	}
	return config.GetSocketPath()
}
