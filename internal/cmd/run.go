package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/logging"
	"github.com/renato0307/farol/internal/state"
	"github.com/renato0307/farol/internal/ui"
)

// RunCmd starts the dashboard TUI together with the engine and socket server
type RunCmd struct {
	Dev                        bool   `help:"Enable development mode (shows version info in dialogs)"`
	ErrorClearDelay            int    `help:"Seconds before error messages auto-clear" default:"10"`
	PhaseColors                string `help:"Comma-separated ANSI color codes for phase indicators"`
	ShowTimestamps             bool   `help:"Show relative timestamps for last activity" default:"false"`
	ShowUsageChart             bool   `help:"Show token usage chart by default" default:"false"`
	TimestampRecentColor       string `help:"ANSI color code for recent timestamps" default:"241"`
	TimestampRecentMinutes     int    `help:"Minutes threshold for recent timestamps (gray color)" default:"5"`
	TimestampStaleColor        string `help:"ANSI color code for stale timestamps" default:"1"`
	TimestampWarningColor      string `help:"ANSI color code for warning timestamps" default:"3"`
	TimestampWarningMinutes    int    `help:"Minutes threshold for warning timestamps (yellow color)" default:"20"`
	TipsDisplayDurationSeconds int    `help:"Seconds to display each tip" default:"10"`
	TipsEnabled                bool   `help:"Enable rotating tips display" default:"true"`
	TipsShowIntervalSeconds    int    `help:"Seconds between tips" default:"60"`
}

// Run executes the dashboard
func (r *RunCmd) Run(cli *CLI) error {
	// Apply RunCmd-specific settings with proper precedence
	// Only apply if flag is at default value and env var is not set

	if cli.settings != nil {
		// Apply ShowTimestamps setting
		if !r.ShowTimestamps {
			if _, hasEnv := os.LookupEnv("FAROL_SHOW_TIMESTAMPS"); !hasEnv {
				if cli.settings.ShowTimestamps != nil && *cli.settings.ShowTimestamps {
					r.ShowTimestamps = true
				}
			}
		}

		// Apply PhaseColors setting
		if r.PhaseColors == "" && len(cli.settings.PhaseColors) > 0 {
			r.PhaseColors = strings.Join(cli.settings.PhaseColors, ",")
		}
	}

	// Validate key bindings if configured
	var keysConfig config.KeyBindingsConfig
	if cli.settings != nil && cli.settings.Keys != nil {
		if err := cli.settings.Keys.Validate(ui.GetValidKeyNames()); err != nil {
			return fmt.Errorf("invalid key bindings in settings.json: %w", err)
		}
		keysConfig = cli.settings.Keys
		logging.Logger.Debug("Custom key bindings loaded and validated")
	}

	logging.Logger.Info("Starting farol dashboard")

	socketPath := cli.socketPath()
	lock, err := state.Acquire(socketPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	server, err := startServices(ctx, g, container, socketPath)
	if err != nil {
		return err
	}

	var phaseColors []string
	if r.PhaseColors != "" {
		phaseColors = splitColorList(r.PhaseColors)
	}

	logging.Logger.Debug("Initializing Bubble Tea program")
	program := tea.NewProgram(
		ui.NewModel(ui.ModelConfig{
			Control:         server,
			DevMode:         r.Dev,
			Engine:          container.Engine,
			ErrorClearDelay: time.Duration(r.ErrorClearDelay) * time.Second,
			Keys:            keysConfig,
			PhaseConfig:     config.NewPhaseConfig(phaseColors),
			ShowTimestamps:  r.ShowTimestamps,
			ShowUsageChart:  r.ShowUsageChart,
			Stats:           container.StatsService,
			TimestampConfig: ui.NewTimestampColorConfig(
				r.TimestampRecentMinutes,
				r.TimestampWarningMinutes,
				r.TimestampRecentColor,
				r.TimestampWarningColor,
				r.TimestampStaleColor,
			),
			Tips: ui.TipsConfig{
				DisplayDurationSeconds: r.TipsDisplayDurationSeconds,
				Enabled:                r.TipsEnabled,
				ShowIntervalSeconds:    r.TipsShowIntervalSeconds,
			},
		}),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	g.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})

	g.Go(func() error {
		// A clean TUI exit must also wind down the services
		defer stop()
		logging.Logger.Info("Starting TUI program")
		if _, err := program.Run(); err != nil {
			logging.Logger.Error("TUI program error", "error", err)
			return fmt.Errorf("error running program: %w", err)
		}
		logging.Logger.Info("TUI program exited normally")
		return nil
	})

	return g.Wait()
}

// splitColorList splits a comma-separated flag value, dropping empty entries
func splitColorList(value string) []string {
	var colors []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	return colors
}
