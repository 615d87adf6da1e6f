package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/farol/internal/logging"
)

// SessionsDelCmd deletes a recorded session
type SessionsDelCmd struct {
	Force bool   `help:"Force deletion without confirmation" short:"f"`
	ID    string `arg:"" help:"ID of the session to delete"`
}

// Run executes the del command
func (s *SessionsDelCmd) Run(cli *CLI) error {
	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	ctx := context.Background()
	record, err := container.Repository.Get(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	if !s.Force {
		fmt.Printf("WARNING: This will delete the recorded session '%s'", record.ID)
		if record.Title != "" {
			fmt.Printf(" (%s)", record.Title)
		}
		fmt.Print("\n\nContinue? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := container.Repository.Delete(ctx, s.ID); err != nil {
		logging.Logger.Error("Failed to delete session record", "id", s.ID, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}

	logging.Logger.Info("Session record deleted", "id", s.ID)
	fmt.Printf("Session '%s' deleted\n", s.ID)
	return nil
}
