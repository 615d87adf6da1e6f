package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/farol/internal/domain"
)

// SessionsViewCmd views a recorded session
type SessionsViewCmd struct {
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	ID     string `arg:"" help:"ID of the session to view"`
}

// Run executes the view command
func (s *SessionsViewCmd) Run(cli *CLI) error {
	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	record, err := container.Repository.Get(context.Background(), s.ID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if s.Format == "json" {
		return printJSON(record)
	}
	return s.printTable(record)
}

func (s *SessionsViewCmd) printTable(record *domain.SessionRecord) error {
	fmt.Printf("Session: %s\n", record.ID)
	fmt.Printf("Agent: %s\n", record.Agent)
	if record.Title != "" {
		fmt.Printf("Title: %s\n", record.Title)
	}
	fmt.Printf("Directory: %s\n", record.CWD)
	fmt.Printf("Started: %s\n", record.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Ended: %s\n", record.EndedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", formatDuration(record.StartedAt, record.EndedAt))
	if record.Model != "" {
		fmt.Printf("Model: %s\n", record.Model)
	}
	fmt.Printf("Input Tokens: %s\n", formatNumber(record.Usage.InputTokens))
	fmt.Printf("Output Tokens: %s\n", formatNumber(record.Usage.OutputTokens))
	fmt.Printf("Cache Read Tokens: %s\n", formatNumber(record.Usage.CacheReadTokens))
	fmt.Printf("Cache Creation Tokens: %s\n", formatNumber(record.Usage.CacheCreationTokens))
	fmt.Printf("Cost: $%.4f\n", record.CostUSD)
	return nil
}
