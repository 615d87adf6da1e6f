package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/farol/internal/domain"
	"github.com/renato0307/farol/internal/transport"
)

// SessionsListCmd lists recorded sessions, or the live table of a running
// instance with --live
type SessionsListCmd struct {
	Format string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit  int    `help:"Maximum number of results (0 = unlimited)" default:"50" short:"l"`
	Live   bool   `help:"Show the live sessions of the running instance instead of history"`
}

// Run executes the list command
func (s *SessionsListCmd) Run(cli *CLI) error {
	if s.Live {
		return s.runLive(cli)
	}

	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	records, err := container.Repository.List(context.Background(), s.Limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if s.Format == "json" {
		return printJSON(records)
	}
	s.renderRecords(records)
	return nil
}

// runLive snapshots the live session table over the socket
func (s *SessionsListCmd) runLive(cli *CLI) error {
	sessions, err := transport.NewClient(cli.socketPath()).Snapshot()
	if err != nil {
		return fmt.Errorf("no running farol instance: %w", err)
	}

	if s.Format == "json" {
		return printJSON(sessions)
	}
	s.renderLive(sessions)
	return nil
}

// renderRecords displays history records in table format
func (s *SessionsListCmd) renderRecords(records []domain.SessionRecord) {
	if len(records) == 0 {
		fmt.Println("No recorded sessions.")
		return
	}

	fmt.Println("ID        Agent    Title                           Ended                Cost")
	fmt.Println(strings.Repeat("─", 88))
	for _, record := range records {
		fmt.Printf("%-9s %-8s %-31s %-20s $%.4f\n",
			shortID(record.ID),
			record.Agent,
			truncateCell(record.Title, 31),
			record.EndedAt.Format("2006-01-02 15:04:05"),
			record.CostUSD)
	}
	fmt.Println(strings.Repeat("─", 88))
	fmt.Printf("%d sessions\n", len(records))
}

// renderLive displays the running instance's session table
func (s *SessionsListCmd) renderLive(sessions []domain.Session) {
	if len(sessions) == 0 {
		fmt.Println("No live sessions.")
		return
	}

	fmt.Println("ID        Agent    Phase                 Title                           Last Activity")
	fmt.Println(strings.Repeat("─", 96))
	for _, session := range sessions {
		phase := fmt.Sprintf("%s %s", session.Phase.Symbol(), session.Phase)
		fmt.Printf("%-9s %-8s %-21s %-31s %s\n",
			shortID(session.ID),
			session.Agent,
			phase,
			truncateCell(session.Title, 31),
			session.LastActivity.Format("15:04:05"))
	}
}

// printJSON renders any value as indented JSON
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// shortID abbreviates a session id for table display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateCell bounds a table cell, marking the cut with an ellipsis
func truncateCell(value string, max int) string {
	if value == "" {
		return "-"
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

// formatDuration renders a session's wall-clock length
func formatDuration(start, end time.Time) string {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return "-"
	}
	return end.Sub(start).Round(time.Second).String()
}
