package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/farol/internal/services"
	"github.com/renato0307/farol/internal/ui"
)

// StatsCmd shows token usage and cost statistics
type StatsCmd struct {
	Format string `help:"Output format (table or chart)" default:"table" enum:"table,chart"`
}

// Run executes the stats command
func (s *StatsCmd) Run(cli *CLI) error {
	container, err := NewContainer(cli.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	ctx := context.Background()
	stats, err := container.StatsService.ByModel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token usage: %w", err)
	}
	total, err := container.StatsService.TotalCost(ctx)
	if err != nil {
		return fmt.Errorf("failed to get total cost: %w", err)
	}

	// Display based on format
	switch s.Format {
	case "chart":
		s.renderChart(stats)
	default:
		s.renderTable(stats, total)
	}

	return nil
}

// renderTable displays token usage in table format
func (s *StatsCmd) renderTable(stats []services.ModelStats, total float64) {
	fmt.Printf("Token Usage by Model\n\n")

	if len(stats) == 0 {
		fmt.Println("No token data yet.")
		return
	}

	// Header
	fmt.Println("Model                          Input        Output       Cache Read   Cost")
	fmt.Println(strings.Repeat("─", 78))

	// Data rows, most expensive first
	for _, stat := range stats {
		fmt.Printf("%-30s %-12s %-12s %-12s $%.4f\n",
			truncateCell(stat.Model, 30),
			formatNumber(stat.Usage.InputTokens),
			formatNumber(stat.Usage.OutputTokens),
			formatNumber(stat.Usage.CacheReadTokens),
			stat.CostUSD)
	}

	fmt.Println(strings.Repeat("─", 78))
	fmt.Printf("Total cost: $%.4f\n", total)
}

// renderChart displays token usage as a bar chart
func (s *StatsCmd) renderChart(stats []services.ModelStats) {
	fmt.Printf("Token Usage by Model\n\n")
	fmt.Println(ui.RenderUsageChart(stats))
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	if n == 0 {
		return "0"
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Add comma separators
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
