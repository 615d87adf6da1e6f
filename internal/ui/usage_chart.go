package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/farol/internal/services"
	"github.com/renato0307/farol/internal/theme"
)

const (
	usageChartHeight   = 6 // Height of the chart area
	usageChartBarWidth = 3 // Bar width
	usageChartBarGap   = 0 // No gap between in/out bars, gap added between models
	usageChartMaxBars  = 8 // Most expensive models shown; the rest are summed

	usageChartRefreshTimeout = 2 * time.Second
)

// RenderUsageChart renders a per-model token usage chart with the given data.
// This is used by both the TUI and CLI to ensure consistent formatting.
func RenderUsageChart(stats []services.ModelStats) string {
	if len(stats) == 0 {
		return theme.TokenChartLegendStyle.Render("Usage: no token usage recorded yet")
	}

	// Stats arrive most expensive first; fold the tail into "other"
	if len(stats) > usageChartMaxBars {
		other := services.ModelStats{Model: "other"}
		for _, entry := range stats[usageChartMaxBars-1:] {
			other.Usage.Add(entry.Usage)
			other.CostUSD += entry.CostUSD
		}
		stats = append(append([]services.ModelStats(nil), stats[:usageChartMaxBars-1]...), other)
	}

	var sb strings.Builder

	// Find max values for scaling
	var maxVal float64
	var totalInput, totalOutput int
	var totalCost float64
	for _, entry := range stats {
		if float64(entry.Usage.InputTokens) > maxVal {
			maxVal = float64(entry.Usage.InputTokens)
		}
		if float64(entry.Usage.OutputTokens) > maxVal {
			maxVal = float64(entry.Usage.OutputTokens)
		}
		totalInput += entry.Usage.InputTokens
		totalOutput += entry.Usage.OutputTokens
		totalCost += entry.CostUSD
	}

	if maxVal == 0 {
		maxVal = 1 // Avoid division by zero
	}

	// Legend with arrows, totals, and cost
	legend := theme.TokenChartLegendStyle.Render("Usage: ") +
		theme.TokenInputStyle.Render("↑") +
		theme.TokenChartLegendStyle.Render(" input: "+formatTokenCount(totalInput)+"  ") +
		theme.TokenOutputStyle.Render("↓") +
		theme.TokenChartLegendStyle.Render(" output: "+formatTokenCount(totalOutput)+"  cost: "+fmt.Sprintf("$%.2f", totalCost))

	sb.WriteString(legend)
	sb.WriteString("\n")

	// One numbered line per model, matching the bar labels below
	for i, entry := range stats {
		sb.WriteString(theme.TokenChartLegendStyle.Render(fmt.Sprintf("  %d %s  ", i+1, entry.Model)) +
			theme.TokenInputStyle.Render("↑"+formatTokenCount(entry.Usage.InputTokens)) + " " +
			theme.TokenOutputStyle.Render("↓"+formatTokenCount(entry.Usage.OutputTokens)) +
			theme.TokenChartLegendStyle.Render(fmt.Sprintf("  $%.2f", entry.CostUSD)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// Create bar chart sized to the model count (in + out bars plus a gap per model)
	chartWidth := len(stats)*(2*usageChartBarWidth+1) + 2
	axisStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	chart := barchart.New(chartWidth, usageChartHeight,
		barchart.WithStyles(axisStyle, labelStyle),
	)
	chart.SetBarWidth(usageChartBarWidth)
	chart.SetBarGap(usageChartBarGap)
	chart.SetMax(maxVal)

	// Create styles for input (green) and output (blue)
	inputStyle := lipgloss.NewStyle().Foreground(theme.ColorTokenInput)
	outputStyle := lipgloss.NewStyle().Foreground(theme.ColorTokenOutput)

	// Push bar data per model (input + output side by side)
	for i, entry := range stats {
		// Input bar with the model's legend number
		chart.Push(barchart.BarData{
			Label: fmt.Sprintf("%d", i+1),
			Values: []barchart.BarValue{
				{Name: "in", Value: float64(entry.Usage.InputTokens), Style: inputStyle},
			},
		})
		// Output bar (no label, pairs with input)
		chart.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "out", Value: float64(entry.Usage.OutputTokens), Style: outputStyle},
			},
		})
	}

	chart.Draw()
	sb.WriteString(chart.View())

	return sb.String()
}

// UsageChart displays a grouped bar chart of token usage by model
type UsageChart struct {
	stats        []services.ModelStats
	statsService *services.StatsService
	visible      bool
}

// NewUsageChart creates a new UsageChart component
func NewUsageChart(statsService *services.StatsService) *UsageChart {
	return &UsageChart{
		statsService: statsService,
		visible:      false,
	}
}

// SetVisible sets the visibility of the chart
func (uc *UsageChart) SetVisible(visible bool) {
	uc.visible = visible
	if visible {
		uc.Refresh()
	}
}

// IsVisible returns whether the chart is visible
func (uc *UsageChart) IsVisible() bool {
	return uc.visible
}

// Toggle toggles the visibility of the chart
func (uc *UsageChart) Toggle() {
	uc.SetVisible(!uc.visible)
}

// Height returns the total height of the chart component (including spacing after)
func (uc *UsageChart) Height() int {
	if !uc.visible {
		return 0
	}
	return lipgloss.Height(uc.View()) + 1 // +1 for blank row after chart
}

// Refresh reloads data from the stats service
func (uc *UsageChart) Refresh() {
	if uc.statsService == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), usageChartRefreshTimeout)
	defer cancel()

	stats, err := uc.statsService.ByModel(ctx)
	if err != nil {
		uc.stats = nil
		return
	}
	uc.stats = stats
}

// View renders the usage chart
func (uc *UsageChart) View() string {
	if !uc.visible {
		return ""
	}
	return RenderUsageChart(uc.stats)
}

// formatTokenCount formats a token count with K/M suffixes
func formatTokenCount(count int) string {
	if count >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	}
	if count >= 1_000 {
		return fmt.Sprintf("%.0fK", float64(count)/1_000)
	}
	return fmt.Sprintf("%d", count)
}
