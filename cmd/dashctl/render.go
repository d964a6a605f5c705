package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plantdash/internal/models"
	"plantdash/internal/summary"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f172a")).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Width(24)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
)

// RenderSummary draws one bar per plant scaled to the largest total, then the grand total
func RenderSummary(label string, s summary.Summary, noData bool) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Monthly Summary - "+label) + "\n")

	if noData || s.Empty() {
		sb.WriteString(mutedStyle.Render("No data available for this period."))
		return sb.String()
	}

	var max float64
	for _, p := range s.Plants {
		if p.Total > max {
			max = p.Total
		}
	}
	for _, p := range s.Plants {
		sb.WriteString(row("Total "+p.Name, p.Total, max, lipgloss.Color(p.Color)) + "\n")
	}
	sb.WriteString(labelStyle.Render("Grand Total") + " " + totalStyle.Render(summary.FormatNumber(s.GrandTotal)))
	return sb.String()
}

// RenderPriorTotals prints last year's per-plant totals for the same month
func RenderPriorTotals(label string, prior []models.PlantSeries, plants []models.Plant) string {
	s := summary.Summarize(prior, plants)
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Same month, "+label) + "\n")
	for _, p := range s.Plants {
		sb.WriteString(labelStyle.Render("Total "+p.Name) + " " + mutedStyle.Render(summary.FormatNumber(p.Total)) + "\n")
	}
	sb.WriteString(labelStyle.Render("Grand Total") + " " + mutedStyle.Render(summary.FormatNumber(s.GrandTotal)))
	return sb.String()
}

func row(label string, value, max float64, color lipgloss.Color) string {
	filled := 0
	if max > 0 {
		filled = int(value / max * barWidth)
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	track := trackStyle.Render(strings.Repeat("░", barWidth-filled))
	valueStr := lipgloss.NewStyle().Foreground(color).Bold(true).Render(summary.FormatNumber(value))
	return fmt.Sprintf("%s %s%s %s", labelStyle.Render(label), bar, track, valueStr)
}
