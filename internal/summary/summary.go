// Package summary reduces plant series to totals for cards, pages and exports.
package summary

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"plantdash/internal/models"
)

// PlantTotal is the sum of one plant's full series
type PlantTotal struct {
	PlantID string  `json:"plantId"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Total   float64 `json:"total"`
}

// Summary holds per-plant totals in catalog order and their sum
type Summary struct {
	Plants     []PlantTotal `json:"plants"`
	GrandTotal float64      `json:"grandTotal"`
}

// Empty reports whether there is nothing to show
func (s Summary) Empty() bool {
	return len(s.Plants) == 0
}

// Summarize totals every plant's series. Visibility plays no part: hidden plants
// still count.
func Summarize(series []models.PlantSeries, plants []models.Plant) Summary {
	var out Summary
	for _, plant := range plants {
		total := 0.0
		for _, s := range series {
			if s.PlantID == plant.ID {
				total = floats.Sum(s.Values)
				break
			}
		}
		out.Plants = append(out.Plants, PlantTotal{
			PlantID: plant.ID,
			Name:    plant.Name,
			Color:   plant.Color,
			Total:   total,
		})
		out.GrandTotal += total
	}
	return out
}

// Markdown renders the summary as a GFM table
func (s Summary) Markdown(title string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "### %s\n\n", title)
	}
	if s.Empty() {
		b.WriteString("_No data available for this period._\n")
		return b.String()
	}

	b.WriteString("| Plant | Total |\n")
	b.WriteString("|---|---:|\n")
	for _, p := range s.Plants {
		fmt.Fprintf(&b, "| Total %s | %s |\n", p.Name, FormatNumber(p.Total))
	}
	fmt.Fprintf(&b, "| **Grand Total** | **%s** |\n", FormatNumber(s.GrandTotal))
	return b.String()
}

// FormatNumber renders v rounded to an integer with thousands separators
func FormatNumber(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
