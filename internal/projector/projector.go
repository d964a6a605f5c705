// Package projector derives chart series and axes from datasets and view flags.
// Every function here is pure: inputs are borrowed, never mutated or retained.
package projector

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"plantdash/internal/models"
	"plantdash/internal/visibility"
)

// SeriesType is the visual used for a series
type SeriesType string

const (
	Bar  SeriesType = "bar"
	Line SeriesType = "line"
)

// ComparisonColor is the accent of the prior-year total line
const ComparisonColor = "#ef4444"

// MonthLabels are the categories of annual charts
var MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Series is one drawable series
type Series struct {
	Name         string     `json:"name"`
	Type         SeriesType `json:"type"`
	PlantID      string     `json:"plantId,omitempty"`
	Color        string     `json:"color,omitempty"`
	Values       []float64  `json:"data"`
	Hidden       bool       `json:"hidden"`
	ShowInLegend bool       `json:"showInLegend"`
	YAxisIndex   int        `json:"yAxisIndex"`
	StrokeWidth  int        `json:"strokeWidth"`
}

// Axis describes one value axis
type Axis struct {
	Title      string `json:"title,omitempty"`
	Show       bool   `json:"show"`
	Opposite   bool   `json:"opposite,omitempty"`
	Decimals   int    `json:"decimals"`
	SeriesName string `json:"seriesName,omitempty"`
}

// Projection is everything a renderer needs for one chart update
type Projection struct {
	Series     []Series `json:"series"`
	Axes       []Axis   `json:"axes"`
	Categories []string `json:"categories"`
}

// VisibleSeries returns the series that are not hidden and carry data
func (p Projection) VisibleSeries() []Series {
	var out []Series
	for _, s := range p.Series {
		if !s.Hidden && len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ComparisonName is the name of the prior-year total line for a year
func ComparisonName(year int) string {
	return fmt.Sprintf("Total (%d)", year-1)
}

// Categories returns the x-axis labels for n sub-periods: month names for 12 on
// an annual dataset, day numbers otherwise.
func Categories(annual bool, n int) []string {
	if annual && n == len(MonthLabels) {
		out := make([]string, n)
		copy(out, MonthLabels)
		return out
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// ProjectProduction builds the production chart: one bar per plant in catalog
// order, hidden per the production vector, then the optional comparison line.
func ProjectProduction(ds models.Dataset, plants []models.Plant, vis *visibility.State, comparison bool) Projection {
	series := make([]Series, 0, len(plants)+1)
	for i, plant := range plants {
		series = append(series, Series{
			Name:         plant.Name,
			Type:         Bar,
			PlantID:      plant.ID,
			Color:        plant.Color,
			Values:       valuesFor(ds.Current, plant.ID, ds.Length),
			Hidden:       !vis.Visible(visibility.Production, i),
			ShowInLegend: true,
		})
	}

	if comparison {
		series = append(series, Series{
			Name:         ComparisonName(ds.Period.Year),
			Type:         Line,
			Color:        ComparisonColor,
			Values:       PriorTotal(ds, plants, vis),
			ShowInLegend: true,
			StrokeWidth:  4,
		})
	}

	return Projection{
		Series:     series,
		Axes:       []Axis{{Title: "Units Produced", Show: true}},
		Categories: Categories(ds.Period.IsAnnual(), ds.Length),
	}
}

// PriorTotal sums, per sub-period, the prior-year values of every plant that is
// currently visible in the production group.
func PriorTotal(ds models.Dataset, plants []models.Plant, vis *visibility.State) []float64 {
	total := make([]float64, ds.Length)
	for i, plant := range plants {
		if !vis.Visible(visibility.Production, i) {
			continue
		}
		floats.Add(total, valuesFor(ds.Prior, plant.ID, ds.Length))
	}
	return total
}

// ProjectCost builds the electricity chart from the cost view toggles
func ProjectCost(cds models.CostDataset, plants []models.Plant, vis *visibility.State, showCost, showKW bool) Projection {
	proj := Projection{Categories: Categories(true, len(MonthLabels))}

	switch {
	case showCost && showKW:
		proj.Series = append(costBars(cds.Cost, plants, vis), kwLines(cds.Consumption, plants, vis)...)
		first := ""
		if len(plants) > 0 {
			first = plants[0].Name
		}
		proj.Axes = []Axis{
			{Title: "Cost (THB)", Show: true, Decimals: 2, SeriesName: first},
			{Title: "Consumption (kW)", Show: true, Opposite: true, Decimals: 2},
		}
	case showCost:
		proj.Series = costBars(cds.Cost, plants, vis)
		proj.Axes = []Axis{{Title: "Cost (THB)", Show: true, Decimals: 2}}
	case showKW:
		proj.Series = costBars(cds.Consumption, plants, vis)
		proj.Axes = []Axis{{Title: "Consumption (kW)", Show: true, Decimals: 2}}
	default:
		proj.Series = []Series{{Type: Bar, Values: []float64{}}}
		proj.Axes = []Axis{{Show: false, Decimals: 2}}
	}
	return proj
}

func costBars(bundle []models.PlantSeries, plants []models.Plant, vis *visibility.State) []Series {
	out := make([]Series, 0, len(plants))
	for i, plant := range plants {
		out = append(out, Series{
			Name:         plant.Name,
			Type:         Bar,
			PlantID:      plant.ID,
			Color:        plant.Color,
			Values:       valuesFor(bundle, plant.ID, len(MonthLabels)),
			Hidden:       !vis.Visible(visibility.Cost, i),
			ShowInLegend: true,
		})
	}
	return out
}

func kwLines(bundle []models.PlantSeries, plants []models.Plant, vis *visibility.State) []Series {
	out := make([]Series, 0, len(plants))
	for i, plant := range plants {
		out = append(out, Series{
			Name:        plant.Name + " (kW)",
			Type:        Line,
			PlantID:     plant.ID,
			Color:       plant.Color,
			Values:      valuesFor(bundle, plant.ID, len(MonthLabels)),
			Hidden:      !vis.Visible(visibility.Cost, i),
			YAxisIndex:  1,
			StrokeWidth: 2,
		})
	}
	return out
}

// valuesFor returns a copy of a plant's values sized to n. A plant missing from
// the bundle yields zeros.
func valuesFor(bundle []models.PlantSeries, plantID string, n int) []float64 {
	out := make([]float64, n)
	for _, s := range bundle {
		if s.PlantID == plantID {
			copy(out, s.Values)
			break
		}
	}
	return out
}
