package models

import "plantdash/internal/period"

// Plant is a static catalog entry shared by every series of that plant
type Plant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // Display accent, #rrggbb
}

// Plants is the catalog in display order. Series indices follow this order.
var Plants = []Plant{
	{ID: "brazing", Name: "Brazing", Color: "#f97316"},
	{ID: "plating", Name: "Plating", Color: "#0ea5e9"},
	{ID: "lp", Name: "LP", Color: "#10b981"},
}

// PlantSeries holds one value per sub-period (month or day) for a plant.
// It is generated once and never mutated afterwards.
type PlantSeries struct {
	PlantID string    `json:"plant_id"`
	Values  []float64 `json:"values"`
}

// Dataset is the production bundle of a period: current series per plant plus an
// independently generated prior-year bundle of identical shape.
type Dataset struct {
	Period  period.Period `json:"period"`
	Length  int           `json:"length"`
	Current []PlantSeries `json:"current"`
	Prior   []PlantSeries `json:"prior"`
}

// CostDataset is the electricity bundle of a year: cost per unit and consumption,
// twelve months per plant each.
type CostDataset struct {
	Year        int           `json:"year"`
	Cost        []PlantSeries `json:"cost"`
	Consumption []PlantSeries `json:"consumption"`
}

func cloneSeries(in []PlantSeries) []PlantSeries {
	if in == nil {
		return nil
	}
	out := make([]PlantSeries, len(in))
	for i, ps := range in {
		out[i] = PlantSeries{PlantID: ps.PlantID, Values: append([]float64(nil), ps.Values...)}
	}
	return out
}

// Clone returns a copy sharing no slices with the receiver
func (d Dataset) Clone() Dataset {
	d.Current = cloneSeries(d.Current)
	d.Prior = cloneSeries(d.Prior)
	return d
}

// Clone returns a copy sharing no slices with the receiver
func (c CostDataset) Clone() CostDataset {
	c.Cost = cloneSeries(c.Cost)
	c.Consumption = cloneSeries(c.Consumption)
	return c
}

// PlantByID looks up a catalog entry
func PlantByID(plants []Plant, id string) (Plant, bool) {
	for _, p := range plants {
		if p.ID == id {
			return p, true
		}
	}
	return Plant{}, false
}
