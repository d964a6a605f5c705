package projector

import (
	"context"
	"testing"

	"plantdash/internal/dataset"
	"plantdash/internal/logger"
	"plantdash/internal/models"
	"plantdash/internal/period"
	"plantdash/internal/visibility"
)

func fixtureDataset() models.Dataset {
	return models.Dataset{
		Period: period.Monthly(2026, 2),
		Length: 3,
		Current: []models.PlantSeries{
			{PlantID: "brazing", Values: []float64{1, 2, 3}},
			{PlantID: "plating", Values: []float64{4, 5, 6}},
			{PlantID: "lp", Values: []float64{7, 8, 9}},
		},
		Prior: []models.PlantSeries{
			{PlantID: "brazing", Values: []float64{10, 20, 30}},
			{PlantID: "plating", Values: []float64{100, 200, 300}},
			{PlantID: "lp", Values: []float64{1000, 2000, 3000}},
		},
	}
}

func fixtureCost() models.CostDataset {
	cds := models.CostDataset{Year: 2026}
	for i, p := range models.Plants {
		cost := make([]float64, 12)
		kw := make([]float64, 12)
		for m := range cost {
			cost[m] = float64(i+1) + 0.25
			kw[m] = float64(i+1) * 0.5
		}
		cds.Cost = append(cds.Cost, models.PlantSeries{PlantID: p.ID, Values: cost})
		cds.Consumption = append(cds.Consumption, models.PlantSeries{PlantID: p.ID, Values: kw})
	}
	return cds
}

func TestProjectProductionNoComparison(t *testing.T) {
	vis := visibility.New(3)
	proj := ProjectProduction(fixtureDataset(), models.Plants, vis, false)

	if len(proj.Series) != 3 {
		t.Fatalf("Expected 3 series, got %d", len(proj.Series))
	}
	for i, s := range proj.Series {
		if s.Type != Bar {
			t.Errorf("Expected series %d to be a bar, got %s", i, s.Type)
		}
		if s.Name != models.Plants[i].Name {
			t.Errorf("Expected catalog order name %s, got %s", models.Plants[i].Name, s.Name)
		}
		if s.Hidden {
			t.Errorf("Expected series %d visible", i)
		}
	}
	if len(proj.Categories) != 3 || proj.Categories[0] != "1" || proj.Categories[2] != "3" {
		t.Errorf("Expected day categories, got %v", proj.Categories)
	}
	if len(proj.Axes) != 1 || proj.Axes[0].Title != "Units Produced" {
		t.Errorf("Unexpected axes: %+v", proj.Axes)
	}
}

func TestProjectProductionHiddenKeepsValues(t *testing.T) {
	vis := visibility.New(3)
	vis.Toggle(visibility.Production, 1)

	proj := ProjectProduction(fixtureDataset(), models.Plants, vis, false)
	if !proj.Series[1].Hidden {
		t.Error("Expected plating series hidden")
	}
	if proj.Series[1].Values[0] != 4 {
		t.Errorf("Expected hidden series to keep its values, got %v", proj.Series[1].Values)
	}
}

func TestComparisonGatedByVisibility(t *testing.T) {
	vis := visibility.New(3)
	vis.Toggle(visibility.Production, 1)

	proj := ProjectProduction(fixtureDataset(), models.Plants, vis, true)
	if len(proj.Series) != 4 {
		t.Fatalf("Expected 4 series, got %d", len(proj.Series))
	}

	line := proj.Series[3]
	if line.Type != Line {
		t.Errorf("Expected comparison series last as a line, got %s", line.Type)
	}
	if line.Name != "Total (2025)" {
		t.Errorf("Expected name 'Total (2025)', got '%s'", line.Name)
	}
	if line.StrokeWidth != 4 || line.Color != ComparisonColor {
		t.Errorf("Unexpected comparison styling: width=%d color=%s", line.StrokeWidth, line.Color)
	}

	expected := []float64{1010, 2020, 3030}
	for i, v := range expected {
		if line.Values[i] != v {
			t.Errorf("Expected aggregate[%d] = %v, got %v", i, v, line.Values[i])
		}
	}
}

func TestComparisonAllHidden(t *testing.T) {
	vis := visibility.New(3)
	vis.Set(visibility.Production, []bool{false, false, false})

	total := PriorTotal(fixtureDataset(), models.Plants, vis)
	for i, v := range total {
		if v != 0 {
			t.Errorf("Expected zero aggregate at %d, got %v", i, v)
		}
	}
}

func TestProjectionDoesNotAliasDataset(t *testing.T) {
	ds := fixtureDataset()
	proj := ProjectProduction(ds, models.Plants, visibility.New(3), false)
	proj.Series[0].Values[0] = -1
	if ds.Current[0].Values[0] != 1 {
		t.Error("Expected projection to copy values, dataset was mutated")
	}
}

func TestProjectCostBranchTable(t *testing.T) {
	tests := []struct {
		name       string
		showCost   bool
		showKW     bool
		series     int
		axes       int
		firstTitle string
	}{
		{name: "both", showCost: true, showKW: true, series: 6, axes: 2, firstTitle: "Cost (THB)"},
		{name: "cost only", showCost: true, showKW: false, series: 3, axes: 1, firstTitle: "Cost (THB)"},
		{name: "kw only", showCost: false, showKW: true, series: 3, axes: 1, firstTitle: "Consumption (kW)"},
		{name: "neither", showCost: false, showKW: false, series: 1, axes: 1, firstTitle: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := ProjectCost(fixtureCost(), models.Plants, visibility.New(3), tt.showCost, tt.showKW)
			if len(proj.Series) != tt.series {
				t.Fatalf("Expected %d series, got %d", tt.series, len(proj.Series))
			}
			if len(proj.Axes) != tt.axes {
				t.Fatalf("Expected %d axes, got %d", tt.axes, len(proj.Axes))
			}
			if proj.Axes[0].Title != tt.firstTitle {
				t.Errorf("Expected first axis '%s', got '%s'", tt.firstTitle, proj.Axes[0].Title)
			}
			if len(proj.Categories) != 12 || proj.Categories[0] != "Jan" {
				t.Errorf("Expected month categories, got %v", proj.Categories)
			}
			for _, a := range proj.Axes {
				if a.Decimals != 2 {
					t.Errorf("Expected 2 decimals on every axis, got %d", a.Decimals)
				}
			}
		})
	}
}

func TestProjectCostBoth(t *testing.T) {
	vis := visibility.New(3)
	vis.Toggle(visibility.Cost, 2)
	proj := ProjectCost(fixtureCost(), models.Plants, vis, true, true)

	for i := 0; i < 3; i++ {
		s := proj.Series[i]
		if s.Type != Bar || !s.ShowInLegend || s.YAxisIndex != 0 || s.StrokeWidth != 0 {
			t.Errorf("Unexpected cost series %d: %+v", i, s)
		}
		if s.Values[0] != float64(i+1)+0.25 {
			t.Errorf("Expected cost values first, got %v", s.Values[0])
		}
	}
	for i := 3; i < 6; i++ {
		s := proj.Series[i]
		if s.Type != Line {
			t.Errorf("Expected series %d typed line, got %s", i, s.Type)
		}
		if s.ShowInLegend {
			t.Errorf("Expected series %d legend-suppressed", i)
		}
		if s.YAxisIndex != 1 || s.StrokeWidth != 2 {
			t.Errorf("Expected kW line on secondary axis with width 2, got axis=%d width=%d", s.YAxisIndex, s.StrokeWidth)
		}
		want := models.Plants[i-3].Name + " (kW)"
		if s.Name != want {
			t.Errorf("Expected name '%s', got '%s'", want, s.Name)
		}
	}

	if !proj.Series[2].Hidden || !proj.Series[5].Hidden {
		t.Error("Expected both LP series hidden by the cost vector")
	}
	if proj.Series[0].Hidden || proj.Series[3].Hidden {
		t.Error("Expected brazing series visible")
	}

	if proj.Axes[0].SeriesName != "Brazing" || proj.Axes[0].Opposite {
		t.Errorf("Unexpected primary axis: %+v", proj.Axes[0])
	}
	if !proj.Axes[1].Opposite || proj.Axes[1].Title != "Consumption (kW)" {
		t.Errorf("Unexpected secondary axis: %+v", proj.Axes[1])
	}
}

func TestProjectCostKWOnlyReusesBars(t *testing.T) {
	proj := ProjectCost(fixtureCost(), models.Plants, visibility.New(3), false, true)
	for i, s := range proj.Series {
		if s.Type != Bar || s.Name != models.Plants[i].Name {
			t.Errorf("Expected consumption bar named %s, got %s %s", models.Plants[i].Name, s.Type, s.Name)
		}
		if s.Values[0] != float64(i+1)*0.5 {
			t.Errorf("Expected consumption values, got %v", s.Values[0])
		}
	}
}

func TestProjectCostNeither(t *testing.T) {
	proj := ProjectCost(fixtureCost(), models.Plants, visibility.New(3), false, false)
	if len(proj.Series[0].Values) != 0 {
		t.Errorf("Expected one empty series, got %v", proj.Series[0].Values)
	}
	if proj.Axes[0].Show {
		t.Error("Expected hidden axis")
	}
	if len(proj.VisibleSeries()) != 0 {
		t.Error("Expected no visible series")
	}
}

func TestAnnualScenario2026(t *testing.T) {
	store := dataset.NewStore(models.Plants, dataset.NewRandomSource(2026), logger.Discard())
	ds, err := store.Annual(context.Background(), period.Annual(2026))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	vis := visibility.New(len(models.Plants))

	proj := ProjectProduction(ds, models.Plants, vis, false)
	if len(proj.Series) != 3 {
		t.Fatalf("Expected 3 series, got %d", len(proj.Series))
	}
	for _, s := range proj.Series {
		if s.Type != Bar {
			t.Errorf("Expected only bars, got %s", s.Type)
		}
	}
	if proj.Categories[11] != "Dec" {
		t.Errorf("Expected month categories, got %v", proj.Categories)
	}

	if err := vis.Toggle(visibility.Production, 1); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	proj = ProjectProduction(ds, models.Plants, vis, true)
	if len(proj.Series) != 4 {
		t.Fatalf("Expected 4 series, got %d", len(proj.Series))
	}
	hidden := 0
	for _, s := range proj.Series[:3] {
		if s.Hidden {
			hidden++
		}
	}
	if hidden != 1 || !proj.Series[1].Hidden {
		t.Errorf("Expected exactly plating hidden, got %d hidden", hidden)
	}

	line := proj.Series[3]
	for m := 0; m < 12; m++ {
		want := ds.Prior[0].Values[m] + ds.Prior[2].Values[m]
		if line.Values[m] != want {
			t.Errorf("Month %d: expected %v, got %v", m, want, line.Values[m])
		}
	}
}
