package models

import (
	"encoding/json"
	"testing"

	"plantdash/internal/period"
)

func TestPlantCatalog(t *testing.T) {
	if len(Plants) != 3 {
		t.Fatalf("Expected 3 plants in catalog, got %d", len(Plants))
	}

	expectedIDs := []string{"brazing", "plating", "lp"}
	for i, id := range expectedIDs {
		if Plants[i].ID != id {
			t.Errorf("Expected plant %d to be '%s', got '%s'", i, id, Plants[i].ID)
		}
		if Plants[i].Color == "" || Plants[i].Color[0] != '#' {
			t.Errorf("Expected hex color for plant %s, got '%s'", id, Plants[i].Color)
		}
	}
}

func TestPlantByID(t *testing.T) {
	p, ok := PlantByID(Plants, "plating")
	if !ok {
		t.Fatal("Expected to find plant 'plating'")
	}
	if p.Name != "Plating" {
		t.Errorf("Expected name 'Plating', got '%s'", p.Name)
	}

	if _, ok := PlantByID(Plants, "unknown"); ok {
		t.Error("Expected unknown plant lookup to fail")
	}
}

func TestDatasetJSONFields(t *testing.T) {
	ds := Dataset{
		Period:  period.Monthly(2026, 1),
		Length:  2,
		Current: []PlantSeries{{PlantID: "lp", Values: []float64{1, 2}}},
	}

	raw, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("Failed to marshal dataset: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal dataset: %v", err)
	}
	for _, field := range []string{"period", "length", "current", "prior"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("Expected field '%s' in JSON output", field)
		}
	}
}
