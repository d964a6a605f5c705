// Package preferences persists the dashboard's display settings.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"plantdash/internal/logger"
	"plantdash/internal/storage"
)

// DefaultKey is the versioned document key
const DefaultKey = "uic_chart_settings_v1"

// Prefs is the persisted document. The detail comparison flag is deliberately absent.
type Prefs struct {
	ShowComparison    bool   `json:"showComparison"`
	VisiblePlants     []bool `json:"visiblePlants"`
	VisibleCostPlants []bool `json:"visibleCostPlants"`
}

// Defaults returns comparison off and every plant visible
func Defaults(plantCount int) Prefs {
	return Prefs{
		ShowComparison:    false,
		VisiblePlants:     allTrue(plantCount),
		VisibleCostPlants: allTrue(plantCount),
	}
}

func allTrue(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Store reads and writes Prefs through a storage client
type Store struct {
	client     storage.StorageClient
	key        string
	plantCount int
	log        *logger.Logger
}

// NewStore creates a preference store for a catalog of plantCount plants
func NewStore(client storage.StorageClient, key string, plantCount int, log *logger.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Component("preferences")
	}
	return &Store{client: client, key: key, plantCount: plantCount, log: log}
}

// Path returns the storage path of the document
func (s *Store) Path() string {
	return storage.PreferencesPath(s.key)
}

// Load returns the persisted preferences overlaid on defaults field by field.
// Missing, unreadable or malformed values keep their default; nothing is returned as an error.
func (s *Store) Load(ctx context.Context) Prefs {
	prefs := Defaults(s.plantCount)

	raw, err := s.client.GetFile(ctx, s.Path())
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("no stored preferences, using defaults", logger.Fields{"path": s.Path()})
		return prefs
	}
	if err != nil {
		s.log.Warn("failed to read preferences, using defaults", logger.Fields{"path": s.Path(), "error": err.Error()})
		return prefs
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.log.Warn("malformed preferences document, using defaults", logger.Fields{"path": s.Path(), "error": err.Error()})
		return prefs
	}

	if v, ok := fields["showComparison"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			s.log.Warn("ignoring preference", logger.Fields{"field": "showComparison", "value": string(v)})
		} else {
			prefs.ShowComparison = b
		}
	}
	if vec, ok := s.vector(fields, "visiblePlants"); ok {
		prefs.VisiblePlants = vec
	}
	if vec, ok := s.vector(fields, "visibleCostPlants"); ok {
		prefs.VisibleCostPlants = vec
	}
	return prefs
}

// vector decodes a boolean array that must match the plant count
func (s *Store) vector(fields map[string]json.RawMessage, name string) ([]bool, bool) {
	v, ok := fields[name]
	if !ok {
		return nil, false
	}
	var vec []bool
	if err := json.Unmarshal(v, &vec); err != nil || len(vec) != s.plantCount {
		s.log.Warn("ignoring preference", logger.Fields{"field": name, "value": string(v)})
		return nil, false
	}
	return vec, true
}

// Save writes the full document
func (s *Store) Save(ctx context.Context, prefs Prefs) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.client.StoreFile(ctx, s.Path(), data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
