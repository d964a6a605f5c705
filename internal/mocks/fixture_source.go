package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"plantdash/internal/dataset"
	"plantdash/internal/logger"
)

// FixtureSource serves series from JSON fixture files laid out as
// {dir}/{kind}/{period}.json, each holding an object of plant id to values:
//
//	{"brazing": [3120, 2988, ...], "plating": [...], "lp": [...]}
//
// Requests without a fixture go to the fallback source when one is set.
type FixtureSource struct {
	dir      string
	fallback dataset.Source
	log      *logger.Logger
}

// NewFixtureSource creates a fixture source rooted at dir
func NewFixtureSource(dir string, fallback dataset.Source) *FixtureSource {
	return &FixtureSource{
		dir:      dir,
		fallback: fallback,
		log:      logger.Component("mocks"),
	}
}

// Path returns the fixture file consulted for a request
func (m *FixtureSource) Path(req dataset.Request) string {
	return filepath.Join(m.dir, string(req.Kind), req.Period.String()+".json")
}

// Series implements dataset.Source
func (m *FixtureSource) Series(ctx context.Context, req dataset.Request) ([]float64, error) {
	fixture, err := m.load(m.Path(req))
	if errors.Is(err, fs.ErrNotExist) && m.fallback != nil {
		m.log.Debug("no fixture, using fallback", logger.Fields{"kind": string(req.Kind), "period": req.Period.String()})
		return m.fallback.Series(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	values, ok := fixture[req.Plant.ID]
	if !ok {
		if m.fallback != nil {
			return m.fallback.Series(ctx, req)
		}
		return nil, fmt.Errorf("fixture %s has no series for plant %s", m.Path(req), req.Plant.ID)
	}
	if len(values) != req.Points {
		m.log.Warn("fixture length differs from request", logger.Fields{
			"plant":    req.Plant.ID,
			"expected": req.Points,
			"got":      len(values),
		})
	}
	return values, nil
}

// load loads a fixture file and unmarshals it
func (m *FixtureSource) load(filePath string) (map[string][]float64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture %s: %w", filePath, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", filePath, err)
	}

	var data map[string][]float64
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture %s: %w", filePath, err)
	}
	return data, nil
}
