package dataset

import (
	"context"
	"fmt"

	"plantdash/internal/logger"
	"plantdash/internal/models"
	"plantdash/internal/period"
)

// Store owns the three dataset caches: daily production per month, monthly
// production per year and cost/consumption per year. Returned datasets are
// copies; mutating them never reaches the cache.
type Store struct {
	plants []models.Plant
	source Source
	log    *logger.Logger

	daily  *Cache[models.Dataset]
	annual *Cache[models.Dataset]
	cost   *Cache[models.CostDataset]
}

// NewStore creates a store drawing series for plants from source
func NewStore(plants []models.Plant, source Source, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Component("dataset")
	}
	return &Store{
		plants: plants,
		source: source,
		log:    log,
		daily:  NewCache[models.Dataset](),
		annual: NewCache[models.Dataset](),
		cost:   NewCache[models.CostDataset](),
	}
}

// Plants returns the catalog the store generates for
func (s *Store) Plants() []models.Plant {
	return s.plants
}

// Daily returns the daily production dataset of a month
func (s *Store) Daily(ctx context.Context, p period.Period) (models.Dataset, error) {
	if p.IsAnnual() || !p.Valid() {
		return models.Dataset{}, fmt.Errorf("daily dataset for %s: %w", p, ErrGranularity)
	}
	ds, hit, err := s.daily.GetOrCreate(p.Key(), func() (models.Dataset, error) {
		return s.production(ctx, ProductionDaily, p)
	})
	if err != nil {
		return models.Dataset{}, err
	}
	s.trace("daily", p, hit)
	return ds.Clone(), nil
}

// Annual returns the monthly production dataset of a year
func (s *Store) Annual(ctx context.Context, p period.Period) (models.Dataset, error) {
	if !p.IsAnnual() || !p.Valid() {
		return models.Dataset{}, fmt.Errorf("annual dataset for %s: %w", p, ErrGranularity)
	}
	ds, hit, err := s.annual.GetOrCreate(p.Key(), func() (models.Dataset, error) {
		return s.production(ctx, ProductionMonthly, p)
	})
	if err != nil {
		return models.Dataset{}, err
	}
	s.trace("annual", p, hit)
	return ds.Clone(), nil
}

// Cost returns the cost-per-unit and consumption dataset of a year
func (s *Store) Cost(ctx context.Context, year int) (models.CostDataset, error) {
	p := period.Annual(year)
	if !p.Valid() {
		return models.CostDataset{}, fmt.Errorf("cost dataset for %d: %w", year, period.ErrInvalidPeriod)
	}
	cds, hit, err := s.cost.GetOrCreate(p.Key(), func() (models.CostDataset, error) {
		cost, err := s.bundle(ctx, CostPerUnit, p, 12)
		if err != nil {
			return models.CostDataset{}, err
		}
		consumption, err := s.bundle(ctx, Consumption, p, 12)
		if err != nil {
			return models.CostDataset{}, err
		}
		return models.CostDataset{Year: year, Cost: cost, Consumption: consumption}, nil
	})
	if err != nil {
		return models.CostDataset{}, err
	}
	s.trace("cost", p, hit)
	return cds.Clone(), nil
}

// Clear drops every cached dataset so the next access regenerates
func (s *Store) Clear() {
	s.daily.Clear()
	s.annual.Clear()
	s.cost.Clear()
	s.log.Info("dataset caches cleared")
}

func (s *Store) production(ctx context.Context, kind Kind, p period.Period) (models.Dataset, error) {
	length := p.Len()

	current, err := s.bundle(ctx, kind, p, length)
	if err != nil {
		return models.Dataset{}, err
	}
	// The comparison bundle is drawn on its own, never derived from current values
	prior, err := s.bundle(ctx, kind, p.PriorYear(), length)
	if err != nil {
		return models.Dataset{}, err
	}

	return models.Dataset{Period: p, Length: length, Current: current, Prior: prior}, nil
}

func (s *Store) bundle(ctx context.Context, kind Kind, p period.Period, length int) ([]models.PlantSeries, error) {
	out := make([]models.PlantSeries, 0, len(s.plants))
	for _, plant := range s.plants {
		req := Request{Kind: kind, Plant: plant, Period: p, Points: length}
		values, err := s.source.Series(ctx, req)
		if err != nil {
			return nil, &SourceError{Request: req, Err: err}
		}
		if len(values) != length {
			s.log.Warn("source returned series of unexpected length", logger.Fields{
				"kind":     kind,
				"plant":    plant.ID,
				"period":   p.String(),
				"expected": length,
				"got":      len(values),
			})
			values = normalize(values, length)
		}
		out = append(out, models.PlantSeries{PlantID: plant.ID, Values: values})
	}
	return out, nil
}

func (s *Store) trace(cache string, p period.Period, hit bool) {
	s.log.Debug("dataset lookup", logger.Fields{"cache": cache, "period": p.String(), "hit": hit})
}

// normalize truncates or zero-pads values to length
func normalize(values []float64, length int) []float64 {
	out := make([]float64, length)
	copy(out, values)
	return out
}
