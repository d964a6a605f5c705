package dataset

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"plantdash/internal/models"
	"plantdash/internal/period"
)

// Kind identifies which measurement a series carries
type Kind string

const (
	ProductionDaily   Kind = "production-daily"
	ProductionMonthly Kind = "production-monthly"
	CostPerUnit       Kind = "cost"
	Consumption       Kind = "consumption"
)

// Range is the inclusive value domain of a kind
type Range struct {
	Min      float64
	Max      float64
	Integer  bool // uniform integers instead of 2-decimal reals
	Decimals int32
}

// Ranges lists the generation domain per kind
var Ranges = map[Kind]Range{
	ProductionDaily:   {Min: 2000, Max: 5000, Integer: true},
	ProductionMonthly: {Min: 60000, Max: 150000, Integer: true},
	CostPerUnit:       {Min: 1.00, Max: 4.00, Decimals: 2},
	Consumption:       {Min: 0.5, Max: 2.5, Decimals: 2},
}

// Request asks a source for one plant series
type Request struct {
	Kind   Kind
	Plant  models.Plant
	Period period.Period // the period the values belong to (prior-year requests carry the prior year)
	Points int
}

// Source produces raw series. The random generator is the default; any real data
// source can replace it without changing the cache contract.
type Source interface {
	Series(ctx context.Context, req Request) ([]float64, error)
}

// RandomSource draws uniform values in the kind's range
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a random source. A zero seed seeds from the clock.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Series implements Source
func (s *RandomSource) Series(ctx context.Context, req Request) ([]float64, error) {
	r, ok := Ranges[req.Kind]
	if !ok {
		return nil, &UnknownKindError{Kind: req.Kind}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]float64, req.Points)
	for i := range values {
		if r.Integer {
			lo, hi := int(r.Min), int(r.Max)
			values[i] = float64(lo + s.rng.IntN(hi-lo+1))
			continue
		}
		raw := r.Min + s.rng.Float64()*(r.Max-r.Min)
		values[i] = round(raw, r.Decimals)
	}
	return values, nil
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
