package period

import (
	"fmt"
	"time"
)

// DefaultHorizon is the last day with data in the demo scenario
var DefaultHorizon = Horizon{Last: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)}

// Horizon marks the last date for which data is available
type Horizon struct {
	Last time.Time
}

// ParseHorizon reads a horizon date in YYYY-MM-DD form
func ParseHorizon(value string) (Horizon, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Horizon{}, fmt.Errorf("failed to parse data horizon %q: %w", value, err)
	}
	return Horizon{Last: t}, nil
}

// Beyond reports whether a period starts after the horizon.
// Nothing may be projected for such a period.
func (h Horizon) Beyond(p Period) bool {
	return p.Start().After(h.Last)
}
