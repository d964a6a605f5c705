package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned when a picker value cannot be turned into a period
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a calendar selector: a whole year (Month == 0) or a single month
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// Key is the canonical cache key of a period. It is comparable and safe to use as a map key.
type Key struct {
	year  int
	month int
}

// Annual returns the period covering a whole year
func Annual(year int) Period {
	return Period{Year: year}
}

// Monthly returns the period covering one month of a year
func Monthly(year, month int) Period {
	return Period{Year: year, Month: month}
}

// FromTime returns the monthly period containing t
func FromTime(t time.Time) Period {
	return Monthly(t.Year(), int(t.Month()))
}

// IsAnnual reports whether the period spans a whole year
func (p Period) IsAnnual() bool {
	return p.Month == 0
}

// Valid reports whether the period names a real calendar year or month
func (p Period) Valid() bool {
	if p.Year < 1 || p.Year > 9999 {
		return false
	}
	return p.Month >= 0 && p.Month <= 12
}

// Key returns the cache key for the period
func (p Period) Key() Key {
	return Key{year: p.Year, month: p.Month}
}

// String returns "YYYY" for annual periods and "YYYY-MM" for monthly ones
func (k Key) String() string {
	if k.month == 0 {
		return fmt.Sprintf("%04d", k.year)
	}
	return fmt.Sprintf("%04d-%02d", k.year, k.month)
}

// String returns the canonical encoding of the period
func (p Period) String() string {
	return p.Key().String()
}

// Len returns the number of sub-periods: 12 months, or the days of the month
func (p Period) Len() int {
	if p.IsAnnual() {
		return 12
	}
	return DaysInMonth(p.Year, p.Month)
}

// Start returns midnight UTC on the first day of the period
func (p Period) Start() time.Time {
	month := p.Month
	if month == 0 {
		month = 1
	}
	return time.Date(p.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Prev steps one month back (or one year for annual periods)
func (p Period) Prev() Period {
	if p.IsAnnual() {
		return Annual(p.Year - 1)
	}
	return FromTime(p.Start().AddDate(0, -1, 0))
}

// Next steps one month forward (or one year for annual periods)
func (p Period) Next() Period {
	if p.IsAnnual() {
		return Annual(p.Year + 1)
	}
	return FromTime(p.Start().AddDate(0, 1, 0))
}

// PriorYear returns the same period one year earlier
func (p Period) PriorYear() Period {
	return Period{Year: p.Year - 1, Month: p.Month}
}

// YearPeriod returns the annual period the receiver falls in
func (p Period) YearPeriod() Period {
	return Annual(p.Year)
}

// Label returns a display label such as "January 2026" or "2026"
func (p Period) Label() string {
	if p.IsAnnual() {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// DaysInMonth returns the number of days of a month, honouring leap years
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Parse reads a picker value of the form "YYYY" or "YYYY-MM"
func Parse(value string) (Period, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, "-")
	if len(parts) > 2 || parts[0] == "" {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("%w: year %q", ErrInvalidPeriod, parts[0])
	}

	p := Annual(year)
	if len(parts) == 2 {
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 {
			return Period{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, parts[1])
		}
		p.Month = month
	}

	if !p.Valid() {
		return Period{}, fmt.Errorf("%w: %q out of range", ErrInvalidPeriod, value)
	}
	return p, nil
}
