package period

import (
	"errors"
	"testing"
	"time"
)

func TestKeyEncoding(t *testing.T) {
	tests := []struct {
		name     string
		period   Period
		expected string
	}{
		{"annual", Annual(2026), "2026"},
		{"monthly padded", Monthly(2026, 1), "2026-01"},
		{"monthly two digits", Monthly(2025, 12), "2025-12"},
		{"early year padded", Annual(999), "0999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Key().String(); got != tt.expected {
				t.Errorf("Expected key '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestKeyEquality(t *testing.T) {
	if Monthly(2026, 3).Key() != Monthly(2026, 3).Key() {
		t.Error("Expected equal periods to produce equal keys")
	}
	if Annual(2026).Key() == Monthly(2026, 1).Key() {
		t.Error("Expected annual and monthly keys not to collide")
	}

	seen := map[Key]Period{}
	for year := 2024; year <= 2027; year++ {
		for month := 0; month <= 12; month++ {
			p := Period{Year: year, Month: month}
			if other, ok := seen[p.Key()]; ok {
				t.Fatalf("Key collision between %v and %v", p, other)
			}
			seen[p.Key()] = p
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, days int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29},
		{2000, 2, 29},
		{1900, 2, 28},
		{2026, 4, 30},
		{2026, 12, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.days {
			t.Errorf("Expected %d days in %d-%02d, got %d", tt.days, tt.year, tt.month, got)
		}
		if got := Monthly(tt.year, tt.month).Len(); got != tt.days {
			t.Errorf("Expected Len() %d for %d-%02d, got %d", tt.days, tt.year, tt.month, got)
		}
	}

	if got := Annual(2024).Len(); got != 12 {
		t.Errorf("Expected annual Len() 12, got %d", got)
	}
}

func TestNavigation(t *testing.T) {
	if got := Monthly(2026, 1).Prev(); got != Monthly(2025, 12) {
		t.Errorf("Expected 2025-12, got %v", got)
	}
	if got := Monthly(2025, 12).Next(); got != Monthly(2026, 1) {
		t.Errorf("Expected 2026-01, got %v", got)
	}
	if got := Annual(2026).Next(); got != Annual(2027) {
		t.Errorf("Expected 2027, got %v", got)
	}
	if got := Monthly(2024, 2).PriorYear(); got != Monthly(2023, 2) {
		t.Errorf("Expected 2023-02, got %v", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Monthly(2026, 1).Label(); got != "January 2026" {
		t.Errorf("Expected 'January 2026', got '%s'", got)
	}
	if got := Annual(2026).Label(); got != "2026" {
		t.Errorf("Expected '2026', got '%s'", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Period
		expectError bool
	}{
		{input: "2026-01", expected: Monthly(2026, 1)},
		{input: " 2025-11 ", expected: Monthly(2025, 11)},
		{input: "2026", expected: Annual(2026)},
		{input: "", expectError: true},
		{input: "abcd-01", expectError: true},
		{input: "2026-xx", expectError: true},
		{input: "2026-13", expectError: true},
		{input: "2026-00", expectError: true},
		{input: "2026-01-05", expectError: true},
		{input: "-01", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error for %q, got period %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("Expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHorizonBeyond(t *testing.T) {
	h := DefaultHorizon

	tests := []struct {
		period   Period
		expected bool
	}{
		{Monthly(2025, 12), false},
		{Monthly(2026, 1), false},
		{Monthly(2026, 2), true},
		{Annual(2026), false},
		{Annual(2027), true},
	}

	for _, tt := range tests {
		if got := h.Beyond(tt.period); got != tt.expected {
			t.Errorf("Beyond(%v): expected %v, got %v", tt.period, tt.expected, got)
		}
	}
}

func TestParseHorizon(t *testing.T) {
	h, err := ParseHorizon("2025-06-30")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !h.Last.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected horizon %v", h.Last)
	}
	if !h.Beyond(Monthly(2025, 7)) {
		t.Error("Expected 2025-07 to be beyond a 2025-06-30 horizon")
	}

	if _, err := ParseHorizon("June 2025"); err == nil {
		t.Error("Expected error for malformed horizon")
	}
}
