// Package visibility tracks which plant series are shown in each chart group.
package visibility

import (
	"context"
	"fmt"
	"strings"
)

// Group identifies a chart whose plant series share one visibility vector
type Group string

const (
	Production Group = "production"
	Cost       Group = "cost"
)

// Groups lists every group in a fixed order
var Groups = []Group{Production, Cost}

// ParseGroup reads a group name as used in URLs and flags
func ParseGroup(value string) (Group, error) {
	switch Group(strings.ToLower(value)) {
	case Production:
		return Production, nil
	case Cost:
		return Cost, nil
	}
	return "", fmt.Errorf("unknown chart group %q", value)
}

// IndexError reports a toggle or overlay outside the plant range
type IndexError struct {
	Group Group
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("visibility index %d out of range [0, %d) for group %s", e.Index, e.Len, e.Group)
}

// LegendHandler receives legend clicks from a chart renderer. It returns true when
// the renderer should not toggle the series itself because the caller re-projects.
type LegendHandler interface {
	OnToggle(ctx context.Context, group Group, seriesIndex int) (suppressDefault bool, err error)
}

// State holds one fixed-size boolean vector per group. All entries start visible.
type State struct {
	size    int
	vectors map[Group][]bool
}

// New creates a state for n plants with everything visible
func New(n int) *State {
	s := &State{size: n, vectors: make(map[Group][]bool, len(Groups))}
	for _, g := range Groups {
		v := make([]bool, n)
		for i := range v {
			v[i] = true
		}
		s.vectors[g] = v
	}
	return s
}

// Len returns the plant count
func (s *State) Len() int {
	return s.size
}

// Visible reports whether series index of group is shown
func (s *State) Visible(group Group, index int) bool {
	v := s.vectors[group]
	if index < 0 || index >= len(v) {
		return false
	}
	return v[index]
}

// Toggle flips one entry
func (s *State) Toggle(group Group, index int) error {
	v, ok := s.vectors[group]
	if !ok {
		return fmt.Errorf("unknown chart group %q", group)
	}
	if index < 0 || index >= len(v) {
		return &IndexError{Group: group, Index: index, Len: len(v)}
	}
	v[index] = !v[index]
	return nil
}

// Set replaces a group's vector. The length must match the plant count.
func (s *State) Set(group Group, values []bool) error {
	v, ok := s.vectors[group]
	if !ok {
		return fmt.Errorf("unknown chart group %q", group)
	}
	if len(values) != len(v) {
		return &IndexError{Group: group, Index: len(values), Len: len(v)}
	}
	copy(v, values)
	return nil
}

// Vector returns a copy of a group's vector
func (s *State) Vector(group Group) []bool {
	v := s.vectors[group]
	out := make([]bool, len(v))
	copy(out, v)
	return out
}

// VisibleCount returns how many plants of group are shown
func (s *State) VisibleCount(group Group) int {
	n := 0
	for _, on := range s.vectors[group] {
		if on {
			n++
		}
	}
	return n
}
