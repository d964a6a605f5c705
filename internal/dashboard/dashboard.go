// Package dashboard holds the session context: view state, visibility vectors and
// the collaborators every interaction goes through. A Dashboard is not safe for
// concurrent use; callers serialize access.
package dashboard

import (
	"context"
	"fmt"

	"plantdash/internal/logger"
	"plantdash/internal/models"
	"plantdash/internal/period"
	"plantdash/internal/preferences"
	"plantdash/internal/projector"
	"plantdash/internal/summary"
	"plantdash/internal/visibility"
)

// DataStore supplies memoized datasets
type DataStore interface {
	Daily(ctx context.Context, p period.Period) (models.Dataset, error)
	Annual(ctx context.Context, p period.Period) (models.Dataset, error)
	Cost(ctx context.Context, year int) (models.CostDataset, error)
}

// PrefStore loads and saves persisted display settings
type PrefStore interface {
	Load(ctx context.Context) preferences.Prefs
	Save(ctx context.Context, prefs preferences.Prefs) error
}

// ViewState is the mutable session state. It holds selectors and flags, never data.
type ViewState struct {
	Current          period.Period `json:"current"`
	ShowComparison   bool          `json:"showComparison"`
	DetailComparison bool          `json:"detailComparison"`
	ShowCost         bool          `json:"showCost"`
	ShowKW           bool          `json:"showKW"`
}

// Dashboard is the explicit context object threaded through every operation
type Dashboard struct {
	plants  []models.Plant
	data    DataStore
	prefs   PrefStore
	horizon period.Horizon
	log     *logger.Logger

	state ViewState
	vis   *visibility.State
}

var _ visibility.LegendHandler = (*Dashboard)(nil)

// New creates a dashboard positioned on start with default flags.
// Call Load to overlay persisted preferences.
func New(plants []models.Plant, data DataStore, prefs PrefStore, horizon period.Horizon, start period.Period, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.Component("dashboard")
	}
	if start.IsAnnual() {
		start.Month = 1
	}
	return &Dashboard{
		plants:  plants,
		data:    data,
		prefs:   prefs,
		horizon: horizon,
		log:     log,
		state: ViewState{
			Current:  start,
			ShowCost: true,
			ShowKW:   true,
		},
		vis: visibility.New(len(plants)),
	}
}

// Load overlays persisted preferences on the current state
func (d *Dashboard) Load(ctx context.Context) {
	p := d.prefs.Load(ctx)
	d.state.ShowComparison = p.ShowComparison
	if err := d.vis.Set(visibility.Production, p.VisiblePlants); err != nil {
		d.log.Warn("ignoring stored production visibility", logger.Fields{"error": err.Error()})
	}
	if err := d.vis.Set(visibility.Cost, p.VisibleCostPlants); err != nil {
		d.log.Warn("ignoring stored cost visibility", logger.Fields{"error": err.Error()})
	}
	d.log.Info("preferences loaded", logger.Fields{
		"show_comparison": p.ShowComparison,
		"visible":         d.vis.VisibleCount(visibility.Production),
		"visible_cost":    d.vis.VisibleCount(visibility.Cost),
	})
}

// Plants returns the catalog
func (d *Dashboard) Plants() []models.Plant {
	return d.plants
}

// Horizon returns the data horizon
func (d *Dashboard) Horizon() period.Horizon {
	return d.horizon
}

// State returns a copy of the view state
func (d *Dashboard) State() ViewState {
	return d.state
}

// Visible returns a copy of a group's visibility vector
func (d *Dashboard) Visible(group visibility.Group) []bool {
	return d.vis.Vector(group)
}

// SelectPeriod moves the main chart to a month
func (d *Dashboard) SelectPeriod(p period.Period) error {
	if p.IsAnnual() || !p.Valid() {
		return fmt.Errorf("%w: main chart needs a month, got %s", period.ErrInvalidPeriod, p)
	}
	d.state.Current = p
	return nil
}

// SelectFromPicker applies a picker value. Invalid input is ignored and the
// current period stays active. A bare year selects its January.
func (d *Dashboard) SelectFromPicker(value string) bool {
	p, err := period.Parse(value)
	if err != nil {
		d.log.Debug("ignoring picker value", logger.Fields{"value": value, "error": err.Error()})
		return false
	}
	if p.IsAnnual() {
		p.Month = 1
	}
	d.state.Current = p
	return true
}

// Prev steps the main chart one month back. It stops at the first
// representable month.
func (d *Dashboard) Prev() {
	if p := d.state.Current.Prev(); p.Valid() {
		d.state.Current = p
	}
}

// Next steps the main chart one month forward. It stops at the last
// representable month.
func (d *Dashboard) Next() {
	if p := d.state.Current.Next(); p.Valid() {
		d.state.Current = p
	}
}

// SetComparison switches the main chart's prior-year overlay and persists it
func (d *Dashboard) SetComparison(ctx context.Context, enabled bool) {
	d.state.ShowComparison = enabled
	d.save(ctx)
}

// SetDetailComparison switches the detail chart's overlay. It is never persisted.
func (d *Dashboard) SetDetailComparison(enabled bool) {
	d.state.DetailComparison = enabled
}

// SetCostView sets the cost chart toggles
func (d *Dashboard) SetCostView(showCost, showKW bool) {
	d.state.ShowCost = showCost
	d.state.ShowKW = showKW
}

// OnToggle handles a legend click. Plant series toggle their visibility bit and
// persist; the caller re-projects so the renderer must not toggle on its own.
// Clicks on other series (comparison line, kW lines) are left to the renderer.
func (d *Dashboard) OnToggle(ctx context.Context, group visibility.Group, seriesIndex int) (bool, error) {
	if seriesIndex >= len(d.plants) {
		return false, nil
	}
	if err := d.vis.Toggle(group, seriesIndex); err != nil {
		return false, err
	}
	d.save(ctx)
	return true, nil
}

func (d *Dashboard) save(ctx context.Context) {
	prefs := preferences.Prefs{
		ShowComparison:    d.state.ShowComparison,
		VisiblePlants:     d.vis.Vector(visibility.Production),
		VisibleCostPlants: d.vis.Vector(visibility.Cost),
	}
	if err := d.prefs.Save(ctx, prefs); err != nil {
		d.log.Error("failed to persist preferences", err)
	}
}

// Snapshot is everything rendered for the current state
type Snapshot struct {
	Period     period.Period               `json:"period"`
	Label      string                      `json:"label"`
	NoData     bool                        `json:"noData"`
	Production *projector.Projection       `json:"production,omitempty"`
	Summary    summary.Summary             `json:"summary"`
	CostYear   int                         `json:"costYear"`
	Cost       projector.Projection        `json:"cost"`
	State      ViewState                   `json:"state"`
	Visibility map[visibility.Group][]bool `json:"visibility"`
}

// Snapshot projects the main and cost charts for the current state. Past the data
// horizon the main chart is replaced by a no-data marker and the summary is empty.
func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	cur := d.state.Current
	snap := Snapshot{
		Period:   cur,
		Label:    cur.Label(),
		CostYear: cur.Year,
		State:    d.state,
		Visibility: map[visibility.Group][]bool{
			visibility.Production: d.vis.Vector(visibility.Production),
			visibility.Cost:       d.vis.Vector(visibility.Cost),
		},
	}

	cds, err := d.data.Cost(ctx, cur.Year)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load cost data for %d: %w", cur.Year, err)
	}
	snap.Cost = projector.ProjectCost(cds, d.plants, d.vis, d.state.ShowCost, d.state.ShowKW)

	if d.horizon.Beyond(cur) {
		snap.NoData = true
		d.log.Debug("period beyond data horizon", logger.Fields{"period": cur.String()})
		return snap, nil
	}

	ds, err := d.data.Daily(ctx, cur)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load production data for %s: %w", cur, err)
	}
	proj := projector.ProjectProduction(ds, d.plants, d.vis, d.state.ShowComparison)
	snap.Production = &proj
	snap.Summary = summary.Summarize(ds.Current, d.plants)
	return snap, nil
}

// DetailSnapshot is the modal's annual production view
type DetailSnapshot struct {
	Period     period.Period         `json:"period"`
	Label      string                `json:"label"`
	NoData     bool                  `json:"noData"`
	Comparison bool                  `json:"comparison"`
	Production *projector.Projection `json:"production,omitempty"`
	Summary    summary.Summary       `json:"summary"`
}

// Detail projects monthly production for the current year, using the detail
// comparison flag and the production visibility vector.
func (d *Dashboard) Detail(ctx context.Context) (DetailSnapshot, error) {
	year := d.state.Current.YearPeriod()
	detail := DetailSnapshot{
		Period:     year,
		Label:      year.Label(),
		Comparison: d.state.DetailComparison,
	}

	if d.horizon.Beyond(year) {
		detail.NoData = true
		return detail, nil
	}

	ds, err := d.data.Annual(ctx, year)
	if err != nil {
		return DetailSnapshot{}, fmt.Errorf("failed to load annual data for %s: %w", year, err)
	}
	proj := projector.ProjectProduction(ds, d.plants, d.vis, d.state.DetailComparison)
	detail.Production = &proj
	detail.Summary = summary.Summarize(ds.Current, d.plants)
	return detail, nil
}
