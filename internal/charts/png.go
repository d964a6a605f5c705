package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"plantdash/internal/projector"
)

// ErrNothingToRender is returned when a projection has no categories to plot
var ErrNothingToRender = errors.New("projection has no categories to render")

// blank strokes the baseline of a chart with no visible series
var blank = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// Capturer turns a projection into an image
type Capturer interface {
	Capture(ctx context.Context, title string, proj projector.Projection) ([]byte, error)
}

// PNGRenderer draws projections with go-chart. Stacked bars are drawn as
// cumulative filled areas and lines as plain strokes. A projection with every
// series hidden still renders its axes and categories.
type PNGRenderer struct {
	Width  int
	Height int
}

// NewPNGRenderer creates a renderer sized for an A4 landscape page
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: 1100, Height: 420}
}

// Capture implements Capturer
func (r *PNGRenderer) Capture(ctx context.Context, title string, proj projector.Projection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(proj.Categories)
	if n == 0 {
		return nil, ErrNothingToRender
	}
	visible := proj.VisibleSeries()
	xs := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, label := range proj.Categories {
		xs[i] = float64(i + 1)
		ticks[i] = chart.Tick{Value: float64(i + 1), Label: label}
	}

	var (
		series     []chart.Series
		stacked    []chart.Series
		cumulative = make([]float64, n)
		primaryMax float64
		secondMax  float64
	)

	for _, s := range visible {
		color := parseColor(s.Color)
		if s.Type == projector.Bar && s.YAxisIndex == 0 {
			top := make([]float64, n)
			for i := range top {
				if i < len(s.Values) {
					cumulative[i] += s.Values[i]
				}
				top[i] = cumulative[i]
				primaryMax = max(primaryMax, top[i])
			}
			stacked = append(stacked, chart.ContinuousSeries{
				Name: s.Name,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 1,
					FillColor:   color.WithAlpha(200),
				},
				XValues: xs,
				YValues: top,
			})
			continue
		}

		values := make([]float64, n)
		copy(values, s.Values)
		axis := chart.YAxisPrimary
		for _, v := range values {
			if s.YAxisIndex == 1 {
				secondMax = max(secondMax, v)
			} else {
				primaryMax = max(primaryMax, v)
			}
		}
		if s.YAxisIndex == 1 {
			axis = chart.YAxisSecondary
		}
		width := float64(s.StrokeWidth)
		if width == 0 {
			width = 2
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			YAxis:   axis,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: width},
			XValues: xs,
			YValues: values,
		})
	}

	// Tallest stack first so lower stacks paint over it, lines on top
	ordered := make([]chart.Series, 0, len(stacked)+len(series))
	for i := len(stacked) - 1; i >= 0; i-- {
		ordered = append(ordered, stacked[i])
	}
	series = append(ordered, series...)
	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: blank, StrokeWidth: 1},
			XValues: xs,
			YValues: make([]float64, n),
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
			Style: chart.Style{FontSize: 8},
		},
		YAxis:  r.axis(proj.Axes, 0, primaryMax),
		Series: series,
	}
	if secondMax > 0 && len(proj.Axes) > 1 {
		graph.YAxisSecondary = r.axis(proj.Axes, 1, secondMax)
	}
	if len(visible) > 0 {
		graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

func (r *PNGRenderer) axis(axes []projector.Axis, idx int, top float64) chart.YAxis {
	if top <= 0 {
		top = 1
	}
	y := chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		Style: chart.Style{FontSize: 8},
	}
	if idx < len(axes) {
		a := axes[idx]
		y.Name = a.Title
		y.Style.Hidden = !a.Show
		y.ValueFormatter = func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.*f", a.Decimals, f)
			}
			return ""
		}
	}
	return y
}

func parseColor(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
