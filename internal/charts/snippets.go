package charts

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"plantdash/internal/projector"
)

// EChartsCDN is loaded once by the page embedding the snippets
const EChartsCDN = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// ChartSnippet represents an embeddable go-echarts chart fragment.
// Div contains the chart's root element, Script the block that initializes it,
// and HTML both wrapped in a titled container.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// Snippet renders a projection as a stacked bar chart with any line series
// overlaid. Hidden series start deselected in the legend and legend-suppressed
// series are left out of the legend entirely.
func Snippet(id, title string, proj projector.Projection) (ChartSnippet, error) {
	if len(proj.Axes) == 0 {
		return ChartSnippet{}, fmt.Errorf("chart %s has no axes", id)
	}

	legend := make([]string, 0, len(proj.Series))
	selected := make(map[string]bool, len(proj.Series))
	for _, s := range proj.Series {
		if s.Name == "" {
			continue
		}
		if s.ShowInLegend {
			legend = append(legend, s.Name)
		}
		selected[s.Name] = !s.Hidden
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   "100%",
			Height:  "380px",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:     opts.Bool(len(legend) > 0),
			Data:     legend,
			Selected: selected,
			Bottom:   "0",
		}),
		charts.WithYAxisOpts(yAxis(proj.Axes[0])),
	)
	bar.SetXAxis(proj.Categories)

	// ECharts places the second y axis on the right
	for _, extra := range proj.Axes[1:] {
		bar.ExtendYAxis(yAxis(extra))
	}

	var lines *charts.Line
	for _, s := range proj.Series {
		switch s.Type {
		case projector.Line:
			if lines == nil {
				lines = charts.NewLine()
				lines.SetXAxis(proj.Categories)
			}
			lines.AddSeries(s.Name, lineData(s.Values),
				charts.WithLineChartOpts(opts.LineChart{YAxisIndex: s.YAxisIndex, Smooth: opts.Bool(true)}),
				charts.WithLineStyleOpts(opts.LineStyle{Width: float32(s.StrokeWidth), Color: s.Color}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
		default:
			bar.AddSeries(s.Name, barData(s.Values),
				charts.WithBarChartOpts(opts.BarChart{Stack: "total", YAxisIndex: s.YAxisIndex}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			)
		}
	}
	if lines != nil {
		bar.Overlap(lines)
	}

	rendered := bar.RenderSnippet()
	div := rendered.Element
	script := rendered.Script

	html := fmt.Sprintf(`<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, title, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: html}, nil
}

func yAxis(a projector.Axis) opts.YAxis {
	y := opts.YAxis{
		Name: a.Title,
		Type: "value",
		Show: opts.Bool(a.Show),
	}
	if a.Decimals > 0 {
		y.AxisLabel = &opts.AxisLabel{
			Formatter: types.FuncStr(opts.FuncOpts(fmt.Sprintf("function (value) { return value.toFixed(%d); }", a.Decimals))),
		}
	}
	return y
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
