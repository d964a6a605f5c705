package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"plantdash/internal/charts"
	"plantdash/internal/dashboard"
	"plantdash/internal/logger"
	"plantdash/internal/projector"
	"plantdash/internal/visibility"
)

// HTMLBuilder renders the dashboard page
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
	log            *logger.Logger
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	// Configure goldmark with extensions
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		goldmark:       md,
		log:            logger.Component("reports"),
	}
}

// ChartBlock is one chart on the page plus the legend wiring it needs
type ChartBlock struct {
	Snippet charts.ChartSnippet
	Group   visibility.Group
	// SeriesJSON lists series names in projection order so legend clicks map to indices
	SeriesJSON template.JS
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Label       string
	PeriodValue string
	CostYear    int
	GeneratedAt string
	Version     string
	EChartsCDN  string
	CSS         template.CSS

	NoData     bool
	Production *ChartBlock
	Cost       ChartBlock
	Summary    template.HTML

	State dashboard.ViewState

	Detail        *ChartBlock
	DetailLabel   string
	DetailNoData  bool
	DetailSummary template.HTML
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildDashboardHTML renders the full page for a snapshot and its detail view
func (h *HTMLBuilder) BuildDashboardHTML(snap dashboard.Snapshot, detail dashboard.DetailSnapshot, version string, now time.Time) (string, error) {
	css, err := h.templateLoader.LoadCSSStyles()
	if err != nil {
		return "", fmt.Errorf("failed to load CSS: %w", err)
	}

	data := TemplateData{
		Label:       snap.Label,
		PeriodValue: snap.Period.String(),
		CostYear:    snap.CostYear,
		GeneratedAt: now.UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:     version,
		EChartsCDN:  charts.EChartsCDN,
		CSS:         template.CSS(css),
		NoData:      snap.NoData,
		State:       snap.State,
		DetailLabel: detail.Label,
	}

	if snap.Production != nil {
		block, err := chartBlock("chart-production", "Daily FG Production", visibility.Production, *snap.Production)
		if err != nil {
			return "", err
		}
		data.Production = &block
	}

	data.Cost, err = chartBlock("chart-cost", fmt.Sprintf("Electricity Cost %d", snap.CostYear), visibility.Cost, snap.Cost)
	if err != nil {
		return "", err
	}

	summaryHTML, err := h.ConvertMarkdownToHTML(snap.Summary.Markdown("Monthly Summary"))
	if err != nil {
		return "", err
	}
	data.Summary = template.HTML(summaryHTML)

	data.DetailNoData = detail.NoData
	if detail.Production != nil {
		block, err := chartBlock("chart-detail", fmt.Sprintf("Annual Production %s", detail.Label), visibility.Production, *detail.Production)
		if err != nil {
			return "", err
		}
		data.Detail = &block
	}
	detailHTML, err := h.ConvertMarkdownToHTML(detail.Summary.Markdown("Annual Summary"))
	if err != nil {
		return "", err
	}
	data.DetailSummary = template.HTML(detailHTML)

	page, err := h.executeTemplate(data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	h.log.Debug("dashboard page built", logger.Fields{"period": data.PeriodValue, "bytes": len(page)})
	return page, nil
}

func chartBlock(id, title string, group visibility.Group, proj projector.Projection) (ChartBlock, error) {
	snippet, err := charts.Snippet(id, title, proj)
	if err != nil {
		return ChartBlock{}, fmt.Errorf("failed to build %s: %w", id, err)
	}
	names := make([]string, len(proj.Series))
	for i, s := range proj.Series {
		names[i] = s.Name
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return ChartBlock{}, err
	}
	return ChartBlock{Snippet: snippet, Group: group, SeriesJSON: template.JS(raw)}, nil
}

// executeTemplate executes the HTML template with the provided data
func (h *HTMLBuilder) executeTemplate(data TemplateData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
