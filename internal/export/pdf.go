package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-pdf/fpdf"

	"plantdash/internal/charts"
	"plantdash/internal/dashboard"
	"plantdash/internal/logger"
	"plantdash/internal/projector"
	"plantdash/internal/summary"
)

const (
	margin     = 10.0
	chartTop   = 40.0
	summaryMax = 160.0

	productionTitle = "Daily FG Production Overview"
	costTitle       = "Electricity Cost Analysis"
	placeholder     = "Error generating chart image."
)

// errEmptyImage marks a capture that returned no bytes
var errEmptyImage = errors.New("chart capture returned an empty image")

type pdfWriter struct {
	doc      *fpdf.Fpdf
	capturer charts.Capturer
	log      *logger.Logger
	footer   string
	pageW    float64
	pageH    float64
	errs     []error
}

// PDF renders an A4 landscape report of the snapshot: production chart with the
// monthly summary on page one and the cost chart on page two. Charts are captured
// one at a time in page order; a failed capture degrades only its page.
func PDF(ctx context.Context, snap dashboard.Snapshot, capturer charts.Capturer, generated time.Time) (Document, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(fmt.Sprintf("Dashboard %s", snap.Label), true)

	w, h := doc.GetPageSize()
	pw := &pdfWriter{
		doc:      doc,
		capturer: capturer,
		log:      logger.Component("export"),
		footer:   fmt.Sprintf("Data Period: %s | Downloaded: %s", snap.Label, generated.Format("02/01/2006 15:04:05")),
		pageW:    w,
		pageH:    h,
	}

	// Page 1: production
	pw.header(productionTitle, fmt.Sprintf("Finished Goods Output by Plant - %s", snap.Label))
	if snap.NoData || snap.Production == nil {
		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(100, 100, 100)
		doc.Text(margin, chartTop+10, fmt.Sprintf("No data available for %s.", snap.Label))
	} else {
		y := pw.chart(ctx, "production", productionTitle, *snap.Production)
		pw.summary(snap.Summary, y)
	}
	pw.pageFooter(1)

	// Page 2: electricity cost
	doc.AddPage()
	pw.header(costTitle, fmt.Sprintf("Annual Metrics - Year %d", snap.CostYear))
	pw.chart(ctx, "cost", costTitle, snap.Cost)
	pw.pageFooter(2)

	if ctx.Err() != nil {
		return Document{}, ctx.Err()
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("failed to write PDF: %w", err)
	}

	return Document{
		Filename:    Filename(snap.Period, generated, "pdf"),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		ChartErrors: pw.errs,
	}, nil
}

func (pw *pdfWriter) header(title, subtitle string) {
	if pw.doc.PageNo() == 0 {
		pw.doc.AddPage()
	}
	pw.doc.SetFont("Helvetica", "B", 18)
	pw.doc.SetTextColor(15, 23, 42)
	pw.doc.Text(margin, margin+10, title)

	pw.doc.SetFont("Helvetica", "", 12)
	pw.doc.SetTextColor(100, 100, 100)
	pw.doc.Text(margin, margin+18, subtitle)
}

// chart captures and places one chart image scaled to the page width.
// It returns the y position below the chart.
func (pw *pdfWriter) chart(ctx context.Context, name, title string, proj projector.Projection) float64 {
	img, err := pw.capturer.Capture(ctx, title, proj)
	if err == nil && len(img) == 0 {
		err = errEmptyImage
	}
	var cfgW, cfgH int
	if err == nil {
		cfg, decodeErr := png.DecodeConfig(bytes.NewReader(img))
		if decodeErr != nil {
			err = fmt.Errorf("invalid chart image: %w", decodeErr)
		} else {
			cfgW, cfgH = cfg.Width, cfg.Height
		}
	}
	if err != nil {
		pw.errs = append(pw.errs, fmt.Errorf("%s chart: %w", name, err))
		pw.log.Warn("chart image unavailable, drawing placeholder", logger.Fields{"chart": name, "error": err.Error()})
		pw.doc.SetFont("Helvetica", "", 12)
		pw.doc.SetTextColor(220, 38, 38)
		pw.doc.Text(margin, chartTop+20, placeholder)
		return chartTop + 30
	}

	width := pw.pageW - 2*margin
	height := width * float64(cfgH) / float64(cfgW)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pw.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	pw.doc.ImageOptions(name, margin, chartTop, width, height, false, opts, 0, "")
	return chartTop + height + 10
}

func (pw *pdfWriter) summary(s summary.Summary, y float64) {
	if y > summaryMax {
		y = summaryMax
	}
	pw.doc.SetFont("Helvetica", "", 14)
	pw.doc.SetTextColor(0, 0, 0)
	pw.doc.Text(margin, y, "Monthly Summary")

	y += 10
	x := margin
	for _, p := range s.Plants {
		pw.cell(x, y, p.Name+" Total", summary.FormatNumber(p.Total), false)
		x += 50
	}
	pw.cell(x, y, "Grand Total", summary.FormatNumber(s.GrandTotal), true)
}

func (pw *pdfWriter) cell(x, y float64, label, value string, highlight bool) {
	pw.doc.SetFont("Helvetica", "", 10)
	pw.doc.SetTextColor(100, 100, 100)
	pw.doc.Text(x, y, label)

	pw.doc.SetFont("Helvetica", "B", 10)
	if highlight {
		pw.doc.SetTextColor(220, 38, 38)
	} else {
		pw.doc.SetTextColor(0, 0, 0)
	}
	pw.doc.Text(x, y+6, value)
}

func (pw *pdfWriter) pageFooter(page int) {
	pw.doc.SetFont("Helvetica", "", 8)
	pw.doc.SetTextColor(150, 150, 150)
	pw.doc.Text(margin, pw.pageH-margin, fmt.Sprintf("%s | Page %d", pw.footer, page))
}
