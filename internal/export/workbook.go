package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"plantdash/internal/dashboard"
	"plantdash/internal/projector"
)

const summarySheet = "Summary"

// Workbook writes the snapshot as an XLSX file: a Summary sheet plus one sheet
// per chart listing every series by category, hidden ones included.
func Workbook(snap dashboard.Snapshot, generated time.Time) (Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return Document{}, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Document{}, fmt.Errorf("failed to create style: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", "Data Period")
	f.SetCellValue(summarySheet, "B1", snap.Label)
	f.SetCellValue(summarySheet, "A2", "Downloaded")
	f.SetCellValue(summarySheet, "B2", generated.Format(time.RFC3339))
	f.SetCellStyle(summarySheet, "A1", "A2", bold)

	if snap.NoData || snap.Summary.Empty() {
		f.SetCellValue(summarySheet, "A4", "No data available")
	} else {
		f.SetSheetRow(summarySheet, "A4", &[]interface{}{"Plant", "Total"})
		f.SetCellStyle(summarySheet, "A4", "B4", bold)
		row := 5
		for _, p := range snap.Summary.Plants {
			f.SetSheetRow(summarySheet, cell(1, row), &[]interface{}{p.Name, p.Total})
			row++
		}
		f.SetSheetRow(summarySheet, cell(1, row), &[]interface{}{"Grand Total", snap.Summary.GrandTotal})
		f.SetCellStyle(summarySheet, cell(1, row), cell(2, row), bold)
	}

	if snap.Production != nil {
		if err := seriesSheet(f, "Production", "Day", *snap.Production, 0, bold); err != nil {
			return Document{}, err
		}
	}
	if err := seriesSheet(f, fmt.Sprintf("Cost %d", snap.CostYear), "Month", snap.Cost, 2, bold); err != nil {
		return Document{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return Document{
		Filename:    Filename(snap.Period, generated, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

// seriesSheet writes one column per series with data. Values are rounded to places.
func seriesSheet(f *excelize.File, name, categoryHeader string, proj projector.Projection, places int32, bold int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	header := []interface{}{categoryHeader}
	var columns []projector.Series
	for _, s := range proj.Series {
		if s.Name == "" || len(s.Values) == 0 {
			continue
		}
		label := s.Name
		if s.Hidden {
			label += " (hidden)"
		}
		header = append(header, label)
		columns = append(columns, s)
	}
	f.SetSheetRow(name, "A1", &header)
	f.SetCellStyle(name, "A1", cell(len(header), 1), bold)

	for i, category := range proj.Categories {
		row := []interface{}{category}
		for _, s := range columns {
			v := 0.0
			if i < len(s.Values) {
				v = s.Values[i]
			}
			row = append(row, decimal.NewFromFloat(v).Round(places).InexactFloat64())
		}
		f.SetSheetRow(name, cell(1, i+2), &row)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
