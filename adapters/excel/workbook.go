package excel

import (
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"ivtscope/domain/metrics"
	"ivtscope/domain/report"
	"ivtscope/internal/errors"
)

// Workbook sheet names, in tab order.
const (
	SheetSummary    = "summary"
	SheetSuspicious = "suspicious"
	SheetRawData    = "raw_data"
	SheetDashboard  = "dashboard"
)

// dashboardMaxRow caps how far down the dashboard images are inserted.
const dashboardMaxRow = 40

// WorkbookWriter assembles the analysis workbook: a per-app summary sheet,
// the sampled suspicious rows, the full cleaned table, and a dashboard
// sheet embedding the rendered chart images.
type WorkbookWriter struct {
	chartScale float64
}

// NewWorkbookWriter creates a writer; chartScale scales embedded images.
func NewWorkbookWriter(chartScale float64) *WorkbookWriter {
	if chartScale <= 0 {
		chartScale = 0.8
	}
	return &WorkbookWriter{chartScale: chartScale}
}

// Write saves the workbook to path.
func (w *WorkbookWriter) Write(path string, rep *report.Report, frame metrics.Frame) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	for _, name := range []string{SheetSuspicious, SheetRawData, SheetDashboard} {
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "failed to create %s sheet", name)
		}
	}

	if err := w.writeSummary(f, rep); err != nil {
		return err
	}
	if err := w.writeSuspicious(f, rep, frame.Columns); err != nil {
		return err
	}
	if err := w.writeRawData(f, frame); err != nil {
		return err
	}
	if err := w.writeDashboard(f, rep); err != nil {
		return err
	}

	idx, err := f.GetSheetIndex(SheetSummary)
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}
	return nil
}

// writeSummary emits one row per application group with the correlation
// columns for every candidate metric ("n/a" when absent or undefined).
func (w *WorkbookWriter) writeSummary(f *excelize.File, rep *report.Report) error {
	header := []interface{}{"app", "n_rows", "suspicious_count", "suspicious_ratio"}
	for _, m := range metrics.SpikeMetrics {
		header = append(header, "corr_"+string(m))
	}
	if err := setRow(f, SheetSummary, 1, header); err != nil {
		return err
	}

	for i, entry := range rep.Entries {
		row := []interface{}{
			string(entry.App),
			entry.RowCount,
			entry.SuspiciousCount,
			entry.SuspiciousRatio,
		}
		for _, m := range metrics.SpikeMetrics {
			if r, ok := entry.Correlations[m]; ok && !math.IsNaN(r) {
				row = append(row, r)
			} else {
				row = append(row, "n/a")
			}
		}
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeSuspicious emits the capped suspicious-row samples of every group,
// prefixed with the group identifier, preserving table order.
func (w *WorkbookWriter) writeSuspicious(f *excelize.File, rep *report.Report, columns []string) error {
	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "app")
	for _, c := range columns {
		header = append(header, c)
	}
	if err := setRow(f, SheetSuspicious, 1, header); err != nil {
		return err
	}

	rowIdx := 2
	for _, entry := range rep.Entries {
		for _, suspRow := range entry.TopSuspicious {
			cells := make([]interface{}, 0, len(columns)+1)
			cells = append(cells, string(entry.App))
			for _, c := range columns {
				cells = append(cells, cellValue(suspRow[c]))
			}
			if err := setRow(f, SheetSuspicious, rowIdx, cells); err != nil {
				return err
			}
			rowIdx++
		}
	}
	return nil
}

// writeRawData emits the cleaned table cell-for-cell in original row and
// column order.
func (w *WorkbookWriter) writeRawData(f *excelize.File, frame metrics.Frame) error {
	header := make([]interface{}, len(frame.Columns))
	for i, c := range frame.Columns {
		header[i] = c
	}
	if err := setRow(f, SheetRawData, 1, header); err != nil {
		return err
	}

	for r, row := range frame.Rows {
		cells := make([]interface{}, len(frame.Columns))
		for i, c := range frame.Columns {
			cells[i] = cellValue(row[c])
		}
		if err := setRow(f, SheetRawData, r+2, cells); err != nil {
			return err
		}
	}
	return nil
}

// writeDashboard embeds the chart images down column B, 15 rows apart,
// stopping past row 40. Images are inserted in filename order.
func (w *WorkbookWriter) writeDashboard(f *excelize.File, rep *report.Report) error {
	paths := make([]string, 0, len(rep.Charts))
	for _, c := range rep.Charts {
		paths = append(paths, c.Path)
	}
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})

	y := 1
	for _, path := range paths {
		if y > dashboardMaxRow {
			break
		}
		cell, err := excelize.CoordinatesToCellName(2, y+1)
		if err != nil {
			return errors.Wrap(err, "failed to locate dashboard cell")
		}
		opts := &excelize.GraphicOptions{ScaleX: w.chartScale, ScaleY: w.chartScale}
		if err := f.AddPicture(SheetDashboard, cell, path, opts); err != nil {
			return errors.Wrapf(err, "failed to embed chart %s", path)
		}
		y += 15
	}
	return nil
}

// cellValue maps a typed cell onto the value excelize should store:
// numbers as numbers, timestamps as RFC 3339 text, missing as empty.
func cellValue(v metrics.Value) interface{} {
	switch {
	case v.IsNumeric():
		return v.AsFloat64()
	case v.IsTimestamp():
		return v.AsTime().Format(time.RFC3339)
	case v.IsMissing:
		return ""
	default:
		return v.AsString()
	}
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return errors.Wrap(err, "failed to locate cell")
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return errors.Wrapf(err, "failed to write %s!%s", sheet, cell)
		}
	}
	return nil
}
