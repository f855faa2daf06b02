// Package report renders a reconciliation report as an xlsx workbook:
// a payments sheet with one status-colored row per unit, and a summary
// sheet with per-status counts and totals.
package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
)

const dateFormat = "2006-01-02"

// statusFills colors the status cell per outcome.
var statusFills = map[payment.Status]string{
	payment.StatusReceived: "90EE90",
	payment.StatusOverdue:  "FF9999",
	payment.StatusPending:  "FFFF99",
	payment.StatusNotDue:   "D3D3D3",
	payment.StatusUnclear:  "FFC966",
}

// ExcelWriter renders reports with localized headers and labels.
type ExcelWriter struct {
	msgs   *i18n.Catalog
	logger *slog.Logger
}

// NewExcelWriter creates a writer.
func NewExcelWriter(msgs *i18n.Catalog, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{msgs: msgs, logger: logger}
}

// Write renders the report to a file at path.
func (w *ExcelWriter) Write(rep *reconcile.Report, path string) error {
	f, err := w.build(rep)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	w.logger.Info("report written", slog.String("path", path))
	return nil
}

// WriteTo streams the rendered workbook, e.g. as an HTTP attachment.
func (w *ExcelWriter) WriteTo(rep *reconcile.Report, dst io.Writer) error {
	f, err := w.build(rep)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.Write(dst); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (w *ExcelWriter) build(rep *reconcile.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	payments := w.msgs.Get("report.sheet.payments")
	f.SetSheetName("Sheet1", payments)
	if err := w.writePayments(f, payments, rep); err != nil {
		return nil, err
	}

	summary := w.msgs.Get("report.sheet.summary")
	if _, err := f.NewSheet(summary); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := w.writeSummary(f, summary, rep); err != nil {
		return nil, err
	}
	return f, nil
}

func (w *ExcelWriter) writePayments(f *excelize.File, sheet string, rep *reconcile.Report) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	meta := func(label, value string) {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, labelCell, label)
		_ = f.SetCellValue(sheet, valueCell, value)
		_ = f.SetCellStyle(sheet, labelCell, labelCell, bold)
		row++
	}
	meta(w.msgs.Get("report.meta.generated"), rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	meta(w.msgs.Get("report.meta.analysis_date"), rep.AnalysisDate.Format(dateFormat))
	meta(w.msgs.Get("report.meta.target_month"), rep.TargetMonth.Format("2006-01"))
	if rep.Period != nil {
		meta(w.msgs.Get("report.meta.period"), rep.Period.SourceText)
	}
	row++ // blank separator

	headers := []string{
		w.msgs.Get("report.header.unit"),
		w.msgs.Get("report.header.expected_amount"),
		w.msgs.Get("report.header.expected_date"),
		w.msgs.Get("report.header.actual_amount"),
		w.msgs.Get("report.header.actual_date"),
		w.msgs.Get("report.header.status"),
		w.msgs.Get("report.header.days_overdue"),
		w.msgs.Get("report.header.notes"),
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, bold)
	}
	row++

	fills := make(map[payment.Status]int, len(statusFills))
	for st, color := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		fills[st] = id
	}

	for _, p := range rep.Payments {
		values := []interface{}{
			p.UnitID,
			p.ExpectedAmount.InexactFloat64(),
			p.ExpectedDate.Format(dateFormat),
			nil,
			nil,
			w.msgs.Get("status." + string(p.Status)),
			p.DaysOverdue,
			p.Notes,
		}
		if p.ActualAmount != nil {
			values[3] = p.ActualAmount.InexactFloat64()
		}
		if p.ActualDate != nil {
			values[4] = p.ActualDate.Format(dateFormat)
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		if style, ok := fills[p.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(6, row)
			_ = f.SetCellStyle(sheet, cell, cell, style)
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "E", 16)
	_ = f.SetColWidth(sheet, "F", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 14)
	_ = f.SetColWidth(sheet, "H", "H", 50)
	return nil
}

func (w *ExcelWriter) writeSummary(f *excelize.File, sheet string, rep *reconcile.Report) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	s := rep.Summary
	lines := []struct {
		key   string
		value interface{}
	}{
		{"summary.total_units", s.TotalUnits},
		{"summary.received", s.ReceivedCount},
		{"summary.overdue", s.OverdueCount},
		{"summary.pending", s.PendingCount},
		{"summary.not_due", s.NotDueCount},
		{"summary.unclear", s.UnclearCount},
		{"summary.total_expected", s.TotalExpected.InexactFloat64()},
		{"summary.total_received", s.TotalReceived.InexactFloat64()},
		{"summary.collection_rate", fmt.Sprintf("%.1f%%", s.CollectionRate())},
	}
	row := 1
	for _, line := range lines {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, labelCell, w.msgs.Get(line.key))
		_ = f.SetCellValue(sheet, valueCell, line.value)
		_ = f.SetCellStyle(sheet, labelCell, labelCell, bold)
		row++
	}

	if len(rep.Warnings) > 0 {
		row++
		for _, warning := range rep.Warnings {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			_ = f.SetCellValue(sheet, cell, warning)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	return nil
}
