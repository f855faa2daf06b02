package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
)

func sampleReport() *reconcile.Report {
	actualAmount := decimal.NewFromInt(3500)
	actualDate := time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)
	return &reconcile.Report{
		GeneratedAt:  time.Date(2025, time.June, 12, 10, 30, 0, 0, time.UTC),
		AnalysisDate: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		TargetMonth:  time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		Payments: []payment.Reconciled{
			{
				UnitID:         1,
				ExpectedAmount: decimal.NewFromInt(3500),
				ExpectedDate:   time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
				Status:         payment.StatusReceived,
				ActualAmount:   &actualAmount,
				ActualDate:     &actualDate,
				DaysOverdue:    -1,
				Notes:          "Payment matched",
			},
			{
				UnitID:         2,
				ExpectedAmount: decimal.NewFromInt(5000),
				ExpectedDate:   time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
				Status:         payment.StatusOverdue,
				DaysOverdue:    28,
				Notes:          "No matching payment found",
			},
		},
		Summary: reconcile.Summary{
			TotalUnits:    2,
			ReceivedCount: 1,
			OverdueCount:  1,
			TotalExpected: decimal.NewFromInt(8500),
			TotalReceived: decimal.NewFromInt(3500),
		},
		Warnings: []string{"Units 1, 2 share the monthly amount 3500"},
	}
}

func newWriter(t *testing.T) *ExcelWriter {
	t.Helper()
	msgs, err := i18n.New("en")
	require.NoError(t, err)
	return NewExcelWriter(msgs, nil)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, newWriter(t).Write(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	assert.ElementsMatch(t, []string{"Payments", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Payments")
	require.NoError(t, err)

	// Meta block, blank separator, header, then one row per unit.
	assert.Equal(t, "Analysis date", rows[1][0])
	assert.Equal(t, "2025-06-12", rows[1][1])
	assert.Equal(t, "2025-05", rows[2][1])

	header := rows[4]
	assert.Equal(t, "Unit", header[0])
	assert.Equal(t, "Status", header[5])

	first := rows[5]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "2025-05-15", first[2])
	assert.Equal(t, "2025-05-14", first[4])
	assert.Equal(t, "Received", first[5])
	assert.Equal(t, "-1", first[6])

	second := rows[6]
	assert.Equal(t, "2", second[0])
	assert.Equal(t, "Overdue", second[5])
	assert.Equal(t, "28", second[6])
}

func TestWrite_SummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, newWriter(t).Write(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)

	labels := make(map[string]string)
	for _, row := range rows {
		if len(row) >= 2 {
			labels[row[0]] = row[1]
		}
	}
	assert.Equal(t, "2", labels["Total units"])
	assert.Equal(t, "1", labels["Received"])
	assert.Equal(t, "1", labels["Overdue"])
	assert.Equal(t, "50.0%", labels["Collection rate"])

	// Warnings occupy their own rows below the totals.
	found := false
	for _, row := range rows {
		if len(row) > 0 && row[0] == "Units 1, 2 share the monthly amount 3500" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWrite_PeriodMetaRow(t *testing.T) {
	rep := sampleReport()
	p := payment.NewPeriod(
		time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		"Итого по операциям с 01.05.2025 по 12.06.2025")
	rep.Period = &p

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, newWriter(t).Write(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	assert.Equal(t, "Statement period", rows[3][0])
	assert.Equal(t, "Итого по операциям с 01.05.2025 по 12.06.2025", rows[3][1])
}

func TestWriteTo_Buffer(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newWriter(t).WriteTo(sampleReport(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	assert.ElementsMatch(t, []string{"Payments", "Summary"}, f.GetSheetList())
}
