package roster

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", axis, cell))
		}
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRead_BasicRoster(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Unit", "Amount", "Contract start", "Billing day"},
		{"1", "3500", "15.01.2024", "15"},
		{"2", "5 000,50", "2024-02-01", ""},
	})

	units, err := NewReader(nil).Read(path)

	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, int64(1), units[0].ID)
	assert.True(t, units[0].MonthlyAmount.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), units[0].ContractStart)
	assert.Equal(t, 15, units[0].BillingDay)

	// No explicit billing day: the contract start's day of month applies.
	assert.Equal(t, int64(2), units[1].ID)
	assert.True(t, units[1].MonthlyAmount.Equal(decimal.RequireFromString("5000.50")))
	assert.Equal(t, 1, units[1].BillingDay)
}

func TestRead_SkipsEmptyAndMalformedRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Unit", "Amount", "Contract start"},
		{"", "", ""},
		{"not-a-number", "3500", "15.01.2024"},
		{"3", "3500", "15.01.2024"},
	})

	units, err := NewReader(nil).Read(path)

	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, int64(3), units[0].ID)
}

func TestRead_NoValidRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Unit", "Amount", "Contract start"},
		{"header", "only", "here"},
	})

	_, err := NewReader(nil).Read(path)

	assert.ErrorIs(t, err, ErrParse)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := NewReader(nil).Read(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestRead_InvalidUnitDataRejected(t *testing.T) {
	// Negative amounts fail unit validation and the row is skipped.
	path := writeWorkbook(t, [][]interface{}{
		{"1", "-3500", "15.01.2024"},
		{"2", "4200", "10.03.2024"},
	})

	units, err := NewReader(nil).Read(path)

	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, int64(2), units[0].ID)
}
