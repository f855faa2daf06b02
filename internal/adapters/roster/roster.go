// Package roster reads the rental-unit registry from an xlsx workbook.
//
// Expected columns: unit id, monthly rent, contract start date, and an
// optional explicit billing day. When the billing day column is absent the
// day-of-month of the contract start date is used, which is how the
// registry has always been kept.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/schedule"
)

// ErrParse wraps any roster that cannot be read or holds no valid units.
var ErrParse = errors.New("roster parse error")

// Date layouts the registry has been seen to use.
var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"1/2/06",
	"01-02-06",
}

// Reader reads roster workbooks.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a roster reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Read parses the roster at path. Header rows and malformed rows are
// skipped with a warning; a roster yielding no units at all is an error.
func (r *Reader) Read(path string) ([]payment.Unit, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrParse, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var units []payment.Unit
	for i, row := range rows {
		rowNum := i + 1
		if isEmpty(row) {
			continue
		}
		unit, err := r.parseRow(row)
		if err != nil {
			// The first such row is usually the header; anything after is
			// worth a warning.
			if len(units) == 0 && rowNum <= 2 {
				r.logger.Debug("skipping roster header row", slog.Int("row", rowNum))
			} else {
				r.logger.Warn("skipping roster row", slog.Int("row", rowNum), slog.String("error", err.Error()))
			}
			continue
		}
		units = append(units, unit)
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("%w: %s: no valid unit rows", ErrParse, path)
	}

	r.logger.Info("parsed roster",
		slog.String("file", filepath.Base(path)),
		slog.Int("units", len(units)))
	return units, nil
}

func (r *Reader) parseRow(row []string) (payment.Unit, error) {
	if len(row) < 3 {
		return payment.Unit{}, fmt.Errorf("need at least 3 columns, got %d", len(row))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return payment.Unit{}, fmt.Errorf("unit id %q: %w", row[0], err)
	}

	amount, err := parseAmount(row[1])
	if err != nil {
		return payment.Unit{}, fmt.Errorf("monthly amount %q: %w", row[1], err)
	}

	start, err := parseDate(row[2])
	if err != nil {
		return payment.Unit{}, fmt.Errorf("contract start %q: %w", row[2], err)
	}

	billingDay := schedule.BillingDayFromStart(start)
	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		billingDay, err = strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return payment.Unit{}, fmt.Errorf("billing day %q: %w", row[3], err)
		}
	}

	return payment.NewUnit(id, amount, start, billingDay)
}

func parseAmount(cell string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(strings.TrimSpace(cell))
	return decimal.NewFromString(cleaned)
}

func parseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, cell); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func isEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
