package statement

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// FormatSberbank is the Sberbank xlsx export format identifier.
const FormatSberbank = "sberbank"

var (
	datePattern   = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`)
	amountPattern = regexp.MustCompile(`\+\s*(\d[\d\s\x{00a0}]*(?:[.,]\d{1,2})?)`)

	// Incoming transfers carry one of these words in the operation category.
	transferKeywords = []string{"перевод", "сбп", "карту"}
)

// SberbankParser reads Sberbank personal-account statement exports.
//
// The export is loosely structured: the date sits in one of the first
// columns as "DD.MM.YYYY", the operation category nearby, and incoming
// amounts are formatted "+3 500,00". Rows that do not yield a date, a
// positive amount, and a transfer category are skipped.
type SberbankParser struct {
	logger *slog.Logger
}

// NewSberbankParser creates the parser.
func NewSberbankParser(logger *slog.Logger) *SberbankParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &SberbankParser{logger: logger}
}

// Name returns the source-format identifier.
func (p *SberbankParser) Name() string { return FormatSberbank }

// Sniff reports whether the file looks like a Sberbank statement: an xlsx
// workbook whose leading rows carry DD.MM.YYYY dates or "+" amounts.
func (p *SberbankParser) Sniff(path string) bool {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" && ext != ".xlsm" {
		return false
	}
	rows, err := readRows(path)
	if err != nil {
		return false
	}
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for _, row := range rows[:limit] {
		for _, cell := range row {
			if datePattern.MatchString(cell) || amountPattern.MatchString(cell) {
				return true
			}
		}
	}
	return false
}

// Parse reads the statement: every parseable incoming transfer becomes a
// transaction, and all string cells are concatenated into the raw text used
// for period extraction.
func (p *SberbankParser) Parse(path string) (*Parsed, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var (
		txs     []payment.Transaction
		rawText strings.Builder
	)
	for i, row := range rows {
		rowNum := i + 1
		for _, cell := range row {
			if cell != "" {
				rawText.WriteString(cell)
				rawText.WriteString("\n")
			}
		}
		tx, ok := p.parseRow(row, rowNum)
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}

	p.logger.Info("parsed bank statement",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", len(rows)),
		slog.Int("transactions", len(txs)))

	return &Parsed{Transactions: txs, RawText: rawText.String()}, nil
}

func (p *SberbankParser) parseRow(row []string, rowNum int) (payment.Transaction, bool) {
	date, ok := p.extractDate(row)
	if !ok {
		return payment.Transaction{}, false
	}
	amount, ok := p.extractAmount(row)
	if !ok || !amount.IsPositive() {
		return payment.Transaction{}, false
	}
	category, ok := p.extractCategory(row)
	if !ok {
		return payment.Transaction{}, false
	}

	tx, err := payment.NewTransaction(date, amount, category, rowNum)
	if err != nil {
		p.logger.Debug("skipping statement row", slog.Int("row", rowNum), slog.String("error", err.Error()))
		return payment.Transaction{}, false
	}
	return tx, true
}

// extractDate looks for a DD.MM.YYYY date in the first few columns.
func (p *SberbankParser) extractDate(row []string) (time.Time, bool) {
	limit := len(row)
	if limit > 3 {
		limit = 3
	}
	for _, cell := range row[:limit] {
		m := datePattern.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		d, err := time.Parse("02.01.2006", m[1])
		if err != nil {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

// extractAmount looks for a "+1 234,56"-style credit amount in any column.
func (p *SberbankParser) extractAmount(row []string) (decimal.Decimal, bool) {
	for _, cell := range row {
		if !strings.Contains(cell, "+") {
			continue
		}
		m := amountPattern.FindStringSubmatch(cell)
		if m == nil {
			continue
		}
		cleaned := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(m[1])
		amount, err := decimal.NewFromString(cleaned)
		if err != nil {
			continue
		}
		return amount, true
	}
	return decimal.Decimal{}, false
}

// extractCategory returns the first cell carrying a transfer keyword.
func (p *SberbankParser) extractCategory(row []string) (string, bool) {
	for _, cell := range row {
		lower := strings.ToLower(cell)
		for _, kw := range transferKeywords {
			if strings.Contains(lower, kw) {
				return cell, true
			}
		}
	}
	return "", false
}

// readRows opens a workbook and returns the first sheet's formatted rows.
func readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
