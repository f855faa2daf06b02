// Package period extracts a bank-declared reporting interval from raw
// statement text.
//
// Each bank phrases the interval differently, so patterns are registered
// per source format. The stock extractor knows the Sberbank phrasing
// "Итого по операциям с DD.MM.YYYY по DD.MM.YYYY". A missing period is not
// an error: callers fall back to an explicitly supplied analysis date.
package period

import (
	"regexp"
	"time"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// FormatSberbank identifies the built-in Sberbank statement pattern.
const FormatSberbank = "sberbank"

const dateLayout = "02.01.2006"

var sberbankPattern = regexp.MustCompile(`(?i)итого\s+по\s+операциям\s+с\s+(\d{2}\.\d{2}\.\d{4})\s+по\s+(\d{2}\.\d{2}\.\d{4})`)

// Extractor scans statement text with a registered set of per-format
// patterns. Each pattern must capture exactly two DD.MM.YYYY dates.
type Extractor struct {
	order    []string
	patterns map[string]*regexp.Regexp
}

// NewExtractor returns an extractor with the built-in formats registered.
func NewExtractor() *Extractor {
	e := &Extractor{patterns: make(map[string]*regexp.Regexp)}
	e.Register(FormatSberbank, sberbankPattern)
	return e
}

// Register adds or replaces the pattern for a source format. Additional bank
// formats plug in here without touching the matcher or status logic.
func (e *Extractor) Register(format string, pattern *regexp.Regexp) {
	if _, exists := e.patterns[format]; !exists {
		e.order = append(e.order, format)
	}
	e.patterns[format] = pattern
}

// Extract scans the text with every registered format in registration order
// and returns the first period found. The second return is false when no
// pattern matches or the captured dates do not parse.
func (e *Extractor) Extract(rawText string) (payment.Period, bool) {
	for _, format := range e.order {
		if p, ok := e.ExtractFormat(format, rawText); ok {
			return p, true
		}
	}
	return payment.Period{}, false
}

// ExtractFormat scans the text with a single format's pattern.
func (e *Extractor) ExtractFormat(format, rawText string) (payment.Period, bool) {
	pattern, ok := e.patterns[format]
	if !ok {
		return payment.Period{}, false
	}
	m := pattern.FindStringSubmatch(rawText)
	if len(m) < 3 {
		return payment.Period{}, false
	}
	start, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return payment.Period{}, false
	}
	end, err := time.Parse(dateLayout, m[2])
	if err != nil {
		return payment.Period{}, false
	}
	return payment.NewPeriod(start, end, m[0]), true
}
