package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// Tier names which search tier produced a match.
type Tier string

const (
	// TierNarrow - matched inside the date window around the expected date.
	TierNarrow Tier = "narrow"
	// TierWide - matched by the amount-only fallback over the whole period.
	TierWide Tier = "wide"
)

// Config holds matcher tuning. All three knobs are exposed through
// configuration; the defaults are the contract terms rosters are written
// against.
type Config struct {
	WindowBeforeDays int             // days before the expected date in the narrow window
	GraceDays        int             // days after the expected date in the narrow window
	AmountTolerance  decimal.Decimal // absolute tolerance when comparing amounts
}

// DefaultConfig returns the stock tuning: window 7 days back, 3 days of
// grace, one cent of amount tolerance.
func DefaultConfig() Config {
	return Config{
		WindowBeforeDays: 7,
		GraceDays:        3,
		AmountTolerance:  decimal.NewFromFloat(0.01),
	}
}

// Result is the outcome of matching one expected payment: matched (with the
// tier that found it), unmatched, or ambiguous with the candidate set.
type Result struct {
	Transaction *payment.Transaction  // nil unless matched
	Index       int                   // pool index of the matched transaction, -1 otherwise
	Tier        Tier                  // set when matched
	Candidates  []payment.Transaction // populated when ambiguous
	TiedCount   int                   // wide-tier amount ties, >1 when the earliest-date rule applied
}

// Matched reports whether exactly one transaction was selected.
func (r Result) Matched() bool {
	return r.Transaction != nil
}

// Ambiguous reports whether several candidates fit and none was chosen.
func (r Result) Ambiguous() bool {
	return r.Transaction == nil && len(r.Candidates) > 1
}

func unmatched() Result {
	return Result{Index: -1}
}
