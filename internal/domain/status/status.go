// Package status classifies expected payments and computes days overdue.
//
// Five terminal states exist per reconciled payment; there are no
// transitions, every run computes the state fresh from pure inputs.
package status

import (
	"time"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/matcher"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// Determiner maps a match outcome and the relevant dates to a status.
type Determiner struct {
	graceDays int
}

// NewDeterminer creates a determiner with the given grace period in days.
func NewDeterminer(graceDays int) *Determiner {
	return &Determiner{graceDays: graceDays}
}

// Determine classifies one expected payment.
//
// Evaluation order matters: an ambiguous match always wins over date
// reasoning, and a not-yet-due expectation wins over a received one so that
// a wide-search hit against a future obligation does not report "received"
// before its due date.
func (d *Determiner) Determine(expectedDate, analysisDate time.Time, res matcher.Result) payment.Status {
	expectedDate = payment.MidnightUTC(expectedDate)
	analysisDate = payment.MidnightUTC(analysisDate)

	if res.Ambiguous() {
		return payment.StatusUnclear
	}
	if analysisDate.Before(expectedDate) {
		return payment.StatusNotDue
	}
	if res.Matched() {
		return payment.StatusReceived
	}
	graceEnd := expectedDate.AddDate(0, 0, d.graceDays)
	if !analysisDate.After(graceEnd) {
		return payment.StatusPending
	}
	return payment.StatusOverdue
}

// DaysOverdue computes the signed day count for a status.
//
// For received payments it is actual minus expected: negative means early,
// positive late, and the value is deliberately not clamped at zero. For
// pending and overdue payments it is analysis minus expected, which is
// non-negative by construction of those states. Not-due and unclear
// payments carry no meaningful value and report zero.
func (d *Determiner) DaysOverdue(expectedDate time.Time, actualDate *time.Time, analysisDate time.Time, st payment.Status) int {
	switch st {
	case payment.StatusReceived:
		if actualDate == nil {
			return 0
		}
		return payment.DaysBetween(expectedDate, *actualDate)
	case payment.StatusOverdue, payment.StatusPending:
		return payment.DaysBetween(expectedDate, analysisDate)
	default:
		return 0
	}
}
