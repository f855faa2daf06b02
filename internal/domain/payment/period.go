package payment

import (
	"fmt"
	"time"
)

// Period is the reporting interval a bank statement declares about itself.
type Period struct {
	StartDate  time.Time
	EndDate    time.Time
	SourceText string
}

// NewPeriod builds a Period, ordering the bounds if they arrive swapped.
func NewPeriod(start, end time.Time, sourceText string) Period {
	start = MidnightUTC(start)
	end = MidnightUTC(end)
	if start.After(end) {
		start, end = end, start
	}
	return Period{StartDate: start, EndDate: end, SourceText: sourceText}
}

// TargetMonth is the month expected payments are generated for: the first
// day of the period's starting month.
func (p Period) TargetMonth() time.Time {
	return time.Date(p.StartDate.Year(), p.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// RecommendedAnalysisDate is the cutoff to use when the caller supplies none.
func (p Period) RecommendedAnalysisDate() time.Time {
	return p.EndDate
}

// Contains reports whether a date falls inside the period, inclusive.
func (p Period) Contains(d time.Time) bool {
	d = MidnightUTC(d)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Days is the period length in days, inclusive of both bounds.
func (p Period) Days() int {
	return DaysBetween(p.StartDate, p.EndDate) + 1
}

func (p Period) String() string {
	return fmt.Sprintf("period from %s to %s", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
}
