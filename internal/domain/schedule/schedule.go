// Package schedule computes expected payment dates from contract terms.
package schedule

import (
	"time"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// ExpectedFor returns the single expected payment for a unit in the target
// month. The billing day is clamped to the month's last day, so day 31 in a
// 30-day month becomes day 30 and day 31 in February becomes 28 or 29.
func ExpectedFor(u payment.Unit, targetMonth time.Time) payment.Expected {
	year, month := targetMonth.Year(), targetMonth.Month()
	day := u.BillingDay
	if last := DaysInMonth(targetMonth); day > last {
		day = last
	}
	return payment.Expected{
		UnitID: u.ID,
		Amount: u.MonthlyAmount,
		Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

// MonthStart truncates a date to the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	first := MonthStart(t)
	return first.AddDate(0, 1, -1).Day()
}

// BillingDayFromStart derives the recurring billing day from the contract
// start date, for rosters that do not list the day explicitly.
func BillingDayFromStart(contractStart time.Time) int {
	return contractStart.Day()
}
