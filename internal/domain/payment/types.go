// Package payment defines the core reconciliation model: rental units,
// bank transactions, statement periods, and reconciled payment records.
//
// All values are immutable once constructed. Amounts are decimal to avoid
// float drift when comparing bank rows against contract rent.
package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidUnit is returned when roster data fails validation.
	ErrInvalidUnit = errors.New("invalid rental unit")

	// ErrInvalidTransaction is returned when statement data fails validation.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// Unit is a rented garage with a recurring monthly obligation.
type Unit struct {
	ID            int64
	MonthlyAmount decimal.Decimal
	ContractStart time.Time
	BillingDay    int // day of month the rent is due, 1-31
}

// NewUnit validates and builds a Unit. The billing day is clamped per-month
// later, at expected-date calculation time, not here.
func NewUnit(id int64, monthlyAmount decimal.Decimal, contractStart time.Time, billingDay int) (Unit, error) {
	if id <= 0 {
		return Unit{}, fmt.Errorf("%w: id must be positive, got %d", ErrInvalidUnit, id)
	}
	if !monthlyAmount.IsPositive() {
		return Unit{}, fmt.Errorf("%w: monthly amount must be positive, got %s", ErrInvalidUnit, monthlyAmount)
	}
	if billingDay < 1 || billingDay > 31 {
		return Unit{}, fmt.Errorf("%w: billing day must be 1-31, got %d", ErrInvalidUnit, billingDay)
	}
	return Unit{
		ID:            id,
		MonthlyAmount: monthlyAmount,
		ContractStart: MidnightUTC(contractStart),
		BillingDay:    billingDay,
	}, nil
}

// Transaction is a single bank statement line.
type Transaction struct {
	Date        time.Time
	Amount      decimal.Decimal // sign preserved as exported by the bank
	Description string
	SourceRow   int // row index in the source statement, for provenance
}

// NewTransaction validates and builds a Transaction.
func NewTransaction(date time.Time, amount decimal.Decimal, description string, sourceRow int) (Transaction, error) {
	if amount.IsZero() {
		return Transaction{}, fmt.Errorf("%w: amount must be non-zero (row %d)", ErrInvalidTransaction, sourceRow)
	}
	return Transaction{
		Date:        MidnightUTC(date),
		Amount:      amount,
		Description: description,
		SourceRow:   sourceRow,
	}, nil
}

// Expected is the payment a unit is contractually due to make in a month.
type Expected struct {
	UnitID int64
	Amount decimal.Decimal
	Date   time.Time
}

// MidnightUTC truncates a timestamp to a calendar date in UTC. The whole
// engine reasons in dates, never in clock times.
func MidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from one date to
// another: positive when to is after from.
func DaysBetween(from, to time.Time) int {
	return int(MidnightUTC(to).Sub(MidnightUTC(from)).Hours() / 24)
}
