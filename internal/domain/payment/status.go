package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies one expected payment as of the analysis date.
// The set is closed; classification is recomputed from scratch every run.
type Status string

const (
	// StatusReceived - a transaction was matched to the expectation.
	StatusReceived Status = "received"
	// StatusOverdue - no match and the grace period has passed.
	StatusOverdue Status = "overdue"
	// StatusPending - no match but still inside the grace period.
	StatusPending Status = "pending"
	// StatusNotDue - the expected date is after the analysis date.
	StatusNotDue Status = "not_due"
	// StatusUnclear - several candidate transactions fit and none was chosen.
	StatusUnclear Status = "unclear"
)

// Reconciled is the principal output record: one per unit per run,
// never mutated after construction.
type Reconciled struct {
	UnitID         int64
	ExpectedAmount decimal.Decimal
	ExpectedDate   time.Time
	Status         Status
	ActualAmount   *decimal.Decimal // nil unless received
	ActualDate     *time.Time       // nil unless received
	DaysOverdue    int              // signed for received: negative means early
	Notes          string
}

// Received reports whether the record carries a matched transaction.
func (r Reconciled) Received() bool {
	return r.Status == StatusReceived
}
