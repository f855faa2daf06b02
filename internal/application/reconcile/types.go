package reconcile

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

var (
	// ErrNoUnits is returned when the roster is empty.
	ErrNoUnits = errors.New("no rental units to reconcile")

	// ErrAnalysisDateRequired is returned when no analysis date was supplied
	// and the statement declares no period to derive one from.
	ErrAnalysisDateRequired = errors.New("analysis date required: statement declares no period")

	// ErrTargetMonthRequired is returned when no target month was supplied
	// and the statement declares no period to derive one from. The engine
	// never falls back to the wall clock here: expected dates must be tied
	// to the statement being analyzed, not to when the run happens.
	ErrTargetMonthRequired = errors.New("target month required: statement declares no period")
)

// Input is one run's worth of parsed source data.
type Input struct {
	Units         []payment.Unit
	Transactions  []payment.Transaction
	RawText       string // statement text scanned for the declared period
	RosterName    string // provenance only, shown in the report
	StatementName string
}

// Options control one run. Zero values mean "derive from the statement
// period"; deriving fails when the statement declares none.
type Options struct {
	AnalysisDate time.Time
	TargetMonth  time.Time
}

// Summary aggregates one run's outcomes per status.
type Summary struct {
	TotalUnits    int
	ReceivedCount int
	OverdueCount  int
	PendingCount  int
	NotDueCount   int
	UnclearCount  int
	TotalExpected decimal.Decimal
	TotalReceived decimal.Decimal
}

// CollectionRate is the share of units whose payment was received, in percent.
func (s Summary) CollectionRate() float64 {
	if s.TotalUnits == 0 {
		return 0
	}
	return float64(s.ReceivedCount) / float64(s.TotalUnits) * 100
}

// Report is the complete result of one reconciliation run.
type Report struct {
	GeneratedAt   time.Time
	AnalysisDate  time.Time
	TargetMonth   time.Time
	Period        *payment.Period // nil when the statement declared none
	RosterName    string
	StatementName string
	Payments      []payment.Reconciled // in ascending unit-id order
	Summary       Summary
	Warnings      []string // run-level advisories, e.g. duplicate roster amounts
}
