// Package reconcile runs one reconciliation: for every rental unit it
// generates the expected payment, matches it against the statement's
// transaction pool, classifies the outcome, and assembles the report.
package reconcile

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/matcher"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/period"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/schedule"
	"github.com/dmarkov/garage-rent-tracker/internal/domain/status"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
)

// Engine composes the matcher, status determiner, and period extractor into
// a full run. It holds no per-run state: every Run is a pure function of its
// input and options.
type Engine struct {
	matcher  *matcher.Matcher
	statuses *status.Determiner
	periods  *period.Extractor
	msgs     *i18n.Catalog
	logger   *slog.Logger
}

// New creates an engine. A nil logger disables logging.
func New(cfg matcher.Config, msgs *i18n.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		matcher:  matcher.New(cfg),
		statuses: status.NewDeterminer(cfg.GraceDays),
		periods:  period.NewExtractor(),
		msgs:     msgs,
		logger:   logger,
	}
}

// Periods exposes the period extractor so additional bank formats can be
// registered without touching the matching or status logic.
func (e *Engine) Periods() *period.Extractor {
	return e.periods
}

// Run reconciles every unit against the transaction pool and returns the
// report. It owns the pool for the duration of the run: a transaction
// consumed by one unit is invisible to the units after it.
func (e *Engine) Run(input Input, opts Options) (*Report, error) {
	if len(input.Units) == 0 {
		return nil, ErrNoUnits
	}

	var periodPtr *payment.Period
	if p, ok := e.periods.Extract(input.RawText); ok {
		periodPtr = &p
		e.logger.Info("statement period detected",
			"start", p.StartDate.Format("2006-01-02"),
			"end", p.EndDate.Format("2006-01-02"))
	} else {
		e.logger.Warn("no statement period detected")
	}

	analysisDate, targetMonth, err := resolveDates(opts, periodPtr)
	if err != nil {
		return nil, err
	}
	e.logger.Info("reconciliation started",
		"units", len(input.Units),
		"transactions", len(input.Transactions),
		"analysis_date", analysisDate.Format("2006-01-02"),
		"target_month", targetMonth.Format("2006-01"))

	// Fixed ascending-id order keeps consumption deterministic: which unit
	// wins a shared transaction must not depend on roster row order.
	units := make([]payment.Unit, len(input.Units))
	copy(units, input.Units)
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	conflicts := amountConflicts(units)
	used := make(map[int]bool, len(input.Transactions))

	records := make([]payment.Reconciled, 0, len(units))
	for _, unit := range units {
		exp := schedule.ExpectedFor(unit, targetMonth)
		res := e.matcher.Match(exp, input.Transactions, used, analysisDate)
		if res.Matched() {
			used[res.Index] = true
		}

		st := e.statuses.Determine(exp.Date, analysisDate, res)

		var actualDate *time.Time
		var actualAmount *decimal.Decimal
		if res.Matched() {
			d := res.Transaction.Date
			a := res.Transaction.Amount.Abs()
			actualDate = &d
			actualAmount = &a
		}

		rec := payment.Reconciled{
			UnitID:         unit.ID,
			ExpectedAmount: exp.Amount,
			ExpectedDate:   exp.Date,
			Status:         st,
			ActualAmount:   actualAmount,
			ActualDate:     actualDate,
			DaysOverdue:    e.statuses.DaysOverdue(exp.Date, actualDate, analysisDate, st),
			Notes:          e.buildNote(unit, res, st, conflicts),
		}
		records = append(records, rec)

		e.logger.Debug("unit reconciled",
			"unit_id", unit.ID,
			"status", string(st),
			"days_overdue", rec.DaysOverdue)
	}

	report := &Report{
		GeneratedAt:   time.Now(),
		AnalysisDate:  analysisDate,
		TargetMonth:   targetMonth,
		Period:        periodPtr,
		RosterName:    input.RosterName,
		StatementName: input.StatementName,
		Payments:      records,
		Summary:       summarize(records),
		Warnings:      e.buildWarnings(conflicts),
	}
	e.logger.Info("reconciliation finished",
		"received", report.Summary.ReceivedCount,
		"overdue", report.Summary.OverdueCount,
		"unclear", report.Summary.UnclearCount)
	return report, nil
}

// resolveDates applies the defaulting rules: an explicit option always wins,
// otherwise the statement period supplies the value, otherwise the run fails.
func resolveDates(opts Options, p *payment.Period) (analysisDate, targetMonth time.Time, err error) {
	switch {
	case !opts.AnalysisDate.IsZero():
		analysisDate = payment.MidnightUTC(opts.AnalysisDate)
	case p != nil:
		analysisDate = p.RecommendedAnalysisDate()
	default:
		return time.Time{}, time.Time{}, ErrAnalysisDateRequired
	}
	switch {
	case !opts.TargetMonth.IsZero():
		targetMonth = schedule.MonthStart(opts.TargetMonth)
	case p != nil:
		targetMonth = p.TargetMonth()
	default:
		return time.Time{}, time.Time{}, ErrTargetMonthRequired
	}
	return analysisDate, targetMonth, nil
}

// amountConflicts maps a rent amount to the ids of all units charging it,
// keeping only amounts shared by more than one unit.
func amountConflicts(units []payment.Unit) map[string][]int64 {
	byAmount := make(map[string][]int64)
	for _, u := range units {
		key := u.MonthlyAmount.String()
		byAmount[key] = append(byAmount[key], u.ID)
	}
	for key, ids := range byAmount {
		if len(ids) < 2 {
			delete(byAmount, key)
		}
	}
	return byAmount
}

func (e *Engine) buildNote(unit payment.Unit, res matcher.Result, st payment.Status, conflicts map[string][]int64) string {
	var parts []string
	switch {
	case res.Ambiguous():
		parts = append(parts, e.msgs.Get("notes.multiple_matches"))
	case res.Matched() && res.Tier == matcher.TierWide && res.TiedCount > 1:
		parts = append(parts, e.msgs.Get("notes.wide_search_earliest", "count", strconv.Itoa(res.TiedCount)))
	case res.Matched() && res.Tier == matcher.TierWide:
		parts = append(parts, e.msgs.Get("notes.wide_search"))
	case res.Matched():
		parts = append(parts, e.msgs.Get("notes.payment_matched"))
	case st == payment.StatusNotDue:
		parts = append(parts, e.msgs.Get("notes.not_due"))
	default:
		parts = append(parts, e.msgs.Get("notes.no_payment"))
	}

	// Duplicate rent amounts across units stay visible even after the
	// tie-break resolved to a single transaction: the audit trail matters.
	if others := otherUnits(conflicts[unit.MonthlyAmount.String()], unit.ID); len(others) > 0 {
		parts = append(parts, e.msgs.Get("notes.amount_shared", "units", joinIDs(others)))
	}
	return strings.Join(parts, ". ")
}

func (e *Engine) buildWarnings(conflicts map[string][]int64) []string {
	keys := make([]string, 0, len(conflicts))
	for key := range conflicts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		warnings = append(warnings, e.msgs.Get("warnings.duplicate_amounts",
			"units", joinIDs(conflicts[key]),
			"amount", key))
	}
	return warnings
}

func summarize(records []payment.Reconciled) Summary {
	s := Summary{
		TotalUnits:    len(records),
		TotalExpected: decimal.Zero,
		TotalReceived: decimal.Zero,
	}
	for _, r := range records {
		s.TotalExpected = s.TotalExpected.Add(r.ExpectedAmount)
		switch r.Status {
		case payment.StatusReceived:
			s.ReceivedCount++
			if r.ActualAmount != nil {
				s.TotalReceived = s.TotalReceived.Add(*r.ActualAmount)
			}
		case payment.StatusOverdue:
			s.OverdueCount++
		case payment.StatusPending:
			s.PendingCount++
		case payment.StatusNotDue:
			s.NotDueCount++
		case payment.StatusUnclear:
			s.UnclearCount++
		}
	}
	return s
}

func otherUnits(ids []int64, self int64) []int64 {
	var out []int64
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
