// Package matcher pairs expected rent payments with bank transactions.
//
// The search runs in two tiers, amount-first:
//   - Tier 1 looks inside a narrow date window around the expected date and
//     refuses to guess when several transactions fit.
//   - Tier 2 is an amount-only fallback over the whole eligible pool, used
//     only when tier 1 finds nothing; duplicate amounts resolve to the
//     earliest-dated transaction.
//
// Transactions dated after the analysis cutoff are never considered, so a
// re-run with an earlier cutoff reproduces exactly what was knowable then.
//
// Example usage:
//
//	m := matcher.New(matcher.DefaultConfig())
//	result := m.Match(expected, pool, used, analysisDate)
//	if result.Matched() {
//		used[result.Index] = true
//	}
package matcher

import (
	"time"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

// Matcher matches expected payments against a transaction pool.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Match finds the transaction satisfying one expected payment.
//
// The pool is shared across units within a run; used marks pool indexes
// already consumed by earlier units and is owned by the caller. Match never
// mutates it, so calling twice with the same inputs yields the same result.
func (m *Matcher) Match(
	exp payment.Expected,
	pool []payment.Transaction,
	used map[int]bool,
	analysisDate time.Time,
) Result {
	analysisDate = payment.MidnightUTC(analysisDate)

	windowStart := exp.Date.AddDate(0, 0, -m.config.WindowBeforeDays)
	windowEnd := exp.Date.AddDate(0, 0, m.config.GraceDays)

	// Tier 1: amount match inside [expected - window, expected + grace].
	var narrow []int
	for i := range pool {
		if used[i] || pool[i].Date.After(analysisDate) {
			continue
		}
		if !m.amountMatches(exp, pool[i]) {
			continue
		}
		if pool[i].Date.Before(windowStart) || pool[i].Date.After(windowEnd) {
			continue
		}
		narrow = append(narrow, i)
	}

	if len(narrow) == 1 {
		i := narrow[0]
		return Result{Transaction: &pool[i], Index: i, Tier: TierNarrow}
	}
	if len(narrow) > 1 {
		// Several in-window candidates: precision over recall, refuse to guess.
		candidates := make([]payment.Transaction, 0, len(narrow))
		for _, i := range narrow {
			candidates = append(candidates, pool[i])
		}
		return Result{Index: -1, Candidates: candidates}
	}

	// Tier 2: amount-only search over the whole eligible pool.
	var wide []int
	for i := range pool {
		if used[i] || pool[i].Date.After(analysisDate) {
			continue
		}
		if m.amountMatches(exp, pool[i]) {
			wide = append(wide, i)
		}
	}

	if len(wide) == 0 {
		return unmatched()
	}

	// Duplicate amounts resolve to the earliest payment: when the same sum
	// arrives more than once, the first one is the probable intended rent.
	best := wide[0]
	for _, i := range wide[1:] {
		if pool[i].Date.Before(pool[best].Date) {
			best = i
		}
	}
	return Result{Transaction: &pool[best], Index: best, Tier: TierWide, TiedCount: len(wide)}
}

// amountMatches compares the expected amount against |tx.Amount| within the
// configured tolerance. Banks export rent receipts as debits or credits
// depending on the source, so the sign carries no information here.
func (m *Matcher) amountMatches(exp payment.Expected, tx payment.Transaction) bool {
	diff := exp.Amount.Sub(tx.Amount.Abs()).Abs()
	return diff.LessThanOrEqual(m.config.AmountTolerance)
}
