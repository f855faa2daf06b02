package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkov/garage-rent-tracker/internal/domain/payment"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expected(amount int64, d time.Time) payment.Expected {
	return payment.Expected{UnitID: 1, Amount: decimal.NewFromInt(amount), Date: d}
}

func tx(t *testing.T, amount float64, d time.Time, row int) payment.Transaction {
	t.Helper()
	out, err := payment.NewTransaction(d, decimal.NewFromFloat(amount), "Перевод на карту", row)
	require.NoError(t, err)
	return out
}

func TestMatch_NarrowWindowSingleCandidate(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 14), 1),
		tx(t, 4200, date(2025, time.May, 14), 2),
	}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	require.True(t, res.Matched())
	assert.Equal(t, TierNarrow, res.Tier)
	assert.Equal(t, 0, res.Index)
}

func TestMatch_WindowBoundariesInclusive(t *testing.T) {
	m := New(DefaultConfig())
	exp := expected(3500, date(2025, time.May, 15))
	analysis := date(2025, time.June, 1)

	tests := []struct {
		name     string
		txDate   time.Time
		wantTier Tier
	}{
		{"seven days before", date(2025, time.May, 8), TierNarrow},
		{"three days after", date(2025, time.May, 18), TierNarrow},
		{"eight days before falls to wide", date(2025, time.May, 7), TierWide},
		{"four days after falls to wide", date(2025, time.May, 19), TierWide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := []payment.Transaction{tx(t, 3500, tt.txDate, 1)}

			res := m.Match(exp, pool, nil, analysis)

			require.True(t, res.Matched())
			assert.Equal(t, tt.wantTier, res.Tier)
		})
	}
}

func TestMatch_EligibilityCutoff(t *testing.T) {
	// A perfect fit dated after the analysis cutoff must never be selected.
	m := New(DefaultConfig())
	pool := []payment.Transaction{tx(t, 3500, date(2025, time.May, 14), 1)}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 13))

	assert.False(t, res.Matched())
	assert.False(t, res.Ambiguous())
}

func TestMatch_AmountToleranceBoundary(t *testing.T) {
	m := New(DefaultConfig())
	exp := expected(3500, date(2025, time.May, 15))
	analysis := date(2025, time.May, 20)

	within := []payment.Transaction{tx(t, 3500.01, date(2025, time.May, 15), 1)}
	res := m.Match(exp, within, nil, analysis)
	assert.True(t, res.Matched())

	outside := []payment.Transaction{tx(t, 3500.02, date(2025, time.May, 15), 1)}
	res = m.Match(exp, outside, nil, analysis)
	assert.False(t, res.Matched())
}

func TestMatch_NegativeAmountsCompareByAbsoluteValue(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{tx(t, -3500, date(2025, time.May, 14), 1)}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	assert.True(t, res.Matched())
}

func TestMatch_NarrowAmbiguityRefusesToGuess(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 13), 1),
		tx(t, 3500, date(2025, time.May, 16), 2),
	}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	assert.False(t, res.Matched())
	require.True(t, res.Ambiguous())
	assert.Len(t, res.Candidates, 2)
}

func TestMatch_WideFallbackSingleCandidate(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{tx(t, 3500, date(2025, time.May, 2), 1)}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	require.True(t, res.Matched())
	assert.Equal(t, TierWide, res.Tier)
	assert.Equal(t, 1, res.TiedCount)
}

func TestMatch_WideTieBreakPicksEarliest(t *testing.T) {
	// Both candidates sit outside the narrow window for 2025-05-15
	// (window is 05-08..05-18), so the wide search sees both.
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 30), 1),
		tx(t, 3500, date(2025, time.May, 10), 2),
	}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.June, 1))

	require.True(t, res.Matched())
	assert.Equal(t, TierWide, res.Tier)
	assert.Equal(t, date(2025, time.May, 10), res.Transaction.Date)
	assert.Equal(t, 2, res.TiedCount)
}

func TestMatch_WideSkippedWhenNarrowAmbiguous(t *testing.T) {
	// Tier 2 runs only on zero narrow candidates, not on ambiguity.
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 13), 1),
		tx(t, 3500, date(2025, time.May, 16), 2),
		tx(t, 3500, date(2025, time.May, 2), 3),
	}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	assert.True(t, res.Ambiguous())
}

func TestMatch_UsedTransactionsAreInvisible(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 14), 1),
		tx(t, 3500, date(2025, time.May, 2), 2),
	}
	used := map[int]bool{0: true}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, used, date(2025, time.May, 20))

	require.True(t, res.Matched())
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, TierWide, res.Tier)
}

func TestMatch_NoCandidates(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{tx(t, 4200, date(2025, time.May, 14), 1)}

	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	assert.False(t, res.Matched())
	assert.False(t, res.Ambiguous())
	assert.Equal(t, -1, res.Index)
}

func TestMatch_Idempotent(t *testing.T) {
	m := New(DefaultConfig())
	pool := []payment.Transaction{
		tx(t, 3500, date(2025, time.May, 14), 1),
		tx(t, 3500, date(2025, time.May, 2), 2),
	}
	used := map[int]bool{}
	exp := expected(3500, date(2025, time.May, 15))
	analysis := date(2025, time.May, 20)

	first := m.Match(exp, pool, used, analysis)
	second := m.Match(exp, pool, used, analysis)

	assert.Equal(t, first.Index, second.Index)
	assert.Equal(t, first.Tier, second.Tier)
	assert.Empty(t, used, "Match must not mutate the used set")
}

func TestMatch_CustomWindowConfig(t *testing.T) {
	cfg := Config{WindowBeforeDays: 2, GraceDays: 1, AmountTolerance: decimal.NewFromFloat(0.01)}
	m := New(cfg)
	pool := []payment.Transaction{tx(t, 3500, date(2025, time.May, 10), 1)}

	// Five days early: outside the tightened window, wide search catches it.
	res := m.Match(expected(3500, date(2025, time.May, 15)), pool, nil, date(2025, time.May, 20))

	require.True(t, res.Matched())
	assert.Equal(t, TierWide, res.Tier)
}
