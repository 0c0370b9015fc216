// internal/ledger/settle_test.go
package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePayment_OldestFirst(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	// Bob owes Alice $20 (day 1) and $30 (day 2). A $25 payment covers
	// only the oldest split; the $30 split stays unpaid with no partial
	// state.
	addExpense(group, "alice@example.com", day1, "Day one", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(20),
	})
	addExpense(group, "alice@example.com", day2, "Day two", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(30),
	})

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(25))
	assert.Equal(t, 1, marked)
	assert.True(t, group.Expenses[0].SplitWith[0].IsPaid)
	assert.False(t, group.Expenses[1].SplitWith[0].IsPaid)
}

func TestAllocatePayment_SortsOutOfOrderExpenses(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	// Appended newest-first: allocation still pays chronologically.
	addExpense(group, "alice@example.com", day2, "Day two", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(30),
	})
	addExpense(group, "alice@example.com", day1, "Day one", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(20),
	})

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(20))
	assert.Equal(t, 1, marked)
	assert.False(t, group.Expenses[0].SplitWith[0].IsPaid, "newer split must not be paid first")
	assert.True(t, group.Expenses[1].SplitWith[0].IsPaid)
}

func TestAllocatePayment_StopsAtFirstUncoverableSplit(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// $50, then $5. A $10 payment cannot cover the $50 split and stops
	// there, even though the later $5 split would fit.
	addExpense(group, "alice@example.com", day1, "Big", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(50),
	})
	addExpense(group, "alice@example.com", day1.Add(time.Hour), "Small", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(5),
	})

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(10))
	assert.Equal(t, 0, marked)
	assert.False(t, group.Expenses[0].SplitWith[0].IsPaid)
	assert.False(t, group.Expenses[1].SplitWith[0].IsPaid)
}

func TestAllocatePayment_ExactCoverAcrossSplits(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	addExpense(group, "alice@example.com", day1, "First", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(20),
	})
	addExpense(group, "alice@example.com", day1.Add(time.Hour), "Second", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(30),
	})

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(50))
	assert.Equal(t, 2, marked)
	assert.True(t, group.Expenses[0].SplitWith[0].IsPaid)
	assert.True(t, group.Expenses[1].SplitWith[0].IsPaid)
}

func TestAllocatePayment_IgnoresOtherDebtorsAndCreditors(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Carol's split toward Alice and Bob's split toward Carol are not
	// eligible for a Bob -> Alice settlement.
	addExpense(group, "alice@example.com", day1, "Dinner", map[string]decimal.Decimal{
		"bob@example.com":   decimal.NewFromInt(30),
		"carol@example.com": decimal.NewFromInt(30),
	})
	addExpense(group, "carol@example.com", day1, "Taxi", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(10),
	})

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(100))
	assert.Equal(t, 1, marked)

	dinner := group.Expenses[0]
	require.Equal(t, "bob@example.com", dinner.SplitWith[0].Email)
	assert.True(t, dinner.SplitWith[0].IsPaid)
	assert.False(t, dinner.SplitWith[1].IsPaid, "carol's split must be untouched")
	assert.False(t, group.Expenses[1].SplitWith[0].IsPaid, "debt toward carol must be untouched")
}

func TestAllocatePayment_AlreadyPaidSplitsAreSkipped(t *testing.T) {
	group := newTestGroup()
	day1 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	addExpense(group, "alice@example.com", day1, "Dinner", map[string]decimal.Decimal{
		"bob@example.com": decimal.NewFromInt(20),
	})
	group.Expenses[0].SplitWith[0].IsPaid = true

	marked := AllocatePayment(group, "bob@example.com", "alice@example.com", decimal.NewFromInt(20))
	assert.Equal(t, 0, marked)
}
