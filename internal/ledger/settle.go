// internal/ledger/settle.go
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/domain"
)

// AllocatePayment applies a settlement of the given canonical amount
// from payerEmail to recipientEmail against the group's outstanding
// expense splits, oldest first.
//
// Splits are only ever marked paid in full: allocation stops at the
// first split the remaining amount cannot cover. Partial payment of a
// split is unsupported by policy. Any remainder is not tied to a
// specific expense; it still reduces the net balance through the
// recorded Payment's effect on the debt matrix.
//
// It mutates the group's expenses in place and returns the number of
// splits marked paid.
func AllocatePayment(group *domain.Group, payerEmail, recipientEmail string, canonicalAmount decimal.Decimal) int {
	// Expenses fronted by the recipient that still carry an unpaid split
	// for the payer, in chronological order.
	eligible := make([]*domain.Expense, 0, len(group.Expenses))
	for i := range group.Expenses {
		expense := &group.Expenses[i]
		if expense.PaidBy == recipientEmail && expense.UnpaidSplitFor(payerEmail) != nil {
			eligible = append(eligible, expense)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Timestamp.Before(eligible[j].Timestamp)
	})

	remaining := canonicalAmount
	marked := 0
	for _, expense := range eligible {
		split := expense.UnpaidSplitFor(payerEmail)
		if remaining.LessThan(split.Amount) {
			break
		}
		split.IsPaid = true
		remaining = remaining.Sub(split.Amount)
		marked++
	}
	return marked
}
