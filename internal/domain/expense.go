// internal/domain/expense.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
)

// SplitType defines how an expense is divided among group members.
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
	SplitTypeCustom     SplitType = "custom"
)

// IsValid reports whether the split type is one of the known policies.
func (t SplitType) IsValid() bool {
	switch t {
	case SplitTypeEqual, SplitTypePercentage, SplitTypeCustom:
		return true
	}
	return false
}

// SplitDetail is one member's owed share of a single expense.
// Shares are always recorded in the canonical currency regardless of the
// expense's original currency, so balances never need re-conversion.
// Entries are immutable except for IsPaid, which only transitions
// false to true.
type SplitDetail struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Amount   decimal.Decimal   `json:"amount"`
	Currency currency.Currency `json:"currency"`
	IsPaid   bool              `json:"isPaid"`
}

// Expense is a shared cost fronted by one member.
// Amount keeps the original currency; SplitWith carries the canonical
// per-member shares. The payer's own share is absorbed, never stored.
type Expense struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Amount     decimal.Decimal   `json:"amount"`
	Currency   currency.Currency `json:"currency"`
	PaidBy     string            `json:"paidBy"` // Member email
	PaidByName string            `json:"paidByName"`
	Timestamp  time.Time         `json:"timestamp"`
	SplitWith  []SplitDetail     `json:"splitWith"`
}

// NewExpense creates a new Expense instance with the given splits.
func NewExpense(title string, amount decimal.Decimal, cur currency.Currency, payer Member, splitWith []SplitDetail) Expense {
	return Expense{
		ID:         uuid.NewString(),
		Title:      title,
		Amount:     amount,
		Currency:   cur,
		PaidBy:     payer.Email,
		PaidByName: payer.Name,
		Timestamp:  time.Now().UTC(),
		SplitWith:  splitWith,
	}
}

// UnpaidSplitFor returns the unpaid split owed by the given member, or nil.
func (e *Expense) UnpaidSplitFor(email string) *SplitDetail {
	for i := range e.SplitWith {
		if e.SplitWith[i].Email == email && !e.SplitWith[i].IsPaid {
			return &e.SplitWith[i]
		}
	}
	return nil
}
