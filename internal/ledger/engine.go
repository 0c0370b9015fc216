// internal/ledger/engine.go
package ledger

import (
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/domain"
)

// DebtMatrix maps debtor email -> creditor email -> owed amount in the
// canonical currency.
type DebtMatrix map[string]map[string]decimal.Decimal

// NewDebtMatrix initializes a square matrix with a zero entry for every
// ordered pair of members.
func NewDebtMatrix(members []domain.Member) DebtMatrix {
	matrix := make(DebtMatrix, len(members))
	for _, debtor := range members {
		row := make(map[string]decimal.Decimal, len(members))
		for _, creditor := range members {
			row[creditor.Email] = decimal.Zero
		}
		matrix[debtor.Email] = row
	}
	return matrix
}

// Net cancels mutual debts: for every unordered pair where both
// directions are positive, the smaller amount is subtracted from both,
// leaving at most one non-zero direction per pair. Members should never
// simultaneously see "you owe Alice $50" and "Alice owes you $30",
// only the net "$20".
func (m DebtMatrix) Net(members []domain.Member) {
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a := members[i].Email
			b := members[j].Email
			aToB := m[a][b]
			bToA := m[b][a]
			if aToB.IsPositive() && bToA.IsPositive() {
				canceled := decimal.Min(aToB, bToA)
				m[a][b] = aToB.Sub(canceled)
				m[b][a] = bToA.Sub(canceled)
			}
		}
	}
}

// Engine computes balance reports from a group's expense and payment log.
// Computation is pure: it never mutates the group and recomputes from
// scratch on every call.
type Engine struct {
	converter *currency.Converter
}

// NewEngine creates a new balance Engine.
func NewEngine(converter *currency.Converter) *Engine {
	return &Engine{converter: converter}
}

// BuildDebtMatrix constructs the pairwise debt matrix from all expenses
// and payments. Unpaid splits add debt from the split member toward the
// payer; payments subtract debt from the sender toward the recipient.
// Payment amounts in a non-canonical currency are normalized before
// subtraction.
func (e *Engine) BuildDebtMatrix(group *domain.Group) DebtMatrix {
	matrix := NewDebtMatrix(group.Members)

	for _, expense := range group.Expenses {
		for _, split := range expense.SplitWith {
			if split.IsPaid || split.Email == expense.PaidBy {
				continue
			}
			row, ok := matrix[split.Email]
			if !ok {
				continue
			}
			row[expense.PaidBy] = row[expense.PaidBy].Add(split.Amount)
		}
	}

	for _, payment := range group.Payments {
		row, ok := matrix[payment.FromEmail]
		if !ok {
			continue
		}
		amount := e.converter.ToCanonical(payment.Amount, payment.Currency)
		row[payment.ToEmail] = row[payment.ToEmail].Sub(amount)
	}

	return matrix
}

// Balances returns the simplified per-member balance report: the netted
// debt matrix reduced to one signed balance plus owes/isOwed lists per
// member. Amounts are rounded to 2 decimal places only at this final
// step.
func (e *Engine) Balances(group *domain.Group) []domain.Balance {
	matrix := e.BuildDebtMatrix(group)
	matrix.Net(group.Members)

	balances := make([]domain.Balance, 0, len(group.Members))
	for _, member := range group.Members {
		totalOwed := decimal.Zero
		totalOwes := decimal.Zero
		owes := []domain.DebtEntry{}
		isOwed := []domain.DebtEntry{}

		for _, other := range group.Members {
			if other.Email == member.Email {
				continue
			}

			owesAmount := matrix[member.Email][other.Email]
			totalOwes = totalOwes.Add(owesAmount)
			if owesAmount.IsPositive() {
				owes = append(owes, domain.DebtEntry{
					Email:         other.Email,
					Name:          other.Name,
					Amount:        owesAmount.Round(2),
					Currency:      currency.Canonical,
					WalletAddress: other.WalletAddress,
				})
			}

			owedAmount := matrix[other.Email][member.Email]
			totalOwed = totalOwed.Add(owedAmount)
			if owedAmount.IsPositive() {
				isOwed = append(isOwed, domain.DebtEntry{
					Email:         other.Email,
					Name:          other.Name,
					Amount:        owedAmount.Round(2),
					Currency:      currency.Canonical,
					WalletAddress: other.WalletAddress,
				})
			}
		}

		balances = append(balances, domain.Balance{
			Email:   member.Email,
			Name:    member.Name,
			Balance: totalOwed.Sub(totalOwes).Round(2),
			Owes:    owes,
			IsOwed:  isOwed,
		})
	}
	return balances
}
