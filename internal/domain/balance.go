// internal/domain/balance.go
package domain

import (
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
)

// DebtEntry is one directional net debt in a member's balance report.
type DebtEntry struct {
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      currency.Currency `json:"currency"`
	WalletAddress string            `json:"walletAddress,omitempty"`
}

// Balance is a member's net position, derived from the expense and
// payment log on every query. It is never stored or cached, so it can
// never drift from the log.
type Balance struct {
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"` // Positive = owed to this member, canonical currency
	Owes    []DebtEntry     `json:"owes"`
	IsOwed  []DebtEntry     `json:"isOwed"`
}
