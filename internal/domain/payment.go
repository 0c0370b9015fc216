// internal/domain/payment.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
)

// Payment records a settlement transfer between two members.
// Payments are immutable and append-only. Amount serializes as a decimal
// string, matching the on-chain transfer representation.
type Payment struct {
	ID        string            `json:"id"`
	From      string            `json:"from"` // Wallet address
	FromEmail string            `json:"fromEmail"`
	FromName  string            `json:"fromName"`
	To        string            `json:"to"` // Wallet address
	ToEmail   string            `json:"toEmail"`
	ToName    string            `json:"toName"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  currency.Currency `json:"currency"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewPayment creates a new Payment instance.
func NewPayment(from, to Member, amount decimal.Decimal, cur currency.Currency) Payment {
	return Payment{
		ID:        uuid.NewString(),
		From:      from.WalletAddress,
		FromEmail: from.Email,
		FromName:  from.Name,
		To:        to.WalletAddress,
		ToEmail:   to.Email,
		ToName:    to.Name,
		Amount:    amount,
		Currency:  cur,
		Timestamp: time.Now().UTC(),
	}
}
