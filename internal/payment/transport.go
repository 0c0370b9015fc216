// internal/payment/transport.go
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
)

// Receipt is the transport's acknowledgement of a submitted transfer.
type Receipt struct {
	TxHash    string            `json:"txHash"`
	ToAddress string            `json:"toAddress"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  currency.Currency `json:"currency"`
	Timestamp time.Time         `json:"timestamp"`
}

// Transport submits a stablecoin transfer to a wallet address. The
// ledger treats it as opaque: it either returns a receipt or fails with
// a transport-specific error (wallet rejection, network failure,
// unsupported currency). The ledger never retries.
type Transport interface {
	SendPayment(ctx context.Context, toAddress string, amount decimal.Decimal, cur currency.Currency) (*Receipt, error)
}

// DevTransport fabricates receipts for local runs without a wallet.
type DevTransport struct{}

// NewDevTransport creates a DevTransport.
func NewDevTransport() *DevTransport {
	return &DevTransport{}
}

// SendPayment returns a synthetic receipt.
func (t *DevTransport) SendPayment(ctx context.Context, toAddress string, amount decimal.Decimal, cur currency.Currency) (*Receipt, error) {
	return &Receipt{
		TxHash:    "0x" + uuid.NewString(),
		ToAddress: toAddress,
		Amount:    amount,
		Currency:  cur,
		Timestamp: time.Now().UTC(),
	}, nil
}
