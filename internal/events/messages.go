// internal/events/messages.go
package events

import (
	"encoding/json"
	"time"
)

// ExpenseAddedMessage notifies downstream consumers that an expense was
// appended to a group. Consumers fetch the full expense from the store.
type ExpenseAddedMessage struct {
	GroupID   string    `json:"groupId"`
	ExpenseID string    `json:"expenseId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage creates a new expense-added message.
func NewExpenseAddedMessage(groupID, expenseID string) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		GroupID:   groupID,
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DebtSettledMessage notifies downstream consumers that a settlement
// payment was recorded.
type DebtSettledMessage struct {
	GroupID   string    `json:"groupId"`
	PaymentID string    `json:"paymentId"`
	TxHash    string    `json:"txHash"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDebtSettledMessage creates a new debt-settled message.
func NewDebtSettledMessage(groupID, paymentID, txHash string) *DebtSettledMessage {
	return &DebtSettledMessage{
		GroupID:   groupID,
		PaymentID: paymentID,
		TxHash:    txHash,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *DebtSettledMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
