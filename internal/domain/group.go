// internal/domain/group.go
package domain

import (
	"time"

	"github.com/google/uuid"

	"netsplit-ledger/internal/currency"
)

// Member represents a participant in a group. Identity is the email
// address, which is unique within a group. Members are never removed.
type Member struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	WalletAddress     string            `json:"walletAddress,omitempty"`
	PreferredCurrency currency.Currency `json:"preferredCurrency,omitempty"`
}

// NewMember creates a new Member instance.
// An empty preferred currency defaults to the canonical currency.
func NewMember(name, email, walletAddress string) Member {
	return Member{
		Name:              name,
		Email:             email,
		WalletAddress:     walletAddress,
		PreferredCurrency: currency.Canonical,
	}
}

// Group is the authoritative collection of members, expenses and payments.
// Invariant: the CreatedBy member is always present in Members.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"` // Email of the creator
	CreatedAt time.Time `json:"createdAt"`
	Members   []Member  `json:"members"` // Insertion order
	Expenses  []Expense `json:"expenses"`
	Payments  []Payment `json:"payments"`
}

// NewGroup creates a new Group with the creator as its first member.
func NewGroup(name string, creator Member) *Group {
	return &Group{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: creator.Email,
		CreatedAt: time.Now().UTC(),
		Members:   []Member{creator},
		Expenses:  []Expense{},
		Payments:  []Payment{},
	}
}

// FindMember returns the member with the given email, or nil.
func (g *Group) FindMember(email string) *Member {
	for i := range g.Members {
		if g.Members[i].Email == email {
			return &g.Members[i]
		}
	}
	return nil
}

// HasMember reports whether a member with the given email exists.
func (g *Group) HasMember(email string) bool {
	return g.FindMember(email) != nil
}
