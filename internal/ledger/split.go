// internal/ledger/split.go
package ledger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/util"
)

// percentTolerance allows for small floating point errors when checking
// that percentages sum to 100 (99.99 to 100.01).
var percentTolerance = decimal.NewFromFloat(0.01)

// SplitShare is a caller-supplied split entry for percentage and custom
// policies. Percentage is used by SplitTypePercentage, Amount (canonical
// currency) by SplitTypeCustom.
type SplitShare struct {
	Email      string          `json:"email"`
	Percentage decimal.Decimal `json:"percentage,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
}

// Splitter produces the per-member owed shares of an expense.
// Shares are always emitted in the canonical currency.
type Splitter struct {
	converter *currency.Converter
	logger    *slog.Logger
}

// NewSplitter creates a new Splitter.
func NewSplitter(converter *currency.Converter, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{converter: converter, logger: logger}
}

// Split computes the SplitDetail entries for an expense.
// The payer never receives an entry: their own share is implicitly
// absorbed since they already fronted the money.
func (s *Splitter) Split(
	group *domain.Group,
	title string,
	amount decimal.Decimal,
	cur currency.Currency,
	payerEmail string,
	splitType domain.SplitType,
	shares []SplitShare,
) ([]domain.SplitDetail, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrInvalidInput)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", util.ErrInvalidInput)
	}
	if payerEmail == "" {
		return nil, fmt.Errorf("%w: payer email is required", util.ErrInvalidInput)
	}
	if !splitType.IsValid() {
		return nil, fmt.Errorf("%w: unknown split type %q", util.ErrInvalidInput, splitType)
	}
	if !group.HasMember(payerEmail) {
		return nil, fmt.Errorf("add expense: payer %s: %w", payerEmail, util.ErrMemberNotFound)
	}

	canonicalTotal := s.converter.ToCanonical(amount, cur)

	switch splitType {
	case domain.SplitTypeEqual:
		return s.splitEqual(group, canonicalTotal, payerEmail), nil
	case domain.SplitTypePercentage:
		return s.splitPercentage(group, canonicalTotal, payerEmail, shares)
	case domain.SplitTypeCustom:
		return s.splitCustom(group, canonicalTotal, payerEmail, shares)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", util.ErrInvalidInput, splitType)
	}
}

// splitEqual divides the canonical total by the count of all members
// including the payer, and assigns one share to every member except the
// payer.
func (s *Splitter) splitEqual(group *domain.Group, canonicalTotal decimal.Decimal, payerEmail string) []domain.SplitDetail {
	share := canonicalTotal.Div(decimal.NewFromInt(int64(len(group.Members))))

	splits := make([]domain.SplitDetail, 0, len(group.Members)-1)
	for _, m := range group.Members {
		if m.Email == payerEmail {
			continue
		}
		splits = append(splits, domain.SplitDetail{
			Email:    m.Email,
			Name:     m.Name,
			Amount:   share,
			Currency: currency.Canonical,
			IsPaid:   false,
		})
	}
	return splits
}

// splitPercentage assigns percentage/100 of the canonical total to each
// non-payer member. Percentages must sum to 100 within tolerance.
func (s *Splitter) splitPercentage(group *domain.Group, canonicalTotal decimal.Decimal, payerEmail string, shares []SplitShare) ([]domain.SplitDetail, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: percentage split requires split entries", util.ErrInvalidInput)
	}

	hundred := decimal.NewFromInt(100)
	totalPercentage := decimal.Zero
	for _, share := range shares {
		if share.Percentage.IsNegative() || share.Percentage.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: percentage for %s out of range", util.ErrInvalidInput, share.Email)
		}
		totalPercentage = totalPercentage.Add(share.Percentage)
	}
	if totalPercentage.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		return nil, fmt.Errorf("%w: percentages must sum to 100, got %s", util.ErrInvalidInput, totalPercentage)
	}

	splits := make([]domain.SplitDetail, 0, len(shares))
	for _, share := range shares {
		member, err := s.shareMember(group, payerEmail, share.Email)
		if err != nil {
			return nil, err
		}
		splits = append(splits, domain.SplitDetail{
			Email:    member.Email,
			Name:     member.Name,
			Amount:   share.Percentage.Mul(canonicalTotal).Div(hundred),
			Currency: currency.Canonical,
			IsPaid:   false,
		})
	}
	return splits, nil
}

// splitCustom takes caller-supplied canonical amounts as-is. The sum is
// not enforced against the expense total; over/under-allocation is the
// caller's responsibility and is only logged.
func (s *Splitter) splitCustom(group *domain.Group, canonicalTotal decimal.Decimal, payerEmail string, shares []SplitShare) ([]domain.SplitDetail, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: custom split requires split entries", util.ErrInvalidInput)
	}

	allocated := decimal.Zero
	splits := make([]domain.SplitDetail, 0, len(shares))
	for _, share := range shares {
		member, err := s.shareMember(group, payerEmail, share.Email)
		if err != nil {
			return nil, err
		}
		if share.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: split amount for %s must not be negative", util.ErrInvalidInput, share.Email)
		}
		allocated = allocated.Add(share.Amount)
		splits = append(splits, domain.SplitDetail{
			Email:    member.Email,
			Name:     member.Name,
			Amount:   share.Amount,
			Currency: currency.Canonical,
			IsPaid:   false,
		})
	}

	if allocated.Sub(canonicalTotal).Abs().GreaterThan(percentTolerance) {
		s.logger.Warn("custom split amounts do not sum to the expense total",
			"allocated", allocated.String(),
			"total", canonicalTotal.String())
	}
	return splits, nil
}

// shareMember resolves a split entry's member and rejects entries for
// the payer or non-members.
func (s *Splitter) shareMember(group *domain.Group, payerEmail, email string) (*domain.Member, error) {
	if email == payerEmail {
		return nil, fmt.Errorf("%w: payer must not appear in split entries", util.ErrInvalidInput)
	}
	member := group.FindMember(email)
	if member == nil {
		return nil, fmt.Errorf("split entry %s: %w", email, util.ErrMemberNotFound)
	}
	return member, nil
}
