// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/events"
	"netsplit-ledger/internal/ledger"
	"netsplit-ledger/internal/payment"
	"netsplit-ledger/internal/repository"
	"netsplit-ledger/internal/util"
)

// Session identifies the acting user. Every ledger operation takes it
// explicitly; there is no ambient current-user state.
type Session struct {
	CurrentUserEmail string
}

// LedgerService defines the interface for group ledger business logic.
type LedgerService interface {
	CreateGroup(ctx context.Context, session Session, name, creatorName, walletAddress string) (*domain.Group, error)
	GetGroup(ctx context.Context, session Session, groupID string) (*domain.Group, error)
	ListGroups(ctx context.Context, session Session) ([]domain.Group, error)
	AddMember(ctx context.Context, session Session, groupID, name, email string) (*domain.Group, error)
	AddExpense(ctx context.Context, session Session, groupID, title string, amount decimal.Decimal, cur currency.Currency, paidByEmail string, splitType domain.SplitType, shares []ledger.SplitShare) (*domain.Expense, error)
	SettleDebt(ctx context.Context, session Session, groupID, toEmail string, amount decimal.Decimal, cur currency.Currency) (*domain.Payment, *payment.Receipt, error)
	CalculateBalances(ctx context.Context, session Session, groupID string) ([]domain.Balance, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	groupRepo repository.GroupRepository
	transport payment.Transport
	splitter  *ledger.Splitter
	engine    *ledger.Engine
	converter *currency.Converter
	publisher events.Publisher
	logger    *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	groupRepo repository.GroupRepository,
	transport payment.Transport,
	splitter *ledger.Splitter,
	engine *ledger.Engine,
	converter *currency.Converter,
	publisher events.Publisher,
	logger *slog.Logger,
) LedgerService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerService{
		groupRepo: groupRepo,
		transport: transport,
		splitter:  splitter,
		engine:    engine,
		converter: converter,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateGroup creates a new group with the acting user as its first member.
func (s *ledgerService) CreateGroup(ctx context.Context, session Session, name, creatorName, walletAddress string) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name is required", util.ErrInvalidInput)
	}
	if session.CurrentUserEmail == "" {
		return nil, fmt.Errorf("%w: session user email is required", util.ErrInvalidInput)
	}
	if creatorName == "" {
		creatorName = session.CurrentUserEmail
	}

	group := domain.NewGroup(name, domain.NewMember(creatorName, session.CurrentUserEmail, walletAddress))
	if err := s.groupRepo.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *ledgerService) GetGroup(ctx context.Context, session Session, groupID string) (*domain.Group, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group %s: %w", groupID, err)
	}
	return group, nil
}

// ListGroups retrieves the whole group collection.
func (s *ledgerService) ListGroups(ctx context.Context, session Session) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AddMember adds a new member to a group. Email is the member identity
// and must be unique within the group.
func (s *ledgerService) AddMember(ctx context.Context, session Session, groupID, name, email string) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: member name and email are required", util.ErrInvalidInput)
	}

	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	if group.HasMember(email) {
		return nil, util.ErrDuplicateMember
	}

	group.Members = append(group.Members, domain.NewMember(name, email, ""))
	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return group, nil
}

// AddExpense records an expense and its per-member splits, then appends
// it to the group.
func (s *ledgerService) AddExpense(ctx context.Context, session Session, groupID, title string, amount decimal.Decimal, cur currency.Currency, paidByEmail string, splitType domain.SplitType, shares []ledger.SplitShare) (*domain.Expense, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	splitWith, err := s.splitter.Split(group, title, amount, cur, paidByEmail, splitType, shares)
	if err != nil {
		return nil, err
	}

	payer := group.FindMember(paidByEmail)
	expense := domain.NewExpense(title, amount, cur, *payer, splitWith)
	group.Expenses = append(group.Expenses, expense)

	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	if err := s.publisher.PublishExpenseAdded(ctx, events.NewExpenseAddedMessage(group.ID, expense.ID)); err != nil {
		s.logger.Warn("failed to publish expense added event", "group_id", group.ID, "expense_id", expense.ID, "error", err)
	}

	return &expense, nil
}

// SettleDebt sends a payment from the acting user to another member and
// applies it against outstanding splits, oldest first.
//
// The transport call is the atomicity boundary: if it fails, no Payment
// is recorded and no split is mutated. A transport success followed by a
// save failure is a known inconsistency window; it is logged, not
// eliminated.
func (s *ledgerService) SettleDebt(ctx context.Context, session Session, groupID, toEmail string, amount decimal.Decimal, cur currency.Currency) (*domain.Payment, *payment.Receipt, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", util.ErrInvalidInput)
	}

	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("settle debt: %w", err)
	}

	toMember := group.FindMember(toEmail)
	if toMember == nil {
		return nil, nil, fmt.Errorf("settle debt: recipient %s: %w", toEmail, util.ErrMemberNotFound)
	}
	if toMember.WalletAddress == "" {
		return nil, nil, fmt.Errorf("settle debt: recipient %s: %w", toEmail, util.ErrWalletAddressMissing)
	}
	fromMember := group.FindMember(session.CurrentUserEmail)
	if fromMember == nil {
		return nil, nil, fmt.Errorf("settle debt: sender %s: %w", session.CurrentUserEmail, util.ErrMemberNotFound)
	}

	receipt, err := s.transport.SendPayment(ctx, toMember.WalletAddress, amount, cur)
	if err != nil {
		return nil, nil, fmt.Errorf("settle debt: %w: %w", util.ErrTransportFailed, err)
	}

	pay := domain.NewPayment(*fromMember, *toMember, amount, cur)
	group.Payments = append(group.Payments, pay)

	// Settlements in a non-canonical stablecoin are normalized before
	// allocation, the same conversion the balance engine applies to the
	// debt matrix.
	canonicalAmount := s.converter.ToCanonical(amount, cur)
	marked := ledger.AllocatePayment(group, fromMember.Email, toMember.Email, canonicalAmount)
	s.logger.Info("allocated settlement against outstanding splits",
		"group_id", group.ID, "payment_id", pay.ID, "splits_marked", marked)

	if err := s.groupRepo.UpdateGroup(ctx, group); err != nil {
		s.logger.Error("payment sent but ledger save failed, in-memory state is ahead of the store",
			"group_id", group.ID, "payment_id", pay.ID, "tx_hash", receipt.TxHash, "error", err)
		return nil, nil, fmt.Errorf("settle debt: %w", err)
	}

	if err := s.publisher.PublishDebtSettled(ctx, events.NewDebtSettledMessage(group.ID, pay.ID, receipt.TxHash)); err != nil {
		s.logger.Warn("failed to publish debt settled event", "group_id", group.ID, "payment_id", pay.ID, "error", err)
	}

	return &pay, receipt, nil
}

// CalculateBalances recomputes the simplified balance report from
// scratch. Balances are never cached.
func (s *ledgerService) CalculateBalances(ctx context.Context, session Session, groupID string) ([]domain.Balance, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("calculate balances: %w", err)
	}
	return s.engine.Balances(group), nil
}
