// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"netsplit-ledger/internal/api/types"
	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/domain"
	"netsplit-ledger/internal/ledger"
	"netsplit-ledger/internal/service"
	"netsplit-ledger/internal/util" // For custom errors
)

// DefaultTimeout is the per-request timeout applied by the router.
const DefaultTimeout = 30 * time.Second

// userEmailHeader carries the acting user's identity. The ledger has no
// authentication of its own; identity verification is out of scope.
const userEmailHeader = "X-User-Email"

// LedgerHandler handles HTTP requests related to group ledger operations.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: svc,
		logger:  logger,
	}
}

// sessionFromRequest builds the explicit Session every service call takes.
func sessionFromRequest(r *http.Request) service.Session {
	return service.Session{CurrentUserEmail: r.Header.Get(userEmailHeader)}
}

// Helper function to send JSON responses.
func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrDuplicateMember):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrGroupNotFound), util.IsError(err, util.ErrMemberNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrWalletAddressMissing):
		statusCode = http.StatusUnprocessableEntity
		message = "Member wallet address not found"
	case util.IsError(err, util.ErrTransportFailed):
		statusCode = http.StatusBadGateway
		message = "Payment transport failed"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// parseCurrency resolves an optional currency code, defaulting to canonical.
func parseCurrency(code string) (currency.Currency, error) {
	if code == "" {
		return currency.Canonical, nil
	}
	return currency.Parse(code)
}

// CreateGroupRequest represents the request body for group creation.
type CreateGroupRequest struct {
	Name          string `json:"name"`
	CreatorName   string `json:"creatorName"`
	WalletAddress string `json:"walletAddress"`
}

// CreateGroup handles the create group request.
// POST /groups
func (h *LedgerHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), sessionFromRequest(r), req.Name, req.CreatorName, req.WalletAddress)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, group)
}

// ListGroups handles the list groups request.
// GET /groups
func (h *LedgerHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListGroups(r.Context(), sessionFromRequest(r))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.ListResponse[domain.Group]{
		Data:  groups,
		Count: len(groups),
	})
}

// GetGroup handles the fetch group request.
// GET /groups/{groupID}
func (h *LedgerHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	group, err := h.service.GetGroup(r.Context(), sessionFromRequest(r), groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, group)
}

// AddMemberRequest represents the request body for adding a member.
type AddMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AddMember handles the add member request.
// POST /groups/{groupID}/members
func (h *LedgerHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.AddMember(r.Context(), sessionFromRequest(r), groupID, req.Name, req.Email)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, group)
}

// AddExpenseRequest represents the request body for adding an expense.
type AddExpenseRequest struct {
	Title     string              `json:"title"`
	Amount    decimal.Decimal     `json:"amount"`
	Currency  string              `json:"currency"`
	PaidBy    string              `json:"paidBy"`
	SplitType domain.SplitType    `json:"splitType"`
	Splits    []ledger.SplitShare `json:"splits,omitempty"`
}

// AddExpense handles the add expense request.
// POST /groups/{groupID}/expenses
func (h *LedgerHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	cur, err := parseCurrency(req.Currency)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	expense, err := h.service.AddExpense(r.Context(), sessionFromRequest(r), groupID, req.Title, req.Amount, cur, req.PaidBy, req.SplitType, req.Splits)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, expense)
}

// SettleDebtRequest represents the request body for settling a debt.
type SettleDebtRequest struct {
	ToEmail  string          `json:"toEmail"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// SettleDebt handles the settle debt request.
// POST /groups/{groupID}/settlements
func (h *LedgerHandler) SettleDebt(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req SettleDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	cur, err := parseCurrency(req.Currency)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	pay, receipt, err := h.service.SettleDebt(r.Context(), sessionFromRequest(r), groupID, req.ToEmail, req.Amount, cur)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"payment": pay,
		"txHash":  receipt.TxHash,
	})
}

// GetBalances handles the balance report request.
// GET /groups/{groupID}/balances
func (h *LedgerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	balances, err := h.service.CalculateBalances(r.Context(), sessionFromRequest(r), groupID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.ListResponse[domain.Balance]{
		Data:  balances,
		Count: len(balances),
	})
}
