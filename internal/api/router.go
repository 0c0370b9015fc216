// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"netsplit-ledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Group ledger API routes
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", ledgerHandler.CreateGroup)
		r.Get("/", ledgerHandler.ListGroups)
		r.Get("/{groupID}", ledgerHandler.GetGroup)
		r.Post("/{groupID}/members", ledgerHandler.AddMember)
		r.Post("/{groupID}/expenses", ledgerHandler.AddExpense)
		r.Post("/{groupID}/settlements", ledgerHandler.SettleDebt)
		r.Get("/{groupID}/balances", ledgerHandler.GetBalances)
	})

	return r
}
