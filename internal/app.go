// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "netsplit-ledger/internal/api"
	"netsplit-ledger/internal/api/handler"
	"netsplit-ledger/internal/config"
	"netsplit-ledger/internal/currency"
	"netsplit-ledger/internal/events"
	"netsplit-ledger/internal/ledger"
	"netsplit-ledger/internal/payment"
	"netsplit-ledger/internal/repository"
	filestore "netsplit-ledger/internal/repository/file"
	"netsplit-ledger/internal/repository/memory"
	pgstore "netsplit-ledger/internal/repository/postgres"
	"netsplit-ledger/internal/service"
	"netsplit-ledger/internal/util"
	"netsplit-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Ledger components
	Store           repository.Store
	GroupRepository repository.GroupRepository
	Converter       *currency.Converter
	Transport       payment.Transport
	Publisher       events.Publisher
	LedgerService   service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Initialize the ledger store
	store, err := app.newStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize ledger store: %w", err)
	}
	app.Store = store
	app.GroupRepository = repository.NewGroupRepository(store)
	app.Logger.Info("Ledger store initialized.", "backend", cfg.StorageBackend)

	// 4. Initialize currency conversion
	rates := currency.NewStaticRateService(app.Logger)
	app.Converter = currency.NewConverter(rates, app.Logger)

	// 5. Initialize the payment transport.
	// The real wallet transport lives outside this service; the dev
	// transport fabricates receipts for local runs.
	app.Transport = payment.NewDevTransport()

	// 6. Initialize event publishing (optional)
	app.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			app.Logger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		} else {
			app.Publisher = publisher
			app.Logger.Info("AMQP publisher initialized.", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// 7. Initialize Services
	splitter := ledger.NewSplitter(app.Converter, app.Logger)
	engine := ledger.NewEngine(app.Converter)
	app.LedgerService = service.NewLedgerService(
		app.GroupRepository,
		app.Transport,
		splitter,
		engine,
		app.Converter,
		app.Publisher,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 8. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// newStore selects the storage backend from configuration.
func (app *Application) newStore(ctx context.Context) (repository.Store, error) {
	switch app.Config.StorageBackend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendFile:
		return filestore.NewStore(app.Config.StorageDir)
	case config.BackendPostgres:
		database, err := db.NewPostgresDB(app.Config.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = database
		return pgstore.NewStore(ctx, database)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", app.Config.StorageBackend)
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Logger.Error("Failed to close event publisher", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
