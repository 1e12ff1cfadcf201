// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"papertrade/internal/config"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/repository/postgres"
	"papertrade/internal/service"
	"papertrade/internal/session"
	"papertrade/internal/util"
	"papertrade/internal/web"
	"papertrade/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Collaborators
	Sessions session.Store
	Quotes   quote.Service

	// Repositories
	UserRepository    repository.UserRepository
	HoldingRepository repository.HoldingRepository
	TradeRepository   repository.TradeRepository

	// Services
	TradingService service.TradingService

	// HTTP
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

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Sessions and quote lookup. Redis is optional: without it, sessions
	// are in-process and quotes are fetched uncached.
	quoteClient := quote.NewClient(app.Config.QuoteAPIURL, app.Config.QuoteAPIKey)
	if app.Config.RedisAddr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     app.Config.RedisAddr,
			Password: app.Config.RedisPassword,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.Sessions = session.NewRedisStore(app.Redis, app.Config.SessionTTL)
		app.Quotes = quote.NewCachedService(quoteClient, app.Redis, app.Logger)
		app.Logger.Info("Redis connection established.")
	} else {
		app.Sessions = session.NewMemoryStore()
		app.Quotes = quoteClient
		app.Logger.Info("Redis not configured; using in-memory sessions and uncached quotes.")
	}

	// 5. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.HoldingRepository = postgres.NewHoldingRepository(app.DB)
	app.TradeRepository = postgres.NewTradeRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	app.TradingService = service.NewTradingService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.HoldingRepository,
		app.TradeRepository,
		app.Quotes,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	handler := web.NewHandler(app.TradingService, app.Sessions, renderer, app.Logger)
	app.HTTPHandler = web.NewRouter(handler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		app.Logger.Info("Redis connection closed.")
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
