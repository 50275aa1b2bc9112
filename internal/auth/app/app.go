package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/bookeez/accounts/internal/auth/http"
	"github.com/bookeez/accounts/internal/auth/notify"
	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/internal/auth/store"
	boltstore "github.com/bookeez/accounts/internal/auth/store/drivers/bolt"
	mongostore "github.com/bookeez/accounts/internal/auth/store/drivers/mongo"
	"github.com/bookeez/accounts/internal/auth/store/drivers/sqlite"
	"github.com/bookeez/accounts/pkg/otelx"
	"github.com/bookeez/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "bookeez-accounts"

	// migrationTimeout bounds schema preparation at startup.
	migrationTimeout = 30 * time.Second
)

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	dispatcher    *notify.Dispatcher
	traceShutdown otelx.ShutdownFunc

	// Services
	authService *service.AuthService
	userService *service.UserService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.cfg.Validate(app.logger); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	traceShutdown, err := otelx.Setup(ctx, otelx.Config{
		ServiceName: serviceName,
		Version:     BuildVersion,
		Endpoint:    app.cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = traceShutdown

	if err := app.initStore(ctx); err != nil {
		_ = traceShutdown(ctx)
		return nil, err
	}

	if err := app.initNotifier(ctx); err != nil {
		_ = app.db.Close()
		_ = traceShutdown(ctx)
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		_ = traceShutdown(ctx)
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Start launches background workers. Run calls it.
func (app *Application) Start() {
	app.dispatcher.Start()
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.Start()

	app.logger.Info("account service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"notify_sender", app.cfg.NotifySender,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. In-flight requests and
// queued pushes share the grace period.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Drain queued notifications
	if err := app.dispatcher.Stop(ctx); err != nil {
		app.logger.Warn("notification queue not drained", "error", err, "pending", app.dispatcher.Pending())
	}

	if err := app.traceShutdown(ctx); err != nil {
		app.logger.Warn("error flushing traces", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initStore opens the configured store driver and prepares its schema
func (app *Application) initStore(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case DriverMongo:
		db, err = mongostore.NewStore(ctx, app.cfg.MongoURI, app.cfg.MongoDatabase)
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.SQLiteFile)
		db, err = sqlite.NewStore(dsn)
	case DriverBolt:
		db, err = boltstore.NewStore(app.cfg.BoltFile)
	default:
		err = fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", app.cfg.StoreDriver, err)
	}
	app.db = db

	mctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()
	if err := db.ApplyMigrations(mctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to prepare %s store: %w", app.cfg.StoreDriver, err)
	}

	app.logger.Info("store ready", "driver", app.cfg.StoreDriver)
	return nil
}

// initNotifier builds the push sender and its dispatcher
func (app *Application) initNotifier(ctx context.Context) error {
	var sender notify.Sender
	switch app.cfg.NotifySender {
	case SenderFCM:
		fcm, err := notify.NewFCMSender(ctx, notify.FCMConfig{
			ProjectID:       app.cfg.FCMProjectID,
			CredentialsFile: app.cfg.FCMCredentials,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize push sender: %w", err)
		}
		sender = fcm
	default:
		sender = &notify.LogSender{Logger: app.logger}
	}

	app.dispatcher = notify.NewDispatcher(sender, app.logger, notify.Config{
		QueueSize:   app.cfg.NotifyQueueSize,
		Workers:     app.cfg.NotifyWorkers,
		Timeout:     app.cfg.NotifyTimeout,
		MaxAttempts: app.cfg.NotifyMaxAttempts,
		RatePerSec:  app.cfg.NotifyRatePerSec,
	})
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	tokens, err := service.NewTokenIssuer(service.TokenPolicy{
		AccessSecret:  []byte(app.cfg.AccessSecret),
		RefreshSecret: []byte(app.cfg.RefreshSecret),
		Issuer:        app.cfg.Issuer,
		AccessTTL:     app.cfg.AccessTokenTTL,
		RefreshTTL:    app.cfg.RefreshTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	app.authService = &service.AuthService{
		Store:        app.db,
		Tokens:       tokens,
		Notifier:     app.dispatcher,
		BcryptCost:   app.cfg.BcryptCost,
		StoreTimeout: app.cfg.StoreTimeout,
	}
	app.userService = &service.UserService{
		Store:        app.db,
		StoreTimeout: app.cfg.StoreTimeout,
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.Queue = app.dispatcher
	router.StoreTimeout = app.cfg.StoreTimeout
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
