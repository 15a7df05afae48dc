package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/whisperlabs/whisperwall/internal/web/goauth"
	httpapi "github.com/whisperlabs/whisperwall/internal/web/http"
	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/internal/web/store"
	"github.com/whisperlabs/whisperwall/internal/web/store/drivers/sqlite"
	"github.com/whisperlabs/whisperwall/pkg/cryptox"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires every layer of the web service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	credentialService *service.CredentialService
	federatedService  *service.FederatedService
	secretService     *service.SecretService
	userService       *service.UserService

	sessions *session.Manager
	google   *goauth.Service // nil when Google login is not configured

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "whisperwall",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.initGoogle(); err != nil {
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("whisperwall starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down whisperwall...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("whisperwall stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.credentialService = &service.CredentialService{Store: app.db}
	app.federatedService = &service.FederatedService{Store: app.db}
	app.secretService = &service.SecretService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}

	app.sessions = session.NewManager(session.Config{
		CookieName: "whisperwall_session",
		Lifetime:   app.cfg.SessionLifetime,
		Secure:   app.cfg.SecureCookies(),
	}, app.userService)
}

// initGoogle sets up the Google login flow when credentials are configured.
// Without them the service still runs, with local accounts only.
func (app *Application) initGoogle() error {
	if app.cfg.GoogleClientID == "" && app.cfg.GoogleClientSecret == "" {
		app.logger.Info("google login disabled, no client credentials configured")
		return nil
	}

	google, err := goauth.NewService(
		app.cfg.GoogleClientID,
		app.cfg.GoogleClientSecret,
		app.cfg.GoogleCallbackURL(),
	)
	if err != nil {
		return fmt.Errorf("failed to configure google login: %w", err)
	}
	app.google = google

	app.logger.Info("google login enabled", "callback_url", app.cfg.GoogleCallbackURL())
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	pages, err := httpapi.NewPages()
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.sessions,
		pages,
		app.logger,
	)

	router.CredentialService = app.credentialService
	router.FederatedService = app.federatedService
	router.SecretService = app.secretService
	router.UserService = app.userService
	router.Google = app.google // nil when not configured
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
