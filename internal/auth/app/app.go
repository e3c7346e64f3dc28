package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/gatehouselabs/gatehouse/internal/auth/http"
	"github.com/gatehouselabs/gatehouse/internal/auth/service"
	"github.com/gatehouselabs/gatehouse/internal/auth/store"
	"github.com/gatehouselabs/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
	"github.com/gatehouselabs/gatehouse/pkg/jwtx"
	"github.com/gatehouselabs/gatehouse/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the authentication service together: store, signing
// keys, services and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer jwtx.Signer
	keys   *jwtx.KeySet

	tokenService *service.TokenService
	userService  *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	if cfg.HashMemoryKiB > 0 || cfg.HashIterations > 0 || cfg.HashParallelism > 0 {
		params := cryptox.DefaultParams()
		if cfg.HashMemoryKiB > 0 {
			params.Memory = uint32(cfg.HashMemoryKiB)
		}
		if cfg.HashIterations > 0 {
			params.Iterations = uint32(cfg.HashIterations)
		}
		if cfg.HashParallelism > 0 {
			params.Parallelism = uint8(cfg.HashParallelism)
		}
		cryptox.SetParams(params)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("gatehouse starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

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

	app.logger.Info("gatehouse stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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
	validator := &service.CredentialValidator{
		Policy: service.PasswordPolicy{
			MinLength:        app.cfg.PasswordMinLength,
			RequireUppercase: app.cfg.PasswordRequireUppercase,
			RequireDigit:     app.cfg.PasswordRequireDigit,
			RequireSymbol:    app.cfg.PasswordRequireSymbol,
		},
	}

	app.userService = service.NewUserService(app.db, validator, app.cfg.MaxConcurrentHashes)
	app.tokenService = service.NewTokenService(app.signer, app.cfg.Issuer, app.cfg.AccessTokenTTL)
}

func (app *Application) initHTTP() {
	verifier := jwtx.NewCommonEdDSA(app.keys, app.cfg.Issuer)

	app.router = httpapi.NewRouter(app.keys, verifier, BuildVersion, app.db, app.logger)
	app.router.UserService = app.userService
	app.router.TokenService = app.tokenService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
