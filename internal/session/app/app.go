package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/service"
	"github.com/ksef-tools/ksefauth/internal/session/store"
	filestore "github.com/ksef-tools/ksefauth/internal/session/store/drivers/file"
	"github.com/ksef-tools/ksefauth/internal/session/store/drivers/sqlite"
	"github.com/ksef-tools/ksefauth/pkg/ksefapi"
	"github.com/ksef-tools/ksefauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the session manager with its store, client and config.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	client     *ksefapi.Client
	manager    *service.Manager
	principals []domain.Principal
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ksefauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	principals, err := LoadPrincipals(cfg.SecretsFile)
	if err != nil {
		return nil, err
	}
	app.principals = principals

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.client = ksefapi.NewClient(cfg.BaseURL)
	app.client.PollInterval = cfg.PollInterval
	app.client.HTTPClient.Timeout = cfg.HTTPTimeout

	app.manager = &service.Manager{
		Store: app.db,
		Authenticator: &service.Authenticator{
			API:    app.client,
			Logger: app.logger,
		},
		Logger:        app.logger,
		ExpiryLeeway:  cfg.ExpiryLeeway,
		MaxConcurrent: cfg.RefreshConcurrency,
	}

	return app, nil
}

// Run refreshes every configured principal once and reports the outcome.
// SIGINT/SIGTERM cancels in-flight handshakes; a cancelled attempt never
// persists a partial session.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.cfg.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.cfg.RefreshTimeout)
		defer cancel()
	}

	app.logger.Info("refreshing sessions",
		"principals", len(app.principals),
		"base_url", app.cfg.BaseURL,
		"store", app.cfg.StoreDriver,
	)

	results := app.manager.RefreshAll(ctx, app.principals)

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		result := results[id]
		if result.Err != nil {
			failed++
			app.logger.Error("session refresh failed", "principal", id, "error", result.Err)
			continue
		}
		app.logger.Info("session valid", "principal", id, "valid_until", result.Session.ValidUntil)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d principals failed to refresh", failed, len(app.principals))
	}
	return nil
}

// initStore opens the configured session store driver.
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "file":
		app.db = filestore.NewStore(app.cfg.SessionFile)
		return nil
	case "", "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply store migrations: %w", err)
		}
		app.db = db
		app.logger.Info("session store migrations applied")
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}
