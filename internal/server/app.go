// Package server wires the backend together: configuration, storage, the
// identity service and the HTTP API, with graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthrocket/app/internal/logging"
	"github.com/healthrocket/app/internal/server/config"
	"github.com/healthrocket/app/internal/server/httpapi"
	"github.com/healthrocket/app/internal/server/identity"
	"github.com/healthrocket/app/internal/server/repositories/repomanager"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	closeDB func() error
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	manager := repomanager.NewPostgresRepositoryManager()

	db, err := repomanager.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	identitySvc := identity.NewService(
		manager.Identities(db), manager.RefreshTokens(db),
		[]byte(c.JWTSecret), c.AccessTokenTTL, c.RefreshTokenTTL)

	api := httpapi.NewServer(identitySvc,
		manager.Profiles(db), manager.Assessments(db), manager.LaunchCodes(db),
		logger, c.APIKey, []byte(c.JWTSecret))

	return &App{
		config:  c,
		logger:  logger,
		handler: api.Routes(),
		closeDB: db.Close,
	}, nil
}

// Run serves the HTTP API until ctx is canceled or an OS signal arrives,
// then shuts down draining in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()

	srv := &http.Server{Addr: app.config.Addr, Handler: app.handler}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "err", err)
		}
	}

	if err := app.closeDB(); err != nil {
		app.logger.Error(context.Background(), "db close error", "err", err)
	}
	app.logger.Info(context.Background(), "server stopped")
	return nil
}
