// Package cli is the interactive terminal frontend: a small screen loop per
// routing state, driven entirely by the session controller's snapshots.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/healthrocket/app/internal/client/api"
	"github.com/healthrocket/app/internal/client/config"
	"github.com/healthrocket/app/internal/client/session"
	"github.com/healthrocket/app/internal/client/tokencache"
	"github.com/healthrocket/app/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	client api.Client
	ctrl   *session.Controller
	logger logging.Logger
	reader *bufio.Reader
}

// NewApp wires the local token cache, the API client and the session
// controller, and restores any persisted session.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := tokencache.InitDatabase(ctx, c.CachePath)
	if err != nil {
		logger.Error(ctx, "error initializing session cache", "err", err)
		return nil, err
	}
	cache := tokencache.NewSQLiteRepository(db)

	apiClient, err := api.NewHTTPClient(ctx, c.APIURL, c.APIKey, cache, logger)
	if err != nil {
		return nil, err
	}

	ctrl := session.NewController(apiClient, logger)
	ctrl.Initialize(ctx)

	return &App{
		config: c,
		client: apiClient,
		ctrl:   ctrl,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run drives the root screen loop until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.ctrl.Close()
		_ = a.client.Close()
	}()
	a.Root(ctx)
}
