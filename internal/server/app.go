// Package server initializes and runs the Chatter server: it wires the
// file-backed account store, the in-memory session authority, and the HTTP
// endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/okulov/chatter/internal/logging"
	"github.com/okulov/chatter/internal/server/accounts"
	"github.com/okulov/chatter/internal/server/config"
	"github.com/okulov/chatter/internal/server/httpapi"
	"github.com/okulov/chatter/internal/server/password"
	"github.com/okulov/chatter/internal/server/services"
	"github.com/okulov/chatter/internal/server/sessions"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	sessions *sessions.MemoryStore
	server   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	repo, err := accounts.NewFileRepository(cfg.AccountsFile)
	if err != nil {
		return nil, fmt.Errorf("account store init error: %w", err)
	}

	store := sessions.NewMemoryStore(cfg.SessionTTL, logger)
	svc := services.NewAuthService(repo, store, password.NewBcryptHasher(), logger)
	handlers := httpapi.NewHandlers(svc, logger, cfg.SessionTTL)
	router := httpapi.NewRouter(handlers, logger, cfg.CORSAllowedOrigins)
	srv := httpapi.NewServer(cfg.EndpointAddr, router, logger)

	return &App{config: cfg, logger: logger, sessions: store, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...", "accounts_file", app.config.AccountsFile)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sessions.StartJanitor(ctx, app.config.SessionSweepInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
