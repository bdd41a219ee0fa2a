package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/okulov/chatter/internal/client/api"
	"github.com/okulov/chatter/internal/client/cache"
	"github.com/okulov/chatter/internal/client/config"
	"github.com/okulov/chatter/internal/client/reconciler"
	"github.com/okulov/chatter/internal/client/storage"
	"github.com/okulov/chatter/internal/logging"
)

type App struct {
	config     *config.Config
	api        api.Client
	store      *storage.Store
	cache      *cache.Cache
	reconciler *reconciler.Reconciler
	watcher    *storage.Watcher
	logger     logging.Logger
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	logger := newFileLogger(c.StateDir)

	store, err := storage.NewStore(c.StateDir, logger)
	if err != nil {
		log.Printf("error initializing local state: %s", err.Error())
		return nil, err
	}

	watcher, err := storage.NewWatcher(store, logger)
	if err != nil {
		log.Printf("error initializing state watcher: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerURL, filepath.Join(store.Dir(), "session.json"), logger)
	userCache := cache.New(store, logger)
	rec := reconciler.New(apiClient, userCache, watcher, c.RefreshInterval, logger)

	return &App{
		config:     c,
		api:        apiClient,
		store:      store,
		cache:      userCache,
		reconciler: rec,
		watcher:    watcher,
		logger:     logger,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the last known session, starts the background reconciliation
// loops, and hands control to the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snap, err := a.reconciler.Load(ctx)
	if err != nil {
		log.Printf("error restoring session: %s", err.Error())
	}
	if snap.State == reconciler.StateAuthenticated {
		log.Printf("Welcome back, %s", snap.User.DisplayName())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.watcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.reconciler.Run(ctx)
	}()

	printlnFn("Chatter CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))

	cancel()
	wg.Wait()
}

// newFileLogger writes JSON logs to client.log in the state directory, so
// diagnostics never interleave with the interactive prompt. If the file
// cannot be opened, logging is disabled rather than breaking the REPL.
func newFileLogger(dir string) logging.Logger {
	if _, err := os.Stat(dir); err != nil {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return logging.NewNop()
		}
	}
	f, err := os.OpenFile(filepath.Join(dir, "client.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o660)
	if err != nil {
		return logging.NewNop()
	}
	return logging.NewJSON(f)
}

func (a *App) isLoggedIn() bool {
	return a.reconciler.Current().State == reconciler.StateAuthenticated
}

func (a *App) getStatus() string {
	snap := a.reconciler.Current()
	switch snap.State {
	case reconciler.StateAuthenticated:
		return "(" + snap.User.Username + ")"
	case reconciler.StateUnavailable:
		return "(offline)"
	default:
		return ""
	}
}
