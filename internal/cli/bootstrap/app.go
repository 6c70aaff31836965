// Package bootstrap assembles the CLI dependencies from configuration.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"LightAdmin/internal/cli/api"
	"LightAdmin/internal/cli/auth"
	"LightAdmin/internal/cli/gateway"
	fsrepo "LightAdmin/internal/cli/repo/fs"
	reposqlite "LightAdmin/internal/cli/repo/sqlite"
	"LightAdmin/internal/cli/service"
	"LightAdmin/internal/config"
)

// ReloginHint печатается, когда сессия потеряна во время команды.
const ReloginHint = "Session expired: run `lacli login <user>` to sign in again."

// App — собранные зависимости одной команды CLI.
type App struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Store   *fsrepo.AuthFSStore
	Bus     *auth.Bus
	Gateway *gateway.Gateway
	API     *api.Client
	Session *service.SessionService
	Catalog *service.CatalogService

	cache   *reposqlite.SnapshotRepositorySQLite
	mu      sync.Mutex
	quiet   bool
	unwatch func()
	watchWG sync.WaitGroup
}

// NewApp собирает клиента: хранилище токенов, шину состояния, шлюз, API и сервисы.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  fsrepo.NewAuthFSStore(cfg.CredentialsDir),
		Bus:    auth.NewBus(),
	}
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	a.Gateway = gateway.New(strings.TrimRight(cfg.ServerURL, "/")+"/api", client, a.Store, a.Bus, logger)
	a.API = api.New(a.Gateway)
	a.Session = service.NewSessionService(service.NewClientSessionAPI(a.API), a.Store, a.Store, a.Bus, logger)

	a.Catalog = service.NewCatalogService(nil, logger)
	if err := a.UseCurrentUser(); err != nil {
		logger.Debugw("offline cache unavailable", "error", err)
	}
	return a, nil
}

// UseCurrentUser (пере)открывает кэш для сохранённого логина; вызывается и после login.
func (a *App) UseCurrentUser() error {
	cache, err := a.openCache()
	if err != nil {
		return err
	}
	_ = a.cache.Close()
	a.cache = cache
	a.Catalog = service.NewCatalogService(cache, a.Logger)
	return nil
}

// openCache открывает кэш последнего вошедшего пользователя.
func (a *App) openCache() (*reposqlite.SnapshotRepositorySQLite, error) {
	login, err := a.Store.LoadLogin()
	if err != nil {
		return nil, fmt.Errorf("no active user: %w", err)
	}
	r, _, err := reposqlite.OpenForUser(a.Config.ClientDBPath, login)
	if err != nil {
		return nil, fmt.Errorf("open user db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("migrate user db: %w", err)
	}
	return r, nil
}

// WatchAuth prints ReloginHint to w when the state flips to Unauthenticated.
// Output is flushed by Close.
func (a *App) WatchAuth(w io.Writer) {
	ch, cancel := a.Bus.Subscribe()
	a.unwatch = cancel
	a.watchWG.Add(1)
	go func() {
		defer a.watchWG.Done()
		for st := range ch {
			if st != auth.Unauthenticated {
				continue
			}
			a.mu.Lock()
			quiet := a.quiet
			a.mu.Unlock()
			if !quiet {
				fmt.Fprintln(w, ReloginHint)
			}
		}
	}()
}

// Quiet suppresses the re-login hint (explicit logout).
func (a *App) Quiet() {
	a.mu.Lock()
	a.quiet = true
	a.mu.Unlock()
}

// Close stops the watcher and releases the cache.
func (a *App) Close() error {
	if a.unwatch != nil {
		a.unwatch()
		a.watchWG.Wait()
	}
	return a.cache.Close()
}
