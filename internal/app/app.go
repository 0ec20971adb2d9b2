package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/modkeep/internal/config"
	"github.com/mwantia/modkeep/internal/editor"
	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/inventory"
	"github.com/mwantia/modkeep/pkg/log"
	"github.com/mwantia/modkeep/pkg/prompt"
	"github.com/mwantia/modkeep/pkg/ui"
	"gorm.io/gorm/logger"
)

const cleanupTimeout = 10 * time.Second

// App owns the services shared by every command: logger, store, prompter
// and console.
type App struct {
	mutex sync.Mutex

	cfg *config.BaseConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	store    *store.SQLiteStore
	prompter prompt.Prompter
	console  *ui.Console
}

func New(cfg *config.BaseConfig, stdout io.Writer) *App {
	return &App{
		cfg:      cfg,
		sc:       container.NewServiceContainer(),
		log:      log.NewLoggerService("modkeep", cfg.Log),
		prompter: prompt.NewHuhPrompter(cfg.Prompt.Accessible),
		console:  ui.NewConsole(stdout, cfg.Log.NoColor),
	}
}

// WithPrompter replaces the interactive prompter.
func (a *App) WithPrompter(p prompt.Prompter) *App {
	a.prompter = p
	return a
}

// WithLogger replaces the logger before Open registers it.
func (a *App) WithLogger(l log.LoggerService) *App {
	a.log = l
	return a
}

// Open opens and migrates the inventory database and registers the
// services in the container.
func (a *App) Open(ctx context.Context) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	level := logger.Silent
	if a.cfg.Database.Debug {
		level = logger.Info
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:     a.cfg.Database.Path,
		LogLevel: level,
	})
	if err != nil {
		return err
	}
	if err := s.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to '%s': %w", a.cfg.Database.Path, err)
	}

	applied, err := s.Migrate(ctx)
	if err != nil {
		s.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if applied > 0 {
		a.log.Info("Applied %d migration(s) to '%s'", applied, s.Path())
	}
	a.store = s

	return a.setupServices()
}

func (a *App) setupServices() error {
	errs := container.Errors{}

	a.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](a.sc,
		container.With[log.LoggerService](),
		container.WithInstance(a.log)))

	a.log.Debug("Registering 'InventoryStore'...")
	errs.Add(container.Register[store.SQLiteStore](a.sc,
		container.With[store.InventoryStore](),
		container.WithInstance(a.store)))

	return errs.Errors()
}

// Run opens the app, runs fn with a context that is cancelled on interrupt
// and cleans up afterwards.
func (a *App) Run(ctx context.Context, fn func(ctx context.Context, a *App) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if err := a.Open(ctx); err != nil {
		return err
	}

	runErr := fn(ctx, a)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	shutdown, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := a.sc.Cleanup(shutdown); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.store = nil
	}
	return nil
}

func (a *App) Config() *config.BaseConfig {
	return a.cfg
}

// resolve looks up the service registered for the interface T.
func resolve[T any](sc *container.ServiceContainer) (T, bool) {
	var zero T
	ok, resolved := sc.ResolveByType(context.Background(), reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return zero, false
	}
	service, ok := resolved.(T)
	return service, ok
}

// Log returns the registered logger, or the bootstrap logger before Open.
func (a *App) Log() log.LoggerService {
	if l, ok := resolve[log.LoggerService](a.sc); ok {
		return l
	}
	return a.log
}

// Store returns the registered store. It is nil before Open and after Close.
func (a *App) Store() store.InventoryStore {
	if a.store == nil {
		return nil
	}
	if s, ok := resolve[store.InventoryStore](a.sc); ok {
		return s
	}
	return a.store
}

func (a *App) Console() *ui.Console {
	return a.console
}

func (a *App) Prompter() prompt.Prompter {
	return a.prompter
}

func (a *App) Catalog() *inventory.Catalog {
	return inventory.NewCatalog(a.Store(), a.Log().Named("catalog"))
}

func (a *App) Scanner() (*inventory.Scanner, error) {
	return inventory.NewScanner(a.cfg.ModDirectory, a.cfg.Scan.Extensions, a.cfg.Scan.Ignore)
}

func (a *App) Reconciler() (*inventory.Reconciler, error) {
	scanner, err := a.Scanner()
	if err != nil {
		return nil, err
	}
	return inventory.NewReconciler(a.Store(), scanner, a.prompter, a.console, a.Log().Named("scan")), nil
}

func (a *App) Editor() *editor.Runner {
	return editor.NewRunner(a.Catalog(), a.prompter, a.console, a.Log().Named("edit"))
}
