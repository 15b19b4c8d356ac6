package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bnema/tackcheck/internal/adapters/cookie"
	badgerkv "github.com/bnema/tackcheck/internal/adapters/kv/badger"
	chainkv "github.com/bnema/tackcheck/internal/adapters/kv/chain"
	filekv "github.com/bnema/tackcheck/internal/adapters/kv/file"
	passkv "github.com/bnema/tackcheck/internal/adapters/kv/pass"
	tomlkv "github.com/bnema/tackcheck/internal/adapters/kv/toml"
	statusadapter "github.com/bnema/tackcheck/internal/adapters/render/status"
	chainsource "github.com/bnema/tackcheck/internal/adapters/source/chain"
	filesource "github.com/bnema/tackcheck/internal/adapters/source/file"
	"github.com/bnema/tackcheck/internal/adapters/source/remote"
	"github.com/bnema/tackcheck/internal/application"
	"github.com/bnema/tackcheck/internal/config"
	"github.com/bnema/tackcheck/internal/logging"
	"github.com/bnema/tackcheck/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type wireOptions struct {
	debug *bool
}

type app struct {
	cfg            config.Config
	logger         *slog.Logger
	storage        *application.Storage
	lists          *application.ListsProvider
	catalog        *application.CatalogProvider
	sessions       *application.SessionManager
	orchestrator   *application.Orchestrator
	statusRenderer func(application.State, statusadapter.RenderOptions) (string, error)
	now            func() time.Time

	// onFrame receives every state the orchestrator renders. Nil drops them.
	onFrame func(application.State)
	closers []func() error
}

func wireApp(cmd *cobra.Command, opts *wireOptions) (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Debug:  cfg.Log.Debug || (opts != nil && opts.debug != nil && *opts.debug),
		File:   cfg.Log.File,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	a := &app{
		cfg:            cfg,
		logger:         logger,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
		closers:        []func() error{closeLog},
	}

	clock := ports.SystemClock{}
	kv, mirror, closeStore, err := wireStorage(cfg.Storage, clock, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	httpClient := &http.Client{}
	a.storage = application.NewStorage(kv, mirror, cfg.Session.TTL, logger)
	a.lists = application.NewListsProvider(a.storage, wireSource(cfg.Sources.ListsURL, cfg.Sources.ListsFile, cfg.Sources.Timeout, httpClient), clock, logger)
	a.catalog = application.NewCatalogProvider(a.storage, wireSource(cfg.Sources.CatalogURL, cfg.Sources.CatalogFile, cfg.Sources.Timeout, httpClient), clock, logger)
	a.sessions = application.NewSessionManager(a.storage, a.lists, a.catalog, clock, logger, application.WithSessionTTL(cfg.Session.TTL))
	a.orchestrator = application.NewOrchestrator(a.storage, a.lists, a.catalog, a.sessions, a.renderFrame, logger)

	return a, nil
}

// withApp wires a fresh app for one command run and releases it afterwards.
func withApp(opts *wireOptions, run func(cmd *cobra.Command, app *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := wireApp(cmd, opts)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, a.Close())
		}()

		return run(cmd, a, args)
	}
}

// Close waits for the refresh Boot started, so its cache writes land before
// the store closes, then releases resources in reverse order.
func (a *app) Close() error {
	if a.orchestrator != nil {
		if err := a.orchestrator.Wait(); err != nil {
			a.logger.Debug("background refresh incomplete", "error", err)
		}
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *app) renderFrame(_ context.Context, state application.State) {
	if a.onFrame != nil {
		a.onFrame(state)
	}
}

func wireStorage(cfg config.Storage, clock ports.Clock, logger *slog.Logger) (ports.KVStore, ports.CookieMirror, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendTOML:
		store, err := tomlkv.NewStore(filepath.Join(cfg.Path, "store.toml"), clock)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("wire toml store: %w", err)
		}
		return store, cookie.NewStore(store, clock), noop, nil
	case config.BackendFile:
		store := filekv.NewStore(filepath.Join(cfg.Path, "entries"))
		return store, cookie.NewStore(store, clock), noop, nil
	case config.BackendPass:
		// Entries written while pass is unavailable land in the file store.
		store, err := chainkv.NewStoreChecked(passkv.NewStore(passkv.DefaultPrefix), filekv.NewStore(filepath.Join(cfg.Path, "entries")))
		if err != nil {
			return nil, nil, noop, fmt.Errorf("wire pass store: %w", err)
		}
		return store, cookie.NewStore(store, clock), noop, nil
	case config.BackendBadger, config.BackendChain:
		dbCfg := badgerkv.DefaultConfig(filepath.Join(cfg.Path, "badger"))
		dbCfg.Logger = logger.With("component", "badger")
		db, err := badgerkv.Open(dbCfg)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("wire badger store: %w", err)
		}
		var store ports.KVStore = badgerkv.NewStore(db)
		if cfg.Backend == config.BackendChain {
			chained, err := chainkv.NewStoreChecked(store, filekv.NewStore(filepath.Join(cfg.Path, "entries")))
			if err != nil {
				_ = db.Close()
				return nil, nil, noop, fmt.Errorf("wire store chain: %w", err)
			}
			store = chained
		}
		return store, badgerkv.NewCookieJar(db), db.Close, nil
	default:
		return nil, nil, noop, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// wireSource returns nil when neither a URL nor a file is configured, so the
// provider serves its cache or fallback only.
func wireSource(url, path string, timeout time.Duration, client *http.Client) ports.Fetcher {
	var sources []ports.Fetcher
	if url != "" {
		sources = append(sources, remote.Fetcher{URL: url, HTTPClient: client, RequestTimeout: timeout})
	}
	if path != "" {
		sources = append(sources, filesource.Fetcher{Path: path})
	}

	switch len(sources) {
	case 0:
		return nil
	case 1:
		return sources[0]
	default:
		return chainsource.NewFetcher(sources...)
	}
}
