package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bnema/tackcheck/internal/domain"
	"golang.org/x/sync/errgroup"
)

// State is everything a renderer needs to draw one frame.
type State struct {
	Session       *domain.Session
	ListsConfig   domain.ListsConfig
	Catalog       domain.Catalog
	ListsStatus   domain.ResourceStatus
	CatalogStatus domain.ResourceStatus
	StorageOK     bool
}

type Renderer func(ctx context.Context, state State)

// Orchestrator sequences startup and re-renders whenever a background
// refresh lands.
type Orchestrator struct {
	storage  *Storage
	lists    *ListsProvider
	catalog  *CatalogProvider
	sessions *SessionManager
	logger   *slog.Logger

	renderMu sync.Mutex
	render   Renderer

	bgMu       sync.Mutex
	background <-chan error
}

func NewOrchestrator(storage *Storage, lists *ListsProvider, catalog *CatalogProvider, sessions *SessionManager, render Renderer, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		storage:  storage,
		lists:    lists,
		catalog:  catalog,
		sessions: sessions,
		logger:   orDiscard(logger).With("component", "boot"),
		render:   render,
	}

	lists.OnUpdate(func(ctx context.Context, _ domain.ListsConfig) {
		sessions.Reconcile(ctx)
		o.emit(ctx)
	})
	catalog.OnUpdate(func(ctx context.Context, _ domain.Catalog) {
		o.emit(ctx)
	})

	return o
}

// Boot runs the synchronous startup sequence and renders the first frame
// from cached or built-in data. When any provider has a source it then starts
// a background refresh; Wait collects its result.
func (o *Orchestrator) Boot(ctx context.Context) State {
	if migrated := o.storage.MigrateLegacy(ctx); len(migrated) > 0 {
		o.logger.Info("legacy storage migrated", "keys", migrated)
	}

	listsStatus := o.lists.Seed(ctx)
	catalogStatus := o.catalog.Seed(ctx)
	o.logger.Debug("providers seeded", "lists", listsStatus, "catalog", catalogStatus)

	if _, resumed := o.sessions.Load(ctx); resumed {
		o.sessions.ResumeLoaded(ctx)
		o.logger.Debug("session resumed")
	}

	state := o.emit(ctx)

	if o.lists.HasSource() || o.catalog.HasSource() {
		done := o.RefreshInBackground(ctx)
		o.bgMu.Lock()
		o.background = done
		o.bgMu.Unlock()
	}

	return state
}

// Wait blocks until the background refresh started by Boot settles and
// returns its error. It returns nil when Boot started none.
func (o *Orchestrator) Wait() error {
	o.bgMu.Lock()
	done := o.background
	o.background = nil
	o.bgMu.Unlock()

	if done == nil {
		return nil
	}
	return <-done
}

// RefreshAll refreshes lists and catalog concurrently. Each success
// re-renders on its own; the returned error joins both failures.
func (o *Orchestrator) RefreshAll(ctx context.Context) error {
	var listsErr, catalogErr error
	var g errgroup.Group
	g.Go(func() error {
		listsErr = o.lists.Refresh(ctx)
		return nil
	})
	g.Go(func() error {
		catalogErr = o.catalog.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	err := errors.Join(listsErr, catalogErr)
	if err != nil {
		o.logger.Debug("background refresh incomplete", "error", err)
	}
	return err
}

// RefreshInBackground starts RefreshAll and delivers its result on the
// returned channel.
func (o *Orchestrator) RefreshInBackground(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- o.RefreshAll(ctx)
	}()
	return done
}

func (o *Orchestrator) Snapshot() State {
	session, _ := o.sessions.Current()
	return State{
		Session:       session,
		ListsConfig:   o.lists.ListsConfig(),
		Catalog:       o.catalog.Catalog(),
		ListsStatus:   o.lists.Status(),
		CatalogStatus: o.catalog.Status(),
		StorageOK:     o.storage.OK(),
	}
}

func (o *Orchestrator) emit(ctx context.Context) State {
	o.renderMu.Lock()
	defer o.renderMu.Unlock()

	state := o.Snapshot()
	if o.render != nil {
		o.render(ctx, state)
	}
	return state
}
