package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
	"golang.org/x/sync/singleflight"
)

var errNoSource = errors.New("no source configured")

// ResourceSpec describes how one revalidating resource is cached, decoded and
// defaulted.
type ResourceSpec[T any] struct {
	Name         string
	CacheKey     string
	DecodeCache  func(raw string) (T, error)
	EncodeCache  func(value T, savedAt time.Time) (string, error)
	DecodeRemote func(body []byte) (T, error)
	Fallback     func() T
}

// Resource serves a last-known-good value synchronously and replaces it when a
// background fetch yields a valid payload. A fetch result is applied only if
// no fetch issued after it has already been applied.
type Resource[T any] struct {
	spec    ResourceSpec[T]
	storage *Storage
	fetcher ports.Fetcher
	clock   ports.Clock
	logger  *slog.Logger
	flight  singleflight.Group

	mu       sync.RWMutex
	value    T
	status   domain.ResourceStatus
	issued   uint64
	applied  uint64
	onUpdate []func(ctx context.Context, value T)
}

func NewResource[T any](spec ResourceSpec[T], storage *Storage, fetcher ports.Fetcher, clock ports.Clock, logger *slog.Logger) *Resource[T] {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Resource[T]{
		spec:    spec,
		storage: storage,
		fetcher: fetcher,
		clock:   clock,
		logger:  orDiscard(logger).With("resource", spec.Name),
		value:   spec.Fallback(),
		status:  domain.ResourceStatusLoading,
	}
}

// Seed loads the cached value, or the fallback when the cache is missing or
// does not decode. It never touches the network.
func (r *Resource[T]) Seed(ctx context.Context) domain.ResourceStatus {
	value, status := r.spec.Fallback(), domain.ResourceStatusFallback

	if raw, found := r.storage.Get(ctx, r.spec.CacheKey); found {
		cached, err := r.spec.DecodeCache(raw)
		if err == nil {
			value, status = cached, domain.ResourceStatusReady
		} else {
			r.logger.Debug("ignoring unusable cache", "error", err)
		}
	}

	r.mu.Lock()
	r.value = value
	r.status = status
	r.mu.Unlock()

	return status
}

func (r *Resource[T]) Value() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

func (r *Resource[T]) Status() domain.ResourceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Resource[T]) HasSource() bool {
	return r.fetcher != nil
}

// OnUpdate registers fn to run after every applied refresh.
func (r *Resource[T]) OnUpdate(fn func(ctx context.Context, value T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = append(r.onUpdate, fn)
}

// Refresh fetches the source, joining a fetch already in flight.
func (r *Resource[T]) Refresh(ctx context.Context) error {
	_, err, _ := r.flight.Do(r.spec.Name, func() (interface{}, error) {
		return nil, r.refresh(ctx)
	})
	return err
}

// Revalidate starts a fresh fetch even if one is in flight, for callers that
// know the source changed after the in-flight request was issued.
func (r *Resource[T]) Revalidate(ctx context.Context) error {
	r.flight.Forget(r.spec.Name)
	return r.Refresh(ctx)
}

func (r *Resource[T]) refresh(ctx context.Context) error {
	if r.fetcher == nil {
		return errNoSource
	}

	r.mu.Lock()
	r.issued++
	ticket := r.issued
	r.mu.Unlock()

	body, err := r.fetcher.Fetch(ctx)
	if err != nil {
		resourceRefreshTotal.WithLabelValues(r.spec.Name, outcomeFetchError).Inc()
		r.logger.Debug("refresh fetch failed", "error", err)
		return fmt.Errorf("fetch %s: %w", r.spec.Name, err)
	}

	value, err := r.spec.DecodeRemote(body)
	if err != nil {
		resourceRefreshTotal.WithLabelValues(r.spec.Name, outcomeInvalid).Inc()
		r.logger.Debug("refresh payload rejected", "error", err)
		return fmt.Errorf("decode %s: %w", r.spec.Name, err)
	}

	r.mu.Lock()
	if ticket < r.applied {
		r.mu.Unlock()
		resourceRefreshTotal.WithLabelValues(r.spec.Name, outcomeStale).Inc()
		r.logger.Debug("discarding stale refresh", "ticket", ticket)
		return nil
	}
	r.applied = ticket
	r.value = value
	r.status = domain.ResourceStatusReady
	// Cache writes stay under the lock so they land in ticket order.
	if raw, err := r.spec.EncodeCache(value, r.clock.Now()); err != nil {
		r.logger.Warn("encode cache failed", "error", err)
	} else {
		r.storage.Set(ctx, r.spec.CacheKey, raw)
	}
	hooks := append([]func(context.Context, T){}, r.onUpdate...)
	r.mu.Unlock()

	resourceRefreshTotal.WithLabelValues(r.spec.Name, outcomeUpdated).Inc()
	r.logger.Debug("resource refreshed")

	for _, hook := range hooks {
		hook(ctx, value)
	}

	return nil
}
