package application

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
)

// Storage is the fail-soft boundary around the key/value backend. Backend
// errors never escape it: reads degrade to "not found", writes return false
// and mark the adapter unhealthy for the rest of the process lifetime.
type Storage struct {
	kv        ports.KVStore
	cookie    ports.CookieMirror
	cookieTTL time.Duration
	logger    *slog.Logger
	healthy   atomic.Bool
}

func NewStorage(kv ports.KVStore, cookie ports.CookieMirror, cookieTTL time.Duration, logger *slog.Logger) *Storage {
	if cookieTTL <= 0 {
		cookieTTL = domain.SessionTTL
	}

	s := &Storage{kv: kv, cookie: cookie, cookieTTL: cookieTTL, logger: orDiscard(logger)}
	s.healthy.Store(true)
	return s
}

// OK reports whether every write so far succeeded.
func (s *Storage) OK() bool {
	return s.healthy.Load()
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn("storage read failed", "key", key, "error", err)
		}
		return "", false
	}

	return value, true
}

func (s *Storage) Set(ctx context.Context, key string, value string) bool {
	if err := s.kv.Put(ctx, key, value); err != nil {
		s.healthy.Store(false)
		storageWriteFailuresTotal.Inc()
		s.logger.Warn("storage write failed", "key", key, "error", err)
		return false
	}

	if key == SessionKey && s.cookie != nil {
		if err := s.cookie.Set(ctx, SessionCookieName, s.cookieTTL); err != nil {
			s.logger.Warn("session cookie write failed", "error", err)
		}
	}

	return true
}

func (s *Storage) Remove(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		s.logger.Warn("storage delete failed", "key", key, "error", err)
	}

	if key == SessionKey && s.cookie != nil {
		if err := s.cookie.Clear(ctx, SessionCookieName); err != nil {
			s.logger.Warn("session cookie clear failed", "error", err)
		}
	}
}

// SessionCookiePresent reports whether the session presence marker is set.
func (s *Storage) SessionCookiePresent(ctx context.Context) bool {
	if s.cookie == nil {
		return false
	}
	present, err := s.cookie.Present(ctx, SessionCookieName)
	if err != nil {
		s.logger.Warn("session cookie read failed", "error", err)
		return false
	}
	return present
}

// MigrateLegacy moves values from legacy keys to their current names. A value
// is copied only when the current key is empty; the legacy key is removed in
// either case, so running it twice is a no-op. Returns the keys that received
// a copy.
func (s *Storage) MigrateLegacy(ctx context.Context) []string {
	var copied []string
	for _, pair := range legacyKeys {
		value, found := s.Get(ctx, pair.from)
		if !found {
			continue
		}

		if _, exists := s.Get(ctx, pair.to); !exists {
			if !s.Set(ctx, pair.to, value) {
				s.logger.Warn("legacy migration copy failed, keeping legacy key", "from", pair.from, "to", pair.to)
				continue
			}
			copied = append(copied, pair.to)
			s.logger.Info("migrated legacy storage key", "from", pair.from, "to", pair.to)
		}

		s.Remove(ctx, pair.from)
	}

	return copied
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
