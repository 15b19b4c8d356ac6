package cookie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
)

const keyPrefix = "cookie."

// Store mirrors cookies into any KVStore. Each entry records its own expiry
// because plain key/value backends have no TTL.
type Store struct {
	kv    ports.KVStore
	clock ports.Clock
}

var _ ports.CookieMirror = (*Store)(nil)

func NewStore(kv ports.KVStore, clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Store{kv: kv, clock: clock}
}

func (s *Store) Set(ctx context.Context, name string, maxAge time.Duration) error {
	if maxAge <= 0 {
		return s.Clear(ctx, name)
	}

	expires := s.clock.Now().Add(maxAge).UTC()
	header := (&http.Cookie{
		Name:     name,
		Value:    "1",
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	}).String()

	if err := s.kv.Put(ctx, keyPrefix+name, expires.Format(time.RFC3339Nano)+"\n"+header); err != nil {
		return fmt.Errorf("set cookie %q: %w", name, err)
	}

	return nil
}

func (s *Store) Clear(ctx context.Context, name string) error {
	if err := s.kv.Delete(ctx, keyPrefix+name); err != nil {
		return fmt.Errorf("clear cookie %q: %w", name, err)
	}

	return nil
}

func (s *Store) Present(ctx context.Context, name string) (bool, error) {
	raw, err := s.kv.Get(ctx, keyPrefix+name)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read cookie %q: %w", name, err)
	}

	stamp, _, _ := strings.Cut(raw, "\n")
	expires, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil || !expires.After(s.clock.Now()) {
		if clearErr := s.Clear(ctx, name); clearErr != nil {
			return false, clearErr
		}
		return false, nil
	}

	return true, nil
}
