package badger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/tackcheck/internal/ports"
	"github.com/dgraph-io/badger/v4"
)

const cookiePrefix = "cookie:"

// CookieJar mirrors session presence as a serialized HTTP cookie whose
// BadgerDB entry expires together with the cookie's Max-Age.
type CookieJar struct {
	db *badger.DB
}

var _ ports.CookieMirror = (*CookieJar)(nil)

func NewCookieJar(db *badger.DB) *CookieJar {
	return &CookieJar{db: db}
}

func (j *CookieJar) Set(ctx context.Context, name string, maxAge time.Duration) error {
	if maxAge <= 0 {
		return j.Clear(ctx, name)
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    "1",
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	}

	err := withUpdate(ctx, j.db, func(txn *badger.Txn) error {
		entry := badger.NewEntry(cookieKey(name), []byte(cookie.String())).WithTTL(maxAge)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set cookie %q: %w", name, err)
	}

	return nil
}

func (j *CookieJar) Clear(ctx context.Context, name string) error {
	err := withUpdate(ctx, j.db, func(txn *badger.Txn) error {
		return txn.Delete(cookieKey(name))
	})
	if err != nil {
		return fmt.Errorf("clear cookie %q: %w", name, err)
	}

	return nil
}

func (j *CookieJar) Present(ctx context.Context, name string) (bool, error) {
	err := withView(ctx, j.db, func(txn *badger.Txn) error {
		_, err := txn.Get(cookieKey(name))
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read cookie %q: %w", name, err)
	}

	return true, nil
}

func cookieKey(name string) []byte {
	return []byte(cookiePrefix + name)
}
