package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
	"github.com/dgraph-io/badger/v4"
)

const entryPrefix = "kv:"

type Store struct {
	db *badger.DB
}

var _ ports.KVStore = (*Store)(nil)

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if key == "" {
		return errors.New("entry key is empty")
	}

	err := withUpdate(ctx, s.db, func(txn *badger.Txn) error {
		return txn.Set(entryKey(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("put entry %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := withView(ctx, s.db, func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", fmt.Errorf("entry %q: %w", key, domain.ErrKeyNotFound)
		}
		return "", fmt.Errorf("get entry %q: %w", key, err)
	}

	return string(value), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := withUpdate(ctx, s.db, func(txn *badger.Txn) error {
		return txn.Delete(entryKey(key))
	})
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", key, err)
	}

	return nil
}

func entryKey(key string) []byte {
	return []byte(entryPrefix + key)
}
