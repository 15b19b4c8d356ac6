package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := NewStore(path, fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "store.toml"))

	require.NoError(t, store.Put(context.Background(), "tack.session", `{"sessionId":"s-1"}`))
	require.NoError(t, store.Put(context.Background(), "tack.lists", `[]`))
	require.NoError(t, store.Put(context.Background(), "tack.session", `{"sessionId":"s-2"}`))

	got, err := store.Get(context.Background(), "tack.session")
	require.NoError(t, err)
	assert.Equal(t, `{"sessionId":"s-2"}`, got)

	got, err = store.Get(context.Background(), "tack.lists")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
}

func TestStoreRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "store path is empty")
}

func TestStoreMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "missing", "store.toml"))

	_, err := store.Get(context.Background(), "tack.session")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, store.Delete(context.Background(), "tack.session"))
	_, err = os.Stat(store.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreDeleteRemovesOnlyTheKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "store.toml"))
	require.NoError(t, store.Put(context.Background(), "a", "1"))
	require.NoError(t, store.Put(context.Background(), "b", "2"))

	require.NoError(t, store.Delete(context.Background(), "a"))

	_, err := store.Get(context.Background(), "a")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
	got, err := store.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestStorePutEnforcesPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "store.toml")
	store := newTestStore(t, path)

	require.NoError(t, store.Put(context.Background(), "tack.session", "x"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte("entries = ["), 0o600))

	store := newTestStore(t, path)

	_, err := store.Get(context.Background(), "tack.session")
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode store file")
}

func TestStorePutCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "store.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, "tack.session", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStoreConcurrentPutsAcrossInstancesPreserveAllKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	storeA := newTestStore(t, path)
	storeB := newTestStore(t, path)

	const perStoreWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perStoreWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			errCh <- storeA.Put(context.Background(), "a-"+strconv.Itoa(i), "A")
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			errCh <- storeB.Put(context.Background(), "b-"+strconv.Itoa(i), "B")
		}
	}()

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	for i := 0; i < perStoreWrites; i++ {
		_, err := storeA.Get(context.Background(), "b-"+strconv.Itoa(i))
		require.NoError(t, err)
	}
}

func TestStoreSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	store := newTestStore(t, path)

	require.NoError(t, store.Put(context.Background(), "tack.session", "x"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "2026-03-01T12:00:00Z")
}

func TestStoreFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 999",
		"",
		"entries = []",
		"",
	}, "\n")), 0o600))

	store := newTestStore(t, path)

	_, err := store.Get(context.Background(), "tack.session")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported store schema version")
}
