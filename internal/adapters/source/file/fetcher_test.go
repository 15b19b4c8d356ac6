package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lists.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"key":"state"}]`), 0o600))

	body, err := Fetcher{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"key":"state"}]`, string(body))
}

func TestFetchMissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	_, err := Fetcher{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestFetchRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Fetcher{}.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "source path is required")
}

func TestWatchReportsWritesToTrackedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tracked := filepath.Join(dir, "horses.json")
	require.NoError(t, os.WriteFile(tracked, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, nil, func(path string) { changed <- path }, tracked)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o600)
		_ = os.WriteFile(tracked, []byte(`[{"Barn Name":"Zen"}]`), 0o600)
		select {
		case path := <-changed:
			abs, _ := filepath.Abs(tracked)
			return path == abs
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
