package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "entry key is empty"},
		{name: "whitespace", key: "   ", wantErr: "entry key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid entry key"},
		{name: "traversal", key: "../escape", wantErr: "invalid entry key"},
		{name: "deep traversal", key: "../../session", wantErr: "invalid entry key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "tack.session"
	want := `{"sessionId":"s-1"}`

	require.NoError(t, store.Put(context.Background(), key, want))
	require.NoError(t, store.Put(context.Background(), key, want))

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(root, key))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(entryFileMod), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(root, ".entry-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStoreGetMissingKeyWrapsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "tack.lists")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStoreDeleteIsIdempotentWhenEntryMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	key := "tack.catalog"

	require.NoError(t, store.Delete(context.Background(), key))
	require.NoError(t, store.Delete(context.Background(), key))
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, "tack.session", "x"), context.Canceled)
	_, err := store.Get(ctx, "tack.session")
	require.ErrorIs(t, err, context.Canceled)
}
