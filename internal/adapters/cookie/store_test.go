package cookie

import (
	"context"
	"testing"
	"time"

	filestore "github.com/bnema/tackcheck/internal/adapters/kv/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

func TestStoreSetPresentClear(t *testing.T) {
	t.Parallel()

	kv := filestore.NewStore(t.TempDir())
	clock := &stepClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := NewStore(kv, clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tack_session", 12*time.Hour))

	present, err := store.Present(ctx, "tack_session")
	require.NoError(t, err)
	assert.True(t, present)

	raw, err := kv.Get(ctx, "cookie.tack_session")
	require.NoError(t, err)
	assert.Contains(t, raw, "Max-Age=43200")
	assert.Contains(t, raw, "SameSite=Lax")

	require.NoError(t, store.Clear(ctx, "tack_session"))
	present, err = store.Present(ctx, "tack_session")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestStorePresentDropsExpiredCookie(t *testing.T) {
	t.Parallel()

	kv := filestore.NewStore(t.TempDir())
	clock := &stepClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := NewStore(kv, clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tack_session", time.Hour))
	clock.now = clock.now.Add(time.Hour)

	present, err := store.Present(ctx, "tack_session")
	require.NoError(t, err)
	assert.False(t, present)

	_, err = kv.Get(ctx, "cookie.tack_session")
	require.Error(t, err)
}

func TestStoreSetWithNonPositiveMaxAgeClears(t *testing.T) {
	t.Parallel()

	store := NewStore(filestore.NewStore(t.TempDir()), nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tack_session", time.Hour))
	require.NoError(t, store.Set(ctx, "tack_session", 0))

	present, err := store.Present(ctx, "tack_session")
	require.NoError(t, err)
	assert.False(t, present)
}
