package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	kv      *memoryKV
	cookies *memoryCookies
	storage *Storage
	clock   *manualClock
	manager *SessionManager
	keys    *staticKeys
	roster  staticRoster
}

func newSessionFixture(t *testing.T, roster staticRoster, keys ...string) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		kv:      newMemoryKV(),
		cookies: newMemoryCookies(),
		clock:   newManualClock(testNow),
		roster:  roster,
	}
	listKeys := staticKeys(keys)
	f.keys = &listKeys
	f.storage = NewStorage(f.kv, f.cookies, 0, nil)
	f.manager = NewSessionManager(f.storage, keysFunc(func() []string { return *f.keys }), f.roster, f.clock, nil, WithSessionIDGenerator(sequentialIDs()))
	return f
}

type keysFunc func() []string

func (fn keysFunc) ListKeys() []string { return fn() }

func (keysFunc) StateDef() (domain.ListDef, bool) { return domain.ListDef{}, false }

func (f *sessionFixture) setKeys(keys ...string) {
	*f.keys = keys
}

func (f *sessionFixture) storedRecord(t *testing.T) sessionRecord {
	t.Helper()
	var record sessionRecord
	require.NoError(t, json.Unmarshal([]byte(f.kv.value(SessionKey)), &record))
	return record
}

func TestSessionManagerCreateNewFromCatalog(t *testing.T) {
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen", BarnActive: true}}, "list1", "list2")
	before := testutil.ToFloat64(sessionsCreatedTotal)

	session := f.manager.CreateNew(context.Background())

	require.Len(t, session.Horses, 1)
	assert.Equal(t, domain.HorseRecord{
		HorseID:    "h1",
		HorseName:  "Zen",
		BarnActive: true,
		State:      false,
		Lists:      map[string]bool{"list1": false, "list2": false},
	}, session.Horses[0])
	assert.Equal(t, domain.SessionID("session-1"), session.ID)
	assert.Equal(t, testNow, session.CreatedAt)
	assert.Nil(t, session.LastUpdated)
	require.NotNil(t, session.ExpiresAt)
	assert.Equal(t, testNow.Add(12*time.Hour), *session.ExpiresAt)
	assert.Equal(t, before+1, testutil.ToFloat64(sessionsCreatedTotal))

	assert.True(t, f.kv.has(SessionKey))
	present, err := f.cookies.Present(context.Background(), SessionCookieName)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestSessionManagerEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}, {HorseName: "Echo"}}, "list1")

	first := f.manager.Ensure(ctx)
	second := f.manager.Ensure(ctx)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Horses, second.Horses)
}

func TestSessionManagerEnsureResumesStoredSession(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	created := f.manager.CreateNew(ctx)

	other := NewSessionManager(f.storage, f.manager.lists, f.roster, f.clock, nil, WithSessionIDGenerator(sequentialIDs()))
	resumed := other.Ensure(ctx)

	assert.Equal(t, created.ID, resumed.ID)
}

func TestSessionManagerSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen", BarnActive: true}, {HorseName: "Echo"}}, "list1", "list2")
	f.manager.CreateNew(ctx)
	require.NoError(t, f.manager.SetListFlag(ctx, "h2", "list2", true))
	require.NoError(t, f.manager.SetHorseState(ctx, "h1", true))
	saved, ok := f.manager.Current()
	require.True(t, ok)

	loaded, ok := f.manager.Load(ctx)

	require.True(t, ok)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, saved.Horses, loaded.Horses)
	assert.True(t, saved.CreatedAt.Equal(loaded.CreatedAt))
	require.NotNil(t, loaded.LastUpdated)
	assert.True(t, saved.LastUpdated.Equal(*loaded.LastUpdated))
	assert.True(t, saved.ExpiresAt.Equal(*loaded.ExpiresAt))
}

func TestSessionManagerLoadExpiredSession(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	f.manager.CreateNew(ctx)
	before := testutil.ToFloat64(sessionsExpiredTotal)

	f.clock.Advance(12 * time.Hour)
	session, ok := f.manager.Load(ctx)

	assert.False(t, ok)
	assert.Nil(t, session)
	assert.False(t, f.kv.has(SessionKey))
	present, err := f.cookies.Present(ctx, SessionCookieName)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, before+1, testutil.ToFloat64(sessionsExpiredTotal))

	fresh := f.manager.Ensure(ctx)
	assert.Equal(t, domain.SessionID("session-2"), fresh.ID)
}

func TestSessionManagerLoadJustBeforeExpiry(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	f.manager.CreateNew(ctx)

	f.clock.Advance(12*time.Hour - time.Millisecond)
	_, ok := f.manager.Load(ctx)

	assert.True(t, ok)
}

func TestSessionManagerLoadNormalizesUnderDrift(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, nil, "list1", "list3")
	raw := `{
		"sessionId": "abc",
		"createdAt": "2026-03-01T08:00:00Z",
		"lastUpdated": null,
		"expiresAt": "2026-03-01T20:00:00Z",
		"horses": [{"horseId":"h1","horseName":"Zen","barnActive":true,"state":false,"lists":{"list1":true,"list2":true}}]
	}`
	require.NoError(t, f.kv.Put(ctx, SessionKey, raw))

	session, ok := f.manager.Load(ctx)

	require.True(t, ok)
	assert.Equal(t, map[string]bool{"list1": true, "list3": false}, session.Horses[0].Lists)
}

func TestSessionManagerLoadCoercesFields(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, nil, "list1")
	expires := testNow.Add(time.Hour).UnixMilli()
	raw, err := json.Marshal(map[string]any{
		"sessionId": "",
		"expiresAt": expires,
		"horses": []any{
			map[string]any{"horseId": 7, "horseName": "  Zen ", "barnActive": 1, "state": "yes", "lists": map[string]any{"list1": 1}},
			map[string]any{"horseId": "h2", "horseName": "   "},
			map[string]any{"horseName": "Nameless"},
			"garbage",
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.kv.Put(ctx, SessionKey, string(raw)))

	session, ok := f.manager.Load(ctx)

	require.True(t, ok)
	assert.Equal(t, domain.SessionID("session-1"), session.ID)
	require.Len(t, session.Horses, 1)
	assert.Equal(t, domain.HorseRecord{
		HorseID:    "7",
		HorseName:  "Zen",
		BarnActive: true,
		State:      true,
		Lists:      map[string]bool{"list1": true},
	}, session.Horses[0])
	require.NotNil(t, session.ExpiresAt)
	assert.Equal(t, expires, session.ExpiresAt.UnixMilli())
}

func TestSessionManagerLoadTreatsUnusableRecordsAsAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unparsable", raw: `{"sessionId":`},
		{name: "not an object", raw: `[1,2,3]`},
		{name: "horses not an array", raw: `{"sessionId":"a","horses":{"h1":{}}}`},
		{name: "no horses", raw: `{"sessionId":"a","horses":[]}`},
		{name: "no valid horses", raw: `{"sessionId":"a","horses":[{"horseId":"","horseName":"Zen"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newSessionFixture(t, nil, "list1")
			require.NoError(t, f.kv.Put(ctx, SessionKey, tt.raw))

			_, ok := f.manager.Load(ctx)

			assert.False(t, ok)
		})
	}
}

func TestSessionManagerUpdateLastUpdated(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")

	require.ErrorIs(t, f.manager.UpdateLastUpdated(ctx), domain.ErrSessionAbsent)

	f.manager.CreateNew(ctx)
	f.clock.Advance(time.Hour)
	require.NoError(t, f.manager.UpdateLastUpdated(ctx))

	record := f.storedRecord(t)
	require.NotNil(t, record.LastUpdated)
	assert.Equal(t, testNow.Add(time.Hour), *record.LastUpdated)
	assert.Equal(t, testNow.Add(13*time.Hour), *record.ExpiresAt)
}

func TestSessionManagerTouchExpiryDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	f.manager.CreateNew(ctx)

	f.clock.Advance(2 * time.Hour)
	f.manager.TouchExpiry()

	current, ok := f.manager.Current()
	require.True(t, ok)
	assert.Equal(t, testNow.Add(14*time.Hour), *current.ExpiresAt)
	assert.Nil(t, current.LastUpdated)
	assert.Equal(t, testNow.Add(12*time.Hour), *f.storedRecord(t).ExpiresAt)
}

func TestSessionManagerResumeLoadedExtendsAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	f.manager.CreateNew(ctx)
	f.clock.Advance(3 * time.Hour)
	_, ok := f.manager.Load(ctx)
	require.True(t, ok)

	require.True(t, f.manager.ResumeLoaded(ctx))

	record := f.storedRecord(t)
	assert.Equal(t, testNow.Add(15*time.Hour), *record.ExpiresAt)
	assert.Nil(t, record.LastUpdated)
}

func TestSessionManagerMutationsRejectUnknownTargets(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")

	require.ErrorIs(t, f.manager.SetHorseState(ctx, "h1", true), domain.ErrSessionAbsent)

	f.manager.CreateNew(ctx)
	require.ErrorIs(t, f.manager.SetListFlag(ctx, "h1", "nope", true), domain.ErrUnknownListKey)
	require.ErrorIs(t, f.manager.SetListFlag(ctx, "h9", "list1", true), domain.ErrHorseNotFound)
	require.ErrorIs(t, f.manager.SetHorseState(ctx, "h9", true), domain.ErrHorseNotFound)
}

func TestSessionManagerReconcileAfterListsChange(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1", "list2")
	f.manager.CreateNew(ctx)
	require.NoError(t, f.manager.SetListFlag(ctx, "h1", "list1", true))

	f.setKeys("list1", "list5")
	require.True(t, f.manager.Reconcile(ctx))
	assert.False(t, f.manager.Reconcile(ctx), "second reconcile has nothing to do")

	record := f.storedRecord(t)
	assert.Equal(t, map[string]bool{"list1": true, "list5": false}, record.Horses[0].Lists)
}

func TestSessionManagerClear(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	f.manager.CreateNew(ctx)

	f.manager.Clear(ctx)

	_, ok := f.manager.Current()
	assert.False(t, ok)
	assert.False(t, f.kv.has(SessionKey))
	assert.False(t, f.storage.SessionCookiePresent(ctx))
}

func TestSessionManagerEnsureReplacesSessionExpiredInMemory(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, staticRoster{{HorseName: "Zen"}}, "list1")
	first := f.manager.Ensure(ctx)

	f.clock.Advance(13 * time.Hour)
	second := f.manager.Ensure(ctx)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestNewSessionIDIsTimeOrdered(t *testing.T) {
	first := newSessionID(testNow)
	second := newSessionID(testNow)

	assert.Len(t, string(first), 36)
	assert.Less(t, string(first), string(second))
}

func TestSessionManagerListsMatchConfigKeys(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(newMemoryKV(), newMemoryCookies(), 0, nil)
	lists := NewListsProvider(storage, nil, nil, nil)
	lists.Seed(ctx)
	manager := NewSessionManager(storage, lists, staticRoster{{HorseName: "Zen"}, {HorseName: "Echo"}}, newManualClock(testNow), nil)

	session := manager.Ensure(ctx)

	require.Len(t, session.Horses, 2)
	for _, horse := range session.Horses {
		keys := make([]string, 0, len(horse.Lists))
		for key := range horse.Lists {
			keys = append(keys, key)
		}
		assert.ElementsMatch(t, lists.ListsConfig().ListKeys(), keys, horse.HorseID)
	}
	require.NoError(t, manager.SetListFlag(ctx, "h1", "state", true))
	require.NoError(t, manager.SetHorseState(ctx, "h2", true))
	current, ok := manager.Current()
	require.True(t, ok)
	assert.True(t, current.Horses[0].Lists["state"])
	assert.True(t, current.Horses[0].State)
	assert.True(t, current.Horses[1].Lists["state"])
	assert.True(t, current.Horses[1].State)
}
