package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/stretchr/testify/mock"
)

var errDiskFull = errors.New("disk full")

type memoryKV struct {
	mu       sync.Mutex
	values   map[string]string
	failPuts bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, domain.ErrKeyNotFound)
	}
	return value, nil
}

func (m *memoryKV) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPuts {
		return errDiskFull
	}
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

func (m *memoryKV) value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

type memoryCookies struct {
	mu     sync.Mutex
	maxAge map[string]time.Duration
}

func newMemoryCookies() *memoryCookies {
	return &memoryCookies{maxAge: map[string]time.Duration{}}
}

func (c *memoryCookies) Set(_ context.Context, name string, maxAge time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge[name] = maxAge
	return nil
}

func (c *memoryCookies) Clear(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.maxAge, name)
	return nil
}

func (c *memoryCookies) Present(_ context.Context, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.maxAge[name]
	return ok, nil
}

type stubFetcher struct {
	body []byte
	err  error
}

func (f stubFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.body, f.err
}

// funcFetcher lets a test control each call, e.g. to block until released.
type funcFetcher func(ctx context.Context) ([]byte, error)

func (f funcFetcher) Fetch(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// countingFetcher replays responses in order, repeating the last one, and
// counts calls.
type countingFetcher struct {
	mu        sync.Mutex
	calls     int
	responses []stubFetcher
}

func newCountingFetcher(responses ...stubFetcher) *countingFetcher {
	return &countingFetcher{responses: responses}
}

func (f *countingFetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	response := f.responses[min(f.calls, len(f.responses)-1)]
	f.calls++
	f.mu.Unlock()
	return response.Fetch(ctx)
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(now time.Time) *manualClock {
	return &manualClock{now: now}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type staticKeys []string

func (k staticKeys) ListKeys() []string {
	return append([]string(nil), k...)
}

func (staticKeys) StateDef() (domain.ListDef, bool) {
	return domain.ListDef{}, false
}

type staticRoster []domain.CatalogItem

func (r staticRoster) Items() []domain.CatalogItem {
	return append([]domain.CatalogItem(nil), r...)
}

func sequentialIDs() func(time.Time) domain.SessionID {
	var mu sync.Mutex
	n := 0
	return func(time.Time) domain.SessionID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return domain.SessionID(fmt.Sprintf("session-%d", n))
	}
}

func mockAnyContext() interface{} {
	return mock.Anything
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func jsonUnmarshalString(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}
