package application

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
	"github.com/google/uuid"
)

// ListKeySource yields the list keys sessions are normalized against and the
// state definition whose flag mirrors HorseRecord.State.
type ListKeySource interface {
	ListKeys() []string
	StateDef() (domain.ListDef, bool)
}

// RosterSource yields the horses a new session is built from.
type RosterSource interface {
	Items() []domain.CatalogItem
}

type SessionManagerOption func(*SessionManager)

func WithSessionTTL(ttl time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithSessionIDGenerator(fn func(now time.Time) domain.SessionID) SessionManagerOption {
	return func(m *SessionManager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// SessionManager is the single owner of the live Session. Every read returns
// a copy; every mutation goes through one of its methods.
type SessionManager struct {
	storage *Storage
	lists   ListKeySource
	roster  RosterSource
	clock   ports.Clock
	ttl     time.Duration
	newID   func(now time.Time) domain.SessionID
	logger  *slog.Logger

	mu      sync.Mutex
	session *domain.Session
}

func NewSessionManager(storage *Storage, lists ListKeySource, roster RosterSource, clock ports.Clock, logger *slog.Logger, opts ...SessionManagerOption) *SessionManager {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	m := &SessionManager{
		storage: storage,
		lists:   lists,
		roster:  roster,
		clock:   clock,
		ttl:     domain.SessionTTL,
		newID:   newSessionID,
		logger:  orDiscard(logger).With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Load replaces the live session with whatever storage holds. A stored
// session past its expiry is deleted along with its cookie.
func (m *SessionManager) Load(ctx context.Context) (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = m.loadLocked(ctx)
	return m.currentLocked()
}

// CreateNew builds a fresh session from the roster and persists it,
// replacing any live session.
func (m *SessionManager) CreateNew(ctx context.Context) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createLocked(ctx)
	return m.session.Clone()
}

// Ensure guarantees a live session, creating one only when none can be
// loaded, and normalizes its lists against the current keys.
func (m *SessionManager) Ensure(ctx context.Context) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		m.session = m.loadLocked(ctx)
	}
	if m.session.Expired(m.clock.Now()) {
		m.expireLocked(ctx)
	}
	if m.session == nil {
		m.createLocked(ctx)
		return m.session.Clone()
	}

	if m.normalizeLocked() {
		m.saveLocked(ctx)
	}
	return m.session.Clone()
}

// Save persists the live session. It reports false when there is nothing to
// save or the write failed.
func (m *SessionManager) Save(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked(ctx)
}

// UpdateLastUpdated marks the session as edited now, extends its expiry and
// persists it.
func (m *SessionManager) UpdateLastUpdated(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.ErrSessionAbsent
	}
	m.updateLastUpdatedLocked(ctx)
	return nil
}

// TouchExpiry extends the expiry without marking the session edited. It does
// not persist.
func (m *SessionManager) TouchExpiry() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.touchExpiryLocked()
}

// Clear drops the live session and its stored record.
func (m *SessionManager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage.Remove(ctx, SessionKey)
	m.session = nil
	m.logger.Info("session cleared")
}

func (m *SessionManager) Current() (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentLocked()
}

func (m *SessionManager) SetListFlag(ctx context.Context, horseID, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(m.lists.ListKeys(), key) {
		return fmt.Errorf("set list flag %q: %w", key, domain.ErrUnknownListKey)
	}
	horse, err := m.session.Horse(horseID)
	if err != nil {
		return fmt.Errorf("set list flag: %w", err)
	}
	if horse.Lists == nil {
		horse.Lists = map[string]bool{}
	}
	horse.Lists[key] = value
	if key == m.stateKey() {
		horse.State = value
	}

	m.updateLastUpdatedLocked(ctx)
	return nil
}

func (m *SessionManager) SetHorseState(ctx context.Context, horseID string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	horse, err := m.session.Horse(horseID)
	if err != nil {
		return fmt.Errorf("set horse state: %w", err)
	}
	horse.State = value
	horse.SyncStateFlag(m.stateKey())

	m.updateLastUpdatedLocked(ctx)
	return nil
}

// Reconcile re-normalizes a live session after the list configuration
// changed and persists it if anything moved.
func (m *SessionManager) Reconcile(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || !m.normalizeLocked() {
		return false
	}
	m.logger.Debug("session reconciled with list config")
	return m.saveLocked(ctx)
}

// ResumeLoaded prepares a session that was just loaded for use: lists are
// normalized again, the expiry is extended and the result persisted.
func (m *SessionManager) ResumeLoaded(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return false
	}
	m.normalizeLocked()
	m.touchExpiryLocked()
	return m.saveLocked(ctx)
}

func (m *SessionManager) loadLocked(ctx context.Context) *domain.Session {
	raw, found := m.storage.Get(ctx, SessionKey)
	if !found {
		return nil
	}

	now := m.clock.Now()
	decoded, err := decodeSession(raw, m.lists.ListKeys(), now)
	if err != nil {
		m.logger.Debug("stored session unusable", "error", err)
		return nil
	}
	if decoded.Expired {
		m.storage.Remove(ctx, SessionKey)
		sessionsExpiredTotal.Inc()
		m.logger.Info("stored session expired")
		return nil
	}

	session := decoded.Session
	stateKey := m.stateKey()
	for i := range session.Horses {
		session.Horses[i].SyncStateFlag(stateKey)
	}
	if session.ID == "" {
		session.ID = m.newID(now)
	}
	return session
}

func (m *SessionManager) expireLocked(ctx context.Context) {
	m.storage.Remove(ctx, SessionKey)
	m.session = nil
	sessionsExpiredTotal.Inc()
	m.logger.Info("live session expired")
}

func (m *SessionManager) createLocked(ctx context.Context) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)

	m.session = &domain.Session{
		ID:        m.newID(now),
		CreatedAt: now,
		ExpiresAt: &expiresAt,
		Horses:    domain.NewHorseRecords(m.roster.Items(), m.lists.ListKeys()),
	}
	sessionsCreatedTotal.Inc()
	m.logger.Info("session created", "session_id", m.session.ID, "horses", len(m.session.Horses))

	m.saveLocked(ctx)
}

func (m *SessionManager) touchExpiryLocked() {
	if m.session == nil {
		return
	}
	expiresAt := m.clock.Now().Add(m.ttl)
	m.session.ExpiresAt = &expiresAt
}

func (m *SessionManager) updateLastUpdatedLocked(ctx context.Context) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	m.session.LastUpdated = &now
	m.session.ExpiresAt = &expiresAt
	m.saveLocked(ctx)
}

// normalizeLocked reports whether any horse's list map changed.
func (m *SessionManager) normalizeLocked() bool {
	keys := m.lists.ListKeys()
	stateKey := m.stateKey()
	changed := false
	for i := range m.session.Horses {
		horse := &m.session.Horses[i]
		next := domain.NormalizeLists(horse.Lists, keys)
		if !maps.Equal(next, horse.Lists) {
			changed = true
		}
		horse.Lists = next
		if horse.SyncStateFlag(stateKey) {
			changed = true
		}
	}
	return changed
}

func (m *SessionManager) stateKey() string {
	def, ok := m.lists.StateDef()
	if !ok {
		return ""
	}
	return def.Key
}

func (m *SessionManager) saveLocked(ctx context.Context) bool {
	if m.session == nil {
		return false
	}

	raw, err := encodeSession(m.session)
	if err != nil {
		m.logger.Warn("encode session failed", "error", err)
		return false
	}
	return m.storage.Set(ctx, SessionKey, raw)
}

func (m *SessionManager) currentLocked() (*domain.Session, bool) {
	if m.session == nil {
		return nil, false
	}
	return m.session.Clone(), true
}

// newSessionID returns a time-ordered UUIDv7, falling back to the epoch
// milliseconds if the random source fails.
func newSessionID(now time.Time) domain.SessionID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.SessionID(strconv.FormatInt(now.UnixMilli(), 10))
	}
	return domain.SessionID(id.String())
}
