package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionTTL is how long a session survives without being touched.
const SessionTTL = 12 * time.Hour

type SessionID string

type HorseRecord struct {
	HorseID    string
	HorseName  string
	BarnActive bool
	State      bool
	Lists      map[string]bool
}

type Session struct {
	ID          SessionID
	CreatedAt   time.Time
	LastUpdated *time.Time
	ExpiresAt   *time.Time
	Horses      []HorseRecord
}

// Present reports whether s counts as a loaded session. A session without
// horses is treated the same as no session at all.
func (s *Session) Present() bool {
	return s != nil && len(s.Horses) > 0
}

func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt == nil {
		return false
	}
	return !s.ExpiresAt.After(now)
}

func (s *Session) Horse(id string) (*HorseRecord, error) {
	if s == nil {
		return nil, ErrSessionAbsent
	}
	for i := range s.Horses {
		if s.Horses[i].HorseID == id {
			return &s.Horses[i], nil
		}
	}
	return nil, fmt.Errorf("horse %q: %w", id, ErrHorseNotFound)
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.LastUpdated != nil {
		lastUpdated := *s.LastUpdated
		out.LastUpdated = &lastUpdated
	}
	if s.ExpiresAt != nil {
		expiresAt := *s.ExpiresAt
		out.ExpiresAt = &expiresAt
	}
	out.Horses = make([]HorseRecord, len(s.Horses))
	for i, horse := range s.Horses {
		horse.Lists = NormalizeLists(horse.Lists, mapKeys(horse.Lists))
		out.Horses[i] = horse
	}
	return &out
}

// SyncStateFlag copies State into Lists under stateKey so the state category
// reads the same from either field. It reports whether Lists changed.
func (h *HorseRecord) SyncStateFlag(stateKey string) bool {
	current, ok := h.Lists[stateKey]
	if stateKey == "" || !ok || current == h.State {
		return false
	}
	h.Lists[stateKey] = h.State
	return true
}

// NormalizeLists returns a map keyed by exactly keys. Stored values survive for
// keys still configured, unknown keys are dropped and new keys start false.
func NormalizeLists(stored map[string]bool, keys []string) map[string]bool {
	lists := make(map[string]bool, len(keys))
	for _, key := range keys {
		lists[key] = stored[key]
	}
	return lists
}

func NewHorseRecords(items []CatalogItem, keys []string) []HorseRecord {
	horses := make([]HorseRecord, 0, len(items))
	for i, item := range items {
		horses = append(horses, HorseRecord{
			HorseID:    HorseIDForIndex(i),
			HorseName:  strings.TrimSpace(item.HorseName),
			BarnActive: item.BarnActive,
			State:      false,
			Lists:      NormalizeLists(nil, keys),
		})
	}
	return horses
}

// HorseIDForIndex maps a zero-based catalog position to its horse id (h1, h2, ...).
func HorseIDForIndex(i int) string {
	return fmt.Sprintf("h%d", i+1)
}

func mapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
