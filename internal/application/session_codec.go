package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
)

type sessionRecord struct {
	SessionID   string        `json:"sessionId"`
	CreatedAt   time.Time     `json:"createdAt"`
	LastUpdated *time.Time    `json:"lastUpdated"`
	ExpiresAt   *time.Time    `json:"expiresAt"`
	Horses      []horseRecord `json:"horses"`
}

type horseRecord struct {
	HorseID    string          `json:"horseId"`
	HorseName  string          `json:"horseName"`
	BarnActive bool            `json:"barnActive"`
	State      bool            `json:"state"`
	Lists      map[string]bool `json:"lists"`
}

func encodeSession(session *domain.Session) (string, error) {
	record := sessionRecord{
		SessionID:   string(session.ID),
		CreatedAt:   session.CreatedAt.UTC(),
		LastUpdated: utcPtr(session.LastUpdated),
		ExpiresAt:   utcPtr(session.ExpiresAt),
		Horses:      make([]horseRecord, 0, len(session.Horses)),
	}
	for _, horse := range session.Horses {
		record.Horses = append(record.Horses, horseRecord{
			HorseID:    horse.HorseID,
			HorseName:  horse.HorseName,
			BarnActive: horse.BarnActive,
			State:      horse.State,
			Lists:      horse.Lists,
		})
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return string(data), nil
}

// decodedSession is a stored record after coercion. Expired is set when the
// record carried an expiry at or before the load time; Session is nil then.
type decodedSession struct {
	Session *domain.Session
	Expired bool
}

// decodeSession parses a stored session leniently: the record may have been
// written by an older release or edited by hand, so field types are coerced
// rather than trusted. Horses without an id or name are dropped and list maps
// are rebuilt against keys.
func decodeSession(raw string, keys []string, now time.Time) (decodedSession, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return decodedSession{}, fmt.Errorf("decode session: %w: %v", domain.ErrMalformedPayload, err)
	}

	record, ok := doc.(map[string]any)
	if !ok {
		return decodedSession{}, fmt.Errorf("decode session: record is not an object: %w", domain.ErrMalformedPayload)
	}
	rawHorses, ok := record["horses"].([]any)
	if !ok {
		return decodedSession{}, fmt.Errorf("decode session: horses is not an array: %w", domain.ErrMalformedPayload)
	}

	expiresAt, hasExpiry := coerceTime(record["expiresAt"])
	if hasExpiry && !expiresAt.After(now) {
		return decodedSession{Expired: true}, nil
	}

	horses := make([]domain.HorseRecord, 0, len(rawHorses))
	for _, entry := range rawHorses {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := coerceString(fields["horseId"])
		name, _ := coerceString(fields["horseName"])
		if id == "" || name == "" {
			continue
		}
		horses = append(horses, domain.HorseRecord{
			HorseID:    id,
			HorseName:  name,
			BarnActive: truthy(fields["barnActive"]),
			State:      truthy(fields["state"]),
			Lists:      domain.NormalizeLists(coerceFlags(fields["lists"]), keys),
		})
	}
	if len(horses) == 0 {
		return decodedSession{}, fmt.Errorf("decode session: no usable horses: %w", domain.ErrEmptyPayload)
	}

	id, _ := coerceString(record["sessionId"])
	createdAt, _ := coerceTime(record["createdAt"])
	session := &domain.Session{
		ID:        domain.SessionID(id),
		CreatedAt: createdAt,
		Horses:    horses,
	}
	if lastUpdated, ok := coerceTime(record["lastUpdated"]); ok {
		session.LastUpdated = &lastUpdated
	}
	if hasExpiry {
		session.ExpiresAt = &expiresAt
	}

	return decodedSession{Session: session}, nil
}

func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return trimmed(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

func coerceFlags(value any) map[string]bool {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	flags := make(map[string]bool, len(fields))
	for key, v := range fields {
		flags[key] = truthy(v)
	}
	return flags
}

// coerceTime accepts RFC 3339 strings and epoch milliseconds.
func coerceTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func trimmed(value string) string {
	return strings.TrimSpace(value)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
