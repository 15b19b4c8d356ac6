package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
)

type listDefPayload struct {
	Key       string `json:"key" validate:"required"`
	Label     string `json:"label" validate:"required"`
	Type      string `json:"type" validate:"oneof=state list"`
	InNav     *bool  `json:"inNav"`
	InSummary *bool  `json:"inSummary"`
	InShare   *bool  `json:"inShare"`
}

// ListsProvider owns the current ListsConfig.
type ListsProvider struct {
	resource *Resource[domain.ListsConfig]
}

func NewListsProvider(storage *Storage, fetcher ports.Fetcher, clock ports.Clock, logger *slog.Logger) *ListsProvider {
	spec := ResourceSpec[domain.ListsConfig]{
		Name:         "lists",
		CacheKey:     ListsKey,
		DecodeCache:  func(raw string) (domain.ListsConfig, error) { return decodeListsConfig([]byte(raw)) },
		EncodeCache:  encodeListsConfig,
		DecodeRemote: decodeListsConfig,
		Fallback:     domain.DefaultListsConfig,
	}

	return &ListsProvider{resource: NewResource(spec, storage, fetcher, clock, logger)}
}

func (p *ListsProvider) Seed(ctx context.Context) domain.ResourceStatus {
	return p.resource.Seed(ctx)
}

func (p *ListsProvider) Refresh(ctx context.Context) error {
	return p.resource.Refresh(ctx)
}

func (p *ListsProvider) Revalidate(ctx context.Context) error {
	return p.resource.Revalidate(ctx)
}

func (p *ListsProvider) OnUpdate(fn func(ctx context.Context, cfg domain.ListsConfig)) {
	p.resource.OnUpdate(fn)
}

func (p *ListsProvider) Status() domain.ResourceStatus {
	return p.resource.Status()
}

// HasSource reports whether Refresh can reach anything beyond the cache.
func (p *ListsProvider) HasSource() bool {
	return p.resource.HasSource()
}

func (p *ListsProvider) ListsConfig() domain.ListsConfig {
	return p.resource.Value().Clone()
}

func (p *ListsProvider) ListKeys() []string {
	return p.resource.Value().ListKeys()
}

func (p *ListsProvider) StateDef() (domain.ListDef, bool) {
	return p.resource.Value().StateDef()
}

func (p *ListsProvider) ListDefs() []domain.ListDef {
	return p.resource.Value().ListDefs()
}

func (p *ListsProvider) FirstListKey() string {
	return p.resource.Value().FirstListKey()
}

func (p *ListsProvider) IsKnownListKey(key string) bool {
	return p.resource.Value().IsKnownListKey(key)
}

func decodeListsConfig(body []byte) (domain.ListsConfig, error) {
	var payload []listDefPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode lists: %w: %v", domain.ErrMalformedPayload, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("decode lists: %w", domain.ErrEmptyPayload)
	}

	cfg := make(domain.ListsConfig, 0, len(payload))
	for i, entry := range payload {
		entry.Key = strings.TrimSpace(entry.Key)
		entry.Label = strings.TrimSpace(entry.Label)
		if err := payloadValidate.Struct(entry); err != nil {
			return nil, fmt.Errorf("decode lists: entry %d: %w: %v", i, domain.ErrMalformedPayload, err)
		}
		cfg = append(cfg, domain.ListDef{
			Key:       entry.Key,
			Label:     entry.Label,
			Type:      domain.ListType(entry.Type),
			InNav:     boolOrTrue(entry.InNav),
			InSummary: boolOrTrue(entry.InSummary),
			InShare:   boolOrTrue(entry.InShare),
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("decode lists: %w: %v", domain.ErrMalformedPayload, err)
	}

	return cfg, nil
}

func encodeListsConfig(cfg domain.ListsConfig, _ time.Time) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode lists: %w", err)
	}
	return string(data), nil
}

func boolOrTrue(value *bool) bool {
	if value == nil {
		return true
	}
	return *value
}
