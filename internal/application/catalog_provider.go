package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/bnema/tackcheck/internal/ports"
)

const (
	catalogNameField   = "Barn Name"
	catalogActiveField = "Barn Active"
)

type catalogItemPayload struct {
	HorseName  string `validate:"required"`
	BarnActive bool
}

type catalogCache struct {
	SavedAt time.Time            `json:"savedAt"`
	Items   []domain.CatalogItem `json:"items"`
}

// CatalogProvider owns the horse roster new sessions are built from.
type CatalogProvider struct {
	resource *Resource[domain.Catalog]
}

func NewCatalogProvider(storage *Storage, fetcher ports.Fetcher, clock ports.Clock, logger *slog.Logger) *CatalogProvider {
	spec := ResourceSpec[domain.Catalog]{
		Name:         "catalog",
		CacheKey:     CatalogKey,
		DecodeCache:  decodeCatalogCache,
		EncodeCache:  encodeCatalogCache,
		DecodeRemote: decodeCatalogRows,
		Fallback:     domain.DefaultCatalog,
	}

	return &CatalogProvider{resource: NewResource(spec, storage, fetcher, clock, logger)}
}

func (p *CatalogProvider) Seed(ctx context.Context) domain.ResourceStatus {
	return p.resource.Seed(ctx)
}

func (p *CatalogProvider) Refresh(ctx context.Context) error {
	return p.resource.Refresh(ctx)
}

func (p *CatalogProvider) Revalidate(ctx context.Context) error {
	return p.resource.Revalidate(ctx)
}

func (p *CatalogProvider) OnUpdate(fn func(ctx context.Context, catalog domain.Catalog)) {
	p.resource.OnUpdate(fn)
}

func (p *CatalogProvider) Status() domain.ResourceStatus {
	return p.resource.Status()
}

func (p *CatalogProvider) HasSource() bool {
	return p.resource.HasSource()
}

func (p *CatalogProvider) Catalog() domain.Catalog {
	return p.resource.Value().Clone()
}

func (p *CatalogProvider) Items() []domain.CatalogItem {
	return p.resource.Value().Clone().Items
}

// decodeCatalogRows accepts a JSON array of spreadsheet-style rows. Rows that
// are not objects or lack a usable barn name are dropped.
func decodeCatalogRows(body []byte) (domain.Catalog, error) {
	var rows []any
	if err := json.Unmarshal(body, &rows); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w: %v", domain.ErrMalformedPayload, err)
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := coerceString(row[catalogNameField])
		active, _ := row[catalogActiveField].(bool)
		item, ok := validCatalogItem(name, active)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return domain.Catalog{}, fmt.Errorf("decode catalog: no usable rows: %w", domain.ErrEmptyPayload)
	}

	return domain.Catalog{Items: items}, nil
}

func decodeCatalogCache(raw string) (domain.Catalog, error) {
	var cached catalogCache
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog cache: %w: %v", domain.ErrMalformedPayload, err)
	}

	items := make([]domain.CatalogItem, 0, len(cached.Items))
	for _, entry := range cached.Items {
		if item, ok := validCatalogItem(entry.HorseName, entry.BarnActive); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return domain.Catalog{}, fmt.Errorf("decode catalog cache: %w", domain.ErrEmptyPayload)
	}

	return domain.Catalog{SavedAt: cached.SavedAt, Items: items}, nil
}

func encodeCatalogCache(catalog domain.Catalog, savedAt time.Time) (string, error) {
	data, err := json.Marshal(catalogCache{SavedAt: savedAt.UTC(), Items: catalog.Items})
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	return string(data), nil
}

func validCatalogItem(name string, active bool) (domain.CatalogItem, bool) {
	payload := catalogItemPayload{HorseName: trimmed(name), BarnActive: active}
	if err := payloadValidate.Struct(payload); err != nil {
		return domain.CatalogItem{}, false
	}
	return domain.CatalogItem{HorseName: payload.HorseName, BarnActive: payload.BarnActive}, true
}
