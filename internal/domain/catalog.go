package domain

import "time"

type CatalogItem struct {
	HorseName  string `json:"horseName"`
	BarnActive bool   `json:"barnActive"`
}

type Catalog struct {
	SavedAt time.Time
	Items   []CatalogItem
}

func (c Catalog) Clone() Catalog {
	items := make([]CatalogItem, len(c.Items))
	copy(items, c.Items)
	return Catalog{SavedAt: c.SavedAt, Items: items}
}

var defaultRoster = []string{
	"Apollo",
	"Biscuit",
	"Cinder",
	"Dakota",
	"Juniper",
	"Maverick",
	"Willow",
}

// DefaultCatalog is the roster served when neither the cache nor the remote
// source produced anything usable. Every entry is barn-inactive.
func DefaultCatalog() Catalog {
	items := make([]CatalogItem, 0, len(defaultRoster))
	for _, name := range defaultRoster {
		items = append(items, CatalogItem{HorseName: name, BarnActive: false})
	}
	return Catalog{Items: items}
}
