package domain

import (
	"fmt"
	"strings"
)

type ListType string

const (
	ListTypeState ListType = "state"
	ListTypeList  ListType = "list"
)

type ListDef struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Type      ListType `json:"type"`
	InNav     bool     `json:"inNav"`
	InSummary bool     `json:"inSummary"`
	InShare   bool     `json:"inShare"`
}

// ListsConfig is the ordered set of checklist categories. Exactly one entry has
// type state; the rest are packing lists. Every key, state included, appears in
// HorseRecord.Lists.
type ListsConfig []ListDef

func (c ListsConfig) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("lists config is empty: %w", ErrEmptyPayload)
	}

	seen := make(map[string]struct{}, len(c))
	states := 0
	for i, def := range c {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return fmt.Errorf("list %d: key is required", i)
		}
		if strings.TrimSpace(def.Label) == "" {
			return fmt.Errorf("list %q: label is required", key)
		}
		switch def.Type {
		case ListTypeState:
			states++
		case ListTypeList:
		default:
			return fmt.Errorf("list %q: unsupported type %q", key, def.Type)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("list %q: duplicate key", key)
		}
		seen[key] = struct{}{}
	}

	if states != 1 {
		return fmt.Errorf("lists config has %d state definitions, want exactly 1", states)
	}

	return nil
}

func (c ListsConfig) StateDef() (ListDef, bool) {
	for _, def := range c {
		if def.Type == ListTypeState {
			return def, true
		}
	}
	return ListDef{}, false
}

// ListDefs returns every definition except the state one, in order.
func (c ListsConfig) ListDefs() []ListDef {
	defs := make([]ListDef, 0, len(c))
	for _, def := range c {
		if def.Type == ListTypeState {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// ListKeys returns every definition key in order, the state key included.
// A horse's Lists map is normalized against exactly this set.
func (c ListsConfig) ListKeys() []string {
	keys := make([]string, 0, len(c))
	for _, def := range c {
		keys = append(keys, def.Key)
	}
	return keys
}

func (c ListsConfig) FirstListKey() string {
	defs := c.ListDefs()
	if len(defs) == 0 {
		return ""
	}
	return defs[0].Key
}

func (c ListsConfig) IsKnownListKey(key string) bool {
	for _, def := range c {
		if def.Key == key {
			return true
		}
	}
	return false
}

func (c ListsConfig) Label(key string) string {
	for _, def := range c {
		if def.Key == key {
			return def.Label
		}
	}
	return key
}

func (c ListsConfig) Clone() ListsConfig {
	if c == nil {
		return nil
	}
	out := make(ListsConfig, len(c))
	copy(out, c)
	return out
}

func DefaultListsConfig() ListsConfig {
	return ListsConfig{
		{Key: "state", Label: "Active Horses", Type: ListTypeState, InNav: true, InSummary: true, InShare: true},
		{Key: "list1", Label: "Tack", Type: ListTypeList, InNav: true, InSummary: true, InShare: true},
		{Key: "list2", Label: "Feed", Type: ListTypeList, InNav: true, InSummary: true, InShare: true},
		{Key: "list3", Label: "Grooming", Type: ListTypeList, InNav: true, InSummary: true, InShare: true},
		{Key: "list4", Label: "Trailer", Type: ListTypeList, InNav: true, InSummary: true, InShare: true},
	}
}
