// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package catalog holds the meme template catalog. The catalog is loaded
// once at startup from a YAML seed file and is immutable afterwards, so
// reads need no locking.
package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/metrics"
	"github.com/memezing/engine/internal/recommend"
)

// Catalog is the read-only content catalog.
type Catalog struct {
	items []recommend.ContentItem
	byID  map[string]recommend.ContentItem
}

// Load reads the catalog seed file. Every item must carry a unique,
// non-empty ID; popularity must be non-negative.
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	var items []recommend.ContentItem
	if err := k.UnmarshalWithConf("items", &items, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	return New(items)
}

// New builds a catalog from an item list. Used directly in tests and by
// Load.
func New(items []recommend.ContentItem) (*Catalog, error) {
	byID := make(map[string]recommend.ContentItem, len(items))
	active := 0
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %d has no ID", i)
		}
		if _, exists := byID[item.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog item ID %q", item.ID)
		}
		if item.Popularity < 0 {
			return nil, fmt.Errorf("catalog item %q has negative popularity", item.ID)
		}
		byID[item.ID] = item
		if item.Active {
			active++
		}
	}

	copied := make([]recommend.ContentItem, len(items))
	copy(copied, items)

	metrics.SetCatalogSize(active, len(items)-active)
	logging.Info().
		Int("items", len(items)).
		Int("active", active).
		Msg("catalog loaded")

	return &Catalog{items: copied, byID: byID}, nil
}

// Items returns every catalog item in seed order.
func (c *Catalog) Items() []recommend.ContentItem {
	out := make([]recommend.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// ActiveItems returns the active items in seed order. This is the
// candidate list handed to the recommendation selector.
func (c *Catalog) ActiveItems() []recommend.ContentItem {
	out := make([]recommend.ContentItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Active {
			out = append(out, item)
		}
	}
	return out
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (recommend.ContentItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the total item count.
func (c *Catalog) Len() int {
	return len(c.items)
}
