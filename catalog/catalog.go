// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"
	"strconv"
)

// MaxSelections is the exact number of items a kiosk vote must carry.
const MaxSelections = 3

// DefaultSize is the number of items in the standard deployment.
const DefaultSize = 13

// Item is one selectable entry. NameKey is resolved through the translation tables.
type Item struct {
	ID      string `json:"id"`
	NameKey string `json:"name_key"`
}

// Catalog is the fixed, ordered enumeration of selectable items.
type Catalog struct {
	items []Item
	index map[string]int
}

// New builds the catalog item1..itemN.
func New(size int) (*Catalog, error) {
	if size <= 0 {
		return nil, fmt.Errorf("catalog size must be positive, got %d", size)
	}

	items := make([]Item, 0, size)
	for i := 1; i <= size; i++ {
		id := "item" + strconv.Itoa(i)
		items = append(items, Item{ID: id, NameKey: id})
	}
	return FromItems(items), nil
}

// FromItems builds a catalog from an explicit item list. Duplicate IDs keep the first entry.
func FromItems(items []Item) *Catalog {
	c := &Catalog{index: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := c.index[it.ID]; dup {
			continue
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the item IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.items)
}
