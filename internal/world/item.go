// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Item is the component of an item entity.
type Item struct {
	Name      string
	ShortName string
	Tags      []string
}

// Matches reports whether target names this item: a case-insensitive equal
// match on the name, the short name, or any whole tag.
func (i *Item) Matches(target string) bool {
	if target == "" {
		return false
	}
	if strings.EqualFold(i.Name, target) || strings.EqualFold(i.ShortName, target) {
		return true
	}
	for _, tag := range i.Tags {
		if strings.EqualFold(tag, target) {
			return true
		}
	}
	return false
}

// AddItem creates an item owned by owner, which must be a tile or an inventory.
func (w *World) AddItem(owner ulid.ULID, item Item, takable bool) (*Entity, error) {
	if err := ValidateName(item.Name); err != nil {
		return nil, err
	}
	if item.ShortName != "" {
		if err := ValidateName(item.ShortName); err != nil {
			return nil, oops.With("field", "short_name").Wrap(err)
		}
	}
	if err := ValidateTags(item.Tags); err != nil {
		return nil, err
	}

	caps := CapItem
	if takable {
		caps |= CapTakable
	}
	it := item
	it.Tags = append([]string(nil), item.Tags...)
	return w.addChild(owner, &Entity{Caps: caps, Item: &it})
}

// addChild inserts e and attaches it under owner. On failure e is not kept.
func (w *World) addChild(owner ulid.ULID, e *Entity) (*Entity, error) {
	if _, err := w.mustGet(owner); err != nil {
		return nil, err
	}
	w.insert(e)
	if err := w.Reparent(e.ID, owner); err != nil {
		delete(w.entities, e.ID)
		return nil, err
	}
	return e, nil
}
