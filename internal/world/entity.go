// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Capability is a closed set of marker bits describing what an entity is and
// which operations it supports.
type Capability uint16

// Capability markers.
const (
	CapTile Capability = 1 << iota
	CapTransition
	CapItem
	CapTakable
	CapInventory
	CapCharacter
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapTile, "tile"},
	{CapTransition, "transition"},
	{CapItem, "item"},
	{CapTakable, "takable"},
	{CapInventory, "inventory"},
	{CapCharacter, "character"},
}

// String returns the capability names joined with "|".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, cn := range capabilityNames {
		if c&cn.cap != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Entity is a node in the containment forest. Exactly one of the component
// pointers is normally set, matching the entity's capabilities.
type Entity struct {
	ID         ulid.ULID
	Caps       Capability
	Position   Position
	Tile       *Tile
	Transition *Transition
	Item       *Item
	Character  *Character

	owner    ulid.ULID
	children []ulid.ULID
}

// Has reports whether the entity carries every capability in caps.
func (e *Entity) Has(caps Capability) bool {
	return e.Caps&caps == caps
}

// Owner returns the ID of the owning entity. The second value is false for
// roots of the forest.
func (e *Entity) Owner() (ulid.ULID, bool) {
	return e.owner, !e.owner.IsZero()
}

// Name returns a display name for logs and listings.
func (e *Entity) Name() string {
	switch {
	case e.Character != nil:
		return e.Character.Name
	case e.Item != nil:
		return e.Item.Name
	case e.Tile != nil:
		return e.Tile.Name
	case e.Transition != nil:
		return "transition"
	case e.Has(CapInventory):
		return "inventory"
	default:
		return e.ID.String()
	}
}
