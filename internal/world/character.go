// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"github.com/oklog/ulid/v2"

	"github.com/tilemud/tilemud/internal/access"
)

// CharacterConfig holds per-character display preferences.
type CharacterConfig struct {
	Brief bool
}

// Character is the component of a player character entity.
type Character struct {
	Name   string
	Role   access.Permission
	Config CharacterConfig
}

// Can reports whether the character's role grants every bit of p.
func (c *Character) Can(p access.Permission) bool {
	return access.Can(c.Role, p)
}

// AddCharacter creates a character standing on tileID. The character has no
// inventory until AddInventory is called.
func (w *World) AddCharacter(tileID ulid.ULID, ch Character) (*Entity, error) {
	if err := ValidateName(ch.Name); err != nil {
		return nil, err
	}
	c := ch
	return w.addChild(tileID, &Entity{Caps: CapCharacter, Character: &c})
}

// AddInventory gives a character an inventory.
func (w *World) AddInventory(characterID ulid.ULID) (*Entity, error) {
	return w.addChild(characterID, &Entity{Caps: CapInventory})
}

// InventoryOf returns the first inventory owned by id.
func (w *World) InventoryOf(id ulid.ULID) (*Entity, bool) {
	return w.FirstChildWith(id, CapInventory)
}
