// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package testutil

import (
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/world"
)

// TileBuilder builds a tile. Defaults: zone void, origin, name "Tile".
type TileBuilder struct {
	f      *Fixture
	zone   world.Zone
	coords world.Coords
	tile   world.Tile
}

// Tile starts a tile builder.
func (f *Fixture) Tile() *TileBuilder {
	return &TileBuilder{f: f, zone: world.ZoneVoid, tile: world.Tile{Name: "Tile"}}
}

// Zone sets the tile's zone.
func (b *TileBuilder) Zone(z world.Zone) *TileBuilder { b.zone = z; return b }

// Coords sets the tile's coordinates.
func (b *TileBuilder) Coords(x, y, z int) *TileBuilder {
	b.coords = world.Coords{X: x, Y: y, Z: z}
	return b
}

// Name sets the tile's name.
func (b *TileBuilder) Name(name string) *TileBuilder { b.tile.Name = name; return b }

// Description sets the tile's description.
func (b *TileBuilder) Description(d string) *TileBuilder { b.tile.Description = d; return b }

// Sprite sets the map glyph.
func (b *TileBuilder) Sprite(s string) *TileBuilder { b.tile.Sprite = s; return b }

// Impassable blocks movement onto the tile.
func (b *TileBuilder) Impassable() *TileBuilder { b.tile.Impassable = true; return b }

// Build adds the tile to the world.
func (b *TileBuilder) Build() *world.Entity {
	b.f.t.Helper()
	e, err := b.f.World.AddTile(b.zone, b.coords, b.tile)
	require.NoError(b.f.t, err)
	return e
}

// ItemBuilder builds an item. Defaults: name "item", not takable.
type ItemBuilder struct {
	f       *Fixture
	owner   *world.Entity
	item    world.Item
	takable bool
}

// Item starts an item builder owned by a tile or inventory.
func (f *Fixture) Item(owner *world.Entity) *ItemBuilder {
	return &ItemBuilder{f: f, owner: owner, item: world.Item{Name: "item"}}
}

// Name sets the item's name.
func (b *ItemBuilder) Name(name string) *ItemBuilder { b.item.Name = name; return b }

// ShortName sets the item's short name.
func (b *ItemBuilder) ShortName(name string) *ItemBuilder { b.item.ShortName = name; return b }

// Tags sets the item's tags.
func (b *ItemBuilder) Tags(tags ...string) *ItemBuilder { b.item.Tags = tags; return b }

// CanTake marks the item takable.
func (b *ItemBuilder) CanTake() *ItemBuilder { b.takable = true; return b }

// Build adds the item to the world.
func (b *ItemBuilder) Build() *world.Entity {
	b.f.t.Helper()
	e, err := b.f.World.AddItem(b.owner.ID, b.item, b.takable)
	require.NoError(b.f.t, err)
	return e
}

// TransitionBuilder builds a transition between two tiles.
type TransitionBuilder struct {
	f        *Fixture
	from, to *world.Entity
	tags     []string
}

// Transition starts a transition builder from one tile to another.
func (f *Fixture) Transition(from, to *world.Entity) *TransitionBuilder {
	return &TransitionBuilder{f: f, from: from, to: to}
}

// Tags sets the transition's tags.
func (b *TransitionBuilder) Tags(tags ...string) *TransitionBuilder { b.tags = tags; return b }

// Build adds the transition to the origin tile.
func (b *TransitionBuilder) Build() *world.Entity {
	b.f.t.Helper()
	e, err := b.f.World.AddTransition(b.from.ID, world.Transition{
		Tags:   b.tags,
		Zone:   b.to.Position.Zone,
		Coords: b.to.Position.Coords,
	})
	require.NoError(b.f.t, err)
	return e
}

// Player is a logged-in character.
type Player struct {
	ClientID  ulid.ULID
	Character *world.Entity
	Inventory *world.Entity // nil unless built WithInventory
}

// PlayerBuilder builds a character attached to a client.
type PlayerBuilder struct {
	f         *Fixture
	tile      *world.Entity
	character world.Character
	inventory bool
}

// Player starts a player builder standing on tile. Defaults: name "Player",
// no permissions, no inventory.
func (f *Fixture) Player(tile *world.Entity) *PlayerBuilder {
	return &PlayerBuilder{f: f, tile: tile, character: world.Character{Name: "Player"}}
}

// Name sets the character's name.
func (b *PlayerBuilder) Name(name string) *PlayerBuilder { b.character.Name = name; return b }

// Role sets the character's permissions.
func (b *PlayerBuilder) Role(p access.Permission) *PlayerBuilder { b.character.Role = p; return b }

// Brief turns on brief tile views.
func (b *PlayerBuilder) Brief() *PlayerBuilder { b.character.Config.Brief = true; return b }

// WithInventory gives the character an inventory.
func (b *PlayerBuilder) WithInventory() *PlayerBuilder { b.inventory = true; return b }

// Build adds the character and attaches a new client to it.
func (b *PlayerBuilder) Build() Player {
	b.f.t.Helper()
	ch, err := b.f.World.AddCharacter(b.tile.ID, b.character)
	require.NoError(b.f.t, err)

	p := Player{ClientID: ulid.Make(), Character: ch}
	if b.inventory {
		p.Inventory, err = b.f.World.AddInventory(ch.ID)
		require.NoError(b.f.t, err)
	}
	b.f.Directory.Attach(p.ClientID, ch.ID, ch.Character.Name)
	return p
}
