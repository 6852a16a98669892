// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	w      *World
	origin *Entity
	east   *Entity
	player *Entity
	inv    *Entity
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	w := New()
	origin, err := w.AddTile(ZoneVoid, Coords{}, Tile{Name: "Origin"})
	require.NoError(t, err)
	east, err := w.AddTile(ZoneVoid, Coords{X: 1}, Tile{Name: "East"})
	require.NoError(t, err)
	player, err := w.AddCharacter(origin.ID, Character{Name: "Ada"})
	require.NoError(t, err)
	inv, err := w.AddInventory(player.ID)
	require.NoError(t, err)
	return fixture{w: w, origin: origin, east: east, player: player, inv: inv}
}

func TestReparentMovesSubtreeAndRefreshesPosition(t *testing.T) {
	f := newFixture(t)
	stick, err := f.w.AddItem(f.inv.ID, Item{Name: "stick"}, true)
	require.NoError(t, err)
	assert.Equal(t, f.origin.Position, stick.Position)

	require.NoError(t, f.w.Reparent(f.player.ID, f.east.ID))

	parent, ok := f.w.Parent(f.player.ID)
	require.True(t, ok)
	assert.Equal(t, f.east.ID, parent.ID)
	assert.Empty(t, f.w.ChildrenWith(f.origin.ID, CapCharacter))
	assert.Equal(t, Position{Zone: ZoneVoid, Coords: Coords{X: 1}}, f.player.Position)
	assert.Equal(t, f.player.Position, f.inv.Position)
	assert.Equal(t, f.player.Position, stick.Position)
}

func TestReparentAppendsInInsertionOrder(t *testing.T) {
	f := newFixture(t)
	a, err := f.w.AddItem(f.origin.ID, Item{Name: "a"}, true)
	require.NoError(t, err)
	b, err := f.w.AddItem(f.origin.ID, Item{Name: "b"}, true)
	require.NoError(t, err)

	require.NoError(t, f.w.Reparent(a.ID, f.inv.ID))
	require.NoError(t, f.w.Reparent(a.ID, f.origin.ID))

	items := f.w.ChildrenWith(f.origin.ID, CapItem)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestReparentIntoSelf(t *testing.T) {
	w := New()
	tile, err := w.AddTile(ZoneVoid, Coords{}, Tile{Name: "Here"})
	require.NoError(t, err)
	player, err := w.AddCharacter(tile.ID, Character{Name: "Ada"})
	require.NoError(t, err)

	err = w.Reparent(player.ID, player.ID)
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestReparentCycleThroughDescendant(t *testing.T) {
	f := newFixture(t)
	// Force an edge that ownership rules would normally block to reach the
	// ancestor walk.
	f.inv.Caps |= CapTile
	err := f.w.Reparent(f.player.ID, f.inv.ID)
	assert.ErrorIs(t, err, ErrContainmentCycle)
}

func TestReparentOwnershipRules(t *testing.T) {
	f := newFixture(t)
	item, err := f.w.AddItem(f.origin.ID, Item{Name: "rock"}, false)
	require.NoError(t, err)

	tests := []struct {
		name  string
		child *Entity
		owner *Entity
	}{
		{"tile is a root", f.east, f.origin},
		{"character needs a tile", f.player, f.inv},
		{"inventory needs a character", f.inv, f.origin},
		{"item cannot own items", item, item},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.w.Reparent(tt.child.ID, tt.owner.ID)
			assert.ErrorIs(t, err, ErrInvalidOwner)
		})
	}
}

func TestReparentUnknownEntity(t *testing.T) {
	f := newFixture(t)
	err := f.w.Reparent(f.w.newID(), f.origin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOntoExistingTile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.w.Place(f.player.ID, ZoneVoid, Coords{X: 1}))

	parent, ok := f.w.ParentTile(f.player.ID)
	require.True(t, ok)
	assert.Equal(t, f.east.ID, parent.ID)
	assert.Equal(t, f.east.Position, f.player.Position)
}

func TestPlaceOffGraphDetaches(t *testing.T) {
	f := newFixture(t)
	target := Coords{X: 7, Y: 7, Z: 7}
	require.NoError(t, f.w.Place(f.player.ID, ZoneMovement, target))

	_, ok := f.w.Parent(f.player.ID)
	assert.False(t, ok)
	assert.Equal(t, Position{Zone: ZoneMovement, Coords: target}, f.player.Position)
	assert.Equal(t, f.player.Position, f.inv.Position)
	assert.Empty(t, f.w.ChildrenWith(f.origin.ID, CapCharacter))
}

func TestRemoveIsRecursive(t *testing.T) {
	f := newFixture(t)
	stick, err := f.w.AddItem(f.inv.ID, Item{Name: "stick"}, true)
	require.NoError(t, err)
	before := f.w.Len()

	require.NoError(t, f.w.Remove(f.player.ID))

	assert.Equal(t, before-3, f.w.Len())
	_, ok := f.w.Get(stick.ID)
	assert.False(t, ok)
	assert.Empty(t, f.w.Children(f.origin.ID))
}

func TestRemoveTileClearsIndex(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.w.Remove(f.east.ID))
	_, ok := f.w.TileAt(ZoneVoid, Coords{X: 1})
	assert.False(t, ok)
}

func TestDetachKeepsPosition(t *testing.T) {
	f := newFixture(t)
	pos := f.player.Position
	require.NoError(t, f.w.Detach(f.player.ID))
	_, ok := f.w.Parent(f.player.ID)
	assert.False(t, ok)
	assert.Equal(t, pos, f.player.Position)
}
