// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/command/handlers/testutil"
	"github.com/tilemud/tilemud/internal/world"
	"github.com/tilemud/tilemud/pkg/errutil"
)

func TestTakeByName(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	stick := f.Item(tile).Name("stick").CanTake().Build()
	player := f.Player(tile).WithInventory().Build()

	exec, out := f.Exec(player, command.Take{Target: "stick"})
	require.NoError(t, TakeHandler(context.Background(), exec))

	assert.Equal(t, "You take a stick.\n", out.String())
	owner, ok := f.World.Parent(stick.ID)
	require.True(t, ok)
	assert.Equal(t, player.Inventory.ID, owner.ID)
	assert.Equal(t, tile.Position, stick.Position)
}

func TestTakeByShortNameAndTag(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"short name", "sword"},
		{"tag", "weapon"},
		{"tag ignores case", "WEAPON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixture(t)
			tile := f.Tile().Build()
			f.Item(tile).Name("rusty sword").ShortName("sword").Tags("Weapon").CanTake().Build()
			player := f.Player(tile).WithInventory().Build()

			exec, out := f.Exec(player, command.Take{Target: tt.target})
			require.NoError(t, TakeHandler(context.Background(), exec))
			assert.Equal(t, "You take a rusty sword.\n", out.String())
		})
	}
}

func TestTakeSingleTakesFirstInContainmentOrder(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	first := f.Item(tile).Name("stick").CanTake().Build()
	second := f.Item(tile).Name("stick").CanTake().Build()
	player := f.Player(tile).WithInventory().Build()

	exec, out := f.Exec(player, command.Take{Target: "stick"})
	require.NoError(t, TakeHandler(context.Background(), exec))

	assert.Equal(t, "You take a stick.\n", out.String())
	got := f.World.Children(player.Inventory.ID)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	owner, _ := f.World.Parent(second.ID)
	assert.Equal(t, tile.ID, owner.ID)
}

func TestTakeAll(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	f.Item(tile).Name("stick").CanTake().Build()
	f.Item(tile).Name("stone").Build()
	f.Item(tile).Name("stick").CanTake().Build()
	player := f.Player(tile).WithInventory().Build()

	exec, out := f.Exec(player, command.Take{All: true, Target: "stick"})
	require.NoError(t, TakeHandler(context.Background(), exec))

	assert.Equal(t, "You take 2 sticks.\n", out.String())
	assert.Len(t, f.World.Children(player.Inventory.ID), 2)
	assert.Len(t, f.World.ChildrenWith(tile.ID, world.CapItem), 1, "stone stays behind")
}

func TestTakeNothingMatches(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	f.Item(tile).Name("stone").Build()
	player := f.Player(tile).WithInventory().Build()

	tests := []struct {
		name string
		cmd  command.Take
	}{
		{"absent item", command.Take{Target: "stick"}},
		{"not takable", command.Take{Target: "stone"}},
		{"all of absent item", command.Take{All: true, Target: "stick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, out := f.Exec(player, tt.cmd)
			err := TakeHandler(context.Background(), exec)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, command.CodeWorldError)
			assert.Equal(t, "You don't see a "+tt.cmd.Target+" here.", command.PlayerMessage(err))
			assert.Empty(t, out.String())
		})
	}
	assert.Empty(t, f.World.Children(player.Inventory.ID))
}

func TestTakeWithoutInventory(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	f.Item(tile).Name("stick").CanTake().Build()
	player := f.Player(tile).Build()

	exec, _ := f.Exec(player, command.Take{Target: "stick"})
	err := TakeHandler(context.Background(), exec)
	errutil.AssertErrorCode(t, err, command.CodePrecondition)
	assert.True(t, command.IsSilent(err))
}

func TestTakeOffGraph(t *testing.T) {
	f := testutil.NewFixture(t)
	tile := f.Tile().Build()
	player := f.Player(tile).WithInventory().Build()
	require.NoError(t, f.World.Place(player.Character.ID, world.ZoneVoid, world.Coords{X: 99}))

	exec, _ := f.Exec(player, command.Take{Target: "stick"})
	errutil.AssertErrorCode(t, TakeHandler(context.Background(), exec), command.CodePrecondition)
}

func TestItemNameList(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"empty", nil, ""},
		{"one", []string{"stick"}, "a stick"},
		{"pair of same", []string{"stick", "stick"}, "2 sticks"},
		{"two kinds", []string{"stick", "stone"}, "a stick and a stone"},
		{"grouped in first-seen order", []string{"stone", "stick", "stone", "leaf"}, "2 stones, a stick and a leaf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, itemNameList(tt.names))
		})
	}
}
