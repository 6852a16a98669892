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

func TestMovementSuccess(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Name("Square").Build()
	north := f.Tile().Coords(0, -1, 0).Name("Gate").Description("A tall gate.").Build()
	player := f.Player(origin).WithInventory().Build()

	exec, out := f.Exec(player, command.Movement{Direction: "north"})
	require.NoError(t, MovementHandler(context.Background(), exec))

	assert.Equal(t, "Gate\nA tall gate.\n", out.String())
	owner, ok := f.World.Parent(player.Character.ID)
	require.True(t, ok)
	assert.Equal(t, north.ID, owner.ID)
	assert.Equal(t, north.Position, player.Character.Position)
	assert.Equal(t, north.Position, player.Inventory.Position, "inventory follows its owner")
}

func TestMovementBriefShowsNameOnly(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Build()
	f.Tile().Coords(0, 0, 1).Name("Loft").Description("Dusty.").Build()
	player := f.Player(origin).Brief().Build()

	exec, out := f.Exec(player, command.Movement{Direction: "u"})
	require.NoError(t, MovementHandler(context.Background(), exec))
	assert.Equal(t, "Loft\n", out.String())
}

func TestMovementUsesRenderer(t *testing.T) {
	r := &testutil.MockRenderer{}
	f := testutil.NewFixture(t).WithRenderer(r)
	origin := f.Tile().Build()
	east := f.Tile().Coords(1, 0, 0).Build()
	player := f.Player(origin).Build()
	r.On("RenderTile", east, false).Return("rendered east").Once()

	exec, out := f.Exec(player, command.Movement{Direction: "e"})
	require.NoError(t, MovementHandler(context.Background(), exec))

	assert.Equal(t, "rendered east\n", out.String())
	r.AssertExpectations(t)
}

func TestMovementStaysInZone(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Build()
	f.Tile().Zone(world.ZoneMovement).Coords(1, 0, 0).Build()
	player := f.Player(origin).Build()

	exec, out := f.Exec(player, command.Movement{Direction: "east"})
	err := MovementHandler(context.Background(), exec)

	errutil.AssertErrorCode(t, err, command.CodeWorldError)
	assert.Equal(t, "You can't go that way.", command.PlayerMessage(err))
	assert.Empty(t, out.String())
	assert.Equal(t, origin.Position, player.Character.Position)
}

func TestMovementImpassable(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Build()
	f.Tile().Coords(-1, 1, 0).Name("Wall").Impassable().Build()
	player := f.Player(origin).Build()

	exec, out := f.Exec(player, command.Movement{Direction: "sw"})
	err := MovementHandler(context.Background(), exec)

	errutil.AssertErrorCode(t, err, command.CodeWorldError)
	assert.Equal(t, "Something blocks your path.", command.PlayerMessage(err))
	assert.Empty(t, out.String())
	owner, _ := f.World.Parent(player.Character.ID)
	assert.Equal(t, origin.ID, owner.ID)
}

func TestMovementUnknownDirection(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Build()
	player := f.Player(origin).Build()

	exec, _ := f.Exec(player, command.Movement{Direction: "sideways"})
	errutil.AssertErrorCode(t, MovementHandler(context.Background(), exec), command.CodePrecondition)
}

func TestMovementWrongCommandType(t *testing.T) {
	f := testutil.NewFixture(t)
	origin := f.Tile().Build()
	player := f.Player(origin).Build()

	exec, _ := f.Exec(player, command.Look{})
	errutil.AssertErrorCode(t, MovementHandler(context.Background(), exec), command.CodePrecondition)
}
