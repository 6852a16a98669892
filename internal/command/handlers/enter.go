// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// EnterHandler traverses a transition owned by the requester's tile. With a
// target the first transition carrying that tag is used, otherwise the first
// transition in containment order. A transition whose destination has no
// tile leaves the character floating there, as teleport does.
func EnterHandler(ctx context.Context, exec *command.Execution) error {
	cmd, err := commandAs[command.Enter](exec)
	if err != nil {
		return err
	}
	character, tile, err := locate(exec)
	if err != nil {
		return err
	}

	w := exec.Services.World
	transitions := w.Transitions(tile.ID)
	if len(transitions) == 0 {
		return command.WorldError("There is nowhere to enter from here.", nil)
	}

	var chosen *world.Entity
	for _, tr := range transitions {
		if !cmd.Targeted || tr.Transition.HasTag(cmd.Target) {
			chosen = tr
			break
		}
	}
	if chosen == nil {
		return command.WorldError("Could not find entrance.", nil)
	}

	key := chosen.Transition.Destination()
	at := world.Position(key)
	if err := w.Place(character.ID, key.Zone, key.Coords); err != nil {
		return oops.With("destination", at.String()).Wrap(err)
	}
	destination, ok := w.TileAt(key.Zone, key.Coords)
	if !ok {
		// Same as teleporting off the map: the character floats there.
		slog.InfoContext(ctx, "transition leads off the map",
			"transition_id", chosen.ID.String(),
			"character_id", character.ID.String(),
			"destination", at.String(),
		)
		return nil
	}

	writeOutput(ctx, exec, command.KindEnter, exec.Services.Renderer.RenderTile(destination, false))
	return nil
}
