// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
)

// TeleportHandler places the requester at a zone and coordinates. Landing on
// an existing tile reparents into it; otherwise the character floats at the
// position with no owner. Nothing is sent back.
//
// The permission check happens in the dispatcher, so this handler assumes a
// privileged requester.
func TeleportHandler(ctx context.Context, exec *command.Execution) error {
	cmd, err := commandAs[command.Teleport](exec)
	if err != nil {
		return err
	}
	character, err := exec.Character()
	if err != nil {
		return err
	}

	w := exec.Services.World
	zone := character.Position.Zone
	if !cmd.Here {
		zone = w.ResolveZone(cmd.Zone)
		if string(zone) != cmd.Zone {
			slog.InfoContext(ctx, "unknown zone, using fallback",
				"requested", cmd.Zone,
				"zone", zone.String(),
				"character_id", character.ID.String(),
			)
		}
	}

	slog.InfoContext(ctx, "teleporting character",
		"character_id", character.ID.String(),
		"from", character.Position.String(),
		"zone", zone.String(),
		"coords", cmd.Coords.String(),
	)
	if err := w.Place(character.ID, zone, cmd.Coords); err != nil {
		return oops.With("zone", zone.String()).With("coords", cmd.Coords.String()).Wrap(err)
	}
	return nil
}
