// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/command"
)

// RegisterAll registers every executor in matcher order. Panics if a
// registration fails (indicates a programming error).
func RegisterAll(reg *command.Registry) {
	mustRegister := func(entry command.Entry) {
		if err := reg.Register(entry); err != nil {
			panic("failed to register executor " + string(entry.Kind) + ": " + err.Error())
		}
	}

	mustRegister(command.Entry{
		Kind:    command.KindTake,
		Handler: TakeHandler,
	})
	mustRegister(command.Entry{
		Kind:    command.KindMovement,
		Handler: MovementHandler,
	})
	mustRegister(command.Entry{
		Kind:    command.KindEnter,
		Handler: EnterHandler,
	})
	mustRegister(command.Entry{
		Kind:     command.KindTeleport,
		Handler:  TeleportHandler,
		Requires: access.PermTeleport,
	})
	mustRegister(command.Entry{
		Kind:    command.KindLook,
		Handler: LookHandler,
	})
	mustRegister(command.Entry{
		Kind:    command.KindMap,
		Handler: MapHandler,
	})
	mustRegister(command.Entry{
		Kind:    command.KindWho,
		Handler: WhoHandler,
	})
}
