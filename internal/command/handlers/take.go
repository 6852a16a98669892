// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// TakeHandler moves matching takable items from the requester's tile into
// their inventory. Without "all" only the first match in containment order
// is taken.
func TakeHandler(ctx context.Context, exec *command.Execution) error {
	cmd, err := commandAs[command.Take](exec)
	if err != nil {
		return err
	}
	character, tile, err := locate(exec)
	if err != nil {
		return err
	}
	w := exec.Services.World
	inventory, ok := w.InventoryOf(character.ID)
	if !ok {
		return command.ErrPrecondition("requester has no inventory", nil)
	}

	var taken []*world.Entity
	for _, item := range w.ChildrenWith(tile.ID, world.CapItem|world.CapTakable) {
		if !item.Item.Matches(cmd.Target) {
			continue
		}
		taken = append(taken, item)
		if !cmd.All {
			break
		}
	}

	if len(taken) == 0 {
		return command.WorldError(fmt.Sprintf("You don't see a %s here.", cmd.Target), nil)
	}

	names := make([]string, 0, len(taken))
	for _, item := range taken {
		if err := w.Reparent(item.ID, inventory.ID); err != nil {
			return oops.With("item_id", item.ID.String()).Wrap(err)
		}
		names = append(names, item.Item.Name)
	}

	writeOutputf(ctx, exec, command.KindTake, "You take %s.\n", itemNameList(names))
	return nil
}

// itemNameList groups names in first-seen order and renders them as
// "a stick", "2 sticks" joined with ", " and a final " and ".
func itemNameList(names []string) string {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for _, name := range names {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	parts := make([]string, len(order))
	for i, name := range order {
		if n := counts[name]; n == 1 {
			parts[i] = "a " + name
		} else {
			parts[i] = fmt.Sprintf("%d %ss", n, name)
		}
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
