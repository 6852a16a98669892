// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package worldfile

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/world"
)

// Load adds every zone, tile, item and transition of f to w. Transitions
// may point at missing tiles; they are kept and logged.
func Load(f *File, w *world.World) error {
	tiles := 0
	for _, z := range f.Zones {
		zone := world.Zone(z.Name)
		w.RegisterZone(zone)

		for _, t := range z.Tiles {
			ent, err := w.AddTile(zone, t.Coords.World(), world.Tile{
				Name:        t.Name,
				Description: t.Description,
				Sprite:      t.Sprite,
				Impassable:  t.Impassable,
			})
			if err != nil {
				return oops.In("worldfile").With("zone", z.Name).Wrap(err)
			}
			tiles++

			for _, it := range t.Items {
				_, err := w.AddItem(ent.ID, world.Item{
					Name:      it.Name,
					ShortName: it.ShortName,
					Tags:      it.Tags,
				}, it.Takable)
				if err != nil {
					return oops.In("worldfile").
						With("tile", ent.Position.String()).
						With("item", it.Name).
						Wrap(err)
				}
			}
			for _, tr := range t.Transitions {
				if _, err := w.AddTransition(ent.ID, world.Transition{
					Tags:   tr.Tags,
					Zone:   world.Zone(tr.Zone),
					Coords: tr.Coords.World(),
				}); err != nil {
					return oops.In("worldfile").With("tile", ent.Position.String()).Wrap(err)
				}
			}
		}
	}

	for _, z := range f.Zones {
		for _, t := range z.Tiles {
			for _, tr := range t.Transitions {
				dest := tr.Coords.World()
				if _, ok := w.TileAt(world.Zone(tr.Zone), dest); !ok {
					slog.Warn("transition leads to a missing tile",
						"zone", z.Name,
						"coords", t.Coords.World().String(),
						"destination_zone", tr.Zone,
						"destination_coords", dest.String(),
					)
				}
			}
		}
	}

	slog.Info("world loaded",
		"zones", len(f.Zones),
		"tiles", tiles,
		"spawn", f.SpawnPosition().String(),
	)
	return nil
}

// NewWorld builds a world configured with f's fallback zone and loads f
// into it.
func NewWorld(f *File) (*world.World, error) {
	w := world.New(world.WithFallbackZone(f.Fallback()))
	if err := Load(f, w); err != nil {
		return nil, err
	}
	return w, nil
}
