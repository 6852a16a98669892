// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/tilemud/tilemud/internal/worldfile"
)

// NewValidateWorldCmd creates the validate-world subcommand.
func NewValidateWorldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-world <file>",
		Short: "Validate a world file without starting the server",
		Long: `Validates a world file against the JSON Schema, then checks its
version, zones, tiles and spawn point, and builds the world in memory.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch world errors early:
  tilemud validate-world configs/world.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWorld(cmd, args[0])
		},
	}
}

func runValidateWorld(cmd *cobra.Command, path string) error {
	f, err := worldfile.ReadFile(path)
	if err != nil {
		return oops.With("path", path).Wrapf(err, "world file invalid")
	}

	w, err := worldfile.NewWorld(f)
	if err != nil {
		return oops.With("path", path).Wrapf(err, "world file does not load")
	}

	tiles := 0
	for _, z := range f.Zones {
		tiles += len(z.Tiles)
	}
	cmd.Printf("%s: ok (%d zones, %d tiles, %d entities)\n", path, len(f.Zones), tiles, w.Len())
	return nil
}
