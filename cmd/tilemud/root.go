// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the TileMUD CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tilemud",
		Short: "TileMUD - a tile-based text MUD server",
		Long: `TileMUD is a text MUD whose world is a grid of tiles grouped into
zones. Players connect over telnet and type commands that run once per
engine tick.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/tilemud/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateWorldCmd())

	return cmd
}
