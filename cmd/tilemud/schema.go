// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/tilemud/tilemud/internal/worldfile"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the world file JSON Schema",
		Long: `Prints the JSON Schema that world files are validated against.
Editors can use it for completion and inline validation:
  tilemud schema --out schemas/world.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the schema to this file instead of stdout")

	return cmd
}

func runSchema(cmd *cobra.Command, outPath string) error {
	schema, err := worldfile.GenerateSchema()
	if err != nil {
		return oops.Wrapf(err, "generate schema")
	}

	if outPath == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err //nolint:wrapcheck // stdout write
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return oops.With("path", outPath).Wrapf(err, "create directory")
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return oops.With("path", outPath).Wrapf(err, "write schema")
	}
	cmd.Printf("Generated %s\n", outPath)
	return nil
}
