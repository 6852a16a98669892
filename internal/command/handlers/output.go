// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/observability"
)

// logOutputError logs a write failure at warn level and increments the
// command output failure metric. The command itself still succeeds.
func logOutputError(ctx context.Context, kind command.Kind, charID string, bytesWritten int, err error) {
	slog.WarnContext(ctx, "failed to write command output",
		"command", string(kind),
		"character_id", charID,
		"bytes_written", bytesWritten,
		"error", err,
	)
	observability.RecordCommandOutputFailure(string(kind))
}

// writeOutput writes one message line to the command output.
func writeOutput(ctx context.Context, exec *command.Execution, kind command.Kind, msg string) {
	if n, err := fmt.Fprintln(exec.Output, msg); err != nil {
		logOutputError(ctx, kind, exec.CharacterID.String(), n, err)
	}
}

// writeOutputf writes a formatted message to the command output.
func writeOutputf(ctx context.Context, exec *command.Execution, kind command.Kind, format string, args ...any) {
	if n, err := fmt.Fprintf(exec.Output, format, args...); err != nil {
		logOutputError(ctx, kind, exec.CharacterID.String(), n, err)
	}
}
