// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"strings"

	"github.com/tilemud/tilemud/internal/command"
)

// WhoHandler lists online characters in login order.
func WhoHandler(ctx context.Context, exec *command.Execution) error {
	names := exec.Services.Directory.OnlineNames()
	writeOutput(ctx, exec, command.KindWho, "Online: "+strings.Join(names, ", "))
	return nil
}
