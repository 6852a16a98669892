// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import "errors"

// Sentinel errors returned (wrapped) by World operations.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrDuplicateTile    = errors.New("tile already exists at position")
	ErrContainmentCycle = errors.New("containment cycle")
	ErrInvalidOwner     = errors.New("entity cannot own this child")
)
