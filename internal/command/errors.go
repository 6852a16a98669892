// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes for command dispatch failures.
const (
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeWorldError       = "WORLD_ERROR"
	CodePrecondition     = "PRECONDITION_FAILED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNoCharacter      = "NO_CHARACTER"
	CodeBusFull          = "BUS_FULL"
	CodeNoExecutor       = "NO_EXECUTOR"
)

// Construction errors.
var (
	ErrNilRegistry  = errors.New("registry is nil")
	ErrNilServices  = errors.New("services is nil")
	ErrNilWorld     = errors.New("world is nil")
	ErrNilDirectory = errors.New("directory is nil")
)

// ErrBusFull is returned by Bus.Publish when the bus is at capacity.
var ErrBusFull = oops.Code(CodeBusFull).Errorf("command bus is full")

// ErrPermissionDenied creates an error for a missing permission.
func ErrPermissionDenied(kind Kind, required string) error {
	return oops.Code(CodePermissionDenied).
		With("command", string(kind)).
		With("required", required).
		Errorf("permission denied for command %s", kind)
}

// WorldError creates an error whose message is shown to the player. No world
// state was changed.
func WorldError(message string, cause error) error {
	builder := oops.Code(CodeWorldError).With("message", message)
	if cause != nil {
		return builder.Wrap(cause)
	}
	return builder.Errorf("%s", message)
}

// ErrPrecondition reports that a command could not run because the world was
// not in a shape it expects. Nothing is sent to the player.
func ErrPrecondition(reason string, cause error) error {
	builder := oops.Code(CodePrecondition).With("reason", reason)
	if cause != nil {
		return builder.Wrap(cause)
	}
	return builder.Errorf("precondition failed: %s", reason)
}

// ErrRateLimited creates an error for rate limiting.
func ErrRateLimited(cooldownMs int64) error {
	return oops.Code(CodeRateLimited).
		With("cooldown_ms", cooldownMs).
		Errorf("Too many commands. Please slow down.")
}

// ErrNoCharacter creates an error when a client has no character attached.
func ErrNoCharacter() error {
	return oops.Code(CodeNoCharacter).
		Errorf("no character associated with client")
}

// ErrNoExecutor creates an error for a command kind with no registered executor.
func ErrNoExecutor(kind Kind) error {
	return oops.Code(CodeNoExecutor).
		With("command", string(kind)).
		Errorf("no executor registered for %s", kind)
}

// ErrorCode returns the oops code of err, or "" if it has none.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

// IsSilent reports whether err should be logged without telling the player.
func IsSilent(err error) bool {
	switch ErrorCode(err) {
	case CodePrecondition, CodePermissionDenied, CodeNoCharacter:
		return true
	default:
		return false
	}
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "Something went wrong. Try again."
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}

	switch ErrorCode(err) {
	case CodeWorldError:
		if msg, ok := oopsErr.Context()["message"].(string); ok {
			return msg
		}
		return "Something went wrong. Try again."
	case CodeRateLimited:
		return "Too many commands. Please slow down."
	case CodePermissionDenied:
		return "You don't have permission to do that."
	case CodeNoCharacter:
		return "No character selected. Please connect first."
	default:
		return "Something went wrong. Try again."
	}
}
