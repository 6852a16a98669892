// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/pkg/errutil"
)

var tracer = otel.Tracer("tilemud/command")

// Sink delivers text to a client. Implemented by the outbox.
type Sink interface {
	Send(clientID ulid.ULID, text string)
}

type discardSink struct{}

func (discardSink) Send(ulid.ULID, string) {}

// Dispatcher runs queued commands through their executors.
type Dispatcher struct {
	registry *Registry
	services *Services
	sink     Sink
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithSink sets where executor output and player-facing errors are sent.
// Without a sink output is discarded.
func WithSink(sink Sink) DispatcherOption {
	return func(d *Dispatcher) {
		d.sink = sink
	}
}

// WithLogger overrides the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher. Returns an error if registry or
// services is nil.
func NewDispatcher(registry *Registry, services *Services, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if services == nil {
		return nil, ErrNilServices
	}
	d := &Dispatcher{
		registry: registry,
		services: services,
		sink:     discardSink{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Drain empties the bus and executes its commands. Commands are grouped by
// kind in registry order; within a kind they run in arrival order. Returns
// the number of commands handed to an executor.
func (d *Dispatcher) Drain(ctx context.Context, bus *Bus) int {
	queued := bus.Drain()
	if len(queued) == 0 {
		return 0
	}

	byKind := make(map[Kind][]Queued)
	for _, q := range queued {
		kind := q.Command.Kind()
		byKind[kind] = append(byKind[kind], q)
	}

	executed := 0
	for _, kind := range d.registry.Kinds() {
		for _, q := range byKind[kind] {
			_ = d.Execute(ctx, q) //nolint:errcheck // Execute reports its own errors
			executed++
		}
		delete(byKind, kind)
	}
	for kind, rest := range byKind {
		d.logger.WarnContext(ctx, "no executor registered, dropping commands",
			"command", string(kind),
			"dropped", len(rest),
		)
	}
	return executed
}

// Execute runs one command, sends its output or player-facing error to the
// sink, and returns the executor's error.
func (d *Dispatcher) Execute(ctx context.Context, q Queued) (err error) {
	kind := q.Command.Kind()
	entry, ok := d.registry.Get(kind)
	if !ok {
		return ErrNoExecutor(kind)
	}

	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.name", string(kind)),
			attribute.String("client.id", q.ClientID.String()),
		),
	)
	metrics := NewMetricsRecorder(kind)
	defer func() {
		metrics.SetResult(err)
		metrics.Record()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	characterID, ok := d.services.Directory.CharacterFor(q.ClientID)
	if !ok {
		err = ErrNoCharacter()
		d.report(ctx, q, err)
		return err
	}
	span.SetAttributes(attribute.String("character.id", characterID.String()))

	if entry.Requires != access.PermNone {
		ent, found := d.services.World.Get(characterID)
		if !found || ent.Character == nil || !ent.Character.Can(entry.Requires) {
			err = ErrPermissionDenied(kind, entry.Requires.String())
			d.report(ctx, q, err)
			return err
		}
	}

	var out bytes.Buffer
	exec := &Execution{
		ClientID:    q.ClientID,
		CharacterID: characterID,
		Command:     q.Command,
		Output:      &out,
		Services:    d.services,
	}
	if err = entry.Handler(ctx, exec); err != nil {
		d.report(ctx, q, err)
		return err
	}

	if text := strings.TrimRight(out.String(), "\n"); text != "" {
		d.sink.Send(q.ClientID, text)
	}
	return nil
}

// report logs err and tells the player what they need to know.
func (d *Dispatcher) report(ctx context.Context, q Queued, err error) {
	attrs := []any{
		"command", string(q.Command.Kind()),
		"client_id", q.ClientID.String(),
	}
	switch {
	case IsSilent(err):
		errutil.LogError(ctx, d.logger, slog.LevelDebug, "command dropped", err, attrs...)
	case ErrorCode(err) == CodeWorldError:
		errutil.LogError(ctx, d.logger, slog.LevelDebug, "command refused", err, attrs...)
		d.sink.Send(q.ClientID, PlayerMessage(err))
	default:
		errutil.LogError(ctx, d.logger, slog.LevelWarn, "command execution failed", err, attrs...)
		d.sink.Send(q.ClientID, PlayerMessage(err))
	}
}
