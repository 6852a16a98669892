// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package core runs the game loop. The Engine owns the world from a single
// goroutine: it applies logins and logouts, matches submitted lines onto the
// command bus and drains the bus through the dispatcher once per tick.
package core

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/command/handlers"
	"github.com/tilemud/tilemud/internal/observability"
	"github.com/tilemud/tilemud/internal/world"
	"github.com/tilemud/tilemud/pkg/errutil"
)

var tracer = otel.Tracer("tilemud/core")

// Engine defaults.
const (
	DefaultTickRate      = 10
	DefaultInboxCapacity = 1024

	controlQueueSize = 64

	// stallTicks missed ticks make the engine report itself not ready.
	stallTicks    = 20
	minStallAfter = time.Second
)

// Engine error codes.
const (
	CodeInboxFull     = "INBOX_FULL"
	CodeInvalidName   = "INVALID_NAME"
	CodeNoSpawn       = "NO_SPAWN"
	CodeEngineStopped = "ENGINE_STOPPED"
	CodeNotRunning    = "ENGINE_NOT_RUNNING"
	CodeStalled       = "ENGINE_STALLED"
)

// ErrInboxFull is returned by Submit when the inbox is at capacity.
var ErrInboxFull = oops.Code(CodeInboxFull).Errorf("engine inbox is full")

// ErrEngineStopped is returned to logins still pending when Run exits.
var ErrEngineStopped = oops.Code(CodeEngineStopped).Errorf("engine stopped")

// Line is one raw input line from a client.
type Line struct {
	ClientID   ulid.ULID
	Text       string
	ReceivedAt time.Time
}

// Config holds engine settings.
type Config struct {
	// TickRate is ticks per second. Defaults to DefaultTickRate.
	TickRate int
	// BusCapacity bounds commands per tick. Defaults to command.DefaultBusCapacity.
	BusCapacity int
	// InboxCapacity bounds lines waiting for the next tick.
	// Defaults to DefaultInboxCapacity.
	InboxCapacity int
	// Spawn is where new characters appear. A tile must exist there.
	Spawn world.Position
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithLineLimiter meters submitted lines per client. The limiter is
// driven from the tick loop only.
func WithLineLimiter(l *command.LineLimiter) Option {
	return func(e *Engine) {
		e.limiter = l
	}
}

// WithGrants sets the permission grants applied at login.
func WithGrants(g *access.Grants) Option {
	return func(e *Engine) {
		e.grants = g
	}
}

// WithMetrics records login results on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRenderer overrides the tile renderer. Defaults to world.TextRenderer.
func WithRenderer(r world.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithLogger overrides the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

type loginRequest struct {
	client Client
	name   string
	reply  chan loginResult
}

type loginResult struct {
	session *Session
	err     error
}

// Engine is the tick loop.
type Engine struct {
	world      *world.World
	outbox     *Outbox
	sessions   *SessionManager
	matchers   *command.Matchers
	bus        *command.Bus
	dispatcher *command.Dispatcher
	renderer   world.Renderer
	limiter    *command.LineLimiter
	grants     *access.Grants
	metrics    *observability.Metrics
	logger     *slog.Logger

	tickInterval time.Duration
	spawn        world.Position

	inbox   chan Line
	logins  chan loginRequest
	logouts chan ulid.ULID

	running  atomic.Bool
	ticks    atomic.Uint64
	lastTick atomic.Int64 // unix nanos of the last completed tick
}

// NewEngine builds an engine over w, sending output to outbox. Every
// executor is registered and the matcher registry is built before this
// returns.
func NewEngine(w *world.World, outbox *Outbox, cfg Config, opts ...Option) (*Engine, error) {
	if w == nil {
		return nil, command.ErrNilWorld
	}
	if outbox == nil {
		return nil, oops.Errorf("outbox is nil")
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.InboxCapacity <= 0 {
		cfg.InboxCapacity = DefaultInboxCapacity
	}

	e := &Engine{
		world:        w,
		outbox:       outbox,
		sessions:     NewSessionManager(),
		matchers:     command.DefaultMatchers(),
		bus:          command.NewBus(cfg.BusCapacity),
		renderer:     world.TextRenderer{},
		logger:       slog.Default(),
		tickInterval: time.Second / time.Duration(cfg.TickRate),
		spawn:        cfg.Spawn,
		inbox:        make(chan Line, cfg.InboxCapacity),
		logins:       make(chan loginRequest, controlQueueSize),
		logouts:      make(chan ulid.ULID, controlQueueSize),
	}
	for _, opt := range opts {
		opt(e)
	}

	services, err := command.NewServices(command.ServicesConfig{
		World:     w,
		Renderer:  e.renderer,
		Directory: e.sessions,
	})
	if err != nil {
		return nil, oops.In("core").Wrap(err)
	}
	registry := command.NewRegistry()
	handlers.RegisterAll(registry)
	e.dispatcher, err = command.NewDispatcher(registry, services,
		command.WithSink(outbox),
		command.WithLogger(e.logger),
	)
	if err != nil {
		return nil, oops.In("core").Wrap(err)
	}
	return e, nil
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *SessionManager {
	return e.sessions
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Ready returns nil while Run is active and ticks keep completing. A tick
// loop that has not completed a tick for stallTicks intervals (at least a
// second) is reported as stalled.
func (e *Engine) Ready() error {
	if !e.running.Load() {
		return oops.Code(CodeNotRunning).Errorf("engine not running")
	}
	stallAfter := max(stallTicks*e.tickInterval, minStallAfter)
	since := time.Since(time.Unix(0, e.lastTick.Load()))
	if since > stallAfter {
		return oops.Code(CodeStalled).
			With("since_last_tick", since.String()).
			Errorf("engine stalled")
	}
	return nil
}

// Online returns the number of logged-in characters.
func (e *Engine) Online() int {
	return e.sessions.Count()
}

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 {
	return e.ticks.Load()
}

// Submit queues a line for the next tick. It never blocks: a full inbox
// returns ErrInboxFull.
func (e *Engine) Submit(ctx context.Context, clientID ulid.ULID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case e.inbox <- Line{ClientID: clientID, Text: text, ReceivedAt: time.Now()}:
		return nil
	default:
		return ErrInboxFull
	}
}

// Login requests a character for client, applied at the next tick boundary.
// It blocks until the login is applied or ctx is done.
func (e *Engine) Login(ctx context.Context, client Client, name string) (*Session, error) {
	name = world.NormalizeCharacterName(name)
	if err := world.ValidateCharacterName(name); err != nil {
		return nil, oops.Code(CodeInvalidName).With("name", name).Wrap(err)
	}

	req := loginRequest{client: client, name: name, reply: make(chan loginResult, 1)}
	select {
	case e.logins <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.session, res.err
	case <-ctx.Done():
		// The request is queued and may already be applied. A logout
		// queued now runs after it, so no character is left behind.
		// Callers must not Login a client that already has a session.
		e.abandonLogin(ctx, client.ID)
		return nil, ctx.Err()
	}
}

func (e *Engine) abandonLogin(ctx context.Context, clientID ulid.ULID) {
	select {
	case e.logouts <- clientID:
	default:
		e.logger.WarnContext(ctx, "abandoned login could not queue its logout",
			"client_id", clientID.String(),
		)
	}
}

// Logout removes a client's character at the next tick boundary. Unknown
// clients are ignored when the logout is applied.
func (e *Engine) Logout(ctx context.Context, clientID ulid.ULID) error {
	select {
	case e.logouts <- clientID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the tick loop until ctx is done. Pending logins are refused
// and every remaining character is logged out on the way out.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	e.lastTick.Store(time.Now().UnixNano())
	e.running.Store(true)
	defer e.running.Store(false)

	e.logger.InfoContext(ctx, "engine started",
		"tick_interval", e.tickInterval.String(),
		"spawn", e.spawn.String(),
	)
	for {
		select {
		case <-ctx.Done():
			e.shutdown(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			e.step(ctx)
		}
	}
}

// step runs one tick: logins, then logouts, then queued lines.
func (e *Engine) step(ctx context.Context) {
	for range len(e.logins) {
		req := <-e.logins
		sess, err := e.applyLogin(ctx, req.client, req.name)
		req.reply <- loginResult{session: sess, err: err}
	}
	for range len(e.logouts) {
		e.applyLogout(ctx, <-e.logouts)
	}

	lines := make([]Line, 0, len(e.inbox))
	for range len(e.inbox) {
		lines = append(lines, <-e.inbox)
	}
	e.Tick(ctx, lines)
}

// Tick matches lines onto the bus and drains it through the dispatcher.
// Returns the number of commands executed. Must only be called from the
// goroutine that owns the world.
func (e *Engine) Tick(ctx context.Context, lines []Line) int {
	ctx, span := tracer.Start(ctx, "engine.tick",
		trace.WithAttributes(attribute.Int("tick.lines", len(lines))),
	)
	defer span.End()

	for _, line := range lines {
		sess := e.sessions.Get(line.ClientID)
		if sess == nil {
			e.logger.DebugContext(ctx, "line from client without session",
				"client_id", line.ClientID.String(),
			)
			continue
		}
		e.sessions.Touch(line.ClientID)
		if !e.admit(ctx, sess, line) {
			continue
		}
		if !e.matchers.Parse(line.ClientID, line.Text, e.bus) {
			e.logger.DebugContext(ctx, "no matcher accepted line",
				"client_id", line.ClientID.String(),
			)
		}
	}

	executed := e.dispatcher.Drain(ctx, e.bus)
	span.SetAttributes(attribute.Int("tick.executed", executed))
	e.ticks.Add(1)
	e.lastTick.Store(time.Now().UnixNano())
	return executed
}

// admit runs the line through the limiter. Rejected lines are answered here.
func (e *Engine) admit(ctx context.Context, sess *Session, line Line) bool {
	if e.limiter == nil {
		return true
	}
	role := access.PermNone
	if ent, ok := e.world.Get(sess.CharacterID); ok && ent.Character != nil {
		role = ent.Character.Role
	}
	at := line.ReceivedAt
	if at.IsZero() {
		at = time.Now()
	}
	err := e.limiter.Admit(sess.Client.ID, role, at)
	if err == nil {
		return true
	}
	errutil.LogError(ctx, e.logger, slog.LevelDebug, "line rate limited", err,
		"client_id", sess.Client.ID.String(),
	)
	e.outbox.Send(sess.Client.ID, command.PlayerMessage(err))
	return false
}

func (e *Engine) applyLogin(ctx context.Context, client Client, name string) (*Session, error) {
	sess, err := e.spawnCharacter(client, name)
	if err != nil {
		e.recordLogin("failure")
		errutil.LogError(ctx, e.logger, slog.LevelInfo, "login refused", err,
			"client_id", client.ID.String(),
			"name", name,
		)
		return nil, err
	}
	e.recordLogin("success")
	e.logger.InfoContext(ctx, "character logged in",
		"client_id", client.ID.String(),
		"character_id", sess.CharacterID.String(),
		"name", name,
	)
	if spawn, ok := e.world.ParentTile(sess.CharacterID); ok {
		e.outbox.Send(client.ID, e.renderer.RenderTile(spawn, false))
	}
	return sess, nil
}

func (e *Engine) spawnCharacter(client Client, name string) (*Session, error) {
	spawn, ok := e.world.TileAt(e.spawn.Zone, e.spawn.Coords)
	if !ok {
		return nil, oops.Code(CodeNoSpawn).
			With("spawn", e.spawn.String()).
			Errorf("no tile at spawn position")
	}

	character, err := e.world.AddCharacter(spawn.ID, world.Character{
		Name: name,
		Role: e.grants.RoleFor(name),
	})
	if err != nil {
		return nil, oops.With("name", name).Wrap(err)
	}
	if _, err := e.world.AddInventory(character.ID); err != nil {
		_ = e.world.Remove(character.ID) //nolint:errcheck // just created
		return nil, oops.With("name", name).Wrap(err)
	}
	sess, err := e.sessions.Attach(client, character.ID, name)
	if err != nil {
		_ = e.world.Remove(character.ID) //nolint:errcheck // just created
		return nil, err
	}
	return sess, nil
}

func (e *Engine) applyLogout(ctx context.Context, clientID ulid.ULID) {
	sess, err := e.sessions.Detach(clientID)
	if err != nil {
		errutil.LogError(ctx, e.logger, slog.LevelDebug, "logout without session", err)
		return
	}
	if e.limiter != nil {
		e.limiter.Forget(clientID)
	}
	if err := e.world.Remove(sess.CharacterID); err != nil {
		errutil.LogError(ctx, e.logger, slog.LevelWarn, "failed to remove character", err,
			"client_id", clientID.String(),
			"character_id", sess.CharacterID.String(),
		)
	}
	e.logger.InfoContext(ctx, "character logged out",
		"client_id", clientID.String(),
		"character_id", sess.CharacterID.String(),
		"name", sess.Name,
	)
}

func (e *Engine) shutdown(ctx context.Context) {
	for range len(e.logins) {
		req := <-e.logins
		req.reply <- loginResult{err: ErrEngineStopped}
	}
	for _, id := range e.sessions.ClientIDs() {
		e.applyLogout(ctx, id)
	}
	e.logger.InfoContext(ctx, "engine stopped", "ticks", e.ticks.Load())
}

func (e *Engine) recordLogin(status string) {
	if e.metrics != nil {
		e.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}
