// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package telnet

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/core"
)

// logoutTimeout bounds the logout sent when a connection ends.
const logoutTimeout = 2 * time.Second

// ConnectionHandler handles a single telnet connection.
type ConnectionHandler struct {
	conn     net.Conn
	reader   *bufio.Reader
	engine   Engine
	outbox   *core.Outbox
	matchers *command.Matchers
	client   core.Client
	name     string
	loggedIn bool
	quitting bool
}

// NewConnectionHandler creates a new handler.
func NewConnectionHandler(conn net.Conn, engine Engine, outbox *core.Outbox, matchers *command.Matchers) *ConnectionHandler {
	return &ConnectionHandler{
		conn:     conn,
		reader:   bufio.NewReader(conn),
		engine:   engine,
		outbox:   outbox,
		matchers: matchers,
		client:   core.Client{ID: core.NewULID()},
	}
}

// Handle processes the connection until it closes, the client quits or ctx
// is cancelled.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	messages := h.outbox.Subscribe(h.client.ID)
	done := make(chan struct{})
	defer func() {
		close(done)
		if h.loggedIn {
			logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
			if err := h.engine.Logout(logoutCtx, h.client.ID); err != nil {
				slog.Warn("logout failed",
					"client_id", h.client.ID.String(),
					"error", err,
				)
			}
			cancel()
		}
		h.outbox.Unsubscribe(h.client.ID)
		if err := h.conn.Close(); err != nil {
			slog.Debug("error closing connection", "error", err)
		}
	}()

	h.send("Welcome to TileMUD!")
	h.send("Use: connect <name>")

	lineCh := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := h.reader.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			select {
			case lineCh <- strings.TrimSpace(line):
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.send("The server is shutting down.")
			return

		case err := <-errCh:
			if !errors.Is(err, io.EOF) {
				slog.Debug("connection read error",
					"client_id", h.client.ID.String(),
					"error", err,
				)
			}
			return

		case line := <-lineCh:
			h.processLine(ctx, line)
			if h.quitting {
				return
			}

		case msg, ok := <-messages:
			if !ok {
				return
			}
			h.send(msg)
		}
	}
}

func (h *ConnectionHandler) processLine(ctx context.Context, line string) {
	if line == "" {
		return
	}
	verb, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(verb) {
	case "connect":
		h.handleConnect(ctx, strings.TrimSpace(arg))
		return
	case "quit":
		h.handleQuit()
		return
	}

	if !h.loggedIn {
		h.send("You must connect first.")
		return
	}
	// Unknown verbs are refused here without a round trip through the
	// engine. The engine matches the line again against the same immutable
	// registry, so both agree and only the engine publishes the command.
	if _, ok := h.matchers.Match(line); !ok {
		h.send("Huh?")
		return
	}
	if err := h.engine.Submit(ctx, h.client.ID, line); err != nil {
		if errors.Is(err, core.ErrInboxFull) {
			h.send("The world is busy. Try again.")
			return
		}
		slog.Debug("submit failed",
			"client_id", h.client.ID.String(),
			"error", err,
		)
	}
}

func (h *ConnectionHandler) handleConnect(ctx context.Context, name string) {
	if h.loggedIn {
		h.send("Already connected.")
		return
	}
	if name == "" {
		h.send("Usage: connect <name>")
		return
	}

	sess, err := h.engine.Login(ctx, h.client, name)
	if err != nil {
		h.send(loginFailureMessage(err))
		return
	}
	h.loggedIn = true
	h.name = sess.Name
	h.send(fmt.Sprintf("Welcome, %s!", h.name))
}

func (h *ConnectionHandler) handleQuit() {
	h.send("Goodbye!")
	h.quitting = true
}

func (h *ConnectionHandler) send(msg string) {
	if _, err := fmt.Fprintln(h.conn, msg); err != nil {
		slog.Debug("failed to send message to client",
			"client_id", h.client.ID.String(),
			"error", err,
		)
	}
}

func loginFailureMessage(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Could not log in. Try again."
	}
	code, _ := oopsErr.Code().(string)
	switch code {
	case core.CodeInvalidName:
		return "Names must be 2 to 32 letters and single spaces."
	case core.CodeNameInUse:
		return "That name is already in use."
	default:
		return "Could not log in. Try again."
	}
}
