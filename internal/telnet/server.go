// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package telnet provides the line-oriented TCP adapter in front of the
// engine.
package telnet

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/core"
	"github.com/tilemud/tilemud/internal/observability"
)

// Listen retry defaults.
const (
	DefaultListenRetries = 5
	DefaultListenBackoff = 100 * time.Millisecond
)

// Engine is the part of core.Engine the adapter drives.
type Engine interface {
	Login(ctx context.Context, client core.Client, name string) (*core.Session, error)
	Logout(ctx context.Context, clientID ulid.ULID) error
	Submit(ctx context.Context, clientID ulid.ULID, text string) error
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics counts accepted connections on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithListenRetry sets how often and how patiently Run retries a failed
// listen.
func WithListenRetry(retries uint64, base time.Duration) Option {
	return func(s *Server) {
		s.listenRetries = retries
		s.listenBackoff = base
	}
}

// Server is a telnet server.
type Server struct {
	addr     string
	engine   Engine
	outbox   *core.Outbox
	matchers *command.Matchers
	metrics  *observability.Metrics

	listenRetries uint64
	listenBackoff time.Duration

	mu       sync.RWMutex
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer creates a new telnet server.
func NewServer(addr string, engine Engine, outbox *core.Outbox, opts ...Option) *Server {
	s := &Server{
		addr:          addr,
		engine:        engine,
		outbox:        outbox,
		matchers:      command.DefaultMatchers(),
		listenRetries: DefaultListenRetries,
		listenBackoff: DefaultListenBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the server's listen address, or "" before it listens.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run listens and serves until ctx is cancelled. It returns after every
// connection handler has finished.
func (s *Server) Run(ctx context.Context) error {
	listener, err := s.listen(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("telnet server started", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	})
	defer stop()
	defer s.wg.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("telnet server stopped")
				return nil
			}
			slog.Error("accept failed", "error", err)
			continue
		}
		if s.metrics != nil {
			s.metrics.ConnectionsTotal.WithLabelValues("telnet").Inc()
		}

		handler := NewConnectionHandler(conn, s.engine, s.outbox, s.matchers)
		s.wg.Go(func() {
			handler.Handle(ctx)
		})
	}
}

func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	var (
		lc       net.ListenConfig
		listener net.Listener
	)
	backoff := retry.WithMaxRetries(s.listenRetries, retry.NewExponential(s.listenBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		l, err := lc.Listen(ctx, "tcp", s.addr)
		if err != nil {
			slog.Warn("telnet listen failed, retrying", "addr", s.addr, "error", err)
			return retry.RetryableError(err)
		}
		listener = l
		return nil
	})
	if err != nil {
		return nil, oops.In("telnet").With("addr", s.addr).Wrapf(err, "failed to listen")
	}
	return listener, nil
}
