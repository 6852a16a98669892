// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package observability serves Prometheus metrics and health checks.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns nil when the process can serve players, or the
// reason it cannot.
type ReadinessChecker func() error

// Server exposes /metrics, /healthz/liveness and /healthz/readiness on a
// private registry.
type Server struct {
	addr     string
	registry *prometheus.Registry
	metrics  *Metrics
	ready    ReadinessChecker

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

// NewServer creates a server for addr ("host:port"). A nil ready always
// reports ready. Nothing listens until Start.
func NewServer(addr string, ready ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(registry),
		ready:    ready,
	}
}

// Metrics returns the metrics registered on the server's registry.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Registerer returns the server's registry for other collectors.
func (s *Server) Registerer() prometheus.Registerer {
	return s.registry
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /healthz/liveness", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /healthz/readiness", s.readiness)
	return mux
}

func (s *Server) readiness(w http.ResponseWriter, _ *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready: "+err.Error())
			return
		}
	}
	writeStatus(w, http.StatusOK, "ok")
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // clients may hang up
	fmt.Fprintln(w, body)
}

// Start binds the listener and serves in the background. The returned
// channel carries a serve failure, if any, and is closed when serving ends.
func (s *Server) Start() (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http != nil {
		return nil, oops.In("observability").Errorf("server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, oops.In("observability").With("addr", s.addr).Wrap(err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.listener, s.http = ln, srv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- oops.In("observability").Wrap(err)
		}
	}()

	slog.Info("observability server started", "addr", ln.Addr().String())
	return errCh, nil
}

// Stop shuts the server down gracefully. Stopping a server that is not
// running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.http, s.listener = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return oops.In("observability").Wrapf(err, "shutdown")
	}
	slog.Info("observability server stopped")
	return nil
}

// Addr returns the bound address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
