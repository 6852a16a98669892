// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/config"
	"github.com/tilemud/tilemud/internal/core"
	"github.com/tilemud/tilemud/internal/logging"
	"github.com/tilemud/tilemud/internal/observability"
	"github.com/tilemud/tilemud/internal/telnet"
	"github.com/tilemud/tilemud/internal/worldfile"
	"github.com/tilemud/tilemud/internal/xdg"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game server (engine, telnet, metrics)",
		Long: `Start the game server. Loads the world file, runs the engine tick
loop, accepts telnet connections and serves metrics and health checks
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return oops.Wrapf(err, "load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	logging.SetDefault(logging.Options{
		Service: "tilemud",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.LogLevel(),
		Output:  cmd.ErrOrStderr(),
	})

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	cmd.Println("TileMUD server starting")
	return srv.run(ctx)
}

// server is the assembled process: the engine plus its adapters.
type server struct {
	engine *core.Engine
	telnet *telnet.Server
	obs    *observability.Server

	// started is closed once every listener that run opens synchronously
	// is bound.
	started chan struct{}
}

func newServer(cfg *config.Config) (*server, error) {
	worldPath, err := resolveWorldFile(cfg.World.File)
	if err != nil {
		return nil, err
	}
	wf, err := worldfile.ReadFile(worldPath)
	if err != nil {
		return nil, oops.With("path", worldPath).Wrapf(err, "read world file")
	}
	w, err := worldfile.NewWorld(wf)
	if err != nil {
		return nil, oops.With("path", worldPath).Wrapf(err, "load world")
	}

	grants, err := cfg.AccessGrants()
	if err != nil {
		return nil, err
	}

	s := &server{started: make(chan struct{})}

	// Metrics are always collected; they are only served when an address is set.
	var reg prometheus.Registerer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		s.obs = observability.NewServer(cfg.Metrics.Addr, func() error {
			return s.engine.Ready()
		})
		reg = s.obs.Registerer()
		metrics = s.obs.Metrics()
	} else {
		r := prometheus.NewRegistry()
		reg = r
		metrics = observability.NewMetrics(r)
	}
	command.RegisterMetrics(reg)

	opts := []core.Option{
		core.WithGrants(grants),
		core.WithMetrics(metrics),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, core.WithLineLimiter(command.NewLineLimiter(cfg.LineLimits(), reg)))
	}

	outbox := core.NewOutbox(core.DefaultOutboxCapacity)
	s.engine, err = core.NewEngine(w, outbox, core.Config{
		TickRate:      cfg.Engine.TickRate,
		BusCapacity:   cfg.Engine.BusCapacity,
		InboxCapacity: cfg.Engine.InboxCapacity,
		Spawn:         wf.SpawnPosition(),
	}, opts...)
	if err != nil {
		return nil, oops.Wrapf(err, "create engine")
	}
	observability.RegisterEngine(reg, s.engine)

	s.telnet = telnet.NewServer(cfg.Telnet.Addr, s.engine, outbox, telnet.WithMetrics(metrics))

	slog.Info("server assembled",
		"world", worldPath,
		"telnet_addr", cfg.Telnet.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"tick_rate", cfg.Engine.TickRate,
		"ratelimit", cfg.RateLimit.Enabled,
		"grants", grants.Len(),
	)
	return s, nil
}

// run blocks until ctx is cancelled or a component fails.
func (s *server) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.engine.Run(gctx)
	})
	g.Go(func() error {
		return s.telnet.Run(gctx)
	})

	if s.obs != nil {
		obsErrCh, err := s.obs.Start()
		if err != nil {
			// Unblock the engine and telnet goroutines before reporting.
			g.Go(func() error { return err })
			return waitGroup(g)
		}
		g.Go(func() error {
			return s.monitorObservability(gctx, obsErrCh)
		})
	}
	close(s.started)

	return waitGroup(g)
}

func (s *server) monitorObservability(ctx context.Context, errCh <-chan error) error {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return oops.Wrapf(err, "observability server")
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
		return nil
	}
}

func waitGroup(g *errgroup.Group) error {
	err := g.Wait()
	if err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}
	slog.Info("shutdown complete")
	return nil
}

// resolveWorldFile returns path, or the default XDG world file when path is
// empty and that file exists.
func resolveWorldFile(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	def, err := xdg.WorldFile()
	if err == nil {
		if _, statErr := os.Stat(def); statErr == nil {
			return def, nil
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return "", oops.With("path", def).Wrapf(statErr, "world file")
		}
	}
	return "", oops.Code(config.CodeInvalid).
		With("key", "world.file").
		Errorf("world file is required (--world or world.file)")
}
