// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package main

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemud/tilemud/internal/config"
	"github.com/tilemud/tilemud/pkg/errutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.World.File = sampleWorld
	cfg.Telnet.Addr = "127.0.0.1:0"
	cfg.Metrics.Addr = "127.0.0.1:0"
	cfg.Engine.TickRate = 100
	require.NoError(t, cfg.Validate())
	return cfg
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSpace(line)
}

func readUntil(t *testing.T, r *bufio.Reader, want string) {
	t.Helper()
	for range 20 {
		if readLine(t, r) == want {
			return
		}
	}
	t.Fatalf("never received %q", want)
}

func TestServer_RunsUntilCancelled(t *testing.T) {
	cfg := testConfig(t)

	srv, err := newServer(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.run(ctx) }()

	<-srv.started
	require.Eventually(t, func() bool {
		return srv.telnet.Addr() != "" && srv.engine.Running()
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.obs.Addr() + "/healthz/readiness")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + srv.obs.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "tilemud_engine_ticks_total")
	assert.Contains(t, string(body), "tilemud_ratelimiter_clients")

	conn, err := net.Dial("tcp", srv.telnet.Addr())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	r := bufio.NewReader(conn)

	readUntil(t, r, "Welcome to TileMUD!")
	_, err = conn.Write([]byte("connect ada\r\n"))
	require.NoError(t, err)
	readUntil(t, r, "Welcome, Ada!")
	readUntil(t, r, "The Void")

	_, err = conn.Write([]byte("take all stick\r\n"))
	require.NoError(t, err)
	readUntil(t, r, "You take 2 sticks.")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_WithoutMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Addr = ""
	cfg.RateLimit.Enabled = false

	srv, err := newServer(cfg)
	require.NoError(t, err)

	assert.Nil(t, srv.obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.run(ctx) }()

	require.Eventually(t, srv.engine.Running, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestNewServer_Errors(t *testing.T) {
	t.Run("missing world file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.World.File = ""

		_, err := newServer(cfg)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("unreadable world file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.World.File = "does-not-exist.yaml"

		_, err := newServer(cfg)
		assert.Error(t, err)
	})
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := execute(t, "serve", "--log-format", "xml")
	errutil.AssertErrorCode(t, err, config.CodeInvalid)
}
