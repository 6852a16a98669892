// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package config loads server configuration. Values are layered: built-in
// defaults, then an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/core"
	"github.com/tilemud/tilemud/internal/logging"
	"github.com/tilemud/tilemud/internal/xdg"
)

// CodeInvalid tags configuration errors.
const CodeInvalid = "CONFIG_INVALID"

// Config is the complete server configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telnet    TelnetConfig    `koanf:"telnet"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	World     WorldConfig     `koanf:"world"`
	Engine    EngineConfig    `koanf:"engine"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Grants    []access.Grant  `koanf:"grants"`
}

// LogConfig selects log output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// TelnetConfig configures the telnet listener.
type TelnetConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// WorldConfig points at the world file.
type WorldConfig struct {
	File string `koanf:"file"`
}

// EngineConfig sizes the tick loop.
type EngineConfig struct {
	TickRate      int `koanf:"tick_rate"`
	BusCapacity   int `koanf:"bus_capacity"`
	InboxCapacity int `koanf:"inbox_capacity"`
}

// RateLimitConfig configures per-client line limiting.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	Burst   int     `koanf:"burst"`
	Rate    float64 `koanf:"rate"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"format": "json",
			"level":  "info",
		},
		"telnet":  map[string]any{"addr": "127.0.0.1:4000"},
		"metrics": map[string]any{"addr": "127.0.0.1:9100"},
		"world":   map[string]any{"file": ""},
		"engine": map[string]any{
			"tick_rate":      core.DefaultTickRate,
			"bus_capacity":   command.DefaultBusCapacity,
			"inbox_capacity": core.DefaultInboxCapacity,
		},
		"ratelimit": map[string]any{
			"enabled": true,
			"burst":   command.DefaultBurstCapacity,
			"rate":    command.DefaultSustainedRate,
		},
		"grants": []any{},
	}
}

// defaultsProvider feeds Defaults into koanf.
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("defaults provider does not support ReadBytes")
}

func (defaultsProvider) Read() (map[string]any, error) {
	return Defaults(), nil
}

// flagKeys maps flag names to config keys. Flags not listed are ignored.
var flagKeys = map[string]string{
	"log-format":   "log.format",
	"log-level":    "log.level",
	"telnet-addr":  "telnet.addr",
	"metrics-addr": "metrics.addr",
	"world":        "world.file",
	"tick-rate":    "engine.tick_rate",
}

// RegisterFlags adds the configuration flags to fs. Flag defaults are for
// help output only; unset flags never override the file.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("log-format", "json", "log format (json, text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("telnet-addr", "127.0.0.1:4000", "telnet listen address")
	fs.String("metrics-addr", "127.0.0.1:9100", "metrics and health listen address (empty disables)")
	fs.String("world", "", "world file path")
	fs.Int("tick-rate", core.DefaultTickRate, "engine ticks per second")
}

// Load builds the configuration. path names a YAML file that must exist;
// when empty the default XDG config file is read if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(defaultsProvider{}, nil); err != nil {
		return nil, oops.In("config").Code(CodeInvalid).Wrapf(err, "load defaults")
	}

	filePath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return nil, oops.In("config").Code(CodeInvalid).With("path", filePath).Wrapf(err, "load config file")
		}
		slog.Debug("config file loaded", "path", filePath)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.In("config").Code(CodeInvalid).Wrapf(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("config").Code(CodeInvalid).Wrapf(err, "decode config")
	}
	return &cfg, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", oops.In("config").Code(CodeInvalid).With("path", path).Wrapf(err, "config file")
		}
		return path, nil
	}

	def, err := xdg.ConfigFile()
	if err != nil {
		// No HOME: run on defaults and flags.
		return "", nil //nolint:nilerr // missing default config is not an error
	}
	if _, err := os.Stat(def); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", oops.In("config").Code(CodeInvalid).With("path", def).Wrapf(err, "config file")
	}
	return def, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", c.Log.Format, "must be json or text")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	if c.Telnet.Addr == "" {
		return invalid("telnet.addr", c.Telnet.Addr, "is required")
	}
	if c.Engine.TickRate <= 0 {
		return invalid("engine.tick_rate", c.Engine.TickRate, "must be positive")
	}
	if c.Engine.BusCapacity <= 0 {
		return invalid("engine.bus_capacity", c.Engine.BusCapacity, "must be positive")
	}
	if c.Engine.InboxCapacity <= 0 {
		return invalid("engine.inbox_capacity", c.Engine.InboxCapacity, "must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Burst <= 0 {
			return invalid("ratelimit.burst", c.RateLimit.Burst, "must be positive")
		}
		if c.RateLimit.Rate <= 0 {
			return invalid("ratelimit.rate", c.RateLimit.Rate, "must be positive")
		}
	}
	if _, err := access.NewGrants(c.Grants); err != nil {
		return oops.In("config").Code(CodeInvalid).With("key", "grants").Wrap(err)
	}
	return nil
}

// AccessGrants compiles the configured grants.
func (c *Config) AccessGrants() (*access.Grants, error) {
	g, err := access.NewGrants(c.Grants)
	if err != nil {
		return nil, oops.In("config").Code(CodeInvalid).With("key", "grants").Wrap(err)
	}
	return g, nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() slog.Level {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// LineLimits converts the rate limit settings.
func (c *Config) LineLimits() command.LineLimits {
	return command.LineLimits{
		Burst: c.RateLimit.Burst,
		Rate:  c.RateLimit.Rate,
	}
}

func invalid(key string, value any, msg string) error {
	return oops.In("config").Code(CodeInvalid).With("key", key).With("value", value).Errorf("%s %s", key, msg)
}
