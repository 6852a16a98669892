// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package xdg provides XDG Base Directory paths for TileMUD.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "tilemud"

// File names looked up in the config directory.
const (
	ConfigFileName = "config.yaml"
	WorldFileName  = "world.yaml"
)

// ConfigDir returns the XDG config directory for tilemud.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() (string, error) {
	return dir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for tilemud.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() (string, error) {
	return dir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for tilemud.
// Checks XDG_STATE_HOME first, falls back to ~/.local/state.
func StateDir() (string, error) {
	return dir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, ConfigFileName), nil
}

// WorldFile returns the default world file path.
func WorldFile() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, WorldFileName), nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.In("xdg").With("path", path).Wrapf(err, "failed to create directory")
	}
	return nil
}

func dir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", oops.In("xdg").With("env", env).Errorf("neither %s nor HOME is set", env)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, appName), nil
}
