package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-project override file at the project root.
const LocalConfigFileName = ".relcut.toml"

// LocalConfig holds per-project configuration overrides from .relcut.toml.
// Zero-value fields indicate "not set" (inherit from global).
type LocalConfig struct {
	Hooks   HooksConfig   `toml:"-"` // merge by name into global
	Version VersionConfig `toml:"version"`
}

// IsEnabled reports whether a hook is active. Hooks are enabled unless
// explicitly set to enabled = false.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

type rawLocalConfig struct {
	Hooks   map[string]any `toml:"hooks"`
	Version VersionConfig  `toml:"version"`
}

// LoadLocal reads a per-project .relcut.toml from the given project path.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(projectPath string) (*LocalConfig, error) {
	configFile := filepath.Join(projectPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	hooks, err := parseHooksConfig(raw.Hooks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	if err := validateHooks(hooks); err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	if filepath.IsAbs(raw.Version.Script) {
		return nil, fmt.Errorf("invalid version.script %q in %s: must be relative to the project root", raw.Version.Script, configFile)
	}

	return &LocalConfig{Hooks: hooks, Version: raw.Version}, nil
}
