package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-channelize/midi"
	"go-channelize/plugin"
)

// Config is the main configuration structure
type Config struct {
	// Plugin is the plugin id, see plugin.IDs.
	Plugin     string `json:"plugin"`
	InputPort  string `json:"inputPort,omitempty"`
	OutputPort string `json:"outputPort,omitempty"`
	// Target is the persisted plain value of the target channel parameter:
	// 0 = none, 1..16 = channel.
	Target int  `json:"target"`
	Debug  bool `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Plugin: plugin.IDChannelize,
		Target: midi.PlainNone,
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-channelize"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it is missing
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the plugin id and the target channel
func (c *Config) Validate() error {
	if _, err := c.TargetChannel(); err != nil {
		return err
	}
	for _, id := range plugin.IDs() {
		if id == c.Plugin {
			return nil
		}
	}
	return fmt.Errorf("unknown plugin %q (have %v)", c.Plugin, plugin.IDs())
}

// TargetChannel decodes Target. Values outside 0..16 are an error.
func (c *Config) TargetChannel() (midi.OptionalChannel, error) {
	v, err := midi.OptionalChannelFromPlain(c.Target)
	if err != nil {
		return midi.None, fmt.Errorf("target: %w", err)
	}
	return v, nil
}
