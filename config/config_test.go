package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-channelize/midi"
	"go-channelize/plugin"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	want := &Config{
		Plugin:     plugin.IDChannelFilter,
		InputPort:  "Keystep",
		OutputPort: "IAC Bus 1",
		Target:     12,
		Debug:      true,
	}
	require.NoError(t, want.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"target": 3}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, plugin.IDChannelize, cfg.Plugin)
	assert.Equal(t, 3, cfg.Target)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"target": `), 0644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "parse "+path)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Plugin = plugin.IDChannelFilter
	assert.NoError(t, cfg.Validate())

	cfg.Plugin = "arpeggiator"
	assert.ErrorContains(t, cfg.Validate(), `unknown plugin "arpeggiator"`)
}

func TestValidateTarget(t *testing.T) {
	for _, target := range []int{-1, 17, 1<<32 + 3} {
		cfg := DefaultConfig()
		cfg.Target = target
		err := cfg.Validate()
		var rerr midi.OutOfRangeError
		require.True(t, errors.As(err, &rerr), "target %d", target)
		assert.Equal(t, midi.OutOfRangeError{Found: target, Min: 0, Max: 16}, rerr)
	}

	cfg := DefaultConfig()
	cfg.Target = 12
	require.NoError(t, cfg.Validate())
	got, err := cfg.TargetChannel()
	require.NoError(t, err)
	assert.Equal(t, midi.Some(midi.Channel12), got)

	cfg.Target = 0
	got, err = cfg.TargetChannel()
	require.NoError(t, err)
	assert.Equal(t, midi.None, got)
}
