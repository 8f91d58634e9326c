package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debris-sandbox/core"
	"debris-sandbox/input"
	"debris-sandbox/materials"
	remath "debris-sandbox/math"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "breakage", cfg.Assets.Prefix)
	assert.Equal(t, 73, cfg.Assets.Count)
	assert.Equal(t, remath.Vec3{X: 0, Y: 40, Z: 0}, cfg.SpawnPoint())
	assert.Equal(t, float32(20), cfg.Spawn.GravityScale)
	assert.Equal(t, remath.Vec3{Y: -9.81}, cfg.Gravity())
	assert.Equal(t, input.KeySpace, Key(cfg.Keys.Spawn))
	assert.Equal(t, input.KeyBackspace, Key(cfg.Keys.Clear))

	p, err := cfg.Palette()
	require.NoError(t, err)
	assert.Equal(t, materials.DefaultPalette(), p)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := writeFile(t, "sandbox.yaml", `
assets:
  dir: testdata/meshes
  count: 10
  workers: 2
spawn:
  point: [1, 50, -3]
  palette: ["#fff", "#00ff0080"]
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "testdata/meshes", cfg.Assets.Dir)
	assert.Equal(t, 10, cfg.Assets.Count)
	assert.Equal(t, 2, cfg.Assets.Workers)
	assert.Equal(t, "breakage", cfg.Assets.Prefix, "unset keys keep defaults")
	assert.Equal(t, remath.Vec3{X: 1, Y: 50, Z: -3}, cfg.SpawnPoint())
	assert.Equal(t, float32(20), cfg.Spawn.GravityScale)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1280, cfg.Window.Width)

	p, err := cfg.Palette()
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, core.ColorWhite, p[0])
	assert.InDelta(t, 0.5, p[1].A, 0.01)
}

func TestLoadTOMLOverlay(t *testing.T) {
	path := writeFile(t, "sandbox.toml", `
[spawn]
gravity_scale = 5.0

[physics]
gravity = [0.0, -1.62, 0.0]
tick_hz = 120

[keys]
spawn = "enter"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(5), cfg.Spawn.GravityScale)
	assert.Equal(t, remath.Vec3{Y: -1.62}, cfg.Gravity())
	assert.Equal(t, 120, cfg.Physics.TickHz)
	assert.Equal(t, 5, cfg.Physics.MaxSteps)
	assert.Equal(t, input.KeyEnter, Key(cfg.Keys.Spawn))
	assert.Equal(t, remath.Vec3{Y: 40}, cfg.SpawnPoint())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "sandbox.json", `{}`))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(writeFile(t, "broken.yaml", "assets: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "broken.toml", "assets = = 1"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"count", func(c *Config) { c.Assets.Count = -1 }, "assets.count"},
		{"workers", func(c *Config) { c.Assets.Workers = -2 }, "assets.workers"},
		{"tick", func(c *Config) { c.Physics.TickHz = 0 }, "tick_hz"},
		{"steps", func(c *Config) { c.Physics.MaxSteps = 0 }, "max_steps"},
		{"palette", func(c *Config) { c.Spawn.Palette = []string{"#12345"} }, "spawn.palette[0]"},
		{"key", func(c *Config) { c.Keys.Clear = "hyper" }, "keys.clear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestEmptyPaletteIsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Spawn.Palette = []string{}
	require.NoError(t, cfg.Validate())
	p, err := cfg.Palette()
	require.NoError(t, err)
	assert.Empty(t, p)
	assert.Equal(t, core.ColorWhite, p.At(3))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want core.Color
	}{
		{"#ff0000", core.ColorRed},
		{"0000ff", core.ColorBlue},
		{"#0ff", core.ColorCyan},
		{"#00000000", core.Color{}},
		{" #FFFFFF ", core.ColorWhite},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#ff", "#gggggg", "#1234567"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}
