// Package config holds the sandbox settings. Defaults reproduce the stock
// scene; a YAML or TOML file can override any subset of them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"debris-sandbox/assets"
	"debris-sandbox/core"
	"debris-sandbox/input"
	"debris-sandbox/materials"
	remath "debris-sandbox/math"
)

// DefaultPath is where the binary looks for a config file when none is given.
const DefaultPath = "config/sandbox.yaml"

var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Assets  AssetsConfig  `yaml:"assets" toml:"assets"`
	Spawn   SpawnConfig   `yaml:"spawn" toml:"spawn"`
	Physics PhysicsConfig `yaml:"physics" toml:"physics"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Keys    KeysConfig    `yaml:"keys" toml:"keys"`
}

type WindowConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

type AssetsConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Prefix string `yaml:"prefix" toml:"prefix"`
	Count  int    `yaml:"count" toml:"count"`
	// Workers is the number of concurrent loads; 0 means one per CPU.
	Workers int `yaml:"workers" toml:"workers"`
}

type SpawnConfig struct {
	Point        [3]float32 `yaml:"point" toml:"point"`
	GravityScale float32    `yaml:"gravity_scale" toml:"gravity_scale"`
	// Palette entries are hex colours: #rgb, #rrggbb or #rrggbbaa. Unset
	// means the built-in debris palette.
	Palette []string `yaml:"palette,omitempty" toml:"palette,omitempty"`
}

type PhysicsConfig struct {
	Gravity  [3]float32 `yaml:"gravity" toml:"gravity"`
	TickHz   int        `yaml:"tick_hz" toml:"tick_hz"`
	MaxSteps int        `yaml:"max_steps" toml:"max_steps"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type KeysConfig struct {
	Spawn string `yaml:"spawn" toml:"spawn"`
	Clear string `yaml:"clear" toml:"clear"`
	Quit  string `yaml:"quit" toml:"quit"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Debris Sandbox",
			VSync:  true,
		},
		Assets: AssetsConfig{
			Dir:    "assets/obj",
			Prefix: assets.DefaultCatalogPrefix,
			Count:  assets.DefaultCatalogSize,
		},
		Spawn: SpawnConfig{
			Point:        [3]float32{0, 40, 0},
			GravityScale: 20,
		},
		Physics: PhysicsConfig{
			Gravity:  [3]float32{0, -9.81, 0},
			TickHz:   60,
			MaxSteps: 5,
		},
		Log: LogConfig{Level: "info"},
		Keys: KeysConfig{
			Spawn: "space",
			Clear: "backspace",
			Quit:  "escape",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as is. The format follows the extension.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays data onto cfg. ext selects the format (".yaml", ".yml"
// or ".toml").
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%q: %w", ext, ErrUnknownFormat)
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Assets.Count < 0:
		return fmt.Errorf("assets.count %d is negative", c.Assets.Count)
	case c.Assets.Workers < 0:
		return fmt.Errorf("assets.workers %d is negative", c.Assets.Workers)
	case c.Physics.TickHz <= 0:
		return fmt.Errorf("physics.tick_hz %d must be positive", c.Physics.TickHz)
	case c.Physics.MaxSteps <= 0:
		return fmt.Errorf("physics.max_steps %d must be positive", c.Physics.MaxSteps)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	keys := []struct{ field, name string }{
		{"spawn", c.Keys.Spawn},
		{"clear", c.Keys.Clear},
		{"quit", c.Keys.Quit},
	}
	for _, k := range keys {
		if _, ok := input.KeyByName(k.name); !ok {
			return fmt.Errorf("keys.%s: unknown key %q", k.field, k.name)
		}
	}
	return nil
}

func (c Config) SpawnPoint() remath.Vec3 {
	return remath.Vec3{X: c.Spawn.Point[0], Y: c.Spawn.Point[1], Z: c.Spawn.Point[2]}
}

func (c Config) Gravity() remath.Vec3 {
	return remath.Vec3{X: c.Physics.Gravity[0], Y: c.Physics.Gravity[1], Z: c.Physics.Gravity[2]}
}

// Palette parses the configured debris colours.
func (c Config) Palette() (materials.Palette, error) {
	if c.Spawn.Palette == nil {
		return materials.DefaultPalette(), nil
	}
	p := make(materials.Palette, 0, len(c.Spawn.Palette))
	for i, s := range c.Spawn.Palette {
		col, err := ParseHexColor(s)
		if err != nil {
			return nil, fmt.Errorf("spawn.palette[%d]: %w", i, err)
		}
		p = append(p, col)
	}
	return p, nil
}

// Key resolves a key name from KeysConfig; unknown names resolve to -1.
func Key(name string) int {
	k, ok := input.KeyByName(name)
	if !ok {
		return -1
	}
	return k
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa (the # is optional).
func ParseHexColor(s string) (core.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return core.Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return core.Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}
