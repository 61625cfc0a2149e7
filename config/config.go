package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/titan/core"
	"github.com/lixenwraith/titan/engine"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/parameter"
)

// ErrInvalid marks configuration that parsed but failed validation
var ErrInvalid = errors.New("invalid configuration")

// Config is the on-disk game configuration
type Config struct {
	Engine EngineConfig      `toml:"engine"`
	Pools  PoolsConfig       `toml:"pools"`
	Audio  AudioConfig       `toml:"audio"`
	Log    LogConfig         `toml:"log"`
	Scores ScoresConfig      `toml:"scores"`
	Keys   map[string]string `toml:"keys"`
}

type EngineConfig struct {
	FPS            int  `toml:"fps"`
	MaxFrameSkips  int  `toml:"max_frame_skips"`
	YieldThreshold int  `toml:"yield_threshold"`
	DrainOnStop    bool `toml:"drain_on_stop"`
}

type PoolsConfig struct {
	Missile PoolConfig `toml:"missile"`
}

type PoolConfig struct {
	Capacity int  `toml:"capacity"`
	Blocking bool `toml:"blocking"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

type LogConfig struct {
	File    string `toml:"file"`
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

type ScoresConfig struct {
	// Path of the sqlite score table, empty disables persistence
	Path   string `toml:"path"`
	Player string `toml:"player"`
}

// DefaultKeys returns the stock key bindings, key name -> event kind name
func DefaultKeys() map[string]string {
	return map[string]string{
		"esc":    event.KindQuit.String(),
		"ctrl-c": event.KindQuit.String(),
		"s":      event.KindStart.String(),
		"r":      event.KindStart.String(),
		"p":      event.KindPause.String(),
		"n":      event.KindNextLevel.String(),
		"h":      event.KindHelp.String(),
		"m":      event.KindMenu.String(),
	}
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			FPS:            parameter.FramesPerSecond,
			MaxFrameSkips:  parameter.MaxFrameSkips,
			YieldThreshold: parameter.YieldThreshold,
		},
		Pools: PoolsConfig{
			Missile: PoolConfig{Capacity: parameter.MissilePoolCapacity},
		},
		Audio:  AudioConfig{Enabled: true},
		Log:    LogConfig{Level: "info"},
		Scores: ScoresConfig{Player: "pilot"},
		Keys:   DefaultKeys(),
	}
}

// Load reads the TOML file at path over the defaults, a missing file yields defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result
// Key bindings in the document are merged into the stock bindings
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Keys = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	keys := DefaultKeys()
	for k, v := range cfg.Keys {
		keys[normalizeKey(k)] = v
	}
	cfg.Keys = keys

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and key binding names
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.FPS <= 0 || c.Engine.FPS > 1000 {
		errs = append(errs, fmt.Errorf("engine.fps %d out of range 1..1000", c.Engine.FPS))
	}
	if c.Engine.MaxFrameSkips < 0 {
		errs = append(errs, fmt.Errorf("engine.max_frame_skips %d is negative", c.Engine.MaxFrameSkips))
	}
	if c.Engine.YieldThreshold <= 0 {
		errs = append(errs, fmt.Errorf("engine.yield_threshold %d must be positive", c.Engine.YieldThreshold))
	}
	if c.Pools.Missile.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("pools.missile.capacity %d must be positive", c.Pools.Missile.Capacity))
	}
	if _, err := core.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	for key, name := range c.Keys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, errors.New("keys: empty key name"))
			continue
		}
		if _, err := event.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("keys.%s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Scheduler converts the engine section into scheduler parameters
func (e EngineConfig) Scheduler() engine.Config {
	return engine.Config{
		FramePeriod:    time.Second / time.Duration(e.FPS),
		MaxFrameSkips:  e.MaxFrameSkips,
		YieldThreshold: e.YieldThreshold,
		DrainOnStop:    e.DrainOnStop,
	}
}

// Bindings resolves key bindings to event kinds, invalid entries are skipped
func (c *Config) Bindings() map[string]event.Kind {
	out := make(map[string]event.Kind, len(c.Keys))
	for key, name := range c.Keys {
		kind, err := event.ParseKind(name)
		if err != nil {
			continue
		}
		out[normalizeKey(key)] = kind
	}
	return out
}

// LogSettings maps the log section onto the logger constructor input
func (c *Config) LogSettings() core.LogConfig {
	return core.LogConfig{File: c.Log.File, Level: c.Log.Level, Console: c.Log.Console}
}

func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	// Single characters stay case sensitive
	if len([]rune(k)) == 1 {
		return k
	}
	return strings.ToLower(k)
}
