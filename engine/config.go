package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/status"
)

// Config holds the frame loop tunables
type Config struct {
	FramePeriod    time.Duration
	MaxFrameSkips  int
	YieldThreshold int
	// DrainOnStop delivers events still queued at shutdown instead of dropping them
	DrainOnStop bool
}

// DefaultConfig returns the compiled-in loop parameters
func DefaultConfig() Config {
	return Config{
		FramePeriod:    parameter.FramePeriod,
		MaxFrameSkips:  parameter.MaxFrameSkips,
		YieldThreshold: parameter.YieldThreshold,
	}
}

// normalize replaces out-of-range values with defaults
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.FramePeriod <= 0 {
		c.FramePeriod = def.FramePeriod
	}
	if c.MaxFrameSkips < 0 {
		c.MaxFrameSkips = 0
	}
	if c.YieldThreshold <= 0 {
		c.YieldThreshold = def.YieldThreshold
	}
	return c
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithConfig replaces the whole loop configuration
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) { s.cfg = cfg }
}

// WithFPS sets the frame period from a target frame rate, non-positive values are ignored
func WithFPS(fps int) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.cfg.FramePeriod = time.Second / time.Duration(fps)
		}
	}
}

// WithFramePeriod sets the frame period directly
func WithFramePeriod(d time.Duration) Option {
	return func(s *Scheduler) { s.cfg.FramePeriod = d }
}

func WithMaxFrameSkips(n int) Option {
	return func(s *Scheduler) { s.cfg.MaxFrameSkips = n }
}

func WithYieldThreshold(n int) Option {
	return func(s *Scheduler) { s.cfg.YieldThreshold = n }
}

func WithDrainOnStop(drain bool) Option {
	return func(s *Scheduler) { s.cfg.DrainOnStop = drain }
}

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l.With().Str("component", "scheduler").Logger() }
}

// WithStatus publishes loop metrics into reg
func WithStatus(reg *status.Registry) Option {
	return func(s *Scheduler) {
		if reg != nil {
			s.statusReg = reg
		}
	}
}
