package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/highscore"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/status"
)

// Screen is the display surface the game renders into
type Screen interface {
	display.Canvas
	Clear()
	Show()
}

// Stopper ends the frame scheduler on Quit
type Stopper interface {
	RequestStop()
}

// ScoreStore persists finished games
type ScoreStore interface {
	Record(ctx context.Context, e highscore.Entry) error
	Best(ctx context.Context) (highscore.Entry, error)
}

// Config carries the game tunables resolved from the configuration file
type Config struct {
	Player          string
	FramePeriod     time.Duration
	MissileCapacity int
	MissileBlocking bool
	// Bindings maps key binding names to the event published on press
	Bindings map[string]event.Kind
	Seed     uint64
}

func (c Config) normalize() Config {
	if c.Player == "" {
		c.Player = "pilot"
	}
	if c.FramePeriod <= 0 {
		c.FramePeriod = parameter.FramePeriod
	}
	if c.MissileCapacity <= 0 {
		c.MissileCapacity = parameter.MissilePoolCapacity
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

type Option func(*Titan)

func WithAudio(p audio.Player) Option {
	return func(t *Titan) {
		if p != nil {
			t.audio = p
		}
	}
}

func WithScores(s ScoreStore) Option {
	return func(t *Titan) { t.scores = s }
}

func WithStopper(s Stopper) Option {
	return func(t *Titan) { t.stopper = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Titan) { t.log = l.With().Str("component", "game").Logger() }
}

// WithStatus shares the metric registry shown by the stats overlay
func WithStatus(reg *status.Registry) Option {
	return func(t *Titan) {
		if reg != nil {
			t.statusReg = reg
		}
	}
}
