package level

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var builtin []byte

// ErrInvalid marks a level table that parsed but failed validation
var ErrInvalid = errors.New("invalid level table")

// Pattern selects what a level spawns
type Pattern string

const (
	// PatternAsteroids spawns a medium asteroid first and large ones after
	PatternAsteroids Pattern = "asteroids"
	// PatternChasers spawns enemies rotating through the field corners
	PatternChasers Pattern = "chasers"
	// PatternMixed spawns an enemy every EnemyEvery spawns and large asteroids otherwise
	PatternMixed Pattern = "mixed"
)

// Level is one entry of the level table
type Level struct {
	Name          string        `yaml:"name"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	MaxSpawns     int           `yaml:"max_spawns"`
	Pattern       Pattern       `yaml:"pattern"`
	AsteroidSpeed float64       `yaml:"asteroid_speed"`
	EnemySpeed    float64       `yaml:"enemy_speed"`
	EnemyEvery    int           `yaml:"enemy_every"`
}

// Table is the ordered level list, index len(Levels) means the game is won
type Table struct {
	Levels []Level `yaml:"levels"`
}

// SpawnKind is the kind of hostile a spawn produces
type SpawnKind int

const (
	SpawnAsteroid SpawnKind = iota
	SpawnChaser
)

// Spawn describes the n-th hostile released on a level
type Spawn struct {
	Kind SpawnKind
	// Large is set for large asteroids, medium otherwise
	Large bool
	// Corner indexes vmath.Rect.Corners, clockwise from top-left
	Corner int
	Speed  float64
}

// Builtin returns the embedded level table
func Builtin() (*Table, error) {
	return Parse(builtin)
}

// Parse decodes and validates a YAML level table
func Parse(data []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse levels: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks every level for usable values
func (t *Table) Validate() error {
	if len(t.Levels) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalid)
	}
	var errs []error
	for i, l := range t.Levels {
		if l.SpawnInterval <= 0 {
			errs = append(errs, fmt.Errorf("levels[%d].spawn_interval must be positive", i))
		}
		if l.MaxSpawns <= 0 {
			errs = append(errs, fmt.Errorf("levels[%d].max_spawns must be positive", i))
		}
		switch l.Pattern {
		case PatternAsteroids:
			if l.AsteroidSpeed <= 0 {
				errs = append(errs, fmt.Errorf("levels[%d].asteroid_speed must be positive", i))
			}
		case PatternChasers:
			if l.EnemySpeed <= 0 {
				errs = append(errs, fmt.Errorf("levels[%d].enemy_speed must be positive", i))
			}
		case PatternMixed:
			if l.AsteroidSpeed <= 0 || l.EnemySpeed <= 0 {
				errs = append(errs, fmt.Errorf("levels[%d]: mixed needs asteroid_speed and enemy_speed", i))
			}
			if l.EnemyEvery <= 0 {
				errs = append(errs, fmt.Errorf("levels[%d].enemy_every must be positive", i))
			}
		default:
			errs = append(errs, fmt.Errorf("levels[%d].pattern %q unknown", i, l.Pattern))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Count returns the number of playable levels
func (t *Table) Count() int { return len(t.Levels) }

// Final reports whether index is past the last level
func (t *Table) Final(index int) bool { return index >= len(t.Levels) }

// Get returns the level at index
func (t *Table) Get(index int) (Level, bool) {
	if index < 0 || index >= len(t.Levels) {
		return Level{}, false
	}
	return t.Levels[index], true
}

// SpawnAt returns the n-th spawn of the level, counting from zero
func (l Level) SpawnAt(n int) Spawn {
	switch l.Pattern {
	case PatternChasers:
		return Spawn{Kind: SpawnChaser, Corner: n % 4, Speed: l.EnemySpeed}
	case PatternMixed:
		if n%l.EnemyEvery == 0 {
			return Spawn{Kind: SpawnChaser, Corner: 2, Speed: l.EnemySpeed}
		}
		return Spawn{Kind: SpawnAsteroid, Large: true, Speed: l.AsteroidSpeed}
	default:
		return Spawn{Kind: SpawnAsteroid, Large: n > 0, Speed: l.AsteroidSpeed}
	}
}
