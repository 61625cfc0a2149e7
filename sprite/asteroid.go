package sprite

import (
	"math"

	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/vmath"
)

// Size is the asteroid size class
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	}
	return "unknown"
}

// Damage is the shield loss on ramming the player
func (s Size) Damage() int {
	switch s {
	case SizeLarge:
		return parameter.DamageAsteroidLarge
	case SizeMedium:
		return parameter.DamageAsteroidMedium
	default:
		return parameter.DamageAsteroidSmall
	}
}

// Smaller returns the fragment size, false for the smallest class
func (s Size) Smaller() (Size, bool) {
	if s == SizeSmall {
		return SizeSmall, false
	}
	return s - 1, true
}

// rock shapes per size, two animation frames each
var rockFrames = map[Size][2][]string{
	SizeLarge: {
		{" .-^-. ", "(  o  )", " `-.-' "},
		{" .-~-. ", "( o   )", " `-^-' "},
	},
	SizeMedium: {
		{"/^\\", "\\_/"},
		{"/~\\", "\\_/"},
	},
	SizeSmall: {
		{"o"},
		{"*"},
	},
}

// Asteroid drifts and wraps, it splits into smaller fragments when removed
type Asteroid struct {
	env  *Env
	pos  vmath.Vec2
	vel  vmath.Vec2
	size Size

	ticks  int
	frame  int
	struck bool
}

func NewAsteroid(env *Env, pos, vel vmath.Vec2, size Size) *Asteroid {
	return &Asteroid{env: env, pos: pos, vel: vel, size: size}
}

func (a *Asteroid) hostile() {}

func (a *Asteroid) Size() Size       { return a.size }
func (a *Asteroid) Pos() vmath.Vec2  { return a.pos }
func (a *Asteroid) Vel() vmath.Vec2  { return a.vel }
func (a *Asteroid) Struck() bool     { return a.struck }
func (a *Asteroid) dims() (w, h int) { r := rockFrames[a.size][0]; return len([]rune(r[0])), len(r) }

// strike claims the asteroid for one destroyer, later hits are ignored
func (a *Asteroid) strike() bool {
	if a.struck {
		return false
	}
	a.struck = true
	return true
}

func (a *Asteroid) Bounds() vmath.Rect {
	w, h := a.dims()
	return vmath.RectAround(a.pos, float64(w), float64(h))
}

// Asteroids only react through the sprites that hit them
func (a *Asteroid) CheckCollision(Sprite) {}

func (a *Asteroid) Update() {
	if vmath.V2MagSq(a.vel) < parameter.AsteroidMinSpeedSq {
		a.vel.X += a.env.Rand.Range(-0.1, 0.1)
		a.vel.Y += a.env.Rand.Range(-0.1, 0.1)
	}
	a.pos = a.env.Field().Wrap(vmath.V2Add(a.pos, a.vel))

	a.ticks++
	if a.ticks >= parameter.AsteroidAnimTicks {
		a.ticks = 0
		a.frame ^= 1
	}
}

// Fragments returns the pieces this asteroid breaks into, nil for small ones
// Fragment headings are spread evenly around the parent's heading
func (a *Asteroid) Fragments() []*Asteroid {
	size, ok := a.size.Smaller()
	if !ok {
		return nil
	}
	speed := vmath.V2Mag(a.vel) * parameter.AsteroidSplitSpeedup
	if speed == 0 {
		speed = math.Sqrt(parameter.AsteroidMinSpeedSq)
	}
	base := math.Atan2(a.vel.X, -a.vel.Y)

	out := make([]*Asteroid, 0, parameter.AsteroidSplitCount)
	for k := 1; k <= parameter.AsteroidSplitCount; k++ {
		angle := base + (2*float64(k)*math.Pi+1)/parameter.AsteroidSplitCount
		vel := vmath.V2Scale(vmath.V2FromAngle(angle), speed)
		out = append(out, NewAsteroid(a.env, a.pos, vel, size))
	}
	return out
}

func (a *Asteroid) HandleKey(display.Key) {}

func (a *Asteroid) Draw(c display.Canvas) {
	drawBlock(c, a.Bounds(), rockFrames[a.size][a.frame], styleAsteroid)
}
