package sprite

import (
	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/vmath"
)

type missileState int

const (
	missileIdle missileState = iota
	missileMoving
	missileExploding
)

var explosionFrames = [parameter.ExplosionFrames][]string{
	{"*"},
	{" + ", "+*+", " + "},
	{"\\|/", "-*-", "/|\\"},
	{". .", " . ", ". ."},
}

// Missile is a pooled projectile, Launch re-initializes a recycled instance
type Missile struct {
	env *Env

	pos   vmath.Vec2
	vel   vmath.Vec2
	state missileState
	ticks int
	frame int
	// removing is set once a Remove for this missile was published
	removing bool
}

// NewMissile is the pool factory
func NewMissile(env *Env) *Missile {
	return &Missile{env: env}
}

// Launch resets the missile to fly from pos with vel
func (m *Missile) Launch(pos, vel vmath.Vec2) {
	m.pos = pos
	m.vel = vel
	m.state = missileMoving
	m.ticks = 0
	m.frame = 0
	m.removing = false
}

func (m *Missile) Exploding() bool { return m.state == missileExploding }

// Removed reports whether the current flight already published its Remove
func (m *Missile) Removed() bool { return m.removing }

func (m *Missile) Bounds() vmath.Rect {
	if m.state == missileExploding {
		return vmath.RectAround(m.pos, 3, 3)
	}
	return vmath.RectAround(m.pos, 1, 1)
}

func (m *Missile) CheckCollision(other Sprite) {
	if m.state != missileMoving || !m.Bounds().Intersects(other.Bounds()) {
		return
	}
	switch o := other.(type) {
	case *Asteroid:
		if !o.strike() {
			return
		}
		m.env.emit(m, event.KindRemove, o)
	case *Enemy:
		if o.Dead() {
			return
		}
		o.TakeDamage(parameter.DamageMissileOnEnemy)
	default:
		return
	}
	m.env.play(audio.SoundHit)
	m.state = missileExploding
	m.ticks = 0
	m.frame = 0
	m.env.emit(m, event.KindScore, parameter.ScoreMissileHit)
}

func (m *Missile) Update() {
	switch m.state {
	case missileMoving:
		m.pos = vmath.V2Add(m.pos, m.vel)
		if !m.env.Field().Contains(m.pos) {
			m.remove()
		}
	case missileExploding:
		m.ticks++
		if m.ticks >= parameter.ExplosionTicksPerFrame {
			m.ticks = 0
			m.frame++
			if m.frame >= parameter.ExplosionFrames {
				m.remove()
			}
		}
	}
}

func (m *Missile) remove() {
	if m.removing {
		return
	}
	m.removing = true
	m.state = missileIdle
	m.env.emit(m, event.KindRemove, m)
}

func (m *Missile) HandleKey(display.Key) {}

func (m *Missile) Draw(c display.Canvas) {
	switch m.state {
	case missileMoving:
		c.SetCell(int(m.pos.X), int(m.pos.Y), '•', styleMissile)
	case missileExploding:
		frame := m.frame
		if frame >= len(explosionFrames) {
			frame = len(explosionFrames) - 1
		}
		rows := explosionFrames[frame]
		drawBlock(c, vmath.RectAround(m.pos, float64(len(rows[0])), float64(len(rows))), rows, styleExplosion)
	}
}
