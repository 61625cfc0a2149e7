package sprite

import (
	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/vmath"
)

var enemyGlyphs = [2]string{"<O>", "(O)"}

// Enemy chases the player and is destroyed by missiles or by ramming
type Enemy struct {
	env    *Env
	target *Player

	pos      vmath.Vec2
	vel      vmath.Vec2
	maxSpeed float64
	shield   int
	ticks    int
	dead     bool
}

func NewEnemy(env *Env, target *Player, pos vmath.Vec2, speed float64) *Enemy {
	return &Enemy{
		env:      env,
		target:   target,
		pos:      pos,
		maxSpeed: speed,
		shield:   parameter.EnemyMaxShield,
	}
}

func (e *Enemy) hostile() {}

func (e *Enemy) Pos() vmath.Vec2 { return e.pos }
func (e *Enemy) Shield() int     { return e.shield }
func (e *Enemy) Dead() bool      { return e.dead }

func (e *Enemy) Bounds() vmath.Rect {
	return vmath.RectAround(e.pos, float64(len(enemyGlyphs[0])), 1)
}

// strike destroys the enemy on ramming, only the first caller wins
func (e *Enemy) strike() bool {
	if e.dead {
		return false
	}
	e.dead = true
	e.shield = 0
	e.env.play(audio.SoundExplosion)
	return true
}

// TakeDamage lowers the shield and removes the enemy once depleted
func (e *Enemy) TakeDamage(n int) {
	if e.dead {
		return
	}
	e.shield -= n
	if e.shield > 0 {
		return
	}
	e.shield = 0
	e.dead = true
	e.env.play(audio.SoundExplosion)
	e.env.emit(e, event.KindRemove, e)
}

func (e *Enemy) CheckCollision(Sprite) {}

func (e *Enemy) Update() {
	if e.dead {
		return
	}
	// Re-aim every few ticks so the chase curves instead of snapping
	if e.ticks%parameter.EnemySteerTicks == 0 && e.target != nil && !e.target.Dead() {
		dir := vmath.V2Normalize(vmath.V2Sub(e.target.Pos(), e.pos))
		e.vel = vmath.V2Scale(dir, e.maxSpeed)
	}
	e.ticks++
	e.pos = vmath.V2Add(e.pos, e.vel)
}

func (e *Enemy) HandleKey(display.Key) {}

func (e *Enemy) Draw(c display.Canvas) {
	if e.dead {
		return
	}
	glyph := enemyGlyphs[0]
	if e.shield < parameter.EnemyMaxShield {
		glyph = enemyGlyphs[1]
	}
	b := e.Bounds()
	c.DrawText(int(b.X), int(b.Y), glyph, styleEnemy)
}
