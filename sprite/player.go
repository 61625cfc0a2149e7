package sprite

import (
	"fmt"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/vmath"
)

const (
	playerW = 1
	playerH = 1
)

// heading glyphs clockwise from up
var playerGlyphs = [8]rune{'▲', '◥', '▶', '◢', '▼', '◣', '◀', '◤'}

// Player is the ship: a/d rotate, w thrusts, fire is driven by the game
type Player struct {
	env *Env

	pos     vmath.Vec2
	vel     vmath.Vec2
	heading float64
	omega   float64

	fuel   int
	shield int
	dead   bool
}

func NewPlayer(env *Env) *Player {
	p := &Player{env: env}
	p.Reset()
	return p
}

// Reset refuels and recenters the ship near the bottom of the field
func (p *Player) Reset() {
	f := p.env.Field()
	p.pos = vmath.Vec2{X: f.X + f.W/2, Y: f.Bottom() - parameter.PlayerInitialY}
	if p.pos.Y < f.Y {
		p.pos.Y = f.Center().Y
	}
	p.vel = vmath.Vec2{}
	p.heading = 0
	p.omega = 0
	p.fuel = parameter.PlayerMaxFuel
	p.shield = parameter.PlayerMaxShield
	p.dead = false
}

func (p *Player) Bounds() vmath.Rect {
	return vmath.RectAround(p.pos, playerW, playerH)
}

func (p *Player) Pos() vmath.Vec2 { return p.pos }
func (p *Player) Heading() float64 { return p.heading }
func (p *Player) Fuel() int        { return p.fuel }
func (p *Player) Shield() int      { return p.shield }
func (p *Player) Dead() bool       { return p.dead }

// Muzzle returns the launch position and velocity of a new missile
func (p *Player) Muzzle() (vmath.Vec2, vmath.Vec2) {
	dir := vmath.V2FromAngle(p.heading)
	return p.pos, vmath.V2Add(p.vel, vmath.V2Scale(dir, parameter.MissileSpeed))
}

// Recharge restores the shield
func (p *Player) Recharge() {
	if !p.dead {
		p.shield = parameter.PlayerMaxShield
	}
}

func (p *Player) CheckCollision(other Sprite) {
	if p.dead || !p.Bounds().Intersects(other.Bounds()) {
		return
	}
	switch o := other.(type) {
	case *Enemy:
		if o.strike() {
			p.env.emit(p, event.KindRemove, o)
			p.takeDamage(parameter.DamageEnemyCollision)
		}
	case *Asteroid:
		if o.strike() {
			p.env.emit(p, event.KindRemove, o)
			p.takeDamage(o.Size().Damage())
		}
	}
}

func (p *Player) takeDamage(n int) {
	p.shield -= n
	if p.shield > 0 {
		p.env.play(audio.SoundShieldHit)
		return
	}
	p.shield = 0
	p.dead = true
	p.env.play(audio.SoundExplosion)
	p.env.emit(p, event.KindRemove, p)
}

func (p *Player) Update() {
	p.pos = vmath.V2Add(p.pos, p.vel)
	p.heading = vmath.NormalizeAngle(p.heading + p.omega)
	p.pos = p.env.Field().Wrap(p.pos)
}

func (p *Player) HandleKey(k display.Key) {
	if p.dead {
		return
	}
	switch k.Binding() {
	case "a", "left":
		p.omega -= parameter.PlayerTurnRate
	case "d", "right":
		p.omega += parameter.PlayerTurnRate
	case "w", "up":
		p.thrust()
	}
}

func (p *Player) thrust() {
	if p.fuel <= 0 {
		return
	}
	v := vmath.V2Add(p.vel, vmath.V2Scale(vmath.V2FromAngle(p.heading), parameter.PlayerThrust))
	if vmath.V2Mag(v) > parameter.PlayerMaxSpeed {
		v = vmath.V2Scale(vmath.V2Normalize(v), parameter.PlayerMaxSpeed)
	}
	p.vel = v
	p.fuel--
}

func (p *Player) Draw(c display.Canvas) {
	b := p.Bounds()
	c.SetCell(int(b.X), int(b.Y), playerGlyphs[vmath.Heading8(p.heading)], stylePlayer)

	// Gauges on the HUD row, right aligned
	w := int(c.Bounds().W)
	line := fmt.Sprintf("SHIELD %s  FUEL %s", gauge(p.shield, parameter.PlayerMaxShield, 10), gauge(p.fuel, parameter.PlayerMaxFuel, 10))
	x := w - len([]rune(line)) - 1
	c.DrawText(x, 0, line[:len("SHIELD ")], styleShield)
	c.DrawText(x+len("SHIELD "), 0, line[len("SHIELD "):], styleHUD)
}
