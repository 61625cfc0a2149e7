package game

import (
	"math"

	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/level"
	"github.com/lixenwraith/titan/sprite"
	"github.com/lixenwraith/titan/vmath"
)

// spawnMargin keeps spawns off the field edge
const spawnMargin = 2

// spawnLocked counts down to the next release and publishes it
func (t *Titan) spawnLocked() {
	if t.spawned >= t.current.MaxSpawns {
		return
	}
	t.countdown--
	if t.countdown > 0 {
		return
	}
	t.countdown = t.ticks(t.current.SpawnInterval)

	s := t.buildSpawn(t.current.SpawnAt(t.spawned))
	t.spawned++
	t.hostiles++
	t.pending[s] = struct{}{}
	t.statSpawned.Add(1)
	t.dispatcher.Emit(t, event.KindAddLast, s)
}

func (t *Titan) buildSpawn(sp level.Spawn) sprite.Sprite {
	corners := t.env.Field().Corners(spawnMargin)
	switch sp.Kind {
	case level.SpawnChaser:
		return sprite.NewEnemy(t.env, t.ship, corners[sp.Corner%len(corners)], sp.Speed)
	default:
		size := sprite.SizeMedium
		if sp.Large {
			size = sprite.SizeLarge
		}
		// Drift from the top-left corner somewhere between right and down
		angle := t.env.Rand.Range(math.Pi/2, math.Pi)
		vel := vmath.V2Scale(vmath.V2FromAngle(angle), sp.Speed)
		return sprite.NewAsteroid(t.env, corners[0], vel, size)
	}
}
