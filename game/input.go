package game

import (
	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/core"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/event"
)

// HandleKey processes one key press on the input goroutine
// Bound keys publish their event, every key is then offered to the sprites unless paused
func (t *Titan) HandleKey(k display.Key) {
	name := k.Binding()
	switch name {
	case "f3":
		t.showStats.Store(!t.showStats.Load())
		return
	case "space":
		if t.State() == StatePlaying {
			if t.missiles.Blocking() {
				// A full blocking pool must not stall the input goroutine
				core.Go(t.fire)
			} else {
				t.fire()
			}
		}
	}

	if kind, ok := t.cfg.Bindings[name]; ok {
		t.dispatcher.Emit(t, kind, nil)
	}

	if t.State() == StatePaused {
		return
	}
	t.mu.Lock()
	for _, s := range t.sprites {
		s.HandleKey(k)
	}
	t.mu.Unlock()
}

// fire launches a missile from the ship
// Runs without the sprite lock while waiting on the limiter and pool, the missile joins the list via AddLast
func (t *Titan) fire() {
	if _, ok := t.limiter.Allow(fireCategory); !ok {
		t.statDenied.Add(1)
		return
	}
	m, ok := t.missiles.CheckOut()
	if !ok {
		t.statDenied.Add(1)
		return
	}

	t.mu.Lock()
	if t.ship.Dead() || t.State() != StatePlaying {
		t.mu.Unlock()
		if err := t.missiles.CheckIn(m); err != nil {
			t.log.Warn().Err(err).Msg("missile check-in after aborted launch")
		}
		return
	}
	pos, vel := t.ship.Muzzle()
	m.Launch(pos, vel)
	t.mu.Unlock()

	t.statFired.Add(1)
	t.env.Audio.Play(audio.SoundFire)
	t.dispatcher.Emit(t, event.KindAddLast, m)
}
