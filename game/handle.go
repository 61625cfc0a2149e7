package game

import (
	"context"
	"errors"
	"time"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/highscore"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/sprite"
)

const storeTimeout = 2 * time.Second

// Handle applies one event, called on the scheduler consumer goroutine
func (t *Titan) Handle(ev event.Event) {
	defer t.syncScores()

	switch ev.Kind {
	case event.KindAddFirst, event.KindAddLast:
		s, ok := ev.Attachment.(sprite.Sprite)
		if !ok {
			t.log.Warn().Stringer("kind", ev.Kind).Msg("add without sprite attachment")
			return
		}
		t.mu.Lock()
		t.addLocked(s, ev.Kind == event.KindAddFirst)
		t.mu.Unlock()

	case event.KindRemove:
		s, ok := ev.Attachment.(sprite.Sprite)
		if !ok {
			return
		}
		t.mu.Lock()
		t.removeLocked(s)
		t.mu.Unlock()

	case event.KindScore:
		n, ok := event.IntAttachment(ev)
		if !ok {
			return
		}
		t.mu.Lock()
		total := t.score.Add(n)
		for total >= t.nextLife {
			t.nextLife += parameter.LifeScoreInterval
			t.dispatcher.Emit(t, event.KindLife, total)
		}
		t.mu.Unlock()

	case event.KindLife:
		t.mu.Lock()
		t.ship.Recharge()
		t.mu.Unlock()
		t.log.Debug().Interface("score", ev.Attachment).Msg("shield recharged")

	case event.KindStart:
		t.mu.Lock()
		switch t.State() {
		case StateSplash:
			t.startLevelLocked(t.levelIdx, t.firstSpawnDelay())
		case StateGameOver:
			t.resetLocked()
		}
		t.mu.Unlock()

	case event.KindPause:
		switch t.State() {
		case StatePlaying:
			t.setState(StatePaused)
		case StatePaused:
			t.setState(StatePlaying)
		}

	case event.KindHelp:
		t.mu.Lock()
		switch t.State() {
		case StateSplash:
			t.swapBannerLocked(t.splash, t.help)
			t.setState(StateHelp)
		case StateHelp:
			t.swapBannerLocked(t.help, t.splash)
			t.setState(StateSplash)
		}
		t.mu.Unlock()

	case event.KindMenu:
		t.mu.Lock()
		switch t.State() {
		case StatePaused, StateEndOfLevel, StateGameOver, StateHelp:
			t.resetLocked()
		}
		t.mu.Unlock()

	case event.KindNextLevel:
		t.mu.Lock()
		if t.State() == StateEndOfLevel {
			t.startLevelLocked(t.levelIdx+1, parameter.NextLevelDelay)
		}
		t.mu.Unlock()

	case event.KindEnd:
		t.mu.Lock()
		if t.State() != StateGameOver {
			t.setState(StateGameOver)
			t.gameOver.SetLines(sprite.GameOverLines(t.score.Points())...)
			t.sprites = append([]sprite.Sprite{t.gameOver}, t.sprites...)
			t.env.Audio.Play(audio.SoundGameOver)
			t.recordLocked(false)
			t.log.Info().Int("score", t.score.Points()).Int("level", t.levelIdx).Msg("game over")
		}
		t.mu.Unlock()

	case event.KindQuit:
		t.mu.Lock()
		t.clearLocked()
		t.mu.Unlock()
		t.audio.Close()
		t.missiles.Close()
		if t.stopper != nil {
			t.stopper.RequestStop()
		}
		t.log.Info().Msg("quit requested")
	}
}

func (t *Titan) addLocked(s sprite.Sprite, first bool) {
	if _, ok := s.(sprite.Hostile); ok {
		// Spawns published before a level change are stale
		if _, live := t.pending[s]; !live {
			return
		}
		delete(t.pending, s)
	}
	if first {
		t.sprites = append([]sprite.Sprite{s}, t.sprites...)
		return
	}
	t.sprites = append(t.sprites, s)
}

func (t *Titan) removeLocked(s sprite.Sprite) {
	if m, ok := s.(*sprite.Missile); ok && !m.Removed() {
		// Stale remove for a missile already recycled into a new flight
		return
	}
	i := t.indexLocked(s)
	if i < 0 {
		return
	}
	t.sprites = append(t.sprites[:i], t.sprites[i+1:]...)

	switch o := s.(type) {
	case *sprite.Player:
		t.dispatcher.Emit(t, event.KindEnd, t.score.Points())
	case *sprite.Missile:
		if err := t.missiles.CheckIn(o); err != nil {
			t.log.Warn().Err(err).Msg("missile check-in")
		}
	case *sprite.Asteroid:
		t.hostiles--
		frags := o.Fragments()
		for _, f := range frags {
			t.sprites = append(t.sprites, f)
		}
		t.hostiles += len(frags)
	case *sprite.Enemy:
		t.hostiles--
	}
}

func (t *Titan) swapBannerLocked(from, to *sprite.Banner) {
	if i := t.indexLocked(from); i >= 0 {
		t.sprites = append(t.sprites[:i], t.sprites[i+1:]...)
	}
	t.sprites = append(t.sprites, to)
}

// firstSpawnDelay is the wait before the first spawn of a freshly started game
func (t *Titan) firstSpawnDelay() time.Duration {
	l, ok := t.levels.Get(t.levelIdx)
	if !ok {
		return parameter.NextLevelDelay
	}
	return l.SpawnInterval
}

// recordLocked queues the finished game for the store, once per run
func (t *Titan) recordLocked(won bool) {
	if t.recorded || t.scores == nil {
		return
	}
	t.recorded = true
	t.unsaved = &highscore.Entry{Player: t.cfg.Player, Score: t.score.Points(), Level: t.levelIdx, Won: won}
}

// syncScores runs the store work queued by the last event, mu is not held during store calls
func (t *Titan) syncScores() {
	t.mu.Lock()
	entry, refresh := t.unsaved, t.refreshBest
	t.unsaved, t.refreshBest = nil, false
	t.mu.Unlock()

	if entry != nil {
		t.record(*entry)
	}
	if !refresh {
		return
	}
	if best := t.bestLine(); best != "" {
		t.mu.Lock()
		t.splash.SetLines(sprite.SplashLines(best)...)
		t.mu.Unlock()
	}
}

func (t *Titan) record(entry highscore.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := t.scores.Record(ctx, entry); err != nil {
		t.log.Error().Err(err).Msg("failed to record score")
		return
	}
	t.log.Info().Str("player", entry.Player).Int("score", entry.Score).Bool("won", entry.Won).Msg("score recorded")
}

// bestLine formats the best recorded score for the splash screen
func (t *Titan) bestLine() string {
	if t.scores == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	best, err := t.scores.Best(ctx)
	if err != nil {
		if !errors.Is(err, highscore.ErrNoScores) {
			t.log.Warn().Err(err).Msg("failed to load best score")
		}
		return ""
	}
	return best.String()
}
