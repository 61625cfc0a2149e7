package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/highscore"
	"github.com/lixenwraith/titan/level"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/pool"
	"github.com/lixenwraith/titan/sprite"
	"github.com/lixenwraith/titan/status"
	"github.com/lixenwraith/titan/vmath"
)

// fireCategory is the rate limiter bucket for missile launches
const fireCategory = "fire"

// Titan is the Mission to Titan game driven by engine.Scheduler
//
// Concurrency:
//   - Frame callbacks run on the frame goroutine and iterate the sprite list
//   - Handle runs on the scheduler consumer goroutine and is the only writer of the sprite list
//   - HandleKey runs on the input goroutine and forwards keys under the sprite lock
//   - Game state is atomic so key handling can read it without the lock
type Titan struct {
	cfg        Config
	log        zerolog.Logger
	screen     Screen
	dispatcher *event.Dispatcher
	stopper    Stopper
	audio      audio.Player
	scores     ScoreStore
	levels     *level.Table
	missiles   *pool.Pool[*sprite.Missile]
	limiter    *catrate.Limiter

	state     atomic.Int32
	showStats atomic.Bool

	statusReg   *status.Registry
	statFired   *atomic.Int64
	statDenied  *atomic.Int64
	statSpawned *atomic.Int64
	statLevel   *atomic.Int64
	statState   *status.AtomicString

	// Guarded by mu
	mu       sync.Mutex
	sprites  []sprite.Sprite
	env      *sprite.Env
	ship     *sprite.Player
	score    *sprite.Score
	splash   *sprite.Banner
	help     *sprite.Banner
	gameOver *sprite.Banner
	levelEnd *sprite.Banner
	win      *sprite.Banner
	paused   *sprite.Banner
	overlay  *sprite.Overlay

	levelIdx  int
	current   level.Level
	spawned   int
	countdown int
	// hostiles counts live hostiles including spawns still in the event queue
	hostiles int
	// pending holds spawns published for the current level but not yet added
	pending  map[sprite.Sprite]struct{}
	nextLife int
	recorded bool
	// Score store work collected under mu, run by syncScores after it is released
	unsaved     *highscore.Entry
	refreshBest bool
}

// New builds the game in the splash state
func New(screen Screen, d *event.Dispatcher, levels *level.Table, cfg Config, opts ...Option) *Titan {
	t := &Titan{
		cfg:        cfg.normalize(),
		log:        zerolog.Nop(),
		screen:     screen,
		dispatcher: d,
		audio:      audio.Nop{},
		levels:     levels,
		statusReg:  status.NewRegistry(),
		pending:    make(map[sprite.Sprite]struct{}),
		nextLife:   parameter.LifeScoreInterval,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.statFired = t.statusReg.Ints.Get("game.missiles_fired")
	t.statDenied = t.statusReg.Ints.Get("game.fire_denied")
	t.statSpawned = t.statusReg.Ints.Get("game.spawned")
	t.statLevel = t.statusReg.Ints.Get("game.level")
	t.statState = t.statusReg.Strings.Get("game.state")

	t.env = &sprite.Env{
		Dispatcher: d,
		Field:      screen.Bounds,
		Audio:      t.audio,
		Rand:       vmath.NewFastRand(t.cfg.Seed),
	}

	popts := []pool.Option{pool.WithName("missile"), pool.WithLogger(t.log), pool.WithStatus(t.statusReg)}
	if t.cfg.MissileBlocking {
		popts = append(popts, pool.WithBlocking())
	}
	t.missiles = pool.New(t.cfg.MissileCapacity, func() *sprite.Missile {
		return sprite.NewMissile(t.env)
	}, popts...)
	t.limiter = catrate.NewLimiter(map[time.Duration]int{parameter.PlayerFireCooldown: 1})

	t.ship = sprite.NewPlayer(t.env)
	t.score = sprite.NewScore()
	t.splash = sprite.NewBanner()
	t.help = sprite.NewBanner(sprite.HelpLines()...)
	t.gameOver = sprite.NewBanner()
	t.levelEnd = sprite.NewBanner()
	t.win = sprite.NewBanner()
	t.paused = sprite.NewBanner(sprite.PausedLines()...)
	t.overlay = &sprite.Overlay{Lines: func() []string { return t.statusReg.Lines("") }}

	t.mu.Lock()
	t.resetLocked()
	t.mu.Unlock()
	t.syncScores()
	return t
}

// State returns the current game state
func (t *Titan) State() State {
	return State(t.state.Load())
}

func (t *Titan) setState(s State) {
	prev := State(t.state.Swap(int32(s)))
	t.statState.Store(s.String())
	if prev != s {
		t.log.Debug().Stringer("from", prev).Stringer("to", s).Msg("state change")
	}
}

// Sprites returns a copy of the sprite list
func (t *Titan) Sprites() []sprite.Sprite {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]sprite.Sprite, len(t.sprites))
	copy(out, t.sprites)
	return out
}

// Points returns the current score
func (t *Titan) Points() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.score.Points()
}

// Level returns the current level index
func (t *Titan) Level() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.levelIdx
}

// Ship returns the player sprite, callers must not touch it outside the game's goroutines
func (t *Titan) Ship() *sprite.Player { return t.ship }

// Missiles exposes the missile pool for diagnostics
func (t *Titan) Missiles() *pool.Pool[*sprite.Missile] { return t.missiles }

// DetectCollisions lets every sprite check every other sprite
func (t *Titan) DetectCollisions() {
	if !t.State().simulating() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, a := range t.sprites {
		for j, b := range t.sprites {
			if i != j {
				a.CheckCollision(b)
			}
		}
	}
}

// UpdateState releases spawns, advances sprites and detects the end of a level
func (t *Titan) UpdateState() {
	st := t.State()
	if !st.simulating() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if st == StatePlaying {
		t.spawnLocked()
	}
	for _, s := range t.sprites {
		s.Update()
	}
	if st == StatePlaying && t.spawned >= t.current.MaxSpawns && t.hostiles == 0 && !t.ship.Dead() {
		t.setState(StateEndOfLevel)
		t.levelEnd.SetLines(sprite.LevelCompleteLines(t.levelIdx)...)
		t.env.Audio.Play(audio.SoundLevelUp)
		t.dispatcher.Emit(t, event.KindAddLast, t.levelEnd)
		t.log.Info().Int("level", t.levelIdx).Int("score", t.score.Points()).Msg("level complete")
	}
}

// RenderToBuffer draws all sprites into the back buffer
func (t *Titan) RenderToBuffer() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	for _, s := range t.sprites {
		s.Draw(t.screen)
	}
	if t.State() == StatePaused {
		t.paused.Draw(t.screen)
	}
	if t.showStats.Load() {
		t.overlay.Draw(t.screen)
	}
}

// PresentFrame flips the back buffer to the terminal
func (t *Titan) PresentFrame() {
	t.screen.Show()
}

// ticks converts a duration into frame updates, at least one
func (t *Titan) ticks(d time.Duration) int {
	n := int(d / t.cfg.FramePeriod)
	if n < 1 {
		n = 1
	}
	return n
}

// resetLocked returns to the splash screen with a fresh ship and score
func (t *Titan) resetLocked() {
	t.clearLocked()
	t.levelIdx = 0
	t.statLevel.Store(0)
	t.score.Reset()
	t.ship.Reset()
	t.nextLife = parameter.LifeScoreInterval
	t.recorded = false
	t.splash.SetLines(sprite.SplashLines("")...)
	t.refreshBest = t.scores != nil
	t.sprites = append(t.sprites, t.splash)
	t.setState(StateSplash)
}

// clearLocked empties the sprite list, returning in-flight missiles to the pool
// and forgetting hostiles of the current level
func (t *Titan) clearLocked() {
	for _, s := range t.sprites {
		if m, ok := s.(*sprite.Missile); ok {
			if err := t.missiles.CheckIn(m); err != nil {
				t.log.Warn().Err(err).Msg("missile check-in on clear")
			}
		}
	}
	t.sprites = t.sprites[:0]
	t.hostiles = 0
	clear(t.pending)
}

// startLevelLocked sets up level idx, past the last level the game is won
func (t *Titan) startLevelLocked(idx int, delay time.Duration) {
	t.clearLocked()
	t.levelIdx = idx
	t.statLevel.Store(int64(idx))

	if t.levels.Final(idx) {
		t.win.SetLines(sprite.WinLines(t.score.Points())...)
		t.sprites = append(t.sprites, t.win)
		t.setState(StateGameOver)
		t.env.Audio.Play(audio.SoundLevelUp)
		t.recordLocked(true)
		t.log.Info().Int("score", t.score.Points()).Msg("mission complete")
		return
	}

	t.current, _ = t.levels.Get(idx)
	t.spawned = 0
	t.countdown = t.ticks(delay)
	t.score.SetLevel(idx)
	t.sprites = append(t.sprites, t.score, t.ship)
	t.setState(StatePlaying)
	t.log.Info().Int("level", idx).Str("name", t.current.Name).Msg("level started")
}

func (t *Titan) indexLocked(s sprite.Sprite) int {
	for i, x := range t.sprites {
		if x == s {
			return i
		}
	}
	return -1
}
