package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joeycumines/go-catrate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/titan/audio"
	"github.com/lixenwraith/titan/display"
	"github.com/lixenwraith/titan/engine"
	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/highscore"
	"github.com/lixenwraith/titan/level"
	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/sprite"
	"github.com/lixenwraith/titan/vmath"
)

const testLevels = `
levels:
  - name: one
    spawn_interval: 20ms
    max_spawns: 2
    pattern: chasers
    enemy_speed: 0.01
`

var testBindings = map[string]event.Kind{
	"esc": event.KindQuit,
	"s":   event.KindStart,
	"r":   event.KindStart,
	"p":   event.KindPause,
	"n":   event.KindNextLevel,
	"h":   event.KindHelp,
	"m":   event.KindMenu,
}

type soundLog struct {
	mu     sync.Mutex
	played []audio.SoundType
	closed int
}

func (s *soundLog) Play(t audio.SoundType) {
	s.mu.Lock()
	s.played = append(s.played, t)
	s.mu.Unlock()
}

func (s *soundLog) Close() {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
}

func (s *soundLog) has(t audio.SoundType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.played {
		if p == t {
			return true
		}
	}
	return false
}

type stopCounter struct {
	calls int
}

func (s *stopCounter) RequestStop() { s.calls++ }

// harness stands in for the scheduler: events are queued and handled by pump
type harness struct {
	t      *testing.T
	game   *Titan
	d      *event.Dispatcher
	screen tcell.SimulationScreen
	scores *highscore.Store
	sounds *soundLog
	stop   *stopCounter

	mu    sync.Mutex
	queue []event.Event
}

func (h *harness) OnEvent(ev event.Event) {
	h.mu.Lock()
	h.queue = append(h.queue, ev)
	h.mu.Unlock()
}

func (h *harness) pop() (event.Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return event.Event{}, false
	}
	ev := h.queue[0]
	h.queue = h.queue[1:]
	return ev, true
}

func (h *harness) pump() {
	h.t.Helper()
	for i := 0; ; i++ {
		require.Less(h.t, i, 1000, "event storm")
		ev, ok := h.pop()
		if !ok {
			return
		}
		h.game.Handle(ev)
	}
}

func (h *harness) emit(kind event.Kind, attachment any) {
	h.d.Emit(nil, kind, attachment)
	h.pump()
}

// frame runs one full frame without handling events
func (h *harness) frame() {
	h.game.DetectCollisions()
	h.game.UpdateState()
	h.game.RenderToBuffer()
	h.game.PresentFrame()
}

func (h *harness) screenContains(text string) bool {
	w, hgt := h.screen.Size()
	for y := 0; y < hgt; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			r, _, _, _ := h.screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		if strings.Contains(b.String(), text) {
			return true
		}
	}
	return false
}

func newScreen(t *testing.T) (*display.Display, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	disp := display.New(screen, zerolog.Nop())
	require.NoError(t, disp.Init())
	t.Cleanup(disp.Fini)
	return disp, screen
}

func newHarness(t *testing.T, levels string) *harness {
	t.Helper()
	store, err := highscore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := newHarnessWithStore(t, levels, store)
	h.scores = store
	return h
}

func newHarnessWithStore(t *testing.T, levels string, store ScoreStore) *harness {
	t.Helper()
	tbl, err := level.Parse([]byte(levels))
	require.NoError(t, err)

	disp, screen := newScreen(t)
	h := &harness{
		t:      t,
		d:      event.NewDispatcher(),
		screen: screen,
		sounds: &soundLog{},
		stop:   &stopCounter{},
	}
	h.d.Register(h)
	h.game = New(disp, h.d, tbl, Config{
		Player:          "tester",
		FramePeriod:     10 * time.Millisecond,
		MissileCapacity: 2,
		Bindings:        testBindings,
		Seed:            42,
	}, WithAudio(h.sounds), WithScores(store), WithStopper(h.stop))
	return h
}

// takeRemove pulls the queued Remove for s out of the harness queue
func (h *harness) takeRemove(s sprite.Sprite) (event.Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, ev := range h.queue {
		if ev.Kind == event.KindRemove && ev.Attachment == s {
			h.queue = append(h.queue[:i], h.queue[i+1:]...)
			return ev, true
		}
	}
	return event.Event{}, false
}

// slowScores blocks Record until released
type slowScores struct {
	entered chan struct{}
	release chan struct{}

	mu       sync.Mutex
	recorded []highscore.Entry
}

func (s *slowScores) Record(ctx context.Context, e highscore.Entry) error {
	s.entered <- struct{}{}
	<-s.release
	s.mu.Lock()
	s.recorded = append(s.recorded, e)
	s.mu.Unlock()
	return nil
}

func (s *slowScores) Best(ctx context.Context) (highscore.Entry, error) {
	return highscore.Entry{}, highscore.ErrNoScores
}

func (s *slowScores) entries() []highscore.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]highscore.Entry(nil), s.recorded...)
}

func (h *harness) hostiles() []sprite.Sprite {
	var out []sprite.Sprite
	for _, s := range h.game.Sprites() {
		if _, ok := s.(sprite.Hostile); ok {
			out = append(out, s)
		}
	}
	return out
}

func TestSplashScreen(t *testing.T) {
	h := newHarness(t, testLevels)
	assert.Equal(t, StateSplash, h.game.State())
	require.Len(t, h.game.Sprites(), 1)

	h.frame()
	assert.True(t, h.screenContains("M I S S I O N"))
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t, testLevels)

	h.emit(event.KindHelp, nil)
	assert.Equal(t, StateHelp, h.game.State())
	h.frame()
	assert.True(t, h.screenContains("HOW TO FLY"))
	assert.False(t, h.screenContains("M I S S I O N"))

	h.emit(event.KindHelp, nil)
	assert.Equal(t, StateSplash, h.game.State())
	assert.Len(t, h.game.Sprites(), 1)
}

func TestStartAndPause(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	assert.Equal(t, StatePlaying, h.game.State())

	sprites := h.game.Sprites()
	require.Len(t, sprites, 2)
	assert.IsType(t, &sprite.Score{}, sprites[0])
	assert.Same(t, h.game.Ship(), sprites[1])

	h.emit(event.KindPause, nil)
	assert.Equal(t, StatePaused, h.game.State())

	// Paused games ignore steering and do not spawn
	h.game.HandleKey(display.Key{Rune: 'd'})
	for i := 0; i < 5; i++ {
		h.frame()
	}
	h.pump()
	assert.Equal(t, 0.0, h.game.Ship().Heading())
	assert.Empty(t, h.hostiles())
	assert.True(t, h.screenContains("PAUSED"))

	h.emit(event.KindPause, nil)
	assert.Equal(t, StatePlaying, h.game.State())
	h.game.HandleKey(display.Key{Rune: 'd'})
	h.frame()
	assert.Greater(t, h.game.Ship().Heading(), 0.0)
}

func TestBoundKeysPublish(t *testing.T) {
	h := newHarness(t, testLevels)
	h.game.HandleKey(display.Key{Rune: 's'})
	h.pump()
	assert.Equal(t, StatePlaying, h.game.State())

	h.game.HandleKey(display.Key{Rune: 'p'})
	h.pump()
	assert.Equal(t, StatePaused, h.game.State())
}

func TestSpawnAndLevelComplete(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)

	h.frame()
	h.pump()
	assert.Empty(t, h.hostiles())
	h.frame()
	h.pump()
	require.Len(t, h.hostiles(), 1)
	h.frame()
	h.frame()
	h.pump()
	enemies := h.hostiles()
	require.Len(t, enemies, 2)
	assert.IsType(t, &sprite.Enemy{}, enemies[0])

	// No more spawns once the level quota is out
	for i := 0; i < 10; i++ {
		h.frame()
	}
	h.pump()
	assert.Len(t, h.hostiles(), 2)
	assert.Equal(t, StatePlaying, h.game.State())

	for _, e := range enemies {
		h.emit(event.KindRemove, e)
	}
	h.frame()
	h.pump()
	assert.Equal(t, StateEndOfLevel, h.game.State())
	assert.True(t, h.sounds.has(audio.SoundLevelUp))
	h.frame()
	assert.True(t, h.screenContains("LEVEL 1 COMPLETE"))

	// Single level table: next level wins
	h.emit(event.KindNextLevel, nil)
	assert.Equal(t, StateGameOver, h.game.State())
	h.frame()
	assert.True(t, h.screenContains("MISSION COMPLETE"))

	best, err := h.scores.Best(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester", best.Player)
	assert.True(t, best.Won)
	assert.Equal(t, 1, best.Level)
}

func TestNextLevelIgnoredWhilePlaying(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	h.emit(event.KindNextLevel, nil)
	assert.Equal(t, StatePlaying, h.game.State())
	assert.Equal(t, 0, h.game.Level())
}

func TestStaleSpawnDropped(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	h.frame()
	h.frame()

	// The spawn is still queued when the game returns to the menu
	h.game.Handle(event.New(nil, event.KindPause, nil))
	h.game.Handle(event.New(nil, event.KindMenu, nil))
	h.pump()

	assert.Equal(t, StateSplash, h.game.State())
	assert.Len(t, h.game.Sprites(), 1)
	assert.Empty(t, h.hostiles())
}

func TestScoreGrantsLife(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)

	ship := h.game.Ship()
	ship.CheckCollision(sprite.NewAsteroid(h.game.env, ship.Pos(), vmath.Vec2{}, sprite.SizeLarge))
	h.pump()
	assert.Equal(t, parameter.PlayerMaxShield-parameter.DamageAsteroidLarge, ship.Shield())

	h.emit(event.KindScore, parameter.LifeScoreInterval-10)
	assert.Less(t, ship.Shield(), parameter.PlayerMaxShield)
	h.emit(event.KindScore, 10)
	assert.Equal(t, parameter.PlayerMaxShield, ship.Shield())
	assert.Equal(t, parameter.LifeScoreInterval, h.game.Points())
}

func TestShipDestroyedEndsGame(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	h.emit(event.KindScore, 30)

	ship := h.game.Ship()
	for i := 0; i < 2; i++ {
		ship.CheckCollision(sprite.NewEnemy(h.game.env, ship, ship.Pos(), 0.1))
	}
	require.True(t, ship.Dead())
	h.pump()

	assert.Equal(t, StateGameOver, h.game.State())
	assert.True(t, h.sounds.has(audio.SoundGameOver))
	assert.NotContains(t, h.game.Sprites(), sprite.Sprite(ship))
	h.frame()
	assert.True(t, h.screenContains("G A M E   O V E R"))

	best, err := h.scores.Best(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, best.Score)
	assert.False(t, best.Won)

	// Restart lands on the splash screen showing the record
	h.emit(event.KindStart, nil)
	assert.Equal(t, StateSplash, h.game.State())
	assert.False(t, ship.Dead())
	assert.Equal(t, 0, h.game.Points())
	h.frame()
	assert.True(t, h.screenContains("best: tester 30 (level 1)"))
}

func TestFireRecyclesMissiles(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	pool := h.game.Missiles()

	h.game.HandleKey(display.Key{Rune: ' '})
	h.game.HandleKey(display.Key{Rune: ' '})
	h.pump()
	assert.Equal(t, 1, pool.InUse(), "second shot is rate limited")
	assert.Equal(t, int64(1), h.game.statFired.Load())
	assert.Equal(t, int64(1), h.game.statDenied.Load())
	assert.True(t, h.sounds.has(audio.SoundFire))

	var found bool
	for _, s := range h.game.Sprites() {
		if _, ok := s.(*sprite.Missile); ok {
			found = true
		}
	}
	require.True(t, found)

	for i := 0; i < 200 && pool.InUse() > 0; i++ {
		h.frame()
		h.pump()
	}
	assert.Equal(t, 0, pool.InUse())
	assert.Equal(t, 1, pool.Available())
}

func TestStaleMissileRemoveIgnored(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	h.game.HandleKey(display.Key{Rune: ' '})
	h.pump()

	missiles := h.game.Missiles()
	require.Equal(t, 1, missiles.InUse())
	var m *sprite.Missile
	for _, s := range h.game.Sprites() {
		if mm, ok := s.(*sprite.Missile); ok {
			m = mm
		}
	}
	require.NotNil(t, m)

	// Fly until the missile publishes its Remove, then hold that event back
	var stale event.Event
	found := false
	for i := 0; i < 500 && !found; i++ {
		h.frame()
		stale, found = h.takeRemove(m)
	}
	require.True(t, found)
	require.True(t, m.Removed())

	// Back to the menu checks the missile in before its Remove is handled
	h.game.Handle(event.New(nil, event.KindPause, nil))
	h.game.Handle(event.New(nil, event.KindMenu, nil))
	h.pump()
	require.Equal(t, 0, missiles.InUse())
	require.Equal(t, 1, missiles.Available())

	// The same missile flies again in the next game
	h.emit(event.KindStart, nil)
	h.game.limiter = catrate.NewLimiter(map[time.Duration]int{parameter.PlayerFireCooldown: 1})
	h.game.HandleKey(display.Key{Rune: ' '})
	h.pump()
	require.Contains(t, h.game.Sprites(), sprite.Sprite(m))
	require.False(t, m.Removed())

	h.game.Handle(stale)
	assert.Contains(t, h.game.Sprites(), sprite.Sprite(m), "new flight survives the old Remove")
	assert.Equal(t, 1, missiles.InUse())
	assert.Equal(t, 0, missiles.Available())

	// The new flight still recycles exactly once
	for i := 0; i < 500 && missiles.InUse() > 0; i++ {
		h.frame()
		h.pump()
	}
	assert.Equal(t, 0, missiles.InUse())
	assert.Equal(t, 1, missiles.Available())
	assert.Equal(t, 1, missiles.Len())
}

func TestScoreStoreDoesNotBlockFrames(t *testing.T) {
	slow := &slowScores{entered: make(chan struct{}), release: make(chan struct{})}
	h := newHarnessWithStore(t, testLevels, slow)
	h.emit(event.KindStart, nil)
	h.emit(event.KindScore, 40)

	handled := make(chan struct{})
	go func() {
		h.game.Handle(event.New(nil, event.KindEnd, 40))
		close(handled)
	}()

	select {
	case <-slow.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("score not recorded")
	}
	assert.Equal(t, StateGameOver, h.game.State())

	framed := make(chan struct{})
	go func() {
		h.game.DetectCollisions()
		h.game.UpdateState()
		h.game.RenderToBuffer()
		close(framed)
	}()
	select {
	case <-framed:
	case <-time.After(2 * time.Second):
		t.Fatal("frame blocked behind the score store")
	}

	close(slow.release)
	<-handled
	entries := slow.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 40, entries[0].Score)
	assert.False(t, entries[0].Won)
}

func TestFireOnlyWhilePlaying(t *testing.T) {
	h := newHarness(t, testLevels)
	h.game.HandleKey(display.Key{Rune: ' '})
	h.pump()
	assert.Equal(t, 0, h.game.Missiles().InUse())
	assert.Equal(t, int64(0), h.game.statFired.Load())
}

func TestStatsOverlayToggle(t *testing.T) {
	h := newHarness(t, testLevels)
	h.game.HandleKey(display.Key{Name: "f3"})
	h.frame()
	assert.True(t, h.screenContains("game.fire_denied=0"))

	h.game.HandleKey(display.Key{Name: "f3"})
	h.frame()
	assert.False(t, h.screenContains("game.fire_denied"))
}

func TestQuit(t *testing.T) {
	h := newHarness(t, testLevels)
	h.emit(event.KindStart, nil)
	h.game.HandleKey(display.Key{Rune: ' '})
	h.pump()
	require.Equal(t, 1, h.game.Missiles().InUse())

	h.game.HandleKey(display.Key{Name: "esc"})
	h.pump()

	assert.Empty(t, h.game.Sprites())
	assert.Equal(t, 1, h.stop.calls)
	assert.Equal(t, 1, h.sounds.closed)
	assert.Equal(t, 0, h.game.Missiles().InUse())
	_, ok := h.game.Missiles().CheckOut()
	assert.False(t, ok, "pool closed")
}

func TestRunsUnderScheduler(t *testing.T) {
	tbl, err := level.Parse([]byte(testLevels))
	require.NoError(t, err)
	disp, _ := newScreen(t)

	d := event.NewDispatcher()
	sched := engine.NewScheduler(d, engine.WithFPS(200))
	g := New(disp, d, tbl, Config{FramePeriod: sched.Config().FramePeriod, Bindings: testBindings, Seed: 1},
		WithStopper(sched))

	go func() {
		for d.ListenerCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		d.Emit(nil, event.KindStart, nil)
		time.Sleep(50 * time.Millisecond)
		d.Emit(nil, event.KindQuit, nil)
	}()

	require.NoError(t, sched.Start(g))
	assert.Equal(t, StatePlaying, g.State())
	assert.Empty(t, g.Sprites())
	assert.Positive(t, sched.State().Frames)
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "end_of_level", StateEndOfLevel.String())
	assert.Equal(t, "unknown", State(42).String())
}
