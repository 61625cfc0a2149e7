package engine

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/event"
	"github.com/lixenwraith/titan/status"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// Scheduler drives the fixed-rate frame loop on its own goroutine and serializes every event onto the goroutine that called Start
// Lifecycle is idle -> running -> stopped, a stopped scheduler cannot be restarted
type Scheduler struct {
	cfg        Config
	clock      Clock
	log        zerolog.Logger
	dispatcher *event.Dispatcher
	queue      *event.Queue

	state         atomic.Int32
	stopRequested atomic.Bool
	wg            sync.WaitGroup

	errMu sync.Mutex
	err   error

	// Frame state, written by the frame goroutine
	snapMu sync.RWMutex
	snap   State

	// Cached metric pointers
	statusReg   *status.Registry
	statFrames  *atomic.Int64
	statSkips   *atomic.Int64
	statYields  *atomic.Int64
	statLag     *atomic.Int64
	statFPS     *status.AtomicFloat
	statHandled *atomic.Int64
	statDropped *atomic.Int64
	statRunning *atomic.Bool
	lastOverrun time.Time
}

// State is a snapshot of the frame loop bookkeeping
type State struct {
	Running      bool
	FramePeriod  time.Duration
	OverSleep    time.Duration
	Excess       time.Duration
	NoDelayCount int
	Frames       int64
	Skips        int64
}

// NewScheduler creates a scheduler consuming events published on d
func NewScheduler(d *event.Dispatcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:        DefaultConfig(),
		clock:      SystemClock(),
		log:        zerolog.Nop(),
		dispatcher: d,
		queue:      event.NewQueue(),
		statusReg:  status.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.normalize()
	if s.dispatcher == nil {
		s.dispatcher = event.NewDispatcher()
	}

	s.statFrames = s.statusReg.Ints.Get("engine.frames")
	s.statSkips = s.statusReg.Ints.Get("engine.skips")
	s.statYields = s.statusReg.Ints.Get("engine.yields")
	s.statLag = s.statusReg.Ints.Get("engine.lag_dropped")
	s.statFPS = s.statusReg.Floats.Get("engine.fps")
	s.statHandled = s.statusReg.Ints.Get("event.handled")
	s.statDropped = s.statusReg.Ints.Get("event.dropped")
	s.statRunning = s.statusReg.Bools.Get("engine.running")

	s.snap.FramePeriod = s.cfg.FramePeriod
	return s
}

// Config returns the effective loop configuration
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Dispatcher returns the dispatcher the scheduler listens on
func (s *Scheduler) Dispatcher() *event.Dispatcher {
	return s.dispatcher
}

// Start runs the scheduler until shutdown and returns the fatal error, if any
// The frame loop runs on a new goroutine, events are handled on the caller's goroutine
func (s *Scheduler) Start(game Game) error {
	if game == nil {
		return ErrNilGame
	}
	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		if s.state.Load() == stateRunning {
			return ErrAlreadyRunning
		}
		return ErrStopped
	}

	s.statRunning.Store(true)
	s.log.Info().
		Dur("frame_period", s.cfg.FramePeriod).
		Int("max_frame_skips", s.cfg.MaxFrameSkips).
		Bool("drain_on_stop", s.cfg.DrainOnStop).
		Msg("scheduler started")

	s.dispatcher.Register(s)

	s.wg.Add(1)
	go s.frameLoop(game)

	s.eventLoop(game)

	// Consumer may exit first on a handler failure
	s.RequestStop()
	s.wg.Wait()

	s.finishQueue(game)

	s.state.Store(stateStopped)
	s.statRunning.Store(false)

	err := s.Err()
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler stopped on fatal error")
	} else {
		s.log.Info().Int64("frames", s.statFrames.Load()).Msg("scheduler stopped")
	}
	return err
}

// RequestStop asks the loops to exit, safe from any goroutine and idempotent
// Observed at the top of the next frame iteration, in-flight work is not interrupted
func (s *Scheduler) RequestStop() {
	s.stopRequested.Store(true)
	s.state.CompareAndSwap(stateIdle, stateStopped)
	s.queue.Close()
}

// Running reports whether the scheduler started and no stop was requested
func (s *Scheduler) Running() bool {
	return s.state.Load() == stateRunning && !s.stopRequested.Load()
}

// OnEvent implements event.Listener by enqueueing for the consumer loop
func (s *Scheduler) OnEvent(ev event.Event) {
	if !s.queue.Enqueue(ev) {
		s.statDropped.Add(1)
	}
}

// Err returns the first fatal error recorded
func (s *Scheduler) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// State returns a snapshot of the frame loop bookkeeping
func (s *Scheduler) State() State {
	s.snapMu.RLock()
	snap := s.snap
	s.snapMu.RUnlock()
	snap.Running = s.Running()
	return snap
}

// Pending returns the number of queued events
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// fail records the first fatal error and requests shutdown
func (s *Scheduler) fail(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
	s.RequestStop()
}

// eventLoop handles events until the queue is closed
func (s *Scheduler) eventLoop(game Game) {
	for {
		ev, ok := s.queue.Dequeue()
		if !ok {
			return
		}
		if !s.handle(game, ev) {
			return
		}
	}
}

// finishQueue applies the shutdown policy to events left in the queue
func (s *Scheduler) finishQueue(game Game) {
	rest := s.queue.Drain()
	if len(rest) == 0 {
		return
	}

	if !s.cfg.DrainOnStop || s.Err() != nil {
		s.statDropped.Add(int64(len(rest)))
		s.log.Debug().Int("count", len(rest)).Msg("dropped queued events on stop")
		return
	}

	for i, ev := range rest {
		if !s.handle(game, ev) {
			s.statDropped.Add(int64(len(rest) - i - 1))
			return
		}
	}
}

// handle delivers one event, a panic becomes a HandlerError and stops the scheduler
func (s *Scheduler) handle(game Game, ev event.Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(&HandlerError{Kind: ev.Kind.String(), Value: r, Stack: debug.Stack()})
			ok = false
		}
	}()
	game.Handle(ev)
	s.statHandled.Add(1)
	return true
}
