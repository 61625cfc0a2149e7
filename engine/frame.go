package engine

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/lixenwraith/titan/parameter"
)

// frameLoop runs fixed-timestep frames until a stop is requested
// Sleep is compensated by the previous oversleep, lag is recovered by at most MaxFrameSkips update-only passes per iteration
func (s *Scheduler) frameLoop(game Game) {
	defer s.wg.Done()
	// Wake the consumer once on exit
	defer s.queue.Close()

	phase := "collisions"
	defer func() {
		if r := recover(); r != nil {
			s.fail(&FrameError{Phase: phase, Value: r, Stack: debug.Stack()})
		}
	}()

	period := s.cfg.FramePeriod
	var (
		overSleep  time.Duration
		excess     time.Duration
		noDelays   int
		frames     int64
		skipsTotal int64
	)

	sampleStart := s.clock.Now()
	sampleFrames := 0

	for !s.stopRequested.Load() {
		before := s.clock.Now()

		phase = "collisions"
		game.DetectCollisions()
		phase = "update"
		game.UpdateState()
		phase = "render"
		game.RenderToBuffer()
		phase = "present"
		game.PresentFrame()
		frames++
		s.statFrames.Add(1)

		after := s.clock.Now()
		elapsed := after.Sub(before)
		sleepTime := period - elapsed - overSleep

		if sleepTime > 0 {
			s.clock.Sleep(sleepTime)
			noDelays = 0
			overSleep = s.clock.Now().Sub(after) - sleepTime
		} else {
			excess -= sleepTime
			overSleep = 0
			noDelays++
			s.logOverrun(after, elapsed)
			if noDelays >= s.cfg.YieldThreshold {
				runtime.Gosched()
				noDelays = 0
				s.statYields.Add(1)
			}
		}

		skips := 0
		for excess > period && skips < s.cfg.MaxFrameSkips {
			excess -= period
			phase = "collisions"
			game.DetectCollisions()
			phase = "update"
			game.UpdateState()
			skips++
		}
		skipsTotal += int64(skips)
		s.statSkips.Add(int64(skips))

		// Lag beyond the skip bound is forgotten so one stall never costs more than MaxFrameSkips
		if excess > period {
			lost := excess - excess%period
			excess -= lost
			s.statLag.Add(int64(lost / period))
		}

		sampleFrames++
		if sampleFrames >= parameter.FPSSampleFrames {
			now := s.clock.Now()
			if span := now.Sub(sampleStart); span > 0 {
				s.statFPS.Set(float64(sampleFrames) / span.Seconds())
			}
			sampleStart = now
			sampleFrames = 0
		}

		s.snapMu.Lock()
		s.snap.OverSleep = overSleep
		s.snap.Excess = excess
		s.snap.NoDelayCount = noDelays
		s.snap.Frames = frames
		s.snap.Skips = skipsTotal
		s.snapMu.Unlock()
	}
}

// logOverrun warns about frames exceeding their budget, throttled
func (s *Scheduler) logOverrun(now time.Time, elapsed time.Duration) {
	if !s.lastOverrun.IsZero() && now.Sub(s.lastOverrun) < parameter.OverrunLogInterval {
		return
	}
	s.lastOverrun = now
	s.log.Warn().
		Dur("elapsed", elapsed).
		Dur("period", s.cfg.FramePeriod).
		Msg("frame overrun")
}
