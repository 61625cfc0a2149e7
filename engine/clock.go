package engine

import (
	"runtime"
	"sync"
	"time"
)

// Clock is the time source used for frame pacing
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the wall clock
func SystemClock() Clock {
	return systemClock{}
}

// ManualClock provides a controllable time source for testing
// Sleep advances the clock instead of blocking
type ManualClock struct {
	mu          sync.RWMutex
	currentTime time.Time
	slept       time.Duration
	// Oversleep is added to every Sleep to model coarse timer granularity
	oversleep time.Duration
}

// NewManualClock creates a manual clock starting at the given time
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{currentTime: start}
}

// Now returns the current manual time
func (m *ManualClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Sleep advances the clock by d plus the configured oversleep and yields
func (m *ManualClock) Sleep(d time.Duration) {
	m.mu.Lock()
	m.currentTime = m.currentTime.Add(d + m.oversleep)
	m.slept += d + m.oversleep
	m.mu.Unlock()
	runtime.Gosched()
}

// Advance advances the current time by the given duration
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// SetOversleep makes every following Sleep overshoot by d
func (m *ManualClock) SetOversleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.oversleep = d
}

// Slept returns the total time spent in Sleep
func (m *ManualClock) Slept() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slept
}
