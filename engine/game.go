package engine

import "github.com/lixenwraith/titan/event"

// Game is the host logic driven by the Scheduler
// Frame callbacks run on the frame goroutine in the declared order, Handle runs on the goroutine that called Start
// Both sides must share one lock around the game object collection
type Game interface {
	DetectCollisions()
	UpdateState()
	RenderToBuffer()
	PresentFrame()

	// Handle applies one event, it may publish further events
	Handle(ev event.Event)
}
