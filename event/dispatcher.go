package event

import "sync"

// Listener receives published events
// OnEvent runs on the publishing goroutine and must not block; enqueue, don't process
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(ev Event)

// OnEvent calls f(ev)
func (f ListenerFunc) OnEvent(ev Event) {
	f(ev)
}

// Dispatcher fans out published events to registered listeners
//
// Architecture:
//   - Publish is synchronous, on the caller's goroutine
//   - Listeners are invoked in registration order
//   - Concurrent Publish calls are serialized by one mutex, giving a total order
//   - A listener must not call Publish from OnEvent (the mutex is not reentrant)
type Dispatcher struct {
	mu        sync.Mutex
	listeners []Listener
}

// NewDispatcher creates a dispatcher with no listeners
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register appends a listener; duplicates receive each event once per registration
func (d *Dispatcher) Register(l Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()
}

// Publish delivers ev to every registered listener in registration order
func (d *Dispatcher) Publish(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, l := range d.listeners {
		l.OnEvent(ev)
	}
}

// Emit is shorthand for Publish(New(source, kind, attachment))
func (d *Dispatcher) Emit(source any, kind Kind, attachment any) {
	d.Publish(New(source, kind, attachment))
}

// ListenerCount returns the number of registrations
func (d *Dispatcher) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
