package event

import "sync"

// Queue is an unbounded FIFO of events with a blocking consumer side
// Thread-Safety:
//   - Enqueue: any number of producers, never blocks
//   - Dequeue: single consumer (scheduler event loop), blocks while empty
//   - Close: any goroutine, idempotent
//
// Shutdown: Close wakes the consumer, which stops without draining (stop-fast)
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	events []Event
	head   int
	closed bool
}

// NewQueue creates an empty open queue
func NewQueue() *Queue {
	q := &Queue{
		events: make([]Event, 0, 64),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends an event and wakes one waiting dequeuer
// Returns false if the queue is closed; the event is dropped
func (q *Queue) Enqueue(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, ev)
	q.cond.Signal()
	return true
}

// Dequeue removes and returns the oldest event
// Blocks while the queue is empty and open
// Returns (Event{}, false) once the queue is closed, even if events remain
func (q *Queue) Dequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.events) && !q.closed {
		q.cond.Wait()
	}

	if q.closed {
		return Event{}, false
	}

	return q.popLocked(), true
}

// TryDequeue removes the oldest event without blocking
// Returns false if the queue is empty or closed
func (q *Queue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.head == len(q.events) {
		return Event{}, false
	}
	return q.popLocked(), true
}

// popLocked removes the head event, caller holds mu and checked non-empty
func (q *Queue) popLocked() Event {
	ev := q.events[q.head]
	// Release references held by the slot so payloads can be collected
	q.events[q.head] = Event{}
	q.head++

	if q.head == len(q.events) {
		q.events = q.events[:0]
		q.head = 0
	} else if q.head >= 64 && q.head*2 >= len(q.events) {
		n := copy(q.events, q.events[q.head:])
		clear(q.events[n:])
		q.events = q.events[:n]
		q.head = 0
	}
	return ev
}

// Close marks the queue closed and wakes every waiter
// Subsequent Enqueue calls drop their event
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Drain removes and returns all pending events in FIFO order
// Works on a closed queue, for callers that need guaranteed delivery
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.events) {
		return nil
	}

	out := make([]Event, len(q.events)-q.head)
	copy(out, q.events[q.head:])
	clear(q.events)
	q.events = q.events[:0]
	q.head = 0
	return out
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) - q.head
}
