package pool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/titan/parameter"
	"github.com/lixenwraith/titan/status"
)

// ErrNotCheckedOut is returned when checking in an object the pool did not hand out
var ErrNotCheckedOut = errors.New("object not checked out from pool")

// Pool is a bounded set of reusable objects created lazily by a factory
// Every object is either available or in use, available+inUse never exceeds capacity
// Objects keep their state across recycling, callers re-initialize on checkout
// The factory must return a distinct value per call, a value already tracked is discarded
type Pool[T comparable] struct {
	mu        sync.Mutex
	cond      *sync.Cond
	available []T
	inUse     map[T]struct{}
	// created counts factory calls and bounds them to capacity
	created int
	closed  bool

	capacity int
	blocking bool
	factory  func() T
	name     string
	log      zerolog.Logger

	statusReg     *status.Registry
	statCreated   *atomic.Int64
	statCheckouts *atomic.Int64
	statMisses    *atomic.Int64
}

// New creates a pool of at most capacity objects, non-positive capacity falls back to the default
func New[T comparable](capacity int, factory func() T, opts ...Option) *Pool[T] {
	if capacity <= 0 {
		capacity = parameter.DefaultPoolCapacity
	}
	p := &Pool[T]{
		inUse:    make(map[T]struct{}, capacity),
		capacity: capacity,
		factory:  factory,
		name:     "default",
		log:      zerolog.Nop(),
	}
	p.cond = sync.NewCond(&p.mu)

	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	p.blocking = cfg.blocking
	if cfg.name != "" {
		p.name = cfg.name
	}
	if cfg.log != nil {
		p.log = cfg.log.With().Str("pool", p.name).Logger()
	}
	p.statusReg = cfg.statusReg
	if p.statusReg == nil {
		p.statusReg = status.NewRegistry()
	}

	prefix := "pool." + p.name + "."
	p.statCreated = p.statusReg.Ints.Get(prefix + "created")
	p.statCheckouts = p.statusReg.Ints.Get(prefix + "checkout")
	p.statMisses = p.statusReg.Ints.Get(prefix + "miss")
	return p
}

// CheckOut returns an available object, creating one while under capacity
// A full pool blocks until CheckIn in blocking mode, otherwise reports false
// A closed pool always reports false
func (p *Pool[T]) CheckOut() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.closed {
			var zero T
			return zero, false
		}

		if len(p.available) > 0 {
			obj := p.available[0]
			var zero T
			p.available[0] = zero
			p.available = p.available[1:]
			p.inUse[obj] = struct{}{}
			p.statCheckouts.Add(1)
			return obj, true
		}

		if p.created < p.capacity {
			obj := p.factory()
			p.created++
			if p.trackedLocked(obj) {
				p.statMisses.Add(1)
				p.log.Warn().Int("created", p.created).Msg("factory returned a tracked object, discarded")
				continue
			}
			p.inUse[obj] = struct{}{}
			p.statCreated.Add(1)
			p.statCheckouts.Add(1)
			p.log.Debug().Int("size", p.created).Int("capacity", p.capacity).Msg("pool object created")
			return obj, true
		}

		if !p.blocking {
			p.statMisses.Add(1)
			var zero T
			return zero, false
		}

		// Loop re-checks after every wake, a signalled object may already be taken
		p.cond.Wait()
	}
}

func (p *Pool[T]) trackedLocked(obj T) bool {
	if _, ok := p.inUse[obj]; ok {
		return true
	}
	for _, a := range p.available {
		if a == obj {
			return true
		}
	}
	return false
}

// CheckIn returns obj to the pool and wakes one blocked CheckOut
func (p *Pool[T]) CheckIn(obj T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inUse[obj]; !ok {
		return ErrNotCheckedOut
	}
	delete(p.inUse, obj)
	p.available = append(p.available, obj)
	p.cond.Signal()
	return nil
}

// Close releases every blocked CheckOut, later checkouts fail
// CheckIn keeps working so outstanding objects can still be returned
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
}

// Len returns the number of objects created so far, discarded duplicates included
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}

func (p *Pool[T]) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inUse)
}

func (p *Pool[T]) Capacity() int { return p.capacity }

func (p *Pool[T]) Blocking() bool { return p.blocking }

func (p *Pool[T]) Name() string { return p.name }
