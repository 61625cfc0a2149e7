package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/titan/status"
)

type item struct{ id int }

func counterFactory() (func() *item, *atomic.Int32) {
	var n atomic.Int32
	return func() *item { return &item{id: int(n.Add(1))} }, &n
}

func TestNonBlockingScenario(t *testing.T) {
	factory, created := counterFactory()
	reg := status.NewRegistry()
	p := New(2, factory, WithName("missile"), WithStatus(reg))

	a, ok := p.CheckOut()
	require.True(t, ok)
	b, ok := p.CheckOut()
	require.True(t, ok)
	assert.NotSame(t, a, b)
	assert.Equal(t, int32(2), created.Load())

	c, ok := p.CheckOut()
	assert.False(t, ok)
	assert.Nil(t, c)

	require.NoError(t, p.CheckIn(a))
	d, ok := p.CheckOut()
	require.True(t, ok)
	assert.Same(t, a, d, "recycled object keeps identity")
	assert.Equal(t, int32(2), created.Load())

	assert.Equal(t, int64(2), reg.Ints.Get("pool.missile.created").Load())
	assert.Equal(t, int64(3), reg.Ints.Get("pool.missile.checkout").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("pool.missile.miss").Load())
}

func TestCheckInUnknownObject(t *testing.T) {
	factory, _ := counterFactory()
	p := New(2, factory)

	assert.ErrorIs(t, p.CheckIn(&item{}), ErrNotCheckedOut)

	a, _ := p.CheckOut()
	require.NoError(t, p.CheckIn(a))
	assert.ErrorIs(t, p.CheckIn(a), ErrNotCheckedOut, "double check-in")
	assert.Equal(t, 1, p.Available())
	assert.Equal(t, 0, p.InUse())
}

func TestAvailableServedFirstInOrder(t *testing.T) {
	factory, _ := counterFactory()
	p := New(3, factory)

	a, _ := p.CheckOut()
	b, _ := p.CheckOut()
	require.NoError(t, p.CheckIn(b))
	require.NoError(t, p.CheckIn(a))

	first, _ := p.CheckOut()
	second, _ := p.CheckOut()
	assert.Same(t, b, first)
	assert.Same(t, a, second)
	assert.Equal(t, 2, p.Len(), "no creation while objects are available")
}

func TestCapacityBoundsFactoryCalls(t *testing.T) {
	calls := 0
	p := New(2, func() int {
		calls++
		return 0
	})

	handed := 0
	for i := 0; i < 10; i++ {
		if _, ok := p.CheckOut(); ok {
			handed++
		}
	}
	assert.Equal(t, 2, calls, "factory runs at most capacity times")
	assert.Equal(t, 1, handed, "equal value is handed out once")
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.InUse())

	require.NoError(t, p.CheckIn(0))
	assert.ErrorIs(t, p.CheckIn(0), ErrNotCheckedOut)
	v, ok := p.CheckOut()
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 2, calls)
}

func TestSharedPointerFactory(t *testing.T) {
	shared := &item{id: 1}
	reg := status.NewRegistry()
	p := New(3, func() *item { return shared }, WithName("shared"), WithStatus(reg))

	first, ok := p.CheckOut()
	require.True(t, ok)
	assert.Same(t, shared, first)

	_, ok = p.CheckOut()
	assert.False(t, ok)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 1, p.InUse())
	assert.Equal(t, int64(1), reg.Ints.Get("pool.shared.created").Load())
}

func TestDefaultCapacity(t *testing.T) {
	factory, _ := counterFactory()
	p := New(0, factory)
	assert.Positive(t, p.Capacity())
	assert.False(t, p.Blocking())
	assert.Equal(t, "default", p.Name())
}

func TestBlockingCheckOutReleasedByCheckIn(t *testing.T) {
	factory, _ := counterFactory()
	p := New(1, factory, WithBlocking())
	require.True(t, p.Blocking())

	held, ok := p.CheckOut()
	require.True(t, ok)

	got := make(chan *item, 1)
	go func() {
		obj, ok := p.CheckOut()
		if ok {
			got <- obj
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("checkout returned from a full blocking pool")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, p.CheckIn(held))

	select {
	case obj, ok := <-got:
		require.True(t, ok, "blocked checkout must not fail")
		assert.Same(t, held, obj)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked checkout not released by check-in")
	}
}

func TestBlockingEachCheckInServesOneWaiter(t *testing.T) {
	factory, _ := counterFactory()
	p := New(2, factory, WithBlocking())

	a, _ := p.CheckOut()
	b, _ := p.CheckOut()

	const waiters = 4
	results := make(chan *item, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			obj, _ := p.CheckOut()
			results <- obj
		}()
	}

	held := []*item{a, b}
	for i := 0; i < waiters; i++ {
		require.NoError(t, p.CheckIn(held[0]))
		held = held[1:]

		select {
		case obj := <-results:
			require.NotNil(t, obj)
			held = append(held, obj)
		case <-time.After(2 * time.Second):
			t.Fatalf("waiter %d not served", i)
		}
	}
	assert.Equal(t, 2, p.Len())
}

func TestInvariantUnderConcurrency(t *testing.T) {
	factory, created := counterFactory()
	const capacity = 4
	p := New(capacity, factory, WithBlocking())

	var violations atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				obj, ok := p.CheckOut()
				if !ok {
					violations.Add(1)
					continue
				}
				if n := p.Len(); n > capacity {
					violations.Add(1)
				}
				if err := p.CheckIn(obj); err != nil {
					violations.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, violations.Load())
	assert.LessOrEqual(t, created.Load(), int32(capacity))
	assert.Equal(t, 0, p.InUse())
	assert.Equal(t, p.Len(), p.Available())
}

func TestExclusiveOwnership(t *testing.T) {
	factory, _ := counterFactory()
	p := New(3, factory)

	seen := make(map[*item]bool)
	for {
		obj, ok := p.CheckOut()
		if !ok {
			break
		}
		assert.False(t, seen[obj], "object handed out twice")
		seen[obj] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 3, p.InUse())
	assert.Equal(t, 0, p.Available())
}

func TestCloseReleasesBlockedCheckOut(t *testing.T) {
	factory, _ := counterFactory()
	p := New(1, factory, WithBlocking())
	held, _ := p.CheckOut()

	done := make(chan bool, 1)
	go func() {
		_, ok := p.CheckOut()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	p.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not release waiter")
	}

	require.NoError(t, p.CheckIn(held))
	_, ok := p.CheckOut()
	assert.False(t, ok, "closed pool hands out nothing")
}
