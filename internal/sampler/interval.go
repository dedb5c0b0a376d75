package sampler

import (
	"sync"
	"time"
)

// #region interval-scheduler

// IntervalScheduler is a wall-clock Scheduler that fires ticks at a
// fixed interval. It stands in for a host render loop in the demo
// server and the simulator; real hosts inject their own frame callback.
type IntervalScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	nextID  TickHandle
	pending map[TickHandle]*time.Timer
}

// NewIntervalScheduler creates a scheduler firing every interval.
// A non-positive interval defaults to ~60 ticks per second.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &IntervalScheduler{
		interval: interval,
		pending:  make(map[TickHandle]*time.Timer),
	}
}

// ScheduleTick arms fn to run once after the interval elapses.
func (is *IntervalScheduler) ScheduleTick(fn func(now time.Time)) TickHandle {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.nextID++
	id := is.nextID
	is.pending[id] = time.AfterFunc(is.interval, func() {
		is.mu.Lock()
		delete(is.pending, id)
		is.mu.Unlock()
		fn(time.Now())
	})
	return id
}

// Cancel stops a pending tick. Unknown handles are ignored.
func (is *IntervalScheduler) Cancel(h TickHandle) {
	is.mu.Lock()
	defer is.mu.Unlock()
	if t, ok := is.pending[h]; ok {
		t.Stop()
		delete(is.pending, h)
	}
}

// #endregion interval-scheduler
