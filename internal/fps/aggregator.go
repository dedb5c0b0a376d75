package fps

import (
	"math"
	"sync"
	"time"
)

// #region aggregator

// Aggregator folds rendering ticks into per-window fps snapshots. The
// first tick after construction or Resume establishes the window
// boundary; subsequent ticks are counted and the window closes on the
// first tick at or past the window length. Pausing discards the
// partial window, so a backgrounded host never reads as 0 fps.
type Aggregator struct {
	config Config

	mu          sync.Mutex
	started     bool
	paused      bool
	windowStart time.Time
	count       int
	last        Snapshot

	snapshotFns []func(Snapshot)
	degradeFns  []func(DegradationEvent)
}

// NewAggregator creates an aggregator with the given config. Zero or
// negative knobs fall back to defaults.
func NewAggregator(config Config) *Aggregator {
	def := DefaultConfig()
	if config.WindowMillis <= 0 {
		config.WindowMillis = def.WindowMillis
	}
	if config.LowFPSThreshold <= 0 {
		config.LowFPSThreshold = def.LowFPSThreshold
	}
	return &Aggregator{config: config}
}

// #endregion aggregator

// #region observers

// OnSnapshot registers a callback invoked on every window close.
func (a *Aggregator) OnSnapshot(fn func(Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshotFns = append(a.snapshotFns, fn)
}

// OnDegradation registers a callback invoked when a closed window
// measures below the threshold.
func (a *Aggregator) OnDegradation(fn func(DegradationEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.degradeFns = append(a.degradeFns, fn)
}

// #endregion observers

// #region tick

// Tick records one rendering tick. Implements sampler.Sink.
func (a *Aggregator) Tick(now time.Time) {
	a.mu.Lock()
	if a.paused {
		a.mu.Unlock()
		return
	}
	if !a.started {
		a.started = true
		a.windowStart = now
		a.count = 0
		a.mu.Unlock()
		return
	}

	a.count++
	elapsed := now.Sub(a.windowStart)
	if elapsed < time.Duration(a.config.WindowMillis)*time.Millisecond {
		a.mu.Unlock()
		return
	}

	value := int(math.Round(float64(a.count) * 1000.0 / float64(elapsed.Milliseconds())))
	a.count = 0
	a.windowStart = now

	low := value < a.config.LowFPSThreshold
	if low {
		a.last.LowFPSStreak++
	} else {
		a.last.LowFPSStreak = 0
	}
	a.last.FPS = value
	snap := a.last

	snapshotFns := make([]func(Snapshot), len(a.snapshotFns))
	copy(snapshotFns, a.snapshotFns)
	var degradeFns []func(DegradationEvent)
	if low {
		degradeFns = make([]func(DegradationEvent), len(a.degradeFns))
		copy(degradeFns, a.degradeFns)
	}
	a.mu.Unlock()

	// Callbacks run outside the lock; one of them mutates preference
	// state and must be free to read back through this aggregator.
	for _, fn := range snapshotFns {
		fn(snap)
	}
	for _, fn := range degradeFns {
		fn(DegradationEvent{FPS: value})
	}
}

// #endregion tick

// #region pause-resume

// Pause suspends aggregation and discards the current partial window.
// Idempotent.
func (a *Aggregator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = true
	a.started = false
	a.count = 0
}

// Resume re-enables aggregation. The next tick establishes a fresh
// window boundary. Idempotent.
func (a *Aggregator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = false
}

// #endregion pause-resume

// #region current

// Current returns the most recently closed window's snapshot.
func (a *Aggregator) Current() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// #endregion current
