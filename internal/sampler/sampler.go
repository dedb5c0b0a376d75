package sampler

import (
	"sync"
	"time"
)

// #region sampler

// Sampler records a timestamp on every rendering tick while monitoring
// is active. Old samples beyond the retention window drop off. Start
// and Stop are idempotent; a hidden host pauses sampling entirely so a
// frozen render loop never reads as a stall.
type Sampler struct {
	sched  Scheduler
	sink   Sink
	window time.Duration

	mu      sync.Mutex
	running bool
	visible bool
	pending TickHandle
	armed   bool
	samples []time.Time
}

// New creates a Sampler. sink may be nil (timestamps are still
// retained for Samples). The host is assumed visible until told
// otherwise.
func New(sched Scheduler, sink Sink, window time.Duration) *Sampler {
	if window <= 0 {
		window = time.Second
	}
	return &Sampler{
		sched:   sched,
		sink:    sink,
		window:  window,
		visible: true,
	}
}

// #endregion sampler

// #region start-stop

// Start begins sampling. Calling Start while already running is a no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.armLocked()
}

// Stop halts sampling and cancels any pending tick. Idempotent.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.disarmLocked()
}

// Running reports whether the sampler is currently active.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// #endregion start-stop

// #region visibility

// SetVisible pauses or resumes tick scheduling. While hidden, no
// samples are recorded and nothing reaches the sink.
func (s *Sampler) SetVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == v {
		return
	}
	s.visible = v
	if !v {
		s.disarmLocked()
		return
	}
	if s.running {
		s.armLocked()
	}
}

// #endregion visibility

// #region samples

// Samples returns a copy of the retained timestamps.
func (s *Sampler) Samples() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.samples))
	copy(out, s.samples)
	return out
}

// #endregion samples

// #region tick

func (s *Sampler) onTick(now time.Time) {
	s.mu.Lock()
	s.armed = false
	if !s.running || !s.visible {
		s.mu.Unlock()
		return
	}

	s.samples = append(s.samples, now)
	cutoff := now.Add(-s.window)
	trim := 0
	for trim < len(s.samples) && s.samples[trim].Before(cutoff) {
		trim++
	}
	if trim > 0 {
		s.samples = append(s.samples[:0], s.samples[trim:]...)
	}

	sink := s.sink
	s.armLocked()
	s.mu.Unlock()

	if sink != nil {
		sink.Tick(now)
	}
}

func (s *Sampler) armLocked() {
	if s.armed {
		return
	}
	s.armed = true
	s.pending = s.sched.ScheduleTick(s.onTick)
}

func (s *Sampler) disarmLocked() {
	if !s.armed {
		return
	}
	s.armed = false
	s.sched.Cancel(s.pending)
}

// #endregion tick
