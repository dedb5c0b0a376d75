package sampler

import "time"

// #region scheduler

// TickHandle identifies one pending scheduled tick.
type TickHandle int64

// Scheduler abstracts the host's "next frame" callback primitive so the
// sampler can be unit-tested with a fake clock instead of a real
// rendering loop. ScheduleTick arms the callback for the next frame
// exactly once; the sampler re-arms itself on every tick. fn must not
// be invoked from inside ScheduleTick.
type Scheduler interface {
	ScheduleTick(fn func(now time.Time)) TickHandle
	Cancel(h TickHandle)
}

// #endregion scheduler

// #region sink

// Sink receives each recorded tick timestamp.
type Sink interface {
	Tick(now time.Time)
}

// #endregion sink
