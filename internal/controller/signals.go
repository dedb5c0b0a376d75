package controller

import "sync"

// #region manual-signals

// ManualSignals is a HostSignals implementation driven by explicit Set
// calls. Tests, the simulator, and the demo server use it in place of
// real OS hooks.
type ManualSignals struct {
	mu        sync.Mutex
	reducedFn []func(bool)
	visibleFn []func(bool)
}

// NewManualSignals creates an empty signal hub.
func NewManualSignals() *ManualSignals {
	return &ManualSignals{}
}

// OnReducedMotionChange registers a reduced-motion callback.
func (m *ManualSignals) OnReducedMotionChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reducedFn = append(m.reducedFn, fn)
}

// OnVisibilityChange registers a visibility callback.
func (m *ManualSignals) OnVisibilityChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visibleFn = append(m.visibleFn, fn)
}

// SetReducedMotion fans the new OS reduced-motion value out to all
// registered callbacks, in registration order.
func (m *ManualSignals) SetReducedMotion(reduced bool) {
	m.mu.Lock()
	fns := make([]func(bool), len(m.reducedFn))
	copy(fns, m.reducedFn)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(reduced)
	}
}

// SetVisible fans the new visibility value out to all registered
// callbacks, in registration order.
func (m *ManualSignals) SetVisible(visible bool) {
	m.mu.Lock()
	fns := make([]func(bool), len(m.visibleFn))
	copy(fns, m.visibleFn)
	m.mu.Unlock()
	for _, fn := range fns {
		fn(visible)
	}
}

// #endregion manual-signals
