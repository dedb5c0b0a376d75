package prefs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// #region state

// State owns the mutable preference record. It is the single shared
// resource of the controller: all components read snapshots via Get,
// and the only legitimate writers are the degradation listener, the
// host signal handlers, and explicit user-facing setters — each
// identified by its Origin.
type State struct {
	mu        sync.Mutex
	current   Record
	listeners []Listener
}

// NewState creates a State seeded with the given record. The record is
// normalized and assigned a fresh version ID under the given origin; a
// pre-existing version ID (a loaded record) becomes the parent so
// lineage survives across sessions.
func NewState(initial Record, origin Origin) *State {
	initial.ParentID = initial.VersionID
	initial.VersionID = uuid.New().String()
	initial.PerformanceLevel = NormalizeLevel(initial.PerformanceLevel)
	initial.AnimationScale = ClampScale(initial.AnimationScale)
	initial.Origin = origin
	initial.CreatedAt = time.Now().UTC()
	return &State{current: initial}
}

// #endregion state

// #region get

// Get returns a snapshot of the current record.
func (s *State) Get() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// #endregion get

// #region subscribe

// Subscribe registers a listener. Listeners run synchronously after
// every Update, in registration order.
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// #endregion subscribe

// #region update

// Update shallow-merges a partial into the current record under the
// given origin. Fields left nil are untouched. The guard pass vetoes
// field-wise any component of an automatic-origin partial that would
// raise the performance level or the animation scale; vetoed fields are
// dropped, the rest still apply. Returns the decision; never an error.
func (s *State) Update(p Partial, origin Origin) Decision {
	s.mu.Lock()

	old := s.current
	next := old
	changed := false
	var vetoes []VetoSignal

	if p.PerformanceLevel != nil {
		lvl := NormalizeLevel(*p.PerformanceLevel)
		if origin.Automatic() && lvl.rank() > old.PerformanceLevel.rank() {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoAutoUpgradeLevel,
				Reason: fmt.Sprintf("origin %s may not raise level %s -> %s", origin, old.PerformanceLevel, lvl),
			})
		} else if lvl != old.PerformanceLevel {
			next.PerformanceLevel = lvl
			changed = true
		}
	}

	if p.AnimationScale != nil {
		scale := ClampScale(*p.AnimationScale)
		if origin.Automatic() && scale > old.AnimationScale {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoAutoUpgradeScale,
				Reason: fmt.Sprintf("origin %s may not raise scale %.2f -> %.2f", origin, old.AnimationScale, scale),
			})
		} else if scale != old.AnimationScale {
			next.AnimationScale = scale
			changed = true
		}
	}

	if p.ReduceMotion != nil && *p.ReduceMotion != old.ReduceMotion {
		next.ReduceMotion = *p.ReduceMotion
		changed = true
	}
	if p.EnableHapticFeedback != nil && *p.EnableHapticFeedback != old.EnableHapticFeedback {
		next.EnableHapticFeedback = *p.EnableHapticFeedback
		changed = true
	}
	if p.EnableParallax != nil && *p.EnableParallax != old.EnableParallax {
		next.EnableParallax = *p.EnableParallax
		changed = true
	}

	var decision Decision
	if changed {
		next.VersionID = uuid.New().String()
		next.ParentID = old.VersionID
		next.Origin = origin
		next.CreatedAt = time.Now().UTC()
		s.current = next
		decision = Decision{
			Action: "commit",
			Reason: fmt.Sprintf("applied %s update", origin),
			Vetoes: vetoes,
		}
	} else {
		decision = Decision{
			Action: "no_op",
			Reason: "no field changed",
			Vetoes: vetoes,
		}
	}

	result := s.current
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	// Notify outside the lock so listeners can call Get.
	for _, l := range listeners {
		l(result, decision)
	}
	return decision
}

// #endregion update

// #region degrade

// Degrade applies the standard degradation step: performance level down
// one notch and animation scale reduced by decrement, floored at
// ScaleMin. One call corresponds to one closed low-fps window.
func (s *State) Degrade(decrement float64) Decision {
	cur := s.Get()
	lvl := cur.PerformanceLevel.StepDown()
	scale := ClampScale(cur.AnimationScale - decrement)
	return s.Update(Partial{
		PerformanceLevel: &lvl,
		AnimationScale:   &scale,
	}, OriginAutoDegrade)
}

// #endregion degrade
