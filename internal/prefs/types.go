package prefs

import "time"

// #region level

// Level is the coarse performance tier controlling how aggressively
// motion is simplified.
type Level string

const (
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
	LevelDisabled Level = "disabled"
)

// StepDown returns the next tier down. Disabled is the floor.
func (l Level) StepDown() Level {
	switch l {
	case LevelHigh:
		return LevelMedium
	case LevelMedium:
		return LevelLow
	case LevelLow:
		return LevelDisabled
	default:
		return LevelDisabled
	}
}

// Valid reports whether l is one of the four known tiers.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow, LevelDisabled:
		return true
	}
	return false
}

// rank orders tiers for upgrade/downgrade comparisons.
func (l Level) rank() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}

// #endregion level

// #region scale-bounds

// AnimationScale domain. Every write is clamped to this range.
const (
	ScaleMin = 0.5
	ScaleMax = 2.0
)

// #endregion scale-bounds

// #region origin

// Origin identifies which writer produced a preference version.
type Origin string

const (
	OriginSeed        Origin = "seed"         // capability estimator at startup
	OriginStored      Origin = "stored"       // loaded from the persistence layer
	OriginUser        Origin = "user"         // explicit user action
	OriginAutoDegrade Origin = "auto_degrade" // fps degradation listener
	OriginOSSignal    Origin = "os_signal"    // host reduced-motion signal
)

// Automatic reports whether this origin is a machine writer. Automatic
// writers may never raise the performance level or the animation scale.
func (o Origin) Automatic() bool {
	return o == OriginAutoDegrade || o == OriginOSSignal || o == OriginSeed
}

// #endregion origin

// #region record

// Record is a versioned snapshot of the preference state. Records are
// immutable once created; every applied update produces a new version
// linked to its parent.
type Record struct {
	VersionID            string
	ParentID             string
	PerformanceLevel     Level
	ReduceMotion         bool
	AnimationScale       float64
	EnableHapticFeedback bool
	EnableParallax       bool
	Origin               Origin
	CreatedAt            time.Time
}

// #endregion record

// #region partial

// Partial is a shallow-merge update. Nil fields are untouched.
type Partial struct {
	PerformanceLevel     *Level
	ReduceMotion         *bool
	AnimationScale       *float64
	EnableHapticFeedback *bool
	EnableParallax       *bool
}

// #endregion partial

// #region veto

// VetoType enumerates guard veto categories.
type VetoType string

const (
	VetoAutoUpgradeLevel VetoType = "auto_upgrade_level"
	VetoAutoUpgradeScale VetoType = "auto_upgrade_scale"
)

// VetoSignal records one field of a partial that the guard refused to apply.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto

// #region decision

// Decision records what an update applied and what it vetoed.
type Decision struct {
	Action string // "commit" | "no_op"
	Reason string
	Vetoes []VetoSignal
}

// #endregion decision

// #region listener

// Listener is invoked synchronously after every Update, in registration
// order, with the resulting record and the update decision. Listeners
// must not call Update re-entrantly.
type Listener func(Record, Decision)

// #endregion listener

// #region helpers

// ClampScale restricts a scale value to [ScaleMin, ScaleMax].
func ClampScale(v float64) float64 {
	if v < ScaleMin {
		return ScaleMin
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}

// NormalizeLevel maps unknown tiers to medium so a malformed stored or
// caller-supplied value never disables motion by accident.
func NormalizeLevel(l Level) Level {
	if l.Valid() {
		return l
	}
	return LevelMedium
}

// #endregion helpers
