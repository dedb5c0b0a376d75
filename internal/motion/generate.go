package motion

import "github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"

// #region config

// Config holds the generator's timing constants and the system-level
// acceleration flag probed once at startup.
type Config struct {
	FastDurationMs        float64 // base for button interactions
	NormalDurationMs      float64 // base for everything else
	LowLevelFactor        float64 // duration multiplier at the low tier
	DefaultEasing         string  // easing applied when the base leaves it unset
	AccelerationAvailable bool    // hardware-accelerated compositing probed at startup
}

// DefaultConfig returns the standard timing constants.
func DefaultConfig() Config {
	return Config{
		FastDurationMs:   150,
		NormalDurationMs: 300,
		LowLevelFactor:   0.7,
		DefaultEasing:    "ease-out",
	}
}

// #endregion config

// #region generator

// Generator derives concrete motion parameters from an animation
// request and a preference snapshot. Pure with respect to the snapshot
// it reads: it never blocks, never mutates its input, and never fails —
// the worst outcome is a sub-optimal duration.
type Generator struct {
	config Config
}

// NewGenerator creates a generator. Zero timing knobs fall back to
// defaults.
func NewGenerator(config Config) *Generator {
	def := DefaultConfig()
	if config.FastDurationMs <= 0 {
		config.FastDurationMs = def.FastDurationMs
	}
	if config.NormalDurationMs <= 0 {
		config.NormalDurationMs = def.NormalDurationMs
	}
	if config.LowLevelFactor <= 0 {
		config.LowLevelFactor = def.LowLevelFactor
	}
	if config.DefaultEasing == "" {
		config.DefaultEasing = def.DefaultEasing
	}
	return &Generator{config: config}
}

// #endregion generator

// #region generate

// Generate rewrites a base descriptor under the given preference
// snapshot.
//
//  1. Reduced motion or a disabled tier short-circuits to a snap
//     descriptor: every duration 0, loops stripped, Disabled set.
//  2. The kind picks a base duration (button = fast, else normal); a
//     state's own explicit duration overrides the kind base. Durations
//     are multiplied by the animation scale.
//  3. The low tier shortens durations further; the high tier attaches
//     the promote-layer hint.
//  4. The hint is also attached whenever acceleration is available at
//     the system level, independent of tier.
//  5. Loading descriptors repeat forever.
func (g *Generator) Generate(kind Kind, base Descriptor, snap prefs.Record) Descriptor {
	if snap.ReduceMotion || snap.PerformanceLevel == prefs.LevelDisabled {
		return g.snap(base)
	}

	out := base.Clone()
	if out.States == nil {
		out.States = map[string]StateSpec{}
	}

	kindBase := g.config.NormalDurationMs
	if kind == KindButton {
		kindBase = g.config.FastDurationMs
	}

	for name, spec := range out.States {
		var t Transition
		if spec.Transition != nil {
			t = *spec.Transition
		}

		duration := kindBase
		if t.DurationMs > 0 {
			duration = t.DurationMs
		}
		duration *= snap.AnimationScale
		if snap.PerformanceLevel == prefs.LevelLow {
			duration *= g.config.LowLevelFactor
		}
		t.DurationMs = duration

		if t.Easing == "" && t.Stiffness == 0 {
			t.Easing = g.config.DefaultEasing
		}
		if kind == KindLoading {
			t.Repeat = RepeatForever
		}

		spec.Transition = &t
		out.States[name] = spec
	}

	if snap.PerformanceLevel == prefs.LevelHigh || g.config.AccelerationAvailable {
		out.AccelerationHint = HintPromoteLayer
	} else if out.AccelerationHint == "" {
		out.AccelerationHint = HintNone
	}
	out.Disabled = false
	return out
}

// snap returns the hard short-circuit form: the terminal visual state
// is reached immediately and nothing loops.
func (g *Generator) snap(base Descriptor) Descriptor {
	out := base.Clone()
	for name, spec := range out.States {
		t := Transition{DurationMs: 0}
		spec.Transition = &t
		out.States[name] = spec
	}
	out.Disabled = true
	out.AccelerationHint = HintNone
	return out
}

// #endregion generate

// #region default-base

// DefaultBase returns a minimal base descriptor for a kind, used by
// diagnostics endpoints and the simulator when no caller-supplied
// descriptor exists.
func DefaultBase(kind Kind) Descriptor {
	switch kind {
	case KindButton:
		return Descriptor{States: map[string]StateSpec{
			StateIdle:  {Properties: map[string]interface{}{"scale": 1.0}},
			StateHover: {Properties: map[string]interface{}{"scale": 1.05}},
			StateTap:   {Properties: map[string]interface{}{"scale": 0.97}},
		}}
	case KindLoading:
		return Descriptor{States: map[string]StateSpec{
			StateAnimate: {Properties: map[string]interface{}{"rotate": 360.0}},
		}}
	default:
		return Descriptor{States: map[string]StateSpec{
			StateInitial: {Properties: map[string]interface{}{"opacity": 0.0, "y": 12.0}},
			StateAnimate: {Properties: map[string]interface{}{"opacity": 1.0, "y": 0.0}},
			StateExit:    {Properties: map[string]interface{}{"opacity": 0.0}},
		}}
	}
}

// #endregion default-base
