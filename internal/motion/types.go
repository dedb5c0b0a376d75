package motion

// #region kind

// Kind classifies an animation request. Unknown kinds are valid input
// and take the default timing branch, so callers may add custom kinds
// without generator changes.
type Kind string

const (
	KindPage         Kind = "page"
	KindList         Kind = "list"
	KindModal        Kind = "modal"
	KindButton       Kind = "button"
	KindLoading      Kind = "loading"
	KindNotification Kind = "notification"
)

// #endregion kind

// #region acceleration-hint

// AccelerationHint tells the renderer how to composite the animated
// element.
type AccelerationHint string

const (
	HintNone         AccelerationHint = "none"
	HintPromoteLayer AccelerationHint = "promote-layer"
)

// #endregion acceleration-hint

// #region state-names

// Conventional state names. Descriptors may carry any names; these are
// the ones the generator treats as terminal when snapping.
const (
	StateInitial = "initial"
	StateAnimate = "animate"
	StateExit    = "exit"
	StateIdle    = "idle"
	StateHover   = "hover"
	StateTap     = "tap"
)

// #endregion state-names

// #region transition

// RepeatForever marks an infinitely repeating transition.
const RepeatForever = -1

// Transition describes the timing for entering a state. Either the
// duration/easing pair or the spring parameters apply; the generator
// only rewrites duration, repeat, and easing defaults and leaves spring
// parameters untouched.
type Transition struct {
	DurationMs float64 `json:"duration_ms"`
	Easing     string  `json:"easing,omitempty"`
	Stiffness  float64 `json:"stiffness,omitempty"`
	Damping    float64 `json:"damping,omitempty"`
	Repeat     int     `json:"repeat,omitempty"` // 0 = none, RepeatForever = loop
}

// #endregion transition

// #region state-spec

// StateSpec is one named visual state: target properties plus an
// optional transition into the state. Properties are opaque to the
// generator.
type StateSpec struct {
	Properties map[string]interface{} `json:"properties,omitempty"`
	Transition *Transition    `json:"transition,omitempty"`
}

// #endregion state-spec

// #region descriptor

// Descriptor is a declarative animation: a set of named states, plus
// the fields the generator owns. A descriptor handed to Generate is the
// base; the returned descriptor is the concrete one consumed by the
// renderer.
type Descriptor struct {
	States           map[string]StateSpec `json:"states"`
	Disabled         bool                 `json:"disabled,omitempty"`
	AccelerationHint AccelerationHint     `json:"acceleration_hint,omitempty"`
}

// Clone returns a deep copy. The generator never mutates its input.
func (d Descriptor) Clone() Descriptor {
	out := Descriptor{
		Disabled:         d.Disabled,
		AccelerationHint: d.AccelerationHint,
	}
	if d.States == nil {
		return out
	}
	out.States = make(map[string]StateSpec, len(d.States))
	for name, spec := range d.States {
		cp := StateSpec{}
		if spec.Properties != nil {
			cp.Properties = make(map[string]interface{}, len(spec.Properties))
			for k, v := range spec.Properties {
				cp.Properties[k] = v
			}
		}
		if spec.Transition != nil {
			t := *spec.Transition
			cp.Transition = &t
		}
		out.States[name] = cp
	}
	return out
}

// #endregion descriptor
