package replay

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
)

// #region types

// StepKind enumerates the inputs a recorded session can contain.
type StepKind string

const (
	StepWindow       StepKind = "window"        // one closed aggregation window with a measured fps
	StepUserUpdate   StepKind = "user_update"   // explicit user preference action
	StepReduceMotion StepKind = "reduce_motion" // OS reduced-motion toggle
	StepVisibility   StepKind = "visibility"    // host visibility toggle
)

// Step is one recorded input.
type Step struct {
	Kind   StepKind
	FPS    int           // window steps
	Update prefs.Partial // user_update steps
	Flag   bool          // reduce_motion / visibility steps
}

// Config bundles the pipeline knobs for a replay run.
type Config struct {
	FPS            fps.Config
	ScaleDecrement float64
}

// DefaultConfig returns the production pipeline settings.
func DefaultConfig() Config {
	return Config{
		FPS:            fps.DefaultConfig(),
		ScaleDecrement: 0.1,
	}
}

// Result captures the outcome of replaying one step.
type Result struct {
	Index  int
	Kind   StepKind
	Action string // "degrade" | "commit" | "no_op" | "paused"
	Reason string
	FPS    int
	Level  prefs.Level
	Scale  float64
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps int
	Degrades   int
	Commits    int
	NoOps      int
	Paused     int
	Final      prefs.Record
}

// #endregion types

// #region replay

// Replay runs recorded steps through the preference pipeline entirely
// in memory: window steps apply the degradation policy, user and OS
// steps apply the corresponding updates, visibility steps gate the
// windows in between. Returns per-step results and the final record.
// Deterministic for a given start record and step sequence.
func Replay(start prefs.Record, steps []Step, config Config) ([]Result, prefs.Record) {
	if config.FPS.WindowMillis <= 0 || config.FPS.LowFPSThreshold <= 0 {
		def := DefaultConfig()
		if config.FPS.WindowMillis <= 0 {
			config.FPS.WindowMillis = def.FPS.WindowMillis
		}
		if config.FPS.LowFPSThreshold <= 0 {
			config.FPS.LowFPSThreshold = def.FPS.LowFPSThreshold
		}
	}
	if config.ScaleDecrement <= 0 {
		config.ScaleDecrement = DefaultConfig().ScaleDecrement
	}

	state := prefs.NewState(start, prefs.OriginStored)
	visible := true
	results := make([]Result, 0, len(steps))

	for i, step := range steps {
		res := Result{Index: i, Kind: step.Kind}

		switch step.Kind {
		case StepWindow:
			res.FPS = step.FPS
			switch {
			case !visible:
				res.Action = "paused"
				res.Reason = "host hidden, window discarded"
			case step.FPS < config.FPS.LowFPSThreshold:
				decision := state.Degrade(config.ScaleDecrement)
				if decision.Action == "commit" {
					res.Action = "degrade"
				} else {
					res.Action = "no_op"
				}
				res.Reason = decision.Reason
			default:
				res.Action = "no_op"
				res.Reason = fmt.Sprintf("fps %d at or above threshold %d", step.FPS, config.FPS.LowFPSThreshold)
			}

		case StepUserUpdate:
			decision := state.Update(step.Update, prefs.OriginUser)
			res.Action = decision.Action
			res.Reason = decision.Reason

		case StepReduceMotion:
			flag := step.Flag
			decision := state.Update(prefs.Partial{ReduceMotion: &flag}, prefs.OriginOSSignal)
			res.Action = decision.Action
			res.Reason = decision.Reason

		case StepVisibility:
			visible = step.Flag
			res.Action = "no_op"
			res.Reason = fmt.Sprintf("visibility set to %v", step.Flag)

		default:
			res.Action = "no_op"
			res.Reason = fmt.Sprintf("unknown step kind %q", step.Kind)
		}

		cur := state.Get()
		res.Level = cur.PerformanceLevel
		res.Scale = cur.AnimationScale
		results = append(results, res)
	}

	return results, state.Get()
}

// Summarize computes aggregate stats from replay results. finalState is
// the record the run ended on.
func Summarize(results []Result, finalState prefs.Record) Summary {
	s := Summary{
		TotalSteps: len(results),
		Final:      finalState,
	}
	for _, r := range results {
		switch r.Action {
		case "degrade":
			s.Degrades++
		case "commit":
			s.Commits++
		case "no_op":
			s.NoOps++
		case "paused":
			s.Paused++
		}
	}
	return s
}

// #endregion replay
