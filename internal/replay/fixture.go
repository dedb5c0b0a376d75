package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	StartState      FixtureStartState       `json:"start_state"`
	Config          FixtureConfig           `json:"config"`
	Steps           []FixtureStep           `json:"steps"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureStartState is the JSON-serializable initial preference record.
type FixtureStartState struct {
	PerformanceLevel     string  `json:"performance_level"`
	ReduceMotion         bool    `json:"reduce_motion"`
	AnimationScale       float64 `json:"animation_scale"`
	EnableHapticFeedback bool    `json:"enable_haptic_feedback"`
	EnableParallax       bool    `json:"enable_parallax"`
}

// FixtureUpdate mirrors prefs.Partial with JSON tags.
type FixtureUpdate struct {
	PerformanceLevel     *string  `json:"performance_level,omitempty"`
	ReduceMotion         *bool    `json:"reduce_motion,omitempty"`
	AnimationScale       *float64 `json:"animation_scale,omitempty"`
	EnableHapticFeedback *bool    `json:"enable_haptic_feedback,omitempty"`
	EnableParallax       *bool    `json:"enable_parallax,omitempty"`
}

// FixtureStep mirrors replay.Step with JSON tags.
type FixtureStep struct {
	Kind   string         `json:"kind"`
	FPS    int            `json:"fps,omitempty"`
	Update *FixtureUpdate `json:"update,omitempty"`
	Flag   bool           `json:"flag,omitempty"`
}

// FixtureConfig mirrors replay.Config with JSON tags.
type FixtureConfig struct {
	WindowMillis    int     `json:"window_millis"`
	LowFPSThreshold int     `json:"low_fps_threshold"`
	ScaleDecrement  float64 `json:"scale_decrement"`
}

// FixtureExpectedResult captures the expected action per step.
type FixtureExpectedResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToRecord converts a FixtureStartState to a domain preference record.
func (s *FixtureStartState) ToRecord() prefs.Record {
	return prefs.Record{
		PerformanceLevel:     prefs.Level(s.PerformanceLevel),
		ReduceMotion:         s.ReduceMotion,
		AnimationScale:       s.AnimationScale,
		EnableHapticFeedback: s.EnableHapticFeedback,
		EnableParallax:       s.EnableParallax,
	}
}

// ToPartial converts a FixtureUpdate to a domain partial.
func (u *FixtureUpdate) ToPartial() prefs.Partial {
	var p prefs.Partial
	if u == nil {
		return p
	}
	if u.PerformanceLevel != nil {
		lvl := prefs.Level(*u.PerformanceLevel)
		p.PerformanceLevel = &lvl
	}
	p.ReduceMotion = u.ReduceMotion
	p.AnimationScale = u.AnimationScale
	p.EnableHapticFeedback = u.EnableHapticFeedback
	p.EnableParallax = u.EnableParallax
	return p
}

// ToStep converts a FixtureStep to a domain step.
func (fs *FixtureStep) ToStep() Step {
	return Step{
		Kind:   StepKind(fs.Kind),
		FPS:    fs.FPS,
		Update: fs.Update.ToPartial(),
		Flag:   fs.Flag,
	}
}

// ToConfig converts a FixtureConfig to a domain replay config.
func (fc *FixtureConfig) ToConfig() Config {
	return Config{
		FPS: fps.Config{
			WindowMillis:    fc.WindowMillis,
			LowFPSThreshold: fc.LowFPSThreshold,
		},
		ScaleDecrement: fc.ScaleDecrement,
	}
}

// #endregion fixture-loader
