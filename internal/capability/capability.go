package capability

import "github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"

// #region probe

// Probe holds the device signals read once at process start.
// Zero values for memory and cores mean "unknown".
type Probe struct {
	IsMobile                     bool
	SupportsGraphicsAcceleration bool
	DeviceMemoryGiB              float64
	CPUCoreCount                 int
}

// Defaults applied when a signal is unknown.
const (
	DefaultMemoryGiB = 4.0
	DefaultCoreCount = 2
)

// Normalize fills unknown signals with defaults.
func (p Probe) Normalize() Probe {
	if p.DeviceMemoryGiB <= 0 {
		p.DeviceMemoryGiB = DefaultMemoryGiB
	}
	if p.CPUCoreCount <= 0 {
		p.CPUCoreCount = DefaultCoreCount
	}
	return p
}

// #endregion probe

// #region profile

// Profile is the one-shot recommended starting preference set.
type Profile struct {
	PerformanceLevel     prefs.Level
	AnimationScale       float64
	EnableParallax       bool
	EnableHapticFeedback bool
}

// Record converts the profile into a preference record ready for seeding.
func (pr Profile) Record() prefs.Record {
	return prefs.Record{
		PerformanceLevel:     pr.PerformanceLevel,
		AnimationScale:       pr.AnimationScale,
		EnableParallax:       pr.EnableParallax,
		EnableHapticFeedback: pr.EnableHapticFeedback,
	}
}

// #endregion profile

// #region estimate

// Estimate maps device signals to a starting profile. Pure and
// deterministic; rows evaluate top to bottom, first match wins.
// Runs once per session — it never re-executes afterward.
func Estimate(p Probe) Profile {
	p = p.Normalize()

	switch {
	case !p.IsMobile && p.SupportsGraphicsAcceleration && p.DeviceMemoryGiB >= 8 && p.CPUCoreCount >= 4:
		return Profile{
			PerformanceLevel:     prefs.LevelHigh,
			AnimationScale:       1.0,
			EnableParallax:       true,
			EnableHapticFeedback: false,
		}
	case (!p.IsMobile && p.DeviceMemoryGiB >= 4) ||
		(p.IsMobile && p.SupportsGraphicsAcceleration && p.DeviceMemoryGiB >= 4):
		return Profile{
			PerformanceLevel:     prefs.LevelMedium,
			AnimationScale:       0.9,
			EnableParallax:       !p.IsMobile,
			EnableHapticFeedback: p.IsMobile,
		}
	default:
		return Profile{
			PerformanceLevel:     prefs.LevelLow,
			AnimationScale:       0.7,
			EnableParallax:       false,
			EnableHapticFeedback: p.IsMobile,
		}
	}
}

// #endregion estimate
