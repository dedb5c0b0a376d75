package fps

// #region snapshot

// Snapshot is the per-window aggregation result. Recomputed every
// window close, never persisted.
type Snapshot struct {
	FPS          int
	LowFPSStreak int
}

// #endregion snapshot

// #region degradation-event

// DegradationEvent is raised when a closed window measures below the
// low-fps threshold. At most one event is emitted per window.
type DegradationEvent struct {
	FPS int
}

// #endregion degradation-event

// #region config

// Config holds aggregation tuning knobs.
type Config struct {
	WindowMillis    int // aggregation window length
	LowFPSThreshold int // fps below this raises a degradation event
}

// DefaultConfig returns the standard 1-second / 30 fps settings.
func DefaultConfig() Config {
	return Config{
		WindowMillis:    1000,
		LowFPSThreshold: 30,
	}
}

// #endregion config
