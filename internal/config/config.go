package config

import (
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/motion"
	"gopkg.in/yaml.v3"
)

// #region config

// Config holds every tuning knob for the controller. All fields have
// working defaults; a config file only needs the keys it overrides.
type Config struct {
	WindowMillis     int     `yaml:"window_millis"`
	LowFPSThreshold  int     `yaml:"low_fps_threshold"`
	ScaleDecrement   float64 `yaml:"scale_decrement"`
	FastDurationMs   float64 `yaml:"fast_duration_ms"`
	NormalDurationMs float64 `yaml:"normal_duration_ms"`
	LowLevelFactor   float64 `yaml:"low_level_factor"`
	DBPath           string  `yaml:"db_path"`
	ListenAddr       string  `yaml:"listen_addr"`
}

// Default returns the standard controller settings.
func Default() Config {
	return Config{
		WindowMillis:     1000,
		LowFPSThreshold:  30,
		ScaleDecrement:   0.1,
		FastDurationMs:   150,
		NormalDurationMs: 300,
		LowLevelFactor:   0.7,
		DBPath:           "adaptive_motion.db",
		ListenAddr:       "localhost:8700",
	}
}

// #endregion config

// #region load

// Load reads a YAML config file over the defaults. A missing path or
// missing file yields the defaults without error; a malformed file is
// the only failure.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// #endregion load

// #region derived

// Window returns the aggregation window as a duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.WindowMillis) * time.Millisecond
}

// FPS maps the controller config onto the aggregator's knobs.
func (c Config) FPS() fps.Config {
	return fps.Config{
		WindowMillis:    c.WindowMillis,
		LowFPSThreshold: c.LowFPSThreshold,
	}
}

// Motion maps the controller config onto the generator's knobs.
func (c Config) Motion(accelerationAvailable bool) motion.Config {
	return motion.Config{
		FastDurationMs:        c.FastDurationMs,
		NormalDurationMs:      c.NormalDurationMs,
		LowLevelFactor:        c.LowLevelFactor,
		AccelerationAvailable: accelerationAvailable,
	}
}

// #endregion derived
