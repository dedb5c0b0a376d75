package controller

import (
	"database/sql"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/config"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/sampler"
)

// #region pref-store

// PrefStore is the persistence surface the controller needs. A nil
// store means a purely in-memory session.
type PrefStore interface {
	Load() (prefs.Record, bool, error)
	Save(rec prefs.Record) error
	LogDegradation(fps int, versionID string, at time.Time) error
	DB() *sql.DB
}

// #endregion pref-store

// #region host-signals

// HostSignals exposes the OS inputs the controller subscribes to once
// at startup.
type HostSignals interface {
	OnReducedMotionChange(fn func(reduced bool))
	OnVisibilityChange(fn func(visible bool))
}

// #endregion host-signals

// #region options

// Options wires the controller's collaborators.
type Options struct {
	Config               config.Config
	Store                PrefStore         // optional
	Scheduler            sampler.Scheduler // required
	Signals              HostSignals       // optional
	Probe                capability.Probe
	InitialReducedMotion bool // OS reduced-motion state at startup
}

// #endregion options
