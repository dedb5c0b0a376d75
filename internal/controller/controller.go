package controller

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/config"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/motion"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/sampler"
)

// #region controller-struct

// Controller is the top-level coordinator: it seeds or loads the
// preference state, runs the frame sampler and fps aggregator, reacts
// to degradation and host signals, and answers animation requests.
type Controller struct {
	config  config.Config
	state   *prefs.State
	sampler *sampler.Sampler
	agg     *fps.Aggregator
	gen     *motion.Generator
	store   PrefStore

	mu               sync.Mutex
	osReduceMotion   bool
	userReduceMotion bool
	degradeFns       []func(fps.DegradationEvent)
}

// #endregion controller-struct

// #region constructor

// New creates a fully wired controller. Stored preferences win over the
// capability seed; load failures are treated as "not present", never
// fatal. The sampler is not started — call Start.
func New(opts Options) (*Controller, error) {
	if opts.Scheduler == nil {
		return nil, errors.New("controller: scheduler is required")
	}

	cfg := opts.Config
	if cfg.WindowMillis == 0 {
		cfg = config.Default()
	}

	c := &Controller{
		config: cfg,
		store:  opts.Store,
		gen:    motion.NewGenerator(cfg.Motion(opts.Probe.SupportsGraphicsAcceleration)),
	}

	rec, origin := c.initialRecord(opts.Probe)
	c.userReduceMotion = rec.ReduceMotion
	c.osReduceMotion = opts.InitialReducedMotion
	c.state = prefs.NewState(rec, origin)

	// The boot version must exist in the store before any later version
	// can name it as a parent.
	if c.store != nil {
		_ = c.store.Save(c.state.Get())
	}

	c.state.Subscribe(c.persist)

	c.agg = fps.NewAggregator(cfg.FPS())
	c.agg.OnDegradation(c.handleDegradation)
	c.sampler = sampler.New(opts.Scheduler, c.agg, cfg.Window())

	if opts.Signals != nil {
		opts.Signals.OnReducedMotionChange(c.handleReducedMotion)
		opts.Signals.OnVisibilityChange(c.handleVisibility)
	}
	if opts.InitialReducedMotion {
		c.applyReduceMotion()
	}

	return c, nil
}

// initialRecord prefers a stored record, falling back to the one-shot
// capability estimate.
func (c *Controller) initialRecord(probe capability.Probe) (prefs.Record, prefs.Origin) {
	if c.store != nil {
		rec, ok, err := c.store.Load()
		if err == nil && ok {
			return rec, prefs.OriginStored
		}
	}
	return capability.Estimate(probe).Record(), prefs.OriginSeed
}

// #endregion constructor

// #region lifecycle

// Start begins frame sampling. Idempotent.
func (c *Controller) Start() {
	c.sampler.Start()
}

// Close stops sampling. Idempotent.
func (c *Controller) Close() {
	c.sampler.Stop()
}

// #endregion lifecycle

// #region accessors

// Prefs returns the preference state for snapshot reads and
// subscriptions.
func (c *Controller) Prefs() *prefs.State {
	return c.state
}

// FPS returns the most recently closed window's snapshot.
func (c *Controller) FPS() fps.Snapshot {
	return c.agg.Current()
}

// Generate derives concrete motion parameters for an animation request
// against the current preference snapshot.
func (c *Controller) Generate(kind motion.Kind, base motion.Descriptor) motion.Descriptor {
	return c.gen.Generate(kind, base, c.state.Get())
}

// OnDegradation registers a diagnostics observer. Observers run after
// the preference downgrade has been applied.
func (c *Controller) OnDegradation(fn func(fps.DegradationEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.degradeFns = append(c.degradeFns, fn)
}

// #endregion accessors

// #region user-updates

// UpdateUser applies an explicit user action. This is the only path
// that may raise the performance level or the animation scale.
func (c *Controller) UpdateUser(p prefs.Partial) prefs.Decision {
	if p.ReduceMotion != nil {
		c.mu.Lock()
		c.userReduceMotion = *p.ReduceMotion
		os := c.osReduceMotion
		c.mu.Unlock()
		// The OS signal keeps reduce-motion on regardless of the opt-in.
		effective := *p.ReduceMotion || os
		p.ReduceMotion = &effective
	}
	return c.state.Update(p, prefs.OriginUser)
}

// #endregion user-updates

// #region signal-handlers

func (c *Controller) handleReducedMotion(reduced bool) {
	c.mu.Lock()
	c.osReduceMotion = reduced
	c.mu.Unlock()
	c.applyReduceMotion()
}

func (c *Controller) applyReduceMotion() {
	c.mu.Lock()
	effective := c.osReduceMotion || c.userReduceMotion
	c.mu.Unlock()
	c.state.Update(prefs.Partial{ReduceMotion: &effective}, prefs.OriginOSSignal)
}

// handleVisibility pauses sampling and aggregation while hidden so a
// frozen render loop never triggers a false degradation.
func (c *Controller) handleVisibility(visible bool) {
	if visible {
		c.agg.Resume()
		c.sampler.SetVisible(true)
		return
	}
	c.sampler.SetVisible(false)
	c.agg.Pause()
}

// #endregion signal-handlers

// #region degradation

func (c *Controller) handleDegradation(ev fps.DegradationEvent) {
	decision := c.state.Degrade(c.config.ScaleDecrement)

	if c.store != nil {
		versionID := ""
		if decision.Action == "commit" {
			versionID = c.state.Get().VersionID
		}
		_ = c.store.LogDegradation(ev.FPS, versionID, time.Now().UTC())
	}

	c.mu.Lock()
	observers := make([]func(fps.DegradationEvent), len(c.degradeFns))
	copy(observers, c.degradeFns)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
}

// #endregion degradation

// #region persistence

// persist saves every applied update and logs its decision provenance.
// Write failures degrade to an unsaved session, never to a crash.
// The OS reduced-motion signal is session-scoped input, so the saved
// record carries only the user's own opt-in; the live signal is OR-ed
// back in on the next boot.
func (c *Controller) persist(rec prefs.Record, decision prefs.Decision) {
	if c.store == nil || decision.Action != "commit" {
		return
	}
	c.mu.Lock()
	rec.ReduceMotion = c.userReduceMotion
	c.mu.Unlock()
	_ = c.store.Save(rec)

	vetoesJSON := ""
	if len(decision.Vetoes) > 0 {
		if b, err := json.Marshal(decision.Vetoes); err == nil {
			vetoesJSON = string(b)
		}
	}
	_ = logging.LogDecision(c.store.DB(), logging.DecisionEntry{
		VersionID:  rec.VersionID,
		Origin:     string(rec.Origin),
		Action:     decision.Action,
		Reason:     decision.Reason,
		VetoesJSON: vetoesJSON,
		CreatedAt:  rec.CreatedAt,
	})
}

// #endregion persistence
