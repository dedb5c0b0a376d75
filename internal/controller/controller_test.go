package controller

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/fps"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/motion"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/sampler"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/google/uuid"
)

// fakeScheduler queues tick callbacks and fires them on demand.
type fakeScheduler struct {
	nextID sampler.TickHandle
	queue  map[sampler.TickHandle]func(time.Time)
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{queue: make(map[sampler.TickHandle]func(time.Time))}
}

func (f *fakeScheduler) ScheduleTick(fn func(now time.Time)) sampler.TickHandle {
	f.nextID++
	f.queue[f.nextID] = fn
	return f.nextID
}

func (f *fakeScheduler) Cancel(h sampler.TickHandle) {
	delete(f.queue, h)
}

func (f *fakeScheduler) fire(now time.Time) {
	pending := f.queue
	f.queue = make(map[sampler.TickHandle]func(time.Time))
	for _, fn := range pending {
		fn(now)
	}
}

func tempStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var highEndProbe = capability.Probe{
	SupportsGraphicsAcceleration: true,
	DeviceMemoryGiB:              16,
	CPUCoreCount:                 8,
}

// runWindow fires a boundary tick and then count evenly spaced ticks so
// the window closes exactly one second after start. The measured fps
// equals count.
func runWindow(sched *fakeScheduler, start time.Time, count int) time.Time {
	sched.fire(start)
	step := time.Second / time.Duration(count)
	for i := 1; i < count; i++ {
		sched.fire(start.Add(time.Duration(i) * step))
	}
	last := start.Add(time.Second)
	sched.fire(last)
	return last
}

func TestNewRequiresScheduler(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected an error without a scheduler")
	}
}

func TestSeedsFromCapabilityWithoutStore(t *testing.T) {
	c, err := New(Options{Scheduler: newFakeScheduler(), Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rec := c.Prefs().Get()
	if rec.PerformanceLevel != prefs.LevelHigh {
		t.Fatalf("expected high seed, got %s", rec.PerformanceLevel)
	}
	if rec.Origin != prefs.OriginSeed {
		t.Fatalf("expected seed origin, got %s", rec.Origin)
	}
}

func TestStoredPreferencesWinOverSeed(t *testing.T) {
	st := tempStore(t)
	stored := prefs.Record{
		VersionID:        uuid.NewString(),
		PerformanceLevel: prefs.LevelLow,
		AnimationScale:   0.7,
		Origin:           prefs.OriginAutoDegrade,
		CreatedAt:        time.Now().UTC(),
	}
	if err := st.Save(stored); err != nil {
		t.Fatalf("save: %v", err)
	}

	c, err := New(Options{Scheduler: newFakeScheduler(), Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rec := c.Prefs().Get()
	if rec.PerformanceLevel != prefs.LevelLow || rec.AnimationScale != 0.7 {
		t.Fatalf("expected the stored record, got %+v", rec)
	}
	if rec.Origin != prefs.OriginStored {
		t.Fatalf("expected stored origin, got %s", rec.Origin)
	}
	if rec.ParentID != stored.VersionID {
		t.Fatalf("expected lineage to the stored version, got %q", rec.ParentID)
	}
}

func TestStoreLoadFailureFallsBackToSeed(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st.Close() // every query now fails

	c, err := New(Options{Scheduler: newFakeScheduler(), Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Prefs().Get().Origin != prefs.OriginSeed {
		t.Fatalf("expected seed fallback, got %s", c.Prefs().Get().Origin)
	}
}

func TestSustainedJankDegradesTierByTier(t *testing.T) {
	st := tempStore(t)
	sched := newFakeScheduler()
	c, err := New(Options{Scheduler: sched, Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var events []fps.DegradationEvent
	c.OnDegradation(func(ev fps.DegradationEvent) { events = append(events, ev) })
	c.Start()
	defer c.Close()

	want := []struct {
		level prefs.Level
		scale float64
	}{
		{prefs.LevelMedium, 0.9},
		{prefs.LevelLow, 0.8},
		{prefs.LevelDisabled, 0.7},
	}

	at := time.Unix(1000, 0)
	for i, w := range want {
		at = runWindow(sched, at, 10)
		rec := c.Prefs().Get()
		if rec.PerformanceLevel != w.level {
			t.Fatalf("window %d: expected %s, got %s", i, w.level, rec.PerformanceLevel)
		}
		if rec.AnimationScale < w.scale-1e-9 || rec.AnimationScale > w.scale+1e-9 {
			t.Fatalf("window %d: expected scale %.1f, got %.2f", i, w.scale, rec.AnimationScale)
		}
		if rec.Origin != prefs.OriginAutoDegrade {
			t.Fatalf("window %d: expected auto_degrade origin, got %s", i, rec.Origin)
		}
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 observer events, got %d", len(events))
	}

	rows, err := st.Degradations(10)
	if err != nil {
		t.Fatalf("degradations: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 logged degradations, got %d", len(rows))
	}
	if rows[0].VersionID != c.Prefs().Get().VersionID {
		t.Fatalf("latest log row should reference the committed version")
	}

	entries, err := logging.RecentDecisions(st.DB(), 10)
	if err != nil {
		t.Fatalf("decisions: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 decision entries, got %d", len(entries))
	}
	if entries[0].Origin != string(prefs.OriginAutoDegrade) || entries[0].Action != "commit" {
		t.Fatalf("unexpected decision entry %+v", entries[0])
	}
}

func TestBootVersionIsPersisted(t *testing.T) {
	st := tempStore(t)
	c, err := New(Options{Scheduler: newFakeScheduler(), Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rec, ok, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("boot version should be saved immediately")
	}
	if rec.VersionID != c.Prefs().Get().VersionID {
		t.Fatalf("active version should be the boot version, got %s", rec.VersionID)
	}
}

func TestSeededSessionPersistsFirstCommit(t *testing.T) {
	st := tempStore(t)
	sched := newFakeScheduler()
	c, err := New(Options{Scheduler: sched, Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Start()
	defer c.Close()

	runWindow(sched, time.Unix(1000, 0), 10)

	rec, ok, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected a persisted record after the first downgrade")
	}
	if rec.PerformanceLevel != prefs.LevelMedium {
		t.Fatalf("first commit after boot was not persisted, got %s", rec.PerformanceLevel)
	}
	if rec.ParentID == "" {
		t.Fatal("persisted commit should reference the boot version")
	}

	history, err := st.History(10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected boot version plus one commit, got %d", len(history))
	}
}

func TestDegradationPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	sched := newFakeScheduler()
	c, err := New(Options{Scheduler: sched, Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Start()
	runWindow(sched, time.Unix(1000, 0), 10)
	c.Close()
	st.Close()

	st2, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st2.Close()
	c2, err := New(Options{Scheduler: newFakeScheduler(), Store: st2, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rec := c2.Prefs().Get()
	if rec.PerformanceLevel != prefs.LevelMedium {
		t.Fatalf("downgrade should survive restart, got %s", rec.PerformanceLevel)
	}
}

func TestHiddenPageNeverDegrades(t *testing.T) {
	sched := newFakeScheduler()
	signals := NewManualSignals()
	c, err := New(Options{Scheduler: sched, Signals: signals, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Start()
	defer c.Close()

	signals.SetVisible(false)

	// Nothing is armed while hidden; these fires are no-ops.
	at := time.Unix(1000, 0)
	for i := 0; i < 30; i++ {
		sched.fire(at.Add(time.Duration(i) * time.Second))
	}

	signals.SetVisible(true)
	runWindow(sched, at.Add(60*time.Second), 60)

	rec := c.Prefs().Get()
	if rec.PerformanceLevel != prefs.LevelHigh {
		t.Fatalf("hidden page should not degrade, got %s", rec.PerformanceLevel)
	}
	if c.FPS().FPS != 60 {
		t.Fatalf("expected 60 fps after resume, got %d", c.FPS().FPS)
	}
}

func TestOSReducedMotionSignal(t *testing.T) {
	signals := NewManualSignals()
	c, err := New(Options{Scheduler: newFakeScheduler(), Signals: signals, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	signals.SetReducedMotion(true)
	rec := c.Prefs().Get()
	if !rec.ReduceMotion {
		t.Fatal("expected reduce motion on")
	}
	if rec.Origin != prefs.OriginOSSignal {
		t.Fatalf("expected os_signal origin, got %s", rec.Origin)
	}

	signals.SetReducedMotion(false)
	if c.Prefs().Get().ReduceMotion {
		t.Fatal("expected reduce motion cleared when the signal drops")
	}
}

func TestUserOptOutCannotOverrideOSSignal(t *testing.T) {
	signals := NewManualSignals()
	c, err := New(Options{Scheduler: newFakeScheduler(), Signals: signals, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	signals.SetReducedMotion(true)

	off := false
	c.UpdateUser(prefs.Partial{ReduceMotion: &off})
	if !c.Prefs().Get().ReduceMotion {
		t.Fatal("os signal should keep reduce motion on")
	}

	signals.SetReducedMotion(false)
	if c.Prefs().Get().ReduceMotion {
		t.Fatal("reduce motion should clear once both inputs are off")
	}
}

func TestUserOptInSurvivesOSSignalDrop(t *testing.T) {
	signals := NewManualSignals()
	c, err := New(Options{Scheduler: newFakeScheduler(), Signals: signals, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	on := true
	c.UpdateUser(prefs.Partial{ReduceMotion: &on})
	signals.SetReducedMotion(true)
	signals.SetReducedMotion(false)

	if !c.Prefs().Get().ReduceMotion {
		t.Fatal("user opt-in should survive the os signal dropping")
	}
}

func TestOSReduceMotionDoesNotSurviveRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	signals := NewManualSignals()
	c, err := New(Options{Scheduler: newFakeScheduler(), Store: st, Signals: signals, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	signals.SetReducedMotion(true)
	if !c.Prefs().Get().ReduceMotion {
		t.Fatal("expected reduce motion on while the signal holds")
	}
	st.Close()

	st2, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st2.Close()
	c2, err := New(Options{Scheduler: newFakeScheduler(), Store: st2, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if c2.Prefs().Get().ReduceMotion {
		t.Fatal("os-driven reduce motion should not outlive the session")
	}
}

func TestUserReduceMotionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	c, err := New(Options{Scheduler: newFakeScheduler(), Store: st, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	on := true
	c.UpdateUser(prefs.Partial{ReduceMotion: &on})
	st.Close()

	st2, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer st2.Close()
	c2, err := New(Options{Scheduler: newFakeScheduler(), Store: st2, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !c2.Prefs().Get().ReduceMotion {
		t.Fatal("user opt-in should survive restart")
	}
}

func TestInitialReducedMotionApplied(t *testing.T) {
	c, err := New(Options{
		Scheduler:            newFakeScheduler(),
		Probe:                highEndProbe,
		InitialReducedMotion: true,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !c.Prefs().Get().ReduceMotion {
		t.Fatal("expected reduce motion applied at startup")
	}
}

func TestUserMayRestoreAfterDegradation(t *testing.T) {
	sched := newFakeScheduler()
	c, err := New(Options{Scheduler: sched, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Start()
	defer c.Close()

	runWindow(sched, time.Unix(1000, 0), 10)
	if c.Prefs().Get().PerformanceLevel != prefs.LevelMedium {
		t.Fatalf("expected medium after jank, got %s", c.Prefs().Get().PerformanceLevel)
	}

	high := prefs.LevelHigh
	scale := 1.0
	decision := c.UpdateUser(prefs.Partial{PerformanceLevel: &high, AnimationScale: &scale})
	if decision.Action != "commit" {
		t.Fatalf("expected user restore to commit, got %s", decision.Action)
	}
	rec := c.Prefs().Get()
	if rec.PerformanceLevel != prefs.LevelHigh || rec.AnimationScale != 1.0 {
		t.Fatalf("expected high/1.0 restored, got %s/%.2f", rec.PerformanceLevel, rec.AnimationScale)
	}
}

func TestGenerateReflectsCurrentState(t *testing.T) {
	sched := newFakeScheduler()
	c, err := New(Options{Scheduler: sched, Probe: highEndProbe})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Start()
	defer c.Close()

	out := c.Generate(motion.KindPage, motion.DefaultBase(motion.KindPage))
	if out.States["animate"].Transition.DurationMs != 300 {
		t.Fatalf("expected 300ms at high/1.0, got %.1f", out.States["animate"].Transition.DurationMs)
	}

	runWindow(sched, time.Unix(1000, 0), 10) // high -> medium, scale 0.9

	out = c.Generate(motion.KindPage, motion.DefaultBase(motion.KindPage))
	if out.States["animate"].Transition.DurationMs != 300*0.9 {
		t.Fatalf("expected 270ms after downgrade, got %.1f", out.States["animate"].Transition.DurationMs)
	}
}
