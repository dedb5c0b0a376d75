package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/capability"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/controller"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/motion"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/sampler"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T, st *store.Store) *mux.Router {
	t.Helper()
	opts := controller.Options{
		Scheduler: sampler.NewIntervalScheduler(time.Hour),
		Probe: capability.Probe{
			SupportsGraphicsAcceleration: true,
			DeviceMemoryGiB:              16,
			CPUCoreCount:                 8,
		},
	}
	if st != nil {
		opts.Store = st
	}
	ctrl, err := controller.New(opts)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return NewRouter(ctrl, st)
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

func doJSON(t *testing.T, r *mux.Router, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return w
}

func TestGetPreferences(t *testing.T) {
	r := newTestRouter(t, nil)

	var rec RecordDTO
	w := doJSON(t, r, http.MethodGet, "/v1/preferences", "", &rec)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if rec.PerformanceLevel != "high" || rec.AnimationScale != 1.0 {
		t.Fatalf("expected the high-end seed, got %+v", rec)
	}
	if rec.Origin != "seed" {
		t.Fatalf("expected seed origin, got %s", rec.Origin)
	}
}

func TestPatchPreferences(t *testing.T) {
	r := newTestRouter(t, tempStore(t))

	var resp UpdateResponse
	w := doJSON(t, r, http.MethodPatch, "/v1/preferences",
		`{"performance_level":"low","animation_scale":0.7}`, &resp)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if resp.Action != "commit" {
		t.Fatalf("expected commit, got %s (%s)", resp.Action, resp.Reason)
	}
	if resp.Record.PerformanceLevel != "low" || resp.Record.AnimationScale != 0.7 {
		t.Fatalf("record mismatch: %+v", resp.Record)
	}
	if resp.Record.Origin != "user" {
		t.Fatalf("expected user origin, got %s", resp.Record.Origin)
	}
}

func TestPatchPreferencesMalformedBody(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPatch, "/v1/preferences", `{broken`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPatchPreferencesNoOp(t *testing.T) {
	r := newTestRouter(t, nil)

	var resp UpdateResponse
	doJSON(t, r, http.MethodPatch, "/v1/preferences", `{"performance_level":"high"}`, &resp)

	if resp.Action != "no_op" {
		t.Fatalf("expected no_op for an unchanged field, got %s", resp.Action)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	st := tempStore(t)
	r := newTestRouter(t, st)

	doJSON(t, r, http.MethodPatch, "/v1/preferences", `{"animation_scale":0.8}`, nil)
	doJSON(t, r, http.MethodPatch, "/v1/preferences", `{"animation_scale":0.9}`, nil)

	var records []RecordDTO
	w := doJSON(t, r, http.MethodGet, "/v1/preferences/history", "", &records)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(records) != 3 {
		t.Fatalf("expected the boot version plus 2 updates, got %d", len(records))
	}
	if records[0].AnimationScale != 0.9 {
		t.Fatalf("expected newest first, got %+v", records[0])
	}
	if records[len(records)-1].Origin != "seed" {
		t.Fatalf("expected the boot version at the tail, got %+v", records[len(records)-1])
	}
}

func TestHistoryWithoutStoreIsEmpty(t *testing.T) {
	r := newTestRouter(t, nil)

	var records []RecordDTO
	w := doJSON(t, r, http.MethodGet, "/v1/preferences/history", "", &records)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(records) != 0 {
		t.Fatalf("expected an empty list, got %d", len(records))
	}
}

func TestDegradationsEndpoint(t *testing.T) {
	st := tempStore(t)
	if err := st.LogDegradation(18, "v-1", time.Now().UTC()); err != nil {
		t.Fatalf("log: %v", err)
	}
	r := newTestRouter(t, st)

	var rows []DegradationDTO
	w := doJSON(t, r, http.MethodGet, "/v1/degradations", "", &rows)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(rows) != 1 || rows[0].FPS != 18 || rows[0].VersionID != "v-1" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestDecisionsEndpoint(t *testing.T) {
	st := tempStore(t)
	r := newTestRouter(t, st)

	doJSON(t, r, http.MethodPatch, "/v1/preferences", `{"reduce_motion":true}`, nil)

	var entries []map[string]interface{}
	w := doJSON(t, r, http.MethodGet, "/v1/decisions", "", &entries)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 decision entry, got %d", len(entries))
	}
}

func TestFPSEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	var snap map[string]int
	w := doJSON(t, r, http.MethodGet, "/v1/fps", "", &snap)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if snap["fps"] != 0 || snap["low_fps_streak"] != 0 {
		t.Fatalf("expected zero snapshot before any window, got %v", snap)
	}
}

func TestMotionEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	var desc motion.Descriptor
	w := doJSON(t, r, http.MethodGet, "/v1/motion/button", "", &desc)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	spec, ok := desc.States[motion.StateHover]
	if !ok || spec.Transition == nil {
		t.Fatalf("expected a hover transition, got %+v", desc)
	}
	if spec.Transition.DurationMs != 150 {
		t.Fatalf("expected the fast base at high/1.0, got %.1f", spec.Transition.DurationMs)
	}
	if desc.AccelerationHint != motion.HintPromoteLayer {
		t.Fatalf("expected promote-layer at high, got %s", desc.AccelerationHint)
	}
}

func TestLimitParam(t *testing.T) {
	st := tempStore(t)
	r := newTestRouter(t, st)

	for _, scale := range []string{"0.6", "0.7", "0.8"} {
		doJSON(t, r, http.MethodPatch, "/v1/preferences", `{"animation_scale":`+scale+`}`, nil)
	}

	var records []RecordDTO
	doJSON(t, r, http.MethodGet, "/v1/preferences/history?limit=2", "", &records)

	if len(records) != 2 {
		t.Fatalf("expected the limit applied, got %d", len(records))
	}
}
