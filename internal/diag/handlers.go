package diag

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/controller"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/logging"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/motion"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/prefs"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/gorilla/mux"
)

// #region handler

// Handler serves the diagnostics endpoints.
type Handler struct {
	ctrl  *controller.Controller
	store *store.Store
}

// #endregion handler

// #region dto

// RecordDTO is the wire form of a preference record.
type RecordDTO struct {
	VersionID            string    `json:"version_id"`
	ParentID             string    `json:"parent_id,omitempty"`
	PerformanceLevel     string    `json:"performance_level"`
	ReduceMotion         bool      `json:"reduce_motion"`
	AnimationScale       float64   `json:"animation_scale"`
	EnableHapticFeedback bool      `json:"enable_haptic_feedback"`
	EnableParallax       bool      `json:"enable_parallax"`
	Origin               string    `json:"origin"`
	CreatedAt            time.Time `json:"created_at"`
}

func toRecordDTO(rec prefs.Record) RecordDTO {
	return RecordDTO{
		VersionID:            rec.VersionID,
		ParentID:             rec.ParentID,
		PerformanceLevel:     string(rec.PerformanceLevel),
		ReduceMotion:         rec.ReduceMotion,
		AnimationScale:       rec.AnimationScale,
		EnableHapticFeedback: rec.EnableHapticFeedback,
		EnableParallax:       rec.EnableParallax,
		Origin:               string(rec.Origin),
		CreatedAt:            rec.CreatedAt,
	}
}

// UpdateRequest is the PATCH body; absent fields are untouched.
type UpdateRequest struct {
	PerformanceLevel     *string  `json:"performance_level,omitempty"`
	ReduceMotion         *bool    `json:"reduce_motion,omitempty"`
	AnimationScale       *float64 `json:"animation_scale,omitempty"`
	EnableHapticFeedback *bool    `json:"enable_haptic_feedback,omitempty"`
	EnableParallax       *bool    `json:"enable_parallax,omitempty"`
}

// UpdateResponse pairs the applied record with the update decision.
type UpdateResponse struct {
	Record RecordDTO `json:"record"`
	Action string    `json:"action"`
	Reason string    `json:"reason"`
	Vetoes int       `json:"vetoes"`
}

// #endregion dto

// #region preferences

// GetPreferences returns the current preference snapshot.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecordDTO(h.ctrl.Prefs().Get()))
}

// PatchPreferences applies a user-origin update. This is the explicit
// user action path and may raise the performance level.
func (h *Handler) PatchPreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	var p prefs.Partial
	if req.PerformanceLevel != nil {
		lvl := prefs.Level(*req.PerformanceLevel)
		p.PerformanceLevel = &lvl
	}
	p.ReduceMotion = req.ReduceMotion
	p.AnimationScale = req.AnimationScale
	p.EnableHapticFeedback = req.EnableHapticFeedback
	p.EnableParallax = req.EnableParallax

	decision := h.ctrl.UpdateUser(p)
	writeJSON(w, http.StatusOK, UpdateResponse{
		Record: toRecordDTO(h.ctrl.Prefs().Get()),
		Action: decision.Action,
		Reason: decision.Reason,
		Vetoes: len(decision.Vetoes),
	})
}

// GetHistory returns recent preference versions, newest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []RecordDTO{})
		return
	}
	records, err := h.store.History(limitParam(r, 20))
	if err != nil {
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	out := make([]RecordDTO, len(records))
	for i, rec := range records {
		out[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// #endregion preferences

// #region telemetry

// DegradationDTO is the wire form of a degradation log row.
type DegradationDTO struct {
	FPS       int       `json:"fps"`
	VersionID string    `json:"version_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetDegradations returns recent degradation events, newest first.
func (h *Handler) GetDegradations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []DegradationDTO{})
		return
	}
	rows, err := h.store.Degradations(limitParam(r, 20))
	if err != nil {
		http.Error(w, "degradation log unavailable", http.StatusInternalServerError)
		return
	}
	out := make([]DegradationDTO, len(rows))
	for i, row := range rows {
		out[i] = DegradationDTO{FPS: row.FPS, VersionID: row.VersionID, CreatedAt: row.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDecisions returns recent decision provenance rows, newest first.
func (h *Handler) GetDecisions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []logging.DecisionEntry{})
		return
	}
	entries, err := logging.RecentDecisions(h.store.DB(), limitParam(r, 20))
	if err != nil {
		http.Error(w, "decision log unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetFPS returns the most recently closed window's snapshot.
func (h *Handler) GetFPS(w http.ResponseWriter, r *http.Request) {
	snap := h.ctrl.FPS()
	writeJSON(w, http.StatusOK, map[string]int{
		"fps":            snap.FPS,
		"low_fps_streak": snap.LowFPSStreak,
	})
}

// #endregion telemetry

// #region motion

// GetMotion generates a concrete descriptor for a kind using its
// default base, for eyeballing what the renderer would receive.
// Unknown kinds take the default branch, matching the generator.
func (h *Handler) GetMotion(w http.ResponseWriter, r *http.Request) {
	kind := motion.Kind(mux.Vars(r)["kind"])
	desc := h.ctrl.Generate(kind, motion.DefaultBase(kind))
	writeJSON(w, http.StatusOK, desc)
}

// #endregion motion

// #region helpers

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func limitParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// #endregion helpers
