package diag

import (
	"net/http"

	"github.com/danielpatrickdp/adaptive-motion/controller/internal/controller"
	"github.com/danielpatrickdp/adaptive-motion/controller/internal/store"
	"github.com/gorilla/mux"
)

// #region router

// NewRouter builds the diagnostics API router. st may be nil when the
// controller runs without persistence; history endpoints then return
// empty lists.
func NewRouter(ctrl *controller.Controller, st *store.Store) *mux.Router {
	h := &Handler{ctrl: ctrl, store: st}

	r := mux.NewRouter()
	r.HandleFunc("/v1/preferences", h.GetPreferences).Methods(http.MethodGet)
	r.HandleFunc("/v1/preferences", h.PatchPreferences).Methods(http.MethodPatch)
	r.HandleFunc("/v1/preferences/history", h.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/v1/degradations", h.GetDegradations).Methods(http.MethodGet)
	r.HandleFunc("/v1/decisions", h.GetDecisions).Methods(http.MethodGet)
	r.HandleFunc("/v1/fps", h.GetFPS).Methods(http.MethodGet)
	r.HandleFunc("/v1/motion/{kind}", h.GetMotion).Methods(http.MethodGet)
	return r
}

// #endregion router
