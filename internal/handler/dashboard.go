package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/httputil"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardService.Snapshot(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("dashboard snapshot failed")
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
