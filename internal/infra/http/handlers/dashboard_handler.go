package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DashboardHandler struct {
	Dashboard *usecase.DashboardUseCase
	Logger    *zap.Logger
}

func NewDashboardHandler(uc *usecase.DashboardUseCase, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: uc, Logger: logger}
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/dashboard/stats", h.Stats)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
