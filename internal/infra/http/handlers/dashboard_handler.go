package handlers

import (
	"net/http"

	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	Dashboard *usecase.DashboardUseCase
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, logger: logger}
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Execute(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
