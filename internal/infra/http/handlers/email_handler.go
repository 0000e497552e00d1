package handlers

import (
	"net/http"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

type EmailHandler struct {
	Pipeline *usecase.ListPipelineUseCase
	logger   *zap.Logger
}

func NewEmailHandler(pipeline *usecase.ListPipelineUseCase, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{Pipeline: pipeline, logger: logger}
}

// HistoryHandler (GET /emails): últimos envios registrados.
func (h *EmailHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Pipeline.EmailHistory(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if list == nil {
		list = []*entity.EmailRecord{}
	}
	writeJSON(w, http.StatusOK, list)
}
