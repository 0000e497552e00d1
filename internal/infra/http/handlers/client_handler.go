package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/export"
	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

type ClientHandler struct {
	Clients *usecase.ManageClientsUseCase
	logger  *zap.Logger
}

func NewClientHandler(clients *usecase.ManageClientsUseCase, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{Clients: clients, logger: logger}
}

func (h *ClientHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Clients.List(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if list == nil {
		list = []*entity.Client{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ClientHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateHandler (PATCH /clients/{id}): só os campos enviados mudam.
func (h *ClientHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var u entity.ClientUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	c, err := h.Clients.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ExportHandler (GET /clients/export.xlsx)
func (h *ClientHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Clients.List(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.ClientsXLSX(&buf, list); err != nil {
		writeError(w, h.logger, r, exportFailed("falha ao gerar planilha", err))
		return
	}

	name := fmt.Sprintf("clientes-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(buf.Bytes())
}
