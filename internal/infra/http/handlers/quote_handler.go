package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/export"
	"github.com/xavierca1/autofinder/internal/infra/http/middleware"
	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	Generate *usecase.GenerateQuoteUseCase
	Draft    *usecase.DraftQuoteEmailUseCase
	Send     *usecase.SendQuoteEmailUseCase
	Pipeline *usecase.ListPipelineUseCase
	Origin   string
	logger   *zap.Logger
}

func NewQuoteHandler(
	generate *usecase.GenerateQuoteUseCase,
	draft *usecase.DraftQuoteEmailUseCase,
	send *usecase.SendQuoteEmailUseCase,
	pipeline *usecase.ListPipelineUseCase,
	origin string,
	logger *zap.Logger,
) *QuoteHandler {
	return &QuoteHandler{
		Generate: generate,
		Draft:    draft,
		Send:     send,
		Pipeline: pipeline,
		Origin:   origin,
		logger:   logger,
	}
}

// CreateHandler (POST /diagnostics/{id}/quotes)
func (h *QuoteHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input usecase.GenerateQuoteInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	input.DiagnosticID = chi.URLParam(r, "id")

	out, err := h.Generate.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	middleware.RecordQuoteCreated()

	writeJSON(w, http.StatusCreated, out)
}

func (h *QuoteHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Pipeline.ListQuotes(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if list == nil {
		list = []*entity.Quote{}
	}
	writeJSON(w, http.StatusOK, list)
}

// QRCodeHandler (GET /quotes/{id}/qr.png): QR do link público.
func (h *QuoteHandler) QRCodeHandler(w http.ResponseWriter, r *http.Request) {
	q, err := h.Pipeline.Quote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	png, err := export.ShareQRCode(entity.ShareURL(h.Origin, q.PublicToken), export.DefaultQRSize)
	if err != nil {
		writeError(w, h.logger, r, exportFailed("falha ao gerar QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}

// DraftHandler (POST /quotes/{id}/draft)
func (h *QuoteHandler) DraftHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.Draft.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type insertLinkRequest struct {
	Body string `json:"body"`
}

type insertLinkResponse struct {
	Body     string `json:"body"`
	ShareURL string `json:"shareUrl"`
}

// InsertLinkHandler (POST /quotes/{id}/insert-link): anexa o link ao rascunho.
func (h *QuoteHandler) InsertLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req insertLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	q, err := h.Pipeline.Quote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	link := entity.ShareURL(h.Origin, q.PublicToken)
	writeJSON(w, http.StatusOK, insertLinkResponse{
		Body:     usecase.AppendShareLink(req.Body, link),
		ShareURL: link,
	})
}

type sendEmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmailHandler (POST /quotes/{id}/emails). O estado da saga vai sempre na
// resposta, inclusive nos erros, para a tela distinguir "não enviado" de
// "enviado sem histórico".
func (h *QuoteHandler) SendEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	out, err := h.Send.Execute(r.Context(), usecase.SendQuoteEmailInput{
		QuoteID: chi.URLParam(r, "id"),
		Subject: req.Subject,
		Body:    req.Body,
	})
	if out != nil && out.State != usecase.SagaIdle {
		middleware.RecordQuoteEmail(string(out.State))
		if out.State == usecase.SagaFailedNotRecorded {
			middleware.RecordIntegrationError("email")
		}
	}
	if err != nil {
		status, body := errorResponse(err)
		if out != nil {
			body.State = out.State
		}
		logRequestError(h.logger, r, status, err)
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}
