package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/export"
	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

// PublicHandler serve a proposta compartilhada, sem login.
type PublicHandler struct {
	Report *usecase.GetPublicReportUseCase
	Origin string
	logger *zap.Logger
}

func NewPublicHandler(report *usecase.GetPublicReportUseCase, origin string, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{Report: report, Origin: origin, logger: logger}
}

func (h *PublicHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Report.Execute(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// PDFHandler (GET /share/{token}/report.pdf)
func (h *PublicHandler) PDFHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Report.Execute(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.ReportPDF(&buf, rep, entity.ShareURL(h.Origin, rep.Token)); err != nil {
		writeError(w, h.logger, r, exportFailed("falha ao gerar PDF", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="propuesta-%s.pdf"`, fileSlug(rep.CompanyName)))
	w.Write(buf.Bytes())
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func fileSlug(s string) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "autofinder"
	}
	return slug
}
