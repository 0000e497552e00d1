package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

type DiagnosticHandler struct {
	Analyze  *usecase.AnalyzeDiagnosticUseCase
	Run      *usecase.RunDiagnosticUseCase
	Pipeline *usecase.ListPipelineUseCase
	logger   *zap.Logger
}

func NewDiagnosticHandler(
	analyze *usecase.AnalyzeDiagnosticUseCase,
	run *usecase.RunDiagnosticUseCase,
	pipeline *usecase.ListPipelineUseCase,
	logger *zap.Logger,
) *DiagnosticHandler {
	return &DiagnosticHandler{Analyze: analyze, Run: run, Pipeline: pipeline, logger: logger}
}

type analyzeResponse struct {
	Analysis entity.AnalysisResult   `json:"analysis"`
	Outcome  usecase.AnalysisOutcome `json:"outcome"`
}

// AnalyzeHandler (POST /diagnostics/analyze): só análise, nada é salvo.
func (h *DiagnosticHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var input entity.DiagnosticInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if errs := usecase.ValidateDiagnosticInput(input); len(errs) > 0 {
		writeError(w, h.logger, r, &usecase.DomainError{Code: usecase.CodeValidation, Message: "dados inválidos", Fields: errs})
		return
	}

	out, err := h.Analyze.Execute(r.Context(), input)
	if err != nil {
		recordRun(nil, err)
		writeError(w, h.logger, r, err)
		return
	}
	recordAnalysis(out.Outcome)

	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: out.Result, Outcome: out.Outcome})
}

// CreateHandler (POST /diagnostics): analisa e persiste. 201 quando salvou,
// 200 com saved=false quando só a análise ficou disponível.
func (h *DiagnosticHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input entity.DiagnosticInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	out, err := h.Run.Execute(r.Context(), input)
	recordRun(out, err)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	status := http.StatusCreated
	if !out.Saved {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

func (h *DiagnosticHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Pipeline.RecentDiagnostics(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	if list == nil {
		list = []*entity.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *DiagnosticHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.Pipeline.Diagnostic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
