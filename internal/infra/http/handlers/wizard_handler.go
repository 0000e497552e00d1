package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/http/middleware"
	"github.com/xavierca1/autofinder/internal/usecase"
	"github.com/xavierca1/autofinder/internal/wizard"
	"go.uber.org/zap"
)

const maxAudioChunk = 4 << 20

type WizardHandler struct {
	Store  *wizard.Store
	Run    *usecase.RunDiagnosticUseCase
	logger *zap.Logger
}

func NewWizardHandler(store *wizard.Store, run *usecase.RunDiagnosticUseCase, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{Store: store, Run: run, logger: logger}
}

type valueRequest struct {
	Value string `json:"value"`
}

type finishResponse struct {
	Wizard wizard.View                  `json:"wizard"`
	Result *usecase.RunDiagnosticOutput `json:"result,omitempty"`
}

func (h *WizardHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/profile", h.SetProfile)
		r.Post("/next", h.action((*wizard.Session).Next))
		r.Post("/back", h.action((*wizard.Session).Back))
		r.Post("/cancel", h.Cancel)
		r.Post("/tools/toggle", h.value((*wizard.Session).ToggleTool))
		r.Post("/tools/custom", h.value((*wizard.Session).AddCustomTool))
		r.Post("/pain-points/toggle", h.value((*wizard.Session).TogglePainPoint))
		r.Post("/audio/start", h.StartAudio)
		r.Post("/audio/chunk", h.AudioChunk)
		r.Post("/audio/stop", h.action((*wizard.Session).StopRecording))
		r.Post("/finish", h.Finish)
	})
}

func (h *WizardHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Store.New()
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

func (h *WizardHandler) SetProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var p wizard.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	h.respond(w, r, s, s.SetProfile(p))
}

// Cancel encerra a sessão; nada foi persistido até aqui.
func (h *WizardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Cancel(); err != nil {
		h.wizardError(w, r, s, err)
		return
	}
	view := s.View()
	h.Store.Remove(s.ID)
	writeJSON(w, http.StatusOK, view)
}

func (h *WizardHandler) StartAudio(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r, s, s.StartRecording(r.Context()))
}

// AudioChunk recebe bytes crus do MediaRecorder do navegador.
func (h *WizardHandler) AudioChunk(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioChunk))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			err = wizard.ErrClipTooLarge
		}
		h.wizardError(w, r, s, err)
		return
	}
	h.respond(w, r, s, s.AppendAudio(data))
}

// Finish roda análise + persistência. Em falha a sessão volta para a etapa 3.
func (h *WizardHandler) Finish(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var out *usecase.RunDiagnosticOutput
	err := s.Finish(r.Context(), func(ctx context.Context, input entity.DiagnosticInput) error {
		var err error
		out, err = h.Run.Execute(ctx, input)
		recordRun(out, err)
		return err
	})
	if err != nil {
		h.wizardError(w, r, s, err)
		return
	}

	writeJSON(w, http.StatusOK, finishResponse{Wizard: s.View(), Result: out})
}

func (h *WizardHandler) action(fn func(*wizard.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.session(w, r)
		if !ok {
			return
		}
		h.respond(w, r, s, fn(s))
	}
}

func (h *WizardHandler) value(fn func(*wizard.Session, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.session(w, r)
		if !ok {
			return
		}
		var req valueRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, h.logger, r, err)
			return
		}
		h.respond(w, r, s, fn(s, req.Value))
	}
}

func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	s, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: usecase.CodeNotFound, Message: "sessão do wizard não encontrada"})
		return nil, false
	}
	return s, true
}

func (h *WizardHandler) respond(w http.ResponseWriter, r *http.Request, s *wizard.Session, err error) {
	if err != nil {
		h.wizardError(w, r, s, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

type wizardErrorBody struct {
	errorBody
	Wizard wizard.View `json:"wizard"`
}

// wizardError devolve o erro junto com o estado atual, para a tela se redesenhar.
func (h *WizardHandler) wizardError(w http.ResponseWriter, r *http.Request, s *wizard.Session, err error) {
	var (
		status int
		body   errorBody
		verr   *wizard.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		body = errorBody{
			Error:   usecase.CodeValidation,
			Message: verr.Error(),
			Fields:  []usecase.ValidationError{{Field: verr.Field, Message: verr.Message}},
		}
	case errors.Is(err, wizard.ErrClipTooLarge):
		status = http.StatusRequestEntityTooLarge
		body = errorBody{Error: "AUDIO_TOO_LARGE", Message: err.Error()}
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrNotEditing),
		errors.Is(err, wizard.ErrAlreadyRecording),
		errors.Is(err, wizard.ErrNotRecording),
		errors.Is(err, wizard.ErrNoRecorder):
		status = http.StatusConflict
		body = errorBody{Error: "WIZARD_STATE", Message: err.Error()}
	default:
		status, body = errorResponse(err)
	}

	logRequestError(h.logger, r, status, err)
	writeJSON(w, status, wizardErrorBody{errorBody: body, Wizard: s.View()})
}

// recordRun alimenta as métricas de análise e persistência.
func recordRun(out *usecase.RunDiagnosticOutput, err error) {
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Code == usecase.CodeAnalysisFailed {
		middleware.RecordAnalysis(string(usecase.AnalysisFailed))
		middleware.RecordIntegrationError("gemini")
		return
	}
	if out == nil {
		return
	}
	recordAnalysis(out.Outcome)
	middleware.RecordDiagnosticSaved(out.Saved)
}

func recordAnalysis(outcome usecase.AnalysisOutcome) {
	middleware.RecordAnalysis(string(outcome))
	if outcome == usecase.AnalysisFallbackError {
		middleware.RecordIntegrationError("gemini")
	}
}
