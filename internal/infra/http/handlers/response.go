package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xavierca1/autofinder/internal/usecase"
	"go.uber.org/zap"
)

const maxJSONBody = 8 << 20

type errorBody struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
	State   usecase.SagaState         `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON devolve DomainError para corpo inválido, assim o writeError responde 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &usecase.DomainError{Code: usecase.CodeValidation, Message: "corpo da requisição vazio"}
		}
		return &usecase.DomainError{Code: usecase.CodeValidation, Message: "JSON inválido: " + err.Error()}
	}
	return nil
}

func errorResponse(err error) (int, errorBody) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		body := errorBody{Error: de.Code, Message: de.Message, Fields: de.Fields}
		switch de.Code {
		case usecase.CodeNotFound, usecase.CodeLinkInvalid:
			return http.StatusNotFound, body
		case usecase.CodeMissingRecipient:
			return http.StatusUnprocessableEntity, body
		default:
			return http.StatusBadRequest, body
		}
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		body := errorBody{Error: te.Code, Message: te.Message}
		switch te.Code {
		case usecase.CodeAnalysisFailed, usecase.CodeEmailDelivery:
			return http.StatusBadGateway, body
		default:
			return http.StatusInternalServerError, body
		}
	}

	return http.StatusInternalServerError, errorBody{Error: "INTERNAL_ERROR", Message: "erro interno"}
}

// exportFailed embrulha falhas de PDF, QR e planilha
func exportFailed(msg string, err error) error {
	return &usecase.TechnicalError{Code: usecase.CodeExport, Message: msg, Err: err}
}

// writeError loga 5xx com a causa; 4xx vão só em debug.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	status, body := errorResponse(err)
	logRequestError(logger, r, status, err)
	writeJSON(w, status, body)
}

func logRequestError(logger *zap.Logger, r *http.Request, status int, err error) {
	fields := []zap.Field{zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err)}
	if status >= 500 {
		logger.Error("request failed", fields...)
		return
	}
	logger.Debug("request rejected", fields...)
}
