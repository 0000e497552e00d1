package n8n

import (
	"encoding/json"
	"errors"
)

var (
	ErrWebhookNotConfigured = errors.New("n8n: webhook url não configurada")
	ErrMissingAPIKey        = errors.New("n8n: N8N_API_KEY não configurada")
	ErrMissingBaseURL       = errors.New("n8n: N8N_BASE_URL não configurada")
)

// Resposta opcional do webhook. Campos ausentes = sucesso.
type webhookResponse struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
}

type Workflow struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Active bool   `json:"active,omitempty"`
}
