package gemini

import "errors"

var (
	ErrMissingAPIKey = errors.New("gemini: api key não configurada")
	ErrEmptyResponse = errors.New("gemini: resposta vazia")
)

// Audio gravado no wizard, enviado como parte inline separada do texto
type Audio struct {
	Data     []byte
	MIMEType string
}

type AnalysisRequest struct {
	Prompt string
	Audio  *Audio
}

type DraftRequest struct {
	Prompt string
}

type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Config struct {
	APIKey        string
	AnalysisModel string
	DraftModel    string
	BaseURL       string // vazio = endpoint público do Gemini
}
