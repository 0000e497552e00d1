package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventDiagnosticSaved EventType = "diagnostic.saved"
	EventQuoteCreated    EventType = "quote.created"
	EventQuoteEmailed    EventType = "quote.emailed"
)

// Evento do pipeline comercial (diagnóstico -> cotação -> e-mail)
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	ClientID     string    `json:"client_id,omitempty"`
	DiagnosticID string    `json:"diagnostic_id,omitempty"`
	QuoteID      string    `json:"quote_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, clientID, diagnosticID, quoteID string) Event {
	return Event{
		ID:           uuid.New().String(),
		Type:         t,
		ClientID:     clientID,
		DiagnosticID: diagnosticID,
		QuoteID:      quoteID,
		OccurredAt:   time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Handler processa um evento. Erro = mensagem vai para a DLQ.
type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) Handle(ctx context.Context, evt Event) error { return f(ctx, evt) }
