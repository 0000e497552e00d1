package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// Registro de auditoria de um e-mail de cotação
type EmailRecord struct {
	ID             string      `json:"id"`
	QuoteID        string      `json:"quoteId"`
	ClientID       string      `json:"clientId"`
	Subject        string      `json:"subject"`
	Body           string      `json:"body"`
	RecipientEmail string      `json:"recipientEmail"`
	Status         EmailStatus `json:"status"`
	SentAt         time.Time   `json:"sentAt"`

	// preenchidos no histórico
	CompanyName string `json:"companyName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

func NewSentEmailRecord(quoteID, clientID, recipient, subject, body string) *EmailRecord {
	return &EmailRecord{
		ID:             uuid.New().String(),
		QuoteID:        quoteID,
		ClientID:       clientID,
		Subject:        subject,
		Body:           body,
		RecipientEmail: recipient,
		Status:         EmailStatusSent,
		SentAt:         time.Now().UTC(),
	}
}

type EmailRepositoryInterface interface {
	Create(ctx context.Context, r *EmailRecord) error
	ListHistory(ctx context.Context, limit int) ([]*EmailRecord, error)
}
