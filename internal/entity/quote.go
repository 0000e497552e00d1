package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Prefixo fixo da URL pública: <origin>/share/<token>
const SharePathPrefix = "/share/"

type Quote struct {
	ID              string        `json:"id"`
	DiagnosticID    string        `json:"diagnosticId"`
	Status          QuoteStatus   `json:"status"`
	Items           []Opportunity `json:"items"` // snapshot, não só ids
	TotalInvestment float64       `json:"totalInvestment"`
	MonthlyRetainer float64       `json:"monthlyRetainer"`
	PublicToken     string        `json:"publicToken"`
	CreatedAt       time.Time     `json:"createdAt"`

	Diagnostic *Diagnostic `json:"diagnostic,omitempty"`
}

func NewQuote(diagnosticID string, items []Opportunity, investment, retainer float64) *Quote {
	return &Quote{
		ID:              uuid.New().String(),
		DiagnosticID:    diagnosticID,
		Status:          QuoteStatusPending,
		Items:           items,
		TotalInvestment: investment,
		MonthlyRetainer: retainer,
		CreatedAt:       time.Now().UTC(),
	}
}

// Client devolve o cliente ligado via diagnóstico, se carregado.
func (q *Quote) Client() *Client {
	if q.Diagnostic == nil {
		return nil
	}
	return q.Diagnostic.Client
}

// ShareURL junta origin + prefixo + token.
func ShareURL(origin, token string) string {
	return strings.TrimRight(origin, "/") + SharePathPrefix + token
}

type QuoteRepositoryInterface interface {
	// Create grava a cotação e preenche PublicToken
	Create(ctx context.Context, q *Quote) error
	FindByID(ctx context.Context, id string) (*Quote, error)
	FindByPublicToken(ctx context.Context, token string) (*Quote, error)
	ListWithClients(ctx context.Context) ([]*Quote, error)
	ListAwaitingEmail(ctx context.Context, createdBefore time.Time) ([]*Quote, error)
}
