package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Versão atual dos documentos JSON gravados em wizard_data / analysis_result / items
const PayloadSchemaVersion = 1

type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// UnmarshalJSON aceita também os rótulos em espanhol que o modelo às vezes devolve.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTier(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseTier(raw string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "bajo", "baja":
		return TierLow, nil
	case "medium", "medio", "media":
		return TierMedium, nil
	case "high", "alto", "alta":
		return TierHigh, nil
	}
	return "", fmt.Errorf("%w: unknown tier %q", ErrSchemaMismatch, raw)
}

// Value Object: Opportunity
type Opportunity struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Effort           Tier   `json:"effort"`
	Impact           Tier   `json:"impact"`
	EstimatedSavings string `json:"estimatedSavings"` // texto formatado, ex: "$1,200/mes"
}

type ChartPoint struct {
	Month     string  `json:"month"`
	Manual    float64 `json:"manual"`
	Automated float64 `json:"automated"`
}

type AnalysisResult struct {
	ProblemSummary     string        `json:"problemSummary"`
	Opportunities      []Opportunity `json:"opportunities"`
	TotalSavingsMonth  float64       `json:"totalSavingsMonth"`
	TotalSavingsYear   float64       `json:"totalSavingsYear"`
	ROIMultiplier      float64       `json:"roiMultiplier"`
	ImplementationCost float64       `json:"implementationCost"`
	ChartData          []ChartPoint  `json:"chartData"`

	// true quando o resultado veio do fallback determinístico
	Degraded bool `json:"degraded,omitempty"`
}

// Validate rejeita resultados sem a forma mínima esperada.
func (a *AnalysisResult) Validate() error {
	if a.Opportunities == nil {
		return fmt.Errorf("%w: opportunities missing", ErrSchemaMismatch)
	}
	seen := make(map[string]struct{}, len(a.Opportunities))
	for i, o := range a.Opportunities {
		if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Title) == "" {
			return fmt.Errorf("%w: opportunity %d without id/title", ErrSchemaMismatch, i)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: duplicated opportunity id %q", ErrSchemaMismatch, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}

// OpportunityByID devolve a oportunidade e se ela existe.
func (a *AnalysisResult) OpportunityByID(id string) (Opportunity, bool) {
	for _, o := range a.Opportunities {
		if o.ID == id {
			return o, true
		}
	}
	return Opportunity{}, false
}

// Dados coletados pelo wizard (efêmero até virar Diagnostic)
type DiagnosticInput struct {
	CompanyName string   `json:"companyName"`
	ContactName string   `json:"contactName"`
	Email       string   `json:"email"`
	Industry    string   `json:"industry"`
	Tools       []string `json:"tools"`
	PainPoints  []string `json:"painPoints"`
	AudioBase64 string   `json:"audioBase64,omitempty"`
}

func (in DiagnosticInput) Identity() ClientIdentity {
	return ClientIdentity{
		Name:        in.ContactName,
		Email:       in.Email,
		CompanyName: in.CompanyName,
		Industry:    in.Industry,
	}
}

type Diagnostic struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Input     DiagnosticInput `json:"wizardData"`
	Analysis  AnalysisResult  `json:"analysisResult"`
	CreatedAt time.Time       `json:"createdAt"`

	Client *Client `json:"client,omitempty"`
}

func NewDiagnostic(clientID string, input DiagnosticInput, analysis AnalysisResult) *Diagnostic {
	return &Diagnostic{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Input:     input,
		Analysis:  analysis,
		CreatedAt: time.Now().UTC(),
	}
}

type DiagnosticRepositoryInterface interface {
	Create(ctx context.Context, d *Diagnostic) error
	FindByID(ctx context.Context, id string) (*Diagnostic, error)
	ListRecent(ctx context.Context, limit int) ([]*Diagnostic, error)
}
