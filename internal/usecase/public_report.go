package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/autofinder/internal/entity"
	"go.uber.org/zap"
)

// Modelo exibido na página pública da proposta
type PublicReport struct {
	Token           string               `json:"token"`
	CompanyName     string               `json:"companyName"`
	ClientName      string               `json:"clientName"`
	Industry        string               `json:"industry"`
	ProblemSummary  string               `json:"problemSummary"`
	Opportunities   []entity.Opportunity `json:"opportunities"`
	Totals          entity.Totals        `json:"totals"`
	TotalInvestment float64              `json:"totalInvestment"`
	MonthlyRetainer float64              `json:"monthlyRetainer"`
	ChartData       []entity.ChartPoint  `json:"chartData"`
	CreatedAt       time.Time            `json:"createdAt"`
}

var ErrInvalidShareLink = &DomainError{Code: CodeLinkInvalid, Message: "No se encontró la propuesta o el link ha expirado."}

type GetPublicReportUseCase struct {
	Quotes entity.QuoteRepositoryInterface
	logger *zap.Logger
}

func NewGetPublicReportUseCase(quotes entity.QuoteRepositoryInterface, logger *zap.Logger) *GetPublicReportUseCase {
	return &GetPublicReportUseCase{Quotes: quotes, logger: logger}
}

// Execute: qualquer falha vira o mesmo erro genérico, sem vazar o motivo.
func (uc *GetPublicReportUseCase) Execute(ctx context.Context, token string) (*PublicReport, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidShareLink
	}

	quote, err := uc.Quotes.FindByPublicToken(ctx, token)
	if err != nil {
		uc.logger.Info("link público inválido", zap.Error(err))
		return nil, ErrInvalidShareLink
	}
	if quote.Diagnostic == nil {
		uc.logger.Warn("cotação sem diagnóstico", zap.String("quote_id", quote.ID))
		return nil, ErrInvalidShareLink
	}

	return BuildPublicReport(quote), nil
}

// BuildPublicReport: totais sempre derivados das oportunidades visíveis.
func BuildPublicReport(q *entity.Quote) *PublicReport {
	analysis := q.Diagnostic.Analysis
	visible := visibleItems(q, analysis)

	r := &PublicReport{
		Token:           q.PublicToken,
		CompanyName:     q.Diagnostic.Input.CompanyName,
		ClientName:      q.Diagnostic.Input.ContactName,
		Industry:        q.Diagnostic.Input.Industry,
		ProblemSummary:  analysis.ProblemSummary,
		Opportunities:   visible,
		Totals:          entity.ComputeTotals(visible, q.TotalInvestment, q.MonthlyRetainer, analysis.ROIMultiplier),
		TotalInvestment: q.TotalInvestment,
		MonthlyRetainer: q.MonthlyRetainer,
		ChartData:       analysis.ChartData,
		CreatedAt:       q.CreatedAt,
	}
	if c := q.Client(); c != nil {
		if c.CompanyName != "" {
			r.CompanyName = c.CompanyName
		}
		if c.Name != "" {
			r.ClientName = c.Name
		}
		if c.Industry != "" {
			r.Industry = c.Industry
		}
	}
	if r.Opportunities == nil {
		r.Opportunities = []entity.Opportunity{}
	}
	return r
}
