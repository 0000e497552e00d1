package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/queue"
	"go.uber.org/zap"
)

// Ajustes feitos pelo consultor na oportunidade antes de compartilhar.
// Ficam só no snapshot da cotação; o diagnóstico não muda.
type OpportunityEdit struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	EstimatedSavings *string `json:"estimatedSavings,omitempty"`
}

type GenerateQuoteInput struct {
	DiagnosticID    string                     `json:"diagnosticId"`
	SelectedIDs     []string                   `json:"selectedIds"`
	Edits           map[string]OpportunityEdit `json:"edits,omitempty"`
	TotalInvestment float64                    `json:"totalInvestment"`
	MonthlyRetainer float64                    `json:"monthlyRetainer"`
}

type GenerateQuoteOutput struct {
	Quote    *entity.Quote `json:"quote"`
	ShareURL string        `json:"shareUrl"`
}

type GenerateQuoteUseCase struct {
	Diagnostics entity.DiagnosticRepositoryInterface
	Quotes      entity.QuoteRepositoryInterface
	Events      EventPublisher
	Origin      string
	logger      *zap.Logger
}

func NewGenerateQuoteUseCase(
	diagnostics entity.DiagnosticRepositoryInterface,
	quotes entity.QuoteRepositoryInterface,
	events EventPublisher,
	origin string,
	logger *zap.Logger,
) *GenerateQuoteUseCase {
	return &GenerateQuoteUseCase{
		Diagnostics: diagnostics,
		Quotes:      quotes,
		Events:      events,
		Origin:      origin,
		logger:      logger,
	}
}

// Execute sempre cria uma cotação nova; nunca altera uma já compartilhada.
func (uc *GenerateQuoteUseCase) Execute(ctx context.Context, input GenerateQuoteInput) (*GenerateQuoteOutput, error) {
	if errs := ValidateGenerateQuoteInput(input); len(errs) > 0 {
		return nil, invalid(errs)
	}

	diag, err := uc.Diagnostics.FindByID(ctx, input.DiagnosticID)
	if errors.Is(err, entity.ErrDiagnosticNotFound) {
		return nil, notFound("diagnóstico não encontrado")
	}
	if err != nil {
		return nil, dbError("falha ao buscar diagnóstico", err)
	}

	items, errs := snapshotItems(diag.Analysis, input.SelectedIDs, input.Edits)
	if len(errs) > 0 {
		return nil, invalid(errs)
	}

	quote := entity.NewQuote(diag.ID, items, input.TotalInvestment, input.MonthlyRetainer)
	if err := uc.Quotes.Create(ctx, quote); err != nil {
		return nil, dbError("falha ao gravar cotação", err)
	}
	quote.Diagnostic = diag

	if uc.Events != nil {
		if err := uc.Events.Publish(ctx, queue.NewEvent(queue.EventQuoteCreated, diag.ClientID, diag.ID, quote.ID)); err != nil {
			uc.logger.Warn("cotação criada, mas evento não publicado", zap.String("quote_id", quote.ID), zap.Error(err))
		}
	}

	uc.logger.Info("cotação criada",
		zap.String("quote_id", quote.ID),
		zap.String("diagnostic_id", diag.ID),
		zap.Int("items", len(items)))

	return &GenerateQuoteOutput{
		Quote:    quote,
		ShareURL: entity.ShareURL(uc.Origin, quote.PublicToken),
	}, nil
}

// snapshotItems copia as oportunidades selecionadas na ordem do diagnóstico.
func snapshotItems(analysis entity.AnalysisResult, selected []string, edits map[string]OpportunityEdit) ([]entity.Opportunity, []ValidationError) {
	var errs []ValidationError
	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		if _, ok := analysis.OpportunityByID(id); !ok {
			errs = append(errs, ValidationError{"selectedIds", fmt.Sprintf("unknown opportunity %q", id)})
			continue
		}
		want[id] = true
	}
	if len(errs) > 0 {
		return nil, errs
	}

	items := make([]entity.Opportunity, 0, len(want))
	for _, o := range analysis.Opportunities {
		if !want[o.ID] {
			continue
		}
		if e, ok := edits[o.ID]; ok {
			o = applyEdit(o, e)
		}
		items = append(items, o)
	}
	return items, nil
}

func applyEdit(o entity.Opportunity, e OpportunityEdit) entity.Opportunity {
	if e.Title != nil && strings.TrimSpace(*e.Title) != "" {
		o.Title = strings.TrimSpace(*e.Title)
	}
	if e.Description != nil {
		o.Description = strings.TrimSpace(*e.Description)
	}
	if e.EstimatedSavings != nil && strings.TrimSpace(*e.EstimatedSavings) != "" {
		o.EstimatedSavings = strings.TrimSpace(*e.EstimatedSavings)
	}
	return o
}
