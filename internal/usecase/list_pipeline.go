package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/autofinder/internal/entity"
)

const EmailHistoryLimit = 50

// Consultas de leitura do painel (diagnósticos, cotações, histórico de e-mail)
type ListPipelineUseCase struct {
	Diagnostics entity.DiagnosticRepositoryInterface
	Quotes      entity.QuoteRepositoryInterface
	Emails      entity.EmailRepositoryInterface
}

func NewListPipelineUseCase(
	diagnostics entity.DiagnosticRepositoryInterface,
	quotes entity.QuoteRepositoryInterface,
	emails entity.EmailRepositoryInterface,
) *ListPipelineUseCase {
	return &ListPipelineUseCase{Diagnostics: diagnostics, Quotes: quotes, Emails: emails}
}

func (uc *ListPipelineUseCase) RecentDiagnostics(ctx context.Context, limit int) ([]*entity.Diagnostic, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := uc.Diagnostics.ListRecent(ctx, limit)
	if err != nil {
		return nil, dbError("falha ao listar diagnósticos", err)
	}
	return list, nil
}

func (uc *ListPipelineUseCase) Diagnostic(ctx context.Context, id string) (*entity.Diagnostic, error) {
	d, err := uc.Diagnostics.FindByID(ctx, id)
	if errors.Is(err, entity.ErrDiagnosticNotFound) {
		return nil, notFound("diagnóstico não encontrado")
	}
	if err != nil {
		return nil, dbError("falha ao buscar diagnóstico", err)
	}
	return d, nil
}

func (uc *ListPipelineUseCase) Quote(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := uc.Quotes.FindByID(ctx, id)
	if errors.Is(err, entity.ErrQuoteNotFound) {
		return nil, notFound("cotação não encontrada")
	}
	if err != nil {
		return nil, dbError("falha ao buscar cotação", err)
	}
	return q, nil
}

func (uc *ListPipelineUseCase) ListQuotes(ctx context.Context) ([]*entity.Quote, error) {
	list, err := uc.Quotes.ListWithClients(ctx)
	if err != nil {
		return nil, dbError("falha ao listar cotações", err)
	}
	return list, nil
}

func (uc *ListPipelineUseCase) EmailHistory(ctx context.Context) ([]*entity.EmailRecord, error) {
	list, err := uc.Emails.ListHistory(ctx, EmailHistoryLimit)
	if err != nil {
		return nil, dbError("falha ao listar e-mails", err)
	}
	return list, nil
}

// QuotesAwaitingEmail: cotações criadas antes de cutoff que nunca tiveram e-mail enviado.
func (uc *ListPipelineUseCase) QuotesAwaitingEmail(ctx context.Context, cutoff time.Time) ([]*entity.Quote, error) {
	list, err := uc.Quotes.ListAwaitingEmail(ctx, cutoff)
	if err != nil {
		return nil, dbError("falha ao listar cotações sem e-mail", err)
	}
	return list, nil
}
