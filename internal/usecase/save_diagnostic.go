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

type SaveDiagnosticUseCase struct {
	Clients     entity.ClientRepositoryInterface
	Diagnostics entity.DiagnosticRepositoryInterface
	Events      EventPublisher
	logger      *zap.Logger
}

func NewSaveDiagnosticUseCase(
	clients entity.ClientRepositoryInterface,
	diagnostics entity.DiagnosticRepositoryInterface,
	events EventPublisher,
	logger *zap.Logger,
) *SaveDiagnosticUseCase {
	return &SaveDiagnosticUseCase{
		Clients:     clients,
		Diagnostics: diagnostics,
		Events:      events,
		logger:      logger,
	}
}

// Execute resolve o cliente (email, senão nome da empresa, senão cria lead) e grava
// o diagnóstico. Em erro nada parcial é devolvido: o chamador trata como "não salvo".
func (uc *SaveDiagnosticUseCase) Execute(ctx context.Context, input entity.DiagnosticInput, analysis entity.AnalysisResult) (*entity.Diagnostic, error) {
	client, err := uc.resolveClient(ctx, input.Identity())
	if err != nil {
		return nil, dbError("falha ao resolver cliente", err)
	}

	diag := entity.NewDiagnostic(client.ID, input, analysis)
	if err := uc.Diagnostics.Create(ctx, diag); err != nil {
		return nil, dbError("falha ao gravar diagnóstico", err)
	}
	diag.Client = client

	if uc.Events != nil {
		if err := uc.Events.Publish(ctx, queue.NewEvent(queue.EventDiagnosticSaved, client.ID, diag.ID, "")); err != nil {
			uc.logger.Warn("diagnóstico salvo, mas evento não publicado", zap.String("diagnostic_id", diag.ID), zap.Error(err))
		}
	}

	uc.logger.Info("diagnóstico salvo",
		zap.String("diagnostic_id", diag.ID),
		zap.String("client_id", client.ID))
	return diag, nil
}

func (uc *SaveDiagnosticUseCase) resolveClient(ctx context.Context, id entity.ClientIdentity) (*entity.Client, error) {
	existing, err := uc.lookup(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, entity.ErrClientNotFound) {
		return nil, err
	}

	client := entity.NewLeadClient(id)
	if err := uc.Clients.Create(ctx, client); err != nil {
		if errors.Is(err, entity.ErrDuplicateClient) {
			// outra requisição criou o mesmo cliente entre o lookup e o insert
			return uc.lookup(ctx, id)
		}
		return nil, fmt.Errorf("erro ao criar cliente: %w", err)
	}
	return client, nil
}

func (uc *SaveDiagnosticUseCase) lookup(ctx context.Context, id entity.ClientIdentity) (*entity.Client, error) {
	if email := strings.TrimSpace(id.Email); email != "" {
		return uc.Clients.FindByEmail(ctx, email)
	}
	if company := strings.TrimSpace(id.CompanyName); company != "" {
		return uc.Clients.FindByCompanyName(ctx, company)
	}
	return nil, entity.ErrClientNotFound
}
