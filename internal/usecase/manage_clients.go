package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/autofinder/internal/entity"
	"go.uber.org/zap"
)

type ManageClientsUseCase struct {
	Clients entity.ClientRepositoryInterface
	logger  *zap.Logger
}

func NewManageClientsUseCase(clients entity.ClientRepositoryInterface, logger *zap.Logger) *ManageClientsUseCase {
	return &ManageClientsUseCase{Clients: clients, logger: logger}
}

func (uc *ManageClientsUseCase) List(ctx context.Context) ([]*entity.Client, error) {
	clients, err := uc.Clients.ListByName(ctx)
	if err != nil {
		return nil, dbError("falha ao listar clientes", err)
	}
	return clients, nil
}

func (uc *ManageClientsUseCase) Get(ctx context.Context, id string) (*entity.Client, error) {
	c, err := uc.Clients.FindByID(ctx, id)
	if errors.Is(err, entity.ErrClientNotFound) {
		return nil, notFound("cliente não encontrado")
	}
	if err != nil {
		return nil, dbError("falha ao buscar cliente", err)
	}
	return c, nil
}

// Update aplica a edição manual. Qualquer status válido é aceito aqui.
func (uc *ManageClientsUseCase) Update(ctx context.Context, id string, u entity.ClientUpdate) (*entity.Client, error) {
	if errs := ValidateClientUpdate(u); len(errs) > 0 {
		return nil, invalid(errs)
	}

	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Apply(c); err != nil {
		return nil, invalid([]ValidationError{{"status", err.Error()}})
	}

	if err := uc.Clients.Update(ctx, c); err != nil {
		if errors.Is(err, entity.ErrDuplicateClient) {
			return nil, &DomainError{Code: CodeValidation, Message: "já existe um cliente com esse e-mail",
				Fields: []ValidationError{{"email", "already in use"}}}
		}
		return nil, dbError("falha ao atualizar cliente", err)
	}

	uc.logger.Info("cliente atualizado", zap.String("client_id", c.ID), zap.String("status", string(c.Status)))
	return c, nil
}

// PromoteToActiveProposal só move lead -> active_proposal; outros status ficam como estão.
func (uc *ManageClientsUseCase) PromoteToActiveProposal(ctx context.Context, id string) (bool, error) {
	changed, err := uc.Clients.UpdateStatusIf(ctx, id, entity.ClientStatusLead, entity.ClientStatusActiveProposal)
	if err != nil {
		return false, dbError("falha ao atualizar status", err)
	}
	if changed {
		uc.logger.Info("cliente com proposta ativa", zap.String("client_id", id))
	}
	return changed, nil
}
