package usecase

import (
	"context"

	"github.com/xavierca1/autofinder/internal/infra/queue"
	"go.uber.org/zap"
)

// PipelineEventHandler consome os eventos publicados pelos casos de uso.
type PipelineEventHandler struct {
	Clients *ManageClientsUseCase
	logger  *zap.Logger
}

func NewPipelineEventHandler(clients *ManageClientsUseCase, logger *zap.Logger) *PipelineEventHandler {
	return &PipelineEventHandler{Clients: clients, logger: logger}
}

func (h *PipelineEventHandler) Handle(ctx context.Context, evt queue.Event) error {
	switch evt.Type {
	case queue.EventQuoteEmailed:
		if evt.ClientID == "" {
			h.logger.Warn("quote.emailed sem client_id", zap.String("event_id", evt.ID))
			return nil
		}
		_, err := h.Clients.PromoteToActiveProposal(ctx, evt.ClientID)
		return err

	default:
		// sem reação além do log; ack para tirar da fila
		h.logger.Debug("evento recebido",
			zap.String("type", string(evt.Type)),
			zap.String("event_id", evt.ID))
		return nil
	}
}
