package queue

import (
	"context"

	"go.uber.org/zap"
)

// LocalDispatcher entrega eventos no próprio processo quando não há broker.
type LocalDispatcher struct {
	handler Handler
	logger  *zap.Logger
}

func NewLocalDispatcher(handler Handler, logger *zap.Logger) *LocalDispatcher {
	return &LocalDispatcher{handler: handler, logger: logger}
}

// Publish processa de forma síncrona; falha do handler só é logada.
func (d *LocalDispatcher) Publish(ctx context.Context, evt Event) error {
	if err := d.handler.Handle(ctx, evt); err != nil {
		d.logger.Warn("handler local falhou",
			zap.String("event_id", evt.ID),
			zap.String("type", string(evt.Type)),
			zap.Error(err))
	}
	return nil
}
