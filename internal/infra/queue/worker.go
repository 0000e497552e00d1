package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Worker struct {
	Channel *amqp.Channel
	Handler Handler
	logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, handler Handler, logger *zap.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
		logger:  logger,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack: ack manual
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker aguardando eventos", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.deliver(ctx, d)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, d amqp.Delivery) {
	var evt Event
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		// mensagem malformada: sem requeue, vai pra DLQ
		w.logger.Error("evento inválido", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.Handler.Handle(ctx, evt); err != nil {
		w.logger.Error("falha ao processar evento",
			zap.String("event_id", evt.ID),
			zap.String("type", string(evt.Type)),
			zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}
