package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"github.com/xavierca1/autofinder/internal/infra/queue"
	"go.uber.org/zap"
)

type SendQuoteEmailInput struct {
	QuoteID string `json:"quoteId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendQuoteEmailOutput struct {
	State  SagaState           `json:"state"`
	Record *entity.EmailRecord `json:"record,omitempty"`
}

type SendQuoteEmailUseCase struct {
	Quotes    entity.QuoteRepositoryInterface
	Emails    entity.EmailRepositoryInterface
	Transport EmailTransport
	Events    EventPublisher
	logger    *zap.Logger
}

func NewSendQuoteEmailUseCase(
	quotes entity.QuoteRepositoryInterface,
	emails entity.EmailRepositoryInterface,
	transport EmailTransport,
	events EventPublisher,
	logger *zap.Logger,
) *SendQuoteEmailUseCase {
	return &SendQuoteEmailUseCase{
		Quotes:    quotes,
		Emails:    emails,
		Transport: transport,
		Events:    events,
		logger:    logger,
	}
}

// Execute: envia primeiro, grava depois. O histórico só recebe linha com entrega
// confirmada; se a entrega passou e a gravação não, o estado é SentNotRecorded.
func (uc *SendQuoteEmailUseCase) Execute(ctx context.Context, input SendQuoteEmailInput) (*SendQuoteEmailOutput, error) {
	out := &SendQuoteEmailOutput{State: SagaIdle}

	if errs := ValidateSendQuoteEmailInput(input); len(errs) > 0 {
		return out, invalid(errs)
	}

	quote, err := uc.Quotes.FindByID(ctx, input.QuoteID)
	if errors.Is(err, entity.ErrQuoteNotFound) {
		return out, notFound("cotação não encontrada")
	}
	if err != nil {
		return out, dbError("falha ao buscar cotação", err)
	}

	client := quote.Client()
	if client == nil || strings.TrimSpace(client.Email) == "" {
		return out, &DomainError{Code: CodeMissingRecipient, Message: "o cliente não tem e-mail cadastrado"}
	}

	msg := mail.Message{To: client.Email, Subject: input.Subject, Body: input.Body}
	record := entity.NewSentEmailRecord(quote.ID, client.ID, client.Email, input.Subject, input.Body)

	var deliveryErr, recordErr error
	saga := NewSaga(SagaRecorded)
	saga.AddStep("deliver", SagaSending, SagaFailedNotRecorded, func(ctx context.Context) error {
		deliveryErr = uc.Transport.Send(ctx, msg)
		return deliveryErr
	})
	saga.AddStep("record", SagaSending, SagaSentNotRecorded, func(ctx context.Context) error {
		recordErr = uc.Emails.Create(ctx, record)
		return recordErr
	})

	err = saga.Execute(ctx)
	out.State = saga.State()

	switch out.State {
	case SagaFailedNotRecorded:
		uc.logger.Warn("e-mail não entregue", zap.String("quote_id", quote.ID), zap.Error(deliveryErr))
		return out, &TechnicalError{Code: CodeEmailDelivery, Message: "falha ao enviar e-mail", Err: deliveryErr}
	case SagaSentNotRecorded:
		uc.logger.Error("CRITICAL: e-mail entregue mas não registrado",
			zap.String("quote_id", quote.ID),
			zap.String("recipient", client.Email),
			zap.Error(recordErr))
		return out, &TechnicalError{Code: CodeEmailUnrecorded, Message: "e-mail enviado, mas o histórico não foi salvo", Err: recordErr}
	}
	if err != nil {
		return out, err
	}

	out.Record = record
	uc.logger.Info("e-mail de cotação enviado", zap.String("quote_id", quote.ID), zap.String("email_id", record.ID))

	if uc.Events != nil {
		if err := uc.Events.Publish(ctx, queue.NewEvent(queue.EventQuoteEmailed, client.ID, quote.DiagnosticID, quote.ID)); err != nil {
			uc.logger.Warn("e-mail registrado, mas evento não publicado", zap.String("quote_id", quote.ID), zap.Error(err))
		}
	}
	return out, nil
}
