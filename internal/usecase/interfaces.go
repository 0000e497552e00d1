package usecase

import (
	"context"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/integration/gemini"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"github.com/xavierca1/autofinder/internal/infra/queue"
)

// AnalysisModel é o modelo generativo que produz o AnalysisResult.
type AnalysisModel interface {
	Analyze(ctx context.Context, req gemini.AnalysisRequest) (*entity.AnalysisResult, error)
}

type DraftModel interface {
	Draft(ctx context.Context, req gemini.DraftRequest) (gemini.Draft, error)
}

// EmailTransport: nil somente com confirmação de entrega.
type EmailTransport interface {
	Send(ctx context.Context, msg mail.Message) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt queue.Event) error
}
