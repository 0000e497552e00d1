package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/http/middleware"
	"go.uber.org/zap"
)

type awaitingLister interface {
	QuotesAwaitingEmail(ctx context.Context, cutoff time.Time) ([]*entity.Quote, error)
}

// FollowUpWorker procura cotações pendentes que nunca tiveram e-mail enviado
// e avisa no log para o consultor retomar o contato.
type FollowUpWorker struct {
	lister   awaitingLister
	schedule string
	after    time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewFollowUpWorker(lister awaitingLister, schedule string, after time.Duration, logger *zap.Logger) *FollowUpWorker {
	return &FollowUpWorker{
		lister:   lister,
		schedule: schedule,
		after:    after,
		logger:   logger,
		now:      time.Now,
	}
}

// Start roda uma verificação imediata e depois segue o cron até o ctx acabar.
func (w *FollowUpWorker) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.Check(ctx) }); err != nil {
		return fmt.Errorf("invalid follow-up schedule %q: %w", w.schedule, err)
	}

	w.logger.Info("follow-up worker iniciado",
		zap.String("schedule", w.schedule),
		zap.Duration("after", w.after),
	)
	w.Check(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	w.logger.Info("follow-up worker encerrado")
	return nil
}

// Check devolve quantas cotações aguardam e-mail.
func (w *FollowUpWorker) Check(ctx context.Context) int {
	cutoff := w.now().Add(-w.after)
	quotes, err := w.lister.QuotesAwaitingEmail(ctx, cutoff)
	if err != nil {
		w.logger.Error("erro ao buscar cotações sem e-mail", zap.Error(err))
		return 0
	}

	for _, q := range quotes {
		company := ""
		if c := q.Client(); c != nil {
			company = c.CompanyName
		}
		w.logger.Info("cotação aguardando envio",
			zap.String("quote_id", q.ID),
			zap.String("company", company),
			zap.Duration("elapsed", w.now().Sub(q.CreatedAt).Round(time.Hour)),
		)
	}

	middleware.SetQuotesAwaitingEmail(len(quotes))
	return len(quotes)
}
