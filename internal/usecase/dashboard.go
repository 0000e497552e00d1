package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/autofinder/internal/entity"
	"golang.org/x/sync/errgroup"
)

const DashboardRecentLimit = 10

type DashboardKPIs struct {
	PotentialAnnualSavings float64                     `json:"potentialAnnualSavings"`
	RecentDiagnostics      int                         `json:"recentDiagnostics"`
	ClientsByStatus        map[entity.ClientStatus]int `json:"clientsByStatus"`
	QuotesAwaitingEmail    int                         `json:"quotesAwaitingEmail"`
}

type Dashboard struct {
	Diagnostics []*entity.Diagnostic `json:"diagnostics"`
	KPIs        DashboardKPIs        `json:"kpis"`
}

type DashboardUseCase struct {
	Clients  entity.ClientRepositoryInterface
	Pipeline *ListPipelineUseCase
	now      func() time.Time
}

func NewDashboardUseCase(clients entity.ClientRepositoryInterface, pipeline *ListPipelineUseCase) *DashboardUseCase {
	return &DashboardUseCase{Clients: clients, Pipeline: pipeline, now: time.Now}
}

// Execute busca as três fontes em paralelo; qualquer erro derruba o painel todo.
func (uc *DashboardUseCase) Execute(ctx context.Context) (*Dashboard, error) {
	var (
		recent   []*entity.Diagnostic
		byStatus map[entity.ClientStatus]int
		waiting  []*entity.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recent, err = uc.Pipeline.RecentDiagnostics(gctx, DashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = uc.Clients.CountByStatus(gctx)
		if err != nil {
			return dbError("falha ao contar clientes", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		waiting, err = uc.Pipeline.QuotesAwaitingEmail(gctx, uc.now())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kpis := DashboardKPIs{
		RecentDiagnostics:   len(recent),
		ClientsByStatus:     byStatus,
		QuotesAwaitingEmail: len(waiting),
	}
	for _, d := range recent {
		kpis.PotentialAnnualSavings += d.Analysis.TotalSavingsYear
	}
	if recent == nil {
		recent = []*entity.Diagnostic{}
	}

	return &Dashboard{Diagnostics: recent, KPIs: kpis}, nil
}
