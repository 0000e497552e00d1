package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/integration/gemini"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"github.com/xavierca1/autofinder/internal/infra/queue"
)

type MockClientRepo struct{ mock.Mock }

func (m *MockClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepo) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *MockClientRepo) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *MockClientRepo) FindByCompanyName(ctx context.Context, name string) (*entity.Client, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *MockClientRepo) ListByName(ctx context.Context) ([]*entity.Client, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.Client)
	return l, args.Error(1)
}

func (m *MockClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepo) UpdateStatusIf(ctx context.Context, id string, from, to entity.ClientStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepo) CountByStatus(ctx context.Context) (map[entity.ClientStatus]int, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(map[entity.ClientStatus]int)
	return r, args.Error(1)
}

type MockDiagnosticRepo struct{ mock.Mock }

func (m *MockDiagnosticRepo) Create(ctx context.Context, d *entity.Diagnostic) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiagnosticRepo) FindByID(ctx context.Context, id string) (*entity.Diagnostic, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*entity.Diagnostic)
	return d, args.Error(1)
}

func (m *MockDiagnosticRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Diagnostic, error) {
	args := m.Called(ctx, limit)
	l, _ := args.Get(0).([]*entity.Diagnostic)
	return l, args.Error(1)
}

type MockQuoteRepo struct{ mock.Mock }

func (m *MockQuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuoteRepo) FindByID(ctx context.Context, id string) (*entity.Quote, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*entity.Quote)
	return q, args.Error(1)
}

func (m *MockQuoteRepo) FindByPublicToken(ctx context.Context, token string) (*entity.Quote, error) {
	args := m.Called(ctx, token)
	q, _ := args.Get(0).(*entity.Quote)
	return q, args.Error(1)
}

func (m *MockQuoteRepo) ListWithClients(ctx context.Context) ([]*entity.Quote, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.Quote)
	return l, args.Error(1)
}

func (m *MockQuoteRepo) ListAwaitingEmail(ctx context.Context, before time.Time) ([]*entity.Quote, error) {
	args := m.Called(ctx, before)
	l, _ := args.Get(0).([]*entity.Quote)
	return l, args.Error(1)
}

type MockEmailRepo struct{ mock.Mock }

func (m *MockEmailRepo) Create(ctx context.Context, r *entity.EmailRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockEmailRepo) ListHistory(ctx context.Context, limit int) ([]*entity.EmailRecord, error) {
	args := m.Called(ctx, limit)
	l, _ := args.Get(0).([]*entity.EmailRecord)
	return l, args.Error(1)
}

type MockTransport struct{ mock.Mock }

func (m *MockTransport) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, evt queue.Event) error {
	return m.Called(ctx, evt).Error(0)
}

type MockAnalysisModel struct{ mock.Mock }

func (m *MockAnalysisModel) Analyze(ctx context.Context, req gemini.AnalysisRequest) (*entity.AnalysisResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*entity.AnalysisResult)
	return r, args.Error(1)
}

type MockDraftModel struct{ mock.Mock }

func (m *MockDraftModel) Draft(ctx context.Context, req gemini.DraftRequest) (gemini.Draft, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(gemini.Draft)
	return d, args.Error(1)
}

func sampleAnalysis() entity.AnalysisResult {
	return entity.AnalysisResult{
		ProblemSummary: "Facturación manual",
		Opportunities: []entity.Opportunity{
			{ID: "opp-1", Title: "Bot de facturas", EstimatedSavings: "$800/mes", Effort: entity.TierLow, Impact: entity.TierHigh},
			{ID: "opp-2", Title: "CRM sync", EstimatedSavings: "$1,200/mes", Effort: entity.TierMedium, Impact: entity.TierMedium},
			{ID: "opp-3", Title: "Reportes", EstimatedSavings: "$500/mes", Effort: entity.TierLow, Impact: entity.TierLow},
		},
		TotalSavingsMonth:  2500,
		TotalSavingsYear:   30000,
		ROIMultiplier:      4.2,
		ImplementationCost: 7000,
		ChartData:          []entity.ChartPoint{{Month: "Ene", Manual: 3000, Automated: 500}},
	}
}

func sampleInput() entity.DiagnosticInput {
	return entity.DiagnosticInput{
		CompanyName: "Acme",
		ContactName: "Ana",
		Email:       "ana@acme.co",
		Industry:    "Retail",
		Tools:       []string{"Excel"},
		PainPoints:  []string{"Facturación manual"},
	}
}

func sampleQuote(items []entity.Opportunity) *entity.Quote {
	client := &entity.Client{ID: "c1", Name: "Ana", Email: "ana@acme.co", CompanyName: "Acme", Status: entity.ClientStatusLead}
	diag := &entity.Diagnostic{ID: "d1", ClientID: "c1", Input: sampleInput(), Analysis: sampleAnalysis(), Client: client}
	return &entity.Quote{
		ID:              "q1",
		DiagnosticID:    "d1",
		Status:          entity.QuoteStatusPending,
		Items:           items,
		TotalInvestment: 5000,
		MonthlyRetainer: 300,
		PublicToken:     "tok-1",
		Diagnostic:      diag,
	}
}
