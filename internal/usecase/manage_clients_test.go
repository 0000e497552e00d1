package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/queue"
	"go.uber.org/zap"
)

func TestUpdateClientAppliesChanges(t *testing.T) {
	clients := new(MockClientRepo)
	clients.On("FindByID", mock.Anything, "c1").Return(&entity.Client{ID: "c1", Name: "Ana", Status: entity.ClientStatusLead}, nil)
	clients.On("Update", mock.Anything, mock.Anything).Return(nil)

	status := entity.ClientStatusConverted
	c, err := NewManageClientsUseCase(clients, zap.NewNop()).Update(context.Background(), "c1", entity.ClientUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusConverted, c.Status)
}

func TestUpdateClientRejectsInvalidStatus(t *testing.T) {
	clients := new(MockClientRepo)
	status := entity.ClientStatus("vip")

	_, err := NewManageClientsUseCase(clients, zap.NewNop()).Update(context.Background(), "c1", entity.ClientUpdate{Status: &status})
	assert.True(t, IsDomainError(err))
	clients.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateClientDuplicateEmail(t *testing.T) {
	clients := new(MockClientRepo)
	clients.On("FindByID", mock.Anything, "c1").Return(&entity.Client{ID: "c1"}, nil)
	clients.On("Update", mock.Anything, mock.Anything).Return(entity.ErrDuplicateClient)

	email := "taken@acme.co"
	_, err := NewManageClientsUseCase(clients, zap.NewNop()).Update(context.Background(), "c1", entity.ClientUpdate{Email: &email})
	assert.True(t, IsDomainError(err))
}

func TestGetClientNotFound(t *testing.T) {
	clients := new(MockClientRepo)
	clients.On("FindByID", mock.Anything, "x").Return(nil, entity.ErrClientNotFound)

	_, err := NewManageClientsUseCase(clients, zap.NewNop()).Get(context.Background(), "x")
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestQuoteEmailedEventPromotesLeadOnly(t *testing.T) {
	clients := new(MockClientRepo)
	clients.On("UpdateStatusIf", mock.Anything, "c1", entity.ClientStatusLead, entity.ClientStatusActiveProposal).Return(true, nil)
	h := NewPipelineEventHandler(NewManageClientsUseCase(clients, zap.NewNop()), zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), queue.NewEvent(queue.EventQuoteEmailed, "c1", "d1", "q1")))
	require.NoError(t, h.Handle(context.Background(), queue.NewEvent(queue.EventQuoteCreated, "c1", "d1", "q1")))

	clients.AssertNumberOfCalls(t, "UpdateStatusIf", 1)
}

func TestDashboardAggregatesSources(t *testing.T) {
	clients := new(MockClientRepo)
	diags := new(MockDiagnosticRepo)
	quotes := new(MockQuoteRepo)

	diags.On("ListRecent", mock.Anything, DashboardRecentLimit).Return([]*entity.Diagnostic{
		{ID: "d1", Analysis: entity.AnalysisResult{TotalSavingsYear: 12000}},
		{ID: "d2", Analysis: entity.AnalysisResult{TotalSavingsYear: 30000}},
	}, nil)
	clients.On("CountByStatus", mock.Anything).Return(map[entity.ClientStatus]int{entity.ClientStatusLead: 2}, nil)
	quotes.On("ListAwaitingEmail", mock.Anything, mock.AnythingOfType("time.Time")).Return([]*entity.Quote{{ID: "q1"}}, nil)

	uc := NewDashboardUseCase(clients, NewListPipelineUseCase(diags, quotes, nil))
	uc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	d, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42000.0, d.KPIs.PotentialAnnualSavings)
	assert.Equal(t, 2, d.KPIs.RecentDiagnostics)
	assert.Equal(t, 1, d.KPIs.QuotesAwaitingEmail)
	assert.Equal(t, 2, d.KPIs.ClientsByStatus[entity.ClientStatusLead])
}

func TestDashboardFailsWhenAnySourceFails(t *testing.T) {
	clients := new(MockClientRepo)
	diags := new(MockDiagnosticRepo)
	quotes := new(MockQuoteRepo)

	diags.On("ListRecent", mock.Anything, mock.Anything).Return([]*entity.Diagnostic{}, nil)
	clients.On("CountByStatus", mock.Anything).Return(nil, assert.AnError)
	quotes.On("ListAwaitingEmail", mock.Anything, mock.Anything).Return([]*entity.Quote{}, nil)

	_, err := NewDashboardUseCase(clients, NewListPipelineUseCase(diags, quotes, nil)).Execute(context.Background())
	assert.True(t, IsTechnicalError(err))
}
