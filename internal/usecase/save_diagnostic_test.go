package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/queue"
	"go.uber.org/zap"
)

func newSaveUseCase() (*SaveDiagnosticUseCase, *MockClientRepo, *MockDiagnosticRepo, *MockPublisher) {
	clients := new(MockClientRepo)
	diags := new(MockDiagnosticRepo)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewSaveDiagnosticUseCase(clients, diags, events, zap.NewNop()), clients, diags, events
}

func TestSaveDiagnosticReusesClientByEmail(t *testing.T) {
	uc, clients, diags, events := newSaveUseCase()
	existing := &entity.Client{ID: "c1", Email: "ana@acme.co", Status: entity.ClientStatusActiveProposal}
	clients.On("FindByEmail", mock.Anything, "ana@acme.co").Return(existing, nil)
	diags.On("Create", mock.Anything, mock.AnythingOfType("*entity.Diagnostic")).Return(nil)

	d, err := uc.Execute(context.Background(), sampleInput(), sampleAnalysis())
	require.NoError(t, err)

	assert.Equal(t, "c1", d.ClientID)
	assert.Same(t, existing, d.Client)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e queue.Event) bool {
		return e.Type == queue.EventDiagnosticSaved && e.DiagnosticID == d.ID
	}))
}

func TestSaveDiagnosticFallsBackToCompanyName(t *testing.T) {
	uc, clients, diags, _ := newSaveUseCase()
	in := sampleInput()
	in.Email = ""
	clients.On("FindByCompanyName", mock.Anything, "Acme").Return(&entity.Client{ID: "c9"}, nil)
	diags.On("Create", mock.Anything, mock.Anything).Return(nil)

	d, err := uc.Execute(context.Background(), in, sampleAnalysis())
	require.NoError(t, err)
	assert.Equal(t, "c9", d.ClientID)
	clients.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestSaveDiagnosticCreatesLead(t *testing.T) {
	uc, clients, diags, _ := newSaveUseCase()
	clients.On("FindByEmail", mock.Anything, "ana@acme.co").Return(nil, entity.ErrClientNotFound)
	clients.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Client) bool {
		return c.Status == entity.ClientStatusLead && c.Name == "Ana" && c.CompanyName == "Acme"
	})).Return(nil)
	diags.On("Create", mock.Anything, mock.Anything).Return(nil)

	d, err := uc.Execute(context.Background(), sampleInput(), sampleAnalysis())
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusLead, d.Client.Status)
	clients.AssertExpectations(t)
}

func TestSaveDiagnosticRereadsAfterDuplicateInsert(t *testing.T) {
	uc, clients, diags, _ := newSaveUseCase()
	winner := &entity.Client{ID: "c-winner", Email: "ana@acme.co"}
	clients.On("FindByEmail", mock.Anything, "ana@acme.co").Return(nil, entity.ErrClientNotFound).Once()
	clients.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDuplicateClient)
	clients.On("FindByEmail", mock.Anything, "ana@acme.co").Return(winner, nil).Once()
	diags.On("Create", mock.Anything, mock.Anything).Return(nil)

	d, err := uc.Execute(context.Background(), sampleInput(), sampleAnalysis())
	require.NoError(t, err)
	assert.Equal(t, "c-winner", d.ClientID)
}

func TestSaveDiagnosticFailureReturnsNothing(t *testing.T) {
	uc, clients, diags, events := newSaveUseCase()
	clients.On("FindByEmail", mock.Anything, mock.Anything).Return(&entity.Client{ID: "c1"}, nil)
	diags.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	d, err := uc.Execute(context.Background(), sampleInput(), sampleAnalysis())
	assert.Nil(t, d)
	assert.True(t, IsTechnicalError(err))
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRunDiagnosticKeepsAnalysisWhenSaveFails(t *testing.T) {
	save, clients, _, _ := newSaveUseCase()
	clients.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	run := NewRunDiagnosticUseCase(NewAnalyzeDiagnosticUseCase(nil, true, zap.NewNop()), save, zap.NewNop())

	out, err := run.Execute(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Nil(t, out.Diagnostic)
	assert.NotEmpty(t, out.Analysis.Opportunities)
}

func TestRunDiagnosticValidatesInput(t *testing.T) {
	save, _, _, _ := newSaveUseCase()
	run := NewRunDiagnosticUseCase(NewAnalyzeDiagnosticUseCase(nil, true, zap.NewNop()), save, zap.NewNop())

	_, err := run.Execute(context.Background(), entity.DiagnosticInput{CompanyName: "Acme"})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Len(t, de.Fields, 3)
}
