package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/entity"
	"go.uber.org/zap"
)

func TestPublicReportRecomputesTotalsFromCuratedItems(t *testing.T) {
	quotes := new(MockQuoteRepo)
	items := []entity.Opportunity{{ID: "opp-1", Title: "Bot de facturas", EstimatedSavings: "$800/mes"}}
	quotes.On("FindByPublicToken", mock.Anything, "tok-1").Return(sampleQuote(items), nil)

	r, err := NewGetPublicReportUseCase(quotes, zap.NewNop()).Execute(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Len(t, r.Opportunities, 1)
	assert.Equal(t, 800.0, r.Totals.MonthlySavings)
	assert.Equal(t, 9600.0, r.Totals.AnnualSavings)
	assert.Equal(t, 1.9, r.Totals.ROIMultiplier)
	assert.Equal(t, 500.0, r.Totals.NetMonthly)
	assert.Equal(t, "Acme", r.CompanyName)
}

func TestPublicReportWithoutItemsShowsFullAnalysis(t *testing.T) {
	quotes := new(MockQuoteRepo)
	quotes.On("FindByPublicToken", mock.Anything, "tok-1").Return(sampleQuote(nil), nil)

	r, err := NewGetPublicReportUseCase(quotes, zap.NewNop()).Execute(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.Len(t, r.Opportunities, 3)
	assert.Equal(t, 2500.0, r.Totals.MonthlySavings)
	assert.Equal(t, 30000.0, r.Totals.AnnualSavings)
}

func TestPublicReportFailuresAreGeneric(t *testing.T) {
	quotes := new(MockQuoteRepo)
	quotes.On("FindByPublicToken", mock.Anything, "missing").Return(nil, entity.ErrQuoteNotFound)
	quotes.On("FindByPublicToken", mock.Anything, "broken").Return(nil, errors.New("connection reset"))
	orphan := sampleQuote(nil)
	orphan.Diagnostic = nil
	quotes.On("FindByPublicToken", mock.Anything, "orphan").Return(orphan, nil)

	uc := NewGetPublicReportUseCase(quotes, zap.NewNop())
	for _, token := range []string{"", "missing", "broken", "orphan"} {
		_, err := uc.Execute(context.Background(), token)
		assert.Same(t, ErrInvalidShareLink, err, token)
	}
}
