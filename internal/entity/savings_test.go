package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMonthlySavings(t *testing.T) {
	cases := map[string]float64{
		"$800/mes":       800,
		"$1,200/mes":     1200,
		"$1.200/mes":     1200,
		"US$ 12.000/mes": 12000,
		"$1,200.50":      1200.5,
		"aprox. 950 USD": 950,
		"":               0,
		"a definir":      0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseMonthlySavings(in), in)
	}
}

func TestFormatMonthlySavings(t *testing.T) {
	assert.Equal(t, "$1,200/mes", FormatMonthlySavings(1200))
	assert.Equal(t, "$800/mes", FormatMonthlySavings(799.6))
	assert.Equal(t, "$48,000", FormatAmount(48000))
}

func TestComputeTotalsFromVisibleItems(t *testing.T) {
	opps := []Opportunity{
		{ID: "1", EstimatedSavings: "$800/mes"},
		{ID: "2", EstimatedSavings: "$1,200/mes"},
	}

	totals := ComputeTotals(opps, 5000, 300, 9.9)

	assert.Equal(t, 2000.0, totals.MonthlySavings)
	assert.Equal(t, 24000.0, totals.AnnualSavings)
	assert.Equal(t, 4.8, totals.ROIMultiplier)
	assert.Equal(t, 1700.0, totals.NetMonthly)
}

func TestComputeTotalsRoundTripExample(t *testing.T) {
	totals := ComputeTotals([]Opportunity{{ID: "a", EstimatedSavings: "$800/mes"}}, 5000, 300, 0)

	assert.Equal(t, 1.9, totals.ROIMultiplier)
	assert.Equal(t, 500.0, totals.NetMonthly)
	assert.Equal(t, 9600.0, totals.AnnualSavings)
}

func TestComputeTotalsWithoutInvestmentKeepsFallbackROI(t *testing.T) {
	totals := ComputeTotals([]Opportunity{{ID: "a", EstimatedSavings: "$100/mes"}}, 0, 0, 5.2)
	assert.Equal(t, 5.2, totals.ROIMultiplier)
}
