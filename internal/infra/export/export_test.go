package export

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/usecase"
	"github.com/xuri/excelize/v2"
)

func TestShareQRCode(t *testing.T) {
	data, err := ShareQRCode("https://app.example.com/share/abc", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, img.Bounds().Dx())

	_, err = ShareQRCode("", 128)
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestReportPDF(t *testing.T) {
	report := &usecase.PublicReport{
		CompanyName:    "Panadería Núñez",
		ClientName:     "José",
		ProblemSummary: "Pedidos manuales por WhatsApp.",
		Opportunities: []entity.Opportunity{
			{ID: "opp-1", Title: "Automatizar pedidos", Description: "Bot de pedidos", EstimatedSavings: "$1,200/mes"},
		},
		Totals:          entity.Totals{MonthlySavings: 1200, AnnualSavings: 14400, ROIMultiplier: 2.9},
		TotalInvestment: 5000,
		MonthlyRetainer: 300,
	}

	var buf bytes.Buffer
	require.NoError(t, ReportPDF(&buf, report, "https://app.example.com/share/abc"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, ReportPDF(&buf, report, ""))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestClientsXLSX(t *testing.T) {
	created := time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC)
	clients := []*entity.Client{
		{ID: "c1", Name: "Ana", Email: "ana@acme.com", CompanyName: "Acme", Industry: "Retail", Status: entity.ClientStatusLead, CreatedAt: created},
		{ID: "c2", Name: "Beto", CompanyName: "Beta", Status: entity.ClientStatusActiveProposal, CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, ClientsXLSX(&buf, clients))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(clientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Nombre", "Email", "Empresa", "Industria", "Estado", "Creado"}, rows[0])
	assert.Equal(t, "ana@acme.com", rows[1][2])
	assert.Equal(t, "active_proposal", rows[2][5])
	assert.Equal(t, "2026-02-01 14:30", rows[2][6])
}
