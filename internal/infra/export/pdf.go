package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/usecase"
)

// ReportPDF escreve a versão imprimível da proposta pública.
// Com shareURL preenchido, inclui o QR code do link no rodapé.
func ReportPDF(w io.Writer, r *usecase.PublicReport, shareURL string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Propuesta "+r.CompanyName, true)
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("Propuesta de Automatización"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(r.CompanyName), "", 1, "L", false, 0, "")
	if r.ClientName != "" {
		pdf.CellFormat(0, 6, tr("Atención: "+r.ClientName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if r.ProblemSummary != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr("Diagnóstico"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, tr(r.ProblemSummary), "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Oportunidades"), "", 1, "L", false, 0, "")
	for _, o := range r.Opportunities {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(130, 6, tr(o.Title), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr(o.EstimatedSavings), "", 1, "R", false, 0, "")
		if o.Description != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(o.Description), "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Resumen financiero"), "", 1, "L", false, 0, "")
	rows := [][2]string{
		{"Ahorro mensual", entity.FormatAmount(r.Totals.MonthlySavings)},
		{"Ahorro anual", entity.FormatAmount(r.Totals.AnnualSavings)},
		{"Inversión", entity.FormatAmount(r.TotalInvestment)},
		{"Retainer mensual", entity.FormatAmount(r.MonthlyRetainer)},
		{"ROI", fmt.Sprintf("%.1fx", r.Totals.ROIMultiplier)},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(80, 7, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "B", 1, "R", false, 0, "")
	}

	if shareURL != "" {
		png, err := ShareQRCode(shareURL, DefaultQRSize)
		if err != nil {
			return fmt.Errorf("qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
		pdf.Ln(8)
		y := pdf.GetY()
		pdf.ImageOptions("share-qr", 18, y, 35, 35, false, opts, 0, "")
		pdf.SetXY(58, y+12)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, shareURL, "", 1, "L", false, 0, shareURL)
	}

	return pdf.Output(w)
}
