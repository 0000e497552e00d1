package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/integration/gemini"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"go.uber.org/zap"
)

type EmailDraft struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	AIGenerated bool   `json:"aiGenerated"`
	ShareURL    string `json:"shareUrl"`
}

type DraftQuoteEmailUseCase struct {
	Quotes entity.QuoteRepositoryInterface
	Model  DraftModel // nil = sem credencial
	Origin string
	logger *zap.Logger
}

func NewDraftQuoteEmailUseCase(quotes entity.QuoteRepositoryInterface, model DraftModel, origin string, logger *zap.Logger) *DraftQuoteEmailUseCase {
	return &DraftQuoteEmailUseCase{Quotes: quotes, Model: model, Origin: origin, logger: logger}
}

// Execute nunca bloqueia por causa do modelo: sem ele, ou com falha, usa o template.
func (uc *DraftQuoteEmailUseCase) Execute(ctx context.Context, quoteID string) (*EmailDraft, error) {
	quote, err := uc.Quotes.FindByID(ctx, quoteID)
	if errors.Is(err, entity.ErrQuoteNotFound) {
		return nil, notFound("cotação não encontrada")
	}
	if err != nil {
		return nil, dbError("falha ao buscar cotação", err)
	}

	data := draftData(quote, entity.ShareURL(uc.Origin, quote.PublicToken))

	if uc.Model == nil {
		return uc.templated(data, mail.DraftWithoutModel)
	}

	d, err := uc.Model.Draft(ctx, gemini.DraftRequest{Prompt: buildDraftPrompt(data)})
	if err != nil {
		uc.logger.Warn("rascunho por IA falhou, usando template", zap.String("quote_id", quote.ID), zap.Error(err))
		return uc.templated(data, mail.DraftModelFailed)
	}

	return &EmailDraft{
		Subject:     strings.TrimSpace(d.Subject),
		Body:        strings.TrimSpace(d.Body),
		AIGenerated: true,
		ShareURL:    data.ShareLink,
	}, nil
}

func (uc *DraftQuoteEmailUseCase) templated(data mail.QuoteDraftData, variant mail.DraftVariant) (*EmailDraft, error) {
	subject, body, err := mail.RenderQuoteDraft(data, variant)
	if err != nil {
		return nil, &TechnicalError{Code: "TEMPLATE_ERROR", Message: "falha ao montar rascunho", Err: err}
	}
	return &EmailDraft{Subject: subject, Body: body, ShareURL: data.ShareLink}, nil
}

// draftData usa o conjunto visível da cotação, o mesmo que o link público mostra.
func draftData(q *entity.Quote, shareURL string) mail.QuoteDraftData {
	data := mail.QuoteDraftData{
		ClientName:  "Cliente",
		CompanyName: "Empresa",
		ShareLink:   shareURL,
	}

	var analysis entity.AnalysisResult
	if q.Diagnostic != nil {
		analysis = q.Diagnostic.Analysis
	}
	if c := q.Client(); c != nil {
		if strings.TrimSpace(c.Name) != "" {
			data.ClientName = c.Name
		}
		if strings.TrimSpace(c.CompanyName) != "" {
			data.CompanyName = c.CompanyName
		}
	}

	visible := visibleItems(q, analysis)
	totals := entity.ComputeTotals(visible, q.TotalInvestment, q.MonthlyRetainer, analysis.ROIMultiplier)
	data.AnnualSavings = entity.FormatAmount(totals.AnnualSavings)
	for _, o := range visible {
		data.Opportunities = append(data.Opportunities, o.Title)
	}
	return data
}

func visibleItems(q *entity.Quote, analysis entity.AnalysisResult) []entity.Opportunity {
	if len(q.Items) > 0 {
		return q.Items
	}
	return analysis.Opportunities
}

func buildDraftPrompt(d mail.QuoteDraftData) string {
	var b strings.Builder
	b.WriteString("Eres un consultor de automatización profesional. Genera un correo de seguimiento para enviar una propuesta comercial.\n\n")
	b.WriteString("CONTEXTO:\n")
	fmt.Fprintf(&b, "- Cliente: %s\n", d.ClientName)
	fmt.Fprintf(&b, "- Empresa: %s\n", d.CompanyName)
	fmt.Fprintf(&b, "- Ahorro anual identificado: %s\n", d.AnnualSavings)
	fmt.Fprintf(&b, "- Oportunidades: %s\n", strings.Join(d.Opportunities, ", "))
	fmt.Fprintf(&b, "- Link de la propuesta: %s\n\n", d.ShareLink)
	b.WriteString("INSTRUCCIONES:\n")
	b.WriteString("1. El tono debe ser profesional pero cálido\n")
	b.WriteString("2. Menciona el ahorro potencial como gancho\n")
	b.WriteString("3. Incluye un CTA claro para revisar la propuesta\n")
	b.WriteString("4. Máximo 150 palabras\n")
	return b.String()
}

// AppendShareLink anexa o link da proposta ao corpo do e-mail.
func AppendShareLink(body, link string) string {
	return strings.TrimRight(body, " \n") + "\n\nVer propuesta: " + link
}
