package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xavierca1/autofinder/internal/infra/integration/gemini"
	"go.uber.org/zap"
)

type AnalysisOutcome string

const (
	AnalysisFromModel       AnalysisOutcome = "model"
	AnalysisFallbackNoModel AnalysisOutcome = "fallback_no_model"
	AnalysisFallbackError   AnalysisOutcome = "fallback_error"
	AnalysisFailed          AnalysisOutcome = "failed"
)

type AnalyzeDiagnosticOutput struct {
	Result  entity.AnalysisResult
	Outcome AnalysisOutcome
}

type AnalyzeDiagnosticUseCase struct {
	Model    AnalysisModel // nil = sem credencial
	Fallback bool
	logger   *zap.Logger
}

func NewAnalyzeDiagnosticUseCase(model AnalysisModel, fallback bool, logger *zap.Logger) *AnalyzeDiagnosticUseCase {
	return &AnalyzeDiagnosticUseCase{Model: model, Fallback: fallback, logger: logger}
}

// Execute pede a análise ao modelo. Sem modelo ou com falha, devolve o resultado
// determinístico marcado como Degraded, a não ser que o fallback esteja desligado.
func (uc *AnalyzeDiagnosticUseCase) Execute(ctx context.Context, input entity.DiagnosticInput) (AnalyzeDiagnosticOutput, error) {
	if uc.Model == nil {
		return uc.fallback(input, AnalysisFallbackNoModel, errors.New("modelo não configurado"))
	}

	req := gemini.AnalysisRequest{Prompt: BuildAnalysisPrompt(input)}
	if input.AudioBase64 != "" {
		audio, err := decodeAudio(input.AudioBase64)
		if err != nil {
			uc.logger.Warn("áudio ignorado", zap.Error(err))
		} else {
			req.Audio = audio
		}
	}

	result, err := uc.Model.Analyze(ctx, req)
	if err == nil {
		err = result.Validate()
	}
	if err != nil {
		return uc.fallback(input, AnalysisFallbackError, err)
	}

	normalizeTotals(result)
	return AnalyzeDiagnosticOutput{Result: *result, Outcome: AnalysisFromModel}, nil
}

func (uc *AnalyzeDiagnosticUseCase) fallback(input entity.DiagnosticInput, outcome AnalysisOutcome, cause error) (AnalyzeDiagnosticOutput, error) {
	if !uc.Fallback {
		uc.logger.Error("análise indisponível", zap.String("company", input.CompanyName), zap.Error(cause))
		return AnalyzeDiagnosticOutput{Outcome: AnalysisFailed}, &TechnicalError{
			Code:    CodeAnalysisFailed,
			Message: "não foi possível gerar a análise",
			Err:     cause,
		}
	}

	uc.logger.Warn("usando análise determinística",
		zap.String("company", input.CompanyName),
		zap.String("outcome", string(outcome)),
		zap.Error(cause))
	return AnalyzeDiagnosticOutput{Result: FallbackAnalysis(input), Outcome: outcome}, nil
}

// Completa totais que o modelo às vezes omite
func normalizeTotals(r *entity.AnalysisResult) {
	if r.TotalSavingsMonth <= 0 {
		for _, o := range r.Opportunities {
			r.TotalSavingsMonth += entity.ParseMonthlySavings(o.EstimatedSavings)
		}
	}
	if r.TotalSavingsYear <= 0 {
		r.TotalSavingsYear = r.TotalSavingsMonth * 12
	}
	if r.ROIMultiplier <= 0 && r.ImplementationCost > 0 {
		r.ROIMultiplier = entity.RoundTo(r.TotalSavingsYear/r.ImplementationCost, 1)
	}
	if r.ChartData == nil {
		r.ChartData = []entity.ChartPoint{}
	}
}

func BuildAnalysisPrompt(input entity.DiagnosticInput) string {
	var b strings.Builder
	b.WriteString("Eres un consultor experto en automatización de procesos para PyMEs. ")
	b.WriteString("Analiza el siguiente cliente e identifica oportunidades de automatización concretas.\n\n")
	fmt.Fprintf(&b, "Empresa: %s\n", input.CompanyName)
	fmt.Fprintf(&b, "Industria: %s\n", input.Industry)
	fmt.Fprintf(&b, "Herramientas actuales: %s\n", joinOrNone(input.Tools))
	fmt.Fprintf(&b, "Puntos de dolor: %s\n", joinOrNone(input.PainPoints))
	if input.AudioBase64 != "" {
		b.WriteString("\nSe adjunta una nota de voz del cliente describiendo su operación; úsala como contexto adicional.\n")
	}
	b.WriteString("\nINSTRUCCIONES:\n")
	b.WriteString("1. Responde en español.\n")
	b.WriteString("2. Entre 3 y 5 oportunidades, cada una con id único (opp-1, opp-2, ...).\n")
	b.WriteString("3. effort e impact deben ser Low, Medium o High.\n")
	b.WriteString("4. estimatedSavings con el formato \"$1,200/mes\".\n")
	b.WriteString("5. totalSavingsMonth debe ser la suma de los ahorros mensuales; totalSavingsYear = 12 x mensual.\n")
	b.WriteString("6. chartData con 6 meses comparando costo manual vs automatizado.\n")
	return b.String()
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "(ninguno)"
	}
	return strings.Join(list, ", ")
}

// decodeAudio aceita data URL ("data:audio/webm;base64,...") ou base64 puro.
func decodeAudio(raw string) (*gemini.Audio, error) {
	mime := "audio/webm"
	data := raw
	if strings.HasPrefix(raw, "data:") {
		header, payload, ok := strings.Cut(raw, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("data url de áudio inválida")
		}
		if m := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"); m != "" {
			mime = m
		}
		data = payload
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("áudio base64 inválido: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("áudio vazio")
	}
	return &gemini.Audio{Data: decoded, MIMEType: mime}, nil
}

var fallbackOpportunities = []struct {
	id, title, description string
	effort, impact         entity.Tier
	monthly                float64
}{
	{"opp-1", "Automatización de captura de datos", "Eliminar la digitación manual de información entre formularios, correos y hojas de cálculo.", entity.TierLow, entity.TierHigh, 1800},
	{"opp-2", "Sincronización entre herramientas", "Conectar las herramientas actuales para que clientes, pedidos y facturas se actualicen solos.", entity.TierMedium, entity.TierHigh, 1200},
	{"opp-3", "Reportes automáticos", "Generar y enviar los reportes semanales sin intervención manual.", entity.TierLow, entity.TierMedium, 1000},
}

const fallbackImplementationCost = 5000

// FallbackAnalysis é determinístico: mesma entrada, mesmo resultado.
func FallbackAnalysis(input entity.DiagnosticInput) entity.AnalysisResult {
	opps := make([]entity.Opportunity, 0, len(fallbackOpportunities))
	var monthly float64
	for _, f := range fallbackOpportunities {
		opps = append(opps, entity.Opportunity{
			ID:               f.id,
			Title:            f.title,
			Description:      f.description,
			Effort:           f.effort,
			Impact:           f.impact,
			EstimatedSavings: entity.FormatMonthlySavings(f.monthly),
		})
		monthly += f.monthly
	}
	annual := monthly * 12

	company := strings.TrimSpace(input.CompanyName)
	if company == "" {
		company = "la empresa"
	}
	summary := fmt.Sprintf("Análisis preliminar para %s generado en modo degradado (el modelo de IA no estuvo disponible).", company)
	if len(input.PainPoints) > 0 {
		summary += " Puntos de dolor reportados: " + strings.Join(input.PainPoints, ", ") + "."
	}

	manual := 6000.0
	automated := []float64{6000, 4800, 3600, 2600, 2200, 2000}
	months := []string{"Mes 1", "Mes 2", "Mes 3", "Mes 4", "Mes 5", "Mes 6"}
	chart := make([]entity.ChartPoint, len(months))
	for i := range months {
		chart[i] = entity.ChartPoint{Month: months[i], Manual: manual, Automated: automated[i]}
	}

	return entity.AnalysisResult{
		ProblemSummary:     summary,
		Opportunities:      opps,
		TotalSavingsMonth:  monthly,
		TotalSavingsYear:   annual,
		ROIMultiplier:      entity.RoundTo(annual/fallbackImplementationCost, 1),
		ImplementationCost: fallbackImplementationCost,
		ChartData:          chart,
		Degraded:           true,
	}
}
