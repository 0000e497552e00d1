package usecase

import (
	"context"

	"github.com/xavierca1/autofinder/internal/entity"
	"go.uber.org/zap"
)

type RunDiagnosticOutput struct {
	Analysis   entity.AnalysisResult `json:"analysis"`
	Outcome    AnalysisOutcome       `json:"outcome"`
	Diagnostic *entity.Diagnostic    `json:"diagnostic,omitempty"`
	Saved      bool                  `json:"saved"`
}

// RunDiagnosticUseCase é o fim do wizard: analisa e tenta persistir.
// Falha ao salvar não invalida a análise.
type RunDiagnosticUseCase struct {
	Analyze *AnalyzeDiagnosticUseCase
	Save    *SaveDiagnosticUseCase
	logger  *zap.Logger
}

func NewRunDiagnosticUseCase(analyze *AnalyzeDiagnosticUseCase, save *SaveDiagnosticUseCase, logger *zap.Logger) *RunDiagnosticUseCase {
	return &RunDiagnosticUseCase{Analyze: analyze, Save: save, logger: logger}
}

func (uc *RunDiagnosticUseCase) Execute(ctx context.Context, input entity.DiagnosticInput) (*RunDiagnosticOutput, error) {
	if errs := ValidateDiagnosticInput(input); len(errs) > 0 {
		return nil, invalid(errs)
	}

	analyzed, err := uc.Analyze.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	out := &RunDiagnosticOutput{Analysis: analyzed.Result, Outcome: analyzed.Outcome}

	diag, err := uc.Save.Execute(ctx, input, analyzed.Result)
	if err != nil {
		uc.logger.Error("diagnóstico não salvo", zap.String("company", input.CompanyName), zap.Error(err))
		return out, nil
	}

	out.Diagnostic = diag
	out.Saved = true
	return out, nil
}
