package usecase

import (
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateDiagnosticInput(input entity.DiagnosticInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"companyName", "is required"})
	}
	if strings.TrimSpace(input.ContactName) == "" {
		errors = append(errors, ValidationError{"contactName", "is required"})
	}
	if !strings.Contains(input.Email, "@") {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if strings.TrimSpace(input.Industry) == "" {
		errors = append(errors, ValidationError{"industry", "is required"})
	}

	return errors
}

func ValidateGenerateQuoteInput(input GenerateQuoteInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.DiagnosticID) == "" {
		errors = append(errors, ValidationError{"diagnosticId", "is required"})
	}
	if !isValidAmount(input.TotalInvestment) {
		errors = append(errors, ValidationError{"totalInvestment", "must be a non-negative number"})
	}
	if !isValidAmount(input.MonthlyRetainer) {
		errors = append(errors, ValidationError{"monthlyRetainer", "must be a non-negative number"})
	}

	seen := make(map[string]bool, len(input.SelectedIDs))
	for _, id := range input.SelectedIDs {
		if seen[id] {
			errors = append(errors, ValidationError{"selectedIds", fmt.Sprintf("duplicated id %q", id)})
		}
		seen[id] = true
	}
	for id := range input.Edits {
		if !seen[id] {
			errors = append(errors, ValidationError{"edits", fmt.Sprintf("edit for unselected opportunity %q", id)})
		}
	}

	return errors
}

func ValidateSendQuoteEmailInput(input SendQuoteEmailInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.QuoteID) == "" {
		errors = append(errors, ValidationError{"quoteId", "is required"})
	}
	if strings.TrimSpace(input.Subject) == "" {
		errors = append(errors, ValidationError{"subject", "is required"})
	}
	if strings.TrimSpace(input.Body) == "" {
		errors = append(errors, ValidationError{"body", "is required"})
	}

	return errors
}

func ValidateClientUpdate(u entity.ClientUpdate) []ValidationError {
	var errors []ValidationError

	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errors = append(errors, ValidationError{"name", "must not be empty"})
	}
	if u.Email != nil && strings.TrimSpace(*u.Email) != "" {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}
	if u.Status != nil && !u.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be lead, active_proposal, converted or lost"})
	}

	return errors
}

func isValidAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
