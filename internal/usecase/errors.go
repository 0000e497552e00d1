package usecase

import "errors"

// Códigos expostos pela API
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMissingRecipient = "MISSING_RECIPIENT"
	CodeLinkInvalid      = "LINK_INVALID"
	CodeAnalysisFailed   = "ANALYSIS_UNAVAILABLE"
	CodeEmailDelivery    = "EMAIL_DELIVERY_FAILED"
	CodeEmailUnrecorded  = "EMAIL_SENT_NOT_RECORDED"
	CodeDatabase         = "DATABASE_ERROR"
	CodeExport           = "EXPORT_FAILED"
)

// DomainError: falha de regra de negócio, culpa do chamador (4xx).
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError: falha de infraestrutura (5xx). Err guarda a causa para log.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func invalid(fields []ValidationError) error {
	return &DomainError{Code: CodeValidation, Message: "dados inválidos", Fields: fields}
}

func dbError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}
