package entity

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrDiagnosticNotFound = errors.New("diagnostic not found")
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrDuplicateClient    = errors.New("client with this email already exists")
	ErrInvalidStatus      = errors.New("invalid status")

	// Payload JSON gravado com formato/versão que não reconhecemos
	ErrSchemaMismatch = errors.New("stored payload does not match expected schema")
)
