package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/autofinder/internal/entity"
)

type DiagnosticRepository struct {
	conn *Conn
}

func NewDiagnosticRepository(conn *Conn) *DiagnosticRepository {
	return &DiagnosticRepository{conn: conn}
}

const diagnosticSelect = `
	SELECT d.id, d.client_id, d.wizard_data, d.analysis_result, d.created_at,
	       c.id, c.name, c.email, c.company_name, c.industry, c.status, c.created_at
	FROM diagnostics d
	LEFT JOIN clients c ON c.id = d.client_id
`

func (r *DiagnosticRepository) Create(ctx context.Context, d *entity.Diagnostic) error {
	input, err := entity.EncodeInput(d.Input)
	if err != nil {
		return err
	}
	analysis, err := entity.EncodeAnalysis(d.Analysis)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO diagnostics (id, client_id, wizard_data, analysis_result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.conn.DB.ExecContext(ctx, query, d.ID, d.ClientID, string(input), string(analysis), d.CreatedAt); err != nil {
		return fmt.Errorf("erro ao inserir diagnóstico: %w", err)
	}
	return nil
}

func (r *DiagnosticRepository) FindByID(ctx context.Context, id string) (*entity.Diagnostic, error) {
	row := r.conn.DB.QueryRowContext(ctx, diagnosticSelect+` WHERE d.id = $1`, id)
	d, err := scanDiagnostic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDiagnosticNotFound
	}
	return d, err
}

func (r *DiagnosticRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Diagnostic, error) {
	rows, err := r.conn.DB.QueryContext(ctx, diagnosticSelect+` ORDER BY d.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar diagnósticos: %w", err)
	}
	defer rows.Close()

	list := []*entity.Diagnostic{}
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDiagnostic(s scanner) (*entity.Diagnostic, error) {
	var d entity.Diagnostic
	var input, analysis []byte
	var jc joinedClient

	dest := append([]any{&d.ID, &d.ClientID, &input, &analysis, &d.CreatedAt}, jc.dest()...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao ler diagnóstico: %w", err)
	}

	var err error
	if d.Input, err = entity.DecodeInput(input); err != nil {
		return nil, fmt.Errorf("diagnóstico %s: %w", d.ID, err)
	}
	if d.Analysis, err = entity.DecodeAnalysis(analysis); err != nil {
		return nil, fmt.Errorf("diagnóstico %s: %w", d.ID, err)
	}
	d.Client = jc.client()
	return &d, nil
}
