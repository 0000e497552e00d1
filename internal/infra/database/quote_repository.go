package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/autofinder/internal/entity"
)

type QuoteRepository struct {
	conn *Conn
}

func NewQuoteRepository(conn *Conn) *QuoteRepository {
	return &QuoteRepository{conn: conn}
}

const quoteSelect = `
	SELECT q.id, q.diagnostic_id, q.status, q.items, q.total_investment, q.monthly_retainer, q.public_token, q.created_at,
	       d.id, d.client_id, d.wizard_data, d.analysis_result, d.created_at,
	       c.id, c.name, c.email, c.company_name, c.industry, c.status, c.created_at
	FROM quotes q
	JOIN diagnostics d ON d.id = q.diagnostic_id
	LEFT JOIN clients c ON c.id = d.client_id
`

// Create gera o token público no insert; a cotação volta com PublicToken preenchido.
func (r *QuoteRepository) Create(ctx context.Context, q *entity.Quote) error {
	items, err := entity.EncodeItems(q.Items)
	if err != nil {
		return err
	}
	token := newPublicToken()

	query := `
		INSERT INTO quotes (id, diagnostic_id, status, items, total_investment, monthly_retainer, public_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.conn.DB.ExecContext(ctx, query,
		q.ID,
		q.DiagnosticID,
		string(q.Status),
		string(items),
		q.TotalInvestment,
		q.MonthlyRetainer,
		token,
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir cotação: %w", err)
	}

	q.PublicToken = token
	return nil
}

func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.findOne(ctx, quoteSelect+` WHERE q.id = $1`, id)
}

func (r *QuoteRepository) FindByPublicToken(ctx context.Context, token string) (*entity.Quote, error) {
	return r.findOne(ctx, quoteSelect+` WHERE q.public_token = $1`, token)
}

func (r *QuoteRepository) ListWithClients(ctx context.Context) ([]*entity.Quote, error) {
	return r.list(ctx, quoteSelect+` ORDER BY q.created_at DESC`)
}

// ListAwaitingEmail: pendentes, criadas antes de `before` e sem nenhum e-mail enviado.
func (r *QuoteRepository) ListAwaitingEmail(ctx context.Context, before time.Time) ([]*entity.Quote, error) {
	return r.list(ctx, quoteSelect+`
		WHERE q.status = 'pending'
		  AND q.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM emails_sent e WHERE e.quote_id = q.id AND e.status = 'sent')
		ORDER BY q.created_at`, before.UTC())
}

func (r *QuoteRepository) findOne(ctx context.Context, query string, arg any) (*entity.Quote, error) {
	q, err := scanQuote(r.conn.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrQuoteNotFound
	}
	return q, err
}

func (r *QuoteRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Quote, error) {
	rows, err := r.conn.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar cotações: %w", err)
	}
	defer rows.Close()

	list := []*entity.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanQuote(s scanner) (*entity.Quote, error) {
	var q entity.Quote
	var d entity.Diagnostic
	var status string
	var items, input, analysis []byte
	var jc joinedClient

	dest := []any{
		&q.ID, &q.DiagnosticID, &status, &items, &q.TotalInvestment, &q.MonthlyRetainer, &q.PublicToken, &q.CreatedAt,
		&d.ID, &d.ClientID, &input, &analysis, &d.CreatedAt,
	}
	if err := s.Scan(append(dest, jc.dest()...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao ler cotação: %w", err)
	}

	var err error
	q.Status = entity.QuoteStatus(status)
	if q.Items, err = entity.DecodeItems(items); err != nil {
		return nil, fmt.Errorf("cotação %s: %w", q.ID, err)
	}
	if d.Input, err = entity.DecodeInput(input); err != nil {
		return nil, fmt.Errorf("diagnóstico %s: %w", d.ID, err)
	}
	if d.Analysis, err = entity.DecodeAnalysis(analysis); err != nil {
		return nil, fmt.Errorf("diagnóstico %s: %w", d.ID, err)
	}
	d.Client = jc.client()
	q.Diagnostic = &d
	return &q, nil
}

// 122 bits aleatórios, sem hífens
func newPublicToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
