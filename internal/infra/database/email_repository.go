package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/autofinder/internal/entity"
)

type EmailRepository struct {
	conn *Conn
}

func NewEmailRepository(conn *Conn) *EmailRepository {
	return &EmailRepository{conn: conn}
}

func (r *EmailRepository) Create(ctx context.Context, e *entity.EmailRecord) error {
	query := `
		INSERT INTO emails_sent (id, quote_id, client_id, subject, body, recipient_email, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.conn.DB.ExecContext(ctx, query,
		e.ID,
		e.QuoteID,
		e.ClientID,
		e.Subject,
		e.Body,
		e.RecipientEmail,
		string(e.Status),
		e.SentAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir e-mail: %w", err)
	}
	return nil
}

// ListHistory devolve os últimos envios com empresa e nome do cliente.
func (r *EmailRepository) ListHistory(ctx context.Context, limit int) ([]*entity.EmailRecord, error) {
	query := `
		SELECT e.id, e.quote_id, e.client_id, e.subject, e.body, e.recipient_email, e.status, e.sent_at,
		       c.company_name, c.name
		FROM emails_sent e
		LEFT JOIN clients c ON c.id = e.client_id
		ORDER BY e.sent_at DESC
		LIMIT $1
	`
	rows, err := r.conn.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar e-mails: %w", err)
	}
	defer rows.Close()

	list := []*entity.EmailRecord{}
	for rows.Next() {
		var e entity.EmailRecord
		var status string
		var company, name sql.NullString
		if err := rows.Scan(&e.ID, &e.QuoteID, &e.ClientID, &e.Subject, &e.Body, &e.RecipientEmail, &status, &e.SentAt, &company, &name); err != nil {
			return nil, fmt.Errorf("erro ao ler e-mail: %w", err)
		}
		e.Status = entity.EmailStatus(status)
		e.CompanyName = company.String
		e.ClientName = name.String
		list = append(list, &e)
	}
	return list, rows.Err()
}
