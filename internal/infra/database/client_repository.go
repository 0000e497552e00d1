package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
)

type ClientRepository struct {
	conn *Conn
}

func NewClientRepository(conn *Conn) *ClientRepository {
	return &ClientRepository{conn: conn}
}

const clientColumns = `id, name, email, company_name, industry, status, created_at`

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, company_name, industry, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.conn.DB.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.CompanyName,
		c.Industry,
		string(c.Status),
		c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateClient
		}
		return fmt.Errorf("erro ao inserir cliente: %w", err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	row := r.conn.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	return scanClient(row)
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	row := r.conn.DB.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE email <> '' AND LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email))
	return scanClient(row)
}

// FindByCompanyName devolve o cliente mais antigo com o mesmo nome de empresa.
func (r *ClientRepository) FindByCompanyName(ctx context.Context, companyName string) (*entity.Client, error) {
	row := r.conn.DB.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE LOWER(company_name) = LOWER($1) ORDER BY created_at LIMIT 1`,
		strings.TrimSpace(companyName))
	return scanClient(row)
}

func (r *ClientRepository) ListByName(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.conn.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY LOWER(name), created_at`)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar clientes: %w", err)
	}
	defer rows.Close()

	clients := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, company_name = $3, industry = $4, status = $5
		WHERE id = $6
	`
	res, err := r.conn.DB.ExecContext(ctx, query, c.Name, c.Email, c.CompanyName, c.Industry, string(c.Status), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateClient
		}
		return fmt.Errorf("erro ao atualizar cliente: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrClientNotFound
	}
	return nil
}

// UpdateStatusIf troca o status somente se o atual for `from`.
func (r *ClientRepository) UpdateStatusIf(ctx context.Context, id string, from, to entity.ClientStatus) (bool, error) {
	res, err := r.conn.DB.ExecContext(ctx,
		`UPDATE clients SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("erro ao atualizar status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ClientRepository) CountByStatus(ctx context.Context) (map[entity.ClientStatus]int, error) {
	rows, err := r.conn.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM clients GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("erro ao contar clientes: %w", err)
	}
	defer rows.Close()

	counts := map[entity.ClientStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[entity.ClientStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*entity.Client, error) {
	var c entity.Client
	var status string
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.CompanyName, &c.Industry, &status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler cliente: %w", err)
	}
	c.Status = entity.ClientStatus(status)
	return &c, nil
}

// joinedClient lê as colunas de um LEFT JOIN em clients (podem vir nulas).
type joinedClient struct {
	ID, Name, Email, CompanyName, Industry, Status sql.NullString
	CreatedAt                                      sql.NullTime
}

func (j *joinedClient) dest() []any {
	return []any{&j.ID, &j.Name, &j.Email, &j.CompanyName, &j.Industry, &j.Status, &j.CreatedAt}
}

func (j *joinedClient) client() *entity.Client {
	if !j.ID.Valid {
		return nil
	}
	return &entity.Client{
		ID:          j.ID.String,
		Name:        j.Name.String,
		Email:       j.Email.String,
		CompanyName: j.CompanyName.String,
		Industry:    j.Industry.String,
		Status:      entity.ClientStatus(j.Status.String),
		CreatedAt:   j.CreatedAt.Time,
	}
}
