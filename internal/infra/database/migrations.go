package database

import (
	"context"
	"fmt"
)

const SchemaVersion = 1

var schemaV1 = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		industry     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'lead',
		created_at   {{time}} NOT NULL
	)`,
	// um cliente por e-mail; vazio fica fora do índice
	`CREATE UNIQUE INDEX IF NOT EXISTS clients_email_unique ON clients (LOWER(email)) WHERE email <> ''`,
	`CREATE INDEX IF NOT EXISTS clients_company_idx ON clients (LOWER(company_name))`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		id              TEXT PRIMARY KEY,
		client_id       TEXT NOT NULL REFERENCES clients (id),
		wizard_data     {{json}} NOT NULL,
		analysis_result {{json}} NOT NULL,
		created_at      {{time}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS diagnostics_created_idx ON diagnostics (created_at)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id               TEXT PRIMARY KEY,
		diagnostic_id    TEXT NOT NULL REFERENCES diagnostics (id),
		status           TEXT NOT NULL DEFAULT 'pending',
		items            {{json}} NOT NULL,
		total_investment {{float}} NOT NULL DEFAULT 0,
		monthly_retainer {{float}} NOT NULL DEFAULT 0,
		public_token     TEXT NOT NULL UNIQUE,
		created_at       {{time}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS emails_sent (
		id              TEXT PRIMARY KEY,
		quote_id        TEXT NOT NULL REFERENCES quotes (id),
		client_id       TEXT NOT NULL REFERENCES clients (id),
		subject         TEXT NOT NULL,
		body            TEXT NOT NULL,
		recipient_email TEXT NOT NULL,
		status          TEXT NOT NULL,
		sent_at         {{time}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS emails_quote_idx ON emails_sent (quote_id)`,
}

// Migrate cria o schema se necessário. Banco com versão maior que a do binário é recusado.
func Migrate(ctx context.Context, c *Conn) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schemaV1 {
		if _, err := tx.ExecContext(ctx, c.Dialect.ddl(stmt)); err != nil {
			return fmt.Errorf("migration falhou: %w", err)
		}
	}

	var current int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("erro ao ler schema_version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("schema do banco (v%d) é mais novo que o suportado (v%d)", current, SchemaVersion)
	}
	if current < SchemaVersion {
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, SchemaVersion); err != nil {
			return fmt.Errorf("erro ao gravar schema_version: %w", err)
		}
	}

	return tx.Commit()
}
