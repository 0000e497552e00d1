package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx"
	_ "github.com/lib/pq"              // driver "postgres"
	_ "modernc.org/sqlite"             // driver "sqlite"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Conn junta o pool e o dialeto usado para montar as queries.
type Conn struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(ctx context.Context, driver, dsn string) (*Conn, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco: %w", err)
	}

	if dialect.SQLite {
		// memória compartilhada só existe dentro de uma conexão
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("banco não respondeu: %w", err)
	}

	return &Conn{DB: db, Dialect: dialect}, nil
}

func (c *Conn) Close() error {
	return c.DB.Close()
}

// Ping usado pelo health check
func (c *Conn) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
