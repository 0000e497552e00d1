package database

import (
	"fmt"
	"strings"
)

// Dialect cobre as poucas diferenças de DDL entre Postgres e SQLite.
// As queries usam $n nos dois: o SQLite aceita $NNN como posicional.
type Dialect struct {
	Name      string
	SQLite    bool
	JSONType  string
	TimeType  string
	FloatType string
}

var (
	postgresDialect = Dialect{Name: "postgres", JSONType: "JSONB", TimeType: "TIMESTAMPTZ", FloatType: "DOUBLE PRECISION"}
	sqliteDialect   = Dialect{Name: "sqlite", SQLite: true, JSONType: "TEXT", TimeType: "TIMESTAMP", FloatType: "REAL"}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPgx, DriverPostgres:
		return postgresDialect, nil
	case DriverSQLite:
		return sqliteDialect, nil
	}
	return Dialect{}, fmt.Errorf("driver de banco não suportado: %q", driver)
}

func (d Dialect) ddl(stmt string) string {
	return strings.NewReplacer(
		"{{json}}", d.JSONType,
		"{{time}}", d.TimeType,
		"{{float}}", d.FloatType,
	).Replace(stmt)
}
