package database

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"
)

// PostgresDialect targets PostgreSQL through lib/pq
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{} }

func (*PostgresDialect) DriverName() string              { return "postgres" }
func (*PostgresDialect) MigrationsSubdir() string        { return "postgres" }
func (*PostgresDialect) DSN(config DialectConfig) string { return config.URL }

func (*PostgresDialect) RewriteQuery(query string) string { return numberPlaceholders(query) }

func (*PostgresDialect) InsertIgnore(query string) string {
	return strings.TrimSuffix(strings.TrimSpace(query), ";") + " ON CONFLICT DO NOTHING"
}

func (*PostgresDialect) ConfigureConnection(db *sql.DB) error {
	return configure(db, serverPool)
}

func (*PostgresDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
}
