package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect is the default engine, used for local runs and tests
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect { return &SQLiteDialect{} }

func (*SQLiteDialect) DriverName() string       { return "sqlite3" }
func (*SQLiteDialect) MigrationsSubdir() string { return "sqlite" }

// DSN turns on foreign keys and a busy timeout for every pooled connection;
// both are per-connection settings in SQLite.
func (*SQLiteDialect) DSN(config DialectConfig) string {
	const params = "_foreign_keys=on&_busy_timeout=5000"
	if strings.Contains(config.Path, "?") {
		return config.Path + "&" + params
	}
	return config.Path + "?" + params
}

func (*SQLiteDialect) RewriteQuery(query string) string { return query }

func (*SQLiteDialect) InsertIgnore(query string) string {
	return withInsertVerb(query, "INSERT OR IGNORE INTO")
}

// ConfigureConnection keeps the pool narrow since SQLite serializes writers
func (*SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	p := pool{maxOpen: 8, maxIdle: 4, maxLifetime: time.Hour, maxIdleTime: 10 * time.Minute}
	return configure(db, p, "PRAGMA journal_mode=WAL")
}

func (*SQLiteDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}
