package database

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect targets MySQL 8 through go-sql-driver
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect { return &MySQLDialect{} }

func (*MySQLDialect) DriverName() string       { return "mysql" }
func (*MySQLDialect) MigrationsSubdir() string { return "mysql" }

// DSN forces parseTime so DATETIME columns scan into time.Time. A URL the
// driver cannot parse is passed through for sql.Open to reject.
func (*MySQLDialect) DSN(config DialectConfig) string {
	cfg, err := mysql.ParseDSN(config.URL)
	if err != nil {
		return config.URL
	}
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func (*MySQLDialect) RewriteQuery(query string) string { return query }

func (*MySQLDialect) InsertIgnore(query string) string {
	return withInsertVerb(query, "INSERT IGNORE INTO")
}

func (*MySQLDialect) ConfigureConnection(db *sql.DB) error {
	return configure(db, serverPool, "SET FOREIGN_KEY_CHECKS = 1")
}

func (*MySQLDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   VARCHAR(255) PRIMARY KEY,
		applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`
}
