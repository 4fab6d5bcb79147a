package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the supported SQL engines. Queries
// are written once with ? placeholders and rewritten per engine.
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery adapts placeholder syntax, e.g. ? to $1 for postgres
	RewriteQuery(query string) string

	// InsertIgnore turns a plain "INSERT INTO" statement into one that skips
	// rows violating a unique constraint
	InsertIgnore(query string) string

	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory under the migrations root holding
	// this engine's SQL files
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string
}

// DialectConfig carries the connection target: a file path for SQLite, a URL
// for the server engines
type DialectConfig struct {
	Path string
	URL  string
}

// pool is applied to every engine. Quiz and chat writes are short, so a
// small pool with quick idle eviction is enough.
type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

var serverPool = pool{maxOpen: 20, maxIdle: 5, maxLifetime: 30 * time.Minute, maxIdleTime: 5 * time.Minute}

func (p pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// configure applies the pool then runs each setup statement
func configure(db *sql.DB, p pool, setup ...string) error {
	p.apply(db)
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// numberPlaceholders rewrites ? to $1, $2, ... leaving quoted literals alone
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// withInsertVerb swaps the leading INSERT INTO for verb. Anything that is not
// an insert is returned untouched.
func withInsertVerb(query, verb string) string {
	const insertInto = "INSERT INTO"
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < len(insertInto) || !strings.EqualFold(trimmed[:len(insertInto)], insertInto) {
		return query
	}
	return verb + trimmed[len(insertInto):]
}
