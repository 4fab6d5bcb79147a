package database

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		databaseType string
		wantDriver   string
		wantSubdir   string
		wantErr      bool
	}{
		{databaseType: "", wantDriver: "sqlite3", wantSubdir: "sqlite"},
		{databaseType: "SQLite", wantDriver: "sqlite3", wantSubdir: "sqlite"},
		{databaseType: "postgresql", wantDriver: "postgres", wantSubdir: "postgres"},
		{databaseType: "mysql", wantDriver: "mysql", wantSubdir: "mysql"},
		{databaseType: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.databaseType, func(t *testing.T) {
			dialect, err := DialectFor(tt.databaseType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DialectFor(%q) expected error", tt.databaseType)
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor(%q) error = %v", tt.databaseType, err)
			}
			if got := dialect.DriverName(); got != tt.wantDriver {
				t.Errorf("DriverName() = %v, want %v", got, tt.wantDriver)
			}
			if got := dialect.MigrationsSubdir(); got != tt.wantSubdir {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.wantSubdir)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM quizzes WHERE id = ?",
			expected: "SELECT * FROM quizzes WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM quizzes WHERE id = ?",
			expected: "SELECT * FROM quizzes WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO chat_messages (id, user_id, text) VALUES (?, ?, ?)",
			expected: "INSERT INTO chat_messages (id, user_id, text) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE users SET name = ?, email = ? WHERE id = ?",
			expected: "UPDATE users SET name = ?, email = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestInsertIgnore(t *testing.T) {
	query := "INSERT INTO quiz_answers (id, quiz_id) VALUES (?, ?)"

	tests := []struct {
		name     string
		dialect  Dialect
		expected string
	}{
		{
			name:     "SQLite",
			dialect:  NewSQLiteDialect(),
			expected: "INSERT OR IGNORE INTO quiz_answers (id, quiz_id) VALUES (?, ?)",
		},
		{
			name:     "PostgreSQL",
			dialect:  NewPostgresDialect(),
			expected: "INSERT INTO quiz_answers (id, quiz_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		},
		{
			name:     "MySQL",
			dialect:  NewMySQLDialect(),
			expected: "INSERT IGNORE INTO quiz_answers (id, quiz_id) VALUES (?, ?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.InsertIgnore(query); got != tt.expected {
				t.Errorf("InsertIgnore() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	d := NewSQLiteDialect()
	if got := d.DSN(DialectConfig{Path: "app.db"}); got != "app.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Errorf("DSN() = %q", got)
	}
	if got := d.DSN(DialectConfig{Path: "file:app.db?mode=rwc"}); got != "file:app.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000" {
		t.Errorf("DSN() with existing query = %q", got)
	}
}

func TestMySQLDSNParsesTime(t *testing.T) {
	d := NewMySQLDialect()
	got := d.DSN(DialectConfig{URL: "user:pass@tcp(localhost:3306)/codeforge"})
	if !strings.HasPrefix(got, "user:pass@tcp(localhost:3306)/codeforge?") || !strings.Contains(got, "parseTime=true") {
		t.Errorf("DSN() = %q", got)
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (id TEXT);

-- another
CREATE INDEX idx_a ON a(id);
`
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id TEXT)" {
		t.Errorf("first statement = %q", stmts[0])
	}
}

func TestNumberPlaceholdersSkipsLiterals(t *testing.T) {
	got := NewPostgresDialect().RewriteQuery("SELECT id FROM chat_messages WHERE text = 'why?' AND user_id = ?")
	want := "SELECT id FROM chat_messages WHERE text = 'why?' AND user_id = $1"
	if got != want {
		t.Errorf("RewriteQuery() = %q, want %q", got, want)
	}
}

func TestInsertIgnoreLeavesOtherStatements(t *testing.T) {
	query := "UPDATE quizzes SET score = ? WHERE id = ?"
	if got := NewSQLiteDialect().InsertIgnore(query); got != query {
		t.Errorf("InsertIgnore() = %q, want unchanged", got)
	}
	if got := NewMySQLDialect().InsertIgnore("insert into users (id) values (?)"); got != "INSERT IGNORE INTO users (id) values (?)" {
		t.Errorf("InsertIgnore() lowercase = %q", got)
	}
}
