package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const migrationsDir = "../../migrations"

func openMigratedDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "codeforge.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(context.Background(), migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestMigrationsCreateTables(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()

	tables := []string{"users", "sessions", "quizzes", "quiz_answers", "chat_messages", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openMigratedDB(t)

	applied, err := db.RunMigrations(context.Background(), migrationsDir)
	if err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second run applied %v, want nothing", applied)
	}
}

func TestRunMigrationsMissingDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db, err := Initialize(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if _, err := db.RunMigrations(context.Background(), t.TempDir()); err == nil {
		t.Errorf("expected an error when no migration files exist")
	}
}

func TestWithTx(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(tx *Tx, id, email string) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, email, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, email, "hash", "Test", now, now)
		return err
	}

	if err := db.WithTx(ctx, func(tx *Tx) error { return insert(tx, "u1", "one@example.com") }); err != nil {
		t.Fatalf("committed WithTx() error = %v", err)
	}

	// Duplicate email fails the second insert, so the first must roll back too.
	err := db.WithTx(ctx, func(tx *Tx) error {
		if err := insert(tx, "u2", "two@example.com"); err != nil {
			return err
		}
		return insert(tx, "u3", "one@example.com")
	})
	if err == nil {
		t.Fatalf("expected unique constraint failure")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("users after rollback = %d, want 1", count)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openMigratedDB(t)

	_, err := db.ExecContext(context.Background(),
		"INSERT INTO chat_messages (id, user_id, sender, text, created_at) VALUES (?, ?, ?, ?, ?)",
		"m1", "no-such-user", "user", "hello", time.Now().UTC())
	if err == nil {
		t.Errorf("expected foreign key violation for unknown user")
	}
}

func TestConcurrentAccess(t *testing.T) {
	db := openMigratedDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		"concurrent", "concurrent@example.com", "hash", "Concurrent", now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var name string
			err := db.QueryRowContext(ctx, "SELECT name FROM users WHERE email = ?", "concurrent@example.com").Scan(&name)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if name != "Concurrent" {
				t.Errorf("Expected name 'Concurrent', got '%s'", name)
			}
		}()
	}
	wg.Wait()
}
