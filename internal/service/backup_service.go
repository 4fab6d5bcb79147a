package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"codeforge/internal/database"
	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string       `json:"version"`
	ExportedAt   time.Time    `json:"exported_at"`
	DatabaseType string       `json:"database_type"`
	Users        []UserBackup `json:"users"`
	Quizzes      []QuizBackup `json:"quizzes"`
	Messages     []ChatBackup `json:"chat_messages"`
}

// UserBackup represents a user record for backup. Unlike models.User it
// carries the password hash.
type UserBackup struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuizBackup is a persisted quiz with its answer events
type QuizBackup struct {
	UserID  string               `json:"user_id"`
	Quiz    models.QuizSession   `json:"quiz"`
	Answers []models.AnswerEvent `json:"answers"`
}

// ChatBackup is a stored chat message with its owner
type ChatBackup struct {
	UserID  string             `json:"user_id"`
	Message models.ChatMessage `json:"message"`
}

// ImportStats counts the records a restore read
type ImportStats struct {
	Users    int
	Quizzes  int
	Answers  int
	Messages int
}

// backupTables lists every data table in reverse order of dependencies
var backupTables = []string{
	"chat_messages",
	"quiz_answers",
	"quizzes",
	"sessions",
	"users",
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db      *database.DB
	users   *repository.UserRepository
	quizzes *repository.QuizRepository
	chats   *repository.ChatRepository
	log     *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *logger.Logger) *BackupService {
	if log == nil {
		log = logger.Nop()
	}
	return &BackupService{
		db:      db,
		users:   repository.NewUserRepository(db),
		quizzes: repository.NewQuizRepository(db),
		chats:   repository.NewChatRepository(db),
		log:     log,
	}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.log.Info("Database exported", "path", outputPath)
	return nil
}

// ExportToWriter writes the whole database to w as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.collect(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("Export complete",
		"users", len(backup.Users),
		"quizzes", len(backup.Quizzes),
		"chat_messages", len(backup.Messages))
	return nil
}

func (s *BackupService) collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: "universal",
		Users:        []UserBackup{},
		Quizzes:      []QuizBackup{},
		Messages:     []ChatBackup{},
	}

	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}

	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})

		quizzes, err := s.quizzes.GetQuizzes(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export quizzes of user %s: %w", u.ID, err)
		}
		for _, q := range quizzes {
			answers, err := s.quizzes.ListAnswers(ctx, q.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to export answers of quiz %s: %w", q.ID, err)
			}
			backup.Quizzes = append(backup.Quizzes, QuizBackup{UserID: u.ID, Quiz: q, Answers: answers})
		}

		messages, err := s.chats.ListMessages(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export chat of user %s: %w", u.ID, err)
		}
		for _, m := range messages {
			backup.Messages = append(backup.Messages, ChatBackup{UserID: u.ID, Message: m})
		}
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (*ImportStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup read from r. Records that already
// exist are skipped, so importing the same backup twice is harmless.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) (*ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info("Importing backup", "version", backup.Version, "exported_at", backup.ExportedAt)

	stats := &ImportStats{}
	for _, u := range backup.Users {
		user := &models.User{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		}
		if _, err := s.users.ImportUser(ctx, user); err != nil {
			return stats, fmt.Errorf("failed to import user %s: %w", u.ID, err)
		}
		stats.Users++
	}

	for i := range backup.Quizzes {
		q := &backup.Quizzes[i]
		if err := s.quizzes.SaveQuiz(ctx, q.UserID, &q.Quiz); err != nil {
			return stats, fmt.Errorf("failed to import quiz %s: %w", q.Quiz.ID, err)
		}
		stats.Quizzes++
		for j := range q.Answers {
			if err := s.quizzes.SaveAnswer(ctx, q.UserID, &q.Answers[j]); err != nil {
				return stats, fmt.Errorf("failed to import answer %s: %w", q.Answers[j].ID, err)
			}
			stats.Answers++
		}
	}

	for i := range backup.Messages {
		m := &backup.Messages[i]
		m.Message.UserID = m.UserID
		if err := s.chats.SaveMessage(ctx, &m.Message); err != nil {
			return stats, fmt.Errorf("failed to import chat message %s: %w", m.Message.ID, err)
		}
		stats.Messages++
	}

	s.log.Info("Import complete",
		"users", stats.Users,
		"quizzes", stats.Quizzes,
		"answers", stats.Answers,
		"chat_messages", stats.Messages)
	return stats, nil
}

// Clear deletes every row from every data table in one transaction
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range backupTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
			s.log.Info("Cleared table", "table", table)
		}
		return nil
	})
}
