package repository

import (
	"context"
	"fmt"

	"codeforge/internal/database"
	"codeforge/internal/models"
)

// ChatRepository stores assistant conversations
type ChatRepository struct {
	db *database.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *database.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// SaveMessage appends a message to its user's history. Re-saving a message
// id is a no-op.
func (r *ChatRepository) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := r.db.Dialect.InsertIgnore(`
		INSERT INTO chat_messages (id, user_id, sender, text, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, msg.ID, msg.UserID, msg.Sender, msg.Text, msg.Timestamp.UTC()); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// ListMessages returns the user's messages in chronological order. A user
// message sorts before a reply carrying the same timestamp.
func (r *ChatRepository) ListMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	query := `
		SELECT id, user_id, sender, text, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY created_at ASC, CASE WHEN sender = 'user' THEN 0 ELSE 1 END ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessages removes the user's whole history
func (r *ChatRepository) DeleteMessages(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chat_messages WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}
