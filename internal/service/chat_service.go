package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/metrics"
	"codeforge/internal/models"
	"codeforge/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage         = errors.New("message is empty")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// Assistant texts shown to the user
const (
	WelcomeText        = "Hello! I'm your CodeForge assistant. Ask me anything about programming, algorithms, or specific coding challenges you're facing."
	AssistantErrorText = "I'm sorry, I couldn't process your request. Please try again."
)

// WelcomeMessageID identifies the synthetic greeting, which is never stored
const WelcomeMessageID = "welcome"

// ChatStore persists chat history per user
type ChatStore interface {
	SaveMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, userID string) ([]models.ChatMessage, error)
	DeleteMessages(ctx context.Context, userID string) error
}

// Responder produces the assistant's reply to a prompt
type Responder interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// ChatExchange is one user message and the assistant's answer to it
type ChatExchange struct {
	UserMessage models.ChatMessage `json:"userMessage"`
	Reply       models.ChatMessage `json:"reply"`
}

// ChatService runs assistant conversations. History is stored only for
// signed-in users; anonymous conversations live in the client.
type ChatService struct {
	store     ChatStore
	responder Responder
	log       *logger.Logger
	now       func() time.Time
}

// NewChatService creates a chat service
func NewChatService(store ChatStore, responder Responder, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{store: store, responder: responder, log: log, now: time.Now}
}

// WelcomeMessage is the greeting every conversation starts with
func (s *ChatService) WelcomeMessage() models.ChatMessage {
	return models.ChatMessage{
		ID:        WelcomeMessageID,
		Sender:    models.SenderAssistant,
		Text:      WelcomeText,
		Timestamp: s.now(),
	}
}

// History returns the user's stored conversation, or just the welcome
// message when there is none or it cannot be read
func (s *ChatService) History(ctx context.Context, userID string) []models.ChatMessage {
	welcome := []models.ChatMessage{s.WelcomeMessage()}
	if userID == "" {
		return welcome
	}

	messages, err := s.store.ListMessages(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load chat history", "user_id", userID, "error", err)
		return welcome
	}
	if len(messages) == 0 {
		return welcome
	}
	return messages
}

// SendMessage records text from the user and asks the assistant for a reply.
// When the assistant fails the reply carries an apology and the error wraps
// ErrAssistantUnavailable; the exchange is still returned.
func (s *ChatService) SendMessage(ctx context.Context, userID, text string) (*ChatExchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if err := validation.ValidateMessage(text); err != nil {
		return nil, err
	}

	exchange := &ChatExchange{
		UserMessage: s.newMessage(userID, models.SenderUser, text),
	}
	s.save(ctx, &exchange.UserMessage)

	reply, err := s.responder.Reply(ctx, text)
	if err != nil {
		s.log.Warn("Assistant failed to reply", "user_id", userID, "error", err)
		exchange.Reply = s.newMessage(userID, models.SenderAssistant, AssistantErrorText)
		metrics.ChatMessages.WithLabelValues("error").Inc()
		return exchange, errors.Join(ErrAssistantUnavailable, err)
	}

	exchange.Reply = s.newMessage(userID, models.SenderAssistant, reply)
	s.save(ctx, &exchange.Reply)
	return exchange, nil
}

// Clear deletes the user's stored history and returns the fresh greeting
func (s *ChatService) Clear(ctx context.Context, userID string) (models.ChatMessage, error) {
	if userID != "" {
		if err := s.store.DeleteMessages(ctx, userID); err != nil {
			return models.ChatMessage{}, err
		}
	}
	return s.WelcomeMessage(), nil
}

func (s *ChatService) newMessage(userID, sender, text string) models.ChatMessage {
	metrics.ChatMessages.WithLabelValues(sender).Inc()
	return models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
	}
}

// save stores msg for signed-in users. Failures are logged, not returned.
func (s *ChatService) save(ctx context.Context, msg *models.ChatMessage) {
	if msg.UserID == "" {
		return
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		metrics.PersistenceFailures.WithLabelValues("save_chat_message").Inc()
		s.log.Error("Best-effort persistence failed", "operation", "save_chat_message", "user_id", msg.UserID, "error", err)
	}
}
