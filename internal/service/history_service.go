package service

import (
	"context"
	"fmt"

	"codeforge/internal/models"
)

// HistoryStore reads a user's persisted quizzes
type HistoryStore interface {
	ListQuizzes(ctx context.Context, userID string) ([]models.QuizSummary, error)
	CountQuizzes(ctx context.Context, userID string) (int, error)
}

// DashboardSummary is the headline shown on a user's dashboard
type DashboardSummary struct {
	QuizCount int    `json:"quizCount"`
	Message   string `json:"message"`
}

// HistoryService exposes past quizzes
type HistoryService struct {
	store HistoryStore
}

// NewHistoryService creates a history service
func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// ListQuizzes returns the user's quizzes, newest first
func (s *HistoryService) ListQuizzes(ctx context.Context, userID string) ([]models.QuizSummary, error) {
	quizzes, err := s.store.ListQuizzes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []models.QuizSummary{}
	}
	return quizzes, nil
}

// CountQuizzes returns how many quizzes the user has taken
func (s *HistoryService) CountQuizzes(ctx context.Context, userID string) (int, error) {
	n, err := s.store.CountQuizzes(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return n, nil
}

// Summary builds the dashboard headline
func (s *HistoryService) Summary(ctx context.Context, userID string) (*DashboardSummary, error) {
	n, err := s.CountQuizzes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{
		QuizCount: n,
		Message:   fmt.Sprintf("You've completed %d quizzes.", n),
	}, nil
}
