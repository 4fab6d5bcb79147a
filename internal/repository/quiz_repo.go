package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"codeforge/internal/database"
	"codeforge/internal/models"
)

// QuizRepository stores generated quizzes and the answers submitted to them
type QuizRepository struct {
	db *database.DB
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db *database.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// SaveQuiz stores a quiz for userID. Saving the same quiz id again is a no-op.
func (r *QuizRepository) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	query := r.db.Dialect.InsertIgnore(`
		INSERT INTO quizzes (id, user_id, title, topic, questions, question_count, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		session.ID, userID, session.Title, session.Topic, string(questions),
		len(session.Questions), session.CreatedBy, session.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// SaveAnswer stores one answer event. A second answer to the same question
// of the same quiz is ignored.
func (r *QuizRepository) SaveAnswer(ctx context.Context, userID string, event *models.AnswerEvent) error {
	query := r.db.Dialect.InsertIgnore(`
		INSERT INTO quiz_answers (id, quiz_id, user_id, question_id, answer, is_correct, answered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.QuizID, userID, event.QuestionID, event.Answer, event.IsCorrect, event.AnsweredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// ListQuizzes returns the user's quizzes with answer tallies, newest first
func (r *QuizRepository) ListQuizzes(ctx context.Context, userID string) ([]models.QuizSummary, error) {
	query := `
		SELECT q.id, q.title, q.topic, q.question_count, q.created_at,
			COUNT(a.id),
			COALESCE(SUM(CASE WHEN a.is_correct THEN 1 ELSE 0 END), 0)
		FROM quizzes q
		LEFT JOIN quiz_answers a ON a.quiz_id = q.id
		WHERE q.user_id = ?
		GROUP BY q.id, q.title, q.topic, q.question_count, q.created_at
		ORDER BY q.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	summaries := []models.QuizSummary{}
	for rows.Next() {
		var s models.QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Topic, &s.QuestionCount, &s.CreatedAt, &s.AnsweredCount, &s.CorrectCount); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CountQuizzes returns how many quizzes the user has taken
func (r *QuizRepository) CountQuizzes(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quizzes WHERE user_id = ?", userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}

// GetQuizzes loads the user's full quizzes, answers included, oldest first
func (r *QuizRepository) GetQuizzes(ctx context.Context, userID string) ([]models.QuizSession, error) {
	query := `
		SELECT id, title, topic, questions, created_by, created_at
		FROM quizzes
		WHERE user_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var sessions []models.QuizSession
	for rows.Next() {
		var s models.QuizSession
		var questions string
		if err := rows.Scan(&s.ID, &s.Title, &s.Topic, &questions, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions of quiz %s: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		answers, err := r.ListAnswers(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Answers = make(map[string]string, len(answers))
		correct := 0
		for _, a := range answers {
			sessions[i].Answers[a.QuestionID] = a.Answer
			if a.IsCorrect {
				correct++
			}
		}
		sessions[i].Score = models.Score{
			Correct:   correct,
			Total:     len(sessions[i].Questions),
			Completed: len(answers) >= len(sessions[i].Questions),
		}
	}
	return sessions, nil
}

// ListAnswers returns the answer events of a quiz in submission order
func (r *QuizRepository) ListAnswers(ctx context.Context, quizID string) ([]models.AnswerEvent, error) {
	query := `
		SELECT id, quiz_id, question_id, answer, is_correct, answered_at
		FROM quiz_answers
		WHERE quiz_id = ?
		ORDER BY answered_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var answers []models.AnswerEvent
	for rows.Next() {
		var a models.AnswerEvent
		if err := rows.Scan(&a.ID, &a.QuizID, &a.QuestionID, &a.Answer, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
