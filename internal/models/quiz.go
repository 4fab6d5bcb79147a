package models

import (
	"errors"
	"fmt"
	"time"
)

// Question is a single multiple-choice quiz question
type Question struct {
	ID            string   `json:"id" bson:"id"`
	Prompt        string   `json:"question" bson:"question"`
	Options       []string `json:"options" bson:"options"`
	CorrectOption string   `json:"correctAnswer" bson:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Validate checks the structural rules every question must satisfy:
// a prompt, at least two distinct options, and a correct option that
// matches exactly one of them.
func (q Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id is required")
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s: prompt is required", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: at least two options are required", q.ID)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			return fmt.Errorf("question %s: duplicate option %q", q.ID, opt)
		}
		seen[opt] = true
	}
	if !seen[q.CorrectOption] {
		return fmt.Errorf("question %s: correct option is not one of the options", q.ID)
	}
	return nil
}

// Score summarizes progress through a quiz session
type Score struct {
	Correct   int  `json:"correct" bson:"correct"`
	Total     int  `json:"total" bson:"total"`
	Completed bool `json:"completed" bson:"completed"`
}

// QuizSession is one attempt at a generated quiz, from topic selection to reset
type QuizSession struct {
	ID        string            `json:"id" bson:"_id"`
	Title     string            `json:"title" bson:"title"`
	Topic     string            `json:"topic" bson:"topic"`
	Questions []Question        `json:"questions" bson:"questions"`
	Answers   map[string]string `json:"answers" bson:"answers"`
	Score     Score             `json:"score" bson:"score"`
	CreatedAt time.Time         `json:"createdAt" bson:"created_at"`
	CreatedBy string            `json:"createdBy" bson:"created_by"`
}

// Question returns the question with the given id
func (s *QuizSession) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy so callers can't mutate the live session
func (s *QuizSession) Clone() *QuizSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Questions[i] = q
	}
	c.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return &c
}

// AnswerEvent records a single submitted answer
type AnswerEvent struct {
	ID         string    `json:"id" bson:"_id"`
	QuizID     string    `json:"quizId" bson:"quiz_id"`
	QuestionID string    `json:"questionId" bson:"question_id"`
	Answer     string    `json:"answer" bson:"answer"`
	IsCorrect  bool      `json:"isCorrect" bson:"is_correct"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answered_at"`
}

// QuizSummary is a persisted quiz as listed in a user's history
type QuizSummary struct {
	ID            string    `json:"id" bson:"_id"`
	Title         string    `json:"title" bson:"title"`
	Topic         string    `json:"topic" bson:"topic"`
	QuestionCount int       `json:"questionCount" bson:"question_count"`
	CorrectCount  int       `json:"correctCount" bson:"correct_count"`
	AnsweredCount int       `json:"answeredCount" bson:"answered_count"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}
