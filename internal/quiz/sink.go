package quiz

import (
	"context"
	"errors"

	"codeforge/internal/models"

	"golang.org/x/sync/errgroup"
)

// QuestionSource produces the ordered question set for a topic
type QuestionSource interface {
	Generate(ctx context.Context, topic string) ([]models.Question, error)
}

// PersistenceSink receives best-effort writes of quizzes and answer events.
// Implementations must be safe for concurrent use.
type PersistenceSink interface {
	SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error
	SaveAnswer(ctx context.Context, userID string, event *models.AnswerEvent) error
}

// NopSink discards every write
type NopSink struct{}

func (NopSink) SaveQuiz(context.Context, string, *models.QuizSession) error  { return nil }
func (NopSink) SaveAnswer(context.Context, string, *models.AnswerEvent) error { return nil }

// FanoutSink writes to every sink concurrently. One failing sink never
// prevents the others from being written; all failures are joined.
type FanoutSink []PersistenceSink

func (f FanoutSink) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	return f.each(func(s PersistenceSink) error {
		return s.SaveQuiz(ctx, userID, session)
	})
}

func (f FanoutSink) SaveAnswer(ctx context.Context, userID string, event *models.AnswerEvent) error {
	return f.each(func(s PersistenceSink) error {
		return s.SaveAnswer(ctx, userID, event)
	})
}

// each runs write against every sink. The group reports whether anything
// failed; errs keeps every failure, not just the first.
func (f FanoutSink) each(write func(PersistenceSink) error) error {
	errs := make([]error, len(f))
	var g errgroup.Group
	for i, sink := range f {
		g.Go(func() error {
			errs[i] = write(sink)
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}
