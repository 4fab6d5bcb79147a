package quiz

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/metrics"
	"codeforge/internal/models"

	"github.com/google/uuid"
)

// Phase names the controller's position in the session lifecycle
type Phase string

const (
	PhaseAbsent           Phase = "absent"
	PhaseActiveIncomplete Phase = "active_incomplete"
	PhaseActiveComplete   Phase = "active_complete"
)

// AnonymousCreator is recorded as the quiz author when no user is bound
const AnonymousCreator = "anonymous"

// Options tunes controller timeouts. Zero values disable the timeout.
type Options struct {
	GenerationTimeout time.Duration
	PersistTimeout    time.Duration
}

// State is a point-in-time copy of a controller's observable state
type State struct {
	Phase      Phase               `json:"state"`
	Session    *models.QuizSession `json:"quiz"`
	Generating bool                `json:"isGenerating"`
}

// Score returns the session score, or the zero score when no quiz is active
func (s State) Score() models.Score {
	if s.Session == nil {
		return models.Score{}
	}
	return s.Session.Score
}

// Outcome classifies what happened to a submitted answer
type Outcome string

const (
	OutcomeRecorded        Outcome = "recorded"
	OutcomeNoActiveQuiz    Outcome = "no_active_quiz"
	OutcomeUnknownQuestion Outcome = "unknown_question"
	OutcomeAlreadyAnswered Outcome = "already_answered"
)

// AnswerResult describes a submitted answer and the score after it
type AnswerResult struct {
	Outcome   Outcome
	IsCorrect bool
	Question  models.Question
	Score     models.Score
}

// Controller owns the lifecycle of one client's quiz attempt: generating a
// question set for a topic, recording answers by question id, scoring, and
// reset. Which question is on screen is not tracked here.
type Controller struct {
	source QuestionSource
	sink   PersistenceSink
	log    *logger.Logger
	userID string
	opts   Options
	now    func() time.Time

	mu         sync.Mutex
	session    *models.QuizSession
	generating bool
	cancelGen  context.CancelFunc
	epoch      uint64
	lastUsed   time.Time

	persistWG sync.WaitGroup
	pending   atomic.Int64
}

// NewController creates a controller bound to userID. An empty userID means
// the client is anonymous and nothing is persisted.
func NewController(source QuestionSource, sink PersistenceSink, log *logger.Logger, userID string, opts Options) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		source:   source,
		sink:     sink,
		log:      log,
		userID:   userID,
		opts:     opts,
		now:      time.Now,
		lastUsed: time.Now(),
	}
}

// UserID returns the user the controller persists for
func (c *Controller) UserID() string {
	return c.userID
}

// StartQuiz asks the question source for a question set and installs a fresh
// session built from it. Only one generation may be in flight; a concurrent
// call is rejected with ErrGenerationInProgress. On failure the current
// session is left as it was and a *GenerationError is returned.
func (c *Controller) StartQuiz(ctx context.Context, topic string) (*models.QuizSession, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		metrics.QuizzesStarted.WithLabelValues("rejected").Inc()
		return nil, ErrGenerationInProgress
	}
	genCtx, cancel := c.generationContext(ctx)
	c.generating = true
	c.cancelGen = cancel
	c.lastUsed = c.now()
	startEpoch := c.epoch
	c.mu.Unlock()

	started := time.Now()
	questions, err := c.source.Generate(genCtx, topic)
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if err == nil {
		err = validateQuestions(questions)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	c.generating = false
	c.cancelGen = nil

	if err == nil && c.epoch != startEpoch {
		err = ErrResetDuringGeneration
	}
	if err != nil {
		metrics.QuizzesStarted.WithLabelValues("failure").Inc()
		c.log.Warn("Quiz generation failed", "topic", topic, "user_id", c.userID, "error", err)
		return nil, &GenerationError{Topic: topic, Err: err}
	}

	session := c.newSession(topic, questions)
	c.session = session
	metrics.QuizzesStarted.WithLabelValues("success").Inc()
	c.log.Info("Quiz started", "quiz_id", session.ID, "topic", topic, "questions", len(questions))

	c.persistQuiz(ctx, session.Clone())
	return session.Clone(), nil
}

func (c *Controller) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.GenerationTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.GenerationTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Controller) newSession(topic string, questions []models.Question) *models.QuizSession {
	createdBy := c.userID
	if createdBy == "" {
		createdBy = AnonymousCreator
	}
	qs := make([]models.Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	return &models.QuizSession{
		ID:        "quiz-" + uuid.NewString(),
		Title:     fmt.Sprintf("AI Generated Quiz on %s", topic),
		Topic:     topic,
		Questions: qs,
		Answers:   make(map[string]string),
		Score:     models.Score{Correct: 0, Total: len(qs), Completed: false},
		CreatedAt: c.now(),
		CreatedBy: createdBy,
	}
}

func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if ids[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		ids[q.ID] = true
	}
	return nil
}

// SubmitAnswer records chosen as the answer to questionID and reports whether
// it was correct. With no active quiz, an unknown question id, or a question
// that already has an answer it returns false and changes nothing.
func (c *Controller) SubmitAnswer(ctx context.Context, questionID, chosen string) bool {
	return c.Answer(ctx, questionID, chosen).IsCorrect
}

// Answer is SubmitAnswer with the full outcome, for callers that need to
// tell the no-op cases apart.
func (c *Controller) Answer(ctx context.Context, questionID, chosen string) AnswerResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.now()

	if c.session == nil {
		metrics.AnswersSubmitted.WithLabelValues("ignored").Inc()
		return AnswerResult{Outcome: OutcomeNoActiveQuiz}
	}
	question, ok := c.session.Question(questionID)
	if !ok {
		metrics.AnswersSubmitted.WithLabelValues("ignored").Inc()
		return AnswerResult{Outcome: OutcomeUnknownQuestion, Score: c.session.Score}
	}
	if _, answered := c.session.Answers[questionID]; answered {
		metrics.AnswersSubmitted.WithLabelValues("ignored").Inc()
		return AnswerResult{Outcome: OutcomeAlreadyAnswered, Question: question, Score: c.session.Score}
	}

	isCorrect := chosen == question.CorrectOption
	c.session.Answers[questionID] = chosen

	wasCompleted := c.session.Score.Completed
	c.session.Score = recount(c.session)
	if c.session.Score.Completed && !wasCompleted {
		metrics.QuizzesCompleted.Inc()
		c.log.Info("Quiz completed", "quiz_id", c.session.ID, "correct", c.session.Score.Correct, "total", c.session.Score.Total)
	}
	if isCorrect {
		metrics.AnswersSubmitted.WithLabelValues("correct").Inc()
	} else {
		metrics.AnswersSubmitted.WithLabelValues("incorrect").Inc()
	}

	c.persistAnswer(ctx, &models.AnswerEvent{
		ID:         uuid.NewString(),
		QuizID:     c.session.ID,
		QuestionID: questionID,
		Answer:     chosen,
		IsCorrect:  isCorrect,
		AnsweredAt: c.now(),
	})

	return AnswerResult{
		Outcome:   OutcomeRecorded,
		IsCorrect: isCorrect,
		Question:  question,
		Score:     c.session.Score,
	}
}

// recount derives the score from the answer map so repeated or out-of-order
// submissions can never skew it. Completed is sticky.
func recount(s *models.QuizSession) models.Score {
	correct := 0
	answered := 0
	for _, q := range s.Questions {
		a, ok := s.Answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if a == q.CorrectOption {
			correct++
		}
	}
	return models.Score{
		Correct:   correct,
		Total:     len(s.Questions),
		Completed: s.Score.Completed || answered == len(s.Questions),
	}
}

// ResetQuiz discards the current session. A generation still in flight is
// cancelled and its result dropped.
func (c *Controller) ResetQuiz() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.now()

	if c.session != nil {
		c.log.Debug("Quiz reset", "quiz_id", c.session.ID)
	}
	c.session = nil
	if c.generating {
		c.epoch++
		if c.cancelGen != nil {
			c.cancelGen()
		}
	}
}

// Snapshot returns a deep copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Phase:      PhaseAbsent,
		Session:    c.session.Clone(),
		Generating: c.generating,
	}
	if c.session != nil {
		state.Phase = PhaseActiveIncomplete
		if c.session.Score.Completed {
			state.Phase = PhaseActiveComplete
		}
	}
	return state
}

// IdleSince reports when the controller was last used and whether it is
// safe to discard: nothing generating and no write pending.
func (c *Controller) IdleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed, !c.generating && c.pending.Load() == 0
}

// Wait blocks until all in-flight persistence writes have finished
func (c *Controller) Wait() {
	c.persistWG.Wait()
}

func (c *Controller) persistQuiz(ctx context.Context, session *models.QuizSession) {
	if c.userID == "" {
		return
	}
	c.persist(ctx, "save_quiz", func(ctx context.Context) error {
		return c.sink.SaveQuiz(ctx, c.userID, session)
	})
}

func (c *Controller) persistAnswer(ctx context.Context, event *models.AnswerEvent) {
	if c.userID == "" {
		return
	}
	c.persist(ctx, "save_answer", func(ctx context.Context) error {
		return c.sink.SaveAnswer(ctx, c.userID, event)
	})
}

// persist runs write in the background. Failures are logged and counted,
// never returned: in-memory state is already final.
func (c *Controller) persist(ctx context.Context, op string, write func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	c.persistWG.Add(1)
	c.pending.Add(1)
	go func() {
		defer c.persistWG.Done()
		defer c.pending.Add(-1)
		if c.opts.PersistTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.opts.PersistTimeout)
			defer cancel()
		}
		if err := write(ctx); err != nil {
			metrics.PersistenceFailures.WithLabelValues(op).Inc()
			c.log.Error("Best-effort persistence failed", "operation", op, "user_id", c.userID, "error", err)
		}
	}()
}
