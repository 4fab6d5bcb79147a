package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/models"
)

func TestRegistryGetReusesController(t *testing.T) {
	created := 0
	r := NewRegistry(func(userID string) *Controller {
		created++
		return newTestController(&fixedSource{questions: sampleQuestions(5)}, nil, userID)
	})

	a := r.Get("user:1", "1")
	b := r.Get("user:1", "1")
	if a != b {
		t.Errorf("Get returned different controllers for the same key")
	}
	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}

	anon := r.Get("anon:xyz", "")
	if anon == a {
		t.Errorf("anonymous key shares a controller with a user key")
	}
	if anon.UserID() != "" || a.UserID() != "1" {
		t.Errorf("controller user ids = %q/%q, want \"\"/1", anon.UserID(), a.UserID())
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(func(userID string) *Controller {
		return newTestController(&fixedSource{questions: sampleQuestions(5)}, nil, userID)
	})

	if _, ok := r.Lookup("missing"); ok {
		t.Errorf("Lookup found a controller that was never created")
	}
	want := r.Get("k", "")
	got, ok := r.Lookup("k")
	if !ok || got != want {
		t.Errorf("Lookup(k) = %p, %v; want %p, true", got, ok, want)
	}
}

func TestRegistryPrune(t *testing.T) {
	stale := time.Now().Add(-3 * time.Hour)
	r := NewRegistry(func(userID string) *Controller {
		c := newTestController(&fixedSource{questions: sampleQuestions(5)}, nil, userID)
		if userID == "old" {
			c.now = func() time.Time { return stale }
			c.lastUsed = stale
		}
		return c
	})

	r.Get("old", "old")
	r.Get("fresh", "fresh")

	if removed := r.Prune(time.Hour); removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, ok := r.Lookup("old"); ok {
		t.Errorf("stale controller survived Prune")
	}
	if _, ok := r.Lookup("fresh"); !ok {
		t.Errorf("fresh controller was pruned")
	}
}

func TestRegistryPruneKeepsGeneratingController(t *testing.T) {
	source := newBlockingSource(true)
	stale := time.Now().Add(-3 * time.Hour)
	r := NewRegistry(func(userID string) *Controller {
		c := newTestController(source, nil, userID)
		c.now = func() time.Time { return stale }
		return c
	})

	c := r.Get("busy", "")
	done := make(chan error, 1)
	go func() {
		_, err := c.StartQuiz(context.Background(), "React")
		done <- err
	}()
	<-source.started

	if removed := r.Prune(time.Hour); removed != 0 {
		t.Errorf("Prune() removed %d controllers with generation in flight", removed)
	}

	close(source.release)
	if err := <-done; err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}
}

// gatedSink holds quiz writes until release is closed
type gatedSink struct {
	recordingSink
	release chan struct{}
}

func (s *gatedSink) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	<-s.release
	return s.recordingSink.SaveQuiz(ctx, userID, session)
}

func TestRegistryPruneKeepsPendingWrites(t *testing.T) {
	sink := &gatedSink{release: make(chan struct{})}
	stale := time.Now().Add(-3 * time.Hour)
	r := NewRegistry(func(userID string) *Controller {
		c := NewController(&fixedSource{questions: sampleQuestions(5)}, sink, logger.Nop(), userID, Options{})
		c.now = func() time.Time { return stale }
		c.lastUsed = stale
		return c
	})

	c := r.Get("user:u1", "u1")
	if _, err := c.StartQuiz(context.Background(), "Algorithms"); err != nil {
		t.Fatalf("StartQuiz() error = %v", err)
	}

	if removed := r.Prune(time.Hour); removed != 0 {
		t.Errorf("Prune() removed %d controllers with writes pending", removed)
	}

	close(sink.release)
	r.Wait()
	if len(sink.quizzes) != 1 {
		t.Errorf("quiz writes after Wait = %d, want 1", len(sink.quizzes))
	}
	if removed := r.Prune(time.Hour); removed != 1 {
		t.Errorf("Prune() after writes finished removed %d, want 1", removed)
	}
}

func TestRegistryWaitDrainsPersistence(t *testing.T) {
	sink := &slowSink{delay: 20 * time.Millisecond}
	r := NewRegistry(func(userID string) *Controller {
		return NewController(&fixedSource{questions: sampleQuestions(5)}, sink, logger.Nop(), userID, Options{})
	})

	for _, id := range []string{"a", "b"} {
		if _, err := r.Get(id, id).StartQuiz(context.Background(), "Algorithms"); err != nil {
			t.Fatalf("StartQuiz() error = %v", err)
		}
	}
	r.Wait()

	if got := sink.count(); got != 2 {
		t.Errorf("completed writes after Wait = %d, want 2", got)
	}
}

func TestFanoutSinkWritesEverySink(t *testing.T) {
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("broker down")}
	fan := FanoutSink{failing, ok}

	session := &models.QuizSession{ID: "quiz-1"}
	err := fan.SaveQuiz(context.Background(), "u1", session)
	if err == nil {
		t.Fatalf("expected the failing sink's error to be returned")
	}
	if len(ok.quizzes) != 1 || len(failing.quizzes) != 1 {
		t.Errorf("writes = %d/%d, want 1/1", len(ok.quizzes), len(failing.quizzes))
	}

	if err := (FanoutSink{ok}).SaveAnswer(context.Background(), "u1", &models.AnswerEvent{QuizID: "quiz-1"}); err != nil {
		t.Errorf("SaveAnswer() error = %v", err)
	}
	if err := (FanoutSink{}).SaveQuiz(context.Background(), "u1", session); err != nil {
		t.Errorf("empty fanout returned %v", err)
	}
}

func TestFanoutSinkJoinsEveryFailure(t *testing.T) {
	brokerDown := errors.New("broker down")
	dbLocked := errors.New("database is locked")
	fan := FanoutSink{&recordingSink{err: brokerDown}, &recordingSink{}, &recordingSink{err: dbLocked}}

	err := fan.SaveAnswer(context.Background(), "u1", &models.AnswerEvent{QuizID: "quiz-1"})
	if !errors.Is(err, brokerDown) || !errors.Is(err, dbLocked) {
		t.Errorf("SaveAnswer() error = %v, want both sink failures", err)
	}
}

type slowSink struct {
	recordingSink
	delay time.Duration
}

func (s *slowSink) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	time.Sleep(s.delay)
	return s.recordingSink.SaveQuiz(ctx, userID, session)
}

func (s *slowSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quizzes)
}
