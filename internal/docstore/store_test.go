package docstore

import (
	"context"
	"testing"
	"time"

	"codeforge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockStore(mt *mtest.T) *Store {
	return New(mt.Client, mt.DB)
}

func TestSaveQuiz(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	session := &models.QuizSession{
		ID:        "quiz-1",
		Title:     "AI Generated Quiz on React",
		Topic:     "React",
		Questions: []models.Question{{ID: "ai-1", Prompt: "?", Options: []string{"a", "b"}, CorrectOption: "a"}},
		Answers:   map[string]string{},
		CreatedAt: time.Now(),
		CreatedBy: "u1",
	}

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := newMockStore(mt).SaveQuiz(context.Background(), "u1", session); err != nil {
			mt.Errorf("SaveQuiz() error = %v", err)
		}
	})

	mt.Run("duplicate is ignored", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		if err := newMockStore(mt).SaveQuiz(context.Background(), "u1", session); err != nil {
			mt.Errorf("SaveQuiz() duplicate error = %v", err)
		}
	})

	mt.Run("other failures surface", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Message: "shutdown in progress",
		}))
		if err := newMockStore(mt).SaveQuiz(context.Background(), "u1", session); err == nil {
			mt.Errorf("expected SaveQuiz() to fail")
		}
	})
}

func TestSaveAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		event := &models.AnswerEvent{ID: "a1", QuizID: "quiz-1", QuestionID: "ai-1", Answer: "a", IsCorrect: true, AnsweredAt: time.Now()}
		if err := newMockStore(mt).SaveAnswer(context.Background(), "u1", event); err != nil {
			mt.Errorf("SaveAnswer() error = %v", err)
		}
	})
}

func TestCountQuizzes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + quizzesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := newMockStore(mt).CountQuizzes(context.Background(), "u1")
		if err != nil {
			mt.Fatalf("CountQuizzes() error = %v", err)
		}
		if n != 3 {
			mt.Errorf("CountQuizzes() = %d, want 3", n)
		}
	})
}

func TestListQuizzes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("tallies answers", func(mt *mtest.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		quizzes := mtest.CreateCursorResponse(0, mt.DB.Name()+"."+quizzesCollection, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "quiz-1"},
				{Key: "user_id", Value: "u1"},
				{Key: "title", Value: "AI Generated Quiz on React"},
				{Key: "topic", Value: "React"},
				{Key: "questions", Value: bson.A{
					bson.D{{Key: "id", Value: "ai-1"}},
					bson.D{{Key: "id", Value: "ai-2"}},
				}},
				{Key: "created_at", Value: created},
			})
		answers := mtest.CreateCursorResponse(0, mt.DB.Name()+"."+answersCollection, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a1"}, {Key: "quiz_id", Value: "quiz-1"}, {Key: "is_correct", Value: true}},
			bson.D{{Key: "_id", Value: "a2"}, {Key: "quiz_id", Value: "quiz-1"}, {Key: "is_correct", Value: false}},
		)
		mt.AddMockResponses(quizzes, answers)

		summaries, err := newMockStore(mt).ListQuizzes(context.Background(), "u1")
		if err != nil {
			mt.Fatalf("ListQuizzes() error = %v", err)
		}
		if len(summaries) != 1 {
			mt.Fatalf("ListQuizzes() returned %d summaries, want 1", len(summaries))
		}
		got := summaries[0]
		want := models.QuizSummary{
			ID:            "quiz-1",
			Title:         "AI Generated Quiz on React",
			Topic:         "React",
			QuestionCount: 2,
			AnsweredCount: 2,
			CorrectCount:  1,
			CreatedAt:     created,
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			mt.Errorf("CreatedAt = %s, want %s", got.CreatedAt, want.CreatedAt)
		}
		got.CreatedAt = want.CreatedAt
		if got != want {
			mt.Errorf("summary = %+v, want %+v", got, want)
		}
	})

	mt.Run("no quizzes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+quizzesCollection, mtest.FirstBatch))
		summaries, err := newMockStore(mt).ListQuizzes(context.Background(), "u1")
		if err != nil || len(summaries) != 0 {
			mt.Errorf("ListQuizzes() = %+v, %v; want empty", summaries, err)
		}
	})
}

func TestListMessages(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes in order", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + messagesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "m1"}, {Key: "user_id", Value: "u1"}, {Key: "sender", Value: "user"}, {Key: "text", Value: "Hello"}},
			bson.D{{Key: "_id", Value: "m2"}, {Key: "user_id", Value: "u1"}, {Key: "sender", Value: "assistant"}, {Key: "text", Value: "Hi"}},
		))

		messages, err := newMockStore(mt).ListMessages(context.Background(), "u1")
		if err != nil {
			mt.Fatalf("ListMessages() error = %v", err)
		}
		if len(messages) != 2 || messages[0].ID != "m1" || messages[1].Sender != models.SenderAssistant {
			mt.Errorf("ListMessages() = %+v", messages)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 2}})
		if err := newMockStore(mt).DeleteMessages(context.Background(), "u1"); err != nil {
			mt.Errorf("DeleteMessages() error = %v", err)
		}
	})
}
