package docstore

import (
	"context"
	"fmt"
	"time"

	"codeforge/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	quizzesCollection  = "quizzes"
	answersCollection  = "quiz_answers"
	messagesCollection = "chat_messages"
)

// Store keeps quizzes, answers and chat history in MongoDB. It serves as
// the persistence sink, chat store and history source when STORE_BACKEND is
// "mongo".
type Store struct {
	client   *mongo.Client
	quizzes  *mongo.Collection
	answers  *mongo.Collection
	messages *mongo.Collection
}

// quizDocument is a quiz as stored, tagged with its owner
type quizDocument struct {
	UserID             string `bson:"user_id"`
	models.QuizSession `bson:",inline"`
}

type answerDocument struct {
	UserID             string `bson:"user_id"`
	models.AnswerEvent `bson:",inline"`
}

// Connect dials uri, verifies the connection and prepares indexes
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client, client.Database(database))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New wraps an existing client and database
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		quizzes:  db.Collection(quizzesCollection),
		answers:  db.Collection(answersCollection),
		messages: db.Collection(messagesCollection),
	}
}

// EnsureIndexes creates the indexes the queries rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.quizzes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create quiz indexes: %w", err)
	}

	if _, err := s.answers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "quiz_id", Value: 1}, {Key: "question_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	}); err != nil {
		return fmt.Errorf("failed to create answer indexes: %w", err)
	}

	if _, err := s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SaveQuiz stores a quiz for userID. Saving the same quiz id again is a no-op.
func (s *Store) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	doc := quizDocument{UserID: userID, QuizSession: *session}
	doc.CreatedAt = doc.CreatedAt.UTC()
	if _, err := s.quizzes.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// SaveAnswer stores an answer event. A second answer to the same question of
// the same quiz is ignored.
func (s *Store) SaveAnswer(ctx context.Context, userID string, event *models.AnswerEvent) error {
	doc := answerDocument{UserID: userID, AnswerEvent: *event}
	if _, err := s.answers.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// ListQuizzes returns the user's quizzes with answer tallies, newest first
func (s *Store) ListQuizzes(ctx context.Context, userID string) ([]models.QuizSummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.quizzes.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	var docs []quizDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode quizzes: %w", err)
	}

	summaries := make([]models.QuizSummary, 0, len(docs))
	if len(docs) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	answers, err := s.findAnswers(ctx, bson.M{"quiz_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	answered := make(map[string]int)
	correct := make(map[string]int)
	for _, a := range answers {
		answered[a.QuizID]++
		if a.IsCorrect {
			correct[a.QuizID]++
		}
	}

	for _, d := range docs {
		summaries = append(summaries, models.QuizSummary{
			ID:            d.ID,
			Title:         d.Title,
			Topic:         d.Topic,
			QuestionCount: len(d.Questions),
			AnsweredCount: answered[d.ID],
			CorrectCount:  correct[d.ID],
			CreatedAt:     d.CreatedAt,
		})
	}
	return summaries, nil
}

// CountQuizzes returns how many quizzes the user has taken
func (s *Store) CountQuizzes(ctx context.Context, userID string) (int, error) {
	n, err := s.quizzes.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return int(n), nil
}

func (s *Store) findAnswers(ctx context.Context, filter bson.M) ([]models.AnswerEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answered_at", Value: 1}})
	cur, err := s.answers.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	var docs []answerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	answers := make([]models.AnswerEvent, len(docs))
	for i, d := range docs {
		answers[i] = d.AnswerEvent
	}
	return answers, nil
}

// SaveMessage appends a message to its user's history
func (s *Store) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	doc := *msg
	doc.Timestamp = doc.Timestamp.UTC()
	if _, err := s.messages.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// ListMessages returns the user's messages in chronological order. On equal
// timestamps "user" sorts before "assistant".
func (s *Store) ListMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "sender", Value: -1}})
	cur, err := s.messages.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	var messages []models.ChatMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	return messages, nil
}

// DeleteMessages removes the user's whole history
func (s *Store) DeleteMessages(ctx context.Context, userID string) error {
	if _, err := s.messages.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}
