package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"codeforge/internal/logger"
	"codeforge/internal/models"

	"github.com/streadway/amqp"
)

// Routing keys published on the topic exchange
const (
	QuizCreated         = "quiz.created"
	QuizAnswerSubmitted = "quiz.answer_submitted"
)

// Envelope is the JSON body of every published message
type Envelope struct {
	Type       string      `json:"type"`
	UserID     string      `json:"userId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// QuizCreatedPayload describes a newly generated quiz
type QuizCreatedPayload struct {
	QuizID        string `json:"quizId"`
	Title         string `json:"title"`
	Topic         string `json:"topic"`
	QuestionCount int    `json:"questionCount"`
}

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends quiz activity to a RabbitMQ topic exchange. It satisfies
// the quiz persistence sink interface so it can sit next to the store.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       channel
	exchange string
	log      *logger.Logger
}

// NewPublisher dials amqpURL and declares a durable topic exchange
func NewPublisher(amqpURL, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{ch: ch, exchange: exchange, log: log}
}

// Publish sends payload with eventType as the routing key
func (p *Publisher) Publish(ctx context.Context, eventType, userID string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(Envelope{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	p.log.Debug("Event published", "type", eventType, "user_id", userID)
	return nil
}

// SaveQuiz publishes a quiz.created event
func (p *Publisher) SaveQuiz(ctx context.Context, userID string, session *models.QuizSession) error {
	return p.Publish(ctx, QuizCreated, userID, QuizCreatedPayload{
		QuizID:        session.ID,
		Title:         session.Title,
		Topic:         session.Topic,
		QuestionCount: len(session.Questions),
	})
}

// SaveAnswer publishes a quiz.answer_submitted event
func (p *Publisher) SaveAnswer(ctx context.Context, userID string, event *models.AnswerEvent) error {
	return p.Publish(ctx, QuizAnswerSubmitted, userID, event)
}

// Close shuts the channel and connection
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
