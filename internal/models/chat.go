package models

import "time"

// Chat message senders
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage is one turn in a conversation with the assistant
type ChatMessage struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"-" bson:"user_id"`
	Sender    string    `json:"sender" bson:"sender"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
