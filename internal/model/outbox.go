package model

import (
	"time"

	"github.com/google/uuid"
)

// OutboxMessage is one event row awaiting publication to the broker.
type OutboxMessage struct {
	ID        uuid.UUID  `db:"id"`
	Topic     string     `db:"topic"`
	Payload   []byte     `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
	Sent      bool       `db:"sent"`
	SentAt    *time.Time `db:"sent_at"`
}

const EventTypeMessageSent = "message.sent"

// MessageSentEvent is the payload published to the message-events topic
// after every successful send.
type MessageSentEvent struct {
	Type       string      `json:"type"`
	Message    *MessageDTO `json:"message"`
	OccurredAt time.Time   `json:"occurredAt"`
}
