package events

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	AccountRegistered Type = "account.registered"
	MessageCreated    Type = "message.created"
	MessageUpdated    Type = "message.updated"
	MessageDeleted    Type = "message.deleted"
)

// Event is a domain change emitted after a successful write. ID is unique per
// event so consumers can drop redeliveries. Key identifies the affected entity
// and is used for partitioning where the transport has it.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func New(t Type, id int, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        strconv.Itoa(id),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher interface for messaging (NATS/Kafka)
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }
