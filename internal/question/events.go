package question

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultEventChannel = "trivia:questions"

// EventType names a committed question mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventDeleted EventType = "deleted"
)

// Event is the Pub/Sub payload emitted after a create or delete.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	QuestionID int64     `json:"question_id"`
	At         time.Time `json:"at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(typ EventType, questionID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		QuestionID: questionID,
		At:         time.Now().UTC(),
	}
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher fans question events out over Redis Pub/Sub.
type RedisPublisher struct {
	client  redisPublisher
	channel string
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher returns a publisher on channel, or the default channel when empty.
func NewRedisPublisher(client redisPublisher, channel string) *RedisPublisher {
	if channel == "" {
		channel = defaultEventChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}
