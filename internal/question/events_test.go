package question

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisPublisherEncodesEvent(t *testing.T) {
	client := new(mockRedis)
	var payload []byte
	client.On("Publish", mock.Anything, "trivia:questions", mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(2).([]byte) }).
		Return(redis.NewIntResult(1, nil))

	pub := NewRedisPublisher(client, "")
	evt := NewEvent(EventCreated, 42)
	require.NoError(t, pub.Publish(context.Background(), evt))
	client.AssertExpectations(t)

	var decoded Event
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, EventCreated, decoded.Type)
	assert.Equal(t, int64(42), decoded.QuestionID)
}

func TestRedisPublisherCustomChannelAndFailure(t *testing.T) {
	client := new(mockRedis)
	client.On("Publish", mock.Anything, "custom", mock.Anything).
		Return(redis.NewIntResult(0, errors.New("connection refused")))

	err := NewRedisPublisher(client, "custom").Publish(context.Background(), NewEvent(EventDeleted, 1))
	assert.ErrorContains(t, err, "publish custom")
	client.AssertExpectations(t)
}

func TestNewEventStampsIdentity(t *testing.T) {
	a := NewEvent(EventDeleted, 3)
	b := NewEvent(EventDeleted, 3)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.At.IsZero())
}
