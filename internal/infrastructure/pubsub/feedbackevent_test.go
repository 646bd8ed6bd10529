package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub/internal/domain/feedback"
	vo "github.com/campushub/campushub/internal/domain/feedback/valueobjects"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/logger"
)

func newTestThread(t *testing.T) *feedback.Thread {
	t.Helper()
	th, err := feedback.NewThread(feedback.NewThreadParams{
		Title:       "Wifi issue",
		CreatedBy:   "stu-1",
		CreatorRole: vo.RoleStudent,
		TargetRole:  vo.TargetAdmin,
	})
	require.NoError(t, err)
	return th
}

func TestDecodeFeedbackEvent(t *testing.T) {
	actor := feedback.Requester{UserID: "adm-1", Role: vo.RoleAdmin}
	event := feedback.NewThreadStatusChangedEvent(newTestThread(t), actor, vo.StatusOpen.String())

	data, err := json.Marshal(FeedbackEventMessage{ThreadEvent: event, InstanceID: "instance-1"})
	require.NoError(t, err)

	msg, err := DecodeFeedbackEvent(string(data))
	require.NoError(t, err)
	assert.Equal(t, feedback.EventThreadStatusChanged, msg.EventType)
	assert.Equal(t, event.AggregateID, msg.Thread.ID)
	assert.Equal(t, "open", msg.PreviousValue)
	assert.Equal(t, "adm-1", msg.ActorID)
	assert.Equal(t, "instance-1", msg.InstanceID)

	_, err = DecodeFeedbackEvent("{not json")
	assert.Error(t, err)

	_, err = DecodeFeedbackEvent(`{"instance_id":"x"}`)
	assert.Error(t, err)
}

func TestRedisFeedbackEventBus_CanHandle(t *testing.T) {
	bus := NewRedisFeedbackEventBus(nil, "", logger.NewNopLogger())

	assert.True(t, bus.CanHandle(feedback.EventThreadCreated))
	assert.True(t, bus.CanHandle(feedback.EventThreadMigrated))
	assert.False(t, bus.CanHandle("user.created"))
	assert.NotEmpty(t, bus.InstanceID())
}

func TestRedisFeedbackEventBus_HandleIgnoresForeignEvents(t *testing.T) {
	bus := NewRedisFeedbackEventBus(nil, "", logger.NewNopLogger())

	err := bus.Handle(context.Background(), events.NewBaseEvent("x", "other.event", time.Now()))
	assert.NoError(t, err)
}

func TestRedisFeedbackEventBus_RoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	channel := "campushub:test:feedback:" + time.Now().Format("150405.000000")
	publisher := NewRedisFeedbackEventBus(client, channel, logger.NewNopLogger())
	listener := NewRedisFeedbackEventBus(client, channel, logger.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan FeedbackEventMessage, 2)
	ready := make(chan struct{})
	go func() {
		close(ready)
		_ = listener.Subscribe(ctx, true, func(_ context.Context, msg FeedbackEventMessage) {
			received <- msg
		})
	}()
	<-ready

	actor := feedback.Requester{UserID: "stu-1", Role: vo.RoleStudent}
	event := feedback.NewThreadCreatedEvent(newTestThread(t), actor)

	// the subscription may not be registered yet; publish until it is seen
	deadline := time.After(4 * time.Second)
	for {
		require.NoError(t, publisher.Handle(ctx, event))
		select {
		case msg := <-received:
			assert.Equal(t, feedback.EventThreadCreated, msg.EventType)
			assert.Equal(t, publisher.InstanceID(), msg.InstanceID)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("event was not relayed")
		}
	}
}
