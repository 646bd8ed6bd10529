package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/goroutine"
	"github.com/campushub/campushub/internal/shared/logger"
)

// DefaultFeedbackChannel is used when no channel is configured.
const DefaultFeedbackChannel = "campushub:feedback:events"

// FeedbackEventMessage is the wire form of a thread event on the channel.
type FeedbackEventMessage struct {
	feedback.ThreadEvent
	InstanceID string `json:"instance_id,omitempty"` // Source instance ID to avoid self-delivery
}

// FeedbackEventHandler receives relayed events.
type FeedbackEventHandler func(ctx context.Context, msg FeedbackEventMessage)

// RedisFeedbackEventBus relays committed thread events to other instances and
// to out-of-process consumers over Redis Pub/Sub.
type RedisFeedbackEventBus struct {
	client     *redis.Client
	channel    string
	logger     logger.Interface
	instanceID string // Unique ID for this instance to avoid self-delivery
}

var _ events.EventHandler = (*RedisFeedbackEventBus)(nil)

func NewRedisFeedbackEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisFeedbackEventBus {
	if channel == "" {
		channel = DefaultFeedbackChannel
	}
	return &RedisFeedbackEventBus{
		client:     client,
		channel:    channel,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this process on the channel.
func (b *RedisFeedbackEventBus) InstanceID() string {
	return b.instanceID
}

// CanHandle accepts every thread event.
func (b *RedisFeedbackEventBus) CanHandle(eventType string) bool {
	switch eventType {
	case feedback.EventThreadCreated,
		feedback.EventThreadReplied,
		feedback.EventThreadStatusChanged,
		feedback.EventThreadPriorityChanged,
		feedback.EventThreadDeleted,
		feedback.EventThreadRestored,
		feedback.EventThreadMigrated:
		return true
	}
	return false
}

// Handle publishes a thread event received from the in-process dispatcher.
func (b *RedisFeedbackEventBus) Handle(ctx context.Context, event events.DomainEvent) error {
	te, ok := event.(feedback.ThreadEvent)
	if !ok {
		return nil
	}
	return b.Publish(ctx, te)
}

func (b *RedisFeedbackEventBus) Publish(ctx context.Context, event feedback.ThreadEvent) error {
	data, err := json.Marshal(FeedbackEventMessage{ThreadEvent: event, InstanceID: b.instanceID})
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish feedback event",
			"event_type", event.EventType,
			"thread_id", event.AggregateID,
			"error", err,
		)
		return fmt.Errorf("failed to publish feedback event: %w", err)
	}

	b.logger.Debugw("feedback event published to Redis",
		"event_type", event.EventType,
		"thread_id", event.AggregateID,
	)
	return nil
}

// Subscribe delivers events from the channel until ctx is cancelled. With
// skipOwn, events published by this instance are filtered out.
func (b *RedisFeedbackEventBus) Subscribe(ctx context.Context, skipOwn bool, handler FeedbackEventHandler) error {
	return b.subscribeWithReconnect(ctx, func(payload string) {
		msg, err := DecodeFeedbackEvent(payload)
		if err != nil {
			b.logger.Warnw("failed to unmarshal feedback event",
				"payload", payload,
				"error", err,
			)
			return
		}
		if skipOwn && msg.InstanceID == b.instanceID {
			return
		}
		handler(ctx, msg)
	})
}

// DecodeFeedbackEvent parses one channel payload.
func DecodeFeedbackEvent(payload string) (FeedbackEventMessage, error) {
	var msg FeedbackEventMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return FeedbackEventMessage{}, err
	}
	if msg.EventType == "" || msg.AggregateID == "" {
		return FeedbackEventMessage{}, fmt.Errorf("feedback event is missing type or thread id")
	}
	return msg, nil
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (b *RedisFeedbackEventBus) subscribeWithReconnect(ctx context.Context, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("feedback subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisFeedbackEventBus) subscribe(ctx context.Context, handler func(payload string)) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.logger.Infow("subscribed to feedback event channel",
		"channel", b.channel,
	)

	ch := ps.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("feedback event subscriber stopped",
				"channel", b.channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("feedback event channel closed",
					"channel", b.channel,
				)
				return nil
			}

			goroutine.SafeGo(b.logger, "feedback-event-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}
