// Package notify bridges question lifecycle events to Redis pub/sub so
// operator consoles learn of new pending questions without polling the store.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/events"
)

const publishTimeout = 5 * time.Second

// payload is the message published to Redis for cross-instance broadcast.
type payload struct {
	Event      string      `json:"event"`
	QuestionID int64       `json:"question_id,omitempty"`
	Data       interface{} `json:"data"`
	At         int64       `json:"at"`
}

// RedisNotifier publishes question events on a single Redis channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates the notifier.
func NewRedisNotifier(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// RegisterHandlers subscribes the notifier to queue-relevant events.
func (n *RedisNotifier) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventQuestionEscalated, n.handleEvent)
	dispatcher.Subscribe(events.EventQuestionResolved, n.handleEvent)
	dispatcher.Subscribe(events.EventFAQImported, n.handleEvent)
}

func (n *RedisNotifier) handleEvent(_ context.Context, event events.Event) error {
	if n.client == nil {
		return nil
	}
	body, err := json.Marshal(payload{
		Event:      string(event.Type),
		QuestionID: event.QuestionID,
		Data:       event.Payload,
		At:         event.Timestamp.Unix(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		n.logger.Warn("redis publish failed",
			zap.String("event", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

// Subscribe listens on the notification channel and calls handler for each
// message. Returns a cancel function to stop the subscription.
func (n *RedisNotifier) Subscribe(handler func(event string, questionID int64)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err = pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var p payload
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					continue
				}
				handler(p.Event, p.QuestionID)
			}
		}
	}()
	return func() { cancelCtx() }, nil
}
