package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultChannelPrefix = "askboard:"

// RedisBroker publishes events through Redis so every server instance
// sees them, and relays what it receives into its local Hub. Local
// subscribers are served only by the relay, so an instance sees its own
// events the same way it sees everyone else's.
type RedisBroker struct {
	client *redis.Client
	hub    *Hub
	prefix string
	logger *zap.SugaredLogger
}

func NewRedisBroker(redisURL string, hub *Hub, logger *zap.SugaredLogger) (*RedisBroker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisBrokerWithClient(client, hub, logger), nil
}

func NewRedisBrokerWithClient(client *redis.Client, hub *Hub, logger *zap.SugaredLogger) *RedisBroker {
	return &RedisBroker{
		client: client,
		hub:    hub,
		prefix: defaultChannelPrefix,
		logger: logger,
	}
}

func (b *RedisBroker) channel(questionID uint) string {
	return b.prefix + "question:" + strconv.FormatUint(uint64(questionID), 10)
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(event.QuestionID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(questionID uint) *Subscription {
	return b.hub.Subscribe(questionID)
}

func (b *RedisBroker) SubscribeAll() *Subscription {
	return b.hub.SubscribeAll()
}

// Subscribers counts this instance's local subscriptions.
func (b *RedisBroker) Subscribers() int {
	return b.hub.Subscribers()
}

// Start subscribes to every question channel and returns once Redis has
// confirmed the subscription. The relay stops when ctx is cancelled.
func (b *RedisBroker) Start(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, b.prefix+"question:*")
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to redis: %w", err)
	}

	go b.relay(ctx, pubsub)
	return nil
}

func (b *RedisBroker) relay(ctx context.Context, pubsub *redis.PubSub) {
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			event, err := b.decode(msg)
			if err != nil {
				b.logger.Warnw("discarding malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			b.hub.deliver(event)
		}
	}
}

func (b *RedisBroker) decode(msg *redis.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		return Event{}, err
	}

	// the channel name is authoritative for routing
	idPart := strings.TrimPrefix(msg.Channel, b.prefix+"question:")
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad channel %q: %w", msg.Channel, err)
	}
	event.QuestionID = uint(id)
	return event, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
