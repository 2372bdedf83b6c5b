package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/providers"
	redisclient "github.com/harborcare/opdflow/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// queue events reach every API instance serving dashboards
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.QueueEvent]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.QueueEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers of a channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.QueueEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Msg("published queue event")
	return nil
}

// Subscribe subscribes to events on a channel. The returned channel is
// closed when ctx is cancelled.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error) {
	b.mu.Lock()

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.QueueEvent]struct{})
	}

	eventChan := make(chan *entities.QueueEvent, 100)
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

// Unsubscribe drops all local subscribers for a channel and closes the
// underlying Redis subscription
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pubsub, exists := b.subscriptions[channel]; exists {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription: %w", err)
		}
		delete(b.subscriptions, channel)
	}

	for ch := range b.subscribers[channel] {
		close(ch)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to close subscription")
		}
	}
	b.subscriptions = make(map[string]*redis.PubSub)

	for _, subs := range b.subscribers {
		for ch := range subs {
			close(ch)
		}
	}
	b.subscribers = make(map[string]map[chan *entities.QueueEvent]struct{})
	return nil
}

// receiveMessages fans one Redis subscription out to local subscribers.
// Slow subscribers drop events rather than block the fan-out.
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		var event entities.QueueEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal queue event")
			continue
		}

		b.mu.RLock()
		for ch := range b.subscribers[channel] {
			select {
			case ch <- &event:
			default:
				log.Warn().Str("channel", channel).Msg("subscriber buffer full, dropping event")
			}
		}
		b.mu.RUnlock()
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.QueueEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, exists := b.subscribers[channel]; exists {
		if _, ok := subs[eventChan]; ok {
			delete(subs, eventChan)
			close(eventChan)
		}
	}
}
