package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix namespaces page change channels.
const DefaultChannelPrefix = "aipages:pages"

var ErrRedisClientRequired = errors.New("notify: redis client is required")

// Redis publishes events over Redis pub/sub, one channel per business.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis notifier. An empty prefix uses DefaultChannelPrefix.
func NewRedis(client *redis.Client, prefix string) (*Redis, error) {
	if client == nil {
		return nil, ErrRedisClientRequired
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Channel returns the pub/sub channel for a business.
func (r *Redis) Channel(businessID uuid.UUID) string {
	return r.prefix + ":" + businessID.String()
}

func (r *Redis) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.Channel(event.BusinessID), payload).Err(); err != nil {
		return fmt.Errorf("publish to channel: %w", err)
	}
	return nil
}

// Subscribe confirms the subscription before returning so events published
// afterwards are not missed.
func (r *Redis) Subscribe(ctx context.Context, businessID uuid.UUID) (<-chan Event, error) {
	pubsub := r.client.Subscribe(ctx, r.Channel(businessID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to channel: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	messages := pubsub.Channel()
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()
	return out, nil
}
