package events

import (
	"context"
	"encoding/json"
	"errors"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisPublisher publishes events as JSON on the channel Prefix+Topic.
type RedisPublisher struct {
	Client *redis.Client
	Prefix string
}

// Notify implements Notifier.
func (p RedisPublisher) Notify(ctx context.Context, event Event) error {
	if p.Client == nil {
		return errors.New("redis publisher: client not configured")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Client.Publish(ctx, p.Channel(event.Topic), data).Err()
}

// Channel returns the pub/sub channel used for topic.
func (p RedisPublisher) Channel(topic string) string {
	return p.Prefix + topic
}

// LogNotifier writes one structured log line per event.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, event Event) error {
	n.Logger.Info().
		Str("event_id", event.ID.String()).
		Str("topic", event.Topic).
		Str("aggregate_id", event.AggregateID.String()).
		Time("occurred_at", event.OccurredAt).
		Msg("domain_event")
	return nil
}
