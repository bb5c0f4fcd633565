package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher fans out chat messages to live subscribers
type Publisher interface {
	PublishChat(ctx context.Context, bookingID string, payload interface{}) error
}

// RedisPublisher publishes chat messages on a per-booking Redis channel
// (booking:<id>). Subscribers are the websocket edges that hold open
// connections for that booking's participants.
type RedisPublisher struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisPublisher creates a Redis-backed publisher
func NewRedisPublisher(addr, password string, db int, logger *logrus.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPublisher{client: client, logger: logger}, nil
}

// PublishChat publishes a chat payload on the booking's channel
func (p *RedisPublisher) PublishChat(ctx context.Context, bookingID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal chat payload: %w", err)
	}

	channel := "booking:" + bookingID
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish chat message: %w", err)
	}

	p.logger.WithField("channel", channel).Debug("Chat message published")
	return nil
}

// Close releases the underlying Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher logs messages instead of publishing them. Used when no
// Redis address is configured.
type LogPublisher struct {
	logger *logrus.Logger
}

// NewLogPublisher creates a publisher that only logs
func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishChat logs the payload without delivering it
func (p *LogPublisher) PublishChat(_ context.Context, bookingID string, _ interface{}) error {
	p.logger.WithField("booking_id", bookingID).Debug("Chat publish skipped (no redis configured)")
	return nil
}
