package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the publisher uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisPublisher publishes events on Redis pub/sub channels named
// "<prefix>.<routing key>".
type RedisPublisher struct {
	client redisClient
	prefix string
	logger *slog.Logger
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, url, prefix string, logger *slog.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	p := newRedisPublisher(client, prefix, logger)
	p.logger.Info("Redis publisher connected", "prefix", prefix)
	return p, nil
}

func newRedisPublisher(client redisClient, prefix string, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the pub/sub channel for a routing key.
func (p *RedisPublisher) Channel(routingKey string) string {
	if p.prefix == "" {
		return routingKey
	}
	return p.prefix + "." + routingKey
}

// Publish sends the payload on the routing key's channel.
func (p *RedisPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	channel := p.Channel(routingKey)

	receivers, err := p.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish message",
			"channel", channel,
			"error", err,
		)
		return err
	}

	p.logger.DebugContext(ctx, "message published",
		"channel", channel,
		"size", len(payload),
		"receivers", receivers,
	)
	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (p *RedisPublisher) Close() error {
	if err := p.client.Close(); err != nil {
		return err
	}
	p.logger.Info("Redis publisher closed")
	return nil
}
