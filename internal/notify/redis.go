package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/estatehub/internal/logger"
	"github.com/stwalsh4118/estatehub/internal/models"
)

const (
	// DefaultChannelPrefix prefixes every per-recipient channel.
	DefaultChannelPrefix = "estatehub:notifications"
	publishTimeout       = 2 * time.Second
)

// Publisher is the subset of the redis client the publisher uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes notifications as JSON on a per-recipient
// Redis channel (<prefix>:<recipientId>) for push layers to subscribe to.
type RedisPublisher struct {
	client Publisher
	prefix string
	log    *logger.Logger
}

// RedisOptions configures the connection used by NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a go-redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// NewRedisPublisher creates a publisher on top of an existing client.
func NewRedisPublisher(client Publisher, prefix string, log *logger.Logger) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix, log: log}
}

// Channel returns the channel notifications for recipientID are published on.
func (p *RedisPublisher) Channel(recipientID string) string {
	return p.prefix + ":" + recipientID
}

// Notify publishes n. Failures are logged and swallowed.
func (p *RedisPublisher) Notify(ctx context.Context, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		p.log.Error("Failed to encode notification", err, map[string]interface{}{
			"notification_id": n.ID,
			"kind":            n.Kind,
		})
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	channel := p.Channel(n.RecipientID)
	receivers, err := p.client.Publish(pubCtx, channel, payload).Result()
	if err != nil {
		p.log.Warn("Failed to publish notification", map[string]interface{}{
			"notification_id": n.ID,
			"kind":            n.Kind,
			"channel":         channel,
			"error":           err.Error(),
		})
		return
	}

	p.log.Debug("Notification published", map[string]interface{}{
		"notification_id": n.ID,
		"kind":            n.Kind,
		"channel":         channel,
		"receivers":       receivers,
	})
}
