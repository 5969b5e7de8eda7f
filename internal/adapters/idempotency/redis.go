package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventmanagement/internal/domain"
)

const keyPrefix = "webhook:processed:"

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

type redisDeduplicator struct {
	client redis.Cmdable
}

// NewRedisDeduplicator returns a WebhookDeduplicator that claims event IDs with SET NX.
func NewRedisDeduplicator(client redis.Cmdable) domain.WebhookDeduplicator {
	return &redisDeduplicator{client: client}
}

func (d *redisDeduplicator) Claim(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, keyPrefix+eventID, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim webhook %s: %w", eventID, err)
	}
	return ok, nil
}

func (d *redisDeduplicator) Release(ctx context.Context, eventID string) error {
	if err := d.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("release webhook %s: %w", eventID, err)
	}
	return nil
}

type noopDeduplicator struct{}

// NewNoopDeduplicator returns a WebhookDeduplicator that claims every event.
// Fulfillment stays correct without it because adding an attendee is idempotent.
func NewNoopDeduplicator() domain.WebhookDeduplicator {
	return noopDeduplicator{}
}

func (noopDeduplicator) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (noopDeduplicator) Release(context.Context, string) error { return nil }
