package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pantheonai/stackr/config"
)

const analysisKeyPrefix = "analysis:"

// Redis is the document-store metrics sink. Records are JSON documents
// keyed analysis:<user>:<id>, which partitions them per user.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and verifies the server is reachable.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s): %w", cfg.Addr(), err)
	}
	return &Redis{client: client}, nil
}

// Append implements MetricsStore.
func (r *Redis) Append(ctx context.Context, rec Record) error {
	rec = withDefaults(rec)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal analysis record: %w", err)
	}
	user := rec.UserID
	if user == "" {
		user = "anonymous"
	}
	key := fmt.Sprintf("%s%s:%s", analysisKeyPrefix, user, rec.ID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("append analysis record: %w", err)
	}
	return nil
}

// Close implements MetricsStore.
func (r *Redis) Close() error { return r.client.Close() }
