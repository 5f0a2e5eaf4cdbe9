// Package store persists one analysis record per orchestrated goal. The
// sink is append-only; nothing in the pipeline reads it back. Two backends
// exist as deployment choices, not as a pluggable framework: an embedded
// sqlite table and a redis document store partitioned by user.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pantheonai/stackr/config"
)

// Record is the durable outcome of one orchestration.
type Record struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	Goal             string    `json:"user_goal"`
	ROIEstimate      float64   `json:"roi_estimate"`
	ConsistencyScore float64   `json:"consistency_score"`
}

// MetricsStore is the append-only metrics sink.
type MetricsStore interface {
	Append(ctx context.Context, rec Record) error
	Close() error
}

// New creates the configured backend.
func New(ctx context.Context, cfg config.StorageConfig) (MetricsStore, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return NewSQLite(cfg.SQLite.Path)
	case "redis":
		return NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Backend)
	}
}
