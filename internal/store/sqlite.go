package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const ddlAnalysisLog = `CREATE TABLE IF NOT EXISTS analysis_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id TEXT NOT NULL,
	user_id TEXT,
	timestamp TEXT NOT NULL,
	user_goal TEXT NOT NULL,
	roi_estimate REAL NOT NULL,
	consistency_score REAL NOT NULL
)`

// SQLite is the embedded metrics sink.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the schema.
// Driver name is "sqlite" (modernc.org/sqlite, no cgo).
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "stackr.db"
	}
	db, err := sql.Open("sqlite", path+"?_journal=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// Single writer avoids SQLITE_BUSY under WAL.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(ddlAnalysisLog); err != nil {
		return nil, fmt.Errorf("create analysis_log: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Append implements MetricsStore. Each write is a single atomic insert.
func (s *SQLite) Append(ctx context.Context, rec Record) error {
	rec = withDefaults(rec)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_log (record_id, user_id, timestamp, user_goal, roi_estimate, consistency_score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Timestamp.Format(time.RFC3339), rec.Goal, rec.ROIEstimate, rec.ConsistencyScore)
	if err != nil {
		return fmt.Errorf("append analysis record: %w", err)
	}
	return nil
}

// Close implements MetricsStore.
func (s *SQLite) Close() error { return s.db.Close() }

func withDefaults(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	return rec
}
