// Package stepcache stores per-(session, step) analysis results so
// repeated substeps over the same document reuse earlier judgments.
// Writes are whole-record replace; concurrent writers race with
// last-write-wins semantics, which is acceptable because analysis is
// idempotent.
package stepcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisc "github.com/draftproof/core/internal/pkg/redis"
)

// Status is the lifecycle state of a cached record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// Record is one cached analysis result.
type Record struct {
	SessionID string          `json:"session_id"`
	StepName  string          `json:"step_name"`
	Result    json.RawMessage `json:"result"`
	Status    Status          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is the cache bridge surface. Load returns (nil, nil) on miss.
type Store interface {
	Load(ctx context.Context, sessionID, stepName string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

const (
	keyPrefix  = "dp:step:"
	defaultTTL = 24 * time.Hour
)

// RedisStore keeps records in Redis with a TTL.
type RedisStore struct {
	rc  *redisc.Client
	ttl time.Duration
}

func NewRedisStore(rc *redisc.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{rc: rc, ttl: ttl}
}

func recordKey(sessionID, stepName string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, sessionID, stepName)
}

func (s *RedisStore) Load(ctx context.Context, sessionID, stepName string) (*Record, error) {
	raw, err := s.rc.Get(ctx, recordKey(sessionID, stepName))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("corrupt cache record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rc.Set(ctx, recordKey(rec.SessionID, rec.StepName), string(data), s.ttl)
}
