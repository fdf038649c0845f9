package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"little-genius/internal/domain"
)

// ResultStore keeps finished results as JSON until their certificate expires.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) SaveResult(ctx context.Context, sessionID string, result domain.ResultSummary) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.client.Set(ctx, resultKey(sessionID), raw, s.ttl).Err()
}

func (s *ResultStore) Result(ctx context.Context, sessionID string) (domain.ResultSummary, error) {
	raw, err := s.client.Get(ctx, resultKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ResultSummary{}, domain.ErrNoResult
	}
	if err != nil {
		return domain.ResultSummary{}, fmt.Errorf("read result: %w", err)
	}
	var result domain.ResultSummary
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.ResultSummary{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return result, nil
}

func resultKey(sessionID string) string {
	return "explorer:result:" + sessionID
}
