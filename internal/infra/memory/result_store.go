package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"little-genius/internal/domain"
)

// ResultStore keeps finished results with a TTL so certificates stay downloadable for a while.
type ResultStore struct {
	ttl   time.Duration
	clock func() time.Time
	rnd   *rand.Rand

	mu      sync.Mutex
	results map[string]cachedResult
}

type cachedResult struct {
	result    domain.ResultSummary
	expiresAt time.Time
}

func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		results: make(map[string]cachedResult),
	}
}

func (s *ResultStore) SaveResult(_ context.Context, sessionID string, result domain.ResultSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.pruneLocked(now)
	s.results[sessionID] = cachedResult{
		result:    result,
		expiresAt: now.Add(s.ttlWithJitter()),
	}
	return nil
}

func (s *ResultStore) Result(_ context.Context, sessionID string) (domain.ResultSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.results[sessionID]
	if !ok || !entry.expiresAt.After(s.clock()) {
		return domain.ResultSummary{}, domain.ErrNoResult
	}
	return entry.result, nil
}

func (s *ResultStore) pruneLocked(now time.Time) {
	for id, entry := range s.results {
		if !entry.expiresAt.After(now) {
			delete(s.results, id)
		}
	}
}

func (s *ResultStore) ttlWithJitter() time.Duration {
	if s.ttl <= 0 {
		return 24 * time.Hour
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
