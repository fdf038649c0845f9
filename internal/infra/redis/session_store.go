package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"little-genius/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions own timers and a connection, so the sessions themselves stay in
// process; Redis marks which session IDs are live so other instances and
// operators can see them.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

var (
	_ app.SessionToucher = (*SessionStore)(nil)
	_ app.SessionCounter = (*SessionStore)(nil)
)

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	if err := s.client.Set(context.Background(), sessionKey(session.ID()), "1", s.ttl).Err(); err != nil {
		log.Printf("session %s: mark live: %v", session.ID(), err)
	}
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if err := s.client.Del(context.Background(), sessionKey(sessionID)).Err(); err != nil {
		log.Printf("session %s: clear live marker: %v", sessionID, err)
	}
}

// Touch extends the liveness marker of an active session.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Err()
}

// LiveCount counts sessions marked live across all instances.
func (s *SessionStore) LiveCount(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKey("*"), 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func sessionKey(sessionID string) string {
	return "explorer:session:" + sessionID
}
