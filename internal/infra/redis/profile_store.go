package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ProfileStore persists player names as HSET explorer:profiles {profileID} {name}.
type ProfileStore struct {
	client *redis.Client
}

func NewProfileStore(client *redis.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) PlayerName(ctx context.Context, profileID string) (string, error) {
	name, err := s.client.HGet(ctx, profilesKey, profileID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return name, err
}

func (s *ProfileStore) SetPlayerName(ctx context.Context, profileID, name string) error {
	return s.client.HSet(ctx, profilesKey, profileID, name).Err()
}

const profilesKey = "explorer:profiles"
