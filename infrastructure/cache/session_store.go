package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "yt-fetcher:session:"

// RedisSessionStore keeps each session's fetch result as a single JSON value.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) repository.ISessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*model.FetchResult, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}

	var result model.FetchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &result, nil
}

// Replace overwrites the value in one SET so readers never see a partial result.
func (s *RedisSessionStore) Replace(ctx context.Context, sessionID string, result *model.FetchResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session %s: %w", sessionID, err)
	}
	return nil
}
