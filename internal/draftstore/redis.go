package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"webstarter-backend/internal/intake"
)

// RedisStore keeps drafts in Redis with a TTL matching the draft
// expiry window, so abandoned drafts disappear on their own.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client, now: time.Now}, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, draft intake.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	err = s.client.Set(ctx, intake.DraftKeyPrefix+key, data, intake.DraftTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*intake.Draft, error) {
	data, err := s.client.Get(ctx, intake.DraftKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft intake.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A draft written under an older shape is treated as absent
		_ = s.Clear(ctx, key)
		return nil, nil
	}

	if draft.Expired(s.now()) {
		if err := s.Clear(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &draft, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	err := s.client.Del(ctx, intake.DraftKeyPrefix+key).Err()
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
