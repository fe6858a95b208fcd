package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis_models "Meeple/models/redis"
	"Meeple/services/overrides"
	redis_utils "Meeple/services/redis/utils"

	"github.com/redis/go-redis/v9"
)

// SaveOverrides stores the override document under the given name.
// Key format: "meeple:overrides:{name}", no TTL
func (rc *RedisClient) SaveOverrides(ctx context.Context, name string, doc map[string]any) error {
	key := redis_utils.FormatOverridesKey(name)
	data, err := json.Marshal(redis_models.OverrideDocument{Document: doc, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("error marshaling overrides: %w", err)
	}
	return rc.client.Set(ctx, key, data, 0).Err()
}

// GetOverrides returns nil, nil when nothing was saved
func (rc *RedisClient) GetOverrides(ctx context.Context, name string) (*redis_models.OverrideDocument, error) {
	key := redis_utils.FormatOverridesKey(name)
	data, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting overrides: %w", err)
	}

	var doc redis_models.OverrideDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshaling overrides: %w", err)
	}
	return &doc, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}

// OverrideStore serves the override document from Redis
type OverrideStore struct {
	rc   *RedisClient
	name string
}

func NewOverrideStore(rc *RedisClient, name string) *OverrideStore {
	return &OverrideStore{rc: rc, name: name}
}

func (s *OverrideStore) Load(ctx context.Context) (overrides.Document, error) {
	stored, err := s.rc.GetOverrides(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return overrides.Default(), nil
	}
	return overrides.Normalize(stored.Document), nil
}

func (s *OverrideStore) Save(ctx context.Context, doc overrides.Document) (overrides.Document, error) {
	doc = overrides.Normalize(doc)
	if err := s.rc.SaveOverrides(ctx, s.name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
