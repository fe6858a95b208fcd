package config

import (
	"fmt"

	"Meeple/services/redis"

	"go.uber.org/zap"
)

// Connect_redis opens the Redis connection backing the override store
func Connect_redis(s Settings, zlog *zap.Logger) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(s.RedisURL, 0)
	if err != nil {
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}
	zlog.Info("redis connection established")
	return redisClient, nil
}
