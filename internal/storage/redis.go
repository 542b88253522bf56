package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "teagram:storage:"

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// NewRedisClient connects to Redis and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, cfg *config.RedisConnect) (*redis.Client, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {

	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {

		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}

	return value, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {

	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}

	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {

	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s from redis: %w", key, err)
	}

	return nil
}

// Close is a no-op; the client is owned by whoever created it.
func (s *RedisStorage) Close() error {
	return nil
}
