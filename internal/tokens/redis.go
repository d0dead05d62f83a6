package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"edumaster/web/internal/models"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func (s *RedisStore) Load(ctx context.Context) (models.TokenPair, error) {
	values, err := s.client.MGet(ctx, s.key(AccessTokenKey), s.key(RefreshTokenKey)).Result()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("redis mget tokens: %w", err)
	}

	var pair models.TokenPair
	if v, ok := values[0].(string); ok {
		pair.AccessToken = v
	}
	if v, ok := values[1].(string); ok {
		pair.RefreshToken = v
	}
	if pair.Empty() {
		return models.TokenPair{}, ErrNotFound
	}
	return pair, nil
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key(AccessTokenKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get access token: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Save(ctx context.Context, pair models.TokenPair) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(AccessTokenKey), pair.AccessToken, 0)
		pipe.Set(ctx, s.key(RefreshTokenKey), pair.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(AccessTokenKey), s.key(RefreshTokenKey)).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}
