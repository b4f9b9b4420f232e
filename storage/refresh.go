// Package storage holds the refresh-token allow-list. Access tokens are
// verified statelessly; refresh tokens must additionally be present here so
// they can be rotated on use.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrTokenNotFound = errors.New("refresh token not found")

type RefreshStore interface {
	Save(ctx context.Context, token, email string, ttl time.Duration) error
	Email(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// RedisRefreshStore keeps refresh tokens in Redis keyed by the token string,
// with the owning user's email as value. TTL matches the token expiry.
type RedisRefreshStore struct {
	rdb *redis.Client
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb}
}

func key(token string) string {
	return "refresh:" + token
}

func (s *RedisRefreshStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(token), email, ttl).Err()
}

func (s *RedisRefreshStore) Email(ctx context.Context, token string) (string, error) {
	email, err := s.rdb.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, key(token)).Err()
}
