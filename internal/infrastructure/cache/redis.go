package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hospital-management/config"
	"hospital-management/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logrus.Info("Successfully connected to Redis")

	return client, nil
}

// TokenStore is the registry of issued, not yet revoked JWT IDs.
type TokenStore interface {
	Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// TokenKey builds keys of the form access_token:<user>:<token id>.
func TokenKey(userID uuid.UUID, tokenType jwt.TokenType, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, TokenKey(userID, tokenType, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, TokenKey(userID, tokenType, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	return s.client.Del(ctx, TokenKey(userID, tokenType, tokenID)).Err()
}

// RevokeAll walks the user's keys with SCAN rather than KEYS so a large
// keyspace does not block Redis.
func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := fmt.Sprintf("%s_token:%s:*", tokenType, userID.String())
		iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %d keys: %w", len(keys), err)
			}
		}
	}
	return nil
}

// Cache stores JSON encoded values with a TTL.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) Cache {
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.prefix + key
	}
	return c.client.Del(ctx, prefixed...).Err()
}
