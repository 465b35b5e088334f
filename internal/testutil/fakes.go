package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/pkg/jwt"

	"github.com/google/uuid"
)

// MemoryTokenStore is an in-process cache.TokenStore.
type MemoryTokenStore struct {
	mu   sync.Mutex
	keys map[string]time.Duration
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{keys: make(map[string]time.Duration)}
}

func (s *MemoryTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[cache.TokenKey(userID, tokenType, tokenID)] = ttl
	return nil
}

func (s *MemoryTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[cache.TokenKey(userID, tokenType, tokenID)]
	return ok, nil
}

func (s *MemoryTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, cache.TokenKey(userID, tokenType, tokenID))
	return nil
}

func (s *MemoryTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.keys {
		if strings.Contains(key, ":"+userID.String()+":") {
			delete(s.keys, key)
		}
	}
	return nil
}

// Len reports how many tokens are registered.
func (s *MemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// MemoryCache is an in-process cache.Cache storing JSON like Redis does.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []entity.NotificationEvent
	Err    error
}

func (p *RecordingPublisher) Publish(ctx context.Context, event entity.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}

// MemoryStorage is an in-process storage.ObjectStorage.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = data
	return nil
}

func (s *MemoryStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return "https://storage.test/" + key + "?expires=" + ttl.String(), nil
}
