// Package session issues and resolves opaque server-side session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"whisperwall/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store persists the token -> user mapping for active sessions.
type Store interface {
	Put(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Get returns the user ID for a token and whether the token exists.
	Get(ctx context.Context, token string) (uint, bool, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+token, userID, ttl).Err(); err != nil {
		return models.NewInternalError(fmt.Errorf("storing session: %w", err))
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (uint, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, models.NewInternalError(fmt.Errorf("loading session: %w", err))
	}
	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, models.NewInternalError(fmt.Errorf("corrupt session value: %w", err))
	}
	return uint(userID), true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return models.NewInternalError(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is unavailable and in
// tests. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, token string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return 0, false, nil
	}
	return entry.userID, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
