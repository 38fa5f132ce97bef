package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists one draft per user. Get returns (nil, nil) when the
// user has no active draft.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*Draft, error)
	Put(ctx context.Context, userID int64, draft *Draft) error
	Delete(ctx context.Context, userID int64) error
}

// RedisSessionStore keeps drafts in Redis under a per-user key with a TTL.
// Every Put refreshes the TTL, so only genuinely abandoned conversations
// expire.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store backed by the given client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func draftKey(userID int64) string {
	return fmt.Sprintf("draft:%d", userID)
}

func (s *RedisSessionStore) Get(ctx context.Context, userID int64) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load draft for user %d: %w", userID, err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		// A corrupt draft is unrecoverable; drop it so the user can restart.
		_ = s.client.Del(ctx, draftKey(userID)).Err()
		return nil, nil
	}
	return &draft, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, userID int64, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft for user %d: %w", userID, err)
	}
	if err := s.client.Set(ctx, draftKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft for user %d: %w", userID, err)
	}
	return nil
}

// MemorySessionStore is an in-process store without expiry, used in tests.
type MemorySessionStore struct {
	mu     sync.Mutex
	drafts map[int64]*Draft
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{drafts: map[int64]*Draft{}}
}

func (s *MemorySessionStore) Get(_ context.Context, userID int64) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[userID], nil
}

func (s *MemorySessionStore) Put(_ context.Context, userID int64, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = draft
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
