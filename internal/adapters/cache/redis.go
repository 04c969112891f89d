package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           dbIndex,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

var _ domain.SnapshotStore = (*RedisSnapshotStore)(nil)

// RedisSnapshotStore keeps the latest computed score per (user, goal).
// Snapshots expire after a day; the worker refreshes them on every read.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (s *RedisSnapshotStore) key(userID, goalID string) string {
	return fmt.Sprintf("score_snapshot:%s:%s", userID, goalID)
}

func (s *RedisSnapshotStore) SaveSnapshot(ctx context.Context, userID, goalID string, result domain.ScoreResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key(userID, goalID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) GetSnapshot(ctx context.Context, userID, goalID string) (*domain.ScoreResult, error) {
	val, err := s.client.Get(ctx, s.key(userID, goalID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var result domain.ScoreResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("corrupted snapshot payload: %w", err)
	}
	return &result, nil
}

// InMemorySnapshotStore backs the worker in environments without Redis.
type InMemorySnapshotStore struct {
	store map[string]domain.ScoreResult

	mu sync.RWMutex
}

func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		store: make(map[string]domain.ScoreResult),
	}
}

func (s *InMemorySnapshotStore) SaveSnapshot(ctx context.Context, userID, goalID string, result domain.ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[fmt.Sprintf("%s:%s", userID, goalID)] = result
	return nil
}

func (s *InMemorySnapshotStore) GetSnapshot(ctx context.Context, userID, goalID string) (*domain.ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.store[fmt.Sprintf("%s:%s", userID, goalID)]
	if !ok {
		return nil, nil
	}
	return &result, nil
}
