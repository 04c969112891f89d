package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.ConfigRepository = (*CachedConfigRepository)(nil)

// CachedConfigRepository keeps the per-user config list in Redis. Goal
// documents are read on every score request, so the list is the hot path.
type CachedConfigRepository struct {
	next  domain.ConfigRepository
	cache *redis.Client
}

func NewCachedConfigRepository(next domain.ConfigRepository, cache *redis.Client) *CachedConfigRepository {
	return &CachedConfigRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedConfigRepository) cacheKey(userID string) string {
	return fmt.Sprintf("goal_configs:%s", userID)
}

func (r *CachedConfigRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedConfigRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalConfig, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var configs []*domain.GoalConfig
		if err := json.Unmarshal([]byte(val), &configs); err == nil {
			return configs, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	configs, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(configs); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return configs, nil
}

func (r *CachedConfigRepository) GetByID(ctx context.Context, id string) (*domain.GoalConfig, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedConfigRepository) Create(ctx context.Context, cfg *domain.GoalConfig) error {
	if err := r.next.Create(ctx, cfg); err != nil {
		return err
	}
	r.invalidate(ctx, cfg.UserID)
	return nil
}

func (r *CachedConfigRepository) Update(ctx context.Context, cfg *domain.GoalConfig) error {
	if err := r.next.Update(ctx, cfg); err != nil {
		return err
	}
	r.invalidate(ctx, cfg.UserID)
	return nil
}

func (r *CachedConfigRepository) Delete(ctx context.Context, id string) error {
	cfg, err := r.next.GetByID(ctx, id)
	if err == nil && cfg != nil {
		defer r.invalidate(ctx, cfg.UserID)
	}

	return r.next.Delete(ctx, id)
}
