package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
)

// CacheRepository provides helpers around Redis interactions for caching
// timetable views. A nil client degrades to a no-op cache so the API stays up
// without Redis.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

func timetableKey(runID string) string {
	return "timetable:run:" + runID
}

func timetableIndexKey(sessionID string) string {
	return "timetable:session:" + sessionID
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// GetTimetable returns a cached timetable view for a run, or ErrCacheMiss.
func (r *CacheRepository) GetTimetable(ctx context.Context, runID string) (*dto.TimetableView, error) {
	var view dto.TimetableView
	if err := r.Get(ctx, timetableKey(runID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SetTimetable caches a timetable view and registers its key in the session
// index so InvalidateSession can find it later.
func (r *CacheRepository) SetTimetable(ctx context.Context, view *dto.TimetableView, ttl time.Duration) error {
	if r.client == nil || view == nil {
		return nil
	}
	key := timetableKey(view.RunID)
	if err := r.Set(ctx, key, view, ttl); err != nil {
		return err
	}
	index := timetableIndexKey(view.SessionID)
	if err := r.client.SAdd(ctx, index, key).Err(); err != nil {
		return fmt.Errorf("redis sadd %s: %w", index, err)
	}
	// Index keys outlive members slightly so invalidation still sees expired
	// entries; the TTL just bounds growth.
	if err := r.client.Expire(ctx, index, ttl*2).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", index, err)
	}
	return nil
}

// InvalidateSession removes every cached timetable view for a session.
func (r *CacheRepository) InvalidateSession(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return nil
	}
	index := timetableIndexKey(sessionID)
	keys, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("redis smembers %s: %w", index, err)
	}
	keys = append(keys, index)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete timetable keys: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
