package repository

import (
	"context"
	"fmt"

	"taptap/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ActivityRepository tracks last user interaction in Redis. Each qualifying
// request refreshes a key with the idle-timeout TTL; key expiry means the
// user has gone idle and the sweep may evict their check-in.
type ActivityRepository struct {
	rdb *redis.Client
}

func NewActivityRepository(rdb *redis.Client) *ActivityRepository {
	return &ActivityRepository{rdb: rdb}
}

func activityKey(userID uint) string {
	return fmt.Sprintf("activity:%d", userID)
}

// Touch records a qualifying interaction, resetting the idle window.
func (r *ActivityRepository) Touch(ctx context.Context, userID uint) error {
	return r.rdb.Set(ctx, activityKey(userID), "1", domain.IdleTimeout).Err()
}

// IsActive reports whether the user interacted within the idle window.
func (r *ActivityRepository) IsActive(ctx context.Context, userID uint) (bool, error) {
	n, err := r.rdb.Exists(ctx, activityKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear drops the activity marker, ending the session immediately.
func (r *ActivityRepository) Clear(ctx context.Context, userID uint) error {
	return r.rdb.Del(ctx, activityKey(userID)).Err()
}
