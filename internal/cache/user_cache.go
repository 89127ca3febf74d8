// Package cache keeps short-lived user snapshots in Redis so the auth
// middleware does not hit Postgres on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/domain"
)

const keyPrefix = "moderation:user:"

// UserCache stores account snapshots. Failures are never returned: a broken
// cache degrades to a miss.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, id string)
}

type redisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserCache returns a Redis-backed cache, or a no-op cache when the client
// is nil or ttl is not positive.
func NewUserCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) UserCache {
	if client == nil || ttl <= 0 {
		return NopUserCache{}
	}
	return &redisUserCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisUserCache) Get(ctx context.Context, id string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
		}
		return nil, false
	}
	user, err := decodeUser(raw)
	if err != nil {
		c.logger.Warn("user cache entry corrupt", zap.String("user_id", id), zap.Error(err))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return user, true
}

func (c *redisUserCache) Set(ctx context.Context, user *domain.User) {
	if user == nil {
		return
	}
	raw, err := encodeUser(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+user.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("user cache write failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (c *redisUserCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.logger.Warn("user cache invalidate failed", zap.String("user_id", id), zap.Error(err))
	}
}

// NopUserCache never stores anything.
type NopUserCache struct{}

func (NopUserCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }
func (NopUserCache) Set(context.Context, *domain.User) {}
func (NopUserCache) Invalidate(context.Context, string) {}

type userSnapshot struct {
	ID                string      `json:"id"`
	FullName          string      `json:"full_name"`
	Email             string      `json:"email"`
	Role              domain.Role `json:"role"`
	Restricted        bool        `json:"restricted"`
	RestrictionReason *string     `json:"restriction_reason,omitempty"`
	RestrictedAt      *time.Time  `json:"restricted_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

func encodeUser(user *domain.User) ([]byte, error) {
	return json.Marshal(userSnapshot{
		ID:                user.ID,
		FullName:          user.FullName,
		Email:             user.Email,
		Role:              user.Role,
		Restricted:        user.Restricted,
		RestrictionReason: user.RestrictionReason,
		RestrictedAt:      user.RestrictedAt,
		CreatedAt:         user.CreatedAt,
	})
}

func decodeUser(raw []byte) (*domain.User, error) {
	var snap userSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	if snap.ID == "" || !snap.Role.Valid() {
		return nil, errors.New("incomplete user snapshot")
	}
	return &domain.User{
		ID:                snap.ID,
		FullName:          snap.FullName,
		Email:             snap.Email,
		Role:              snap.Role,
		Restricted:        snap.Restricted,
		RestrictionReason: snap.RestrictionReason,
		RestrictedAt:      snap.RestrictedAt,
		CreatedAt:         snap.CreatedAt,
	}, nil
}
