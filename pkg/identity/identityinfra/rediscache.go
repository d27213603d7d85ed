package identityinfra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
	"github.com/redis/go-redis/v9"
)

// RedisProfileCache guarda los perfiles agregados en Redis con un TTL corto.
// Cualquier fallo de Redis degrada a lecturas directas contra la base;
// nunca rompe el request.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) identity.ProfileCache {
	if ttl == 0 {
		ttl = time.Minute
	}
	return &RedisProfileCache{client: client, ttl: ttl}
}

func profileKey(id kernel.IdentityID) string {
	return "profile:" + id.String()
}

func (c *RedisProfileCache) Get(ctx context.Context, id kernel.IdentityID) (*identity.Profile, bool) {
	raw, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.WithError(err).Debug("profile cache read failed")
		}
		return nil, false
	}

	var p identity.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten on Set.
		logx.WithError(err).Warn("profile cache entry corrupt")
		return nil, false
	}
	return &p, true
}

func (c *RedisProfileCache) Set(ctx context.Context, id kernel.IdentityID, p *identity.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		logx.WithError(err).Warn("profile cache encode failed")
		return
	}
	if err := c.client.Set(ctx, profileKey(id), raw, c.ttl).Err(); err != nil {
		logx.WithError(err).Debug("profile cache write failed")
	}
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, id kernel.IdentityID) {
	if err := c.client.Del(ctx, profileKey(id)).Err(); err != nil {
		logx.WithError(err).Debug("profile cache invalidation failed")
	}
}
