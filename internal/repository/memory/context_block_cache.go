package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const contextBlockKeyPrefix = "ctxblock:"

// CachedContextBlock is a rendered instruction block plus the ids that went
// into it, so applied-count accounting still happens on cache hits.
type CachedContextBlock struct {
	Block          string      `json:"block"`
	InstructionIds []uuid.UUID `json:"instruction_ids"`
}

// ContextBlockCache caches rendered instruction blocks in two layers: an
// in-process go-cache for the hot path and redis so instances share
// renders. Redis being down never fails a read; callers fall back to a
// fresh render on a miss.
type ContextBlockCache struct {
	local *cache.Cache
	rdb   *redis.Client // optional second layer, may be nil
	ttl   time.Duration
}

func NewContextBlockCache(rdb *redis.Client, ttl time.Duration) *ContextBlockCache {
	return &ContextBlockCache{
		local: cache.New(ttl, 10*time.Minute),
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *ContextBlockCache) Get(ctx context.Context, userId uuid.UUID) (*CachedContextBlock, bool) {
	if x, found := c.local.Get(userId.String()); found {
		return x.(*CachedContextBlock), true
	}

	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, contextBlockKeyPrefix+userId.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var block CachedContextBlock
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, false
	}
	c.local.Set(userId.String(), &block, cache.DefaultExpiration)
	return &block, true
}

func (c *ContextBlockCache) Set(ctx context.Context, userId uuid.UUID, block *CachedContextBlock) {
	c.local.Set(userId.String(), block, cache.DefaultExpiration)

	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(block)
	if err != nil {
		return
	}
	// Best effort; a failed write only costs the next instance a render.
	c.rdb.Set(ctx, contextBlockKeyPrefix+userId.String(), raw, c.ttl)
}

func (c *ContextBlockCache) Invalidate(ctx context.Context, userId uuid.UUID) {
	c.local.Delete(userId.String())

	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, contextBlockKeyPrefix+userId.String())
}
