// Package tiered implements a two-level cache adapter: a fast in-process
// level backed by a shared remote level. SecTrack uses it for report
// models when more than one instance serves the same projects.
package tiered

import (
	"context"
	"time"

	"github.com/Strob0t/SecTrack/internal/port/cache"
)

// Cache combines a local level with a remote one. Get checks local first
// and backfills it on a remote hit; Set and Delete touch both levels so an
// invalidation propagates.
type Cache struct {
	local       cache.Cache
	remote      cache.Cache
	localExpire time.Duration
}

// New creates a tiered cache. localExpire bounds how long backfilled
// entries live in the local level.
func New(local, remote cache.Cache, localExpire time.Duration) *Cache {
	return &Cache{local: local, remote: remote, localExpire: localExpire}
}

// Get checks the local level, then the remote one.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	val, found, err := c.local.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = c.remote.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		_ = c.local.Set(ctx, key, val, c.localExpire)
		return val, true, nil
	}

	return nil, false, nil
}

// Set writes to both levels.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.remote.Set(ctx, key, value, ttl)
}

// Delete removes from both levels.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.local.Delete(ctx, key); err != nil {
		return err
	}
	return c.remote.Delete(ctx, key)
}
