// Package spaceinfo caches space metadata so object-type names can be
// resolved during result rendering without burning API quota.
package spaceinfo

import (
	"context"
	"time"

	"github.com/caplaunch/caplaunch/internal/capacities"
	"github.com/caplaunch/caplaunch/internal/errors"
)

// CacheTTL bounds how long a fetched space-info payload stays valid.
const CacheTTL = time.Hour

const cacheKey = "space_info_cache"

// builtinTypes maps the structure ids Capacities ships with to display names.
var builtinTypes = map[string]string{
	"RootDailyNote":    "Daily Note",
	"RootPage":         "Page",
	"MediaWebResource": "Web Resource",
	"MediaFile":        "File",
	"MediaImage":       "Image",
}

// CacheStore persists the cache across invocations. Satisfied by
// *kvstore.Store.
type CacheStore interface {
	Get(key string, maxAge time.Duration, v any) (bool, error)
	Set(key string, v any) error
}

// Fetcher is the API side of the cache. Satisfied by *capacities.Client.
type Fetcher interface {
	SpaceInfo(ctx context.Context, spaceID string) (*capacities.SpaceInfo, error)
}

// Limiter guards the fetch path. Satisfied by *ratelimit.Limiter.
type Limiter interface {
	Allow(spaceID string) bool
}

// Cache is a TTL-bounded space-info cache populated lazily through the rate
// limiter and the API gateway.
type Cache struct {
	store   CacheStore
	limiter Limiter
	client  Fetcher
}

// New creates a Cache.
func New(store CacheStore, limiter Limiter, client Fetcher) *Cache {
	return &Cache{store: store, limiter: limiter, client: client}
}

// GetOrFetch returns the space-info payload for spaceID. A fresh cache entry
// is returned with no side effects. On a miss the rate limiter is consulted
// first: a denial returns ErrRateLimited, which callers treat as a soft
// degradation rather than a failure.
func (c *Cache) GetOrFetch(ctx context.Context, spaceID string) (*capacities.SpaceInfo, error) {
	entries := c.load()
	if info, ok := entries[spaceID]; ok {
		return &info, nil
	}

	if !c.limiter.Allow(spaceID) {
		return nil, errors.NewRateLimited(spaceID)
	}

	info, err := c.client.SpaceInfo(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	entries[spaceID] = *info
	_ = c.store.Set(cacheKey, entries)

	return info, nil
}

// TypeName resolves a structure id to a human-readable name. Built-in types
// resolve from a static table with no store or network access; custom types
// consult only the existing cache entry; this path never fetches, so it is
// safe inside a result-rendering loop. Unresolvable ids come back unchanged.
func (c *Cache) TypeName(spaceID, structureID string) string {
	if name, ok := builtinTypes[structureID]; ok {
		return name
	}

	if structureID == "" {
		return "Unknown"
	}

	if spaceID != "" {
		if info, ok := c.load()[spaceID]; ok {
			for _, s := range info.Structures {
				if s.ID == structureID {
					if s.Title != "" {
						return s.Title
					}
					return structureID
				}
			}
		}
	}

	return structureID
}

// load reads the cache map, treating a missing or expired entry as empty.
func (c *Cache) load() map[string]capacities.SpaceInfo {
	entries := map[string]capacities.SpaceInfo{}
	if ok, err := c.store.Get(cacheKey, CacheTTL, &entries); err != nil || !ok {
		return map[string]capacities.SpaceInfo{}
	}
	return entries
}
