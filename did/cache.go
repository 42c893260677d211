package did

import (
	"context"
	"time"

	"github.com/bluele/gcache"
)

const defaultCacheSize = 256

// CachingResolver wraps a Resolver with an expiring document cache. Only
// successful resolutions are cached; every failure status passes through
// to the inner resolver on the next call, so correctness never depends
// on the cache.
type CachingResolver struct {
	inner Resolver
	cache gcache.Cache
	ttl   time.Duration
}

// NewCachingResolver wraps the given resolver with a cache holding up to
// defaultCacheSize documents for the given TTL.
func NewCachingResolver(inner Resolver, ttl time.Duration) *CachingResolver {
	return &CachingResolver{
		inner: inner,
		cache: gcache.New(defaultCacheSize).ARC().Build(),
		ttl:   ttl,
	}
}

// Resolve returns the cached document when present, delegating to the
// inner resolver otherwise.
func (c *CachingResolver) Resolve(ctx context.Context, didStr string) ResolutionResult {
	if cached, err := c.cache.Get(didStr); err == nil {
		if doc, ok := cached.(*Document); ok {
			return ResolutionResult{Status: ResolutionOK, Document: doc}
		}
	}

	result := c.inner.Resolve(ctx, didStr)

	if result.OK() {
		// Ignore capacity errors: a failed insert only costs a future
		// cache miss.
		_ = c.cache.SetWithExpire(didStr, result.Document, c.ttl)
	}

	return result
}
