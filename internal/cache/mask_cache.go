package cache

import (
	"context"

	"github.com/zjrosen/nestmode/internal/nesting"
)

// MaskExpiration is long relative to DefaultExpiration: synthesized mask
// configs are a pure function of a Mode's ModeMeta plus nesting level, so
// there is no real staleness concern, only memory growth across a long
// editor session — the TTL exists to let entries for modes no longer in
// use fall out eventually rather than to force periodic recomputation.
const MaskExpiration = 12 * DefaultExpiration

// MaskConfigCache adapts InMemoryCacheManager to nesting.MaskCache's
// compute-on-miss contract (spec.md §4.1's "compileNestMasksAtMode...
// memoized"): GetOrCompute has no ctx/ttl/error in its signature, so unlike
// ReadThroughCache it never needs to propagate a failure — compute is a
// pure, non-failing synthesis function.
type MaskConfigCache struct {
	manager *InMemoryCacheManager[string, []*nesting.Config]
}

// NewMaskConfigCache builds the cache nesting.New's MaskCache parameter
// expects.
func NewMaskConfigCache() *MaskConfigCache {
	return &MaskConfigCache{
		manager: NewInMemoryCacheManager[string, []*nesting.Config]("nesting-masks", MaskExpiration, DefaultCleanupInterval),
	}
}

var _ nesting.MaskCache = (*MaskConfigCache)(nil)

func (c *MaskConfigCache) GetOrCompute(key string, compute func() []*nesting.Config) []*nesting.Config {
	ctx := context.Background()
	if configs, ok := c.manager.GetWithRefresh(ctx, key, MaskExpiration); ok {
		return configs
	}
	configs := compute()
	c.manager.Set(ctx, key, configs, MaskExpiration)
	return configs
}
