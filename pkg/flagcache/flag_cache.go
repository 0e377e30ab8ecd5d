package flagcache

import (
	"time"

	"allnimall-store-be/internal/entity"

	gocache "github.com/patrickmn/go-cache"
)

const keyAll = "all"

// FlagCache is a TTL cache for resolved feature flag sets, keyed per plan.
// Flag definitions change rarely, so a short TTL keeps reads cheap without
// serving stale data for long after an admin edit.
type FlagCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func New(ttl time.Duration) *FlagCache {
	return &FlagCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func planKey(planId string) string {
	if planId == "" {
		return keyAll
	}
	return "plan:" + planId
}

func (c *FlagCache) Get(planId string) ([]*entity.FeatureFlag, bool) {
	v, found := c.cache.Get(planKey(planId))
	if !found {
		return nil, false
	}
	flags, ok := v.([]*entity.FeatureFlag)
	return flags, ok
}

func (c *FlagCache) Set(planId string, flags []*entity.FeatureFlag) {
	c.cache.Set(planKey(planId), flags, c.ttl)
}

// Invalidate drops the cached set for a plan together with the "all" set,
// since the latter includes the plan's overrides.
func (c *FlagCache) Invalidate(planId string) {
	c.cache.Delete(planKey(planId))
	c.cache.Delete(keyAll)
}

func (c *FlagCache) Flush() {
	c.cache.Flush()
}
