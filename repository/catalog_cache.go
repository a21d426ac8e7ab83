package repository

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

const defaultCatalogCacheSize = 512

// CatalogCache holds catalog rows across units of work. Rows never expire;
// a running server drops them on SIGHUP, so send one after reseeding.
type CatalogCache struct {
	cache *lru.Cache
}

// NewCatalogCache creates a cache holding up to size entries
func NewCatalogCache(size int) *CatalogCache {
	if size <= 0 {
		size = defaultCatalogCacheSize
	}
	cache, _ := lru.New(size)
	return &CatalogCache{cache: cache}
}

func (c *CatalogCache) get(kind string, id int64) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(cacheKey(kind, id))
}

func (c *CatalogCache) add(kind string, id int64, value any) {
	if c == nil {
		return
	}
	c.cache.Add(cacheKey(kind, id), value)
}

// Purge drops every cached row
func (c *CatalogCache) Purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}

// Len is the number of cached rows
func (c *CatalogCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}

func cacheKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}
