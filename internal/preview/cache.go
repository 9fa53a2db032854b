package preview

import (
	"image"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of decoded previews kept in memory.
const DefaultCacheSize = 256

// Cache memoizes decoded previews by resource id. A nil image records that
// the resource has no preview.
type Cache struct {
	entries *lru.Cache[uint64, image.Image]
}

// NewCache constructs a cache holding at most size previews.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[uint64, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func cacheKey(uid string) uint64 {
	return xxhash.Sum64String(uid)
}

// Get returns the cached preview for uid and whether uid was seen.
func (c *Cache) Get(uid string) (image.Image, bool) {
	return c.entries.Get(cacheKey(uid))
}

// Add stores the preview for uid.
func (c *Cache) Add(uid string, img image.Image) {
	c.entries.Add(cacheKey(uid), img)
}

// Remove forgets uid.
func (c *Cache) Remove(uid string) {
	c.entries.Remove(cacheKey(uid))
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached previews.
func (c *Cache) Len() int {
	return c.entries.Len()
}
