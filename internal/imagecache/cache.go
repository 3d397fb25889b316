// Package imagecache keeps decoded answer images in memory, bounded by their
// decoded size and evicted least-recently-used first.
package imagecache

import (
	"container/list"
	"image"
	"sync"
)

// DefaultMaxCost is the default memory ceiling, 100 MiB.
const DefaultMaxCost int64 = 100 << 20

// Image is a decoded picture.
type Image struct {
	Key string
	Img image.Image
}

// Cost is the decoded size in bytes, counted as 4 bytes per pixel.
func (i Image) Cost() int64 {
	if i.Img == nil {
		return 0
	}
	b := i.Img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Entries int
	Cost    int64
	MaxCost int64
	Hits    uint64
	Misses  uint64
}

type entry struct {
	key  string
	img  Image
	cost int64
}

// Cache is a cost-bounded LRU. Safe for concurrent use; concurrent Set calls
// for the same key leave the last written image.
type Cache struct {
	mu      sync.Mutex
	maxCost int64
	cost    int64
	ll      *list.List // Front is most recently used
	items   map[string]*list.Element
	hits    uint64
	misses  uint64
}

// New creates a cache holding at most maxCost bytes.
// A non-positive maxCost uses DefaultMaxCost.
func New(maxCost int64) *Cache {
	if maxCost <= 0 {
		maxCost = DefaultMaxCost
	}
	return &Cache{
		maxCost: maxCost,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
	}
}

// Get returns the image for key and marks it recently used.
func (c *Cache) Get(key string) (Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return Image{}, false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).img, true
}

// Set stores img under key, evicting old entries past the ceiling.
// An image larger than the whole ceiling is not stored.
func (c *Cache) Set(key string, img Image) {
	cost := img.Cost()

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	if cost > c.maxCost {
		return
	}

	el := c.ll.PushFront(&entry{key: key, img: img, cost: cost})
	c.items[key] = el
	c.cost += cost

	for c.cost > c.maxCost {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// Contains reports whether key is cached without touching recency or stats.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Remove drops key from the cache.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats returns current usage counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries: c.ll.Len(),
		Cost:    c.cost,
		MaxCost: c.maxCost,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	c.ll.Remove(el)
	delete(c.items, e.key)
	c.cost -= e.cost
}
