package imagecache

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// DefaultWorkers is the prefetch concurrency when the caller passes < 1.
const DefaultWorkers = 4

// Fetch returns the cached image for key, loading and caching it on a miss.
// Concurrent misses for the same key may load it more than once.
func Fetch(ctx context.Context, c *Cache, l Loader, key string) (Image, error) {
	if img, ok := c.Get(key); ok {
		return img, nil
	}
	img, err := l.Load(ctx, key)
	if err != nil {
		return Image{}, err
	}
	c.Set(key, img)
	return img, nil
}

// PrefetchResult counts what a prefetch did.
type PrefetchResult struct {
	Loaded  int
	Cached  int // Already present
	Missing int // No asset for the key
}

// Prefetch warms the cache for keys using at most workers concurrent loads.
// Missing assets are counted and skipped; any other load error stops the
// prefetch and is returned.
func Prefetch(ctx context.Context, c *Cache, l Loader, keys []string, workers int) (PrefetchResult, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}

	var loaded, cached, missing atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, key := range keys {
		key := key
		if c.Contains(key) {
			cached.Add(1)
			continue
		}
		g.Go(func() error {
			img, err := l.Load(ctx, key)
			if errors.Is(err, core.ErrNotFound) {
				missing.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			c.Set(key, img)
			loaded.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return PrefetchResult{
		Loaded:  int(loaded.Load()),
		Cached:  int(cached.Load()),
		Missing: int(missing.Load()),
	}, err
}
