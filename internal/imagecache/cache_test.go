package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

func rgba(w, h int) Image {
	return Image{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() failed: %v", err)
	}
	return buf.Bytes()
}

func TestImageCost(t *testing.T) {
	if c := rgba(10, 5).Cost(); c != 200 {
		t.Errorf("Expected cost 200, got %d", c)
	}
	if c := (Image{}).Cost(); c != 0 {
		t.Errorf("Expected zero cost for empty image, got %d", c)
	}
}

func TestGetSet(t *testing.T) {
	c := New(0)
	if c.Stats().MaxCost != DefaultMaxCost {
		t.Errorf("Expected default max cost, got %d", c.Stats().MaxCost)
	}

	if _, ok := c.Get("dog"); ok {
		t.Error("Expected miss on empty cache")
	}
	c.Set("dog", rgba(2, 2))
	img, ok := c.Get("dog")
	if !ok || img.Cost() != 16 {
		t.Errorf("Expected cached dog, got %v %+v", ok, img)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 || st.Cost != 16 {
		t.Errorf("Unexpected stats: %+v", st)
	}
}

func TestSetReplacesAndAdjustsCost(t *testing.T) {
	c := New(1000)
	c.Set("a", rgba(2, 2))
	c.Set("a", rgba(4, 4))
	if st := c.Stats(); st.Entries != 1 || st.Cost != 64 {
		t.Errorf("Unexpected stats after replace: %+v", st)
	}
	c.Remove("a")
	if st := c.Stats(); st.Entries != 0 || st.Cost != 0 {
		t.Errorf("Unexpected stats after remove: %+v", st)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(48) // three 2x2 images
	c.Set("a", rgba(2, 2))
	c.Set("b", rgba(2, 2))
	c.Set("c", rgba(2, 2))

	c.Get("a") // a is now most recent
	c.Set("d", rgba(2, 2))

	if c.Contains("b") {
		t.Error("Expected b evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("Expected %s cached", k)
		}
	}
	if st := c.Stats(); st.Cost > st.MaxCost {
		t.Errorf("Cost %d over ceiling %d", st.Cost, st.MaxCost)
	}
}

func TestOversizeNotStored(t *testing.T) {
	c := New(10)
	c.Set("big", rgba(4, 4))
	if c.Len() != 0 {
		t.Error("Oversize image should not be stored")
	}
}

func TestConcurrentSetSameKey(t *testing.T) {
	c := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("same", rgba(i+1, 1))
			c.Get("same")
		}()
	}
	wg.Wait()

	img, ok := c.Get("same")
	if !ok {
		t.Fatal("Expected key cached")
	}
	if st := c.Stats(); st.Entries != 1 || st.Cost != img.Cost() {
		t.Errorf("Torn state: stats %+v, image cost %d", st, img.Cost())
	}
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"dog.png":       {Data: pngBytes(t, 3, 2)},
		"Eiffel.png":    {Data: pngBytes(t, 1, 1)},
		"broken.png":    {Data: []byte("not an image")},
		"raw/exact.png": {Data: pngBytes(t, 2, 2)},
	}
	l := NewFSLoader(fsys)
	ctx := context.Background()

	img, err := l.Load(ctx, "dog")
	if err != nil {
		t.Fatalf("Load(dog) failed: %v", err)
	}
	if img.Key != "dog" || img.Cost() != 24 {
		t.Errorf("Unexpected image: key=%q cost=%d", img.Key, img.Cost())
	}

	if _, err := l.Load(ctx, "raw/exact.png"); err != nil {
		t.Errorf("Load(raw/exact.png) failed: %v", err)
	}
	if _, err := l.Load(ctx, "cat"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Load(cat) = %v, want ErrNotFound", err)
	}
	if _, err := l.Load(ctx, "../etc/passwd"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Load(../etc/passwd) = %v, want ErrNotFound", err)
	}
	if _, err := l.Load(ctx, "broken"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Errorf("Load(broken) = %v, want decode error", err)
	}
}

func TestFetchPopulatesCache(t *testing.T) {
	var loads atomic.Int32
	l := LoaderFunc(func(_ context.Context, key string) (Image, error) {
		loads.Add(1)
		return rgba(1, 1), nil
	})
	c := New(0)

	for i := 0; i < 3; i++ {
		if _, err := Fetch(context.Background(), c, l, "dog"); err != nil {
			t.Fatalf("Fetch() failed: %v", err)
		}
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("Expected 1 load, got %d", n)
	}
}

func TestFetchError(t *testing.T) {
	l := LoaderFunc(func(context.Context, string) (Image, error) {
		return Image{}, core.ErrNotFound
	})
	c := New(0)
	if _, err := Fetch(context.Background(), c, l, "x"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Fetch() = %v, want ErrNotFound", err)
	}
	if c.Len() != 0 {
		t.Error("Failed fetch must not cache")
	}
}

func TestPrefetch(t *testing.T) {
	l := LoaderFunc(func(_ context.Context, key string) (Image, error) {
		if key == "missing" {
			return Image{}, fmt.Errorf("no asset: %w", core.ErrNotFound)
		}
		return rgba(1, 1), nil
	})
	c := New(0)
	c.Set("warm", rgba(1, 1))

	res, err := Prefetch(context.Background(), c, l, []string{"a", "b", "warm", "missing", "c"}, 2)
	if err != nil {
		t.Fatalf("Prefetch() failed: %v", err)
	}
	if res.Loaded != 3 || res.Cached != 1 || res.Missing != 1 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if c.Len() != 4 {
		t.Errorf("Expected 4 cached images, got %d", c.Len())
	}
}

func TestPrefetchStopsOnError(t *testing.T) {
	boom := errors.New("disk read failed")
	l := LoaderFunc(func(_ context.Context, key string) (Image, error) {
		if key == "bad" {
			return Image{}, boom
		}
		return rgba(1, 1), nil
	})

	_, err := Prefetch(context.Background(), New(0), l, []string{"bad", "ok"}, 1)
	if !errors.Is(err, boom) {
		t.Errorf("Prefetch() = %v, want %v", err, boom)
	}
}

func TestPrefetchBoundedWorkers(t *testing.T) {
	var active, peak atomic.Int32
	release := make(chan struct{})
	l := LoaderFunc(func(context.Context, string) (Image, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		active.Add(-1)
		return rgba(1, 1), nil
	})

	keys := []string{"a", "b", "c", "d", "e", "f"}
	done := make(chan struct{})
	go func() {
		Prefetch(context.Background(), New(0), l, keys, 2)
		close(done)
	}()
	for range keys {
		release <- struct{}{}
	}
	<-done

	if p := peak.Load(); p > 2 {
		t.Errorf("Expected at most 2 concurrent loads, got %d", p)
	}
}
