package animation

import (
	"container/list"
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// cacheKey identifies one transformed frame. Two requests for the same frame
// name with a different scale or flip are distinct entries: the cache stores
// post-transform pixels, not originals, because the transform is the
// expensive step being amortized.
type cacheKey struct {
	name  string
	scale Scale
	flip  Flip
}

func (k cacheKey) String() string {
	return fmt.Sprintf("(%s, %dx%d, flip %t/%t)", k.name, k.scale.W, k.scale.H, k.flip.X, k.flip.Y)
}

type cacheEntry struct {
	key   cacheKey
	image *ebiten.Image
}

// processFunc resolves a frame name and applies scale and flip. It runs
// outside the cache lock, so it may take its time and may touch the cache
// again from callbacks without deadlocking.
type processFunc func(name string, scale Scale, flip Flip) (*ebiten.Image, error)

// frameCache is a bounded LRU store of transformed frames. The list front is
// the most recently used entry; eviction removes from the back. A single
// mutex guards the map, the list and the capacity; image processing never
// runs under it.
type frameCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	order   *list.List
	max     int

	process     processFunc
	placeholder *ebiten.Image
	log         Logger
}

func newFrameCache(max int, process processFunc, placeholder *ebiten.Image, log Logger) *frameCache {
	return &frameCache{
		entries:     make(map[cacheKey]*list.Element),
		order:       list.New(),
		max:         max,
		process:     process,
		placeholder: placeholder,
		log:         log,
	}
}

// Get returns the transformed image for (name, scale, flip), memoized. A hit
// promotes the entry to most-recently-used. A miss runs the process
// capability and inserts the result, evicting the least-recently-used entry
// when at capacity. A processing failure is logged and answered with the
// placeholder image, which is never inserted, so the next call retries.
func (c *frameCache) Get(name string, scale Scale, flip Flip) *ebiten.Image {
	key := cacheKey{name: name, scale: scale, flip: flip}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		img := el.Value.(*cacheEntry).image
		c.mu.Unlock()
		return img
	}
	c.mu.Unlock()

	img, err := c.process(name, scale, flip)
	if err != nil {
		c.log.Errorf("image processing failed: %s - %v", name, err)
		return c.placeholder
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		// Another goroutine processed the same key first; keep its entry.
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).image
	}
	for len(c.entries) >= c.max {
		c.evictOldest()
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, image: img})
	c.log.Infof("cached new image: %v", key)
	return img
}

// evictOldest removes the least-recently-used entry. Callers hold c.mu.
func (c *frameCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*cacheEntry)
	c.order.Remove(el)
	delete(c.entries, entry.key)
}

// Len returns the current number of cached entries.
func (c *frameCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether the exact key is currently cached, without
// touching recency.
func (c *frameCache) Contains(name string, scale Scale, flip Flip) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[cacheKey{name: name, scale: scale, flip: flip}]
	return ok
}

// Resize changes the capacity, evicting the oldest entries when shrinking
// below the current occupancy. Capacities below MinCacheSize are rejected.
func (c *frameCache) Resize(max int) error {
	if max < MinCacheSize {
		return fmt.Errorf("%w: %d (minimum %d)", ErrCacheSize, max, MinCacheSize)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.max = max
	for len(c.entries) > max {
		c.evictOldest()
	}
	return nil
}

// Clear empties the cache.
func (c *frameCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	c.log.Infof("cache cleared")
}

// Release best-effort-scrubs the pixel memory of every cached image plus the
// displayed image handed in by the player, then clears the cache. Each scrub
// is isolated: one failure is logged and the rest still run.
func (c *frameCache) Release(displayed *ebiten.Image) {
	c.mu.Lock()
	images := make([]*ebiten.Image, 0, len(c.entries)+1)
	if displayed != nil {
		images = append(images, displayed)
	}
	for el := c.order.Front(); el != nil; el = el.Next() {
		images = append(images, el.Value.(*cacheEntry).image)
	}
	c.entries = make(map[cacheKey]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	for _, img := range images {
		c.scrub(img)
	}
	c.log.Infof("cache released")
}

func (c *frameCache) scrub(img *ebiten.Image) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warnf("failed to scrub image: %v", r)
		}
	}()
	img.Deallocate()
}

// Info returns a snapshot of the cache occupancy for debugging.
func (c *frameCache) Info() CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	info := CacheInfo{Size: len(c.entries), MaxSize: c.max}
	for el := c.order.Back(); el != nil && len(info.SampleKeys) < sampleKeyCount; el = el.Prev() {
		info.SampleKeys = append(info.SampleKeys, el.Value.(*cacheEntry).key.String())
	}
	return info
}

// CacheInfo describes the cache occupancy at one point in time. SampleKeys
// holds up to three keys in oldest-first order.
type CacheInfo struct {
	Size       int
	MaxSize    int
	SampleKeys []string
}

func (ci CacheInfo) String() string {
	return fmt.Sprintf("%d/%d [%s]", ci.Size, ci.MaxSize, strings.Join(ci.SampleKeys, ", "))
}
