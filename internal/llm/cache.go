package llm

import (
	"container/list"
	"context"
	"sync"
)

// CachedGenerator memoizes successful Generate calls keyed on the
// prompt pair. Capacity-bounded with FIFO eviction; process-local, so a
// redeploy clears it. Failures are never cached.
type CachedGenerator struct {
	inner    Generator
	capacity int

	mu      sync.Mutex
	entries map[cacheKey]*list.Element
	order   *list.List // front = oldest insert
}

type cacheKey struct {
	system string
	user   string
}

type cacheEntry struct {
	key      cacheKey
	response string
}

const defaultCacheCapacity = 256

// NewCachedGenerator wraps inner with a memo cache of the given
// capacity (<=0 uses the default).
func NewCachedGenerator(inner Generator, capacity int) *CachedGenerator {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &CachedGenerator{
		inner:    inner,
		capacity: capacity,
		entries:  make(map[cacheKey]*list.Element, capacity),
		order:    list.New(),
	}
}

var _ Generator = (*CachedGenerator)(nil)

func (c *CachedGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	key := cacheKey{system: systemPrompt, user: userPrompt}

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		resp := el.Value.(*cacheEntry).response
		c.mu.Unlock()
		return resp, nil
	}
	c.mu.Unlock()

	// The remote call happens outside the lock; two concurrent misses on
	// the same key may both call through, which is harmless.
	resp, err := c.inner.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if c.order.Len() >= c.capacity {
			oldest := c.order.Front()
			if oldest != nil {
				c.order.Remove(oldest)
				delete(c.entries, oldest.Value.(*cacheEntry).key)
			}
		}
		c.entries[key] = c.order.PushBack(&cacheEntry{key: key, response: resp})
	}
	return resp, nil
}

// Len reports the current number of cached responses.
func (c *CachedGenerator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
