package embedding

import (
	"container/list"
	"crypto/sha256"
	"sync"
)

// textKey identifies a text by digest so long sections are not held as map keys.
type textKey [sha256.Size]byte

type cachedVector struct {
	key textKey
	vec []float32
}

// VectorCache is a bounded least-recently-used store of embeddings keyed by
// text. Returned slices are shared; callers must not modify them. A nil
// cache, or one with a limit of zero or less, stores nothing.
type VectorCache struct {
	mu    sync.Mutex
	limit int
	index map[textKey]*list.Element
	order *list.List // front is most recently used
}

// NewVectorCache returns a cache holding at most limit vectors.
func NewVectorCache(limit int) *VectorCache {
	if limit <= 0 {
		return nil
	}
	return &VectorCache{
		limit: limit,
		index: make(map[textKey]*list.Element, limit),
		order: list.New(),
	}
}

// Lookup returns the vector stored for text and marks it recently used.
func (c *VectorCache) Lookup(text string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	key := sha256.Sum256([]byte(text))

	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cachedVector).vec, true
}

// Store records vec for text. The least recently used vector is dropped
// once the cache is over its limit.
func (c *VectorCache) Store(text string, vec []float32) {
	if c == nil {
		return
	}
	key := sha256.Sum256([]byte(text))

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		el.Value.(*cachedVector).vec = vec
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(&cachedVector{key: key, vec: vec})
	for c.order.Len() > c.limit {
		c.evict(c.order.Back())
	}
}

func (c *VectorCache) evict(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*cachedVector).key)
}

// Len reports how many vectors are stored.
func (c *VectorCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
