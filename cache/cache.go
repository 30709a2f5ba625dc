// Package cache memoizes computed bundles and finds donor bundles for
// style sharing, per §4.6. Its hit/miss counters and single-writer
// discipline follow the teacher's sync.Map-guarded rulesTreeType
// (dom/style/cssom/cssom.go), generalized from a stylesheet registry to a
// bundle cache with explicit stats and invalidation.
package cache

import (
	"hash/fnv"
	"sort"
	"strconv"
	"sync"

	"stylo/domiface"
	"stylo/stylist"
	"stylo/value"
)

// Fingerprint is an opaque hash summarizing a matching context.
type Fingerprint uint64

// Key is the cache key: a selector-match fingerprint, an optional parent
// bundle fingerprint, and the element's dynamic state flags.
type Key struct {
	MatchFingerprint  Fingerprint
	ParentFingerprint Fingerprint
	HasParent         bool
	State             domiface.StateFlags
}

// FingerprintElement hashes an element's structural identity: tag name plus
// sorted class list plus id-presence, the inputs style sharing requires to
// be equal per §8 ("two elements share a bundle only if their tag names
// and class multisets are equal and neither has an id").
func FingerprintElement(el domiface.Element) Fingerprint {
	h := fnv.New64a()
	h.Write([]byte(el.TagName()))
	h.Write([]byte{0})
	classes := append([]string(nil), el.Classes()...)
	sort.Strings(classes)
	for _, c := range classes {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	if el.ID() != "" {
		h.Write([]byte("#id#"))
		h.Write([]byte(el.ID()))
	}
	return Fingerprint(h.Sum64())
}

// FingerprintBundle hashes a bundle's resolved properties for use as a
// parent fingerprint.
func FingerprintBundle(b *stylist.ComputedBundle) Fingerprint {
	if b == nil {
		return 0
	}
	ids := make([]int, 0, len(b.Properties))
	for id := range b.Properties {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	h := fnv.New64a()
	for _, id := range ids {
		v := b.Properties[value.PropertyID(id)]
		h.Write([]byte(strconv.Itoa(id)))
		h.Write([]byte{':'})
		h.Write([]byte(strconv.FormatFloat(v.Px, 'g', -1, 64)))
		h.Write([]byte(v.Keyword))
		h.Write([]byte{0})
	}
	return Fingerprint(h.Sum64())
}

type entry struct {
	bundle *stylist.ComputedBundle
}

// Cache is a mutable, single-writer computed-bundle cache with hit/miss
// telemetry.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	byElem  map[string]Key // element id -> last cache key, for invalidate(element)
	hits    uint64
	misses  uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]entry), byElem: make(map[string]Key)}
}

// Get looks up a bundle, updating hit/miss counters.
func (c *Cache) Get(key Key) (*stylist.ComputedBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if ok {
		c.hits++
		return e.bundle, true
	}
	c.misses++
	return nil, false
}

// Peek looks up a bundle without affecting hit/miss counters, for read-only
// probes such as the style-sharing donor search.
func (c *Cache) Peek(key Key) (*stylist.ComputedBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.bundle, ok
}

// Insert stores a bundle under key, associating it with elementID for a
// later Invalidate(elementID).
func (c *Cache) Insert(key Key, elementID string, b *stylist.ComputedBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{bundle: b}
	c.byElem[elementID] = key
}

// Invalidate removes elementID's cache entry, if any.
func (c *Cache) Invalidate(elementID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key, ok := c.byElem[elementID]; ok {
		delete(c.entries, key)
		delete(c.byElem, elementID)
	}
}

// Clear drops every entry and zeroes stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
	c.byElem = make(map[string]Key)
	c.hits, c.misses = 0, 0
}

// Size returns the number of cached bundles.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// HitRate returns hits/(hits+misses), 0 if there have been none of either.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

