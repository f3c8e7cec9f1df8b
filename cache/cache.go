// Package cache memoizes Decoder.Unpack results by the xxHash64 digest of
// the input bytes, for callers that repeatedly decode the same payload
// (e.g. replayed messages, deduplicated queue entries).
package cache

import (
	"sync"

	"github.com/arloliu/mpackr/decode"
	"github.com/arloliu/mpackr/internal/hash"
	"github.com/arloliu/mpackr/value"
)

// unpacker is the subset of *decode.Decoder that Cache wraps.
type unpacker interface {
	Unpack(data []byte, allowRemaining bool) (value.Value, error)
}

// Cache wraps a Decoder and memoizes Unpack results keyed by the xxHash64
// digest of the input bytes. It is safe for concurrent use.
//
// A Cache does not memoize UnpackMultiple: bundled-strings and records
// state mutate the wrapped Decoder across items, so a multi-value decode
// is not a pure function of its input bytes alone once that session state
// is already primed by an earlier call.
type Cache struct {
	dec unpacker

	mu      sync.RWMutex
	entries map[uint64]entry
	cap     int
}

type entry struct {
	key string // full input, to guard against a 64-bit hash collision
	val value.Value
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithCapacity bounds the number of distinct digests retained. When the
// bound is reached, one arbitrary existing entry is evicted to make room;
// eviction does not follow insertion or access order. Zero (the default)
// means unbounded.
func WithCapacity(n int) Option {
	return func(c *Cache) { c.cap = n }
}

// New wraps dec with a memoizing cache.
func New(dec unpacker, opts ...Option) *Cache {
	c := &Cache{dec: dec, entries: make(map[uint64]entry)}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Unpack returns the memoized result for data's digest if one exists and
// the stored input matches byte-for-byte (guarding against a hash
// collision); otherwise it decodes via the wrapped Decoder and stores the
// result.
func (c *Cache) Unpack(data []byte, allowRemaining bool) (value.Value, error) {
	h := hash.Bytes(data)

	c.mu.RLock()
	if e, ok := c.entries[h]; ok && e.key == string(data) {
		c.mu.RUnlock()
		return e.val, nil
	}
	c.mu.RUnlock()

	// The wrapped Decoder mutates session state while decoding, so a miss
	// decodes under the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[h]; ok && e.key == string(data) {
		return e.val, nil
	}

	v, err := c.dec.Unpack(data, allowRemaining)
	if err != nil {
		return value.Value{}, err
	}

	if c.cap > 0 && len(c.entries) >= c.cap {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[h] = entry{key: string(data), val: v}

	return v, nil
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
