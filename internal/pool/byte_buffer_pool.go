// Package pool provides pooled byte buffers, used as scratch space for
// staging Bin payloads during decode and for gob-encoding snapshot blobs.
package pool

import "sync"

// DefaultSize is the initial capacity of a buffer obtained from the
// default pool.
const DefaultSize = 4096

// MaxThreshold is the largest buffer the default pool retains; larger
// buffers are discarded on Put rather than pinned in the pool forever.
const MaxThreshold = 1024 * 256

// ByteBuffer is a growable byte slice wrapper, reset and reused via Pool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// MustWrite appends data to the buffer, ignoring the impossible error.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Pool is a sync.Pool of ByteBuffers with a size-based retention cutoff.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize and are
// discarded on Put once they grow past maxThreshold.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool, discarding it if it grew past the
// pool's maxThreshold.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewPool(DefaultSize, MaxThreshold)

// Get retrieves a ByteBuffer from the package default pool.
func Get() *ByteBuffer { return defaultPool.Get() }

// Put returns a ByteBuffer to the package default pool.
func Put(bb *ByteBuffer) { defaultPool.Put(bb) }
