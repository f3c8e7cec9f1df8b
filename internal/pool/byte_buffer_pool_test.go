package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)
	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, bb.Len())
	assert.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	assert.Equal(t, 0, bb.Len())
}

func TestByteBufferMustWrite(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.MustWrite([]byte("abc"))
	assert.Equal(t, []byte("abc"), bb.Bytes())
}

func TestPoolGetPutRoundTrip(t *testing.T) {
	p := NewPool(DefaultSize, MaxThreshold)

	bb := p.Get()
	bb.MustWrite([]byte("staged"))
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len(), "Put must reset the buffer before it is reused")
}

func TestPoolPutDiscardsOversizedBuffer(t *testing.T) {
	p := NewPool(4, 8)

	bb := NewByteBuffer(4)
	bb.MustWrite(make([]byte, 16)) // grows capacity past maxThreshold

	p.Put(bb) // must not panic; oversized buffer is simply dropped
}

func TestDefaultPoolGetPut(t *testing.T) {
	bb := Get()
	bb.MustWrite([]byte("x"))
	Put(bb)
}
