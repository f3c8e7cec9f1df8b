package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/mpackr/decode"
)

func newTestDecoder(t *testing.T) *decode.Decoder {
	t.Helper()

	dec, err := decode.NewDecoder()
	require.NoError(t, err)

	return dec
}

func TestCacheUnpackMemoizes(t *testing.T) {
	dec := newTestDecoder(t)
	c := New(dec)

	data := []byte{0xA3, 'f', 'o', 'o'}

	v1, err := c.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, "foo", v1.Str())
	assert.Equal(t, 1, c.Len())

	v2, err := c.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, "foo", v2.Str())
	assert.Equal(t, 1, c.Len(), "repeated identical input must not grow the cache")
}

func TestCacheUnpackDistinctInputsDoNotCollide(t *testing.T) {
	dec := newTestDecoder(t)
	c := New(dec)

	foo, err := c.Unpack([]byte{0xA3, 'f', 'o', 'o'}, false)
	require.NoError(t, err)

	bar, err := c.Unpack([]byte{0xA3, 'b', 'a', 'r'}, false)
	require.NoError(t, err)

	assert.Equal(t, "foo", foo.Str())
	assert.Equal(t, "bar", bar.Str())
	assert.Equal(t, 2, c.Len())
}

func TestCacheUnpackErrorsAreNotMemoized(t *testing.T) {
	dec := newTestDecoder(t)
	c := New(dec)

	_, err := c.Unpack([]byte{0xA1, 0xFF}, false) // invalid UTF-8
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCacheWithCapacityEvicts(t *testing.T) {
	dec := newTestDecoder(t)
	c := New(dec, WithCapacity(1))

	_, err := c.Unpack([]byte{0xA3, 'f', 'o', 'o'}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = c.Unpack([]byte{0xA3, 'b', 'a', 'r'}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len(), "capacity of 1 must evict before inserting the second entry")
}
