package ext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetExtensionPostUnpack(t *testing.T) {
	dec := newFakeDecoder()
	data := []byte{0x92, 0x01, 0x02} // fixarray [1, 2]

	pos, result, err := SetExtension{}.PostUnpack(dec, data, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, len(data), pos)

	elems := result.Value.Set()
	require.Len(t, elems, 2)
	assert.Equal(t, int64(1), elems[0].Int())
	assert.Equal(t, int64(2), elems[1].Int())
}
