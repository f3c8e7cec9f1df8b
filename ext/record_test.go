package ext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/mpackr/errs"
)

func TestRecordExtensionUnpack(t *testing.T) {
	id, err := RecordExtension{}.Unpack(nil, []byte{0x41}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestRecordExtensionUnpackBadLength(t *testing.T) {
	_, err := RecordExtension{}.Unpack(nil, []byte{0x41, 0x42}, 0, 2)
	require.ErrorIs(t, err, errs.ErrUnsupportedRecordForm)
}

func TestRecordExtensionPostUnpackCachesKeys(t *testing.T) {
	dec := newFakeDecoder()
	// fixarray ["a","b"], then values 1, 2
	data := []byte{
		0x92, 0xA1, 'a', 0xA1, 'b',
		0x01, 0x02,
	}

	pos, result, err := RecordExtension{}.PostUnpack(dec, data, 0, 5)
	require.NoError(t, err)
	require.False(t, result.Skip)
	assert.Equal(t, len(data), pos)

	m := result.Value.Map()
	require.Equal(t, 2, m.Len())
	entries := m.Entries()
	assert.Equal(t, "a", entries[0].Key.Str())
	assert.Equal(t, int64(1), entries[0].Value.Int())
	assert.Equal(t, []string{"a", "b"}, dec.records[5])
}

func TestRecordExtensionPostUnpackReusesCachedKeys(t *testing.T) {
	dec := newFakeDecoder()
	dec.records[9] = []string{"x", "y"}

	data := []byte{0x03, 0x04} // just two values, no key array

	pos, result, err := RecordExtension{}.PostUnpack(dec, data, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, len(data), pos)

	entries := result.Value.Map().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].Key.Str())
	assert.Equal(t, int64(3), entries[0].Value.Int())
}

func TestRecordExtensionPostUnpackRecordsDisabled(t *testing.T) {
	dec := newFakeDecoder()
	dec.recordsNilled = true

	_, _, err := RecordExtension{}.PostUnpack(dec, []byte{0x01}, 0, 1)
	require.ErrorIs(t, err, errs.ErrRecordsDisabled)
}
