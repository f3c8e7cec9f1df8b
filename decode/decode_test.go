package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/mpackr/errs"
)

func TestUnpackNil(t *testing.T) {
	dec := newTestDecoder(t)

	v, err := dec.Unpack([]byte{0xC0}, false)
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestUnpackArray(t *testing.T) {
	dec := newTestDecoder(t)

	v, err := dec.Unpack([]byte{0x93, 0x01, 0x02, 0x03}, false)
	require.NoError(t, err)

	elems := v.Array()
	require.Len(t, elems, 3)
	assert.Equal(t, int64(1), elems[0].Int())
	assert.Equal(t, int64(2), elems[1].Int())
	assert.Equal(t, int64(3), elems[2].Int())
}

func TestUnpackMap(t *testing.T) {
	dec := newTestDecoder(t)

	data := []byte{0x82, 0xA1, 'a', 0x01, 0xA1, 'b', 0xC3}
	v, err := dec.Unpack(data, false)
	require.NoError(t, err)

	entries := v.Map().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key.Str())
	assert.Equal(t, int64(1), entries[0].Value.Int())
	assert.Equal(t, "b", entries[1].Key.Str())
	assert.Equal(t, true, entries[1].Value.Bool())
}

func TestUnpackTimestampExt8(t *testing.T) {
	dec := newTestDecoder(t)

	data := []byte{0xC7, 0x04, 0xFF, 0x00, 0x00, 0x00, 0x00}
	v, err := dec.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Timestamp().Unix())
}

func TestUnpackTimestampFixExt4(t *testing.T) {
	dec := newTestDecoder(t)

	data := []byte{0xD6, 0xFF, 0x00, 0x00, 0x00, 0x00}
	v, err := dec.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Timestamp().Unix())
}

func TestUnpackBundledStrings(t *testing.T) {
	dec := newTestDecoder(t)

	// Installer: ext8, type 98, U = 6, declared payload length 4, so the
	// pool begins 6-4 = 2 bytes after the payload ends. Those 2 bytes are
	// the reference (0xC1 0x01) that resolves against the pool once it is
	// installed; the pool itself immediately follows.
	installer := []byte{0xC7, 0x04, 98, 0x00, 0x00, 0x00, 0x06}
	ref := []byte{0xC1, 0x01} // reference: right string, length 1 -> "b"
	pool := []byte{
		0xA3, 'f', 'o', 'o', // "foo" (left)
		0xA3, 'b', 'a', 'r', // "bar" (right)
	}
	data := append(append(append([]byte{}, installer...), ref...), pool...)

	v, err := dec.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, "b", v.Str())
}

func TestUnpackRecordsFirstAndSecondOccurrence(t *testing.T) {
	dec := newTestDecoder(t)

	first := []byte{0x40, 0x92, 0xA1, 'a', 0xA1, 'b', 0x01, 0x02}
	v, err := dec.Unpack(first, false)
	require.NoError(t, err)

	entries := v.Map().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key.Str())
	assert.Equal(t, int64(1), entries[0].Value.Int())

	second := []byte{0x40, 0x03, 0x04}
	v2, err := dec.Unpack(second, false)
	require.NoError(t, err)

	entries2 := v2.Map().Entries()
	require.Len(t, entries2, 2)
	assert.Equal(t, "a", entries2[0].Key.Str())
	assert.Equal(t, int64(3), entries2[0].Value.Int())
}

func TestUnpackRecordsDisabledFallsBackToFixint(t *testing.T) {
	dec, err := NewDecoder(WithRecords(false))
	require.NoError(t, err)

	v, err := dec.Unpack([]byte{0x40}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0x40), v.Int())
}

func TestUnpackTrailingDataPolicy(t *testing.T) {
	dec := newTestDecoder(t)

	_, err := dec.Unpack([]byte{0xC0, 0xC0}, false)
	require.ErrorIs(t, err, errs.ErrTrailingData)

	v, err := dec.Unpack([]byte{0xC0, 0xC0}, true)
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}

func TestUnpackMultiple(t *testing.T) {
	dec := newTestDecoder(t)

	values, err := dec.UnpackMultiple([]byte{0xC0, 0xC3, 0xC2})
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.True(t, values[0].IsNil())
	assert.True(t, values[1].Bool())
	assert.False(t, values[2].Bool())
}

func TestUnpackBadUTF8(t *testing.T) {
	dec := newTestDecoder(t)

	_, err := dec.Unpack([]byte{0xA1, 0xFF}, false)
	require.ErrorIs(t, err, errs.ErrBadUTF8)
}

func TestUnpackBundledStringRefWithoutPool(t *testing.T) {
	dec := newTestDecoder(t)

	_, err := dec.Unpack([]byte{0xC1, 0x00}, false) // 0xC1 len 0 with no bundle installed -> missing
	require.Error(t, err)
}

func TestUnpackUint64LargeMagnitude(t *testing.T) {
	dec := newTestDecoder(t)

	data := []byte{0xCF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	v, err := dec.Unpack(data, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), uint64(v.Int()))
}

func TestExportRestoreState(t *testing.T) {
	dec := newTestDecoder(t)

	_, err := dec.Unpack([]byte{0x40, 0x91, 0xA1, 'x', 0x01}, false)
	require.NoError(t, err)

	state := dec.ExportState()

	fresh, err := NewDecoder()
	require.NoError(t, err)
	fresh.RestoreState(state, true)

	v, err := fresh.Unpack([]byte{0x40, 0x02}, false)
	require.NoError(t, err)
	assert.Equal(t, "x", v.Map().Entries()[0].Key.Str())
	assert.Equal(t, int64(2), v.Map().Entries()[0].Value.Int())
}

func newTestDecoder(t *testing.T) *Decoder {
	t.Helper()

	dec, err := NewDecoder()
	require.NoError(t, err)

	return dec
}
