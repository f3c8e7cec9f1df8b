package ext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/mpackr/value"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := NewRegistry(true)

	for _, code := range []int8{-1, 0, 66, 98, 101, 114, 115} {
		_, ok := r.Lookup(code)
		assert.True(t, ok, "code %d should be registered", code)
	}
}

func TestNewRegistryWithoutBundledStrings(t *testing.T) {
	r := NewRegistry(false)

	_, ok := r.Lookup(98)
	assert.False(t, ok)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry(false)

	err := r.Register(false, Extension{Type: -1, Unpacker: TimestampExtension{}})
	require.Error(t, err)

	_, ok := r.Lookup(-1)
	assert.True(t, ok, "original registration must survive a rejected duplicate")
}

func TestRegistryRegisterReplace(t *testing.T) {
	r := NewRegistry(false)
	custom := Extension{Type: -1, Unpacker: UndefinedExtension{}}

	err := r.Register(true, custom)
	require.NoError(t, err)

	e, ok := r.Lookup(-1)
	require.True(t, ok)
	assert.IsType(t, UndefinedExtension{}, e.Unpacker)
}

func TestYieldAndSkipResult(t *testing.T) {
	y := Yield(value.Nil())
	assert.False(t, y.Skip)

	assert.True(t, SkipResult.Skip)
}
