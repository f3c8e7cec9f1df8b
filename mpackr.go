// Package mpackr decodes the msgpackr wire dialect: standard MessagePack
// plus its non-standard bundled-strings, records, and typed-extension
// conventions.
//
// # Core Features
//
//   - Standard MessagePack decoding (nil, bool, int, float, str, bin,
//     array, map, ext)
//   - Bundled strings: an out-of-band string pool referenced by a compact
//     0xC1 length-prefixed pointer
//   - Records: structural sharing of repeated object key lists via a
//     6-bit cached identifier
//   - Seven built-in typed extensions: timestamp, undefined, bigint,
//     bundled-strings, error, record, set
//   - Decoder session state (the bundled-strings pool and the records
//     cache) may be exported and restored, enabling speculative reads and
//     cross-process snapshots
//
// # Basic Usage
//
//	import "github.com/arloliu/mpackr"
//
//	dec, _ := mpackr.NewDecoder()
//	v, err := dec.Unpack(data, false)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(v.Kind())
//
// Decoding a stream of concatenated values:
//
//	values, err := dec.UnpackMultiple(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the decode
// package. For extension registration, code-table overrides, and session
// state export/restore, use the decode package directly. The cache
// package memoizes repeated decodes of identical input; the snapshot
// package persists decode.State to a compressed blob.
package mpackr

import (
	"fmt"

	"github.com/arloliu/mpackr/decode"
	"github.com/arloliu/mpackr/ext"
	"github.com/arloliu/mpackr/value"
)

// Decoder re-exports decode.Decoder for callers that only import the
// top-level package.
type Decoder = decode.Decoder

// Option re-exports decode.Option.
type Option = decode.Option

// NewDecoder creates a Decoder with the default extension registry
// (bundled strings and records both enabled) and the given options
// applied on top. See decode.NewDecoder for the full option set.
func NewDecoder(opts ...Option) (*Decoder, error) {
	return decode.NewDecoder(opts...)
}

// Unpack decodes exactly one value from data using a fresh Decoder with
// default options. For repeated decodes, construct a Decoder once via
// NewDecoder and reuse it: a fresh Decoder per call discards the records
// cache and bundled-strings pool between calls.
func Unpack(data []byte, allowRemaining bool) (value.Value, error) {
	dec, err := decode.NewDecoder()
	if err != nil {
		return value.Value{}, err
	}

	return dec.Unpack(data, allowRemaining)
}

// UnpackMultiple decodes values from data until exhausted, using a fresh
// Decoder with default options.
func UnpackMultiple(data []byte) ([]value.Value, error) {
	dec, err := decode.NewDecoder()
	if err != nil {
		return nil, err
	}

	return dec.UnpackMultiple(data)
}

// Describe renders a decoded value for logs and error messages. Every kind
// uses a short Go representation except KindError, whose JS-originated type
// code is resolved to a descriptive name via ext.DescribeError rather than
// printed as a bare integer.
func Describe(v value.Value) string {
	switch v.Kind() {
	case value.KindError:
		return ext.DescribeError(v.Error())
	case value.KindNil:
		return "nil"
	case value.KindUndefined:
		return "undefined"
	case value.KindBool:
		return fmt.Sprintf("%v", v.Bool())
	case value.KindInt:
		return fmt.Sprintf("%d", v.Int())
	case value.KindFloat:
		return fmt.Sprintf("%g", v.Float())
	case value.KindStr:
		return v.Str()
	case value.KindBin:
		return fmt.Sprintf("bin(%d bytes)", len(v.Bin()))
	case value.KindArray:
		return fmt.Sprintf("array(%d elements)", len(v.Array()))
	case value.KindMap:
		return fmt.Sprintf("map(%d entries)", v.Map().Len())
	case value.KindTimestamp:
		return v.Timestamp().String()
	case value.KindBigInt:
		return v.BigInt().String()
	case value.KindSet:
		return fmt.Sprintf("set(%d elements)", len(v.Set()))
	default:
		return fmt.Sprintf("unknown(%d)", v.Kind())
	}
}
