// Package snapshot persists and restores a Decoder's exported session
// state (decode.State) as a compressed blob, so a long-lived bundled-
// strings pool or records cache can survive a process restart or be
// shipped to a warm-standby decoder.
package snapshot

import "fmt"

// Algorithm identifies a snapshot compression codec.
type Algorithm uint8

const (
	// AlgorithmNone stores the gob-encoded state uncompressed.
	AlgorithmNone Algorithm = iota
	// AlgorithmZstd gives the best ratio, at the most CPU cost.
	AlgorithmZstd
	// AlgorithmS2 balances ratio and speed.
	AlgorithmS2
	// AlgorithmLZ4 favors fast decompression over ratio.
	AlgorithmLZ4
)

// String renders the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmS2:
		return "s2"
	case AlgorithmLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a gob-encoded state blob.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a blob produced by a matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Algorithm]Codec{
	AlgorithmNone: NoOpCodec{},
	AlgorithmZstd: ZstdCodec{},
	AlgorithmS2:   S2Codec{},
	AlgorithmLZ4:  LZ4Codec{},
}

// CodecFor returns the built-in Codec for the given algorithm.
func CodecFor(a Algorithm) (Codec, error) {
	if c, ok := builtinCodecs[a]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("snapshot: unsupported algorithm %s", a)
}
