package snapshot

// ZstdCodec gives the best compression ratio of the built-in codecs, for
// snapshots headed to cold storage or across a slow link. Its Compress and
// Decompress methods live in zstd_pure.go (default, klauspost/compress) or
// zstd_cgo.go (only with the nobuild tag, valyala/gozstd), but the type itself is declared
// here unconditionally so the package compiles regardless of which build
// tag is active.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
