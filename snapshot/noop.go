package snapshot

// NoOpCodec stores the state blob uncompressed. Useful for testing and for
// deployments where the snapshot already lives on compressed storage.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
