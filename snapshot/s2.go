package snapshot

import "github.com/klauspost/compress/s2"

// S2Codec balances compression ratio and speed; the default choice for
// snapshots taken on a hot path (e.g. before a speculative read).
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
