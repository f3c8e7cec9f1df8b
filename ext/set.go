package ext

import (
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/value"
)

// SetExtension decodes extension type 115: an empty declared payload
// whose post-unpack phase reads one array, interpreted by the consumer as
// a set (duplicate elements are not de-duplicated by the decoder).
type SetExtension struct{}

// Unpack returns nil; the set extension carries no fixed-length payload.
func (SetExtension) Unpack(_ Decoder, _ []byte, _, _ int) (any, error) {
	return nil, nil
}

// PostUnpack reads one array restricted to ARRAY codes and wraps it as a
// Set value.
func (SetExtension) PostUnpack(dec Decoder, data []byte, pos int, _ any) (int, StepResult, error) {
	pos, arr, err := dec.Step(data, pos, &format.Array)
	if err != nil {
		return pos, StepResult{}, err
	}

	return pos, Yield(value.Set(arr.Array())), nil
}
