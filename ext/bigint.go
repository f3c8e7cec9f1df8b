package ext

import (
	"math/big"

	"github.com/arloliu/mpackr/value"
)

// BigIntExtension decodes extension type 66: an arbitrary-precision
// integer encoded as a big-endian unsigned magnitude.
//
// The source's pack() only ever encodes nonnegative integers; decoding a
// hypothetical signed convention is an open question this port does not
// guess at (see DESIGN.md). BigInt values always decode as unsigned
// magnitudes.
type BigIntExtension struct{}

// Unpack interprets the payload as an unsigned big-endian magnitude.
func (BigIntExtension) Unpack(_ Decoder, data []byte, pos, length int) (any, error) {
	n := new(big.Int).SetBytes(data[pos : pos+length])
	return value.BigInt(n), nil
}
