package ext

import "github.com/arloliu/mpackr/value"

// UndefinedExtension decodes extension type 0: an empty payload that
// always yields the distinct Undefined sentinel.
type UndefinedExtension struct{}

// Unpack ignores the payload and returns value.Undefined().
func (UndefinedExtension) Unpack(_ Decoder, _ []byte, _, _ int) (any, error) {
	return value.Undefined(), nil
}
