package ext

import (
	"encoding/binary"

	"github.com/arloliu/mpackr/format"
)

// BundledStringsExtension installs the out-of-band string pool (extension
// type 98). Its Unpack phase only computes the pool's offset; PostUnpack
// resolves that offset against the stream, reads the two pool strings, and
// installs the populated pool on the decoder, returning SkipResult —
// decode/step.go loops to decode the next item at the returned position
// rather than yielding a value here (spec.md §4.4).
type BundledStringsExtension struct{}

// bundleOffset is the intermediate result of Unpack: the byte distance
// from the position just after the ext payload to where the pool's two
// strings begin.
type bundleOffset int

// Unpack reads the single big-endian uint32 U from the payload and
// computes the initial offset U - length, per spec.md §4.4.
func (BundledStringsExtension) Unpack(_ Decoder, data []byte, pos, length int) (any, error) {
	u := binary.BigEndian.Uint32(data[pos : pos+4])
	return bundleOffset(int(u) - length), nil
}

// PostUnpack computes begin = pos + offset, decodes the two pool strings
// at begin (restricted to STR codes), and installs the populated pool.
// It returns pos unchanged (not begin): the dispatcher's skip_bundle hook
// is responsible for jumping over [begin, end) once a reader's position
// first reaches begin (spec.md §4.2 step 6, §4.4).
func (BundledStringsExtension) PostUnpack(dec Decoder, data []byte, pos int, intermediate any) (int, StepResult, error) {
	offset, ok := intermediate.(bundleOffset)
	if !ok {
		return pos, SkipResult, nil
	}

	begin := pos + int(offset)

	next, leftVal, err := dec.Step(data, begin, &format.Str)
	if err != nil {
		return pos, StepResult{}, err
	}

	end, rightVal, err := dec.Step(data, next, &format.Str)
	if err != nil {
		return pos, StepResult{}, err
	}

	dec.InstallBundle(begin, end, leftVal.Str(), rightVal.Str())

	return pos, SkipResult, nil
}
