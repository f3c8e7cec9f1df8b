package ext

import (
	"time"

	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/value"
)

// TimestampExtension decodes extension type -1: an instant encoded in one
// of three fixed-width forms (4, 8, or 12 bytes). It has no post-unpack
// phase, so Unpack returns the final value.Value directly.
type TimestampExtension struct{}

// Unpack decodes the timestamp payload per spec.md §4.3:
//   - 4 bytes:  uint32 seconds since epoch.
//   - 8 bytes:  uint64 packing 30-bit nanoseconds in the high bits and
//     34-bit seconds in the low bits.
//   - 12 bytes: uint32 nanoseconds followed by int64 seconds (the
//     corrected layout from spec.md §9; the source's 12-byte arithmetic
//     is a known bug and is not replicated).
func (TimestampExtension) Unpack(_ Decoder, data []byte, pos, length int) (any, error) {
	switch length {
	case 4:
		secs := uint64(be32(data[pos : pos+4]))
		return value.Timestamp(time.Unix(int64(secs), 0).UTC()), nil

	case 8:
		e := be64(data[pos : pos+8])
		secs := int64(e & 0x3FFFFFFFF)
		nsecs := int64(e >> 34)

		return value.Timestamp(time.Unix(secs, nsecs).UTC()), nil

	case 12:
		nsecs := int64(be32(data[pos : pos+4]))
		secs := int64(be64(data[pos+4 : pos+12]))

		return value.Timestamp(time.Unix(secs, nsecs).UTC()), nil

	default:
		return nil, errs.ErrBadExtPayload
	}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}
