package decode

import (
	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/value"
)

// Unpack decodes exactly one value from data.
//
// If allowRemaining is false, any bytes left unconsumed after the value is
// read produce errs.ErrTrailingData. If allowRemaining is true, trailing
// bytes are silently ignored.
func (d *Decoder) Unpack(data []byte, allowRemaining bool) (value.Value, error) {
	pos, v, err := d.step(data, 0, nil, 0)
	if err != nil {
		return value.Value{}, err
	}

	if !allowRemaining && pos != len(data) {
		return value.Value{}, errs.ErrTrailingData
	}

	return v, nil
}

// UnpackMultiple decodes values from data until the buffer is exhausted,
// returning them in order.
func (d *Decoder) UnpackMultiple(data []byte) ([]value.Value, error) {
	var out []value.Value

	pos := 0
	for pos < len(data) {
		newPos, v, err := d.step(data, pos, nil, 0)
		if err != nil {
			return out, err
		}

		out = append(out, v)
		pos = newPos
	}

	return out, nil
}
