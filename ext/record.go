package ext

import (
	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/value"
)

// RecordExtension backs both the fixed ext8/fixext record form and the
// 0x40-0x7F record-reference range (decode/step.go routes the range form
// here directly with the identifier already computed).
//
// The two-byte extended record-id form acknowledged as a TODO in the
// source (extension.py's `identifier2 << 5 + identifier1`, almost
// certainly a Python operator-precedence bug: `<< (5 + identifier1)`) is
// not implemented; see DESIGN.md Open Question decisions.
type RecordExtension struct{}

// Unpack validates and extracts the record identifier from a one-byte
// payload. This path is only reachable if a record is ever framed as an
// actual ext type 114 rather than the 0x40-0x7F range; the range form
// calls PostUnpack directly with the identifier already known.
func (RecordExtension) Unpack(_ Decoder, data []byte, pos, length int) (any, error) {
	if length != 1 {
		return nil, errs.ErrUnsupportedRecordForm
	}

	id := int(data[pos])
	if id < 0x40 || id > 0x7F {
		return nil, errs.ErrBadExtPayload
	}

	return id & 0x3F, nil
}

// PostUnpack looks up or decodes the field-name key list for the record
// identifier, then reads one value per key in order.
func (RecordExtension) PostUnpack(dec Decoder, data []byte, pos int, intermediate any) (int, StepResult, error) {
	id, ok := intermediate.(int)
	if !ok {
		return pos, StepResult{}, errs.ErrBadExtPayload
	}

	records := dec.Records()
	if records == nil {
		return pos, StepResult{}, errs.ErrRecordsDisabled
	}

	keys, cached := records[id]
	if !cached {
		var keysVal value.Value

		var err error
		pos, keysVal, err = dec.Step(data, pos, &format.Array)
		if err != nil {
			return pos, StepResult{}, err
		}

		elems := keysVal.Array()
		keys = make([]string, len(elems))
		for i, e := range elems {
			if e.Kind() != value.KindStr {
				return pos, StepResult{}, errs.ErrBadRecordKeys
			}
			keys[i] = e.Str()
		}

		records[id] = keys
	}

	m := value.NewOrderedMap(len(keys))
	for _, key := range keys {
		var v value.Value

		var err error
		pos, v, err = dec.Step(data, pos, nil)
		if err != nil {
			return pos, StepResult{}, err
		}

		m.Set(value.Str(key), v)
	}

	return pos, Yield(value.Map(m)), nil
}
