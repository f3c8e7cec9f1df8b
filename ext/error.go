package ext

import (
	"fmt"

	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/value"
)

// KnownErrorKinds names the JS-originated error type codes carried by the
// error extension, restored from the source's `Error.ERRORS` table
// (extension.py). Decoding never consults this table to pick a Go error
// type — DescribeError is its only consumer.
var KnownErrorKinds = map[int64]string{
	0: "Error",
	1: "TypeError",
	2: "ReferenceError",
}

// DescribeError renders an ErrorValue for logs and diagnostics as
// "<kind>: <message>", falling back to the raw numeric type code when it
// isn't one of KnownErrorKinds (a future JS error subtype the table hasn't
// been updated for). value.ErrorValue itself stays a plain data struct;
// ext owns the name table so value has no reason to import ext.
func DescribeError(e *value.ErrorValue) string {
	if e == nil {
		return "<nil>"
	}

	kind, ok := KnownErrorKinds[e.Type]
	if !ok {
		kind = fmt.Sprintf("Error(%d)", e.Type)
	}

	return fmt.Sprintf("%s: %s", kind, e.Message)
}

// ErrorExtension decodes extension type 101: an empty declared payload
// whose post-unpack phase reads a 3-element array {type, message, cause}.
type ErrorExtension struct{}

// Unpack returns nil; the error extension carries no fixed-length payload.
func (ErrorExtension) Unpack(_ Decoder, _ []byte, _, _ int) (any, error) {
	return nil, nil
}

// PostUnpack reads one array, restricted to ARRAY codes, and validates it
// has exactly three elements: (type int, message str, cause str).
func (ErrorExtension) PostUnpack(dec Decoder, data []byte, pos int, _ any) (int, StepResult, error) {
	pos, arr, err := dec.Step(data, pos, &format.Array)
	if err != nil {
		return pos, StepResult{}, err
	}

	elems := arr.Array()
	if len(elems) != 3 {
		return pos, StepResult{}, errs.ErrBadExtPayload
	}

	if elems[0].Kind() != value.KindInt || elems[1].Kind() != value.KindStr || elems[2].Kind() != value.KindStr {
		return pos, StepResult{}, errs.ErrBadExtPayload
	}

	ev := &value.ErrorValue{
		Type:    elems[0].Int(),
		Message: elems[1].Str(),
		Cause:   elems[2].Str(),
	}

	return pos, Yield(value.Error(ev)), nil
}
