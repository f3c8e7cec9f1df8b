package decode

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/ext"
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/internal/pool"
	"github.com/arloliu/mpackr/value"
)

// fixedHandler decodes one item whose lead byte selects a fixed-width or
// length-prefixed reader (everything except the six range groups and the
// bundled-strings reference byte).
type fixedHandler func(d *Decoder, data []byte, pos int) (int, ext.StepResult, error)

// rangeHandler decodes one item whose lead byte falls in one of the six
// range groups (positive/negative fixint, record, fixmap, fixarray,
// fixstr). code is the original lead byte.
type rangeHandler func(d *Decoder, code byte, data []byte, pos int) (int, value.Value, error)

// fixedHandlers is the lead-byte -> reader table for every non-range code.
// ext8/16/32 and fixext1..16 share the extension dispatch protocol; the
// int/float/bin/str readers are generated per width below.
var fixedHandlers = map[byte]fixedHandler{
	format.Nil:   func(_ *Decoder, _ []byte, pos int) (int, ext.StepResult, error) { return pos, ext.Yield(value.Nil()), nil },
	format.False: func(_ *Decoder, _ []byte, pos int) (int, ext.StepResult, error) { return pos, ext.Yield(value.Bool(false)), nil },
	format.True:  func(_ *Decoder, _ []byte, pos int) (int, ext.StepResult, error) { return pos, ext.Yield(value.Bool(true)), nil },

	format.Bin8:  binHandler(1),
	format.Bin16: binHandler(2),
	format.Bin32: binHandler(4),

	format.Ext8:  extHandler(1),
	format.Ext16: extHandler(2),
	format.Ext32: extHandler(4),

	format.Float32: float32Handler,
	format.Float64: float64Handler,

	format.Uint8:  uintHandler(1),
	format.Uint16: uintHandler(2),
	format.Uint32: uintHandler(4),
	format.Uint64: uintHandler(8),

	format.Int8:  intHandler(1),
	format.Int16: intHandler(2),
	format.Int32: intHandler(4),
	format.Int64: intHandler(8),

	format.FixExt1:  fixextHandler(1),
	format.FixExt2:  fixextHandler(2),
	format.FixExt4:  fixextHandler(4),
	format.FixExt8:  fixextHandler(8),
	format.FixExt16: fixextHandler(16),

	format.Str8:  strHandler(1),
	format.Str16: strHandler(2),
	format.Str32: strHandler(4),

	format.Array16: arrayHandler(2),
	format.Array32: arrayHandler(4),

	format.Map16: mapHandler(2),
	format.Map32: mapHandler(4),
}

// rangeHandlers is the (low, high) -> reader table for the six range
// groups.
var rangeHandlers = map[format.CodeRange]rangeHandler{
	format.PositiveFixInt: positiveFixInt,
	format.Record:         recordRange,
	format.FixMap:         fixMap,
	format.FixArray:       fixArray,
	format.FixStr:         fixStr,
	format.NegativeFixInt: negativeFixInt,
}

func requireLength(data []byte, n int) error {
	if len(data) < n {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrShortBuffer, n, len(data))
	}

	return nil
}

func lenPrefix(data []byte, pos, width int) (int, error) {
	if err := requireLength(data, pos+width); err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return int(data[pos]), nil
	case 2:
		return int(binary.BigEndian.Uint16(data[pos : pos+2])), nil
	default:
		return int(binary.BigEndian.Uint32(data[pos : pos+4])), nil
	}
}

// binHandler stages the payload in a pooled scratch buffer before copying
// it into a right-sized owned slice (mirrors the teacher's
// GetBlobBuffer/PutBlobBuffer staging idiom). The owned slice is a fresh
// allocation for every payload.
func binHandler(widthBytes int) fixedHandler {
	return func(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		n, err := lenPrefix(data, pos, widthBytes)
		if err != nil {
			return pos, ext.StepResult{}, err
		}

		begin := pos + widthBytes
		end := begin + n
		if err := requireLength(data, end); err != nil {
			return pos, ext.StepResult{}, err
		}

		bb := pool.Get()
		bb.MustWrite(data[begin:end])

		buf := make([]byte, bb.Len())
		copy(buf, bb.Bytes())
		pool.Put(bb)

		return end, ext.Yield(value.Bin(buf)), nil
	}
}

func strHandler(widthBytes int) fixedHandler {
	return func(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		n, err := lenPrefix(data, pos, widthBytes)
		if err != nil {
			return pos, ext.StepResult{}, err
		}

		begin := pos + widthBytes
		end := begin + n
		if err := requireLength(data, end); err != nil {
			return pos, ext.StepResult{}, err
		}

		if !utf8.Valid(data[begin:end]) {
			return pos, ext.StepResult{}, errs.ErrBadUTF8
		}

		return end, ext.Yield(value.Str(string(data[begin:end]))), nil
	}
}

func uintHandler(width int) fixedHandler {
	return func(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		end := pos + width
		if err := requireLength(data, end); err != nil {
			return pos, ext.StepResult{}, err
		}

		var u uint64
		switch width {
		case 1:
			u = uint64(data[pos])
		case 2:
			u = uint64(binary.BigEndian.Uint16(data[pos:end]))
		case 4:
			u = uint64(binary.BigEndian.Uint32(data[pos:end]))
		case 8:
			u = binary.BigEndian.Uint64(data[pos:end])
		}

		return end, ext.Yield(value.Int(int64(u))), nil
	}
}

func intHandler(width int) fixedHandler {
	return func(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		end := pos + width
		if err := requireLength(data, end); err != nil {
			return pos, ext.StepResult{}, err
		}

		var i int64
		switch width {
		case 1:
			i = int64(int8(data[pos]))
		case 2:
			i = int64(int16(binary.BigEndian.Uint16(data[pos:end])))
		case 4:
			i = int64(int32(binary.BigEndian.Uint32(data[pos:end])))
		case 8:
			i = int64(binary.BigEndian.Uint64(data[pos:end]))
		}

		return end, ext.Yield(value.Int(i)), nil
	}
}

func float32Handler(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
	end := pos + 4
	if err := requireLength(data, end); err != nil {
		return pos, ext.StepResult{}, err
	}

	bits := binary.BigEndian.Uint32(data[pos:end])

	return end, ext.Yield(value.Float(float64(math.Float32frombits(bits)))), nil
}

func float64Handler(_ *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
	end := pos + 8
	if err := requireLength(data, end); err != nil {
		return pos, ext.StepResult{}, err
	}

	bits := binary.BigEndian.Uint64(data[pos:end])

	return end, ext.Yield(value.Float(math.Float64frombits(bits))), nil
}

func arrayHandler(widthBytes int) fixedHandler {
	return func(d *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		n, err := lenPrefix(data, pos, widthBytes)
		if err != nil {
			return pos, ext.StepResult{}, err
		}

		v, newPos, err := d.decodeArrayElems(data, pos+widthBytes, n)
		return newPos, ext.Yield(v), err
	}
}

func mapHandler(widthBytes int) fixedHandler {
	return func(d *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		n, err := lenPrefix(data, pos, widthBytes)
		if err != nil {
			return pos, ext.StepResult{}, err
		}

		v, newPos, err := d.decodeMapEntries(data, pos+widthBytes, n)
		return newPos, ext.Yield(v), err
	}
}

func (d *Decoder) decodeArrayElems(data []byte, pos, n int) (value.Value, int, error) {
	elems := make([]value.Value, n)
	for i := 0; i < n; i++ {
		var v value.Value
		var err error
		pos, v, err = d.step(data, pos, nil, 0)
		if err != nil {
			return value.Value{}, pos, err
		}
		elems[i] = v
	}

	return value.Array(elems), pos, nil
}

func (d *Decoder) decodeMapEntries(data []byte, pos, n int) (value.Value, int, error) {
	m := value.NewOrderedMap(n)
	for i := 0; i < n; i++ {
		var key, val value.Value
		var err error

		pos, key, err = d.step(data, pos, nil, 0)
		if err != nil {
			return value.Value{}, pos, err
		}

		pos, val, err = d.step(data, pos, nil, 0)
		if err != nil {
			return value.Value{}, pos, err
		}

		m.Set(key, val)
	}

	return value.Map(m), pos, nil
}

// extHandler decodes ext8/ext16/ext32: a length prefix, then a signed
// type-code byte, then the payload, then an optional post-unpack phase.
func extHandler(widthBytes int) fixedHandler {
	return func(d *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		size, err := lenPrefix(data, pos, widthBytes)
		if err != nil {
			return pos, ext.StepResult{}, err
		}

		begin := pos + widthBytes
		if err := requireLength(data, begin+1); err != nil {
			return pos, ext.StepResult{}, err
		}

		extType := int8(data[begin])
		payloadPos := begin + 1
		end := payloadPos + size

		return d.dispatchExtension(data, extType, payloadPos, size, end)
	}
}

// fixextHandler decodes fixext1/2/4/8/16: a signed type-code byte followed
// by a fixed-size payload.
func fixextHandler(size int) fixedHandler {
	return func(d *Decoder, data []byte, pos int) (int, ext.StepResult, error) {
		if err := requireLength(data, pos+1); err != nil {
			return pos, ext.StepResult{}, err
		}

		extType := int8(data[pos])
		payloadPos := pos + 1
		end := payloadPos + size

		return d.dispatchExtension(data, extType, payloadPos, size, end)
	}
}

func (d *Decoder) dispatchExtension(data []byte, extType int8, payloadPos, size, end int) (int, ext.StepResult, error) {
	if err := requireLength(data, end); err != nil {
		return payloadPos, ext.StepResult{}, err
	}

	e, ok := d.registry.Lookup(extType)
	if !ok {
		return payloadPos, ext.StepResult{}, fmt.Errorf("%w: %d", errs.ErrUnknownExtension, extType)
	}

	intermediate, err := e.Unpack(d, data, payloadPos, size)
	if err != nil {
		return payloadPos, ext.StepResult{}, err
	}

	if e.Post == nil {
		v, ok := intermediate.(value.Value)
		if !ok {
			return end, ext.StepResult{}, errs.ErrBadExtPayload
		}

		return end, ext.Yield(v), nil
	}

	newPos, result, err := e.Post.PostUnpack(d, data, end, intermediate)

	return newPos, result, err
}

func positiveFixInt(_ *Decoder, code byte, _ []byte, pos int) (int, value.Value, error) {
	return pos, value.Int(int64(code)), nil
}

func negativeFixInt(_ *Decoder, code byte, _ []byte, pos int) (int, value.Value, error) {
	return pos, value.Int(int64(code) - 0x100), nil
}

func fixMap(d *Decoder, code byte, data []byte, pos int) (int, value.Value, error) {
	n := int(code & 0x0F)
	v, newPos, err := d.decodeMapEntries(data, pos, n)
	return newPos, v, err
}

func fixArray(d *Decoder, code byte, data []byte, pos int) (int, value.Value, error) {
	n := int(code & 0x0F)
	v, newPos, err := d.decodeArrayElems(data, pos, n)
	return newPos, v, err
}

func fixStr(_ *Decoder, code byte, data []byte, pos int) (int, value.Value, error) {
	n := int(code & 0x1F)
	end := pos + n
	if err := requireLength(data, end); err != nil {
		return pos, value.Value{}, err
	}

	if !utf8.Valid(data[pos:end]) {
		return pos, value.Value{}, errs.ErrBadUTF8
	}

	return end, value.Str(string(data[pos:end])), nil
}

// recordRange decodes the 0x40-0x7F range. If records are disabled on the
// Decoder, the byte reverts to a positive fixint (spec.md §4.5).
func recordRange(d *Decoder, code byte, data []byte, pos int) (int, value.Value, error) {
	if !d.recordsEnabled {
		return positiveFixInt(d, code, data, pos)
	}

	id := int(code & 0x3F)

	newPos, result, err := ext.RecordExtension{}.PostUnpack(d, data, pos, id)
	if err != nil {
		return newPos, value.Value{}, err
	}

	return newPos, result.Value, nil
}

// step decodes one item at pos. restrict, if non-nil, bounds the accepted
// lead bytes; depth counts the SKIP results chained so far (nested
// arrays, maps and extension reads start again at depth 0).
func (d *Decoder) step(data []byte, pos int, restrict *format.Restrict, depth int) (int, value.Value, error) {
	if depth > d.maxDepth {
		return pos, value.Value{}, errs.ErrMaxDepthExceeded
	}

	if err := requireLength(data, pos+1); err != nil {
		return pos, value.Value{}, err
	}

	code := data[pos]
	newPos := pos + 1

	if restrict != nil && !restrict.Allows(code) {
		return pos, value.Value{}, fmt.Errorf("%w: 0x%02x at position %d", errs.ErrRestrictedCode, code, pos)
	}

	if fn, ok := d.fixedOverrides[code]; ok {
		return d.finishFixed(data, newPos, fn, depth)
	}
	if fn, ok := fixedHandlers[code]; ok {
		return d.finishFixed(data, newPos, fn, depth)
	}

	if code == format.BundledStringsRef {
		return d.bundledStringRef(data, newPos)
	}

	for r, fn := range d.rangeOverrides {
		if r.Contains(code) {
			p, v, err := fn(d, code, data, newPos)
			if err != nil {
				return p, value.Value{}, err
			}
			return d.skipBundle(p), v, nil
		}
	}

	for r, fn := range rangeHandlers {
		if r.Contains(code) {
			p, v, err := fn(d, code, data, newPos)
			if err != nil {
				return p, value.Value{}, err
			}
			return d.skipBundle(p), v, nil
		}
	}

	return pos, value.Value{}, fmt.Errorf("%w: 0x%02x at position %d", errs.ErrInvalidCode, code, pos)
}

func (d *Decoder) finishFixed(data []byte, pos int, fn fixedHandler, depth int) (int, value.Value, error) {
	newPos, result, err := fn(d, data, pos)
	if err != nil {
		return newPos, value.Value{}, err
	}

	if result.Skip {
		p, v, err := d.step(data, newPos, nil, depth+1)
		if err != nil {
			return p, value.Value{}, err
		}

		return d.skipBundle(p), v, nil
	}

	return d.skipBundle(newPos), result.Value, nil
}

func (d *Decoder) bundledStringRef(data []byte, pos int) (int, value.Value, error) {
	pos, lenVal, err := d.lengthArg(data, pos)
	if err != nil {
		return pos, value.Value{}, err
	}

	s, err := d.ConsumeBundledString(int(lenVal.Int()))
	if err != nil {
		return pos, value.Value{}, err
	}

	return pos, value.Str(s), nil
}

// lengthArg decodes the signed length integer that follows a 0xC1 reference
// byte. It deliberately bypasses the skip_bundle hook that the normal step
// dispatch applies: this length is part of resolving the reference branch
// itself (spec.md §4.2 step 6's exclusion), and its end position can
// legitimately coincide with the active bundle's begin when the reference
// is the last item before its own pool.
func (d *Decoder) lengthArg(data []byte, pos int) (int, value.Value, error) {
	if err := requireLength(data, pos+1); err != nil {
		return pos, value.Value{}, err
	}

	code := data[pos]
	newPos := pos + 1

	if !format.Int.Allows(code) {
		return pos, value.Value{}, fmt.Errorf("%w: 0x%02x at position %d", errs.ErrRestrictedCode, code, pos)
	}

	if fn, ok := d.fixedOverrides[code]; ok {
		p, result, err := fn(d, data, newPos)
		return p, result.Value, err
	}
	if fn, ok := fixedHandlers[code]; ok {
		p, result, err := fn(d, data, newPos)
		return p, result.Value, err
	}

	for r, fn := range d.rangeOverrides {
		if r.Contains(code) {
			return fn(d, code, data, newPos)
		}
	}
	for r, fn := range rangeHandlers {
		if r.Contains(code) {
			return fn(d, code, data, newPos)
		}
	}

	return pos, value.Value{}, fmt.Errorf("%w: 0x%02x at position %d", errs.ErrInvalidCode, code, pos)
}

// Step implements ext.Decoder: it is how extensions (record, set, error,
// bundled-strings) recurse back into the dispatcher.
func (d *Decoder) Step(data []byte, pos int, restrict *format.Restrict) (int, value.Value, error) {
	return d.step(data, pos, restrict, 0)
}
