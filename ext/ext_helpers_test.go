package ext

import (
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/value"
)

// fakeDecoder is a minimal ext.Decoder stand-in for extension unit tests:
// Step decodes raw fixed-format bytes itself (fixstr, fixarray, positive
// fixint) rather than routing through the real decode package, keeping
// these tests independent of package decode.
type fakeDecoder struct {
	bundle        *fakeBundle
	records       map[int][]string
	recordsNilled bool
}

type fakeBundle struct {
	left, right       string
	posLeft, posRight int
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{records: make(map[int][]string)}
}

func (d *fakeDecoder) Step(data []byte, pos int, restrict *format.Restrict) (int, value.Value, error) {
	code := data[pos]

	switch {
	case code&0xF0 == 0x90: // fixarray
		n := int(code & 0x0F)
		pos++
		elems := make([]value.Value, n)
		for i := 0; i < n; i++ {
			var v value.Value
			var err error
			pos, v, err = d.Step(data, pos, nil)
			if err != nil {
				return pos, value.Value{}, err
			}
			elems[i] = v
		}

		return pos, value.Array(elems), nil

	case code&0xE0 == 0xA0: // fixstr
		n := int(code & 0x1F)
		pos++
		s := string(data[pos : pos+n])

		return pos + n, value.Str(s), nil

	case code&0x80 == 0x00: // positive fixint
		return pos + 1, value.Int(int64(code)), nil

	default:
		panic("fakeDecoder.Step: unsupported code in test fixture")
	}
}

func (d *fakeDecoder) Records() map[int][]string {
	if d.recordsNilled {
		return nil
	}

	return d.records
}

func (d *fakeDecoder) ConsumeBundledString(length int) (string, error) {
	n := length
	useRight := n >= 0
	if n < 0 {
		n = -n
	}

	if d.bundle == nil {
		return "", errNoBundle
	}

	if useRight {
		s := d.bundle.right[d.bundle.posRight : d.bundle.posRight+n]
		d.bundle.posRight += n
		return s, nil
	}

	s := d.bundle.left[d.bundle.posLeft : d.bundle.posLeft+n]
	d.bundle.posLeft += n

	return s, nil
}

func (d *fakeDecoder) InstallBundle(begin, end int, left, right string) {
	d.bundle = &fakeBundle{left: left, right: right}
}

var errNoBundle = bundleMissingErr{}

type bundleMissingErr struct{}

func (bundleMissingErr) Error() string { return "fake decoder: no bundle installed" }
