// Package ext implements the msgpackr extension registry: the seven
// built-in extension types (timestamp, undefined, bigint, bundled-strings,
// error, record, set) and the interfaces a Decoder dispatches through.
package ext

import (
	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/value"
)

// Unpacker reads the length-prefixed payload of an extension and produces
// an intermediate result. For extensions without a PostUnpack phase, the
// intermediate result is the final Value.
type Unpacker interface {
	// Unpack reads exactly length bytes from data starting at pos.
	Unpack(dec Decoder, data []byte, pos, length int) (any, error)
}

// PostUnpacker is implemented by extensions that need to keep reading
// structure from the stream beyond their declared payload (records and
// bundled-strings pull further bytes this way).
type PostUnpacker interface {
	// PostUnpack continues reading at pos (just past the declared
	// payload) and returns the new position and a StepResult: either a
	// concrete Value, or Skip meaning "state installed, produce no value
	// at this position, decode proceeds to the next item".
	PostUnpack(dec Decoder, data []byte, pos int, intermediate any) (int, StepResult, error)
}

// StepResult is the outcome of decoding one item: either a concrete Value,
// or a Skip signal meaning the handler installed session state (e.g. a
// bundled-strings pool) and produced no value of its own — the caller
// must decode the next item at the returned position instead.
//
// This explicit sum type takes the place of the source's object-identity
// SKIP sentinel.
type StepResult struct {
	Value value.Value
	Skip  bool
}

// Yield wraps a concrete value as a non-skip StepResult.
func Yield(v value.Value) StepResult { return StepResult{Value: v} }

// SkipResult is the StepResult produced by handlers that install state and
// yield no value.
var SkipResult = StepResult{Skip: true}

// Extension pairs an Unpacker with an optional PostUnpacker.
type Extension struct {
	Type int8
	Unpacker
	// Post is nil for extensions whose Unpack result is already final.
	Post PostUnpacker
}

// Decoder is the subset of decode.Decoder's behavior extensions need to
// call back into (reading a nested item, consuming bundled strings,
// reaching the record cache). It is declared here, rather than imported
// from package decode, to avoid an import cycle between decode and ext.
type Decoder interface {
	// Step decodes one item at pos, optionally restricted to a set/range
	// of lead bytes.
	Step(data []byte, pos int, restrict *format.Restrict) (int, value.Value, error)
	// Records returns the per-session record key-list cache, or nil if
	// records are disabled.
	Records() map[int][]string
	// ConsumeBundledString resolves a 0xC1 reference of the given signed
	// length against the active bundled-strings pool.
	ConsumeBundledString(length int) (string, error)
	// InstallBundle installs a newly-populated bundled-strings pool.
	InstallBundle(begin, end int, left, right string)
}

// Registry maps a signed 8-bit extension type code to its handler.
type Registry struct {
	byCode map[int8]Extension
}

// NewRegistry creates a registry pre-populated with the default extensions:
// timestamp (-1), undefined (0), bigint (66), error (101), record (114),
// set (115), and bundled-strings (98) when includeBundledStrings is true.
func NewRegistry(includeBundledStrings bool) *Registry {
	r := &Registry{byCode: make(map[int8]Extension, 8)}

	r.register(Extension{Type: -1, Unpacker: TimestampExtension{}})
	r.register(Extension{Type: 0, Unpacker: UndefinedExtension{}})
	r.register(Extension{Type: 66, Unpacker: BigIntExtension{}})
	r.register(Extension{Type: 101, Unpacker: ErrorExtension{}, Post: ErrorExtension{}})
	r.register(Extension{Type: 114, Unpacker: RecordExtension{}, Post: RecordExtension{}})
	r.register(Extension{Type: 115, Unpacker: SetExtension{}, Post: SetExtension{}})

	if includeBundledStrings {
		bs := BundledStringsExtension{}
		r.register(Extension{Type: 98, Unpacker: bs, Post: bs})
	}

	return r
}

func (r *Registry) register(e Extension) {
	r.byCode[e.Type] = e
}

// Register adds new extensions. If replace is false and a code is already
// registered, ErrDuplicateExtension is returned and no extensions are
// added (all-or-nothing).
func (r *Registry) Register(replace bool, exts ...Extension) error {
	if !replace {
		for _, e := range exts {
			if _, ok := r.byCode[e.Type]; ok {
				return errs.ErrDuplicateExtension
			}
		}
	}

	for _, e := range exts {
		r.register(e)
	}

	return nil
}

// Lookup returns the extension registered for code, if any.
func (r *Registry) Lookup(code int8) (Extension, bool) {
	e, ok := r.byCode[code]
	return e, ok
}
