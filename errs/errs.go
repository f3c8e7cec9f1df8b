// Package errs defines the sentinel errors returned by the decode, ext,
// cache, and snapshot packages.
//
// Callers should compare against these with errors.Is; call sites wrap them
// with additional positional context via fmt.Errorf("...: %w", errs.ErrX).
package errs

import "errors"

var (
	// ErrShortBuffer is returned when a read would extend past the end of
	// the input buffer.
	ErrShortBuffer = errors.New("mpackr: short buffer")

	// ErrInvalidCode is returned when a lead byte matches no fixed code
	// and no range code.
	ErrInvalidCode = errors.New("mpackr: invalid lead byte")

	// ErrRestrictedCode is returned when a lead byte is valid but outside
	// the restriction set passed to step.
	ErrRestrictedCode = errors.New("mpackr: lead byte outside restricted set")

	// ErrBadUTF8 is returned when a str* payload is not valid UTF-8.
	ErrBadUTF8 = errors.New("mpackr: invalid utf-8 in string payload")

	// ErrUnknownExtension is returned when an extension type code has no
	// registered handler.
	ErrUnknownExtension = errors.New("mpackr: unknown extension type")

	// ErrBundledStringsMissing is returned when a bundled-string reference
	// is decoded with no active pool.
	ErrBundledStringsMissing = errors.New("mpackr: no bundled strings pool active")

	// ErrBundledStringsExhausted is returned when a bundled-string cursor
	// is already at the end of its target string.
	ErrBundledStringsExhausted = errors.New("mpackr: bundled strings pool exhausted")

	// ErrBundledStringsOutOfBounds is returned when a bundled-string
	// reference requests a slice past the end of its target string.
	ErrBundledStringsOutOfBounds = errors.New("mpackr: bundled strings reference out of bounds")

	// ErrBadRecordKeys is returned when a record's inline key list is not
	// an array of strings.
	ErrBadRecordKeys = errors.New("mpackr: record key list is not an array of strings")

	// ErrUnsupportedRecordForm is returned for the two-byte extended
	// record identifier form, which this implementation does not support
	// (see DESIGN.md Open Question decisions).
	ErrUnsupportedRecordForm = errors.New("mpackr: two-byte record identifier form is not supported")

	// ErrRecordsDisabled is returned when a record extension (type 114) is
	// decoded on a Decoder constructed with records disabled. A
	// record-reference lead byte (0x40-0x7F) on such a Decoder decodes as
	// a positive fixint instead.
	ErrRecordsDisabled = errors.New("mpackr: records are disabled on this decoder")

	// ErrBadExtPayload is returned for extension-specific malformed
	// payloads (timestamp length not in {4,8,12}, error payload not a
	// 3-tuple, ...).
	ErrBadExtPayload = errors.New("mpackr: malformed extension payload")

	// ErrTrailingData is returned by Unpack when allowRemaining is false
	// and bytes remain after the first value.
	ErrTrailingData = errors.New("mpackr: trailing data after unpacked value")

	// ErrDuplicateExtension is returned by RegisterExtensions when a code
	// is already registered and replace is false.
	ErrDuplicateExtension = errors.New("mpackr: extension type already registered")

	// ErrUnknownCodeSlot is returned by ReplaceFixedCode/ReplaceRangeCode
	// when the given code or range is not a known decoder slot.
	ErrUnknownCodeSlot = errors.New("mpackr: not an existing decoder code slot")

	// ErrMaxDepthExceeded is returned when a chain of SKIP results (e.g.
	// consecutive bundled-strings installers) exceeds the configured
	// maximum depth. Nesting of arrays, maps and extension reads is not
	// counted.
	ErrMaxDepthExceeded = errors.New("mpackr: maximum recursion depth exceeded")
)
