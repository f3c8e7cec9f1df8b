package format

// Restrict describes the set of lead bytes a caller will accept at a given
// step call. It mixes exact codes and inclusive ranges, mirroring the
// source's `restrict: Union[List[int], None]` parameter where each element
// is either a bare code or a (low, high) tuple.
type Restrict struct {
	codes  []byte
	ranges []CodeRange
}

// NewRestrict builds a Restrict from a mix of byte codes and CodeRanges.
func NewRestrict(items ...any) Restrict {
	var r Restrict
	for _, item := range items {
		switch v := item.(type) {
		case int:
			r.codes = append(r.codes, byte(v))
		case byte:
			r.codes = append(r.codes, v)
		case CodeRange:
			r.ranges = append(r.ranges, v)
		}
	}

	return r
}

// Allows reports whether code is permitted by the restriction.
func (r Restrict) Allows(code byte) bool {
	for _, c := range r.codes {
		if c == code {
			return true
		}
	}

	for _, rg := range r.ranges {
		if rg.Contains(code) {
			return true
		}
	}

	return false
}

// Predefined restriction sets named after the source's format groups.
var (
	// Int restricts to every integer-producing code: positive/negative
	// fixint plus uint8..64 and int8..64.
	Int = NewRestrict(
		PositiveFixInt, NegativeFixInt,
		Uint8, Uint16, Uint32, Uint64,
		Int8, Int16, Int32, Int64,
	)

	// Str restricts to every string-producing code.
	Str = NewRestrict(FixStr, Str8, Str16, Str32)

	// Array restricts to every array-producing code.
	Array = NewRestrict(FixArray, Array16, Array32)
)
