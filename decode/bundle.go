package decode

import "github.com/arloliu/mpackr/errs"

// bundle is the out-of-band string pool backing 0xC1 references
// (spec.md §4.4). A populated bundle has left/right strings and cursor
// positions into each; begin/end bound the pool's region in the byte view
// so the dispatcher can jump over it exactly once.
type bundle struct {
	left, right       string
	posLeft, posRight int
	begin, end        int
}

// consume resolves a 0xC1 reference of the given signed length: length >= 0
// consumes length characters from the right string at its current cursor,
// length < 0 consumes |length| characters from the left string. Lengths and
// cursors count characters (runes), not bytes. The cursor advances by the
// consumed amount.
func (b *bundle) consume(length int) (string, error) {
	n := length
	useRight := n >= 0
	if n < 0 {
		n = -n
	}

	str := &b.right
	pos := &b.posRight
	if !useRight {
		str = &b.left
		pos = &b.posLeft
	}

	runes := []rune(*str)
	if *pos == len(runes) {
		return "", errs.ErrBundledStringsExhausted
	}

	end := *pos + n
	if end > len(runes) {
		return "", errs.ErrBundledStringsOutOfBounds
	}

	out := string(runes[*pos:end])
	*pos = end

	return out, nil
}

// copy deep-copies the bundle (cursors included) for ExportState snapshots.
func (b *bundle) copy() *bundle {
	if b == nil {
		return nil
	}

	cp := *b
	return &cp
}
