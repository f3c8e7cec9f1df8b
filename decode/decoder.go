// Package decode implements the msgpackr-dialect decoder: the step
// dispatcher, the bundled-strings and records caches, and the top-level
// Unpack/UnpackMultiple entry points.
//
// A Decoder is not safe for concurrent use by multiple goroutines — it
// mutates session state (the bundle and the records cache) while decoding.
// Multiple Decoder instances may be used concurrently without contention.
package decode

import (
	"github.com/arloliu/mpackr/errs"
	"github.com/arloliu/mpackr/ext"
	"github.com/arloliu/mpackr/format"
	"github.com/arloliu/mpackr/internal/options"
)

// defaultMaxDepth bounds SKIP-chain recursion so a pathological input
// (e.g. a long chain of bundled-strings installers) cannot blow the Go
// call stack. Only chained SKIP results count toward it; the nesting depth
// of arrays, maps and extension reads is not bounded.
const defaultMaxDepth = 1 << 16

// Decoder holds the session state for one decoding session: the extension
// registry, the active bundled-strings pool (if any), and the per-session
// records key-list cache.
//
// Decoder instances are cheap to construct and may be reused for many
// messages; the records cache persists across Unpack calls on the same
// instance by design, mirroring the source (see DESIGN.md's Open Question
// decisions on records cache lifetime). Construct a fresh Decoder per
// message if per-message isolation is required.
type Decoder struct {
	registry *ext.Registry
	bundle   *bundle
	records  map[int][]string

	fixedOverrides map[byte]fixedHandler
	rangeOverrides map[format.CodeRange]rangeHandler

	recordsEnabled bool
	maxDepth       int
}

// Option configures a Decoder at construction time via NewDecoder.
type Option = options.Option[*decoderConfig]

type decoderConfig struct {
	bundledStrings bool
	records        bool
	maxDepth       int
	extensions     []ext.Extension
	replace        bool
}

// WithBundledStrings enables or disables the bundled-strings extension and
// the 0xC1 reference byte. Enabled by default.
func WithBundledStrings(enabled bool) Option {
	return options.NoError(func(c *decoderConfig) { c.bundledStrings = enabled })
}

// WithRecords enables or disables the record extension and the
// 0x40-0x7F record-reference range. Enabled by default. When disabled, a
// record-reference lead byte decodes as a positive fixint instead
// (spec.md §4.5).
func WithRecords(enabled bool) Option {
	return options.NoError(func(c *decoderConfig) { c.records = enabled })
}

// WithMaxDepth overrides the SKIP-chain depth bound. Nesting of arrays,
// maps and extension reads is not counted against it.
func WithMaxDepth(n int) Option {
	return options.NoError(func(c *decoderConfig) { c.maxDepth = n })
}

// WithExtensions registers additional extensions at construction time. If
// replace is true, extensions may overwrite built-in codes.
func WithExtensions(replace bool, exts ...ext.Extension) Option {
	return options.NoError(func(c *decoderConfig) {
		c.replace = c.replace || replace
		c.extensions = append(c.extensions, exts...)
	})
}

// NewDecoder creates a Decoder with the default extension registry
// (timestamp, undefined, bigint, bundled-strings, error, record, set) and
// the given options applied on top.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg := &decoderConfig{bundledStrings: true, records: true, maxDepth: defaultMaxDepth}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	d := &Decoder{
		registry:       ext.NewRegistry(cfg.bundledStrings),
		recordsEnabled: cfg.records,
		maxDepth:       cfg.maxDepth,
	}

	if cfg.records {
		d.records = make(map[int][]string)
	}

	if len(cfg.extensions) > 0 {
		if err := d.registry.Register(cfg.replace, cfg.extensions...); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// RegisterExtensions adds new extension handlers to an existing Decoder.
// If replace is false and a code is already registered,
// errs.ErrDuplicateExtension is returned.
func (d *Decoder) RegisterExtensions(replace bool, exts ...ext.Extension) error {
	return d.registry.Register(replace, exts...)
}

// Records implements ext.Decoder. It returns the records cache, or nil if
// records are disabled on this Decoder.
func (d *Decoder) Records() map[int][]string {
	return d.records
}

// ConsumeBundledString implements ext.Decoder.
func (d *Decoder) ConsumeBundledString(length int) (string, error) {
	if d.bundle == nil {
		return "", errs.ErrBundledStringsMissing
	}

	return d.bundle.consume(length)
}

// InstallBundle implements ext.Decoder. It replaces any existing bundle.
func (d *Decoder) InstallBundle(begin, end int, left, right string) {
	d.bundle = &bundle{left: left, right: right, begin: begin, end: end}
}

// skipBundle advances pos past the active bundle's region if pos is
// exactly at its start, clearing the bundle (spec.md §4.2 step 6).
func (d *Decoder) skipBundle(pos int) int {
	if d.bundle != nil && d.bundle.begin == pos {
		pos = d.bundle.end
		d.bundle = nil
	}

	return pos
}

// State is an exported snapshot of a Decoder's dynamic session state, for
// ExportState/RestoreState.
type State struct {
	Bundle  *bundleSnapshot
	Records map[int][]string
}

// bundleSnapshot is the exported, decoupled form of the internal bundle
// type (kept unexported so callers cannot reach into consume()).
type bundleSnapshot struct {
	Left, Right       string
	PosLeft, PosRight int
	Begin, End        int
}

// ExportState returns a snapshot of the bundle and records cache, suitable
// for later RestoreState calls (e.g. to roll back a speculative read).
func (d *Decoder) ExportState() State {
	var bs *bundleSnapshot
	if d.bundle != nil {
		bs = &bundleSnapshot{
			Left: d.bundle.left, Right: d.bundle.right,
			PosLeft: d.bundle.posLeft, PosRight: d.bundle.posRight,
			Begin: d.bundle.begin, End: d.bundle.end,
		}
	}

	records := make(map[int][]string, len(d.records))
	for k, v := range d.records {
		cp := make([]string, len(v))
		copy(cp, v)
		records[k] = cp
	}

	return State{Bundle: bs, Records: records}
}

// RestoreState installs a previously exported State. If copyState is true, the
// records map and bundle are deep-copied before installation so that
// subsequent mutation of the Decoder does not alias the caller's snapshot.
func (d *Decoder) RestoreState(s State, copyState bool) {
	if s.Bundle == nil {
		d.bundle = nil
	} else {
		d.bundle = &bundle{
			left: s.Bundle.Left, right: s.Bundle.Right,
			posLeft: s.Bundle.PosLeft, posRight: s.Bundle.PosRight,
			begin: s.Bundle.Begin, end: s.Bundle.End,
		}
	}

	if copyState {
		records := make(map[int][]string, len(s.Records))
		for k, v := range s.Records {
			cp := make([]string, len(v))
			copy(cp, v)
			records[k] = cp
		}
		d.records = records
	} else {
		d.records = s.Records
	}
}

// ReplaceFixedCode overrides one fixed-code handler. code must be one of
// the known fixed lead bytes (decode/step.go's fixedHandlers table) or
// errs.ErrUnknownCodeSlot is returned.
func (d *Decoder) ReplaceFixedCode(code byte, fn fixedHandler) error {
	if _, ok := fixedHandlers[code]; !ok {
		return errs.ErrUnknownCodeSlot
	}

	if d.fixedOverrides == nil {
		d.fixedOverrides = make(map[byte]fixedHandler)
	}
	d.fixedOverrides[code] = fn

	return nil
}

// ReplaceRangeCode overrides one range-code handler. The (low, high) pair
// must match one of the known ranges (decode/step.go's rangeHandlers
// table) or errs.ErrUnknownCodeSlot is returned.
func (d *Decoder) ReplaceRangeCode(r format.CodeRange, fn rangeHandler) error {
	if _, ok := rangeHandlers[r]; !ok {
		return errs.ErrUnknownCodeSlot
	}

	if d.rangeOverrides == nil {
		d.rangeOverrides = make(map[format.CodeRange]rangeHandler)
	}
	d.rangeOverrides[r] = fn

	return nil
}
