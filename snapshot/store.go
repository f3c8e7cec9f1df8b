package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"github.com/arloliu/mpackr/decode"
	"github.com/arloliu/mpackr/internal/options"
	"github.com/arloliu/mpackr/internal/pool"
)

// Store saves and loads decode.State snapshots through a compression
// Codec.
type Store struct {
	codec  Codec
	logger *slog.Logger
}

// Option configures a Store at construction time.
type Option = options.Option[*storeConfig]

type storeConfig struct {
	algorithm Algorithm
	logger    *slog.Logger
}

// WithAlgorithm selects the compression codec. Defaults to AlgorithmS2.
func WithAlgorithm(a Algorithm) Option {
	return options.NoError(func(c *storeConfig) { c.algorithm = a })
}

// WithLogger overrides the logger used to report load failures. Defaults
// to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *storeConfig) { c.logger = l })
}

// NewStore creates a Store with the given options applied.
func NewStore(opts ...Option) (*Store, error) {
	cfg := &storeConfig{algorithm: AlgorithmS2, logger: slog.Default()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := CodecFor(cfg.algorithm)
	if err != nil {
		return nil, err
	}

	return &Store{codec: codec, logger: cfg.logger}, nil
}

// Save gob-encodes state into a pooled scratch buffer and compresses the
// result through the Store's codec.
func (s *Store) Save(state decode.State) ([]byte, error) {
	bb := pool.Get()
	defer pool.Put(bb)

	if err := gob.NewEncoder(bb).Encode(state); err != nil {
		return nil, fmt.Errorf("snapshot: encode state: %w", err)
	}

	compressed, err := s.codec.Compress(bb.Bytes())
	if err != nil {
		return nil, fmt.Errorf("snapshot: compress state: %w", err)
	}

	// A codec may return its input unchanged (NoOpCodec), which would alias
	// the pooled buffer; copy before the buffer goes back to the pool.
	out := make([]byte, len(compressed))
	copy(out, compressed)

	return out, nil
}

// Load decompresses and gob-decodes a blob produced by Save. On failure it
// logs the error at warn level (a corrupt or incompatible snapshot is
// recoverable by starting the Decoder from a clean state) and returns the
// error to the caller.
func (s *Store) Load(blob []byte) (decode.State, error) {
	raw, err := s.codec.Decompress(blob)
	if err != nil {
		s.logger.Warn("snapshot: decompress failed", "error", err)
		return decode.State{}, fmt.Errorf("snapshot: decompress state: %w", err)
	}

	var state decode.State
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&state); err != nil {
		s.logger.Warn("snapshot: decode failed", "error", err)
		return decode.State{}, fmt.Errorf("snapshot: decode state: %w", err)
	}

	return state, nil
}
