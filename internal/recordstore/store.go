// Package recordstore saves and loads ordered sequences of same-typed
// records to named objects. Each record is followed by a marker value so a
// load can tell a clean end of sequence from a cut-off one. Every save
// rewrites the whole object.
package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"recipecost/internal/blob"
	"recipecost/internal/logger"
	"recipecost/internal/observability"
)

// Operation names reported to metrics recorders and tracers.
const (
	OpSave = "recordstore.save"
	OpLoad = "recordstore.load"
)

// Store binds a blob backend to a codec.
type Store struct {
	blob    blob.Store
	codec   Codec
	log     *logger.Logger
	metrics observability.MetricsRecorder
	tracer  observability.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithCodec selects the stream codec (gob by default).
func WithCodec(c Codec) Option { return func(s *Store) { s.codec = c } }

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option { return func(s *Store) { s.log = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option { return func(s *Store) { s.metrics = m } }

// WithTracer sets the tracer.
func WithTracer(t observability.Tracer) Option { return func(s *Store) { s.tracer = t } }

// New returns a Store writing to b.
func New(b blob.Store, opts ...Option) *Store {
	s := &Store{blob: b, codec: Gob, log: logger.Nop(), metrics: observability.NoopMetrics{}, tracer: observability.NoopTracer{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Codec returns the configured codec.
func (s *Store) Codec() Codec { return s.codec }

// Blob returns the backing blob store.
func (s *Store) Blob() blob.Store { return s.blob }

func (s *Store) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	return ctx, func(err error) {
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	}
}

// Save replaces the object fileName with records, each followed by marker.
func Save[R any](ctx context.Context, s *Store, fileName, marker string, records []R) (err error) {
	ctx, done := s.observe(ctx, OpSave)
	defer func() { done(err) }()

	var buf bytes.Buffer
	if err := Encode(&buf, s.codec, marker, records); err != nil {
		return fmt.Errorf("save %s: %w", fileName, err)
	}
	opts := blob.PutOptions{
		ContentType: s.codec.ContentType(),
		Metadata: map[string]string{
			"codec":   s.codec.Name(),
			"marker":  marker,
			"records": strconv.Itoa(len(records)),
		},
		Overwrite: true,
	}
	if _, err := s.blob.Put(ctx, fileName, bytes.NewReader(buf.Bytes()), opts); err != nil {
		return fmt.Errorf("save %s: %w", fileName, err)
	}
	s.log.Debug("saved %d records to %s", len(records), fileName)
	return nil
}

// Load reads every record of fileName. A missing or empty object yields an
// empty sequence. On a decode failure the records read so far are returned
// along with the error.
func Load[R any](ctx context.Context, s *Store, fileName, marker string) (out []R, err error) {
	ctx, done := s.observe(ctx, OpLoad)
	defer func() { done(err) }()

	_, rc, err := s.blob.Get(ctx, fileName)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			s.log.Debug("%s does not exist yet", fileName)
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", fileName, err)
	}
	defer func() { _ = rc.Close() }()

	out, err = Decode[R](rc, s.codec, marker)
	if err != nil {
		return out, fmt.Errorf("load %s: %w", fileName, err)
	}
	s.log.Debug("loaded %d records from %s", len(out), fileName)
	return out, nil
}
