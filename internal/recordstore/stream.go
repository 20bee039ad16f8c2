package recordstore

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrTruncated reports a stream that ended inside a (record, marker) pair.
	ErrTruncated = errors.New("record stream truncated")
	// ErrMarkerMismatch reports a record followed by something other than its marker.
	ErrMarkerMismatch = errors.New("record marker mismatch")
)

// Encode writes each record followed by marker. An empty marker writes the
// records back to back.
func Encode[R any](w io.Writer, c Codec, marker string, records []R) error {
	enc := c.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		if marker == "" {
			continue
		}
		if err := enc.Encode(marker); err != nil {
			return fmt.Errorf("encode marker %d: %w", i, err)
		}
	}
	return nil
}

// Decode reads (record, marker) pairs until the stream ends between pairs.
// On failure it returns the complete pairs read so far with the error; a
// record whose marker is missing or wrong is dropped.
func Decode[R any](r io.Reader, c Codec, marker string) ([]R, error) {
	dec := c.NewDecoder(r)
	var out []R
	for {
		var rec R
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return out, fmt.Errorf("record %d: %w", len(out), ErrTruncated)
			}
			return out, fmt.Errorf("decode record %d: %w", len(out), err)
		}
		if marker != "" {
			var got string
			if err := dec.Decode(&got); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return out, fmt.Errorf("record %d: %w", len(out), ErrTruncated)
				}
				return out, fmt.Errorf("record %d: %w: %v", len(out), ErrMarkerMismatch, err)
			}
			if got != marker {
				return out, fmt.Errorf("record %d: %w: got %q want %q", len(out), ErrMarkerMismatch, got, marker)
			}
		}
		out = append(out, rec)
	}
}
