package recordstore

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Encoder writes one value at a time to a stream.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads one value at a time from a stream. It returns io.EOF when
// the stream ends cleanly between values.
type Decoder interface {
	Decode(v any) error
}

// Codec produces self-delimiting value streams.
type Codec interface {
	Name() string
	ContentType() string
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
}

// Codec names accepted by CodecByName.
const (
	CodecGob  = "gob"
	CodecJSON = "json"
)

var (
	// Gob is the default Go-native object stream.
	Gob Codec = gobCodec{}
	// JSON writes concatenated JSON values, one per line.
	JSON Codec = jsonCodec{}
)

// CodecByName resolves gob or json; empty selects gob.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecGob:
		return Gob, nil
	case CodecJSON:
		return JSON, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type gobCodec struct{}

func (gobCodec) Name() string                   { return CodecGob }
func (gobCodec) ContentType() string            { return "application/x-gob" }
func (gobCodec) NewEncoder(w io.Writer) Encoder { return gob.NewEncoder(w) }
func (gobCodec) NewDecoder(r io.Reader) Decoder { return gob.NewDecoder(r) }

type jsonCodec struct{}

func (jsonCodec) Name() string                   { return CodecJSON }
func (jsonCodec) ContentType() string            { return "application/x-ndjson" }
func (jsonCodec) NewEncoder(w io.Writer) Encoder { return json.NewEncoder(w) }
func (jsonCodec) NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }
