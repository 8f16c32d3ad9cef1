package streamer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/nearwatch/receipt-watcher/model/stream"
)

// Format is the encoding of a message file.
type Format string

const (
	// FormatJSON is a sequence of JSON documents, typically one message per line.
	FormatJSON Format = "json"
	// FormatCBOR is a sequence of CBOR data items.
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q (expected %q or %q)", s, FormatJSON, FormatCBOR)
	}
}

// decoder is satisfied by both json.Decoder and cbor.Decoder.
type decoder interface {
	Decode(v interface{}) error
}

// cborDecMode decodes generic maps, such as execution errors, with string keys
// the way the JSON decoder does.
var cborDecMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("invalid cbor decoding options: %v", err))
	}
	return mode
}()

// FileSource reads messages from an encoded sequence, as written by the indexer
// dump tools. The source ends with the input.
type FileSource struct {
	decoder decoder
	read    int
}

var _ Source = (*FileSource)(nil)

func NewFileSource(r io.Reader, format Format) (*FileSource, error) {
	var dec decoder
	switch format {
	case FormatJSON:
		dec = json.NewDecoder(r)
	case FormatCBOR:
		dec = cborDecMode.NewDecoder(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return &FileSource{decoder: dec}, nil
}

func (s *FileSource) Next(ctx context.Context) (*stream.StreamerMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var msg stream.StreamerMessage
	err := s.decoder.Decode(&msg)
	if errors.Is(err, io.EOF) {
		return nil, ErrEndOfStream
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode message %d: %w", s.read+1, err)
	}

	s.read++
	return &msg, nil
}
