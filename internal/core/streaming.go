package core

// streaming.go provides the byte-level stages in front of the CSV parser.
//
// The source is never loaded into memory by these stages:
//
//   - StreamingCountingReader: Tracks raw bytes consumed from the source
//   - DecoderFor: Selects the legacy charset decoder, if any
//   - WrapForStreaming: Skips a byte order mark, decodes to UTF-8 and
//     replaces invalid sequences with U+FFFD

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported input encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

// StreamingCountingReader wraps an io.Reader to track bytes read.
type StreamingCountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewStreamingCountingReader creates a counting reader.
func NewStreamingCountingReader(r io.Reader) *StreamingCountingReader {
	return &StreamingCountingReader{reader: r}
}

// Read implements io.Reader.
func (r *StreamingCountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// DecoderFor returns the decoder for an encoding name. An empty name means UTF-8.
// The UTF-8 decoder replaces invalid byte sequences with U+FFFD.
func DecoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		return unicode.UTF8.NewDecoder(), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case EncodingISO88591, "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// WrapForStreaming wraps a reader with byte counting, byte order mark
// handling and decoding to valid UTF-8.
//
// The order matters:
//  1. Counting wraps the raw source so BytesRead reflects file size
//  2. A leading BOM overrides the configured encoding and is dropped
//  3. The configured decoder handles everything else
func WrapForStreaming(r io.Reader, enc string) (io.Reader, *StreamingCountingReader, error) {
	dec, err := DecoderFor(enc)
	if err != nil {
		return nil, nil, err
	}

	counter := NewStreamingCountingReader(r)
	return transform.NewReader(counter, unicode.BOMOverride(dec)), counter, nil
}
