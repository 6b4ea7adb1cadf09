// Package traceio saves, loads and validates recorded sort traces.
package traceio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sortviz/pkg/safeconv"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

// Supported format names.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatLZ4  = "lz4"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
	ymlExtension  = ".yml"
	lz4Extension  = ".json.lz4"
)

// Default indentation for pretty-printed JSON.
const defaultIndent = "  "

// ErrUnknownFormat is returned when a format name or file extension matches no codec.
var ErrUnknownFormat = errors.New("unknown trace format")

// Codec defines how a trace is serialized and deserialized.
type Codec interface {
	// Encode writes the trace to the writer.
	Encode(w io.Writer, t *sorting.Trace) error
	// Decode reads a trace from the reader.
	Decode(r io.Reader) (*sorting.Trace, error)
	// Extension returns the file extension for this codec (e.g., ".json").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, t *sorting.Trace) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(t)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader) (*sorting.Trace, error) {
	var t sorting.Trace

	err := json.NewDecoder(r).Decode(&t)
	if err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}

	return &t, nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// Encode implements Codec.Encode using YAML encoding.
func (YAMLCodec) Encode(w io.Writer, t *sorting.Trace) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(len(defaultIndent))

	err := encoder.Encode(t)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
func (YAMLCodec) Decode(r io.Reader) (*sorting.Trace, error) {
	var t sorting.Trace

	err := yaml.NewDecoder(r).Decode(&t)
	if err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}

	return &t, nil
}

// Extension implements Codec.Extension for YAML files.
func (YAMLCodec) Extension() string {
	return yamlExtension
}

// LZ4Codec wraps compact JSON in an LZ4 frame stream.
type LZ4Codec struct {
	inner JSONCodec

	// MaxDecoded caps the decompressed size in bytes. Zero means no cap.
	MaxDecoded int64
}

// Encode implements Codec.Encode.
func (c LZ4Codec) Encode(w io.Writer, t *sorting.Trace) error {
	zw := lz4.NewWriter(w)

	err := c.inner.Encode(zw, t)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode. A stream inflating past MaxDecoded fails
// with ErrTraceTooLarge.
func (c LZ4Codec) Decode(r io.Reader) (*sorting.Trace, error) {
	if c.MaxDecoded <= 0 {
		t, err := c.inner.Decode(lz4.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}

		return t, nil
	}

	capped := &cappedReader{r: lz4.NewReader(r), left: c.MaxDecoded + 1}

	t, err := c.inner.Decode(capped)
	if err == nil && capped.left <= 0 {
		err = ErrTraceTooLarge
	}

	if err != nil {
		if errors.Is(err, ErrTraceTooLarge) {
			return nil, fmt.Errorf("lz4: %w: inflates past %s", ErrTraceTooLarge,
				humanize.Bytes(safeconv.ByteCount(c.MaxDecoded)))
		}

		return nil, fmt.Errorf("lz4: %w", err)
	}

	return t, nil
}

// cappedReader passes through at most left bytes, then fails every read
// with ErrTraceTooLarge.
type cappedReader struct {
	r    io.Reader
	left int64
}

func (cr *cappedReader) Read(p []byte) (int, error) {
	if cr.left <= 0 {
		return 0, ErrTraceTooLarge
	}

	if int64(len(p)) > cr.left {
		p = p[:cr.left]
	}

	n, err := cr.r.Read(p)
	cr.left -= int64(n)

	return n, err
}

// Extension implements Codec.Extension for compressed files.
func (LZ4Codec) Extension() string {
	return lz4Extension
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatLZ4}
}

// CodecFor returns the codec for a format name.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML, "yml":
		return YAMLCodec{}, nil
	case FormatLZ4:
		return LZ4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// CodecForPath picks a codec from a file name's extension.
func CodecForPath(path string) (Codec, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".lz4"):
		return LZ4Codec{}, nil
	case strings.HasSuffix(name, yamlExtension), strings.HasSuffix(name, ymlExtension):
		return YAMLCodec{}, nil
	case strings.HasSuffix(name, jsonExtension):
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}
