package traceio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

//go:embed trace.schema.json
var traceSchema []byte

// ErrInvalidTrace is wrapped by every validation failure.
var ErrInvalidTrace = errors.New("invalid trace")

// ValidationError lists every violation found in a trace document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTrace, strings.Join(e.Violations, "; "))
}

// Unwrap makes errors.Is(err, ErrInvalidTrace) hold.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidTrace
}

// Schema returns the embedded JSON schema for trace documents.
func Schema() []byte {
	return bytes.Clone(traceSchema)
}

// Validate checks a JSON trace document against the schema, then checks
// that the recorded run is coherent: role indices in range, the last
// snapshot equal to the final array, and the final array a sorted
// permutation of the input.
func Validate(data []byte) error {
	var doc any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	err := dec.Decode(&doc)
	if err != nil {
		return &ValidationError{Violations: []string{"malformed JSON: " + err.Error()}}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(traceSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}

		return &ValidationError{Violations: violations}
	}

	var t sorting.Trace

	err = json.Unmarshal(data, &t)
	if err != nil {
		return &ValidationError{Violations: []string{err.Error()}}
	}

	err = t.Verify()
	if err != nil {
		return &ValidationError{Violations: flatten(err)}
	}

	return nil
}

func flatten(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}

		return out
	}

	return []string{err.Error()}
}
