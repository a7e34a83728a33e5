package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// presenceSchema only gates on the three blocks the renderers cannot do
// without. Field types inside them and array lengths are not checked.
const presenceSchema = `{
  "type": "object",
  "required": ["counts", "losses", "bleu"],
  "properties": {
    "counts": {"type": "object"},
    "losses": {"type": "object"},
    "bleu":   {"type": "object"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func presence() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(presenceSchema))
	})
	return schema, schemaErr
}

// ParseError reports input text that could not be decoded.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "error parsing JSON: " + e.Reason
}

// ValidationError reports a document missing counts, losses or bleu.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := "JSON does not contain the expected fields (counts, losses, bleu)"
	if len(e.Problems) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(e.Problems, "; ")
}

// Validate checks an already decoded document against the presence gate.
func Validate(doc any) error {
	s, err := presence()
	if err != nil {
		return fmt.Errorf("compile presence schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ValidationError{Problems: problems}
}

// Parse turns raw input text into a validated Payload. Syntax and decode
// failures yield *ParseError, a failed presence gate yields *ValidationError.
func Parse(raw []byte) (Payload, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Payload{}, &ParseError{Reason: err.Error()}
	}
	if err := Validate(doc); err != nil {
		return Payload{}, err
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, &ParseError{Reason: err.Error()}
	}
	return p, nil
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
