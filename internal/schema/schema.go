// Package schema wraps JSON Schema compilation and validation for the YAML
// data formats (classification rules, advice catalogs).
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a compiled validator for one document format.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a raw schema map. The map is round-tripped through JSON
// so it reaches the compiler in the representation it expects.
func Compile(raw map[string]any) (*Schema, error) {
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(rawJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Use for the package-level
// schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate validates a decoded document (maps, slices, scalars) against the
// schema. Returns nil when valid.
func (s *Schema) Validate(doc any) error {
	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a JSON Schema validation failure with a cleaner
// message while keeping the original inspectable via Unwrap.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
