package advice

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rickchristie/remedy"
	"github.com/rickchristie/remedy/internal/schema"
)

var (
	// ErrInvalidCatalog is returned when a catalog document fails schema
	// validation or cannot be decoded.
	ErrInvalidCatalog = errors.New("advice: invalid catalog")
)

// catalogSchema validates the decoded YAML document before it is bound to
// typed structs. Entry keys are error types and are not constrained to the
// built-in set, so hosts can ship templates for their own classifications.
var catalogSchema = schema.MustCompile(map[string]any{
	"type":     "object",
	"required": []any{"templates"},
	"properties": map[string]any{
		"templates": map[string]any{
			"type":          "object",
			"minProperties": 1,
			"additionalProperties": map[string]any{
				"type":     "object",
				"required": []any{"header", "steps"},
				"properties": map[string]any{
					"header": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"steps": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
					},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
})

type catalogDoc struct {
	Templates map[string]templateDoc `yaml:"templates"`
}

type templateDoc struct {
	Header string   `yaml:"header"`
	Steps  []string `yaml:"steps"`
}

// Parse decodes a YAML catalog document into a template set. The document is
// schema-validated first, so errors name the offending entry rather than
// surfacing as a zero-value template at suggestion time.
func Parse(data []byte) (remedy.TemplateSet, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := catalogSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	set := make(remedy.TemplateSet, len(doc.Templates))
	for name, entry := range doc.Templates {
		set[remedy.ErrorType(name)] = remedy.Template{
			Header: entry.Header,
			Steps:  append([]string(nil), entry.Steps...),
		}
	}
	return set, nil
}

// Load reads a YAML catalog document from r and parses it.
func Load(r io.Reader) (remedy.TemplateSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}
	return Parse(data)
}

// Merge layers overlay on top of base without mutating either. Entries in
// overlay win; base entries without an override are carried as-is. Use it to
// customize a few templates while keeping the built-in set for the rest:
//
//	det.WithTemplates(advice.Merge(remedy.DefaultTemplates(), custom))
func Merge(base, overlay remedy.TemplateSet) remedy.TemplateSet {
	merged := make(remedy.TemplateSet, len(base)+len(overlay))
	for t, tmpl := range base {
		merged[t] = tmpl
	}
	for t, tmpl := range overlay {
		merged[t] = tmpl
	}
	return merged
}
