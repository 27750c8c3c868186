package classify

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rickchristie/remedy"
	"github.com/rickchristie/remedy/internal/schema"
)

// Parse errors
var (
	ErrInvalidRules = errors.New("invalid classification rules document")
)

// rulesSchema validates the document shape before decoding, so loader errors
// name the offending field instead of surfacing as a zero-valued table.
var rulesSchema = schema.MustCompile(map[string]any{
	"type":                 "object",
	"required":             []string{"rules"},
	"additionalProperties": false,
	"properties": map[string]any{
		"rules": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"required":             []string{"type", "patterns"},
				"additionalProperties": false,
				"properties": map[string]any{
					"type": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"patterns": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
					},
				},
			},
		},
	},
})

type rulesDoc struct {
	Rules []ruleDoc `yaml:"rules"`
}

type ruleDoc struct {
	Type     string   `yaml:"type"`
	Patterns []string `yaml:"patterns"`
}

// Parse builds a classifier from a YAML rules document:
//
//	rules:
//	  - type: syntax
//	    patterns:
//	      - 'SyntaxError'
//	      - 'invalid syntax'
//
// Each entry's patterns are combined into one case-insensitive alternation,
// so a rule matches when any of its patterns does. Rules keep document
// order. The document is schema-validated before decoding; malformed YAML,
// schema violations, and uncompilable patterns all return errors wrapping
// [ErrInvalidRules].
func Parse(data []byte) (*Rules, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := rulesSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for _, rd := range doc.Rules {
		pattern, err := compilePatterns(rd.Patterns)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidRules, rd.Type, err)
		}
		rules = append(rules, Rule{
			Type:    remedy.ErrorType(rd.Type),
			Pattern: pattern,
		})
	}
	return New(rules...), nil
}

// Load reads a YAML rules document from r and parses it. See [Parse].
func Load(r io.Reader) (*Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules document: %w", err)
	}
	return Parse(data)
}

// compilePatterns combines the entry's patterns into one case-insensitive
// alternation.
func compilePatterns(patterns []string) (*regexp.Regexp, error) {
	grouped := make([]string, len(patterns))
	for i, p := range patterns {
		grouped[i] = "(?:" + p + ")"
	}
	return regexp.Compile("(?i)" + strings.Join(grouped, "|"))
}
