package classify

import (
	"regexp"

	"github.com/rickchristie/remedy"
)

// Rule classifies diagnostics matching Pattern as Type.
type Rule struct {
	// Type is the error type assigned on match. Not restricted to the
	// built-in set; host-defined types work the same way.
	Type remedy.ErrorType

	// Pattern is the compiled expression tried against the message.
	Pattern *regexp.Regexp
}

// Rules is an ordered classification table. It implements
// [remedy.Classifier]: the first rule whose pattern matches the message
// decides the type.
type Rules struct {
	rules []Rule
}

// Compile-time check.
var _ remedy.Classifier = (*Rules)(nil)

// New creates a classifier from rules, evaluated in the given order.
//
// Panics when a rule has an empty type or a nil pattern: rule tables are
// static wiring, so a malformed entry is a programming error.
func New(rules ...Rule) *Rules {
	for _, r := range rules {
		if r.Type == "" {
			panic("classify: rule with empty error type")
		}
		if r.Pattern == nil {
			panic("classify: rule with nil pattern")
		}
	}
	table := make([]Rule, len(rules))
	copy(table, rules)
	return &Rules{rules: table}
}

// Classify returns the type of the first rule matching message, or
// [remedy.ErrorTypeOther] when nothing matches (including the empty
// message).
func (r *Rules) Classify(message string) remedy.ErrorType {
	if message == "" {
		return remedy.ErrorTypeOther
	}
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(message) {
			return rule.Type
		}
	}
	return remedy.ErrorTypeOther
}

// Table returns a copy of the rules in evaluation order.
func (r *Rules) Table() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// defaultTable is ordered most-specific first. Indentation precedes syntax
// because indentation diagnostics are a syntax subfamily with their own
// remediation; undefined-name precedes type because several toolchains
// mention "undefined" inside what are otherwise type messages.
var defaultTable = []Rule{
	{
		Type: remedy.ErrorTypeIndentation,
		Pattern: regexp.MustCompile(`(?i)indentationerror|taberror` +
			`|unexpected indent|expected an indented block` +
			`|unindent does not match`),
	},
	{
		Type: remedy.ErrorTypeSyntax,
		Pattern: regexp.MustCompile(`(?i)syntaxerror|invalid syntax` +
			`|syntax error|eof while scanning|unexpected eof` +
			`|unterminated string|invalid character`),
	},
	{
		Type: remedy.ErrorTypeUndefinedName,
		Pattern: regexp.MustCompile(`(?i)nameerror|is not defined` +
			`|undefined|undeclared name|unresolved reference`),
	},
	{
		Type: remedy.ErrorTypeImport,
		Pattern: regexp.MustCompile(`(?i)importerror|modulenotfounderror` +
			`|cannot import|no module named|cannot find package` +
			`|no required module provides`),
	},
	{
		Type: remedy.ErrorTypeType,
		Pattern: regexp.MustCompile(`(?i)typeerror|attributeerror` +
			`|has no attribute|positional argument|mismatched types` +
			`|cannot use .+ as|has no field or method`),
	},
	{
		Type: remedy.ErrorTypeLogic,
		Pattern: regexp.MustCompile(`(?i)indexerror|keyerror|valueerror` +
			`|zerodivisionerror|index out of range|out of bounds` +
			`|nil pointer dereference|slice bounds out of range` +
			`|assignment to entry in nil map|division by zero`),
	},
}

// Default returns the standard classification table, covering common Python
// and Go compiler/runtime diagnostics. The table is a fresh copy; callers
// can extend it without affecting other detectors.
func Default() *Rules {
	return New(defaultTable...)
}
