package classify

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickchristie/remedy"
)

func TestDefault_ClassifiesDiagnostics(t *testing.T) {
	type input struct {
		message string
	}

	type expected struct {
		errorType remedy.ErrorType
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "python syntax error",
			input:    input{message: "SyntaxError: invalid syntax"},
			expected: expected{errorType: remedy.ErrorTypeSyntax},
		},
		{
			name:     "python eof while scanning",
			input:    input{message: "SyntaxError: EOF while scanning triple-quoted string literal"},
			expected: expected{errorType: remedy.ErrorTypeSyntax},
		},
		{
			name:     "python indentation error",
			input:    input{message: "IndentationError: unexpected indent"},
			expected: expected{errorType: remedy.ErrorTypeIndentation},
		},
		{
			name:     "python tab error",
			input:    input{message: "TabError: inconsistent use of tabs and spaces in indentation"},
			expected: expected{errorType: remedy.ErrorTypeIndentation},
		},
		{
			name:     "python unindent mismatch",
			input:    input{message: "IndentationError: unindent does not match any outer indentation level"},
			expected: expected{errorType: remedy.ErrorTypeIndentation},
		},
		{
			name:     "python name error",
			input:    input{message: "NameError: name 'respnse' is not defined"},
			expected: expected{errorType: remedy.ErrorTypeUndefinedName},
		},
		{
			name:     "go undefined identifier",
			input:    input{message: "./main.go:10:2: undefined: Foo"},
			expected: expected{errorType: remedy.ErrorTypeUndefinedName},
		},
		{
			name:     "python module not found",
			input:    input{message: "ModuleNotFoundError: No module named 'requests'"},
			expected: expected{errorType: remedy.ErrorTypeImport},
		},
		{
			name:     "python circular import",
			input:    input{message: "ImportError: cannot import name 'models' from partially initialized module"},
			expected: expected{errorType: remedy.ErrorTypeImport},
		},
		{
			name:     "go missing package",
			input:    input{message: `main.go:3:8: cannot find package "example.com/foo" in any of:`},
			expected: expected{errorType: remedy.ErrorTypeImport},
		},
		{
			name:     "python type error",
			input:    input{message: "TypeError: unsupported operand type(s) for +: 'int' and 'str'"},
			expected: expected{errorType: remedy.ErrorTypeType},
		},
		{
			name:     "python attribute error",
			input:    input{message: "AttributeError: 'NoneType' object has no attribute 'split'"},
			expected: expected{errorType: remedy.ErrorTypeType},
		},
		{
			name:     "go type mismatch",
			input:    input{message: "main.go:5:10: cannot use x (variable of type int) as string value"},
			expected: expected{errorType: remedy.ErrorTypeType},
		},
		{
			name:     "python index error",
			input:    input{message: "IndexError: list index out of range"},
			expected: expected{errorType: remedy.ErrorTypeLogic},
		},
		{
			name:     "python zero division",
			input:    input{message: "ZeroDivisionError: division by zero"},
			expected: expected{errorType: remedy.ErrorTypeLogic},
		},
		{
			name:     "go nil dereference",
			input:    input{message: "panic: runtime error: invalid memory address or nil pointer dereference"},
			expected: expected{errorType: remedy.ErrorTypeLogic},
		},
		{
			name:     "go slice bounds",
			input:    input{message: "panic: runtime error: slice bounds out of range [:5] with capacity 3"},
			expected: expected{errorType: remedy.ErrorTypeLogic},
		},
		{
			name:     "unrecognized diagnostic",
			input:    input{message: "Segmentation fault (core dumped)"},
			expected: expected{errorType: remedy.ErrorTypeOther},
		},
		{
			name:     "empty message",
			input:    input{message: ""},
			expected: expected{errorType: remedy.ErrorTypeOther},
		},
	}

	classifier := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.errorType, classifier.Classify(tt.input.message))
		})
	}
}

func TestRules_FirstMatchWins(t *testing.T) {
	classifier := New(
		Rule{Type: remedy.ErrorType("first"), Pattern: regexp.MustCompile(`error`)},
		Rule{Type: remedy.ErrorType("second"), Pattern: regexp.MustCompile(`error`)},
	)

	assert.Equal(t, remedy.ErrorType("first"), classifier.Classify("an error occurred"),
		"rules are evaluated in table order")
}

func TestNew_PanicsOnMalformedRules(t *testing.T) {
	assert.PanicsWithValue(t, "classify: rule with empty error type", func() {
		New(Rule{Type: "", Pattern: regexp.MustCompile(`x`)})
	})
	assert.PanicsWithValue(t, "classify: rule with nil pattern", func() {
		New(Rule{Type: remedy.ErrorTypeSyntax, Pattern: nil})
	})
}

func TestRules_TableReturnsCopy(t *testing.T) {
	classifier := New(
		Rule{Type: remedy.ErrorTypeSyntax, Pattern: regexp.MustCompile(`syntax`)},
	)

	table := classifier.Table()
	require.Len(t, table, 1)
	table[0].Type = remedy.ErrorTypeLogic

	assert.Equal(t, remedy.ErrorTypeSyntax, classifier.Classify("syntax"),
		"mutating a returned table must not affect the classifier")
}

func TestDefault_WiresIntoDetector(t *testing.T) {
	det := remedy.NewDetector(remedy.DefaultConfig()).WithClassifier(Default())

	det.Record(remedy.ErrorEvent{Message: "SyntaxError: invalid syntax", File: "m.py", Line: 1})
	det.Record(remedy.ErrorEvent{Message: "SyntaxError: invalid syntax", File: "m.py", Line: 2})
	suggestion := det.Record(remedy.ErrorEvent{Message: "SyntaxError: invalid syntax", File: "m.py", Line: 3})

	require.NotNil(t, suggestion,
		"classified messages feed the loop heuristics like preclassified events")
	assert.Equal(t, remedy.ErrorTypeSyntax, suggestion.Type)
}
