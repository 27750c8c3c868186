package remedy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSet_ForType(t *testing.T) {
	set := TemplateSet{
		ErrorTypeSyntax: {Header: "S:", Steps: []string{"s1"}},
		ErrorTypeOther:  {Header: "O:", Steps: []string{"o1"}},
	}

	assert.Equal(t, "S:", set.ForType(ErrorTypeSyntax).Header)
	assert.Equal(t, "O:", set.ForType(ErrorTypeImport).Header,
		"missing entries fall back to the other template")
	assert.Equal(t, "O:", set.ForType(ErrorType("database")).Header,
		"host-defined types fall back the same way")
}

func TestTemplateSet_ForType_BuiltinFallback(t *testing.T) {
	set := TemplateSet{}

	tmpl := set.ForType(ErrorTypeSyntax)

	assert.Equal(t, "ERROR RECOVERY - general steps:", tmpl.Header,
		"an empty set still resolves to usable guidance")
	assert.NotEmpty(t, tmpl.Steps)
}

func TestDefaultTemplates_CoverBuiltinTypes(t *testing.T) {
	set := DefaultTemplates()

	for _, errorType := range []ErrorType{
		ErrorTypeSyntax,
		ErrorTypeIndentation,
		ErrorTypeUndefinedName,
		ErrorTypeImport,
		ErrorTypeType,
		ErrorTypeLogic,
		ErrorTypeOther,
	} {
		tmpl, ok := set[errorType]
		require.True(t, ok, "missing template for %s", errorType)
		assert.NotEmpty(t, tmpl.Header, "template for %s has no header", errorType)
		assert.NotEmpty(t, tmpl.Steps, "template for %s has no steps", errorType)
	}
}

func TestDefaultTemplates_ReturnsFreshCopy(t *testing.T) {
	first := DefaultTemplates()
	first[ErrorTypeSyntax] = Template{Header: "mutated", Steps: []string{"x"}}

	second := DefaultTemplates()
	assert.Equal(t, "SYNTAX ERROR - try these steps:", second[ErrorTypeSyntax].Header,
		"callers must be able to modify their copy freely")
}

func TestRenderSuggestion_Basic(t *testing.T) {
	set := DefaultTemplates()
	s := &Suggestion{
		Reason:     LoopReason{Kind: LoopSameLocation, File: "utils.py", Line: 10, Count: 3},
		Type:       ErrorTypeLogic,
		Occurrence: 1,
		Attempt:    1,
	}

	text := renderSuggestion(set.ForType(s.Type), s, 3, DefaultConfig(), "")

	expected := `WARNING: Loop detected - Repeatedly failing at line 10.
This is your 1st logic error (recovery attempt #1).

LOGIC ERROR - try these steps:
1. Check the failing index, key, or value against what the data actually contains.
2. Guard the empty or missing case before accessing it.
3. Log the intermediate value right before the failing line.
4. Re-check loop bounds and off-by-one arithmetic near the failure.`
	assert.Equal(t, expected, text)
}

func TestRenderSuggestion_EscalationsAndSnippet(t *testing.T) {
	set := DefaultTemplates()
	s := &Suggestion{
		Reason:     LoopReason{Kind: LoopRepeatedType, Type: ErrorTypeSyntax, Count: 3},
		Type:       ErrorTypeSyntax,
		Occurrence: 3,
		Attempt:    2,
	}

	text := renderSuggestion(set.ForType(s.Type), s, 7, DefaultConfig(), "x = (1\ny = 2")

	expected := `WARNING: Loop detected - Repetitive syntax errors.
This is your 3rd syntax error (recovery attempt #2).

SYNTAX ERROR - try these steps:
1. Read the diagnostic's exact line and column before changing anything.
2. Check for missing colons, brackets, parentheses, or commas near that line.
3. Look for unterminated strings and mismatched quotes.
4. View the surrounding lines to confirm the structure you expected is really there.

Consider a fundamentally different approach:
- Re-read the task description and check the assumptions behind your current plan.
- Study how similar code elsewhere in the repository handles this case.
- Make the smallest change that could possibly work, then re-run.

NOTE: 7 errors recorded for this instance. You may be approaching the problem incorrectly. Step back and reconsider your overall strategy before the next edit.

Failing code:

    x = (1
    y = 2`
	assert.Equal(t, expected, text)
}

func TestRenderSuggestion_EscalationThresholds(t *testing.T) {
	type input struct {
		occurrence  int
		totalErrors int64
	}

	type expected struct {
		hasApproachBlock bool
		hasTotalNote     bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "below both thresholds",
			input:    input{occurrence: 2, totalErrors: 4},
			expected: expected{hasApproachBlock: false, hasTotalNote: false},
		},
		{
			name:     "occurrence threshold reached",
			input:    input{occurrence: 3, totalErrors: 4},
			expected: expected{hasApproachBlock: true, hasTotalNote: false},
		},
		{
			name:     "total threshold reached",
			input:    input{occurrence: 2, totalErrors: 7},
			expected: expected{hasApproachBlock: false, hasTotalNote: true},
		},
		{
			name:     "both thresholds exceeded",
			input:    input{occurrence: 5, totalErrors: 12},
			expected: expected{hasApproachBlock: true, hasTotalNote: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Suggestion{
				Reason:     LoopReason{Kind: LoopRepeatedType, Type: ErrorTypeType, Count: 3},
				Type:       ErrorTypeType,
				Occurrence: tt.input.occurrence,
				Attempt:    1,
			}

			text := renderSuggestion(
				DefaultTemplates().ForType(s.Type), s,
				tt.input.totalErrors, DefaultConfig(), "")

			if tt.expected.hasApproachBlock {
				assert.Contains(t, text, "Consider a fundamentally different approach:")
			} else {
				assert.NotContains(t, text, "Consider a fundamentally different approach:")
			}
			if tt.expected.hasTotalNote {
				assert.Contains(t, text, "errors recorded for this instance")
			} else {
				assert.NotContains(t, text, "errors recorded for this instance")
			}
		})
	}
}

func TestSuggestion_String(t *testing.T) {
	s := &Suggestion{Text: "guidance"}
	assert.Equal(t, "guidance", s.String())
}

func TestOrdinal(t *testing.T) {
	type input struct {
		n int
	}

	type expected struct {
		text string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "first", input: input{n: 1}, expected: expected{text: "1st"}},
		{name: "second", input: input{n: 2}, expected: expected{text: "2nd"}},
		{name: "third", input: input{n: 3}, expected: expected{text: "3rd"}},
		{name: "fourth", input: input{n: 4}, expected: expected{text: "4th"}},
		{name: "eleventh", input: input{n: 11}, expected: expected{text: "11th"}},
		{name: "twelfth", input: input{n: 12}, expected: expected{text: "12th"}},
		{name: "thirteenth", input: input{n: 13}, expected: expected{text: "13th"}},
		{name: "twenty-first", input: input{n: 21}, expected: expected{text: "21st"}},
		{name: "twenty-second", input: input{n: 22}, expected: expected{text: "22nd"}},
		{name: "twenty-third", input: input{n: 23}, expected: expected{text: "23rd"}},
		{name: "hundred-and-first", input: input{n: 101}, expected: expected{text: "101st"}},
		{name: "hundred-and-eleventh", input: input{n: 111}, expected: expected{text: "111th"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.text, ordinal(tt.input.n))
		})
	}
}
