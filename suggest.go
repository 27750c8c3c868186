package remedy

import (
	"strconv"
	"strings"
)

// Template is the recovery guidance for one error type: a header line and an
// ordered list of remediation steps. Templates are plain data so hosts can
// swap the wording, translate it, or add entries for their own error types
// without touching control flow; the advice package loads catalogs from YAML.
type Template struct {
	// Header is the first line of the guidance, e.g.
	// "SYNTAX ERROR - try these steps:".
	Header string

	// Steps are rendered as a numbered list, in order.
	Steps []string
}

// TemplateSet maps error types to their recovery templates.
//
// The [ErrorTypeOther] entry doubles as the generic fallback: lookups for a
// type with no entry resolve to it, so recording events with host-defined
// types never fails suggestion generation.
type TemplateSet map[ErrorType]Template

// ForType resolves the template for t, falling back to the ErrorTypeOther
// entry and finally to a minimal built-in so resolution never fails.
func (ts TemplateSet) ForType(t ErrorType) Template {
	if tmpl, ok := ts[t]; ok {
		return tmpl
	}
	if tmpl, ok := ts[ErrorTypeOther]; ok {
		return tmpl
	}
	return Template{
		Header: "ERROR RECOVERY - general steps:",
		Steps: []string{
			"Read the full diagnostic carefully; the last line usually names the real cause.",
			"Reproduce the failure with the smallest possible command.",
			"Fix one thing at a time and re-run between fixes.",
		},
	}
}

// DefaultTemplates returns the built-in recovery catalog. The returned set is
// a fresh copy; callers can modify it freely or overlay entries loaded with
// the advice package.
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		ErrorTypeSyntax: {
			Header: "SYNTAX ERROR - try these steps:",
			Steps: []string{
				"Read the diagnostic's exact line and column before changing anything.",
				"Check for missing colons, brackets, parentheses, or commas near that line.",
				"Look for unterminated strings and mismatched quotes.",
				"View the surrounding lines to confirm the structure you expected is really there.",
			},
		},
		ErrorTypeIndentation: {
			Header: "INDENTATION ERROR - try these steps:",
			Steps: []string{
				"Open the failing line and compare its indentation with the surrounding block.",
				"Use one indent unit consistently for the whole block; never mix tabs and spaces.",
				"Re-indent the entire block instead of nudging single lines.",
				"Check that every block opener has an indented body under it.",
			},
		},
		ErrorTypeUndefinedName: {
			Header: "UNDEFINED NAME ERROR - try these steps:",
			Steps: []string{
				"Check the name for typos against its definition.",
				"Confirm the name is defined or imported before its first use.",
				"Search the codebase for the definition to confirm it exists and is visible here.",
				"If it should come from a module, add or fix the corresponding import.",
			},
		},
		ErrorTypeImport: {
			Header: "IMPORT ERROR - try these steps:",
			Steps: []string{
				"Verify the module or package name is spelled exactly right.",
				"Check the dependency actually exists in this environment (installed, vendored, or a local path).",
				"Look for circular imports between the modules involved.",
				"Import the smallest thing possible to isolate which part fails.",
			},
		},
		ErrorTypeType: {
			Header: "TYPE ERROR - try these steps:",
			Steps: []string{
				"Identify the actual runtime type of the value the diagnostic complains about.",
				"Compare the function signature or field you are using against that type.",
				"Add the missing conversion instead of changing declarations blindly.",
				"Trace where the value was produced; the mismatch usually starts earlier than the failing line.",
			},
		},
		ErrorTypeLogic: {
			Header: "LOGIC ERROR - try these steps:",
			Steps: []string{
				"Check the failing index, key, or value against what the data actually contains.",
				"Guard the empty or missing case before accessing it.",
				"Log the intermediate value right before the failing line.",
				"Re-check loop bounds and off-by-one arithmetic near the failure.",
			},
		},
		ErrorTypeOther: {
			Header: "ERROR RECOVERY - general steps:",
			Steps: []string{
				"Read the full diagnostic carefully; the last line usually names the real cause.",
				"Reproduce the failure with the smallest possible command.",
				"Undo the most recent change and re-run to confirm it introduced the failure.",
				"Fix one thing at a time and re-run between fixes.",
			},
		},
	}
}

// Suggestion is the recovery guidance returned by [Detector.Record] when a
// loop is detected. Text is the full rendered message to splice into the
// agent's next observation; the other fields let hosts route or annotate it.
type Suggestion struct {
	// Reason is the loop that triggered this suggestion.
	Reason LoopReason

	// Type is the triggering event's error type.
	Type ErrorType

	// Occurrence is the lifetime count of Type errors this instance,
	// including the triggering event ("This is your 3rd syntax error").
	Occurrence int

	// Attempt is the recovery_attempts counter after this suggestion, i.e.
	// how many suggestions this instance has received including this one.
	Attempt int

	// Text is the rendered guidance.
	Text string
}

// String returns the rendered guidance text.
func (s *Suggestion) String() string {
	return s.Text
}

// renderSuggestion assembles the suggestion text: warning banner, template
// steps, escalation blocks, and the failing snippet when one was provided.
func renderSuggestion(
	tmpl Template,
	s *Suggestion,
	totalErrors int64,
	cfg Config,
	snippet string,
) string {
	var b strings.Builder

	b.WriteString("WARNING: Loop detected - ")
	b.WriteString(s.Reason.String())
	b.WriteString(".\n")
	b.WriteString("This is your ")
	b.WriteString(ordinal(s.Occurrence))
	b.WriteString(" ")
	b.WriteString(string(s.Type))
	b.WriteString(" error (recovery attempt #")
	b.WriteString(strconv.Itoa(s.Attempt))
	b.WriteString(").\n")

	b.WriteString("\n")
	b.WriteString(tmpl.Header)
	b.WriteString("\n")
	for i, step := range tmpl.Steps {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(step)
		b.WriteString("\n")
	}

	if s.Occurrence >= cfg.EscalateOccurrences {
		b.WriteString("\nConsider a fundamentally different approach:\n")
		b.WriteString("- Re-read the task description and check the assumptions behind your current plan.\n")
		b.WriteString("- Study how similar code elsewhere in the repository handles this case.\n")
		b.WriteString("- Make the smallest change that could possibly work, then re-run.\n")
	}

	if totalErrors >= int64(cfg.EscalateTotalErrors) {
		b.WriteString("\nNOTE: ")
		b.WriteString(strconv.FormatInt(totalErrors, 10))
		b.WriteString(" errors recorded for this instance. You may be approaching ")
		b.WriteString("the problem incorrectly. Step back and reconsider your overall ")
		b.WriteString("strategy before the next edit.\n")
	}

	if snippet != "" {
		b.WriteString("\nFailing code:\n\n")
		b.WriteString(indent(snippet, "    "))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// ordinal renders 1 as "1st", 2 as "2nd", 3 as "3rd", 11 as "11th", and so
// on.
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		// 11th, 12th, 13th
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// indent prefixes every line of text with the given prefix.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
