package remedy

import "strconv"

// ErrorType classifies an observed failure. The built-in classification is a
// closed set, but the type is open: hosts can record events with their own
// values (e.g. "database") and heuristics and templates treat them uniformly.
type ErrorType string

const (
	// ErrorTypeSyntax covers malformed source (missing delimiters, bad
	// tokens, unterminated literals).
	ErrorTypeSyntax ErrorType = "syntax"

	// ErrorTypeIndentation covers indentation and block-structure problems.
	ErrorTypeIndentation ErrorType = "indentation"

	// ErrorTypeUndefinedName covers references to names that do not exist
	// (NameError, "undefined: x", undeclared identifiers).
	ErrorTypeUndefinedName ErrorType = "undefined_name"

	// ErrorTypeImport covers failing imports and unresolvable modules or
	// packages.
	ErrorTypeImport ErrorType = "import"

	// ErrorTypeType covers type mismatches and attribute/method lookups on
	// the wrong kind of value.
	ErrorTypeType ErrorType = "type"

	// ErrorTypeLogic covers runtime failures that usually indicate a logic
	// mistake rather than malformed code (index/key/value errors, nil
	// dereferences).
	ErrorTypeLogic ErrorType = "logic"

	// ErrorTypeOther is the fallback for everything unclassifiable. Events
	// recorded with an empty Type and no matching classification rule are
	// stored as ErrorTypeOther.
	//
	// ErrorTypeOther never satisfies the repetitive-type loop heuristic:
	// three unrelated unclassified failures are not evidence of a loop.
	ErrorTypeOther ErrorType = "other"
)

// String returns the type as a plain string.
func (t ErrorType) String() string {
	return string(t)
}

// ErrorEvent is one observed failure, already extracted into structured form
// by the host. The detector never parses raw tool output; the host decides
// what constitutes an error and fills in whatever fields it could extract.
//
// Partially populated events are fine. A missing location only means the
// location-based heuristics cannot fire for it; an empty Type is filled in
// by the detector (classifier when configured, ErrorTypeOther otherwise).
type ErrorEvent struct {
	// Sequence is the event's position within the detector's lifetime,
	// starting at 1. Assigned by the detector on Record; any host-supplied
	// value is overwritten. Reset does not rewind it, so sequence numbers
	// stay unique across task instances.
	Sequence int64

	// Type is the error classification. Leave empty to have the detector
	// classify Message.
	Type ErrorType

	// Message is the raw diagnostic text. Display only; the detector never
	// reparses it after classification.
	Message string

	// File is the source file the failure points at, when known.
	File string

	// Line is the 1-based line number within File, when known. Zero means
	// unknown; a bare File with Line zero is still usable by the same-file
	// heuristic.
	Line int

	// Action is the tool or command that produced the error (e.g. "edit",
	// "python main.py").
	Action string

	// CodeSnippet is an optional excerpt around the failure, quoted back in
	// suggestions.
	CodeSnippet string
}

// Location renders the event's location as "file:line", "file" when the line
// is unknown, or "" when there is no location at all.
func (e ErrorEvent) Location() string {
	if e.File == "" {
		return ""
	}
	if e.Line <= 0 {
		return e.File
	}
	return e.File + ":" + strconv.Itoa(e.Line)
}

// HasLocation reports whether the event carries a full (file, line) pair.
func (e ErrorEvent) HasLocation() bool {
	return e.File != "" && e.Line > 0
}

// Classifier maps raw diagnostic text to an ErrorType. Implementations must
// return ErrorTypeOther (never "") when nothing matches.
//
// The classify package provides the standard rule table; hosts with their own
// extraction pipeline can skip classification entirely by recording events
// with Type already set.
type Classifier interface {
	Classify(message string) ErrorType
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(message string) ErrorType

// Classify calls f.
func (f ClassifierFunc) Classify(message string) ErrorType {
	return f(message)
}
