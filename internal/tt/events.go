// Package tt provides test helper functions for the remedy testing framework.
package tt

import (
	"github.com/rickchristie/remedy"
)

// -----------------------------------------------------------------------------
// ErrorEvent Builders
// -----------------------------------------------------------------------------

// Err creates an ErrorEvent with the given type and message and no location.
// Sequence is left zero; Detector.Record assigns it.
func Err(errorType remedy.ErrorType, message string) remedy.ErrorEvent {
	return remedy.ErrorEvent{
		Type:    errorType,
		Message: message,
	}
}

// ErrAt creates an ErrorEvent with the given type, message, and location.
func ErrAt(errorType remedy.ErrorType, message, file string, line int) remedy.ErrorEvent {
	return remedy.ErrorEvent{
		Type:    errorType,
		Message: message,
		File:    file,
		Line:    line,
	}
}

// ErrInFile creates an ErrorEvent with a file but no line number.
func ErrInFile(errorType remedy.ErrorType, message, file string) remedy.ErrorEvent {
	return remedy.ErrorEvent{
		Type:    errorType,
		Message: message,
		File:    file,
	}
}

// Repeat returns n copies of the given event.
func Repeat(n int, event remedy.ErrorEvent) []remedy.ErrorEvent {
	events := make([]remedy.ErrorEvent, n)
	for i := range events {
		events[i] = event
	}
	return events
}

// Feed records all events on the detector in order and returns the
// suggestions emitted, one entry per event (nil when no loop was detected).
func Feed(d *remedy.Detector, events ...remedy.ErrorEvent) []*remedy.Suggestion {
	suggestions := make([]*remedy.Suggestion, 0, len(events))
	for _, event := range events {
		suggestions = append(suggestions, d.Record(event))
	}
	return suggestions
}

// LastSuggestion records all events in order and returns the suggestion from
// the final Record call.
func LastSuggestion(d *remedy.Detector, events ...remedy.ErrorEvent) *remedy.Suggestion {
	suggestions := Feed(d, events...)
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions[len(suggestions)-1]
}
