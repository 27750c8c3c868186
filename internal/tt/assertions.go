package tt

import (
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	"github.com/rickchristie/remedy"
)

// -----------------------------------------------------------------------------
// Text Assertion Helpers
// -----------------------------------------------------------------------------

// AssertTextEqual asserts that two multi-line texts match and prints a
// unified diff on mismatch. Suggestion texts span a dozen lines or more, so
// a diff localizes the failure far better than testify's side-by-side dump.
func AssertTextEqual(t *testing.T, expected, actual string, msgAndArgs ...any) bool {
	t.Helper()

	if expected == actual {
		return true
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		// Fall back to testify's dump if diffing itself fails.
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}

	assert.Fail(t, "text mismatch:\n"+diff, msgAndArgs...)
	return false
}

// -----------------------------------------------------------------------------
// Event Collection Helpers
// -----------------------------------------------------------------------------

// CollectEvents reads n events from the stream, failing the test if the
// stream does not deliver them within the timeout.
func CollectEvents(t *testing.T, stream *remedy.EventStream, n int, timeout time.Duration) []remedy.Event {
	t.Helper()

	events := make([]remedy.Event, 0, n)
	deadline := time.After(timeout)
	for len(events) < n {
		select {
		case event, ok := <-stream.Events():
			if !ok {
				t.Fatalf("event stream closed after %d of %d events", len(events), n)
				return events
			}
			events = append(events, event)
		case <-deadline:
			t.Fatalf("timed out after %v waiting for event %d of %d", timeout, len(events)+1, n)
			return events
		}
	}
	return events
}

// EventTypeNames maps events to their type names, for tests that assert on
// dispatch order without comparing payloads.
func EventTypeNames(events []remedy.Event) []string {
	names := make([]string, 0, len(events))
	for _, event := range events {
		switch event.(type) {
		case remedy.RecordedEvent:
			names = append(names, "RecordedEvent")
		case remedy.LoopDetectedEvent:
			names = append(names, "LoopDetectedEvent")
		case remedy.ResetEvent:
			names = append(names, "ResetEvent")
		default:
			names = append(names, "UnknownEvent")
		}
	}
	return names
}
