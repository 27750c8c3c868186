package remedy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHook collects every dispatch for assertion. Dispatch is
// synchronous under the detector's lock, so plain slices are safe here.
type recordingHook struct {
	order    []string
	recorded []RecordedEvent
	loops    []LoopDetectedEvent
	resets   []ResetEvent
}

func (h *recordingHook) OnRecord(event RecordedEvent) {
	h.recorded = append(h.recorded, event)
	h.order = append(h.order, "record")
}

func (h *recordingHook) OnLoopDetected(event LoopDetectedEvent) {
	h.loops = append(h.loops, event)
	h.order = append(h.order, "loop")
}

func (h *recordingHook) OnReset(event ResetEvent) {
	h.resets = append(h.resets, event)
	h.order = append(h.order, "reset")
}

// loopOnlyHook implements just LoopHook.
type loopOnlyHook struct {
	loops int
}

func (h *loopOnlyHook) OnLoopDetected(LoopDetectedEvent) {
	h.loops++
}

func TestRegisterHook_PanicsWhenNoHookInterface(t *testing.T) {
	det := NewDetector(DefaultConfig())

	assert.PanicsWithValue(t,
		"remedy: RegisterHook called with a hook that implements no hook interface",
		func() { det.RegisterHook(struct{}{}) })
	assert.PanicsWithValue(t,
		"remedy: RegisterHook called with a hook that implements no hook interface",
		func() { det.RegisterHook(42) })
}

func TestRegisterHook_AcceptsPartialHooks(t *testing.T) {
	det := NewDetector(DefaultConfig())
	hook := &loopOnlyHook{}

	assert.NotPanics(t, func() { det.RegisterHook(hook) })

	for i := 0; i < 3; i++ {
		det.Record(ErrorEvent{Type: ErrorTypeSyntax})
	}
	assert.Equal(t, 1, hook.loops, "partial hooks receive only their events")
}

func TestHooks_DispatchOrder(t *testing.T) {
	det := NewDetector(DefaultConfig())
	hook := &recordingHook{}
	det.RegisterHook(hook)

	for i := 0; i < 3; i++ {
		det.Record(ErrorEvent{Type: ErrorTypeSyntax, File: "main.py", Line: 42})
	}
	det.ResetForInstance("next")

	assert.Equal(t,
		[]string{"record", "record", "record", "loop", "reset"},
		hook.order,
		"record fires per event, loop after the triggering record, reset last")
}

func TestHooks_RecordedEventCarriesStoredForm(t *testing.T) {
	det := NewDetector(DefaultConfig()).WithClassifier(
		ClassifierFunc(func(message string) ErrorType {
			return ErrorTypeImport
		}))
	hook := &recordingHook{}
	det.RegisterHook(hook)

	det.Record(ErrorEvent{Message: "ModuleNotFoundError: no module named x"})

	require.Len(t, hook.recorded, 1)
	stored := hook.recorded[0].Event
	assert.Equal(t, ErrorTypeImport, stored.Type,
		"hooks see the event after classification")
	assert.Equal(t, int64(1), stored.Sequence,
		"hooks see the event after sequence assignment")
}

func TestHooks_LoopEventCarriesReturnedSuggestion(t *testing.T) {
	det := NewDetector(DefaultConfig())
	hook := &recordingHook{}
	det.RegisterHook(hook)

	var suggestion *Suggestion
	for i := 0; i < 3; i++ {
		suggestion = det.Record(ErrorEvent{Type: ErrorTypeSyntax})
	}

	require.NotNil(t, suggestion)
	require.Len(t, hook.loops, 1)
	assert.Same(t, suggestion, hook.loops[0].Suggestion,
		"hooks and caller see the same suggestion")
	assert.Equal(t, LoopRepeatedType, hook.loops[0].Reason.Kind)
}

func TestHooks_ResetEventCarriesPreviousStats(t *testing.T) {
	det := NewDetector(DefaultConfig())
	hook := &recordingHook{}
	det.RegisterHook(hook)

	det.ResetForInstance("instance-a")
	for i := 0; i < 3; i++ {
		det.Record(ErrorEvent{Type: ErrorTypeSyntax, File: "a.py", Line: 1})
	}
	det.ResetForInstance("instance-b")

	require.Len(t, hook.resets, 2)

	first := hook.resets[0]
	assert.Equal(t, "instance-a", first.InstanceID)
	assert.Equal(t, int64(0), first.Previous.TotalErrors,
		"the first reset discards the empty startup instance")

	second := hook.resets[1]
	assert.Equal(t, "instance-b", second.InstanceID)
	assert.Equal(t, int64(3), second.Previous.TotalErrors)
	assert.Equal(t, 1, second.Previous.RecoveryAttempts)
	assert.Equal(t, "instance-a", second.Previous.InstanceID,
		"the snapshot describes the instance being discarded")
}

func TestHooks_MultipleHooksRunInRegistrationOrder(t *testing.T) {
	det := NewDetector(DefaultConfig())

	var calls []string
	first := &orderedHook{name: "first", calls: &calls}
	second := &orderedHook{name: "second", calls: &calls}
	det.RegisterHook(first).RegisterHook(second)

	det.Record(ErrorEvent{Type: ErrorTypeSyntax})

	assert.Equal(t, []string{"first", "second"}, calls)
}

// orderedHook appends its name to a shared slice on every record.
type orderedHook struct {
	name  string
	calls *[]string
}

func (h *orderedHook) OnRecord(RecordedEvent) {
	*h.calls = append(*h.calls, h.name)
}
