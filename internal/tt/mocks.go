package tt

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/rickchristie/remedy"
)

// -----------------------------------------------------------------------------
// HookRecorder - implements every detector hook interface
// -----------------------------------------------------------------------------

// HookRecorder records every hook dispatch for later assertion. It implements
// remedy.RecordHook, remedy.LoopHook, and remedy.ResetHook.
//
// Hooks run under the detector's lock, so the recorder must not call back
// into the detector; it only appends to its own slices. The recorder's own
// mutex makes reads safe while other goroutines drive the detector.
type HookRecorder struct {
	mu       sync.Mutex
	recorded []remedy.RecordedEvent
	loops    []remedy.LoopDetectedEvent
	resets   []remedy.ResetEvent
	order    []string
}

// Compile-time checks.
var (
	_ remedy.RecordHook = (*HookRecorder)(nil)
	_ remedy.LoopHook   = (*HookRecorder)(nil)
	_ remedy.ResetHook  = (*HookRecorder)(nil)
)

// NewHookRecorder creates an empty HookRecorder.
func NewHookRecorder() *HookRecorder {
	return &HookRecorder{}
}

// OnRecord implements remedy.RecordHook.
func (r *HookRecorder) OnRecord(event remedy.RecordedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, event)
	r.order = append(r.order, "RecordedEvent")
}

// OnLoopDetected implements remedy.LoopHook.
func (r *HookRecorder) OnLoopDetected(event remedy.LoopDetectedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loops = append(r.loops, event)
	r.order = append(r.order, "LoopDetectedEvent")
}

// OnReset implements remedy.ResetHook.
func (r *HookRecorder) OnReset(event remedy.ResetEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, event)
	r.order = append(r.order, "ResetEvent")
}

// Recorded returns a copy of all RecordedEvents seen so far.
func (r *HookRecorder) Recorded() []remedy.RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]remedy.RecordedEvent(nil), r.recorded...)
}

// Loops returns a copy of all LoopDetectedEvents seen so far.
func (r *HookRecorder) Loops() []remedy.LoopDetectedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]remedy.LoopDetectedEvent(nil), r.loops...)
}

// Resets returns a copy of all ResetEvents seen so far.
func (r *HookRecorder) Resets() []remedy.ResetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]remedy.ResetEvent(nil), r.resets...)
}

// Order returns the type names of all dispatches in the order they happened.
func (r *HookRecorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// -----------------------------------------------------------------------------
// Logger Capture
// -----------------------------------------------------------------------------

// CaptureLogger returns a slog.Logger that writes text-format records at
// Debug level and above into the returned buffer. Tests grep the buffer for
// the detector's stable log lines.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, &buf
}
