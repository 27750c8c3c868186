package remedy

// -----------------------------------------------------------------------------
// Detector Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe detector transitions without being part of the Record/Reset
// contract. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with Detector.RegisterHook
//
// Example:
//
//	type MetricsHook struct {
//	    loops prometheus.Counter
//	}
//
//	func (h *MetricsHook) OnLoopDetected(event remedy.LoopDetectedEvent) {
//	    h.loops.Inc()
//	}
//
//	det := remedy.NewDetector(remedy.DefaultConfig()).
//	    RegisterHook(&MetricsHook{loops: loopCounter})
//
// # Execution Order
//
// Hooks are called synchronously in registration order, on the same goroutine
// as the Record or Reset call that produced the event, while the detector's
// lock is held. Hooks must be fast and must not call back into the Detector;
// use [EventStream] to hand events to another goroutine instead.
//
// # Error Handling
//
// Hooks do not return errors. A panicking hook propagates out of Record or
// Reset; implement recovery inside the hook if that is not acceptable.
// -----------------------------------------------------------------------------

// Event is the marker interface implemented by all detector events. It lets
// heterogeneous events travel through one channel (see [EventStream]).
type Event interface {
	detectorEvent()
}

// RecordedEvent is emitted after every stored error, loop or not. The event
// carries the stored form: sequence assigned, type classified.
type RecordedEvent struct {
	Event ErrorEvent
}

func (RecordedEvent) detectorEvent() {}

// LoopDetectedEvent is emitted when a Record call detects a loop, after the
// recovery-attempts counter has been incremented.
type LoopDetectedEvent struct {
	// Reason is the heuristic result that fired.
	Reason LoopReason

	// Suggestion is the rendered guidance returned to the host.
	Suggestion *Suggestion
}

func (LoopDetectedEvent) detectorEvent() {}

// ResetEvent is emitted on every reset, carrying the state that was
// discarded. Hosts use it to persist per-instance statistics before they are
// gone.
type ResetEvent struct {
	// InstanceID is the new instance's label ("" for Reset).
	InstanceID string

	// Previous is the snapshot of the instance that was just discarded.
	Previous Stats
}

func (ResetEvent) detectorEvent() {}

// Compile-time checks.
var (
	_ Event = RecordedEvent{}
	_ Event = LoopDetectedEvent{}
	_ Event = ResetEvent{}
)

// RecordHook is implemented by hooks that want every stored error.
type RecordHook interface {
	// OnRecord is called after the event has been appended and counted.
	OnRecord(event RecordedEvent)
}

// LoopHook is implemented by hooks that want loop detections.
type LoopHook interface {
	// OnLoopDetected is called after a suggestion has been generated,
	// before Record returns it.
	OnLoopDetected(event LoopDetectedEvent)
}

// ResetHook is implemented by hooks that want instance boundaries.
type ResetHook interface {
	// OnReset is called after state has been cleared.
	OnReset(event ResetEvent)
}

// RegisterHook registers a hook and returns the detector for chaining. The
// hook may implement any subset of [RecordHook], [LoopHook], and [ResetHook];
// it is dispatched only for the interfaces it implements.
//
// Panics if the hook implements none of them: registering a no-op hook is
// always a wiring mistake.
func (d *Detector) RegisterHook(hook any) *Detector {
	_, record := hook.(RecordHook)
	_, loop := hook.(LoopHook)
	_, reset := hook.(ResetHook)
	if !record && !loop && !reset {
		panic("remedy: RegisterHook called with a hook that implements no hook interface")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, hook)
	return d
}

// fireRecord dispatches a RecordedEvent to all RecordHooks in registration
// order. Caller must hold d.mu.
func (d *Detector) fireRecord(event RecordedEvent) {
	for _, hook := range d.hooks {
		if h, ok := hook.(RecordHook); ok {
			h.OnRecord(event)
		}
	}
}

// fireLoop dispatches a LoopDetectedEvent to all LoopHooks in registration
// order. Caller must hold d.mu.
func (d *Detector) fireLoop(event LoopDetectedEvent) {
	for _, hook := range d.hooks {
		if h, ok := hook.(LoopHook); ok {
			h.OnLoopDetected(event)
		}
	}
}

// fireReset dispatches a ResetEvent to all ResetHooks in registration order.
// Caller must hold d.mu.
func (d *Detector) fireReset(event ResetEvent) {
	for _, hook := range d.hooks {
		if h, ok := hook.(ResetHook); ok {
			h.OnReset(event)
		}
	}
}
