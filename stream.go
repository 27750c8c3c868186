package remedy

import "github.com/rickchristie/remedy/internal/buffer"

// EventStream is a ready-made hook that forwards every detector event into a
// channel, decoupling consumers from the Record/Reset path. Sends never
// block: the stream buffers without bound, so a slow consumer delays nothing
// (detector calls stay synchronous and total).
//
// Usage:
//
//	stream := remedy.NewEventStream()
//	det := remedy.NewDetector(remedy.DefaultConfig()).RegisterHook(stream)
//
//	go func() {
//	    for event := range stream.Events() {
//	        switch e := event.(type) {
//	        case remedy.LoopDetectedEvent:
//	            ui.ShowWarning(e.Reason.String())
//	        case remedy.ResetEvent:
//	            store.SaveInstanceStats(e.Previous)
//	        }
//	    }
//	}()
//
//	// ... run the instance ...
//	stream.Close() // closes Events() once buffered events are drained
type EventStream struct {
	buf *buffer.Unbounded[Event]
}

// Compile-time checks.
var (
	_ RecordHook = (*EventStream)(nil)
	_ LoopHook   = (*EventStream)(nil)
	_ ResetHook  = (*EventStream)(nil)
)

// NewEventStream creates a stream ready to be registered with
// [Detector.RegisterHook].
func NewEventStream() *EventStream {
	return &EventStream{buf: buffer.NewUnbounded[Event]()}
}

// OnRecord implements [RecordHook].
func (s *EventStream) OnRecord(event RecordedEvent) {
	s.buf.Send(event)
}

// OnLoopDetected implements [LoopHook].
func (s *EventStream) OnLoopDetected(event LoopDetectedEvent) {
	s.buf.Send(event)
}

// OnReset implements [ResetHook].
func (s *EventStream) OnReset(event ResetEvent) {
	s.buf.Send(event)
}

// Events returns the channel events are delivered on, in emission order. The
// channel closes after Close once all buffered events have been drained.
func (s *EventStream) Events() <-chan Event {
	return s.buf.Receive()
}

// Close stops the stream. Events sent after Close are dropped; buffered
// events are still delivered before the Events channel closes. Safe to call
// multiple times.
func (s *EventStream) Close() {
	s.buf.Close()
}
