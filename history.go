package remedy

import "sort"

// errorLog owns one task instance's error history and the lifetime counters
// derived from it. It is not safe for concurrent use on its own; the Detector
// serializes access.
//
// History is bounded: once capacity is reached the oldest event is shifted
// out on every push. The counters are deliberately not decremented on
// eviction, so statistics describe the whole instance while loop detection
// only ever sees the trailing window.
type errorLog struct {
	capacity int
	events   []ErrorEvent

	total  int64
	byType map[ErrorType]int64
	byFile map[string]int64

	// streakType/streakLen track the run of identical types at the tail of
	// the full event stream. Eviction cannot break a streak because it only
	// removes from the front.
	streakType ErrorType
	streakLen  int
}

func newErrorLog(capacity int) *errorLog {
	if capacity < 1 {
		panic("remedy: errorLog capacity must be >= 1")
	}
	return &errorLog{
		capacity: capacity,
		events:   make([]ErrorEvent, 0, capacity),
		byType:   make(map[ErrorType]int64),
		byFile:   make(map[string]int64),
	}
}

// push appends an event, evicting the oldest when at capacity, and updates
// the lifetime counters. Always succeeds.
func (l *errorLog) push(ev ErrorEvent) {
	if len(l.events) == l.capacity {
		copy(l.events, l.events[1:])
		l.events[len(l.events)-1] = ev
	} else {
		l.events = append(l.events, ev)
	}

	l.total++
	l.byType[ev.Type]++
	if ev.File != "" {
		l.byFile[ev.File]++
	}

	if ev.Type == l.streakType {
		l.streakLen++
	} else {
		l.streakType = ev.Type
		l.streakLen = 1
	}
}

// reset discards history and all counters, returning the log to its initial
// empty state. Safe to call on an already-empty log.
func (l *errorLog) reset() {
	l.events = l.events[:0]
	l.total = 0
	l.byType = make(map[ErrorType]int64)
	l.byFile = make(map[string]int64)
	l.streakType = ""
	l.streakLen = 0
}

func (l *errorLog) len() int {
	return len(l.events)
}

// history returns a copy of the bounded history, oldest first.
func (l *errorLog) history() []ErrorEvent {
	out := make([]ErrorEvent, len(l.events))
	copy(out, l.events)
	return out
}

// byTypeIn returns the stored events with the given type, oldest first.
func (l *errorLog) byTypeIn(t ErrorType) []ErrorEvent {
	var out []ErrorEvent
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// inFile returns the stored events pointing at the given file, oldest first.
func (l *errorLog) inFile(file string) []ErrorEvent {
	var out []ErrorEvent
	for _, e := range l.events {
		if e.File == file {
			out = append(out, e)
		}
	}
	return out
}

// mostProblematicFile returns the file with the most lifetime errors. Ties go
// to the lexicographically smallest name so reports are deterministic.
func (l *errorLog) mostProblematicFile() (string, bool) {
	best := ""
	var bestCount int64
	for file, count := range l.byFile {
		if count > bestCount || (count == bestCount && best != "" && file < best) {
			best = file
			bestCount = count
		}
	}
	return best, best != ""
}

// mostCommonType returns the error type with the highest lifetime count, or
// "" when nothing has been recorded. Ties go to the lexicographically
// smallest type name.
func (l *errorLog) mostCommonType() ErrorType {
	best := ErrorType("")
	var bestCount int64
	for t, count := range l.byType {
		if count > bestCount || (count == bestCount && best != "" && t < best) {
			best = t
			bestCount = count
		}
	}
	return best
}

// problematicLines returns the lines in file that appear in the bounded
// history at least minCount times, ascending. Events without a line number
// are ignored.
func (l *errorLog) problematicLines(file string, minCount int) []int {
	counts := make(map[int]int)
	for _, e := range l.events {
		if e.File == file && e.Line > 0 {
			counts[e.Line]++
		}
	}

	var lines []int
	for line, count := range counts {
		if count >= minCount {
			lines = append(lines, line)
		}
	}
	sort.Ints(lines)
	return lines
}
