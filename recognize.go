package remedy

import "strconv"

// LoopKind identifies which heuristic detected a loop.
type LoopKind string

const (
	// LoopRepeatedType fires when the last RepeatThreshold events share one
	// error type. Excludes ErrorTypeOther.
	LoopRepeatedType LoopKind = "repeated_type"

	// LoopSameLocation fires when the last RepeatThreshold events all point
	// at one identical (file, line) pair.
	LoopSameLocation LoopKind = "same_location"

	// LoopAlternatingTypes fires when the window holds exactly two distinct
	// error types, each appearing at least twice, with no third type.
	LoopAlternatingTypes LoopKind = "alternating_types"

	// LoopSameFile fires when at least SameFileThreshold window events share
	// one file, regardless of type or line.
	LoopSameFile LoopKind = "same_file"
)

// LoopReason is the tagged explanation for a detected loop. Only the fields
// relevant to Kind are set.
type LoopReason struct {
	// Kind identifies the heuristic that fired.
	Kind LoopKind

	// Type is the repeated error type (LoopRepeatedType).
	Type ErrorType

	// TypeA and TypeB are the two alternating types in first-appearance
	// order (LoopAlternatingTypes).
	TypeA ErrorType
	TypeB ErrorType

	// File is the shared file (LoopSameLocation, LoopSameFile).
	File string

	// Line is the shared line (LoopSameLocation).
	Line int

	// Count is the number of window events supporting the reason.
	Count int
}

// String renders the reason text surfaced in suggestions and log lines.
//
// The wording is part of the detector's stable logging contract: external
// audit tooling greps for these exact phrases, so they must not be reworded.
func (r LoopReason) String() string {
	switch r.Kind {
	case LoopRepeatedType:
		return "Repetitive " + string(r.Type) + " errors"
	case LoopSameLocation:
		return "Repeatedly failing at line " + strconv.Itoa(r.Line)
	case LoopAlternatingTypes:
		return "Alternating between {" + string(r.TypeA) + ", " + string(r.TypeB) + "}"
	case LoopSameFile:
		return "Multiple errors in same file: " + r.File
	default:
		return ""
	}
}

// DetectLoop decides whether the most recent events constitute an
// unproductive loop. It is a pure function: [Detector.Record] calls it after
// every append, and tests or hosts can call it directly on any event slice
// (most recent last).
//
// Only the trailing window of cfg.Window events is examined; fewer than
// cfg.RepeatThreshold events total is never enough evidence. Heuristics run
// in fixed priority order and the first match wins, so at most one reason is
// reported per call:
//
//  1. repetitive same type
//  2. same (file, line) location
//  3. alternating between two types
//  4. multiple errors in the same file
//
// A run that is simultaneously same-type and same-location reports as
// repetitive type, because the type check runs first. The ordering is part of
// the detector's documented behavior; see the package documentation.
func DetectLoop(history []ErrorEvent, cfg Config) (LoopReason, bool) {
	cfg = cfg.normalized()
	if len(history) < cfg.RepeatThreshold {
		return LoopReason{}, false
	}

	window := history
	if len(window) > cfg.Window {
		window = window[len(window)-cfg.Window:]
	}

	if r, ok := repeatedType(window, cfg.RepeatThreshold); ok {
		return r, true
	}
	if r, ok := sameLocation(window, cfg.RepeatThreshold); ok {
		return r, true
	}
	if r, ok := alternatingTypes(window); ok {
		return r, true
	}
	if r, ok := sameFile(window, cfg.SameFileThreshold); ok {
		return r, true
	}
	return LoopReason{}, false
}

// repeatedType checks whether the trailing run of identical error types is at
// least k long. ErrorTypeOther runs never match: repeated unclassifiable
// failures carry no signal about what to fix.
func repeatedType(window []ErrorEvent, k int) (LoopReason, bool) {
	last := window[len(window)-1]
	if last.Type == ErrorTypeOther {
		return LoopReason{}, false
	}

	run := 0
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Type != last.Type {
			break
		}
		run++
	}
	if run < k {
		return LoopReason{}, false
	}
	return LoopReason{
		Kind:  LoopRepeatedType,
		Type:  last.Type,
		Count: run,
	}, true
}

// sameLocation checks whether the trailing run of identical nonempty
// (file, line) pairs is at least k long. Events without a full location end
// the run.
func sameLocation(window []ErrorEvent, k int) (LoopReason, bool) {
	last := window[len(window)-1]
	if !last.HasLocation() {
		return LoopReason{}, false
	}

	run := 0
	for i := len(window) - 1; i >= 0; i-- {
		e := window[i]
		if !e.HasLocation() || e.File != last.File || e.Line != last.Line {
			break
		}
		run++
	}
	if run < k {
		return LoopReason{}, false
	}
	return LoopReason{
		Kind:  LoopSameLocation,
		File:  last.File,
		Line:  last.Line,
		Count: run,
	}, true
}

// alternatingTypes checks whether the window holds exactly two distinct error
// types, each appearing at least twice, with no third type present. Ping-pong
// between two failure modes usually means a fix for one keeps reintroducing
// the other.
func alternatingTypes(window []ErrorEvent) (LoopReason, bool) {
	counts := make(map[ErrorType]int, 2)
	var order []ErrorType
	for _, e := range window {
		if counts[e.Type] == 0 {
			order = append(order, e.Type)
		}
		counts[e.Type]++
	}
	if len(order) != 2 {
		return LoopReason{}, false
	}
	a, b := order[0], order[1]
	if counts[a] < 2 || counts[b] < 2 {
		return LoopReason{}, false
	}
	return LoopReason{
		Kind:  LoopAlternatingTypes,
		TypeA: a,
		TypeB: b,
		Count: counts[a] + counts[b],
	}, true
}

// sameFile checks whether at least m window events share one nonempty file.
// When several files qualify, the most frequent wins; ties go to the file
// that appeared first in the window.
func sameFile(window []ErrorEvent, m int) (LoopReason, bool) {
	counts := make(map[string]int, 2)
	var order []string
	for _, e := range window {
		if e.File == "" {
			continue
		}
		if counts[e.File] == 0 {
			order = append(order, e.File)
		}
		counts[e.File]++
	}

	best := ""
	for _, file := range order {
		if best == "" || counts[file] > counts[best] {
			best = file
		}
	}
	if best == "" || counts[best] < m {
		return LoopReason{}, false
	}
	return LoopReason{
		Kind:  LoopSameFile,
		File:  best,
		Count: counts[best],
	}, true
}
