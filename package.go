// Package remedy detects unproductive error loops in autonomous coding
// agents and generates recovery guidance.
//
// An agent that keeps editing and re-running code can get stuck: the same
// syntax error three times in a row, the same line failing over and over,
// two error types alternating as each "fix" reintroduces the other. remedy
// watches the stream of structured error events the host extracts from tool
// observations, recognizes those repetition patterns over a small trailing
// window, and hands back templated guidance for the host to splice into the
// agent's next observation.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//
//	    "github.com/rickchristie/remedy"
//	    "github.com/rickchristie/remedy/classify"
//	)
//
//	func main() {
//	    det := remedy.NewDetector(remedy.DefaultConfig()).
//	        WithClassifier(classify.Default())
//
//	    // Once per task instance, before the first Record.
//	    det.ResetForInstance("django__django-12345")
//
//	    // Once per observation the host identified as an error.
//	    suggestion := det.Record(remedy.ErrorEvent{
//	        Message: "SyntaxError: invalid syntax",
//	        File:    "main.py",
//	        Line:    42,
//	        Action:  "edit",
//	    })
//	    if suggestion != nil {
//	        // Splice into the observation shown to the agent.
//	        fmt.Println(suggestion.Text)
//	    }
//
//	    // Optionally, at end of run.
//	    fmt.Println(det.Summary())
//	}
//
// # Error Events and Classification
//
// The detector consumes [ErrorEvent] values the host has already extracted
// from tool output; it never parses observations itself. Events recorded
// with Type set are stored as-is. Events with an empty Type go through the
// configured [Classifier]; without one they become [ErrorTypeOther]. The
// classify package provides the standard rule table (Python and Go
// diagnostics) and can load custom rules from YAML:
//
//	rules, err := classify.Load(rulesFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	det := remedy.NewDetector(remedy.DefaultConfig()).WithClassifier(rules)
//
// The built-in types are a closed set ([ErrorTypeSyntax],
// [ErrorTypeIndentation], [ErrorTypeUndefinedName], [ErrorTypeImport],
// [ErrorTypeType], [ErrorTypeLogic], [ErrorTypeOther]), but hosts can record
// their own values; heuristics and templates handle unknown types uniformly.
//
// # Loop Detection
//
// After each stored event the detector evaluates four heuristics over the
// trailing window (Window events, default 5), in fixed priority order, first
// match wins:
//
//  1. Repetitive same type: the last RepeatThreshold events (default 3)
//     share one error type. ErrorTypeOther is excluded.
//  2. Same location: the last RepeatThreshold events all point at one
//     identical (file, line) pair.
//  3. Alternating types: the window holds exactly two distinct types, each
//     at least twice, with no third.
//  4. Same file: at least SameFileThreshold window events (default 3) share
//     one file.
//
// A run that is simultaneously same-type and same-location reports as
// repetitive type because the type check runs first; the order is fixed so
// reasons are deterministic. Fewer than RepeatThreshold events is never a
// loop, and Reset clears the window, so detection cannot span instance
// boundaries. [DetectLoop] exposes the recognizer as a pure function.
//
// # Recovery Suggestions
//
// When a heuristic fires, Record renders a [Suggestion]: a warning banner
// with the loop reason, the per-type occurrence ordinal, and the recovery
// attempt number, followed by the matching [Template]'s numbered steps, plus
// escalation blocks once the instance has accumulated enough failures.
// Templates are data ([TemplateSet]); replace or extend them directly or
// load catalogs from YAML with the advice package:
//
//	custom, err := advice.Load(catalogFile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	det.WithTemplates(advice.Merge(remedy.DefaultTemplates(), custom))
//
// The recovery-attempts counter increments exactly once per suggestion
// Record returns, never on quiet calls.
//
// # Task Instances and Batch Runs
//
// A detector holds one task instance's state at a time. Call [Detector.Reset]
// (or [Detector.ResetForInstance] with a label) once at the start of every
// instance, including every iteration of a batch run. Skipping the reset
// silently counts one instance's errors toward the next one's loop
// detection; that contamination is a host integration bug the detector
// cannot self-correct, which is why resets are logged in an auditable form
// (see Logging Contract below).
//
// # Statistics and Reporting
//
// [Detector.Stats] returns a lifetime snapshot of the current instance:
// totals, per-type counts, distinct files, the tail streak. Counters are not
// decremented when old events fall out of the bounded history, so statistics
// describe the whole instance even though loop detection only sees the
// window. [Detector.Summary] renders the snapshot for run logs, and
// [Detector.NeedsAlternativeApproach] condenses it into a single escalation
// signal.
//
// # Hooks and Event Stream
//
// Hooks observe transitions: implement any of [RecordHook], [LoopHook], or
// [ResetHook] and register with [Detector.RegisterHook]. Hooks run
// synchronously on the Record/Reset path; for asynchronous consumers,
// register an [EventStream] and range over its channel instead. See hooks.go
// for the dispatch rules.
//
// # Logging Contract
//
// The detector logs its transitions through a *slog.Logger
// ([Detector.WithLogger], default slog.Default). Three line shapes are a
// stable contract that external audit tooling greps for and must never be
// reworded:
//
//	Error detector reset for new instance      (Info, on every reset)
//	Error added: syntax at main.py:42          (Debug, on every record)
//	Loop detected: Repetitive syntax errors    (Warn, on every detection)
//
// The "at file:line" suffix is omitted when the event has no location. Every
// line carries the detector's uuid as a "detector" attribute so interleaved
// logs from concurrent instances stay attributable.
//
// # Concurrency
//
// All operations are synchronous, in-memory, and non-blocking; nothing takes
// a context. Methods serialize on an internal mutex, so concurrent use
// cannot corrupt state, but the unit of correctness is one detector per task
// instance: run instances concurrently by giving each its own detector, not
// by sharing one.
package remedy
