package trajectory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rickchristie/remedy"
)

// RunConfig controls scenario replay output.
type RunConfig struct {
	// LogWriter receives the detector's structured log lines. nil discards
	// them.
	LogWriter io.Writer
}

// TestCase pairs a scenario with its runner for menu-driven harnesses.
type TestCase struct {
	Name        string
	Description string
	Run         func(
		ctx context.Context,
		w io.Writer,
		config RunConfig,
	) error
}

// GetTrajectoryTestCases returns one test case per recorded scenario.
func GetTrajectoryTestCases() []TestCase {
	scenarios := Scenarios()
	cases := make([]TestCase, 0, len(scenarios))
	for _, sc := range scenarios {
		cases = append(cases, TestCase{
			Name:        sc.Name,
			Description: sc.Description,
			Run: func(
				ctx context.Context,
				w io.Writer,
				config RunConfig,
			) error {
				return RunScenario(ctx, w, config, sc)
			},
		})
	}
	return cases
}

// Scenarios returns the recorded trajectories. Each is a real failure
// pattern from an agent run: the raw diagnostics, the order they arrived in,
// and the guidance the detector must produce at each point.
func Scenarios() []Scenario {
	return []Scenario{
		syntaxSpiralScenario(),
		assertionStallScenario(),
	}
}

// syntaxSpiralScenario is an agent repeatedly breaking one file with syntax
// errors while a related import failure ping-pongs in between. It walks
// through three heuristics: same-file first, then the repetitive-type run,
// then the two-type alternation, and ends past the total-errors escalation
// threshold.
func syntaxSpiralScenario() Scenario {
	const file = "astropy/units/quantity.py"
	return Scenario{
		Name: "syntax-spiral",
		Description: "Repeated syntax breakage in one file with an " +
			"import failure ping-ponging in between",
		Instance: "astropy__astropy-14995",
		Steps: []Step{
			{
				Action:   "edit",
				Message:  "SyntaxError: invalid syntax",
				File:     file,
				Line:     120,
				WantType: remedy.ErrorTypeSyntax,
			},
			{
				Action: "python",
				Message: "ImportError: cannot import name 'Quantity' " +
					"from 'astropy.units'",
				File:     "astropy/units/__init__.py",
				Line:     5,
				WantType: remedy.ErrorTypeImport,
			},
			{
				Action:   "edit",
				Message:  "SyntaxError: unexpected EOF while parsing",
				File:     file,
				Line:     142,
				WantType: remedy.ErrorTypeSyntax,
			},
			{
				Action:   "edit",
				Message:  "SyntaxError: invalid syntax",
				File:     file,
				Line:     142,
				WantType: remedy.ErrorTypeSyntax,
				WantLoop: remedy.LoopSameFile,
				WantInText: []string{
					"Multiple errors in same file: " + file,
					"This is your 3rd syntax error (recovery attempt #1)",
					"SYNTAX ERROR - try these steps:",
					"Consider a fundamentally different approach:",
				},
			},
			{
				Action:   "edit",
				Message:  "SyntaxError: invalid syntax",
				File:     file,
				Line:     142,
				WantType: remedy.ErrorTypeSyntax,
				WantLoop: remedy.LoopRepeatedType,
				WantInText: []string{
					"Repetitive syntax errors",
					"This is your 4th syntax error (recovery attempt #2)",
				},
			},
			{
				Action:   "python",
				Message:  "ModuleNotFoundError: No module named 'astropy.wcs'",
				File:     "astropy/wcs/__init__.py",
				Line:     1,
				WantType: remedy.ErrorTypeImport,
				WantLoop: remedy.LoopAlternatingTypes,
				WantInText: []string{
					"Alternating between {import, syntax}",
					"This is your 2nd import error (recovery attempt #3)",
					"IMPORT ERROR - try these steps:",
				},
			},
			{
				Action:  "edit",
				Message: "SyntaxError: invalid syntax",
				File:    file,
				Line:    150,
				CodeSnippet: "def to_value(self, unit=None):\n" +
					"    value = (self._value *",
				WantType: remedy.ErrorTypeSyntax,
				WantLoop: remedy.LoopSameFile,
				WantInText: []string{
					"Multiple errors in same file: " + file,
					"This is your 5th syntax error (recovery attempt #4)",
					"NOTE: 7 errors recorded for this instance.",
					"Failing code:",
					"    value = (self._value *",
				},
			},
		},
		WantTotal:      7,
		WantAttempts:   4,
		WantMostCommon: remedy.ErrorTypeSyntax,
	}
}

// assertionStallScenario is one pytest assertion failing at the same spot
// until the run times out. The custom assertion and timeout types come from
// the rules document, and their guidance from the catalog overlay.
func assertionStallScenario() Scenario {
	const file = "sympy/simplify/tests/test_simplify.py"
	return Scenario{
		Name: "assertion-stall",
		Description: "One pytest assertion failing at the same line " +
			"until the run times out",
		Instance: "sympy__sympy-21055",
		Steps: []Step{
			{
				Action:   "pytest",
				Message:  "AssertionError: assert simplify(expr) == expected",
				File:     file,
				Line:     88,
				WantType: remedy.ErrorType("assertion"),
			},
			{
				Action:   "pytest",
				Message:  "AssertionError: assert result == Rational(1, 2)",
				File:     file,
				Line:     88,
				WantType: remedy.ErrorType("assertion"),
			},
			{
				Action:   "pytest",
				Message:  "AssertionError: expected Rational(1, 2), got 0",
				File:     file,
				Line:     88,
				WantType: remedy.ErrorType("assertion"),
				WantLoop: remedy.LoopRepeatedType,
				WantInText: []string{
					"Repetitive assertion errors",
					"This is your 3rd assertion error (recovery attempt #1)",
					"ASSERTION FAILURE - try these steps:",
					"Consider a fundamentally different approach:",
				},
			},
			{
				Action:   "pytest",
				Message:  "AssertionError: expected Rational(1, 2), got 0",
				File:     file,
				Line:     88,
				WantType: remedy.ErrorType("assertion"),
				WantLoop: remedy.LoopRepeatedType,
				WantInText: []string{
					"This is your 4th assertion error (recovery attempt #2)",
				},
			},
			{
				Action:   "pytest",
				Message:  "TimeoutError: test run timed out after 300 seconds",
				WantType: remedy.ErrorType("timeout"),
				WantLoop: remedy.LoopSameFile,
				WantInText: []string{
					"Multiple errors in same file: " + file,
					"This is your 1st timeout error (recovery attempt #3)",
					"TIMEOUT - try these steps:",
				},
			},
		},
		WantTotal:      5,
		WantAttempts:   3,
		WantMostCommon: remedy.ErrorType("assertion"),
	}
}

// RunScenario replays one trajectory against a fresh detector, writing a
// human-readable transcript to w and verifying every step expectation. The
// returned error lists all mismatches, so a broken run reports everything
// that diverged, not just the first step.
func RunScenario(
	ctx context.Context,
	w io.Writer,
	config RunConfig,
	sc Scenario,
) error {
	printHeader(w, "TRAJECTORY: "+sc.Name)
	fmt.Fprintln(w, sc.Description)
	fmt.Fprintln(w)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if config.LogWriter != nil {
		logger = slog.New(slog.NewTextHandler(config.LogWriter,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	det := NewFixture().NewDetector(logger)
	det.ResetForInstance(sc.Instance)

	var failures []string
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		suggestion := det.Record(step.Event())

		history := det.History()
		recorded := history[len(history)-1]

		fmt.Fprintf(w, "[%d] %s: %s\n", i+1, step.Action, step.Message)
		fmt.Fprintf(w, "    classified as %s", recorded.Type)
		if loc := recorded.Location(); loc != "" {
			fmt.Fprintf(w, " at %s", loc)
		}
		fmt.Fprintln(w)

		if step.WantType != "" && recorded.Type != step.WantType {
			failures = append(failures, fmt.Sprintf(
				"step %d: classified as %s, want %s",
				i+1, recorded.Type, step.WantType))
		}

		switch {
		case suggestion == nil && step.WantLoop != "":
			failures = append(failures, fmt.Sprintf(
				"step %d: no loop detected, want %s", i+1, step.WantLoop))

		case suggestion != nil && step.WantLoop == "":
			failures = append(failures, fmt.Sprintf(
				"step %d: unexpected %s loop",
				i+1, suggestion.Reason.Kind))

		case suggestion != nil:
			if suggestion.Reason.Kind != step.WantLoop {
				failures = append(failures, fmt.Sprintf(
					"step %d: %s loop, want %s",
					i+1, suggestion.Reason.Kind, step.WantLoop))
			}
			fmt.Fprintln(w)
			printSection(w, fmt.Sprintf(
				"Suggestion (attempt #%d)", suggestion.Attempt))
			fmt.Fprintln(w, suggestion.Text)
			fmt.Fprintln(w)

			for _, want := range step.WantInText {
				if !strings.Contains(suggestion.Text, want) {
					failures = append(failures, fmt.Sprintf(
						"step %d: suggestion missing %q", i+1, want))
				}
			}
		}
	}

	fmt.Fprintln(w)
	printSection(w, "Run Summary")
	fmt.Fprintln(w, det.Summary())
	fmt.Fprintln(w)

	stats := det.Stats()
	if stats.TotalErrors != sc.WantTotal {
		failures = append(failures, fmt.Sprintf(
			"total errors %d, want %d", stats.TotalErrors, sc.WantTotal))
	}
	if stats.RecoveryAttempts != sc.WantAttempts {
		failures = append(failures, fmt.Sprintf(
			"recovery attempts %d, want %d",
			stats.RecoveryAttempts, sc.WantAttempts))
	}
	if sc.WantMostCommon != "" && stats.MostCommonType != sc.WantMostCommon {
		failures = append(failures, fmt.Sprintf(
			"most common type %s, want %s",
			stats.MostCommonType, sc.WantMostCommon))
	}

	if len(failures) > 0 {
		return fmt.Errorf("scenario %s: %s",
			sc.Name, strings.Join(failures, "; "))
	}

	printHeader(w, "SCENARIO PASSED")
	return nil
}

// printHeader prints a banner title.
func printHeader(w io.Writer, title string) {
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, line)
}

// printSection prints a section header.
func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "--- %s ---\n", title)
}
