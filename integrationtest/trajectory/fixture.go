// Package trajectory replays recorded debugging trajectories against the
// detector end to end: raw diagnostics flow through YAML-loaded
// classification rules, suggestions render from a merged catalog, and every
// replay is checked against the trajectory's expectations.
package trajectory

import (
	"bytes"
	_ "embed"
	"log/slog"

	"github.com/rickchristie/remedy"
	"github.com/rickchristie/remedy/advice"
	"github.com/rickchristie/remedy/classify"
)

// -----------------------------------------------------------------------------
// Data Types
// -----------------------------------------------------------------------------

// Step is one error observation in a recorded trajectory, together with what
// the detector must do with it.
type Step struct {
	// Action is the host tool that produced the diagnostic, e.g. "edit" or
	// "pytest".
	Action string

	// Message is the raw diagnostic text. The fixture's rules classify it;
	// steps never carry a pre-assigned type.
	Message string

	// File and Line locate the failure when the diagnostic names one.
	File string
	Line int

	// CodeSnippet is quoted back in the rendered suggestion when set.
	CodeSnippet string

	// WantType is the classification the step must receive.
	WantType remedy.ErrorType

	// WantLoop is the heuristic the step must trigger. Empty means the step
	// must stay quiet.
	WantLoop remedy.LoopKind

	// WantInText lists fragments the rendered suggestion must contain.
	WantInText []string
}

// Scenario is a full recorded trajectory for one task instance.
type Scenario struct {
	Name        string
	Description string

	// Instance labels the detector for the run, as a batch harness would.
	Instance string

	Steps []Step

	// WantTotal, WantAttempts, and WantMostCommon pin the end-of-run
	// statistics.
	WantTotal      int64
	WantAttempts   int
	WantMostCommon remedy.ErrorType
}

// -----------------------------------------------------------------------------
// Fixture
// -----------------------------------------------------------------------------

var (
	//go:embed testdata/rules.yaml
	rulesYAML []byte

	//go:embed testdata/catalog.yaml
	catalogYAML []byte
)

// Fixture bundles the classifier and template catalog shared by all
// trajectory scenarios.
type Fixture struct {
	Rules     *classify.Rules
	Templates remedy.TemplateSet
}

// NewFixture loads the scenario rules and catalog. Panics when the embedded
// documents are invalid; they ship with the package and are not runtime
// input.
func NewFixture() *Fixture {
	rules, err := classify.Load(bytes.NewReader(rulesYAML))
	if err != nil {
		panic("trajectory: " + err.Error())
	}
	overlay, err := advice.Load(bytes.NewReader(catalogYAML))
	if err != nil {
		panic("trajectory: " + err.Error())
	}
	return &Fixture{
		Rules:     rules,
		Templates: advice.Merge(remedy.DefaultTemplates(), overlay),
	}
}

// NewDetector builds a detector wired with the fixture's classifier and
// catalog. A nil logger leaves the detector on slog.Default. Hooks are
// registered in order.
func (f *Fixture) NewDetector(logger *slog.Logger, hooks ...any) *remedy.Detector {
	det := remedy.NewDetector(remedy.DefaultConfig()).
		WithClassifier(f.Rules).
		WithTemplates(f.Templates)
	if logger != nil {
		det.WithLogger(logger)
	}
	for _, h := range hooks {
		det.RegisterHook(h)
	}
	return det
}

// Event converts the step into the event a host would record.
func (s Step) Event() remedy.ErrorEvent {
	return remedy.ErrorEvent{
		Message:     s.Message,
		File:        s.File,
		Line:        s.Line,
		Action:      s.Action,
		CodeSnippet: s.CodeSnippet,
	}
}
