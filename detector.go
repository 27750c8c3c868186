package remedy

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Detector is the error-recovery core: a bounded-memory, stateful stream
// classifier that ingests structured error events, recognizes repetition
// patterns, and emits recovery guidance.
//
// One Detector owns one task instance's state at a time. Reset it at every
// instance boundary; give each concurrently running instance its own
// Detector. All methods serialize on an internal mutex, so a shared Detector
// cannot corrupt its state, but sharing one across instances still mixes
// their histories, which is an integration bug (see the package
// documentation).
//
// The zero value is not usable; construct with [NewDetector].
type Detector struct {
	mu sync.Mutex

	cfg        Config
	id         string
	instanceID string

	seq      int64
	log      *errorLog
	attempts int

	classifier Classifier
	templates  TemplateSet
	logger     *slog.Logger
	hooks      []any
}

// NewDetector creates a detector with the given thresholds. Zero or negative
// Config fields fall back to [DefaultConfig] values.
//
// The detector is usable immediately: events recorded with Type set need no
// further wiring. To classify raw messages, attach a classifier:
//
//	det := remedy.NewDetector(remedy.DefaultConfig()).
//	    WithClassifier(classify.Default())
func NewDetector(cfg Config) *Detector {
	cfg = cfg.normalized()
	d := &Detector{
		cfg:       cfg,
		id:        uuid.NewString(),
		log:       newErrorLog(cfg.HistorySize),
		templates: DefaultTemplates(),
		logger:    slog.Default(),
	}
	d.logger.Debug("Error detector initialized",
		"detector", d.id,
		"history_size", cfg.HistorySize,
		"window", cfg.Window)
	return d
}

// WithClassifier sets the classifier used for events recorded with an empty
// Type. Returns the detector for chaining. Panics if c is nil.
func (d *Detector) WithClassifier(c Classifier) *Detector {
	if c == nil {
		panic("remedy: WithClassifier called with nil Classifier")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.classifier = c
	return d
}

// WithTemplates replaces the recovery-template catalog. Returns the detector
// for chaining. Panics if ts is nil.
func (d *Detector) WithTemplates(ts TemplateSet) *Detector {
	if ts == nil {
		panic("remedy: WithTemplates called with nil TemplateSet")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.templates = ts
	return d
}

// WithLogger sets the logger the detector emits its transition lines to.
// Defaults to slog.Default. Returns the detector for chaining. Panics if l
// is nil; silence the detector with a discard handler instead.
func (d *Detector) WithLogger(l *slog.Logger) *Detector {
	if l == nil {
		panic("remedy: WithLogger called with nil Logger")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
	return d
}

// ID returns the detector's unique identity, assigned at construction and
// attached to every log line. It is not instance state: Reset never changes
// it.
func (d *Detector) ID() string {
	return d.id
}

// InstanceID returns the label of the current task instance, as passed to
// [Detector.ResetForInstance], or "" for unlabelled instances.
func (d *Detector) InstanceID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.instanceID
}

// Config returns the detector's normalized thresholds.
func (d *Detector) Config() Config {
	return d.cfg
}

// Reset discards all instance state: history, counters, and the
// recovery-attempts count. Call it once before the first Record of every
// task instance. Idempotent; calling it twice leaves the same empty state.
//
// Sequence numbers are detector-lifetime and are not rewound.
func (d *Detector) Reset() {
	d.reset("")
}

// ResetForInstance is Reset with an instance label, for batch runs where log
// lines and statistics must be attributable to a specific task instance
// (e.g. "django__django-12345").
func (d *Detector) ResetForInstance(id string) {
	d.reset(id)
}

func (d *Detector) reset(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.snapshotLocked()
	d.log.reset()
	d.attempts = 0
	d.instanceID = label

	msg := "Error detector reset for new instance"
	if label != "" {
		msg = "Error detector reset for instance " + label
	}
	d.logger.Info(msg,
		"detector", d.id,
		"previous_errors", previous.TotalErrors,
		"previous_attempts", previous.RecoveryAttempts)

	d.fireReset(ResetEvent{InstanceID: label, Previous: previous})
}

// Record ingests one error event and returns recovery guidance when the
// recent history constitutes a loop, nil otherwise. This is the detector's
// main entry point, called once per observation the host classified as an
// error.
//
// Record always stores the event, classifying it first when Type is empty
// (via the configured classifier, falling back to [ErrorTypeOther]) and
// assigning the next lifetime sequence number. It then evaluates the loop
// heuristics over the trailing window; on a match it increments the
// recovery-attempts counter, renders a suggestion, and returns it.
//
// Record never fails and never blocks.
func (d *Detector) Record(event ErrorEvent) *Suggestion {
	d.mu.Lock()
	defer d.mu.Unlock()

	if event.Type == "" {
		event.Type = ErrorTypeOther
		if d.classifier != nil {
			if t := d.classifier.Classify(event.Message); t != "" {
				event.Type = t
			}
		}
	}
	d.seq++
	event.Sequence = d.seq

	d.log.push(event)
	d.logRecorded(event)
	d.fireRecord(RecordedEvent{Event: event})

	reason, ok := DetectLoop(d.log.events, d.cfg)
	if !ok {
		return nil
	}

	d.attempts++
	suggestion := d.buildSuggestionLocked(reason, event)
	d.logger.Warn("Loop detected: "+reason.String(),
		"detector", d.id,
		"kind", string(reason.Kind),
		"attempt", d.attempts)
	d.fireLoop(LoopDetectedEvent{Reason: reason, Suggestion: suggestion})

	return suggestion
}

// logRecorded emits the per-event contract line. The location suffix is
// omitted entirely when the event has no file, and shortened to the bare
// file when the line is unknown.
func (d *Detector) logRecorded(event ErrorEvent) {
	msg := "Error added: " + string(event.Type)
	if loc := event.Location(); loc != "" {
		msg += " at " + loc
	}
	d.logger.Debug(msg,
		"detector", d.id,
		"sequence", event.Sequence,
		"action", event.Action)
}

// buildSuggestionLocked renders guidance for the triggering event. Caller
// must hold d.mu and must have incremented d.attempts already.
func (d *Detector) buildSuggestionLocked(
	reason LoopReason,
	event ErrorEvent,
) *Suggestion {
	s := &Suggestion{
		Reason:     reason,
		Type:       event.Type,
		Occurrence: int(d.log.byType[event.Type]),
		Attempt:    d.attempts,
	}
	s.Text = renderSuggestion(
		d.templates.ForType(event.Type),
		s,
		d.log.total,
		d.cfg,
		event.CodeSnippet,
	)
	return s
}

// Stats returns a read-only aggregate snapshot of the current instance.
func (d *Detector) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// CurrentLoop re-evaluates the loop heuristics over the current window
// without side effects: no counter moves, no logging, no hooks. Use it to
// poll loop state outside the Record path.
func (d *Detector) CurrentLoop() (LoopReason, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectLoop(d.log.events, d.cfg)
}

// NeedsAlternativeApproach reports whether the instance has degraded to the
// point where incremental fixes have stopped working: the tail streak of one
// classified error type has reached RepeatThreshold, or the lifetime error
// total has reached AlternativeApproachTotal.
func (d *Detector) NeedsAlternativeApproach() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	streaking := d.log.streakLen >= d.cfg.RepeatThreshold &&
		d.log.streakType != ErrorTypeOther &&
		d.log.streakType != ""
	return streaking || d.log.total >= int64(d.cfg.AlternativeApproachTotal)
}

// History returns a copy of the bounded history, oldest first. At most
// Config.HistorySize events are retained; older ones have been evicted.
func (d *Detector) History() []ErrorEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.history()
}

// ErrorsByType returns the retained events with the given type, oldest
// first.
func (d *Detector) ErrorsByType(t ErrorType) []ErrorEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.byTypeIn(t)
}

// ErrorsInFile returns the retained events pointing at the given file,
// oldest first.
func (d *Detector) ErrorsInFile(file string) []ErrorEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.inFile(file)
}

// MostProblematicFile returns the file with the most lifetime errors this
// instance, or ("", false) when no recorded event carried a file.
func (d *Detector) MostProblematicFile() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.mostProblematicFile()
}

// ProblematicLines returns the lines in file that failed at least minCount
// times within the retained history, ascending. minCount values below 1
// default to 2 (a line must repeat to be problematic).
func (d *Detector) ProblematicLines(file string, minCount int) []int {
	if minCount < 1 {
		minCount = 2
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.problematicLines(file, minCount)
}

// Summary renders a human-readable end-of-run report for the current
// instance, suitable for dumping into run logs.
func (d *Detector) Summary() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := d.snapshotLocked()

	var b strings.Builder
	b.WriteString("Error detector summary")
	if stats.InstanceID != "" {
		b.WriteString(" (instance " + stats.InstanceID + ")")
	}
	b.WriteString("\n")
	b.WriteString("  total errors:      " +
		strconv.FormatInt(stats.TotalErrors, 10) + "\n")
	b.WriteString("  recovery attempts: " +
		strconv.Itoa(stats.RecoveryAttempts) + "\n")

	if stats.TotalErrors == 0 {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("  files affected:    " +
		strconv.Itoa(stats.DistinctFiles))
	if file, ok := d.log.mostProblematicFile(); ok {
		b.WriteString(" (most problematic: " + file + ")")
	}
	b.WriteString("\n")
	b.WriteString("  most common type:  " +
		string(stats.MostCommonType) + "\n")
	b.WriteString("  current streak:    " +
		strconv.Itoa(stats.ConsecutiveSameType) + " consecutive " +
		string(d.log.streakType) + " errors\n")

	types := make([]ErrorType, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	b.WriteString("  errors by type:\n")
	for _, t := range types {
		count := stats.ByType[t]
		pct := float64(count) / float64(stats.TotalErrors) * 100
		b.WriteString("    " + string(t) + ": " +
			strconv.FormatInt(count, 10) + " (" +
			strconv.FormatFloat(pct, 'f', 1, 64) + "%)\n")
	}

	if reason, ok := DetectLoop(d.log.events, d.cfg); ok {
		b.WriteString("  active loop:       " + reason.String() + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
