package remedy

// Config holds the detector's thresholds. All fields are plain data so hosts
// can load them from their own configuration; zero or negative fields fall
// back to the defaults from [DefaultConfig].
//
// # How the thresholds interact
//
// HistorySize bounds memory: the detector keeps at most that many events and
// evicts the oldest first. Window bounds what loop detection looks at: only
// the most recent Window events are examined, so a signal from events older
// than the window can never resurface. The remaining fields are trip wires:
//
//	cfg := remedy.DefaultConfig()
//	cfg.RepeatThreshold = 4 // require 4 identical types before interrupting
//	det := remedy.NewDetector(cfg)
//
// The effective window is never smaller than RepeatThreshold, otherwise the
// repetition heuristics could never gather enough evidence.
type Config struct {
	// HistorySize is the maximum number of events kept in history (N).
	// Oldest events are evicted first once the bound is exceeded.
	HistorySize int

	// Window is the number of most-recent events loop detection examines (W).
	Window int

	// RepeatThreshold is the run length that counts as repetition (K): the
	// repetitive-type and same-location heuristics fire when the last K
	// events match, and no loop is ever reported before K events exist.
	RepeatThreshold int

	// SameFileThreshold is the number of window events that must share a
	// file for the same-file heuristic to fire (M).
	SameFileThreshold int

	// EscalateOccurrences is the lifetime per-type occurrence count at which
	// suggestions start appending the alternative-approach block.
	EscalateOccurrences int

	// EscalateTotalErrors is the lifetime error total at which suggestions
	// start appending the overall-strategy warning.
	EscalateTotalErrors int

	// AlternativeApproachTotal is the lifetime error total at which
	// [Detector.NeedsAlternativeApproach] reports true regardless of streaks.
	AlternativeApproachTotal int
}

// DefaultConfig returns the standard thresholds.
//
//	HistorySize:              50
//	Window:                   5
//	RepeatThreshold:          3
//	SameFileThreshold:        3
//	EscalateOccurrences:      3
//	EscalateTotalErrors:      7
//	AlternativeApproachTotal: 8
func DefaultConfig() Config {
	return Config{
		HistorySize:              50,
		Window:                   5,
		RepeatThreshold:          3,
		SameFileThreshold:        3,
		EscalateOccurrences:      3,
		EscalateTotalErrors:      7,
		AlternativeApproachTotal: 8,
	}
}

// normalized returns a copy with defaults applied to nonpositive fields and
// the window clamped so it can hold a full repetition run.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.HistorySize <= 0 {
		c.HistorySize = def.HistorySize
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.RepeatThreshold <= 0 {
		c.RepeatThreshold = def.RepeatThreshold
	}
	if c.SameFileThreshold <= 0 {
		c.SameFileThreshold = def.SameFileThreshold
	}
	if c.EscalateOccurrences <= 0 {
		c.EscalateOccurrences = def.EscalateOccurrences
	}
	if c.EscalateTotalErrors <= 0 {
		c.EscalateTotalErrors = def.EscalateTotalErrors
	}
	if c.AlternativeApproachTotal <= 0 {
		c.AlternativeApproachTotal = def.AlternativeApproachTotal
	}
	if c.Window < c.RepeatThreshold {
		c.Window = c.RepeatThreshold
	}
	if c.HistorySize < c.Window {
		c.HistorySize = c.Window
	}
	return c
}
