package remedy

// Stats is a read-only aggregate snapshot of one task instance, taken by
// [Detector.Stats]. All counters are lifetime counters for the current
// instance: history eviction never decrements them, and Reset zeroes them.
//
// Stats serve two purposes:
//
//  1. End-of-run reporting: hosts log or persist the snapshot after each
//     task instance (see also [Detector.Summary] for a rendered version).
//
//  2. Escalation decisions: [Detector.NeedsAlternativeApproach] and the
//     suggestion escalation blocks are driven by the same counters.
type Stats struct {
	// InstanceID is the label passed to the last ResetForInstance call, or
	// "" for unlabelled instances.
	InstanceID string

	// TotalErrors is the number of events recorded since the last reset.
	TotalErrors int64

	// ByType maps each recorded error type to its lifetime count.
	ByType map[ErrorType]int64

	// DistinctFiles is the number of distinct nonempty files seen.
	DistinctFiles int

	// MostCommonType is the most frequent error type, or "" when nothing has
	// been recorded. Ties break to the lexicographically smallest name.
	MostCommonType ErrorType

	// ConsecutiveSameType is the length of the identical-type run at the
	// tail of the instance's event stream.
	ConsecutiveSameType int

	// RecoveryAttempts is the number of suggestions emitted this instance.
	RecoveryAttempts int

	// AvgErrorsPerFile is TotalErrors divided by DistinctFiles, or 0 when no
	// event carried a file.
	AvgErrorsPerFile float64
}

// snapshotLocked builds a Stats snapshot. Caller must hold d.mu.
func (d *Detector) snapshotLocked() Stats {
	byType := make(map[ErrorType]int64, len(d.log.byType))
	for t, count := range d.log.byType {
		byType[t] = count
	}

	avg := 0.0
	if len(d.log.byFile) > 0 {
		avg = float64(d.log.total) / float64(len(d.log.byFile))
	}

	return Stats{
		InstanceID:          d.instanceID,
		TotalErrors:         d.log.total,
		ByType:              byType,
		DistinctFiles:       len(d.log.byFile),
		MostCommonType:      d.log.mostCommonType(),
		ConsecutiveSameType: d.log.streakLen,
		RecoveryAttempts:    d.attempts,
		AvgErrorsPerFile:    avg,
	}
}
