package remedy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Stats_Aggregates(t *testing.T) {
	det := NewDetector(DefaultConfig())
	det.ResetForInstance("inst-1")

	det.Record(ErrorEvent{Type: ErrorTypeSyntax, File: "a.py", Line: 1})
	det.Record(ErrorEvent{Type: ErrorTypeSyntax, File: "a.py", Line: 2})
	det.Record(ErrorEvent{Type: ErrorTypeType, File: "b.py", Line: 3})
	det.Record(ErrorEvent{Type: ErrorTypeType})
	det.Record(ErrorEvent{Type: ErrorTypeType})

	stats := det.Stats()

	assert.Equal(t, "inst-1", stats.InstanceID)
	assert.Equal(t, int64(5), stats.TotalErrors)
	assert.Equal(t, int64(2), stats.ByType[ErrorTypeSyntax])
	assert.Equal(t, int64(3), stats.ByType[ErrorTypeType])
	assert.Equal(t, 2, stats.DistinctFiles)
	assert.Equal(t, ErrorTypeType, stats.MostCommonType)
	assert.Equal(t, 3, stats.ConsecutiveSameType)
	assert.InDelta(t, 2.5, stats.AvgErrorsPerFile, 0.0001,
		"five errors across two files")
}

func TestDetector_Stats_NoFiles(t *testing.T) {
	det := NewDetector(DefaultConfig())
	det.Record(ErrorEvent{Type: ErrorTypeOther})

	stats := det.Stats()

	assert.Equal(t, 0, stats.DistinctFiles)
	assert.Equal(t, 0.0, stats.AvgErrorsPerFile,
		"no division by zero when nothing carried a file")
}

func TestDetector_Stats_ByTypeIsACopy(t *testing.T) {
	det := NewDetector(DefaultConfig())
	det.Record(ErrorEvent{Type: ErrorTypeSyntax})

	stats := det.Stats()
	stats.ByType[ErrorTypeSyntax] = 999

	assert.Equal(t, int64(1), det.Stats().ByType[ErrorTypeSyntax],
		"mutating a snapshot must not touch the detector")
}

func TestDetector_Stats_CountsRecoveryAttempts(t *testing.T) {
	det := NewDetector(DefaultConfig())

	for i := 0; i < 5; i++ {
		det.Record(ErrorEvent{Type: ErrorTypeSyntax})
	}

	// Suggestions fire on the 3rd, 4th, and 5th events: the run keeps
	// satisfying the threshold as it grows.
	assert.Equal(t, 3, det.Stats().RecoveryAttempts)
}
