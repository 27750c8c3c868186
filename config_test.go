package remedy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 50, cfg.HistorySize)
	assert.Equal(t, 5, cfg.Window)
	assert.Equal(t, 3, cfg.RepeatThreshold)
	assert.Equal(t, 3, cfg.SameFileThreshold)
	assert.Equal(t, 3, cfg.EscalateOccurrences)
	assert.Equal(t, 7, cfg.EscalateTotalErrors)
	assert.Equal(t, 8, cfg.AlternativeApproachTotal)
}

func TestConfig_Normalized(t *testing.T) {
	type input struct {
		cfg Config
	}

	type expected struct {
		cfg Config
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "zero value becomes the default",
			input:    input{cfg: Config{}},
			expected: expected{cfg: DefaultConfig()},
		},
		{
			name: "negative fields become the default",
			input: input{cfg: Config{
				HistorySize:              -1,
				Window:                   -1,
				RepeatThreshold:          -1,
				SameFileThreshold:        -1,
				EscalateOccurrences:      -1,
				EscalateTotalErrors:      -1,
				AlternativeApproachTotal: -1,
			}},
			expected: expected{cfg: DefaultConfig()},
		},
		{
			name: "window grows to hold a full repetition run",
			input: input{cfg: Config{
				HistorySize:              50,
				Window:                   3,
				RepeatThreshold:          6,
				SameFileThreshold:        3,
				EscalateOccurrences:      3,
				EscalateTotalErrors:      7,
				AlternativeApproachTotal: 8,
			}},
			expected: expected{cfg: Config{
				HistorySize:              50,
				Window:                   6,
				RepeatThreshold:          6,
				SameFileThreshold:        3,
				EscalateOccurrences:      3,
				EscalateTotalErrors:      7,
				AlternativeApproachTotal: 8,
			}},
		},
		{
			name: "history grows to hold the window",
			input: input{cfg: Config{
				HistorySize:              4,
				Window:                   10,
				RepeatThreshold:          3,
				SameFileThreshold:        3,
				EscalateOccurrences:      3,
				EscalateTotalErrors:      7,
				AlternativeApproachTotal: 8,
			}},
			expected: expected{cfg: Config{
				HistorySize:              10,
				Window:                   10,
				RepeatThreshold:          3,
				SameFileThreshold:        3,
				EscalateOccurrences:      3,
				EscalateTotalErrors:      7,
				AlternativeApproachTotal: 8,
			}},
		},
		{
			name: "valid config passes through unchanged",
			input: input{cfg: Config{
				HistorySize:              100,
				Window:                   10,
				RepeatThreshold:          4,
				SameFileThreshold:        5,
				EscalateOccurrences:      2,
				EscalateTotalErrors:      9,
				AlternativeApproachTotal: 11,
			}},
			expected: expected{cfg: Config{
				HistorySize:              100,
				Window:                   10,
				RepeatThreshold:          4,
				SameFileThreshold:        5,
				EscalateOccurrences:      2,
				EscalateTotalErrors:      9,
				AlternativeApproachTotal: 11,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.cfg, tt.input.cfg.normalized())
		})
	}
}

func TestNewDetector_NormalizesConfig(t *testing.T) {
	det := NewDetector(Config{})

	assert.Equal(t, DefaultConfig(), det.Config(),
		"a zero config behaves like the default")
}

func TestNewDetector_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepeatThreshold = 4
	det := NewDetector(cfg)

	var suggestion *Suggestion
	for i := 0; i < 3; i++ {
		suggestion = det.Record(ErrorEvent{Type: ErrorTypeSyntax})
	}
	assert.Nil(t, suggestion, "three repeats are below a threshold of four")

	suggestion = det.Record(ErrorEvent{Type: ErrorTypeSyntax})
	assert.NotNil(t, suggestion)
}
