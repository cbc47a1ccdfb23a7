package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreLowerIsRiskier(t *testing.T) {
	// Sentence-length CV style dimension: AI at 0.30, human at 0.55.
	tests := []struct {
		name         string
		value        float64
		contribution float64
		status       Status
	}{
		{"at AI threshold", 0.30, 30, StatusAILike},
		{"below AI threshold caps", 0.10, 30, StatusAILike},
		{"at human threshold", 0.55, 0, StatusHumanLike},
		{"above human threshold floors", 0.80, 0, StatusHumanLike},
		{"midpoint", 0.425, 15, StatusBorderline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Score("sentence_length_cv", tt.value, 0.30, 0.55, 1, 30, false)
			assert.InDelta(t, tt.contribution, d.Contribution, 1e-9)
			assert.Equal(t, tt.status, d.Status)
		})
	}
}

func TestScoreHigherIsRiskier(t *testing.T) {
	tests := []struct {
		value        float64
		contribution float64
		status       Status
	}{
		{0.90, 20, StatusAILike},
		{0.95, 20, StatusAILike},
		{0.50, 0, StatusHumanLike},
		{0.70, 10, StatusBorderline},
	}
	for _, tt := range tests {
		d := Score("repetition", tt.value, 0.90, 0.50, 1, 20, true)
		assert.InDelta(t, tt.contribution, d.Contribution, 1e-9)
		assert.Equal(t, tt.status, d.Status)
	}
}

func TestScoreMonotonic(t *testing.T) {
	// Moving the value toward the AI threshold never lowers the
	// contribution.
	prev := -1.0
	for v := 0.60; v >= 0.25; v -= 0.01 {
		d := Score("ttr", v, 0.35, 0.55, 1, 25, false)
		assert.GreaterOrEqual(t, d.Contribution, prev)
		prev = d.Contribution
	}
}

func TestScoreDegenerateSpan(t *testing.T) {
	d := Score("flat", 0.4, 0.5, 0.5, 1, 10, false)
	assert.Equal(t, 10.0, d.Contribution)

	d = Score("flat", 0.6, 0.5, 0.5, 1, 10, false)
	assert.Equal(t, 0.0, d.Contribution)
}

func TestComposite(t *testing.T) {
	dims := []Dimension{
		{Contribution: 40},
		{Contribution: 35},
	}
	assert.Equal(t, 75, Composite(dims, nil, 0))

	// Deductions are individually capped.
	assert.Equal(t, 55, Composite(dims, []float64{30, 5}, 15))

	// Never below zero.
	assert.Equal(t, 0, Composite(nil, []float64{10}, 0))

	// Never above 100.
	big := []Dimension{{Contribution: 80}, {Contribution: 60}}
	assert.Equal(t, 100, Composite(big, nil, 0))

	// Negative deductions are ignored rather than adding risk.
	assert.Equal(t, 75, Composite(dims, []float64{-20}, 15))
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		level Level
	}{
		{0, LevelSafe},
		{9, LevelSafe},
		{10, LevelLow},
		{29, LevelLow},
		{30, LevelMedium},
		{59, LevelMedium},
		{60, LevelHigh},
		{100, LevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelFor(tt.score), "score %d", tt.score)
	}
}
