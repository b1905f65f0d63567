package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidences_Rank(t *testing.T) {
	tests := []struct {
		name  string
		input Confidences
		limit int
		want  RankedPredictions
	}{
		{
			name: "distinct confidences rank by descending score",
			input: Confidences{
				{ClassName: "RiceHall", Confidence: 0.1},
				{ClassName: "Rotunda", Confidence: 0.7},
				{ClassName: "ClarkHall", Confidence: 0.2},
			},
			limit: 3,
			want: RankedPredictions{
				{Rank: 1, ClassName: "Rotunda", DisplayConfidence: 70},
				{Rank: 2, ClassName: "ClarkHall", DisplayConfidence: 20},
				{Rank: 3, ClassName: "RiceHall", DisplayConfidence: 10},
			},
		},
		{
			name: "fewer entries than limit must not fail",
			input: Confidences{
				{ClassName: "A", Confidence: 0.5},
				{ClassName: "B", Confidence: 0.3},
			},
			limit: 3,
			want: RankedPredictions{
				{Rank: 1, ClassName: "A", DisplayConfidence: 50},
				{Rank: 2, ClassName: "B", DisplayConfidence: 30},
			},
		},
		{
			name:  "empty input yields empty output",
			input: Confidences{},
			limit: 3,
			want:  RankedPredictions{},
		},
		{
			name: "truncates to limit",
			input: Confidences{
				{ClassName: "A", Confidence: 0.4},
				{ClassName: "B", Confidence: 0.3},
				{ClassName: "C", Confidence: 0.2},
				{ClassName: "D", Confidence: 0.1},
			},
			limit: 2,
			want: RankedPredictions{
				{Rank: 1, ClassName: "A", DisplayConfidence: 40},
				{Rank: 2, ClassName: "B", DisplayConfidence: 30},
			},
		},
		{
			name: "negative limit yields empty output",
			input: Confidences{
				{ClassName: "A", Confidence: 0.4},
			},
			limit: -1,
			want:  RankedPredictions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Rank(tt.limit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfidences_RankIsStable(t *testing.T) {
	input := Confidences{
		{ClassName: "First", Confidence: 0.4},
		{ClassName: "Second", Confidence: 0.4},
		{ClassName: "Loser", Confidence: 0.2},
	}

	got := input.Rank(3)
	require.Len(t, got, 3)
	// Equal confidences keep their relative input order.
	assert.Equal(t, "First", got[0].ClassName)
	assert.Equal(t, "Second", got[1].ClassName)
}

func TestConfidences_RankDoesNotMutateInput(t *testing.T) {
	input := Confidences{
		{ClassName: "B", Confidence: 0.3},
		{ClassName: "A", Confidence: 0.7},
	}

	_ = input.Rank(2)
	assert.Equal(t, "B", input[0].ClassName)
}

func TestDisplayPercent(t *testing.T) {
	tests := []struct {
		confidence float64
		want       float64
	}{
		{0.8567, 85.67},
		{1.0 / 3.0, 33.33},
		{1, 100},
		{0, 0},
		{0.005, 0.5},
		{0.99999, 100},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, DisplayPercent(tt.confidence), 1e-9, "confidence %v", tt.confidence)
	}
}

func TestConfidences_RankTopThreeOfTen(t *testing.T) {
	// Ten entries summing to 1.0; the displayed top three must each stay at
	// or below 100 and sum to at most 100.
	input := Confidences{
		{ClassName: "c0", Confidence: 0.25},
		{ClassName: "c1", Confidence: 0.20},
		{ClassName: "c2", Confidence: 0.15},
		{ClassName: "c3", Confidence: 0.10},
		{ClassName: "c4", Confidence: 0.08},
		{ClassName: "c5", Confidence: 0.07},
		{ClassName: "c6", Confidence: 0.06},
		{ClassName: "c7", Confidence: 0.05},
		{ClassName: "c8", Confidence: 0.03},
		{ClassName: "c9", Confidence: 0.01},
	}

	got := input.Rank(3)
	require.Len(t, got, 3)

	var sum float64
	for i, p := range got {
		assert.Equal(t, i+1, p.Rank)
		assert.LessOrEqual(t, p.DisplayConfidence, 100.0)
		sum += p.DisplayConfidence
	}
	assert.LessOrEqual(t, sum, 100.0)
	assert.Equal(t, "c0", got[0].ClassName)
}

func TestClassConfidenceMap_Ordered(t *testing.T) {
	m := ClassConfidenceMap{
		"Rotunda":  0.5,
		"RiceHall": 0.3,
		"Unknown":  0.1,
		"Another":  0.1,
	}

	got := m.Ordered([]string{"RiceHall", "Rotunda", "MissingFromMap"})
	require.Len(t, got, 4)
	// Configured order first, then extras sorted by name.
	assert.Equal(t, "RiceHall", got[0].ClassName)
	assert.Equal(t, "Rotunda", got[1].ClassName)
	assert.Equal(t, "Another", got[2].ClassName)
	assert.Equal(t, "Unknown", got[3].ClassName)
}

func TestConfidences_Validate(t *testing.T) {
	valid := Confidences{{ClassName: "Rotunda", Confidence: 0.9}}
	require.NoError(t, valid.Validate())

	outOfRange := Confidences{{ClassName: "Rotunda", Confidence: 1.2}}
	require.Error(t, outOfRange.Validate())

	unnamed := Confidences{{Confidence: 0.2}}
	require.Error(t, unnamed.Validate())
}

func TestRankedPredictions_Top(t *testing.T) {
	assert.Nil(t, RankedPredictions{}.Top())

	ranked := Confidences{
		{ClassName: "Rotunda", Confidence: 0.9},
		{ClassName: "RiceHall", Confidence: 0.1},
	}.Rank(3)
	top := ranked.Top()
	require.NotNil(t, top)
	assert.Equal(t, "Rotunda", top.ClassName)
}

func TestIsKnownSite(t *testing.T) {
	assert.True(t, IsKnownSite("Rotunda"))
	assert.False(t, IsKnownSite("Eiffel Tower"))
}
