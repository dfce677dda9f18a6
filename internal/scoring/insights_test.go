package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
)

func member(name string, c, d, w, p int) balance.Student {
	return balance.Student{Name: name, Coding: c, Design: d, Writing: w, Presenting: p}
}

func TestAnalyzeEmptyGroup(t *testing.T) {
	in := NewAnalyzer(0).Analyze(nil)
	assert.Equal(t, [balance.NumSkills]int{}, in.SkillValues)
	assert.Empty(t, in.Weakness)
	assert.Zero(t, in.Compatibility)
	assert.False(t, in.Unbalanced)
	assert.Empty(t, in.Suggestion)
}

func TestAnalyzeSingleMember(t *testing.T) {
	in := NewAnalyzer(4).Analyze([]balance.Student{member("Ana", 5, 1, 2, 3)})
	assert.Equal(t, [balance.NumSkills]int{5, 1, 2, 3}, in.SkillValues)
	assert.Equal(t, "Design (1 pts)", in.Weakness)
	assert.Zero(t, in.Compatibility)
	assert.False(t, in.Unbalanced)
}

func TestAnalyzeUnbalancedSuggestsOutlier(t *testing.T) {
	members := []balance.Student{
		member("Ana", 5, 5, 5, 5),
		member("Ben", 3, 3, 3, 3),
		member("Cy", 1, 1, 1, 1),
		member("Dee", 3, 3, 3, 3),
	}
	in := NewAnalyzer(4).Analyze(members)

	// Totals 20, 12, 4, 12: mean 12, sample variance 128/3.
	assert.InDelta(t, math.Sqrt(128.0/3.0), in.Compatibility, 1e-9)
	assert.True(t, in.Unbalanced)
	assert.Equal(t, "Try moving Ana", in.Suggestion)
	assert.Empty(t, in.Weakness)
}

func TestAnalyzeBalancedGroupHasNoSuggestion(t *testing.T) {
	members := []balance.Student{
		member("Ana", 3, 2, 4, 4),
		member("Ben", 3, 3, 4, 3),
	}
	in := NewAnalyzer(4).Analyze(members)

	assert.Zero(t, in.Compatibility)
	assert.False(t, in.Unbalanced)
	assert.Empty(t, in.Suggestion)
	assert.Equal(t, "Design (5 pts)", in.Weakness)
}

func TestAnalyzerThreshold(t *testing.T) {
	members := []balance.Student{
		member("Ana", 4, 4, 4, 4),
		member("Ben", 2, 2, 2, 2),
	}
	// Totals 16 and 8: sample stddev ~5.66.
	assert.True(t, NewAnalyzer(4).Analyze(members).Unbalanced)
	assert.False(t, NewAnalyzer(6).Analyze(members).Unbalanced)
	assert.Equal(t, DefaultUnbalancedStdDev, NewAnalyzer(-1).Threshold())
}

func TestWeakness(t *testing.T) {
	tests := []struct {
		name   string
		values [balance.NumSkills]int
		want   string
	}{
		{"empty", [balance.NumSkills]int{}, ""},
		{"all equal", [balance.NumSkills]int{5, 5, 5, 5}, ""},
		{"first minimum wins", [balance.NumSkills]int{5, 3, 3, 6}, "Design (3 pts)"},
		{"presenting labelled speaking", [balance.NumSkills]int{9, 8, 7, 2}, "Speaking (2 pts)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, weakness(tt.values))
		})
	}
}
