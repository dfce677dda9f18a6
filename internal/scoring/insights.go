// Package scoring derives dashboard statistics for formed groups.
package scoring

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
)

// DefaultUnbalancedStdDev is the member-total standard deviation above
// which a group is flagged as unbalanced.
const DefaultUnbalancedStdDev = 4.0

var skillLabels = [balance.NumSkills]string{"Coding", "Design", "Writing", "Speaking"}

// GroupInsight summarises the make-up of one group.
type GroupInsight struct {
	SkillValues   [balance.NumSkills]int `json:"skill_values"`
	Weakness      string                 `json:"weakness,omitempty"`
	Compatibility float64                `json:"compatibility_score"`
	Unbalanced    bool                   `json:"is_unbalanced"`
	Suggestion    string                 `json:"suggestion,omitempty"`
}

// Analyzer computes group insights against a fixed imbalance threshold.
type Analyzer struct {
	threshold float64
}

// NewAnalyzer creates an Analyzer. A non-positive threshold falls back to
// DefaultUnbalancedStdDev.
func NewAnalyzer(threshold float64) *Analyzer {
	if threshold <= 0 {
		threshold = DefaultUnbalancedStdDev
	}
	return &Analyzer{threshold: threshold}
}

// Threshold returns the standard deviation above which a group is flagged.
func (a *Analyzer) Threshold() float64 { return a.threshold }

// Analyze computes the insight for a group with the given members.
func (a *Analyzer) Analyze(members []balance.Student) GroupInsight {
	var in GroupInsight
	for _, s := range members {
		for i, v := range s.Skills() {
			in.SkillValues[i] += v
		}
	}
	in.Weakness = weakness(in.SkillValues)

	if len(members) < 2 {
		return in
	}

	totals := make([]float64, len(members))
	for i, s := range members {
		totals[i] = float64(s.Total())
	}
	mean, stddev := sampleStdDev(totals)
	in.Compatibility = stddev

	if stddev > a.threshold {
		in.Unbalanced = true
		outlier, dist := 0, -1.0
		for i, t := range totals {
			if d := math.Abs(t - mean); d > dist {
				outlier, dist = i, d
			}
		}
		in.Suggestion = fmt.Sprintf("Try moving %s", members[outlier].Name)
	}
	return in
}

// weakness names the lowest-scoring skill. Groups with no members or with
// all four sums equal have no weakness.
func weakness(values [balance.NumSkills]int) string {
	lo, hi, sum := values[0], values[0], 0
	weakest := 0
	for i, v := range values {
		sum += v
		hi = max(hi, v)
		if v < lo {
			lo, weakest = v, i
		}
	}
	if sum == 0 || lo == hi {
		return ""
	}
	return fmt.Sprintf("%s (%d pts)", skillLabels[weakest], lo)
}

func sampleStdDev(xs []float64) (mean, stddev float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
