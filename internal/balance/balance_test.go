package balance

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(id int64, c, d, w, p int) Student {
	return Student{ID: id, Coding: c, Design: d, Writing: w, Presenting: p}
}

func randomRoster(r *rand.Rand, n int) []Student {
	roster := make([]Student, n)
	for i := range roster {
		roster[i] = student(int64(i+1), 1+r.Intn(5), 1+r.Intn(5), 1+r.Intn(5), 1+r.Intn(5))
	}
	return roster
}

func TestBalancePowerFixture(t *testing.T) {
	roster := []Student{
		student(1, 5, 5, 5, 5), // 20
		student(2, 5, 5, 4, 4), // 18
		student(3, 3, 3, 2, 2), // 10
		student(4, 2, 2, 2, 2), // 8
	}

	a, err := Balance(roster, 2, nil)
	require.NoError(t, err)
	require.Len(t, a.Groups, 2)

	assert.Equal(t, []int64{1, 4}, a.Groups[0].Members)
	assert.Equal(t, []int64{2, 3}, a.Groups[1].Members)
	assert.Equal(t, 28.0, a.Groups[0].TotalPower)
	assert.Equal(t, 28.0, a.Groups[1].TotalPower)
	assert.Zero(t, a.PowerSpread())
}

func TestBalanceSeparatesCodingExperts(t *testing.T) {
	roster := []Student{
		student(1, 5, 1, 1, 1),
		student(2, 5, 1, 1, 1),
	}

	a, err := Balance(roster, 2, nil)
	require.NoError(t, err)

	g1, ok := a.GroupOf(1)
	require.True(t, ok)
	g2, ok := a.GroupOf(2)
	require.True(t, ok)
	assert.NotEqual(t, g1, g2)
}

func TestBalanceClashPenaltyOverridesSmallPowerGap(t *testing.T) {
	roster := []Student{
		student(1, 1, 5, 5, 5), // 16
		student(2, 5, 3, 3, 3), // 14, coding expert
		student(3, 5, 1, 1, 1), // 8, coding expert
		student(4, 1, 1, 1, 1), // 4
	}

	a, err := Balance(roster, 2, nil)
	require.NoError(t, err)

	// Group 1 is weaker (14 vs 16) but already holds a coding expert.
	g, _ := a.GroupOf(3)
	assert.Equal(t, 0, g)
	g, _ = a.GroupOf(4)
	assert.Equal(t, 1, g)
	assert.Equal(t, [NumSkills]int{6, 6, 6, 6}, a.Groups[0].SkillSums)
}

func TestBalanceClashNeverOverridesLargePowerGap(t *testing.T) {
	roster := []Student{
		student(1, 1, 5, 5, 5), // 16
		student(2, 5, 1, 2, 1), // 9, coding expert
		student(3, 5, 1, 1, 1), // 8, coding expert
		student(4, 1, 1, 1, 1), // 4
	}

	a, err := Balance(roster, 2, nil)
	require.NoError(t, err)

	// 9 + 5 is still below 16, so power balance wins.
	g, _ := a.GroupOf(3)
	assert.Equal(t, 1, g)
}

func TestBalanceEmptyRoster(t *testing.T) {
	a, err := Balance(nil, 3, nil)
	require.NoError(t, err)
	require.Len(t, a.Groups, 3)
	for i, g := range a.Groups {
		assert.Equal(t, i, g.Index)
		assert.Equal(t, GroupName(i), g.Name)
		assert.Zero(t, g.MemberCount)
		assert.Empty(t, g.Members)
	}
	assert.Empty(t, a.Placements)
}

func TestBalanceFewerStudentsThanGroups(t *testing.T) {
	roster := []Student{student(1, 3, 3, 3, 3), student(2, 2, 2, 2, 2)}

	a, err := Balance(roster, 5, nil)
	require.NoError(t, err)
	require.Len(t, a.Groups, 5)

	assert.Equal(t, []int64{1}, a.Groups[0].Members)
	assert.Equal(t, []int64{2}, a.Groups[1].Members)
	for _, g := range a.Groups[2:] {
		assert.Zero(t, g.MemberCount)
	}
}

func TestBalanceGroupNames(t *testing.T) {
	a, err := Balance(nil, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "Group 1", a.Groups[0].Name)
	assert.Equal(t, "Group 2", a.Groups[1].Name)
}

func TestBalanceWeightsChangeOrder(t *testing.T) {
	roster := []Student{
		student(1, 5, 1, 1, 1),
		student(2, 1, 1, 1, 5),
		student(3, 1, 1, 1, 4),
	}
	w := SkillWeights{Coding: 0, Design: 1, Writing: 1, Presenting: 3}

	a, err := Balance(roster, 2, &w)
	require.NoError(t, err)

	// Presenting-heavy students rank first: 2 (17), 3 (14), 1 (5).
	assert.Equal(t, []int64{2}, a.Groups[0].Members)
	assert.Equal(t, []int64{3, 1}, a.Groups[1].Members)
	assert.Equal(t, 17.0, a.Groups[0].TotalPower)
	assert.Equal(t, 19.0, a.Groups[1].TotalPower)
}

func TestBalanceTotality(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 40; n++ {
		for k := 1; k <= 7; k++ {
			roster := randomRoster(r, n)
			a, err := Balance(roster, k, nil)
			require.NoError(t, err)
			require.Len(t, a.Groups, k)
			require.Len(t, a.Placements, n)

			total := 0
			seen := map[int64]bool{}
			for i, g := range a.Groups {
				total += g.MemberCount
				require.Len(t, g.Members, g.MemberCount)
				for _, id := range g.Members {
					require.False(t, seen[id], "student %d assigned twice", id)
					seen[id] = true
					require.Equal(t, i, a.Placements[id])
				}
			}
			require.Equal(t, n, total)
		}
	}
}

func TestBalanceSizeParity(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := r.Intn(60)
		k := 1 + r.Intn(9)
		w := SkillWeights{
			Coding:     float64(r.Intn(2000)),
			Design:     float64(r.Intn(4)),
			Writing:    r.Float64(),
			Presenting: float64(r.Intn(3)),
		}

		a, err := Balance(randomRoster(r, n), k, &w)
		require.NoError(t, err)

		lo, hi := a.Groups[0].MemberCount, a.Groups[0].MemberCount
		for _, g := range a.Groups {
			lo = min(lo, g.MemberCount)
			hi = max(hi, g.MemberCount)
		}
		require.LessOrEqual(t, hi-lo, 1, "n=%d k=%d", n, k)
	}
}

func TestBalanceAggregatesMatchMembers(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	roster := randomRoster(r, 23)
	byID := map[int64]Student{}
	for _, s := range roster {
		byID[s.ID] = s
	}
	w := SkillWeights{Coding: 2, Design: 1, Writing: 0.5, Presenting: 1}

	a, err := Balance(roster, 4, &w)
	require.NoError(t, err)

	for _, g := range a.Groups {
		var power float64
		var sums [NumSkills]int
		for _, id := range g.Members {
			s := byID[id]
			power += w.Power(s)
			for i, v := range s.Skills() {
				sums[i] += v
			}
		}
		assert.InDelta(t, power, g.TotalPower, 1e-9)
		assert.Equal(t, sums, g.SkillSums)
	}
}

func TestBalanceDeterministicAcrossInputOrder(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	roster := randomRoster(r, 31)

	first, err := Balance(roster, 4, nil)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		shuffled := append([]Student(nil), roster...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Balance(shuffled, 4, nil)
		require.NoError(t, err)
		gotJSON, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(gotJSON))
		assert.Equal(t, first.Groups, got.Groups)
	}
}

func TestBalanceDoesNotMutateRoster(t *testing.T) {
	roster := []Student{student(3, 1, 1, 1, 1), student(1, 5, 5, 5, 5), student(2, 3, 3, 3, 3)}
	before := append([]Student(nil), roster...)

	_, err := Balance(roster, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, before, roster)
}

func TestBalanceInvalidArguments(t *testing.T) {
	valid := []Student{student(1, 3, 3, 3, 3)}

	tests := []struct {
		name       string
		roster     []Student
		groupCount int
		weights    *SkillWeights
	}{
		{"zero groups", valid, 0, nil},
		{"negative groups", valid, -2, nil},
		{"zero groups empty roster", nil, 0, nil},
		{"skill above range", []Student{student(1, 6, 3, 3, 3)}, 2, nil},
		{"skill below range", []Student{student(1, 3, 3, 0, 3)}, 2, nil},
		{"negative weight", valid, 2, &SkillWeights{Coding: 1, Design: -1, Writing: 1, Presenting: 1}},
		{"duplicate id", []Student{student(1, 3, 3, 3, 3), student(1, 2, 2, 2, 2)}, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Balance(tt.roster, tt.groupCount, tt.weights)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, a)
		})
	}
}

func TestTopSkill(t *testing.T) {
	tests := []struct {
		name  string
		s     Student
		skill Skill
		score int
	}{
		{"coding wins tie", student(1, 5, 5, 5, 5), SkillCoding, 5},
		{"design", student(1, 2, 4, 3, 3), SkillDesign, 4},
		{"writing over presenting on tie", student(1, 1, 1, 5, 5), SkillWriting, 5},
		{"presenting", student(1, 1, 1, 1, 2), SkillPresenting, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skill, score := tt.s.TopSkill()
			assert.Equal(t, tt.skill, skill)
			assert.Equal(t, tt.score, score)
		})
	}
}
