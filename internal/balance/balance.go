// Package balance partitions a roster of students into skill-balanced
// groups using a deterministic weakest-group-first greedy heuristic.
package balance

import (
	"fmt"
	"sort"
)

const (
	// ExpertScore is the rating at which a student counts as an expert in
	// their top skill.
	ExpertScore = 5

	// ClashThreshold is the running per-skill sum at which a group already
	// holds a concentration of that skill.
	ClashThreshold = 4

	// ClashPenalty is added to a group that would receive a second expert in
	// an already concentrated skill. It only separates groups whose power
	// totals are within a few points of each other.
	ClashPenalty = 5.0
)

// Student is one roster entry. ID must be unique within a roster; lower
// ids win every tie.
type Student struct {
	ID         int64  `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Coding     int    `json:"coding" yaml:"coding"`
	Design     int    `json:"design" yaml:"design"`
	Writing    int    `json:"writing" yaml:"writing"`
	Presenting int    `json:"presenting" yaml:"presenting"`
}

// Skills returns the ratings in precedence order.
func (s Student) Skills() [NumSkills]int {
	return [NumSkills]int{s.Coding, s.Design, s.Writing, s.Presenting}
}

// Total is the unweighted sum of all four ratings.
func (s Student) Total() int {
	return s.Coding + s.Design + s.Writing + s.Presenting
}

// TopSkill returns the student's highest rated skill. Ties go to the skill
// that comes first in precedence order.
func (s Student) TopSkill() (Skill, int) {
	skills := s.Skills()
	top := SkillCoding
	for i := 1; i < NumSkills; i++ {
		if skills[i] > skills[top] {
			top = Skill(i)
		}
	}
	return top, skills[top]
}

// Validate checks every rating is within [MinSkill, MaxSkill].
func (s Student) Validate() error {
	for i, v := range s.Skills() {
		if v < MinSkill || v > MaxSkill {
			return fmt.Errorf("%w: student %d %s rating %d outside [%d,%d]",
				ErrInvalidArgument, s.ID, Skill(i), v, MinSkill, MaxSkill)
		}
	}
	return nil
}

// Group is one output group together with its running aggregates.
type Group struct {
	Index       int            `json:"index"`
	Name        string         `json:"name"`
	Members     []int64        `json:"members"`
	MemberCount int            `json:"member_count"`
	TotalPower  float64        `json:"total_power"`
	SkillSums   [NumSkills]int `json:"skill_sums"`
}

// GroupName is the label given to the group at index i.
func GroupName(i int) string {
	return fmt.Sprintf("Group %d", i+1)
}

func (g *Group) add(s Student, power float64) {
	g.Members = append(g.Members, s.ID)
	g.MemberCount++
	g.TotalPower += power
	for i, v := range s.Skills() {
		g.SkillSums[i] += v
	}
}

// Assignment is the result of one Balance call.
type Assignment struct {
	Groups     []Group       `json:"groups"`
	Placements map[int64]int `json:"placements"`
}

// GroupOf returns the index of the group holding the student.
func (a *Assignment) GroupOf(studentID int64) (int, bool) {
	idx, ok := a.Placements[studentID]
	return idx, ok
}

// PowerSpread is the difference between the strongest and weakest group
// totals.
func (a *Assignment) PowerSpread() float64 {
	if len(a.Groups) == 0 {
		return 0
	}
	lo, hi := a.Groups[0].TotalPower, a.Groups[0].TotalPower
	for _, g := range a.Groups[1:] {
		lo = min(lo, g.TotalPower)
		hi = max(hi, g.TotalPower)
	}
	return hi - lo
}

// Balance assigns every student in roster to one of groupCount groups.
// A nil weights pointer weighs every skill equally.
//
// Students are placed strongest first. Each goes to the group with the
// lowest penalty: groups larger than the current smallest are never
// preferred over a smallest group, then lower accumulated power wins, then
// a small clash penalty keeps experts in the same skill apart. Remaining
// ties go to the lowest group index. The result depends only on the
// roster contents, not their order.
func Balance(roster []Student, groupCount int, weights *SkillWeights) (*Assignment, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: group count %d must be at least 1", ErrInvalidArgument, groupCount)
	}
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(roster))
	for _, s := range roster {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate student id %d", ErrInvalidArgument, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	type ranked struct {
		student Student
		power   float64
	}
	order := make([]ranked, len(roster))
	for i, s := range roster {
		order[i] = ranked{student: s, power: w.Power(s)}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].student.ID < order[j].student.ID })
	sort.SliceStable(order, func(i, j int) bool { return order[i].power > order[j].power })

	a := &Assignment{
		Groups:     make([]Group, groupCount),
		Placements: make(map[int64]int, len(roster)),
	}
	for i := range a.Groups {
		a.Groups[i] = Group{Index: i, Name: GroupName(i), Members: []int64{}}
	}

	for _, r := range order {
		idx := pickGroup(a.Groups, r.student)
		a.Placements[r.student.ID] = idx
		a.Groups[idx].add(r.student, r.power)
	}
	return a, nil
}

// penalty orders candidate groups. An oversize group loses to any group at
// the minimum size regardless of score, which keeps sizes within one.
type penalty struct {
	oversize bool
	score    float64
}

func (p penalty) less(o penalty) bool {
	if p.oversize != o.oversize {
		return !p.oversize
	}
	return p.score < o.score
}

func pickGroup(groups []Group, s Student) int {
	minSize := groups[0].MemberCount
	for _, g := range groups[1:] {
		minSize = min(minSize, g.MemberCount)
	}

	best, bestIdx := penalty{}, -1
	for i := range groups {
		p := groupPenalty(&groups[i], s, minSize)
		if bestIdx < 0 || p.less(best) {
			best, bestIdx = p, i
		}
	}
	return bestIdx
}

func groupPenalty(g *Group, s Student, minSize int) penalty {
	p := penalty{
		oversize: g.MemberCount > minSize,
		score:    g.TotalPower,
	}
	if top, score := s.TopSkill(); score >= ExpertScore && g.SkillSums[top] >= ClashThreshold {
		p.score += ClashPenalty
	}
	return p
}
