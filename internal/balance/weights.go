package balance

import (
	"fmt"
	"math"
)

// Skill identifies one of the four self-reported skills. The declaration
// order is the precedence used when a student's top skill is tied.
type Skill int

const (
	SkillCoding Skill = iota
	SkillDesign
	SkillWriting
	SkillPresenting
)

// NumSkills is the number of rated skills.
const NumSkills = 4

// MinSkill and MaxSkill bound every skill rating.
const (
	MinSkill = 1
	MaxSkill = 5
)

var skillNames = [NumSkills]string{"coding", "design", "writing", "presenting"}

func (s Skill) String() string {
	if s < 0 || int(s) >= NumSkills {
		return fmt.Sprintf("skill(%d)", int(s))
	}
	return skillNames[s]
}

// SkillWeights multiplies each skill when computing a student's power.
type SkillWeights struct {
	Coding     float64 `json:"coding" yaml:"coding"`
	Design     float64 `json:"design" yaml:"design"`
	Writing    float64 `json:"writing" yaml:"writing"`
	Presenting float64 `json:"presenting" yaml:"presenting"`
}

// DefaultWeights weighs every skill equally.
func DefaultWeights() SkillWeights {
	return SkillWeights{Coding: 1, Design: 1, Writing: 1, Presenting: 1}
}

// Validate rejects negative or non-finite weights.
func (w SkillWeights) Validate() error {
	for i, v := range w.asList() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s weight %v must be a non-negative number", ErrInvalidArgument, Skill(i), v)
		}
	}
	return nil
}

// Power returns the weighted sum of the student's skills.
func (w SkillWeights) Power(s Student) float64 {
	return float64(s.Coding)*w.Coding +
		float64(s.Design)*w.Design +
		float64(s.Writing)*w.Writing +
		float64(s.Presenting)*w.Presenting
}

func (w SkillWeights) asList() [NumSkills]float64 {
	return [NumSkills]float64{w.Coding, w.Design, w.Writing, w.Presenting}
}
