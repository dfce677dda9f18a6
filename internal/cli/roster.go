package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Huddle/internal/balance"
)

// rosterFile is the on-disk roster format:
//
//	students:
//	  - {id: 1, name: Ana, coding: 5, design: 3, writing: 2, presenting: 4}
type rosterFile struct {
	Students []balance.Student `yaml:"students"`
}

// loadRoster reads a roster file. Students without an id are numbered in
// file order starting after the largest explicit id.
func loadRoster(path string) ([]balance.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	var next int64
	for _, st := range rf.Students {
		next = max(next, st.ID)
	}
	for i := range rf.Students {
		if rf.Students[i].ID == 0 {
			next++
			rf.Students[i].ID = next
		}
	}
	return rf.Students, nil
}

// parseWeights reads "coding,design,writing,presenting" multipliers.
func parseWeights(s string) (*balance.SkillWeights, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != balance.NumSkills {
		return nil, fmt.Errorf("weights: want %d comma-separated values, got %d", balance.NumSkills, len(parts))
	}
	var vals [balance.NumSkills]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("weights: %s: %w", balance.Skill(i), err)
		}
		vals[i] = v
	}
	w := &balance.SkillWeights{Coding: vals[0], Design: vals[1], Writing: vals[2], Presenting: vals[3]}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
