package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestStudentJSONOmitsUnassignedGroup(t *testing.T) {
	st := Student{ID: 7, Name: "Ana", Coding: 5, Design: 3, Writing: 2, Presenting: 1}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["group_id"]; ok {
		t.Error("expected group_id omitted for unassigned student")
	}

	gid := uuid.New()
	st.GroupID = &gid
	data, _ = json.Marshal(st)
	m = nil
	_ = json.Unmarshal(data, &m)
	if m["group_id"] != gid.String() {
		t.Errorf("expected group_id %s, got %v", gid, m["group_id"])
	}
}

func TestErrNotFoundWraps(t *testing.T) {
	err := fmt.Errorf("move student 3: %w", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected wrapped ErrNotFound to match")
	}
}

func TestGroupPlanPositions(t *testing.T) {
	plan := GroupPlan{Groups: []PlannedGroup{
		{Name: "Group 1", StudentIDs: []int64{1, 4}},
		{Name: "Group 2"},
	}}
	if len(plan.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(plan.Groups))
	}
	if plan.Groups[1].StudentIDs != nil {
		t.Error("expected empty group to carry no students")
	}
}
