package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by mutations that matched no row.
var ErrNotFound = errors.New("not found")

// Section is a teacher-owned class. Everything else is scoped to one.
type Section struct {
	ID        uuid.UUID `json:"id"`
	TeacherID string    `json:"teacher_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Student struct {
	ID         int64      `json:"id"`
	SectionID  uuid.UUID  `json:"section_id"`
	Name       string     `json:"name"`
	Coding     int        `json:"coding"`
	Design     int        `json:"design"`
	Writing    int        `json:"writing"`
	Presenting int        `json:"presenting"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Group struct {
	ID        uuid.UUID `json:"id"`
	SectionID uuid.UUID `json:"section_id"`
	Position  int       `json:"position"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupPlan is a complete set of groups for a section. Position is the
// group's index in Groups.
type GroupPlan struct {
	Groups []PlannedGroup
}

type PlannedGroup struct {
	Name       string
	StudentIDs []int64
}

type Stats struct {
	Sections   int `json:"sections"`
	Students   int `json:"students"`
	Groups     int `json:"groups"`
	Unassigned int `json:"unassigned_students"`
}

type Store interface {
	// Sections
	CreateSection(ctx context.Context, section *Section) error
	GetSection(ctx context.Context, id uuid.UUID) (*Section, error)
	ListSections(ctx context.Context, teacherID string) ([]*Section, error)
	DeleteSection(ctx context.Context, id uuid.UUID) error

	// Students
	CreateStudent(ctx context.Context, student *Student) error
	GetStudent(ctx context.Context, id int64) (*Student, error)
	ListStudents(ctx context.Context, sectionID uuid.UUID) ([]*Student, error)
	MoveStudent(ctx context.Context, studentID int64, groupID uuid.UUID) error
	DeleteStudents(ctx context.Context, sectionID uuid.UUID, ids []int64) (int, error)
	ClearSection(ctx context.Context, sectionID uuid.UUID) error

	// Groups
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	ListGroups(ctx context.Context, sectionID uuid.UUID) ([]*Group, error)
	CountGroups(ctx context.Context, sectionID uuid.UUID) (int, error)
	ReplaceGroups(ctx context.Context, sectionID uuid.UUID, plan GroupPlan) ([]*Group, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
