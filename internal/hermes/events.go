package hermes

import (
	"strings"
	"time"
)

type SectionEvent struct {
	SectionID string `json:"section_id"`
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name,omitempty"`
}

type StudentAddedEvent struct {
	SectionID string `json:"section_id"`
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
}

type StudentMovedEvent struct {
	SectionID string `json:"section_id"`
	StudentID int64  `json:"student_id"`
	GroupID   string `json:"group_id"`
}

type StudentsDeletedEvent struct {
	SectionID  string  `json:"section_id"`
	StudentIDs []int64 `json:"student_ids"`
	Deleted    int     `json:"deleted"`
}

type GroupSummary struct {
	GroupID     string  `json:"group_id"`
	Name        string  `json:"name"`
	MemberCount int     `json:"member_count"`
	TotalPower  float64 `json:"total_power"`
}

type GroupsGeneratedEvent struct {
	SectionID   string         `json:"section_id"`
	TeacherID   string         `json:"teacher_id"`
	GroupCount  int            `json:"group_count"`
	Students    int            `json:"students"`
	Forced      bool           `json:"forced"`
	PowerSpread float64        `json:"power_spread"`
	Groups      []GroupSummary `json:"groups"`
	Timestamp   time.Time      `json:"timestamp"`
}

// GenerateRequestEvent asks the service to (re)generate a section's groups.
// An absent group_count and any absent weight fall back to configured
// defaults. An explicit zero group_count is rejected.
type GenerateRequestEvent struct {
	TeacherID  string          `json:"teacher_id"`
	GroupCount *int            `json:"group_count,omitempty"`
	Weights    *WeightsPayload `json:"weights,omitempty"`
	Force      bool            `json:"force"`
}

type WeightsPayload struct {
	Coding     *float64 `json:"coding,omitempty"`
	Design     *float64 `json:"design,omitempty"`
	Writing    *float64 `json:"writing,omitempty"`
	Presenting *float64 `json:"presenting,omitempty"`
}

// SectionIDFromSubject extracts the section id from a huddle.section.{id}.*
// subject.
func SectionIDFromSubject(subject string) (string, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) < 4 || parts[0] != "huddle" || parts[1] != "section" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
