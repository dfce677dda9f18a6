package grouping

import "errors"

var (
	// ErrSectionNotFound covers both missing sections and sections owned by
	// another teacher, so callers cannot probe for foreign ids.
	ErrSectionNotFound = errors.New("section not found")

	ErrStudentNotFound = errors.New("student not found")
	ErrGroupNotFound   = errors.New("group not found")

	// ErrGroupsExist is returned by Generate when the section already has
	// groups and the request did not set Force.
	ErrGroupsExist = errors.New("groups already exist for section")

	// ErrRosterTooLarge is returned when a section holds more students than
	// the configured limit.
	ErrRosterTooLarge = errors.New("roster exceeds maximum size")
)
