package hermes

const (
	// SubjectGenerateRequest matches inbound generation requests for any section.
	SubjectGenerateRequest = "huddle.section.*.generate.request"

	StreamName   = "HUDDLE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func sectionPrefix(sectionID string) string {
	return "huddle.section." + sectionID
}

func SubjectSectionCreated(sectionID string) string {
	return sectionPrefix(sectionID) + ".created"
}

func SubjectSectionDeleted(sectionID string) string {
	return sectionPrefix(sectionID) + ".deleted"
}

func SubjectSectionCleared(sectionID string) string {
	return sectionPrefix(sectionID) + ".cleared"
}

func SubjectStudentAdded(sectionID string) string {
	return sectionPrefix(sectionID) + ".student.added"
}

func SubjectStudentMoved(sectionID string) string {
	return sectionPrefix(sectionID) + ".student.moved"
}

func SubjectStudentsDeleted(sectionID string) string {
	return sectionPrefix(sectionID) + ".students.deleted"
}

func SubjectGroupsGenerated(sectionID string) string {
	return sectionPrefix(sectionID) + ".groups.generated"
}

func SubjectGenerateFor(sectionID string) string {
	return sectionPrefix(sectionID) + ".generate.request"
}
