package domain

// Catalog reference values are sourced from the external university registry
// and treated as immutable inputs to validation. The core never mutates them.

// Room is an examination room.
type Room struct {
	ID       string
	Name     string
	Capacity int
}

// Assistant is a staff member who can supervise exams for eligible subjects.
type Assistant struct {
	ID   string
	Name string
	// SubjectIDs are the subjects the assistant is eligible to supervise.
	SubjectIDs []string
}

// Group is a student group.
type Group struct {
	ID   string
	Name string
	Size int
	// SubjectIDs are the subjects the group is enrolled in.
	SubjectIDs []string
}

// Subject is a course for which exams are scheduled.
type Subject struct {
	ID   string
	Name string
	// ReviewerID is the professor responsible for the subject.
	ReviewerID string
}

// EligibleFor reports whether the assistant may supervise the subject.
func (a Assistant) EligibleFor(subjectID string) bool {
	for _, id := range a.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// EnrolledIn reports whether the group is enrolled in the subject.
func (g Group) EnrolledIn(subjectID string) bool {
	for _, id := range g.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}
