package domain

import "errors"

// Role identifies the authority an authenticated actor carries. How the
// identity was established is the caller's concern.
type Role string

const (
	// RoleRepresentative is a student group leader who proposes exam dates.
	RoleRepresentative Role = "representative"
	// RoleReviewer is a professor who acknowledges, rejects, or approves
	// proposals for their subjects.
	RoleReviewer Role = "reviewer"
	// RoleSecretariat governs exam periods and may override any entry.
	RoleSecretariat Role = "secretariat"
)

var (
	// ErrActorIDRequired indicates a missing actor identity.
	ErrActorIDRequired = errors.New("actor id is required")
	// ErrNotAuthorized indicates the actor lacks the capability for an action.
	ErrNotAuthorized = errors.New("actor is not authorized for this action")
)

// Actor is an already-authenticated identity with scoped capabilities.
type Actor struct {
	ID   string
	Role Role
	// GroupIDs are the groups a representative may propose for.
	GroupIDs []string
	// SubjectIDs are the subjects a reviewer may review.
	SubjectIDs []string
}

// CanProposeFor reports whether the actor may propose an exam for the group.
func (a Actor) CanProposeFor(groupID string) bool {
	if a.Role == RoleSecretariat {
		return true
	}
	if a.Role != RoleRepresentative {
		return false
	}
	for _, id := range a.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// CanReview reports whether the actor may acknowledge, reject, or approve
// proposals for the subject.
func (a Actor) CanReview(subjectID string) bool {
	if a.Role == RoleSecretariat {
		return true
	}
	if a.Role != RoleReviewer {
		return false
	}
	for _, id := range a.SubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// CanManagePeriods reports whether the actor may administer exam periods.
func (a Actor) CanManagePeriods() bool {
	return a.Role == RoleSecretariat
}
