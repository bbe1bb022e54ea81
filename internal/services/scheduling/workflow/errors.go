package workflow

import "errors"

var (
	// ErrScheduleNotFound indicates the referenced schedule entry does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrPeriodNotFound indicates the referenced exam period does not exist.
	ErrPeriodNotFound = errors.New("exam period not found")
	// ErrStaleVersion indicates the request carried a version that lost to a
	// concurrent update. Callers should re-read and retry.
	ErrStaleVersion = errors.New("schedule version is stale")
	// ErrBusy indicates the resource locks could not be acquired in time.
	ErrBusy = errors.New("scheduling resources are busy")
	// ErrDuplicateProposal indicates a live entry already exists for the same
	// subject, group, and period.
	ErrDuplicateProposal = errors.New("a live proposal already exists for this subject, group, and period")

	// ErrSubjectNotFound indicates the proposal references an unknown subject.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrGroupNotFound indicates the proposal references an unknown group.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupNotEnrolled indicates the group does not take the subject.
	ErrGroupNotEnrolled = errors.New("group is not enrolled in the subject")
	// ErrRoomNotFound indicates the approval references an unknown room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomCapacityExceeded indicates the assigned rooms cannot seat the group.
	ErrRoomCapacityExceeded = errors.New("assigned rooms cannot seat the group")
	// ErrAssistantNotFound indicates the approval references an unknown assistant.
	ErrAssistantNotFound = errors.New("assistant not found")
	// ErrAssistantNotEligible indicates the assistant does not cover the subject.
	ErrAssistantNotEligible = errors.New("assistant is not eligible for the subject")
)
