package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/examdesk/examdesk/internal/platform/id"
)

// Status is the lifecycle state of an exam schedule entry.
type Status string

const (
	// StatusProposed marks a freshly proposed entry awaiting reviewer attention.
	StatusProposed Status = "PROPOSED"
	// StatusPending marks an entry a reviewer has acknowledged but not resolved.
	StatusPending Status = "PENDING"
	// StatusApproved marks an entry whose resource assignment passed conflict
	// detection but whose confirmation has not been recorded yet.
	StatusApproved Status = "APPROVED"
	// StatusRejected marks a terminally rejected entry.
	StatusRejected Status = "REJECTED"
	// StatusConfirmed marks a terminally confirmed entry with committed resources.
	StatusConfirmed Status = "CONFIRMED"
)

// IsTerminal reports whether no further transitions are legal.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusConfirmed
}

// IsCommitted reports whether the entry's resources constrain other entries.
func (s Status) IsCommitted() bool {
	return s == StatusApproved || s == StatusConfirmed
}

// IsValid reports whether the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusProposed, StatusPending, StatusApproved, StatusRejected, StatusConfirmed:
		return true
	}
	return false
}

var (
	// ErrSubjectIDRequired indicates a missing subject reference.
	ErrSubjectIDRequired = errors.New("subject id is required")
	// ErrGroupIDRequired indicates a missing group reference.
	ErrGroupIDRequired = errors.New("group id is required")
	// ErrPeriodIDRequired indicates a missing exam period reference.
	ErrPeriodIDRequired = errors.New("exam period id is required")
	// ErrProposedDateRequired indicates a missing proposal date.
	ErrProposedDateRequired = errors.New("proposed date is required")
	// ErrDateOutsidePeriod indicates the date falls outside the exam period.
	ErrDateOutsidePeriod = errors.New("date falls outside the exam period")
	// ErrIntervalInvalid indicates the start time is not before the end time.
	ErrIntervalInvalid = errors.New("start time must be before end time")
	// ErrIntervalOutsidePeriod indicates the interval leaves the exam period.
	ErrIntervalOutsidePeriod = errors.New("interval falls outside the exam period")
	// ErrPrimaryRoomRequired indicates an approval without a primary room.
	ErrPrimaryRoomRequired = errors.New("primary room id is required")
	// ErrRejectionReasonRequired indicates a rejection without a reason.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	// ErrInvalidTransition indicates the action is not legal from the current status.
	ErrInvalidTransition = errors.New("action is not legal from the current status")
)

// ExamSchedule is one exam's proposal/approval record.
type ExamSchedule struct {
	ID         string
	SubjectID  string
	GroupID    string
	PeriodID   string
	ProposerID string
	// ReviewerID is the professor who acted on the entry; empty until reviewed.
	ReviewerID string
	Status     Status
	// ProposedDate is the date-only value supplied at proposal time.
	ProposedDate time.Time
	// StartTime and EndTime delimit the half-open interval [start, end);
	// nil until a reviewer approves the entry.
	StartTime *time.Time
	EndTime   *time.Time
	// PrimaryRoomID and AdditionalRoomIDs are empty until approved.
	PrimaryRoomID     string
	AdditionalRoomIDs []string
	AssistantIDs      []string
	// RejectionReason is set only when Status is REJECTED.
	RejectionReason string
	// Version increments on every mutation; transition requests carry the
	// version they were read at.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomIDs returns the primary room followed by additional rooms, deduplicated.
func (s ExamSchedule) RoomIDs() []string {
	rooms := make([]string, 0, 1+len(s.AdditionalRoomIDs))
	if s.PrimaryRoomID != "" {
		rooms = append(rooms, s.PrimaryRoomID)
	}
	for _, roomID := range s.AdditionalRoomIDs {
		if roomID != "" && !containsID(rooms, roomID) {
			rooms = append(rooms, roomID)
		}
	}
	return rooms
}

// ProposeInput describes a student representative's exam date proposal.
type ProposeInput struct {
	SubjectID    string
	GroupID      string
	PeriodID     string
	ProposedDate time.Time
}

// Propose creates a schedule entry in PROPOSED for the actor's group. The
// caller is responsible for enforcing the one-live-proposal rule against
// existing entries.
func Propose(actor Actor, input ProposeInput, period ExamPeriod, now func() time.Time, idGenerator func() (string, error)) (ExamSchedule, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if strings.TrimSpace(actor.ID) == "" {
		return ExamSchedule{}, ErrActorIDRequired
	}
	input.SubjectID = strings.TrimSpace(input.SubjectID)
	if input.SubjectID == "" {
		return ExamSchedule{}, ErrSubjectIDRequired
	}
	input.GroupID = strings.TrimSpace(input.GroupID)
	if input.GroupID == "" {
		return ExamSchedule{}, ErrGroupIDRequired
	}
	input.PeriodID = strings.TrimSpace(input.PeriodID)
	if input.PeriodID == "" {
		return ExamSchedule{}, ErrPeriodIDRequired
	}
	if input.ProposedDate.IsZero() {
		return ExamSchedule{}, ErrProposedDateRequired
	}
	if !actor.CanProposeFor(input.GroupID) {
		return ExamSchedule{}, ErrNotAuthorized
	}
	if !period.Contains(input.ProposedDate) {
		return ExamSchedule{}, ErrDateOutsidePeriod
	}

	scheduleID, err := idGenerator()
	if err != nil {
		return ExamSchedule{}, fmt.Errorf("generate schedule id: %w", err)
	}

	createdAt := now().UTC()
	return ExamSchedule{
		ID:           scheduleID,
		SubjectID:    input.SubjectID,
		GroupID:      input.GroupID,
		PeriodID:     input.PeriodID,
		ProposerID:   actor.ID,
		Status:       StatusProposed,
		ProposedDate: DateOnly(input.ProposedDate),
		Version:      1,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// Acknowledge moves a PROPOSED entry to PENDING, recording the reviewer.
func (s *ExamSchedule) Acknowledge(actor Actor, now func() time.Time) error {
	if !actor.CanReview(s.SubjectID) {
		return ErrNotAuthorized
	}
	if s.Status != StatusProposed {
		return fmt.Errorf("%w: acknowledge from %s", ErrInvalidTransition, s.Status)
	}
	s.Status = StatusPending
	s.ReviewerID = actor.ID
	s.touch(now)
	return nil
}

// Reject moves a PROPOSED or PENDING entry to REJECTED with a non-empty reason.
func (s *ExamSchedule) Reject(actor Actor, reason string, now func() time.Time) error {
	if !actor.CanReview(s.SubjectID) {
		return ErrNotAuthorized
	}
	if s.Status != StatusProposed && s.Status != StatusPending {
		return fmt.Errorf("%w: reject from %s", ErrInvalidTransition, s.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired
	}
	s.Status = StatusRejected
	s.RejectionReason = reason
	s.ReviewerID = actor.ID
	s.touch(now)
	return nil
}

// Approval describes a reviewer's concrete resource assignment.
type Approval struct {
	PrimaryRoomID     string
	AdditionalRoomIDs []string
	AssistantIDs      []string
	StartTime         time.Time
	EndTime           time.Time
}

// RoomIDs returns the primary room followed by additional rooms, deduplicated.
// Additional rooms constrain conflict detection identically to the primary.
func (a Approval) RoomIDs() []string {
	rooms := make([]string, 0, 1+len(a.AdditionalRoomIDs))
	if a.PrimaryRoomID != "" {
		rooms = append(rooms, a.PrimaryRoomID)
	}
	for _, roomID := range a.AdditionalRoomIDs {
		if roomID != "" && !containsID(rooms, roomID) {
			rooms = append(rooms, roomID)
		}
	}
	return rooms
}

// Normalize trims ids and returns a validated copy of the approval.
func (a Approval) Normalize() (Approval, error) {
	a.PrimaryRoomID = strings.TrimSpace(a.PrimaryRoomID)
	if a.PrimaryRoomID == "" {
		return Approval{}, ErrPrimaryRoomRequired
	}
	additional := make([]string, 0, len(a.AdditionalRoomIDs))
	for _, roomID := range a.AdditionalRoomIDs {
		roomID = strings.TrimSpace(roomID)
		if roomID == "" || roomID == a.PrimaryRoomID || containsID(additional, roomID) {
			continue
		}
		additional = append(additional, roomID)
	}
	sort.Strings(additional)
	a.AdditionalRoomIDs = additional

	assistants := make([]string, 0, len(a.AssistantIDs))
	for _, assistantID := range a.AssistantIDs {
		assistantID = strings.TrimSpace(assistantID)
		if assistantID == "" || containsID(assistants, assistantID) {
			continue
		}
		assistants = append(assistants, assistantID)
	}
	sort.Strings(assistants)
	a.AssistantIDs = assistants

	if !a.StartTime.Before(a.EndTime) {
		return Approval{}, ErrIntervalInvalid
	}
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	return a, nil
}

// Confirm commits a conflict-free approval: the entry moves from PROPOSED or
// PENDING directly to CONFIRMED with the reviewer's resource assignment.
// Conflict detection against committed entries is the caller's responsibility
// and must happen under the resource locks before this call.
func (s *ExamSchedule) Confirm(actor Actor, approval Approval, period ExamPeriod, now func() time.Time) error {
	if !actor.CanReview(s.SubjectID) {
		return ErrNotAuthorized
	}
	if s.Status != StatusProposed && s.Status != StatusPending {
		return fmt.Errorf("%w: approve from %s", ErrInvalidTransition, s.Status)
	}
	normalized, err := approval.Normalize()
	if err != nil {
		return err
	}
	if !period.ContainsInterval(normalized.StartTime, normalized.EndTime) {
		return ErrIntervalOutsidePeriod
	}

	startTime := normalized.StartTime
	endTime := normalized.EndTime
	s.Status = StatusConfirmed
	s.ReviewerID = actor.ID
	s.StartTime = &startTime
	s.EndTime = &endTime
	s.PrimaryRoomID = normalized.PrimaryRoomID
	s.AdditionalRoomIDs = normalized.AdditionalRoomIDs
	s.AssistantIDs = normalized.AssistantIDs
	s.touch(now)
	return nil
}

func (s *ExamSchedule) touch(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.UpdatedAt = now().UTC()
	s.Version++
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
