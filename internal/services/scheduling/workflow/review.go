package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

// DecisionKind names the reviewer's action on a proposal.
type DecisionKind string

const (
	// DecisionAcknowledge moves a PROPOSED entry to PENDING.
	DecisionAcknowledge DecisionKind = "acknowledge"
	// DecisionReject terminally rejects the entry with a reason.
	DecisionReject DecisionKind = "reject"
	// DecisionApprove assigns resources and, when conflict-free, confirms.
	DecisionApprove DecisionKind = "approve"
)

// ReviewInput is one reviewer decision against a schedule entry.
type ReviewInput struct {
	ScheduleID string
	// ExpectedVersion is the entry version the reviewer acted on. A mismatch
	// at write time fails with ErrStaleVersion.
	ExpectedVersion int64
	Kind            DecisionKind
	// Reason is required for DecisionReject.
	Reason string
	// Approval is required for DecisionApprove.
	Approval domain.Approval
}

// ReviewResult is the outcome of a review decision. A non-empty Conflicts
// list means the approval was blocked and the entry was left untouched.
type ReviewResult struct {
	Schedule  domain.ExamSchedule
	Conflicts []domain.Conflict
}

// Review applies one reviewer decision to a schedule entry.
func (s *Service) Review(ctx context.Context, actor domain.Actor, input ReviewInput) (ReviewResult, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.Review")
	defer span.End()

	switch input.Kind {
	case DecisionAcknowledge:
		return s.acknowledge(ctx, actor, input)
	case DecisionReject:
		return s.reject(ctx, actor, input)
	case DecisionApprove:
		return s.approve(ctx, actor, input)
	default:
		return ReviewResult{}, fmt.Errorf("unknown decision kind %q", input.Kind)
	}
}

func (s *Service) acknowledge(ctx context.Context, actor domain.Actor, input ReviewInput) (ReviewResult, error) {
	schedule, err := s.GetSchedule(ctx, input.ScheduleID)
	if err != nil {
		return ReviewResult{}, err
	}
	if schedule.Version != input.ExpectedVersion {
		return ReviewResult{}, ErrStaleVersion
	}
	if err := schedule.Acknowledge(actor, s.clock); err != nil {
		return ReviewResult{}, err
	}
	if err := s.updateSchedule(ctx, schedule, input.ExpectedVersion); err != nil {
		return ReviewResult{}, err
	}
	s.emit(ctx, event.TypeScheduleAcknowledged, schedule, actor, nil)
	return ReviewResult{Schedule: schedule}, nil
}

func (s *Service) reject(ctx context.Context, actor domain.Actor, input ReviewInput) (ReviewResult, error) {
	schedule, err := s.GetSchedule(ctx, input.ScheduleID)
	if err != nil {
		return ReviewResult{}, err
	}
	if schedule.Version != input.ExpectedVersion {
		return ReviewResult{}, ErrStaleVersion
	}
	if err := schedule.Reject(actor, input.Reason, s.clock); err != nil {
		return ReviewResult{}, err
	}
	if err := s.updateSchedule(ctx, schedule, input.ExpectedVersion); err != nil {
		return ReviewResult{}, err
	}
	s.emit(ctx, event.TypeScheduleRejected, schedule, actor, event.RejectedPayload{Reason: schedule.RejectionReason})
	return ReviewResult{Schedule: schedule}, nil
}

// approve validates the resource assignment against the catalog, then runs
// conflict detection and confirmation under the resource locks so that two
// overlapping approvals can never both commit.
func (s *Service) approve(ctx context.Context, actor domain.Actor, input ReviewInput) (ReviewResult, error) {
	schedule, err := s.GetSchedule(ctx, input.ScheduleID)
	if err != nil {
		return ReviewResult{}, err
	}
	if schedule.Version != input.ExpectedVersion {
		return ReviewResult{}, ErrStaleVersion
	}
	if err := approvable(schedule); err != nil {
		return ReviewResult{}, err
	}

	approval, err := input.Approval.Normalize()
	if err != nil {
		return ReviewResult{}, err
	}
	if err := s.validateApproval(ctx, schedule, approval); err != nil {
		return ReviewResult{}, err
	}

	lockKeys := make([]string, 0, 2+len(approval.RoomIDs())+len(approval.AssistantIDs))
	for _, roomID := range approval.RoomIDs() {
		lockKeys = append(lockKeys, "room/"+roomID)
	}
	for _, assistantID := range approval.AssistantIDs {
		lockKeys = append(lockKeys, "assistant/"+assistantID)
	}
	lockKeys = append(lockKeys, "group/"+schedule.GroupID)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWaitTimeout)
	defer cancel()
	release, err := s.locks.AcquireAll(lockCtx, lockKeys)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ReviewResult{}, ErrBusy
		}
		return ReviewResult{}, fmt.Errorf("acquire resource locks: %w", err)
	}
	defer release()

	// Re-read under the locks; another approval may have won since the first
	// read.
	schedule, err = s.GetSchedule(ctx, input.ScheduleID)
	if err != nil {
		return ReviewResult{}, err
	}
	if schedule.Version != input.ExpectedVersion {
		return ReviewResult{}, ErrStaleVersion
	}
	if err := approvable(schedule); err != nil {
		return ReviewResult{}, err
	}

	period, err := s.periods.GetPeriod(ctx, schedule.PeriodID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ReviewResult{}, ErrPeriodNotFound
		}
		return ReviewResult{}, fmt.Errorf("load period: %w", err)
	}

	// Scan by time range, not by period: periods may overlap in wall-clock
	// time and a room is double-booked either way.
	committed, err := s.schedules.ListCommittedInRange(ctx, approval.StartTime, approval.EndTime)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("list committed schedules: %w", err)
	}
	conflicts := domain.DetectConflicts(domain.Candidate{
		ScheduleID:   schedule.ID,
		GroupID:      schedule.GroupID,
		RoomIDs:      approval.RoomIDs(),
		AssistantIDs: approval.AssistantIDs,
		StartTime:    approval.StartTime,
		EndTime:      approval.EndTime,
	}, committed)
	if len(conflicts) > 0 {
		// Blocked approvals are data, not errors: the entry stays put and the
		// reviewer picks different resources.
		return ReviewResult{Schedule: schedule, Conflicts: conflicts}, nil
	}

	if err := schedule.Confirm(actor, approval, period, s.clock); err != nil {
		return ReviewResult{}, err
	}
	if err := s.updateSchedule(ctx, schedule, input.ExpectedVersion); err != nil {
		return ReviewResult{}, err
	}

	s.emit(ctx, event.TypeScheduleConfirmed, schedule, actor, event.ConfirmedPayload{
		PrimaryRoomID:     schedule.PrimaryRoomID,
		AdditionalRoomIDs: schedule.AdditionalRoomIDs,
		AssistantIDs:      schedule.AssistantIDs,
		StartTime:         approval.StartTime,
		EndTime:           approval.EndTime,
	})
	return ReviewResult{Schedule: schedule}, nil
}

// approvable rejects decisions against entries that already left the review
// pipeline, before any conflict detection runs.
func approvable(schedule domain.ExamSchedule) error {
	if schedule.Status != domain.StatusProposed && schedule.Status != domain.StatusPending {
		return fmt.Errorf("%w: approve from %s", domain.ErrInvalidTransition, schedule.Status)
	}
	return nil
}

// validateApproval checks the assignment against the catalog mirror: rooms
// and assistants must exist, assistants must cover the subject, and the
// combined room capacity must seat the group.
func (s *Service) validateApproval(ctx context.Context, schedule domain.ExamSchedule, approval domain.Approval) error {
	group, err := s.catalog.GetGroup(ctx, schedule.GroupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("load group: %w", err)
	}

	capacity := 0
	for _, roomID := range approval.RoomIDs() {
		room, err := s.catalog.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
			}
			return fmt.Errorf("load room: %w", err)
		}
		capacity += room.Capacity
	}
	if capacity < group.Size {
		return ErrRoomCapacityExceeded
	}

	for _, assistantID := range approval.AssistantIDs {
		assistant, err := s.catalog.GetAssistant(ctx, assistantID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAssistantNotFound, assistantID)
			}
			return fmt.Errorf("load assistant: %w", err)
		}
		if !assistant.EligibleFor(schedule.SubjectID) {
			return fmt.Errorf("%w: %s", ErrAssistantNotEligible, assistantID)
		}
	}
	return nil
}

func (s *Service) updateSchedule(ctx context.Context, schedule domain.ExamSchedule, expectedVersion int64) error {
	err := s.schedules.UpdateSchedule(ctx, schedule, expectedVersion)
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrVersionMismatch) {
		return ErrStaleVersion
	}
	if errors.Is(err, storage.ErrNotFound) {
		return ErrScheduleNotFound
	}
	return fmt.Errorf("store schedule: %w", err)
}
