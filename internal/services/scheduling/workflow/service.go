// Package workflow coordinates the exam scheduling lifecycle: proposals,
// review decisions, conflict detection under resource locks, and event
// emission after committed transitions.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/examdesk/examdesk/internal/platform/id"
	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

const defaultLockWaitTimeout = 5 * time.Second

// Config carries the dependencies for a workflow Service.
type Config struct {
	Schedules storage.ScheduleStore
	Periods   storage.PeriodStore
	Catalog   storage.CatalogStore
	// Emitter receives events after committed transitions. Optional; defaults
	// to the log emitter.
	Emitter event.Emitter
	// LockWaitTimeout bounds how long an approval waits for resource locks
	// before failing with ErrBusy. Defaults to 5s.
	LockWaitTimeout time.Duration
	// Clock and NewID are injectable for tests.
	Clock func() time.Time
	NewID func() (string, error)
}

// Service is the exam scheduling coordinator.
type Service struct {
	schedules       storage.ScheduleStore
	periods         storage.PeriodStore
	catalog         storage.CatalogStore
	emitter         event.Emitter
	locks           *LockTable
	lockWaitTimeout time.Duration
	clock           func() time.Time
	newID           func() (string, error)
	tracer          trace.Tracer
}

// NewService builds a workflow Service from its dependencies.
func NewService(cfg Config) (*Service, error) {
	if cfg.Schedules == nil {
		return nil, fmt.Errorf("schedule store is required")
	}
	if cfg.Periods == nil {
		return nil, fmt.Errorf("period store is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if cfg.Emitter == nil {
		cfg.Emitter = event.LogEmitter{}
	}
	if cfg.LockWaitTimeout <= 0 {
		cfg.LockWaitTimeout = defaultLockWaitTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	return &Service{
		schedules:       cfg.Schedules,
		periods:         cfg.Periods,
		catalog:         cfg.Catalog,
		emitter:         cfg.Emitter,
		locks:           NewLockTable(),
		lockWaitTimeout: cfg.LockWaitTimeout,
		clock:           cfg.Clock,
		newID:           cfg.NewID,
		tracer:          otel.Tracer("examdesk/scheduling/workflow"),
	}, nil
}

// Propose records a student representative's exam date proposal.
func (s *Service) Propose(ctx context.Context, actor domain.Actor, input domain.ProposeInput) (domain.ExamSchedule, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.Propose")
	defer span.End()

	period, err := s.periods.GetPeriod(ctx, input.PeriodID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExamSchedule{}, ErrPeriodNotFound
		}
		return domain.ExamSchedule{}, fmt.Errorf("load period: %w", err)
	}

	subject, err := s.catalog.GetSubject(ctx, input.SubjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExamSchedule{}, ErrSubjectNotFound
		}
		return domain.ExamSchedule{}, fmt.Errorf("load subject: %w", err)
	}
	group, err := s.catalog.GetGroup(ctx, input.GroupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExamSchedule{}, ErrGroupNotFound
		}
		return domain.ExamSchedule{}, fmt.Errorf("load group: %w", err)
	}
	if !group.EnrolledIn(subject.ID) {
		return domain.ExamSchedule{}, ErrGroupNotEnrolled
	}

	schedule, err := domain.Propose(actor, input, period, s.clock, s.newID)
	if err != nil {
		return domain.ExamSchedule{}, err
	}

	if err := s.schedules.CreateSchedule(ctx, schedule); err != nil {
		if errors.Is(err, storage.ErrDuplicateProposal) {
			return domain.ExamSchedule{}, ErrDuplicateProposal
		}
		return domain.ExamSchedule{}, fmt.Errorf("store schedule: %w", err)
	}

	s.emit(ctx, event.TypeScheduleProposed, schedule, actor, nil)
	return schedule, nil
}

// GetSchedule returns one schedule entry by id.
func (s *Service) GetSchedule(ctx context.Context, scheduleID string) (domain.ExamSchedule, error) {
	schedule, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExamSchedule{}, ErrScheduleNotFound
		}
		return domain.ExamSchedule{}, fmt.Errorf("load schedule: %w", err)
	}
	return schedule, nil
}

// ListSchedules returns entries matching the filter.
func (s *Service) ListSchedules(ctx context.Context, filter storage.ScheduleFilter) ([]domain.ExamSchedule, error) {
	schedules, err := s.schedules.ListSchedules(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// CheckConflicts probes a prospective resource assignment without mutating the
// entry or taking locks. The result is advisory: only an approval performed
// under locks is authoritative.
func (s *Service) CheckConflicts(ctx context.Context, scheduleID string, approval domain.Approval) ([]domain.Conflict, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.CheckConflicts")
	defer span.End()

	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	normalized, err := approval.Normalize()
	if err != nil {
		return nil, err
	}
	committed, err := s.schedules.ListCommittedInRange(ctx, normalized.StartTime, normalized.EndTime)
	if err != nil {
		return nil, fmt.Errorf("list committed schedules: %w", err)
	}
	return domain.DetectConflicts(domain.Candidate{
		ScheduleID:   schedule.ID,
		GroupID:      schedule.GroupID,
		RoomIDs:      normalized.RoomIDs(),
		AssistantIDs: normalized.AssistantIDs,
		StartTime:    normalized.StartTime,
		EndTime:      normalized.EndTime,
	}, committed), nil
}

// emit delivers an event after a committed transition. Emission failures are
// logged and never fail the operation.
func (s *Service) emit(ctx context.Context, eventType event.Type, schedule domain.ExamSchedule, actor domain.Actor, payload any) {
	eventID, err := s.newID()
	if err != nil {
		log.Printf("event id generation failed type=%s schedule_id=%s error=%v", eventType, schedule.ID, err)
		return
	}
	evt := event.Event{
		ID:         eventID,
		Type:       eventType,
		ScheduleID: schedule.ID,
		PeriodID:   schedule.PeriodID,
		ActorID:    actor.ID,
		Timestamp:  s.clock().UTC(),
	}
	if payload != nil {
		data, err := event.MarshalPayload(payload)
		if err != nil {
			log.Printf("event payload marshal failed type=%s schedule_id=%s error=%v", eventType, schedule.ID, err)
			return
		}
		evt.PayloadJSON = data
	}
	if err := s.emitter.Emit(ctx, evt); err != nil {
		log.Printf("event emission failed type=%s schedule_id=%s error=%v", eventType, schedule.ID, err)
	}
}
