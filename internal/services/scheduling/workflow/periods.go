package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

// CreatePeriod records a new exam period. Secretariat only.
func (s *Service) CreatePeriod(ctx context.Context, actor domain.Actor, input domain.CreateExamPeriodInput) (domain.ExamPeriod, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.CreatePeriod")
	defer span.End()

	if !actor.CanManagePeriods() {
		return domain.ExamPeriod{}, domain.ErrNotAuthorized
	}
	period, err := domain.CreateExamPeriod(input, s.clock, s.newID)
	if err != nil {
		return domain.ExamPeriod{}, err
	}
	if err := s.periods.PutPeriod(ctx, period); err != nil {
		return domain.ExamPeriod{}, fmt.Errorf("store period: %w", err)
	}
	s.emitPeriod(ctx, event.TypePeriodCreated, period, actor)
	return period, nil
}

// UpdatePeriod renames or re-bounds an exam period. A period with a confirmed
// schedule is locked.
func (s *Service) UpdatePeriod(ctx context.Context, actor domain.Actor, periodID string, input domain.CreateExamPeriodInput) (domain.ExamPeriod, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.UpdatePeriod")
	defer span.End()

	if !actor.CanManagePeriods() {
		return domain.ExamPeriod{}, domain.ErrNotAuthorized
	}
	period, err := s.getPeriod(ctx, periodID)
	if err != nil {
		return domain.ExamPeriod{}, err
	}
	normalized, err := domain.NormalizeCreateExamPeriodInput(input)
	if err != nil {
		return domain.ExamPeriod{}, err
	}
	locked, err := s.periodHasConfirmedSchedule(ctx, periodID)
	if err != nil {
		return domain.ExamPeriod{}, err
	}
	if locked {
		return domain.ExamPeriod{}, domain.ErrPeriodLocked
	}

	period.Name = normalized.Name
	period.StartDate = normalized.StartDate
	period.EndDate = normalized.EndDate
	period.UpdatedAt = s.clock().UTC()
	if err := s.periods.PutPeriod(ctx, period); err != nil {
		return domain.ExamPeriod{}, fmt.Errorf("store period: %w", err)
	}
	s.emitPeriod(ctx, event.TypePeriodUpdated, period, actor)
	return period, nil
}

// DeletePeriod removes an exam period. A period with a confirmed schedule is
// locked.
func (s *Service) DeletePeriod(ctx context.Context, actor domain.Actor, periodID string) error {
	ctx, span := s.tracer.Start(ctx, "workflow.DeletePeriod")
	defer span.End()

	if !actor.CanManagePeriods() {
		return domain.ErrNotAuthorized
	}
	period, err := s.getPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	locked, err := s.periodHasConfirmedSchedule(ctx, periodID)
	if err != nil {
		return err
	}
	if locked {
		return domain.ErrPeriodLocked
	}
	if err := s.periods.DeletePeriod(ctx, periodID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPeriodNotFound
		}
		return fmt.Errorf("delete period: %w", err)
	}
	s.emitPeriod(ctx, event.TypePeriodDeleted, period, actor)
	return nil
}

// GetPeriod returns one exam period by id.
func (s *Service) GetPeriod(ctx context.Context, periodID string) (domain.ExamPeriod, error) {
	return s.getPeriod(ctx, periodID)
}

// ListPeriods returns all exam periods ordered by start date.
func (s *Service) ListPeriods(ctx context.Context) ([]domain.ExamPeriod, error) {
	periods, err := s.periods.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

func (s *Service) getPeriod(ctx context.Context, periodID string) (domain.ExamPeriod, error) {
	period, err := s.periods.GetPeriod(ctx, periodID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ExamPeriod{}, ErrPeriodNotFound
		}
		return domain.ExamPeriod{}, fmt.Errorf("load period: %w", err)
	}
	return period, nil
}

func (s *Service) periodHasConfirmedSchedule(ctx context.Context, periodID string) (bool, error) {
	confirmed, err := s.schedules.ListSchedules(ctx, storage.ScheduleFilter{
		PeriodID: periodID,
		Status:   domain.StatusConfirmed,
	})
	if err != nil {
		return false, fmt.Errorf("list confirmed schedules: %w", err)
	}
	return len(confirmed) > 0, nil
}

func (s *Service) emitPeriod(ctx context.Context, eventType event.Type, period domain.ExamPeriod, actor domain.Actor) {
	s.emit(ctx, eventType, domain.ExamSchedule{PeriodID: period.ID}, actor, nil)
}
