package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/event"
)

func TestPeriodAdminRequiresSecretariat(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	input := domain.CreateExamPeriodInput{
		Name:      "Winter Session",
		StartDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
	}

	if _, err := service.CreatePeriod(ctx, reviewer(), input); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for reviewer, got %v", err)
	}
	if _, err := service.UpdatePeriod(ctx, representative(), "P1", input); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for representative, got %v", err)
	}
	if err := service.DeletePeriod(ctx, reviewer(), "P1"); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized on delete, got %v", err)
	}
}

func TestPeriodLifecycle(t *testing.T) {
	service, emitter := newTestService(t)
	ctx := context.Background()

	created, err := service.CreatePeriod(ctx, secretariat(), domain.CreateExamPeriodInput{
		Name:      "Winter Session",
		StartDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create period: %v", err)
	}
	if len(emitter.byType(event.TypePeriodCreated)) != 1 {
		t.Fatal("expected one period.created event")
	}

	updated, err := service.UpdatePeriod(ctx, secretariat(), created.ID, domain.CreateExamPeriodInput{
		Name:      "Winter Resits",
		StartDate: created.StartDate,
		EndDate:   created.EndDate.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("update period: %v", err)
	}
	if updated.Name != "Winter Resits" {
		t.Fatalf("expected renamed period, got %q", updated.Name)
	}

	periods, err := service.ListPeriods(ctx)
	if err != nil {
		t.Fatalf("list periods: %v", err)
	}
	// The seeded summer period plus the one just created.
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}

	if err := service.DeletePeriod(ctx, secretariat(), created.ID); err != nil {
		t.Fatalf("delete period: %v", err)
	}
	if _, err := service.GetPeriod(ctx, created.ID); !errors.Is(err, ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound after delete, got %v", err)
	}
	if len(emitter.byType(event.TypePeriodDeleted)) != 1 {
		t.Fatal("expected one period.deleted event")
	}
}

func TestPeriodLockedByConfirmedSchedule(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	schedule := proposeFor(t, service, "101", "914")
	if _, err := service.Review(ctx, reviewer(), ReviewInput{
		ScheduleID:      schedule.ID,
		ExpectedVersion: schedule.Version,
		Kind:            DecisionApprove,
		Approval:        approvalAt(9, 11),
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if _, err := service.UpdatePeriod(ctx, secretariat(), "P1", domain.CreateExamPeriodInput{
		Name:      "Shifted Session",
		StartDate: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC),
	}); !errors.Is(err, domain.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked on update, got %v", err)
	}
	if err := service.DeletePeriod(ctx, secretariat(), "P1"); !errors.Is(err, domain.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked on delete, got %v", err)
	}
}
