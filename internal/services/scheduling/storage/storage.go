// Package storage defines the persistence interfaces for the scheduling
// service. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/event"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionMismatch indicates a conditional write lost to a concurrent
	// update.
	ErrVersionMismatch = errors.New("version mismatch")
	// ErrDuplicateProposal indicates a non-rejected entry already exists for
	// the same subject, group, and period.
	ErrDuplicateProposal = errors.New("duplicate proposal")
)

// ScheduleFilter narrows ListSchedules. Zero-valued fields match everything.
type ScheduleFilter struct {
	GroupID   string
	SubjectID string
	PeriodID  string
	Status    domain.Status
	// ReviewerID matches entries reviewed by the given professor.
	ReviewerID string
	// RoomID matches entries whose primary or additional rooms include the id.
	RoomID string
}

// ScheduleStore persists exam schedule entries.
type ScheduleStore interface {
	// CreateSchedule inserts a new entry. Returns ErrDuplicateProposal when a
	// non-rejected entry already exists for the same subject, group, and
	// period.
	CreateSchedule(ctx context.Context, schedule domain.ExamSchedule) error

	// GetSchedule returns the entry by id, or ErrNotFound.
	GetSchedule(ctx context.Context, id string) (domain.ExamSchedule, error)

	// UpdateSchedule overwrites the entry only when its stored version equals
	// expectedVersion. Returns ErrVersionMismatch when a concurrent update
	// won, ErrNotFound when the entry is gone.
	UpdateSchedule(ctx context.Context, schedule domain.ExamSchedule, expectedVersion int64) error

	// ListSchedules returns entries matching the filter, newest first.
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]domain.ExamSchedule, error)

	// ListCommittedInRange returns APPROVED and CONFIRMED entries whose
	// intervals overlap [start, end), regardless of exam period. This is the
	// conflict detector's scan set: exam periods may overlap in wall-clock
	// time, so period membership cannot bound the scan.
	ListCommittedInRange(ctx context.Context, start, end time.Time) ([]domain.ExamSchedule, error)
}

// PeriodStore persists exam periods.
type PeriodStore interface {
	PutPeriod(ctx context.Context, period domain.ExamPeriod) error
	GetPeriod(ctx context.Context, id string) (domain.ExamPeriod, error)
	DeletePeriod(ctx context.Context, id string) error
	ListPeriods(ctx context.Context) ([]domain.ExamPeriod, error)
}

// CatalogStore mirrors the institution's rooms, assistants, groups, and
// subjects. Writes are used by catalog sync and seeding.
type CatalogStore interface {
	GetRoom(ctx context.Context, id string) (domain.Room, error)
	PutRoom(ctx context.Context, room domain.Room) error
	GetAssistant(ctx context.Context, id string) (domain.Assistant, error)
	PutAssistant(ctx context.Context, assistant domain.Assistant) error
	GetGroup(ctx context.Context, id string) (domain.Group, error)
	PutGroup(ctx context.Context, group domain.Group) error
	GetSubject(ctx context.Context, id string) (domain.Subject, error)
	PutSubject(ctx context.Context, subject domain.Subject) error
}

// OutboxEvent is an emitted event with its durable outbox sequence number.
type OutboxEvent struct {
	Seq   int64
	Event event.Event
}

// OutboxStore durably records emitted events so consumers can replay them.
type OutboxStore interface {
	// AppendEvent stores the event and assigns it the next sequence number.
	AppendEvent(ctx context.Context, evt event.Event) (int64, error)

	// ListEventsAfter returns up to limit events with Seq > afterSeq, in
	// ascending sequence order.
	ListEventsAfter(ctx context.Context, afterSeq int64, limit int) ([]OutboxEvent, error)
}
