package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examdesk/examdesk/internal/platform/id"
)

var (
	// ErrPeriodNameRequired indicates a missing exam period name.
	ErrPeriodNameRequired = errors.New("exam period name is required")
	// ErrPeriodRangeInvalid indicates the period end date precedes the start date.
	ErrPeriodRangeInvalid = errors.New("exam period end date precedes start date")
	// ErrPeriodLocked indicates the period has a confirmed schedule and may not change.
	ErrPeriodLocked = errors.New("exam period is locked by a confirmed schedule")
)

// ExamPeriod bounds the dates within which exams for a session must fall.
// Dates are date-only values normalized to UTC midnight; both bounds are
// inclusive.
type ExamPeriod struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateExamPeriodInput describes the data needed to create an exam period.
type CreateExamPeriodInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateExamPeriod creates a new exam period with a generated ID and timestamps.
func CreateExamPeriod(input CreateExamPeriodInput, now func() time.Time, idGenerator func() (string, error)) (ExamPeriod, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateExamPeriodInput(input)
	if err != nil {
		return ExamPeriod{}, err
	}

	periodID, err := idGenerator()
	if err != nil {
		return ExamPeriod{}, fmt.Errorf("generate exam period id: %w", err)
	}

	createdAt := now().UTC()
	return ExamPeriod{
		ID:        periodID,
		Name:      normalized.Name,
		StartDate: normalized.StartDate,
		EndDate:   normalized.EndDate,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeCreateExamPeriodInput trims and validates exam period input.
func NormalizeCreateExamPeriodInput(input CreateExamPeriodInput) (CreateExamPeriodInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateExamPeriodInput{}, ErrPeriodNameRequired
	}
	input.StartDate = DateOnly(input.StartDate)
	input.EndDate = DateOnly(input.EndDate)
	if input.EndDate.Before(input.StartDate) {
		return CreateExamPeriodInput{}, ErrPeriodRangeInvalid
	}
	return input, nil
}

// Contains reports whether the date-only value falls within the period.
func (p ExamPeriod) Contains(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

// ContainsInterval reports whether the half-open interval [start, end) lies
// entirely within the period's days.
func (p ExamPeriod) ContainsInterval(start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}
	periodStart := p.StartDate
	periodEnd := p.EndDate.AddDate(0, 0, 1)
	return !start.Before(periodStart) && !end.After(periodEnd)
}

// DateOnly truncates a timestamp to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
