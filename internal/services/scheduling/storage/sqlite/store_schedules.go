package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

const scheduleColumns = `id, subject_id, group_id, period_id, proposer_id, reviewer_id, status,
	proposed_date, start_time, end_time, primary_room_id, additional_room_ids, assistant_ids,
	rejection_reason, version, created_at, updated_at`

// CreateSchedule inserts a new entry. A non-rejected entry for the same
// subject, group, and period trips the partial unique index and maps to
// ErrDuplicateProposal.
func (s *Store) CreateSchedule(ctx context.Context, schedule domain.ExamSchedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(schedule.ID) == "" {
		return fmt.Errorf("schedule id is required")
	}

	additionalRooms, err := marshalIDs(schedule.AdditionalRoomIDs)
	if err != nil {
		return err
	}
	assistants, err := marshalIDs(schedule.AssistantIDs)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO exam_schedules (`+scheduleColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID,
		schedule.SubjectID,
		schedule.GroupID,
		schedule.PeriodID,
		schedule.ProposerID,
		schedule.ReviewerID,
		string(schedule.Status),
		toMillis(schedule.ProposedDate),
		toNullMillis(schedule.StartTime),
		toNullMillis(schedule.EndTime),
		schedule.PrimaryRoomID,
		additionalRooms,
		assistants,
		schedule.RejectionReason,
		schedule.Version,
		toMillis(schedule.CreatedAt),
		toMillis(schedule.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrDuplicateProposal
		}
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// GetSchedule returns the entry by id.
func (s *Store) GetSchedule(ctx context.Context, id string) (domain.ExamSchedule, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExamSchedule{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.ExamSchedule{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ExamSchedule{}, fmt.Errorf("schedule id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+scheduleColumns+` FROM exam_schedules WHERE id = ?`,
		id,
	)
	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ExamSchedule{}, storage.ErrNotFound
		}
		return domain.ExamSchedule{}, fmt.Errorf("get schedule: %w", err)
	}
	return schedule, nil
}

// UpdateSchedule overwrites the entry only when the stored version matches
// expectedVersion.
func (s *Store) UpdateSchedule(ctx context.Context, schedule domain.ExamSchedule, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(schedule.ID) == "" {
		return fmt.Errorf("schedule id is required")
	}

	additionalRooms, err := marshalIDs(schedule.AdditionalRoomIDs)
	if err != nil {
		return err
	}
	assistants, err := marshalIDs(schedule.AssistantIDs)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE exam_schedules SET
		   subject_id = ?, group_id = ?, period_id = ?, proposer_id = ?, reviewer_id = ?,
		   status = ?, proposed_date = ?, start_time = ?, end_time = ?, primary_room_id = ?,
		   additional_room_ids = ?, assistant_ids = ?, rejection_reason = ?, version = ?,
		   updated_at = ?
		 WHERE id = ? AND version = ?`,
		schedule.SubjectID,
		schedule.GroupID,
		schedule.PeriodID,
		schedule.ProposerID,
		schedule.ReviewerID,
		string(schedule.Status),
		toMillis(schedule.ProposedDate),
		toNullMillis(schedule.StartTime),
		toNullMillis(schedule.EndTime),
		schedule.PrimaryRoomID,
		additionalRooms,
		assistants,
		schedule.RejectionReason,
		schedule.Version,
		toMillis(schedule.UpdatedAt),
		schedule.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from a lost conditional write.
		if _, getErr := s.GetSchedule(ctx, schedule.ID); getErr != nil {
			if errors.Is(getErr, storage.ErrNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("update schedule: %w", getErr)
		}
		return storage.ErrVersionMismatch
	}
	return nil
}

// ListSchedules returns entries matching the filter, newest first.
func (s *Store) ListSchedules(ctx context.Context, filter storage.ScheduleFilter) ([]domain.ExamSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT ` + scheduleColumns + ` FROM exam_schedules`
	var clauses []string
	var args []any
	if filter.GroupID != "" {
		clauses = append(clauses, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.SubjectID != "" {
		clauses = append(clauses, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.PeriodID != "" {
		clauses = append(clauses, "period_id = ?")
		args = append(args, filter.PeriodID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ReviewerID != "" {
		clauses = append(clauses, "reviewer_id = ?")
		args = append(args, filter.ReviewerID)
	}
	if filter.RoomID != "" {
		// Additional rooms are stored as a JSON string array.
		clauses = append(clauses, "(primary_room_id = ? OR additional_room_ids LIKE ?)")
		args = append(args, filter.RoomID, `%"`+filter.RoomID+`"%`)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	return collectSchedules(rows)
}

// ListCommittedInRange returns APPROVED and CONFIRMED entries whose intervals
// overlap [start, end), across all exam periods.
func (s *Store) ListCommittedInRange(ctx context.Context, start, end time.Time) ([]domain.ExamSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("start must be before end")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+scheduleColumns+` FROM exam_schedules
		 WHERE status IN (?, ?)
		   AND start_time IS NOT NULL AND end_time IS NOT NULL
		   AND start_time < ? AND end_time > ?
		 ORDER BY id ASC`,
		string(domain.StatusApproved),
		string(domain.StatusConfirmed),
		toMillis(end),
		toMillis(start),
	)
	if err != nil {
		return nil, fmt.Errorf("list committed schedules: %w", err)
	}
	defer rows.Close()

	return collectSchedules(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (domain.ExamSchedule, error) {
	var (
		schedule        domain.ExamSchedule
		status          string
		proposedDate    int64
		startTime       sql.NullInt64
		endTime         sql.NullInt64
		additionalRooms string
		assistants      string
		createdAt       int64
		updatedAt       int64
	)
	err := row.Scan(
		&schedule.ID,
		&schedule.SubjectID,
		&schedule.GroupID,
		&schedule.PeriodID,
		&schedule.ProposerID,
		&schedule.ReviewerID,
		&status,
		&proposedDate,
		&startTime,
		&endTime,
		&schedule.PrimaryRoomID,
		&additionalRooms,
		&assistants,
		&schedule.RejectionReason,
		&schedule.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.ExamSchedule{}, err
	}
	schedule.Status = domain.Status(status)
	schedule.ProposedDate = fromMillis(proposedDate)
	schedule.StartTime = fromNullMillis(startTime)
	schedule.EndTime = fromNullMillis(endTime)
	if schedule.AdditionalRoomIDs, err = unmarshalIDs(additionalRooms); err != nil {
		return domain.ExamSchedule{}, err
	}
	if schedule.AssistantIDs, err = unmarshalIDs(assistants); err != nil {
		return domain.ExamSchedule{}, err
	}
	schedule.CreatedAt = fromMillis(createdAt)
	schedule.UpdatedAt = fromMillis(updatedAt)
	return schedule, nil
}

func collectSchedules(rows *sql.Rows) ([]domain.ExamSchedule, error) {
	var schedules []domain.ExamSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}
