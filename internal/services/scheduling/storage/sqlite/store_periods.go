package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

// PutPeriod upserts an exam period.
func (s *Store) PutPeriod(ctx context.Context, period domain.ExamPeriod) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(period.ID) == "" {
		return fmt.Errorf("period id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO exam_periods (id, name, start_date, end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   start_date = excluded.start_date,
		   end_date = excluded.end_date,
		   updated_at = excluded.updated_at`,
		period.ID,
		period.Name,
		toMillis(period.StartDate),
		toMillis(period.EndDate),
		toMillis(period.CreatedAt),
		toMillis(period.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put period: %w", err)
	}
	return nil
}

// GetPeriod returns the exam period by id.
func (s *Store) GetPeriod(ctx context.Context, id string) (domain.ExamPeriod, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExamPeriod{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.ExamPeriod{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ExamPeriod{}, fmt.Errorf("period id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, start_date, end_date, created_at, updated_at
		 FROM exam_periods WHERE id = ?`,
		id,
	)
	period, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ExamPeriod{}, storage.ErrNotFound
		}
		return domain.ExamPeriod{}, fmt.Errorf("get period: %w", err)
	}
	return period, nil
}

// DeletePeriod removes the exam period by id.
func (s *Store) DeletePeriod(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("period id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM exam_periods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete period: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete period rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListPeriods returns all exam periods ordered by start date.
func (s *Store) ListPeriods(ctx context.Context) ([]domain.ExamPeriod, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, start_date, end_date, created_at, updated_at
		 FROM exam_periods ORDER BY start_date ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.ExamPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate periods: %w", err)
	}
	return periods, nil
}

func scanPeriod(row rowScanner) (domain.ExamPeriod, error) {
	var (
		period    domain.ExamPeriod
		startDate int64
		endDate   int64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&period.ID, &period.Name, &startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		return domain.ExamPeriod{}, err
	}
	period.StartDate = fromMillis(startDate)
	period.EndDate = fromMillis(endDate)
	period.CreatedAt = fromMillis(createdAt)
	period.UpdatedAt = fromMillis(updatedAt)
	return period, nil
}
