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

// GetRoom returns the room by id.
func (s *Store) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return domain.Room{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Room{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Room{}, fmt.Errorf("room id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, capacity FROM rooms WHERE id = ?`, id)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, storage.ErrNotFound
		}
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// PutRoom upserts a room.
func (s *Store) PutRoom(ctx context.Context, room domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(room.ID) == "" {
		return fmt.Errorf("room id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rooms (id, name, capacity) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, capacity = excluded.capacity`,
		room.ID, room.Name, room.Capacity,
	)
	if err != nil {
		return fmt.Errorf("put room: %w", err)
	}
	return nil
}

// GetAssistant returns the assistant by id.
func (s *Store) GetAssistant(ctx context.Context, id string) (domain.Assistant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Assistant{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Assistant{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Assistant{}, fmt.Errorf("assistant id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, subject_ids FROM assistants WHERE id = ?`, id)
	var (
		assistant  domain.Assistant
		subjectIDs string
	)
	if err := row.Scan(&assistant.ID, &assistant.Name, &subjectIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Assistant{}, storage.ErrNotFound
		}
		return domain.Assistant{}, fmt.Errorf("get assistant: %w", err)
	}
	var err error
	if assistant.SubjectIDs, err = unmarshalIDs(subjectIDs); err != nil {
		return domain.Assistant{}, err
	}
	return assistant, nil
}

// PutAssistant upserts an assistant.
func (s *Store) PutAssistant(ctx context.Context, assistant domain.Assistant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(assistant.ID) == "" {
		return fmt.Errorf("assistant id is required")
	}

	subjectIDs, err := marshalIDs(assistant.SubjectIDs)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO assistants (id, name, subject_ids) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, subject_ids = excluded.subject_ids`,
		assistant.ID, assistant.Name, subjectIDs,
	)
	if err != nil {
		return fmt.Errorf("put assistant: %w", err)
	}
	return nil
}

// GetGroup returns the student group by id.
func (s *Store) GetGroup(ctx context.Context, id string) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Group{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Group{}, fmt.Errorf("group id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, size, subject_ids FROM student_groups WHERE id = ?`, id)
	var (
		group      domain.Group
		subjectIDs string
	)
	if err := row.Scan(&group.ID, &group.Name, &group.Size, &subjectIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Group{}, storage.ErrNotFound
		}
		return domain.Group{}, fmt.Errorf("get group: %w", err)
	}
	var err error
	if group.SubjectIDs, err = unmarshalIDs(subjectIDs); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

// PutGroup upserts a student group.
func (s *Store) PutGroup(ctx context.Context, group domain.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(group.ID) == "" {
		return fmt.Errorf("group id is required")
	}

	subjectIDs, err := marshalIDs(group.SubjectIDs)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO student_groups (id, name, size, subject_ids) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, size = excluded.size, subject_ids = excluded.subject_ids`,
		group.ID, group.Name, group.Size, subjectIDs,
	)
	if err != nil {
		return fmt.Errorf("put group: %w", err)
	}
	return nil
}

// GetSubject returns the subject by id.
func (s *Store) GetSubject(ctx context.Context, id string) (domain.Subject, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subject{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Subject{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Subject{}, fmt.Errorf("subject id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, reviewer_id FROM subjects WHERE id = ?`, id)
	var subject domain.Subject
	if err := row.Scan(&subject.ID, &subject.Name, &subject.ReviewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subject{}, storage.ErrNotFound
		}
		return domain.Subject{}, fmt.Errorf("get subject: %w", err)
	}
	return subject, nil
}

// PutSubject upserts a subject.
func (s *Store) PutSubject(ctx context.Context, subject domain.Subject) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(subject.ID) == "" {
		return fmt.Errorf("subject id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO subjects (id, name, reviewer_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, reviewer_id = excluded.reviewer_id`,
		subject.ID, subject.Name, subject.ReviewerID,
	)
	if err != nil {
		return fmt.Errorf("put subject: %w", err)
	}
	return nil
}
