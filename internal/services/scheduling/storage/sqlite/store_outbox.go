package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

// AppendEvent stores the event and returns its assigned sequence number.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.ID) == "" {
		return 0, fmt.Errorf("event id is required")
	}
	if evt.Type == "" {
		return 0, fmt.Errorf("event type is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO schedule_outbox (event_id, event_type, schedule_id, period_id, actor_id, emitted_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.ID,
		string(evt.Type),
		evt.ScheduleID,
		evt.PeriodID,
		evt.ActorID,
		toMillis(evt.Timestamp),
		string(evt.PayloadJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append event sequence: %w", err)
	}
	return seq, nil
}

// ListEventsAfter returns up to limit events past afterSeq in ascending order.
func (s *Store) ListEventsAfter(ctx context.Context, afterSeq int64, limit int) ([]storage.OutboxEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, event_id, event_type, schedule_id, period_id, actor_id, emitted_at, payload
		 FROM schedule_outbox
		 WHERE seq > ?
		 ORDER BY seq ASC
		 LIMIT ?`,
		afterSeq,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []storage.OutboxEvent
	for rows.Next() {
		var (
			record    storage.OutboxEvent
			eventType string
			emittedAt int64
			payload   string
		)
		if err := rows.Scan(
			&record.Seq,
			&record.Event.ID,
			&eventType,
			&record.Event.ScheduleID,
			&record.Event.PeriodID,
			&record.Event.ActorID,
			&emittedAt,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Event.Type = event.Type(eventType)
		record.Event.Timestamp = fromMillis(emittedAt)
		if payload != "" {
			record.Event.PayloadJSON = []byte(payload)
		}
		events = append(events, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
