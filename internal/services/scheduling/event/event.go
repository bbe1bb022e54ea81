// Package event defines the workflow events emitted after committed
// schedule transitions, plus the emitter plumbing that fans them out to
// downstream consumers.
package event

import (
	"context"
	"time"
)

// Type names a workflow transition that downstream consumers can react to.
type Type string

const (
	TypeScheduleProposed     Type = "schedule.proposed"
	TypeScheduleAcknowledged Type = "schedule.acknowledged"
	TypeScheduleRejected     Type = "schedule.rejected"
	TypeScheduleConfirmed    Type = "schedule.confirmed"
	TypePeriodCreated        Type = "period.created"
	TypePeriodUpdated        Type = "period.updated"
	TypePeriodDeleted        Type = "period.deleted"
)

// Event is a single emitted workflow transition. PayloadJSON carries the
// type-specific payload serialized as JSON so the transport stays uniform.
type Event struct {
	ID          string
	Type        Type
	ScheduleID  string
	PeriodID    string
	ActorID     string
	Timestamp   time.Time
	PayloadJSON []byte
}

// Emitter delivers events to a downstream consumer. Emission happens after
// the state transition is durably stored, so implementations must tolerate
// at-least-once delivery.
type Emitter interface {
	Emit(ctx context.Context, evt Event) error
}
