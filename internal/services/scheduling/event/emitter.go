package event

import (
	"context"
	"errors"
	"log"
)

// LogEmitter writes each event to the process log. It is the default sink
// when no external consumer is configured.
type LogEmitter struct{}

// Emit logs the event and never fails.
func (LogEmitter) Emit(_ context.Context, evt Event) error {
	log.Printf("event emitted type=%s schedule_id=%s period_id=%s actor_id=%s", evt.Type, evt.ScheduleID, evt.PeriodID, evt.ActorID)
	return nil
}

// MultiEmitter fans one event out to every configured emitter. Every emitter
// is attempted even when an earlier one fails.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter builds a fan-out emitter over the given sinks.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Emit delivers the event to each sink and joins any failures.
func (m *MultiEmitter) Emit(ctx context.Context, evt Event) error {
	var errs []error
	for _, emitter := range m.emitters {
		if err := emitter.Emit(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
