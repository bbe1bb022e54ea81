package app

import (
	"context"
	"fmt"

	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
)

// outboxEmitter journals emitted events to the durable outbox so external
// consumers can drain them at-least-once.
type outboxEmitter struct {
	outbox storage.OutboxStore
}

func (e *outboxEmitter) Emit(ctx context.Context, evt event.Event) error {
	if _, err := e.outbox.AppendEvent(ctx, evt); err != nil {
		return fmt.Errorf("journal event: %w", err)
	}
	return nil
}

var _ event.Emitter = (*outboxEmitter)(nil)
