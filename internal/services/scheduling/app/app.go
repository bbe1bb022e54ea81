// Package app wires the scheduling service: configuration, sqlite store,
// event emitters, and the workflow coordinator.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/examdesk/examdesk/internal/services/scheduling/event"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage/sqlite"
	"github.com/examdesk/examdesk/internal/services/scheduling/workflow"
)

// Config carries the scheduling service configuration.
type Config struct {
	// DBPath locates the sqlite database file.
	DBPath string `env:"EXAMDESK_SCHEDULING_DB_PATH" envDefault:"scheduling.db"`
	// LockWaitTimeout bounds how long an approval waits for resource locks.
	LockWaitTimeout time.Duration `env:"EXAMDESK_SCHEDULING_LOCK_WAIT" envDefault:"5s"`
}

// App is the assembled scheduling service.
type App struct {
	cfg   Config
	store *sqlite.Store

	// Workflow is the exam scheduling coordinator.
	Workflow *workflow.Service
	// Outbox drains journaled events for external consumers.
	Outbox *sqlite.Store
}

// New opens the store and assembles the workflow service. Every emitted event
// is journaled to the sqlite outbox and mirrored to the process log.
func New(cfg Config) (*App, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open scheduling store: %w", err)
	}

	emitter := event.NewMultiEmitter(
		event.LogEmitter{},
		&outboxEmitter{outbox: store},
	)
	service, err := workflow.NewService(workflow.Config{
		Schedules:       store,
		Periods:         store,
		Catalog:         store,
		Emitter:         emitter,
		LockWaitTimeout: cfg.LockWaitTimeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build workflow service: %w", err)
	}

	return &App{cfg: cfg, store: store, Workflow: service, Outbox: store}, nil
}

// Run blocks until the context is canceled, then shuts down cleanly.
func (a *App) Run(ctx context.Context) error {
	log.Printf("scheduling service ready db=%s lock_wait=%s", a.cfg.DBPath, a.cfg.LockWaitTimeout)
	<-ctx.Done()
	log.Printf("scheduling service stopping")
	return nil
}

// Close releases the sqlite handle.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}
