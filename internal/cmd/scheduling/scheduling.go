// Package scheduling parses scheduling service flags and launches the service.
package scheduling

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/examdesk/examdesk/internal/platform/cmd"
	"github.com/examdesk/examdesk/internal/services/scheduling/app"
)

// Config holds scheduling command configuration.
type Config struct {
	DBPath          string        `env:"EXAMDESK_SCHEDULING_DB_PATH" envDefault:"scheduling.db"`
	LockWaitTimeout time.Duration `env:"EXAMDESK_SCHEDULING_LOCK_WAIT" envDefault:"5s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the scheduling sqlite database")
	fs.DurationVar(&cfg.LockWaitTimeout, "lock-wait", cfg.LockWaitTimeout, "How long an approval waits for resource locks")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the scheduling service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScheduling, func(ctx context.Context) error {
		application, err := app.New(app.Config{
			DBPath:          cfg.DBPath,
			LockWaitTimeout: cfg.LockWaitTimeout,
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = application.Close()
		}()
		return application.Run(ctx)
	})
}
