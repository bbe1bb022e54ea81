package scheduling

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scheduling", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "scheduling.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.LockWaitTimeout != 5*time.Second {
		t.Fatalf("expected default lock wait, got %s", cfg.LockWaitTimeout)
	}
}

func TestParseConfigFlagsOverrideDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scheduling", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/exams.db", "-lock-wait", "250ms"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/exams.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.LockWaitTimeout != 250*time.Millisecond {
		t.Fatalf("expected flag lock wait, got %s", cfg.LockWaitTimeout)
	}
}
