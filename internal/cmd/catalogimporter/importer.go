// Package catalogimporter loads institution registry data into the scheduling
// catalog mirror: rooms, assistants, student groups, and subjects.
package catalogimporter

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	entrypoint "github.com/examdesk/examdesk/internal/platform/cmd"
	"github.com/examdesk/examdesk/internal/services/scheduling/domain"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage"
	"github.com/examdesk/examdesk/internal/services/scheduling/storage/sqlite"
)

// Config holds catalog importer configuration.
type Config struct {
	DBPath string `env:"EXAMDESK_SCHEDULING_DB_PATH" envDefault:"scheduling.db"`
	// InputPath is the JSON catalog file to import.
	InputPath string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the scheduling sqlite database")
	fs.StringVar(&cfg.InputPath, "input", "", "Path to the JSON catalog file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.InputPath) == "" {
		return Config{}, fmt.Errorf("input path is required")
	}
	return cfg, nil
}

// Payload is the JSON shape of an importable catalog file.
type Payload struct {
	Rooms      []roomRecord      `json:"rooms"`
	Assistants []assistantRecord `json:"assistants"`
	Groups     []groupRecord     `json:"groups"`
	Subjects   []subjectRecord   `json:"subjects"`
}

type roomRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type assistantRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SubjectIDs []string `json:"subject_ids"`
}

type groupRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Size       int      `json:"size"`
	SubjectIDs []string `json:"subject_ids"`
}

type subjectRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ReviewerID string `json:"reviewer_id"`
}

// Run imports the catalog file into the scheduling store.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open scheduling store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := Import(ctx, store, payload); err != nil {
		return err
	}
	fmt.Fprintf(out, "imported rooms=%d assistants=%d groups=%d subjects=%d\n",
		len(payload.Rooms), len(payload.Assistants), len(payload.Groups), len(payload.Subjects))
	return nil
}

// Import upserts every record in the payload. Records are validated before
// any write happens so a bad file leaves the mirror untouched.
func Import(ctx context.Context, store storage.CatalogStore, payload Payload) error {
	if err := validate(payload); err != nil {
		return err
	}

	for _, item := range payload.Subjects {
		subject := domain.Subject{ID: item.ID, Name: item.Name, ReviewerID: item.ReviewerID}
		if err := store.PutSubject(ctx, subject); err != nil {
			return fmt.Errorf("put subject %s: %w", item.ID, err)
		}
	}
	for _, item := range payload.Rooms {
		room := domain.Room{ID: item.ID, Name: item.Name, Capacity: item.Capacity}
		if err := store.PutRoom(ctx, room); err != nil {
			return fmt.Errorf("put room %s: %w", item.ID, err)
		}
	}
	for _, item := range payload.Assistants {
		assistant := domain.Assistant{ID: item.ID, Name: item.Name, SubjectIDs: append([]string{}, item.SubjectIDs...)}
		if err := store.PutAssistant(ctx, assistant); err != nil {
			return fmt.Errorf("put assistant %s: %w", item.ID, err)
		}
	}
	for _, item := range payload.Groups {
		group := domain.Group{ID: item.ID, Name: item.Name, Size: item.Size, SubjectIDs: append([]string{}, item.SubjectIDs...)}
		if err := store.PutGroup(ctx, group); err != nil {
			return fmt.Errorf("put group %s: %w", item.ID, err)
		}
	}
	return nil
}

func validate(payload Payload) error {
	for _, item := range payload.Rooms {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("room id is required")
		}
		if item.Capacity <= 0 {
			return fmt.Errorf("room %s capacity must be greater than zero", item.ID)
		}
	}
	for _, item := range payload.Assistants {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("assistant id is required")
		}
	}
	for _, item := range payload.Groups {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("group id is required")
		}
		if item.Size <= 0 {
			return fmt.Errorf("group %s size must be greater than zero", item.ID)
		}
	}
	for _, item := range payload.Subjects {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("subject id is required")
		}
	}
	return nil
}
