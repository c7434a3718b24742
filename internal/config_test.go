package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/kanboard/internal/models"
	pkgconfig "github.com/starford/kanboard/pkg/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	seed := cfg.Board.SeedBoard()
	if len(seed[models.ColumnTodo]) != 2 || seed[models.ColumnInProgress][0].ID != "p1" {
		t.Errorf("default seed = %+v", seed)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("KANBOARD_TEST_PORT", "9091")
	path := writeConfig(t, "config.yaml", `
app:
  log_level: debug
  http:
    port: ${KANBOARD_TEST_PORT}
board:
  notice:
    success_ttl: 5s
  seed:
    todo:
      - id: a1
        title: Only card
        description: Lonely
index:
  path: ":memory:"
reload:
  enabled: true
`)

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Port != 9091 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Board.Notice.SuccessTTL != 5*time.Second {
		t.Errorf("success ttl = %v", cfg.Board.Notice.SuccessTTL)
	}
	if cfg.Board.Notice.ValidationTTL != 2*time.Second {
		t.Errorf("validation ttl should keep default, got %v", cfg.Board.Notice.ValidationTTL)
	}
	seed := cfg.Board.SeedBoard()
	if len(seed[models.ColumnTodo]) != 1 || seed[models.ColumnTodo][0].ID != "a1" {
		t.Errorf("seed todo = %+v", seed[models.ColumnTodo])
	}
	if len(seed[models.ColumnDone]) != 0 {
		t.Errorf("seed done = %+v, want empty", seed[models.ColumnDone])
	}
	if !cfg.Reload.Enabled {
		t.Error("reload should be enabled")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[app]
log_level = "warn"

[app.http]
port = 7070

[board.notice]
validation_ttl = "1s"

[[board.seed.done]]
id = "x1"
title = "Shipped"
`)

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelWarn {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Port != 7070 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Board.Notice.ValidationTTL != time.Second {
		t.Errorf("validation ttl = %v", cfg.Board.Notice.ValidationTTL)
	}
	if done := cfg.Board.SeedBoard()[models.ColumnDone]; len(done) != 1 || done[0].Title != "Shipped" {
		t.Errorf("seed done = %+v", done)
	}
}

func TestValidate_RejectsBadSeed(t *testing.T) {
	tests := []struct {
		name string
		seed models.Board
		want string
	}{
		{"unknown column", models.Board{"backlog": {{ID: "a", Title: "A"}}}, "unknown column"},
		{"missing id", models.Board{models.ColumnTodo: {{Title: "A"}}}, "id is required"},
		{"blank title", models.Board{models.ColumnTodo: {{ID: "a", Title: " "}}}, "title is required"},
		{"duplicate id", models.Board{
			models.ColumnTodo: {{ID: "a", Title: "A"}},
			models.ColumnDone: {{ID: "a", Title: "B"}},
		}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Board.Seed = tt.seed
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port out of range should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Board.Notice.SuccessTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero success ttl should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Index.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty index path should fail")
	}
}

func TestLoad_ValidationErrorWrapped(t *testing.T) {
	path := writeConfig(t, "config.yaml", "app:\n  http:\n    port: 0\n")
	err := pkgconfig.Load(path, NewDefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v", err)
	}
}
