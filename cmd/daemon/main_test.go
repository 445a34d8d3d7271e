package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/history"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	// fx.ValidateApp checks that there are no missing or cyclic dependencies
	err := fx.ValidateApp(AppOptions(config.Default()))
	if err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestToolOptions checks that the one-shot commands resolve without the
// daemon-only components
func TestToolOptions(t *testing.T) {
	var (
		detector   domain.Detector
		dispatcher domain.Dispatcher
	)
	if err := fx.ValidateApp(toolOptions(config.Default()), fx.Populate(&detector, &dispatcher)); err != nil {
		t.Fatalf("tool graph is not valid: %v", err)
	}

	cfg := config.Default()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "state", "history.db")
	app := fx.New(toolOptions(cfg), fx.NopLogger, fx.Populate(&detector))
	if err := app.Err(); err != nil {
		t.Fatalf("fx.New() failed: %v", err)
	}
	if detector == nil {
		t.Fatal("detector not populated")
	}
	if _, err := os.Stat(cfg.HistoryPath); !os.IsNotExist(err) {
		t.Errorf("history database must not be opened by one-shot commands: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.Default())
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	// We can verify it's a real logger by writing something (should not panic)
	logger.Info("Test logger initialization")

	cfg := config.Default()
	cfg.LogLevel = "chatty"
	if _, err := newLogger(cfg); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestNormalizeTimeFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no flag", []string{"wd", "-d", "x"}, []string{"wd", "-d", "x"}},
		{"bare at end", []string{"wd", "--time"}, []string{"wd", "--time", "3"}},
		{"bare before flag", []string{"wd", "-t", "-c", "Rome"}, []string{"wd", "-t", "3", "-c", "Rome"}},
		{"with value", []string{"wd", "-t", "4"}, []string{"wd", "-t", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeTimeFlag(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeTimeFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

// TestLoadConfig runs the root command with a stub action to check flag layering
func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WEATHERDESK_CITY", "Lucca")

	var cfg *config.AppConfig
	root := newRootCommand()
	root.Action = func(ctx context.Context, cmd *cli.Command) error {
		var err error
		cfg, err = loadConfig(cmd)
		return err
	}

	args := normalizeTimeFlag([]string{"weatherdesk", "-d", "/tmp/walls", "-f", "png", "-w", "900", "-t", "--fit"})
	if err := root.Run(context.Background(), args); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if cfg.WallpaperDir != "/tmp/walls" || cfg.UsingDefaultDir {
		t.Errorf("dir = %s (default %v)", cfg.WallpaperDir, cfg.UsingDefaultDir)
	}
	if cfg.Format != ".png" {
		t.Errorf("format = %s", cfg.Format)
	}
	if cfg.Interval != 900*time.Second {
		t.Errorf("interval = %v", cfg.Interval)
	}
	if cfg.TimeDetail != 3 {
		t.Errorf("time = %d", cfg.TimeDetail)
	}
	if cfg.Mode != config.ModeFill {
		t.Errorf("mode = %s", cfg.Mode)
	}
	if cfg.City != "Lucca" {
		t.Errorf("city from environment lost: %q", cfg.City)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := newRootCommand()
	root.Action = func(ctx context.Context, cmd *cli.Command) error {
		_, err := loadConfig(cmd)
		return err
	}

	err := root.Run(context.Background(), []string{"weatherdesk", "-w", "1"})
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
}

func TestPrepareDirs(t *testing.T) {
	t.Run("creates default directory and stops", func(t *testing.T) {
		cfg := config.Default()
		cfg.WallpaperDir = filepath.Join(t.TempDir(), ".weatherdesk_walls")
		cfg.OutputDir = filepath.Join(t.TempDir(), "cache")

		err := prepareDirs(cfg)
		if !errors.Is(err, ErrWallpaperDirCreated) {
			t.Fatalf("expected ErrWallpaperDirCreated, got %v", err)
		}
		if info, err := os.Stat(cfg.WallpaperDir); err != nil || !info.IsDir() {
			t.Error("default directory was not created")
		}
	})

	t.Run("user directory must exist", func(t *testing.T) {
		cfg := config.Default()
		cfg.SetWallpaperDir(filepath.Join(t.TempDir(), "missing"))

		err := prepareDirs(cfg)
		if err == nil || errors.Is(err, ErrWallpaperDirCreated) {
			t.Fatalf("expected invalid directory error, got %v", err)
		}
		if _, serr := os.Stat(cfg.WallpaperDir); !os.IsNotExist(serr) {
			t.Error("a user-chosen directory must not be created")
		}
	})

	t.Run("existing directory creates output dir", func(t *testing.T) {
		cfg := config.Default()
		cfg.SetWallpaperDir(t.TempDir())
		cfg.OutputDir = filepath.Join(t.TempDir(), "cache", "weatherdesk")

		if err := prepareDirs(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(cfg.OutputDir); err != nil {
			t.Errorf("output dir not created: %v", err)
		}
	})
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	changes := []history.Change{
		{Timestamp: time.Now(), City: "Pisa", Condition: "sunny", Environment: "gnome", SourcePath: "/w/normal.jpg", Success: true},
		{Timestamp: time.Now(), City: "Pisa", Condition: "light rain", Environment: "gnome", SourcePath: "/w/rain.jpg", Error: "exit status 1"},
	}

	if err := printHistory(&buf, changes); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"CONDITION", "sunny", "ok", "exit status 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, c := range []domain.WallpaperChange{
		{Timestamp: now.Add(-40 * 24 * time.Hour), City: "Pisa", Condition: "snow", Environment: domain.EnvXfce4},
		{Timestamp: now.Add(-time.Hour), City: "Pisa", Condition: "sunny", Environment: domain.EnvXfce4},
	} {
		if err := store.Record(c); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("lists without pruning", func(t *testing.T) {
		var buf bytes.Buffer
		if err := showHistory(&buf, store, 10, 0, now); err != nil {
			t.Fatalf("showHistory() failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "snow") || !strings.Contains(out, "sunny") {
			t.Errorf("expected both entries:\n%s", out)
		}
	})

	t.Run("prunes old entries", func(t *testing.T) {
		var buf bytes.Buffer
		if err := showHistory(&buf, store, 10, 30*24*time.Hour, now); err != nil {
			t.Fatalf("showHistory() failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "pruned 1 entries") {
			t.Errorf("prune count missing:\n%s", out)
		}
		if strings.Contains(out, "snow") {
			t.Errorf("old entry still listed:\n%s", out)
		}
		if !strings.Contains(out, "sunny") {
			t.Errorf("recent entry lost:\n%s", out)
		}
	})
}

func TestParseDesktopFlag(t *testing.T) {
	tests := []struct {
		name    string
		want    domain.DesktopEnvironment
		wantErr bool
	}{
		{name: "xfce4", want: domain.EnvXfce4},
		{name: "windows", want: domain.EnvWindows},
		{name: "razor-qt", want: domain.EnvRazorQt},
		{name: "unknown", wantErr: true},
		{name: "Xfce", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDesktopFlag(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDesktopFlag(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseDesktopFlag(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}
