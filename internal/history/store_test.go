package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	changes := []domain.WallpaperChange{
		{Timestamp: base, City: "Pisa", Condition: "sunny", Environment: domain.EnvGnome,
			SourcePath: "/walls/day-normal.jpg", AppliedPath: "/cache/weatherdesk-day-normal.jpg"},
		{Timestamp: base.Add(10 * time.Minute), City: "Pisa", Condition: "light rain", Environment: domain.EnvGnome,
			SourcePath: "/walls/day-rain.jpg", Err: errors.New("gsettings: exit status 1")},
		{Timestamp: base.Add(20 * time.Minute), City: "Pisa", Condition: "light rain", Environment: domain.EnvGnome,
			SourcePath: "/walls/day-rain.jpg", AppliedPath: "/cache/weatherdesk-day-rain.jpg"},
	}
	for _, c := range changes {
		if err := s.Record(c); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(recent))
	}

	if !recent[0].Timestamp.Equal(base.Add(20*time.Minute)) || !recent[0].Success {
		t.Errorf("newest row wrong: %+v", recent[0])
	}
	if recent[1].Success || recent[1].Error != "gsettings: exit status 1" {
		t.Errorf("failed change not recorded as failure: %+v", recent[1])
	}
	if recent[1].Environment != "gnome" {
		t.Errorf("environment = %q", recent[1].Environment)
	}
}

func TestStore_Prune(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour} {
		if err := s.Record(domain.WallpaperChange{Timestamp: now.Add(-age), Environment: domain.EnvKDE}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d rows, want 2", n)
	}

	recent, _ := s.Recent(10)
	if len(recent) != 1 {
		t.Errorf("expected 1 remaining row, got %d", len(recent))
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(domain.WallpaperChange{Timestamp: time.Now(), Environment: domain.EnvXfce4}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	recent, err := s.Recent(10)
	if err != nil || len(recent) != 1 {
		t.Fatalf("expected persisted row, got %d (%v)", len(recent), err)
	}
}
