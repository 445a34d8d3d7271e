package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/naming"
	"go.uber.org/zap"
)

type fakeConfig struct {
	dir      string
	format   string
	interval time.Duration
	level    int
	city     string
}

func (c *fakeConfig) GetWallpaperDir() string { return c.dir }
func (c *fakeConfig) GetFormat() string { return c.format }
func (c *fakeConfig) GetInterval() time.Duration { return c.interval }
func (c *fakeConfig) GetTimeDetail() int { return c.level }
func (c *fakeConfig) GetCity() string { return c.city }
func (c *fakeConfig) GetMode() string { return "copy" }
func (c *fakeConfig) GetOutputDir() string { return filepath.Join(c.dir, "out") }
func (c *fakeConfig) GetDetectTimeout() time.Duration { return time.Second }

type fakeDetector struct {
	env   domain.DesktopEnvironment
	calls int
}

func (d *fakeDetector) Detect(ctx context.Context) domain.DesktopEnvironment {
	d.calls++
	if _, ok := ctx.Deadline(); !ok {
		panic("detection must be bounded by a deadline")
	}
	return d.env
}

type fakeWeather struct {
	mu         sync.Mutex
	city       string
	cityErr    error
	conditions []string // consumed one per call, the last one repeats
	err        error
	calls      int
}

func (w *fakeWeather) City(context.Context) (string, error) {
	return w.city, w.cityErr
}

func (w *fakeWeather) Condition(_ context.Context, city string) (domain.WeatherReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return domain.WeatherReport{}, w.err
	}
	cond := w.conditions[0]
	if len(w.conditions) > 1 {
		w.conditions = w.conditions[1:]
	}
	return domain.WeatherReport{City: city, Condition: cond}, nil
}

func (w *fakeWeather) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

type fakeProcessor struct{}

func (fakeProcessor) Generate(src, mode string) (string, error) {
	return "/staged/weatherdesk-" + filepath.Base(src), nil
}

type fakeDispatcher struct {
	mu      sync.Mutex
	err     error
	applied []string
	envs    []domain.DesktopEnvironment
}

func (d *fakeDispatcher) Apply(_ context.Context, env domain.DesktopEnvironment, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applied = append(d.applied, path)
	d.envs = append(d.envs, env)
	return d.err
}

type fakeHistory struct {
	mu      sync.Mutex
	changes []domain.WallpaperChange
}

func (h *fakeHistory) Record(c domain.WallpaperChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, c)
	return nil
}

// populate creates every required file for level in dir
func populate(t *testing.T, dir string, level int) {
	t.Helper()
	for _, name := range naming.RequiredFiles(level, ".jpg") {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

type fixture struct {
	cfg        *fakeConfig
	detector   *fakeDetector
	weather    *fakeWeather
	dispatcher *fakeDispatcher
	history    *fakeHistory
	engine     *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	populate(t, dir, 0)

	f := &fixture{
		cfg:        &fakeConfig{dir: dir, format: ".jpg", interval: time.Hour, city: "Pisa"},
		detector:   &fakeDetector{env: domain.EnvXfce4},
		weather:    &fakeWeather{city: "Lucca", conditions: []string{"light rain"}},
		dispatcher: &fakeDispatcher{},
		history:    &fakeHistory{},
	}
	f.engine = NewEngine(zap.NewNop(), f.cfg, f.detector, f.weather, fakeProcessor{}, f.dispatcher, f.history)
	return f
}

func TestStart_MissingFiles(t *testing.T) {
	f := newFixture(t)
	f.cfg.level = 3 // the directory only holds the plain names

	err := f.engine.Start(context.Background())

	var missing *MissingFilesError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFilesError, got %v", err)
	}
	if len(missing.Files) != 18 {
		t.Errorf("expected 18 missing files, got %d", len(missing.Files))
	}
	if f.detector.calls != 0 {
		t.Error("detection must not run when files are missing")
	}
}

func TestStart_RunsFirstCycleImmediately(t *testing.T) {
	f := newFixture(t)

	if err := f.engine.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer f.engine.Stop(context.Background())

	deadline := time.After(2 * time.Second)
	for f.weather.Calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("first cycle did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := f.engine.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if f.detector.calls != 1 {
		t.Errorf("Detect called %d times, want 1", f.detector.calls)
	}
	if f.engine.Environment() != domain.EnvXfce4 {
		t.Errorf("environment = %s", f.engine.Environment())
	}
	if len(f.dispatcher.applied) != 1 || f.dispatcher.applied[0] != "/staged/weatherdesk-rain.jpg" {
		t.Errorf("applied = %v", f.dispatcher.applied)
	}
	if len(f.history.changes) != 1 || f.history.changes[0].City != "Pisa" {
		t.Errorf("history = %+v", f.history.changes)
	}
}

func TestStart_ResolvesCity(t *testing.T) {
	f := newFixture(t)
	f.cfg.city = ""

	if err := f.engine.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	f.engine.Stop(context.Background())

	if f.engine.city != "Lucca" {
		t.Errorf("city = %q, want Lucca", f.engine.city)
	}
}

func TestStart_CityLookupFails(t *testing.T) {
	f := newFixture(t)
	f.cfg.city = ""
	f.weather.cityErr = errors.New("offline")

	if err := f.engine.Start(context.Background()); err == nil {
		f.engine.Stop(context.Background())
		t.Fatal("expected error when the city cannot be resolved")
	}
}

func TestRunOnce(t *testing.T) {
	t.Run("weather failure skips the cycle", func(t *testing.T) {
		f := newFixture(t)
		f.weather.err = errors.New("network error")

		if err := f.engine.RunOnce(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if len(f.dispatcher.applied) != 0 || len(f.history.changes) != 0 {
			t.Error("nothing should be applied or recorded without weather")
		}

		// The next cycle recovers
		f.weather.err = nil
		if err := f.engine.RunOnce(context.Background()); err != nil {
			t.Fatalf("second cycle failed: %v", err)
		}
		if len(f.dispatcher.applied) != 1 {
			t.Errorf("applied = %v", f.dispatcher.applied)
		}
	})

	t.Run("dispatch failure is recorded", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.err = errors.New("unsupported desktop environment")

		err := f.engine.RunOnce(context.Background())
		if err == nil || !errors.Is(err, f.dispatcher.err) {
			t.Fatalf("expected dispatch error, got %v", err)
		}
		if len(f.history.changes) != 1 || f.history.changes[0].Err == nil {
			t.Errorf("failure not recorded: %+v", f.history.changes)
		}
	})

	t.Run("missing file is not applied", func(t *testing.T) {
		f := newFixture(t)
		if err := os.Remove(filepath.Join(f.cfg.dir, "snow.jpg")); err != nil {
			t.Fatal(err)
		}
		f.weather.conditions = []string{"heavy snow"}

		if err := f.engine.RunOnce(context.Background()); err == nil {
			t.Fatal("expected error for missing file")
		}
		if len(f.dispatcher.applied) != 0 {
			t.Error("dispatcher must not run for a missing file")
		}
	})

	t.Run("time prefix", func(t *testing.T) {
		f := newFixture(t)
		populate(t, f.cfg.dir, 3)
		f.cfg.level = 3
		f.engine.now = func() time.Time { return time.Date(2024, 1, 1, 18, 0, 0, 0, time.Local) }
		f.weather.conditions = []string{"partly cloudy"}

		if err := f.engine.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce() failed: %v", err)
		}
		want := filepath.Join(f.cfg.dir, "evening-cloudy.jpg")
		if f.history.changes[0].SourcePath != want {
			t.Errorf("source = %s, want %s", f.history.changes[0].SourcePath, want)
		}
	})
}

func TestLoop_RepeatsAndStops(t *testing.T) {
	f := newFixture(t)
	f.cfg.interval = 10 * time.Millisecond
	f.weather.conditions = []string{"sunny", "light rain", "snow"}

	if err := f.engine.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for f.weather.Calls() < 3 {
		select {
		case <-deadline:
			t.Fatal("loop did not repeat")
		case <-time.After(5 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := f.engine.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	calls := f.weather.Calls()
	time.Sleep(50 * time.Millisecond)
	if f.weather.Calls() != calls {
		t.Error("loop kept running after Stop")
	}

	// Stopping twice is harmless
	if err := f.engine.Stop(context.Background()); err != nil {
		t.Errorf("second Stop() failed: %v", err)
	}
}
