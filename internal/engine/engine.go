package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/naming"
	"go.uber.org/zap"
)

// MissingFilesError is returned by Start when the wallpaper directory lacks
// files the naming convention requires
type MissingFilesError struct {
	Dir   string
	Files []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("not all required files were found in %s:\n  %s", e.Dir, strings.Join(e.Files, "\n  "))
}

// Engine orchestrates the wallpaper pipeline.
// Every interval it looks up the weather, picks the matching file, stages it and applies it.
type Engine struct {
	logger     *zap.Logger
	cfg        domain.Config
	detector   domain.Detector
	weather    domain.WeatherProvider
	processor  domain.Processor
	dispatcher domain.Dispatcher
	history    domain.HistoryRecorder
	now        func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	env     domain.DesktopEnvironment
	city    string
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	detector domain.Detector,
	weather domain.WeatherProvider,
	proc domain.Processor,
	dispatcher domain.Dispatcher,
	history domain.HistoryRecorder,
) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		detector:   detector,
		weather:    weather,
		processor:  proc,
		dispatcher: dispatcher,
		history:    history,
		now:        time.Now,
		env:        domain.EnvUnknown,
	}
}

// Start checks the wallpaper directory, resolves the city, detects the
// desktop environment and launches the polling loop in a goroutine.
// It returns once the loop is running (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}

	e.logger.Info("Engine starting...")

	dir := e.cfg.GetWallpaperDir()
	if missing := naming.Missing(dir, e.cfg.GetTimeDetail(), e.cfg.GetFormat()); len(missing) > 0 {
		return &MissingFilesError{Dir: dir, Files: missing}
	}

	city := e.cfg.GetCity()
	if city == "" {
		var err error
		if city, err = e.weather.City(ctx); err != nil {
			return fmt.Errorf("finding city from IP failed, set one with --city: %w", err)
		}
	}
	e.city = city

	detectCtx, cancelDetect := context.WithTimeout(ctx, e.cfg.GetDetectTimeout())
	e.env = e.detector.Detect(detectCtx)
	cancelDetect()

	if e.env == domain.EnvUnknown {
		e.logger.Warn("Desktop environment not recognized, wallpapers will not be applied")
	}
	e.logger.Info("Engine ready",
		zap.String("city", e.city),
		zap.String("env", e.env.String()),
		zap.Duration("interval", e.cfg.GetInterval()))

	// The fx start context expires after startup, so the loop gets its own
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running = true

	e.wg.Add(1)
	go e.runLoop(loopCtx)
	return nil
}

// runLoop runs a cycle immediately and then once per interval
func (e *Engine) runLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.GetInterval())
	defer ticker.Stop()

	for {
		if err := e.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			// Temporary network or desktop problems must not stop the daemon
			e.logger.Error("Wallpaper update failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single weather → file → stage → apply cycle
func (e *Engine) RunOnce(ctx context.Context) error {
	e.mu.Lock()
	env, city := e.env, e.city
	e.mu.Unlock()

	report, err := e.weather.Condition(ctx, city)
	if err != nil {
		return fmt.Errorf("weather lookup failed: %w", err)
	}

	name := naming.FileName(report.Condition, e.cfg.GetTimeDetail(), e.now(), e.cfg.GetFormat())
	source := filepath.Join(e.cfg.GetWallpaperDir(), name)

	e.logger.Info("Weather checked",
		zap.String("city", report.City),
		zap.String("condition", report.Condition),
		zap.String("file", name))

	change := domain.WallpaperChange{
		Timestamp:   e.now(),
		City:        report.City,
		Condition:   report.Condition,
		Environment: env,
		SourcePath:  source,
	}

	change.AppliedPath, change.Err = e.apply(ctx, env, source)
	if herr := e.history.Record(change); herr != nil {
		e.logger.Warn("Failed to record wallpaper change", zap.Error(herr))
	}

	if change.Err != nil {
		return change.Err
	}

	e.logger.Info("Wallpaper updated successfully",
		zap.String("path", change.AppliedPath),
		zap.String("env", env.String()))
	return nil
}

func (e *Engine) apply(ctx context.Context, env domain.DesktopEnvironment, source string) (string, error) {
	if _, err := os.Stat(source); err != nil {
		return "", fmt.Errorf("wallpaper file unavailable: %w", err)
	}

	staged, err := e.processor.Generate(source, e.cfg.GetMode())
	if err != nil {
		return "", fmt.Errorf("failed to stage wallpaper: %w", err)
	}

	if err := e.dispatcher.Apply(ctx, env, staged); err != nil {
		return staged, fmt.Errorf("failed to set wallpaper: %w", err)
	}
	return staged, nil
}

// Environment returns the desktop environment detected at start
func (e *Engine) Environment() domain.DesktopEnvironment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.env
}

// Stop cancels the polling loop and waits for the current cycle to finish
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	e.cancel()
	e.mu.Unlock()

	e.logger.Info("Engine stopping...")

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("engine did not stop in time: %w", ctx.Err())
	}
}
