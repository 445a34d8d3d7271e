package domain

import (
	"context"
	"time"
)

// Detector classifies the desktop environment of the current host
type Detector interface {
	// Detect never fails; it returns EnvUnknown when no rule matches
	Detect(ctx context.Context) DesktopEnvironment
}

// Dispatcher applies a wallpaper through the mechanism the environment requires
type Dispatcher interface {
	// Apply sets imagePath as the desktop background.
	// A nil error is the success outcome; failures are *executor.DispatchError.
	Apply(ctx context.Context, env DesktopEnvironment, imagePath string) error
}

// WeatherProvider resolves the current weather condition for a city
type WeatherProvider interface {
	// City guesses the user's city when none is configured
	City(ctx context.Context) (string, error)

	// Condition returns the current lowercase condition phrase for city
	Condition(ctx context.Context, city string) (WeatherReport, error)
}

// Processor prepares a wallpaper source image for the dispatcher
type Processor interface {
	// Generate stages the image at srcPath and returns the absolute path
	// of the file that should be applied
	Generate(srcPath string, mode string) (string, error)
}

// HistoryRecorder persists completed wallpaper changes
type HistoryRecorder interface {
	Record(change WallpaperChange) error
}

// Config defines the interface for application configuration
type Config interface {
	// GetWallpaperDir returns the directory holding the named wallpapers
	GetWallpaperDir() string

	// GetFormat returns the image extension, always starting with "."
	GetFormat() string

	// GetInterval returns the time between two weather checks
	GetInterval() time.Duration

	// GetTimeDetail returns 0 when time-of-day variants are disabled, else 2, 3 or 4
	GetTimeDetail() int

	// GetCity returns the configured city, or "" to look it up
	GetCity() string

	// GetMode returns the staging mode ("copy" or "fill")
	GetMode() string

	// GetOutputDir returns the directory for staged wallpapers
	GetOutputDir() string

	// GetDetectTimeout bounds desktop environment detection
	GetDetectTimeout() time.Duration
}
