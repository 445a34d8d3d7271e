package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/weatherdesk/internal/naming"
	"github.com/kirsle/configdir"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	AppName = "weatherdesk"

	defaultFormat         = ".jpg"
	defaultInterval       = 600 * time.Second
	defaultMode           = ModeCopy
	defaultCommandTimeout = 30 * time.Second
	defaultDetectTimeout  = 5 * time.Second
	defaultLogLevel       = "info"
	defaultWeatherURL     = "https://wttr.in"
	defaultGeoURL         = "https://ipinfo.io/json"

	minInterval = 10 * time.Second

	configFileName  = "config.toml"
	historyFileName = "history.db"
)

// Staging modes
const (
	ModeCopy = "copy"
	ModeFill = "fill"
)

// AppConfig holds application configuration
type AppConfig struct {
	WallpaperDir   string
	Format         string
	Interval       time.Duration
	TimeDetail     int
	City           string
	Mode           string
	OutputDir      string
	HistoryPath    string
	CommandTimeout time.Duration
	DetectTimeout  time.Duration
	LogLevel       string
	WeatherURL     string
	GeoURL         string

	// UsingDefaultDir is set when WallpaperDir was not chosen by the user
	UsingDefaultDir bool
}

// Default returns a configuration populated with built-in defaults
func Default() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		WallpaperDir:    filepath.Join(home, ".weatherdesk_walls"),
		Format:          defaultFormat,
		Interval:        defaultInterval,
		Mode:            defaultMode,
		OutputDir:       configdir.LocalCache(AppName),
		HistoryPath:     filepath.Join(ConfigDir(AppName), historyFileName),
		CommandTimeout:  defaultCommandTimeout,
		DetectTimeout:   defaultDetectTimeout,
		LogLevel:        defaultLogLevel,
		WeatherURL:      defaultWeatherURL,
		GeoURL:          defaultGeoURL,
		UsingDefaultDir: true,
	}
}

// ConfigDir returns the per-application configuration directory:
// $XDG_CONFIG_HOME, else %APPDATA%, else ~/.config, joined with appName
func ConfigDir(appName string) string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if dir := os.Getenv("APPDATA"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Load builds the configuration from defaults, the TOML file at path (may be
// absent) and WEATHERDESK_* environment variables. Flags are applied by the caller.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(ConfigDir(AppName), configFileName)
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return file.apply(c)
}

// fileConfig mirrors AppConfig with durations as strings ("10m", "30s")
type fileConfig struct {
	Dir            string `toml:"dir"`
	Format         string `toml:"format"`
	Interval       string `toml:"interval"`
	Time           int    `toml:"time"`
	City           string `toml:"city"`
	Mode           string `toml:"mode"`
	OutputDir      string `toml:"output_dir"`
	HistoryDB      string `toml:"history_db"`
	CommandTimeout string `toml:"command_timeout"`
	DetectTimeout  string `toml:"detect_timeout"`
	LogLevel       string `toml:"log_level"`
	WeatherURL     string `toml:"weather_url"`
	GeoURL         string `toml:"geo_url"`
}

func (f fileConfig) apply(c *AppConfig) error {
	if f.Dir != "" {
		c.SetWallpaperDir(f.Dir)
	}
	if f.Format != "" {
		c.SetFormat(f.Format)
	}
	if f.Time != 0 {
		c.TimeDetail = f.Time
	}
	setString(&c.City, f.City)
	setString(&c.Mode, f.Mode)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.WeatherURL, f.WeatherURL)
	setString(&c.GeoURL, f.GeoURL)
	if f.OutputDir != "" {
		c.OutputDir = expandPath(f.OutputDir)
	}
	if f.HistoryDB != "" {
		c.HistoryPath = expandPath(f.HistoryDB)
	}

	for _, d := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{f.Interval, &c.Interval, "interval"},
		{f.CommandTimeout, &c.CommandTimeout, "command_timeout"},
		{f.DetectTimeout, &c.DetectTimeout, "detect_timeout"},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, d.raw, err)
		}
		*d.dst = v
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(c *AppConfig) error {
	if dir := os.Getenv("WEATHERDESK_DIR"); dir != "" {
		c.SetWallpaperDir(dir)
	}
	if format := os.Getenv("WEATHERDESK_FORMAT"); format != "" {
		c.SetFormat(format)
	}
	if raw := os.Getenv("WEATHERDESK_INTERVAL"); raw != "" {
		interval, err := parseInterval(raw)
		if err != nil {
			return fmt.Errorf("invalid WEATHERDESK_INTERVAL: %w", err)
		}
		c.Interval = interval
	}
	if raw := os.Getenv("WEATHERDESK_TIME"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid WEATHERDESK_TIME %q: %w", raw, err)
		}
		c.TimeDetail = level
	}
	if city := os.Getenv("WEATHERDESK_CITY"); city != "" {
		c.City = city
	}
	if raw := os.Getenv("WEATHERDESK_FIT"); raw != "" {
		fit, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid WEATHERDESK_FIT %q: %w", raw, err)
		}
		if fit {
			c.Mode = ModeFill
		} else {
			c.Mode = ModeCopy
		}
	}
	if dir := os.Getenv("WEATHERDESK_OUTPUT_DIR"); dir != "" {
		c.OutputDir = expandPath(dir)
	}
	if db := os.Getenv("WEATHERDESK_HISTORY_DB"); db != "" {
		c.HistoryPath = expandPath(db)
	}
	if level := os.Getenv("WEATHERDESK_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	return nil
}

// parseInterval accepts a Go duration or a plain number of seconds
func parseInterval(raw string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.WallpaperDir == "" {
		return fmt.Errorf("wallpaper directory cannot be empty")
	}
	if c.Interval < minInterval {
		return fmt.Errorf("interval (%v) cannot be less than %v", c.Interval, minInterval)
	}
	if !naming.ValidLevel(c.TimeDetail) {
		return fmt.Errorf("time detail must be 2, 3 or 4, got %d", c.TimeDetail)
	}
	switch c.Mode {
	case ModeCopy, ModeFill:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// SetWallpaperDir records a user-chosen wallpaper directory
func (c *AppConfig) SetWallpaperDir(dir string) {
	c.WallpaperDir = expandPath(dir)
	c.UsingDefaultDir = false
}

// SetFormat stores the image extension with a leading dot
func (c *AppConfig) SetFormat(format string) {
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	c.Format = format
}

// GetWallpaperDir returns the directory holding the named wallpapers
func (c *AppConfig) GetWallpaperDir() string {
	return c.WallpaperDir
}

// GetFormat returns the image extension
func (c *AppConfig) GetFormat() string {
	return c.Format
}

// GetInterval returns the time between two weather checks
func (c *AppConfig) GetInterval() time.Duration {
	return c.Interval
}

// GetTimeDetail returns the time-of-day level, 0 when disabled
func (c *AppConfig) GetTimeDetail() int {
	return c.TimeDetail
}

// GetCity returns the configured city
func (c *AppConfig) GetCity() string {
	return c.City
}

// GetMode returns the staging mode
func (c *AppConfig) GetMode() string {
	return c.Mode
}

// GetOutputDir returns the directory for staged wallpapers
func (c *AppConfig) GetOutputDir() string {
	return c.OutputDir
}

// GetDetectTimeout bounds desktop environment detection
func (c *AppConfig) GetDetectTimeout() time.Duration {
	return c.DetectTimeout
}

// LogFields returns the configuration as zap fields
func (c *AppConfig) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("dir", c.WallpaperDir),
		zap.String("format", c.Format),
		zap.Duration("interval", c.Interval),
		zap.Int("time", c.TimeDetail),
		zap.String("city", c.City),
		zap.String("mode", c.Mode),
		zap.String("outputDir", c.OutputDir),
		zap.String("historyDB", c.HistoryPath),
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
