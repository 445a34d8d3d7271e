package executor

import (
	"context"
	"os"

	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/zap"
)

// handler applies a wallpaper for one environment
type handler func(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error

// handlers is the dispatch table. Each entry is independent of the others.
var handlers = map[domain.DesktopEnvironment]handler{
	domain.EnvGnome:    applyGnome,
	domain.EnvUnity:    applyGnome,
	domain.EnvCinnamon: applyGnome,
	domain.EnvPantheon: applyGnome,
	domain.EnvMate:     applyMate,
	domain.EnvGnome2:   applyGnome2,

	domain.EnvKDE:     applyKDE,
	domain.EnvKDE3:    applyKDE3,
	domain.EnvTrinity: applyKDE3,

	domain.EnvXfce4:   applyXfce4,
	domain.EnvRazorQt: applyRazorQt,

	domain.EnvFluxbox:       applySetter,
	domain.EnvJWM:           applySetter,
	domain.EnvOpenbox:       applySetter,
	domain.EnvAfterStep:     applySetter,
	domain.EnvI3:            applySetter,
	domain.EnvIceWM:         applySetter,
	domain.EnvBlackbox:      applySetter,
	domain.EnvWindowMaker:   applySetter,
	domain.EnvLXDE:          applySetter,
	domain.EnvLXQt:          applySetter,
	domain.EnvEnlightenment: applySetter,

	domain.EnvAwesome: applyAwesome,
	domain.EnvWindows: applyWindows,
	domain.EnvMac:     applyMac,
}

// Dispatcher applies wallpapers through the mechanism each desktop environment requires
type Dispatcher struct {
	logger    *zap.Logger
	runner    runner.CommandRunner
	plasma    PlasmaShell
	configDir func(appName string) string
	homeDir   string
	scriptDir string
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithPlasmaShell replaces the KDE Plasma client
func WithPlasmaShell(p PlasmaShell) Option {
	return func(d *Dispatcher) { d.plasma = p }
}

// WithConfigDir replaces the helper used to locate other applications' config dirs
func WithConfigDir(fn func(appName string) string) Option {
	return func(d *Dispatcher) { d.configDir = fn }
}

// WithHomeDir overrides the user's home directory
func WithHomeDir(dir string) Option {
	return func(d *Dispatcher) { d.homeDir = dir }
}

// WithScriptDir sets where generated Windows and AppleScript files are written
func WithScriptDir(dir string) Option {
	return func(d *Dispatcher) { d.scriptDir = dir }
}

// NewDispatcher creates a dispatcher that runs external tools through r
func NewDispatcher(logger *zap.Logger, r runner.CommandRunner, opts ...Option) *Dispatcher {
	home, _ := os.UserHomeDir()
	d := &Dispatcher{
		logger:    logger,
		runner:    r,
		plasma:    NewDBusPlasmaShell(),
		configDir: config.ConfigDir,
		homeDir:   home,
		scriptDir: config.ConfigDir(config.AppName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Supports reports whether a dispatch branch exists for env
func Supports(env domain.DesktopEnvironment) bool {
	_, ok := handlers[env]
	return ok
}

// Apply sets imagePath as the wallpaper of env. It never panics on tool
// failures; every failure is returned as a *DispatchError.
func (d *Dispatcher) Apply(ctx context.Context, env domain.DesktopEnvironment, imagePath string) error {
	h, ok := handlers[env]
	if !ok {
		d.logger.Warn("No wallpaper mechanism for desktop environment",
			zap.String("env", env.String()))
		return &DispatchError{Kind: UnsupportedEnvironment, Env: env}
	}

	d.logger.Debug("Applying wallpaper",
		zap.String("env", env.String()),
		zap.String("path", imagePath))

	if err := h(ctx, d, env, imagePath); err != nil {
		return err
	}

	d.logger.Info("Wallpaper set successfully",
		zap.String("env", env.String()),
		zap.String("path", imagePath))
	return nil
}

// run executes cmd and wraps any failure as ToolInvocationFailed
func (d *Dispatcher) run(ctx context.Context, env domain.DesktopEnvironment, cmd runner.Command) error {
	if err := d.runner.Run(ctx, cmd); err != nil {
		return toolFailed(env, err)
	}
	return nil
}
