package desktop

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/zap"
)

// rule is one step of the detection chain. It returns ok=false to pass.
type rule struct {
	name  string
	match func(ctx context.Context, d *Detector) (domain.DesktopEnvironment, bool)
}

// Detector classifies the running desktop from the platform, environment
// variables and, as a last resort, the process list and the X11 window manager.
// With the default X11 prober a host with no session variables and no known
// process can still be classified from the _NET_WM_NAME of its window manager;
// pass WithWindowManagerProber(nil) to stop at the process list and report
// EnvUnknown instead.
type Detector struct {
	logger *zap.Logger
	goos   string
	getenv func(string) string
	runner runner.CommandRunner
	wm     WindowManagerProber
	rules  []rule
}

// Option customizes a Detector
type Option func(*Detector)

// WithGOOS overrides the platform identifier
func WithGOOS(goos string) Option {
	return func(d *Detector) { d.goos = goos }
}

// WithEnv overrides environment lookups
func WithEnv(getenv func(string) string) Option {
	return func(d *Detector) { d.getenv = getenv }
}

// WithWindowManagerProber sets the window manager probe; nil disables it
func WithWindowManagerProber(wm WindowManagerProber) Option {
	return func(d *Detector) { d.wm = wm }
}

// NewDetector creates a detector for the current host
func NewDetector(logger *zap.Logger, r runner.CommandRunner, opts ...Option) *Detector {
	d := &Detector{
		logger: logger,
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		runner: r,
		wm:     NewX11Prober(),
	}
	for _, opt := range opts {
		opt(d)
	}

	// Order matters: later rules are less reliable
	d.rules = []rule{
		{name: "platform", match: matchPlatform},
		{name: "session", match: matchSession},
		{name: "session-variables", match: matchSessionVariables},
		{name: "process", match: matchProcess},
		{name: "window-manager", match: matchWindowManager},
	}
	return d
}

// Detect returns the desktop environment, or EnvUnknown when no rule matches
func (d *Detector) Detect(ctx context.Context) domain.DesktopEnvironment {
	for _, r := range d.rules {
		if env, ok := r.match(ctx, d); ok {
			d.logger.Debug("Desktop environment detected",
				zap.String("env", env.String()),
				zap.String("rule", r.name))
			return env
		}
	}

	d.logger.Debug("Desktop environment not recognised")
	return domain.EnvUnknown
}

func matchPlatform(_ context.Context, d *Detector) (domain.DesktopEnvironment, bool) {
	switch d.goos {
	case "windows":
		return domain.EnvWindows, true
	case "darwin", "ios":
		return domain.EnvMac, true
	}
	return "", false
}

func matchSession(_ context.Context, d *Detector) (domain.DesktopEnvironment, bool) {
	session := d.getenv("XDG_CURRENT_DESKTOP")
	if session == "" {
		session = d.getenv("DESKTOP_SESSION")
	}
	if session == "" {
		return "", false
	}
	return ClassifySession(session)
}

// ClassifySession maps an XDG_CURRENT_DESKTOP or DESKTOP_SESSION value to a
// desktop environment
func ClassifySession(session string) (domain.DesktopEnvironment, bool) {
	session = normalize(session)

	if env, ok := knownToken(session); ok {
		return env, true
	}

	// XDG_CURRENT_DESKTOP may hold a colon separated list, e.g. "ubuntu:GNOME"
	if strings.Contains(session, ":") {
		for _, part := range strings.Split(session, ":") {
			if env, ok := knownToken(normalize(part)); ok {
				return env, true
			}
		}
	}

	// Distributions rename sessions, e.g. Lubuntu reports "Lubuntu" for LXDE
	switch {
	case strings.Contains(session, "xfce"), strings.HasPrefix(session, "xubuntu"):
		return domain.EnvXfce4, true
	case strings.HasPrefix(session, "ubuntu"), strings.HasPrefix(session, "unity"):
		return domain.EnvUnity, true
	case strings.HasPrefix(session, "lubuntu"):
		return domain.EnvLXDE, true
	case strings.HasPrefix(session, "kubuntu"):
		return domain.EnvKDE, true
	case strings.HasPrefix(session, "razor"):
		return domain.EnvRazorQt, true
	case strings.HasPrefix(session, "wmaker"):
		return domain.EnvWindowMaker, true
	}
	return "", false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "x-")
}

func knownToken(s string) (domain.DesktopEnvironment, bool) {
	for _, env := range domain.DesktopEnvironments {
		if string(env) == s {
			return env, true
		}
	}
	return "", false
}

func matchSessionVariables(_ context.Context, d *Detector) (domain.DesktopEnvironment, bool) {
	if d.getenv("KDE_FULL_SESSION") == "true" {
		return domain.EnvKDE, true
	}
	if id := d.getenv("GNOME_DESKTOP_SESSION_ID"); id != "" && !strings.Contains(id, "deprecated") {
		return domain.EnvGnome2, true
	}
	return "", false
}

func matchProcess(ctx context.Context, d *Detector) (domain.DesktopEnvironment, bool) {
	if d.runner == nil {
		return "", false
	}

	listing := d.processList(ctx)
	switch {
	case strings.Contains(listing, "xfce-mcs-manage"):
		return domain.EnvXfce4, true
	case strings.Contains(listing, "ksmserver"):
		return domain.EnvKDE, true
	}
	return "", false
}

func matchWindowManager(ctx context.Context, d *Detector) (domain.DesktopEnvironment, bool) {
	if d.wm == nil {
		return "", false
	}

	name, err := d.wm.WindowManagerName(ctx)
	if err != nil {
		d.logger.Debug("Window manager probe failed", zap.Error(err))
		return "", false
	}
	return ClassifyWindowManager(name)
}
