package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const razorSection = "razor"

// razorLoadOptions reads desktop.conf the way Qt writes it: '#' and ';' belong
// to values, quotes are kept and a trailing backslash is not a continuation
var razorLoadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	IgnoreContinuation:      true,
}

// razorConfig is one place razor-qt may keep its desktop.conf
type razorConfig struct {
	path string
	key  string
}

// razorConfigs lists the development layout first, then the older ~/.razor one
func (d *Dispatcher) razorConfigs() []razorConfig {
	return []razorConfig{
		{path: filepath.Join(d.configDir("razor"), "desktop.conf"), key: `screens\1\desktops\1\wallpaper`},
		{path: filepath.Join(d.homeDir, ".razor", "desktop.conf"), key: `desktops\1\wallpaper`},
	}
}

// applyRazorQt rewrites the wallpaper key of desktop.conf. Only an existing
// key is replaced; razor-qt owns the rest of the file.
func applyRazorQt(_ context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	candidates := d.razorConfigs()

	// The newer location wins when present, otherwise fall back to ~/.razor
	target := candidates[len(candidates)-1]
	if _, err := os.Stat(candidates[0].path); err == nil {
		target = candidates[0]
	}

	if _, err := os.Stat(target.path); errors.Is(err, fs.ErrNotExist) {
		d.logger.Warn("razor-qt desktop.conf not found, wallpaper left unchanged",
			zap.String("path", target.path))
		return nil
	}

	cfg, err := ini.LoadSources(razorLoadOptions, target.path)
	if err != nil {
		return writeFailed(env, fmt.Errorf("failed to read %s: %w", target.path, err))
	}

	section := cfg.Section(razorSection)
	if !section.HasKey(target.key) {
		d.logger.Warn("razor-qt wallpaper key not present, wallpaper left unchanged",
			zap.String("path", target.path),
			zap.String("key", target.key))
		return nil
	}

	section.Key(target.key).SetValue(imagePath)
	if err := cfg.SaveTo(target.path); err != nil {
		return writeFailed(env, fmt.Errorf("failed to write %s: %w", target.path, err))
	}
	return nil
}
