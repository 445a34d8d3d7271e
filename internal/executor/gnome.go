package executor

import (
	"context"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	gnomeSchema = "org.gnome.desktop.background"
	mateSchema  = "org.mate.background"
)

// applyGnome covers GNOME 3+, Unity, Cinnamon and Pantheon, which all read
// the GNOME background schema
func applyGnome(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	uri := "file://" + imagePath
	if err := d.run(ctx, env, runner.New("gsettings", "set", gnomeSchema, "picture-uri", uri)); err != nil {
		return err
	}

	// GNOME 42+ shows picture-uri-dark in dark mode; older releases lack the key
	if err := d.runner.Run(ctx, runner.New("gsettings", "set", gnomeSchema, "picture-uri-dark", uri)); err != nil {
		d.logger.Debug("picture-uri-dark not updated", zap.Error(err))
	}
	return nil
}

// applyMate uses gsettings (MATE >= 1.6) and falls back to mateconftool-2
func applyMate(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	err := d.runner.Run(ctx, runner.New("gsettings", "set", mateSchema, "picture-filename", imagePath))
	if err == nil {
		return nil
	}

	d.logger.Debug("gsettings failed for MATE, trying mateconftool-2", zap.Error(err))

	legacy := runner.New("mateconftool-2", "-t", "string", "--set",
		"/desktop/mate/background/picture_filename", imagePath)
	if lerr := d.runner.Run(ctx, legacy); lerr != nil {
		return toolFailed(env, multierr.Append(err, lerr))
	}
	return nil
}

func applyGnome2(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	return d.run(ctx, env, runner.New("gconftool-2", "-t", "string", "--set",
		"/desktop/gnome/background/picture_filename", imagePath))
}
