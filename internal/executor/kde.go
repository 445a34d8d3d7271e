package executor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// plasmaScript sets the image wallpaper plugin on every desktop.
// Plasma changes this API between releases, so failures are expected on some versions.
func plasmaScript(imagePath string) string {
	return fmt.Sprintf(`var allDesktops = desktops();
for (var i = 0; i < allDesktops.length; i++) {
	var d = allDesktops[i];
	d.wallpaperPlugin = %[1]q;
	d.currentConfigGroup = Array("Wallpaper", %[1]q, "General");
	d.writeConfig("Image", %[2]s);
}`, plasmaImagePlug, strconv.Quote("file://"+imagePath))
}

// applyKDE talks to plasmashell over the session bus, then retries through qdbus
func applyKDE(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	script := plasmaScript(imagePath)

	err := d.plasma.EvaluateScript(ctx, script)
	if err == nil {
		return nil
	}

	d.logger.Debug("Plasma D-Bus call failed, trying qdbus", zap.Error(err))

	fallback := runner.New("qdbus", plasmaService, plasmaPath, plasmaEvaluate, script)
	if qerr := d.runner.Run(ctx, fallback); qerr != nil {
		return toolFailed(env, multierr.Append(err, qerr))
	}
	return nil
}

// applyKDE3 covers KDE 3 and Trinity through DCOP
func applyKDE3(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	return d.run(ctx, env, runner.New("dcop", "kdesktop", "KBackgroundIface", "setWallpaper", "0", imagePath, "6"))
}
