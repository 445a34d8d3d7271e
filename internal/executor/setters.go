package executor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
)

// WallpaperCommand describes a standalone background-setter tool
type WallpaperCommand struct {
	Binary     string
	Args       []string // %s will be replaced with image path
	Background bool     // Spawn without waiting; the tool may keep running
}

// setterCommands maps window managers that have no settings service of
// their own to the tool that paints their root window
var setterCommands = map[domain.DesktopEnvironment]WallpaperCommand{
	domain.EnvFluxbox:       {Binary: "fbsetbg", Args: []string{"%s"}},
	domain.EnvJWM:           {Binary: "fbsetbg", Args: []string{"%s"}},
	domain.EnvOpenbox:       {Binary: "fbsetbg", Args: []string{"%s"}},
	domain.EnvAfterStep:     {Binary: "fbsetbg", Args: []string{"%s"}},
	domain.EnvI3:            {Binary: "fbsetbg", Args: []string{"%s"}},
	domain.EnvIceWM:         {Binary: "icewmbg", Args: []string{"%s"}, Background: true},
	domain.EnvBlackbox:      {Binary: "bsetbg", Args: []string{"-full", "%s"}},
	domain.EnvWindowMaker:   {Binary: "wmsetbg", Args: []string{"-s", "-u", "%s"}},
	domain.EnvLXDE:          {Binary: "pcmanfm", Args: []string{"--set-wallpaper", "%s", "--wallpaper-mode=scaled"}},
	domain.EnvLXQt:          {Binary: "pcmanfm-qt", Args: []string{"--set-wallpaper", "%s", "--wallpaper-mode=stretch"}},
	domain.EnvEnlightenment: {Binary: "enlightenment_remote", Args: []string{"-desktop-bg-add", "0", "0", "0", "0", "%s"}},
}

// Command renders the invocation for imagePath
func (w WallpaperCommand) Command(imagePath string) runner.Command {
	args := make([]string, len(w.Args))
	for i, arg := range w.Args {
		args[i] = strings.ReplaceAll(arg, "%s", imagePath)
	}
	return runner.New(w.Binary, args...)
}

func applySetter(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	setter, ok := setterCommands[env]
	if !ok {
		return &DispatchError{Kind: UnsupportedEnvironment, Env: env}
	}

	cmd := setter.Command(imagePath)
	if setter.Background {
		if err := d.runner.Start(ctx, cmd); err != nil {
			return toolFailed(env, err)
		}
		return nil
	}
	return d.run(ctx, env, cmd)
}

// awesomeScript sets the wallpaper on every screen through the gears library
func awesomeScript(imagePath string) string {
	return fmt.Sprintf(`local gears = require("gears")
for s in screen do
	gears.wallpaper.maximized(%s, s, true)
end
`, strconv.Quote(imagePath))
}

// applyAwesome pipes a Lua snippet into awesome-client
func applyAwesome(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	return d.run(ctx, env, runner.Command{Name: "awesome-client", Stdin: awesomeScript(imagePath)})
}
