package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	windowsScriptName = "set-wallpaper.bat"
	macScriptName     = "set-wallpaper.applescript"
)

// windowsScript updates the per-user wallpaper registry value and asks
// Explorer to reload the desktop settings
func windowsScript(imagePath string) string {
	// cmd expands %VAR% inside batch files, %% is a literal percent
	escaped := strings.ReplaceAll(imagePath, "%", "%%")
	lines := []string{
		"@echo off",
		fmt.Sprintf(`reg add "HKEY_CURRENT_USER\Control Panel\Desktop" /v Wallpaper /t REG_SZ /d "%s" /f`, escaped),
		"RUNDLL32.EXE user32.dll,UpdatePerUserSystemParameters 1, True",
		"",
	}
	return strings.Join(lines, "\r\n")
}

func applyWindows(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	script, err := d.writeScript(windowsScriptName, windowsScript(imagePath))
	if err != nil {
		return writeFailed(env, err)
	}
	return d.run(ctx, env, runner.New("cmd", "/C", script))
}

// finderCommand is the one-line Finder call tried first on macOS
func finderCommand(imagePath string) string {
	return fmt.Sprintf(`tell application "Finder" to set desktop picture to POSIX file %s`, strconv.Quote(imagePath))
}

// macScript is the fallback: System Events reaches every desktop, not only the main one
func macScript(imagePath string) string {
	return fmt.Sprintf(`tell application "System Events"
	tell every desktop
		set picture to %s
	end tell
end tell
`, strconv.Quote(imagePath))
}

func applyMac(ctx context.Context, d *Dispatcher, env domain.DesktopEnvironment, imagePath string) error {
	err := d.runner.Run(ctx, runner.New("osascript", "-e", finderCommand(imagePath)))
	if err == nil {
		return nil
	}

	d.logger.Debug("Finder call failed, running desktop script", zap.Error(err))

	script, werr := d.writeScript(macScriptName, macScript(imagePath))
	if werr != nil {
		return writeFailed(env, multierr.Append(err, werr))
	}
	if serr := d.runner.Run(ctx, runner.New("osascript", script)); serr != nil {
		return toolFailed(env, multierr.Append(err, serr))
	}
	return nil
}

// writeScript stores a generated script in the script directory and returns its path
func (d *Dispatcher) writeScript(name, content string) (string, error) {
	if err := os.MkdirAll(d.scriptDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create script directory: %w", err)
	}

	path := filepath.Join(d.scriptDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
