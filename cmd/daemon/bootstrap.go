package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/executor"
	"github.com/genricoloni/weatherdesk/internal/history"
	"github.com/kirsle/configdir"
)

// ErrWallpaperDirCreated means the default directory was just created and is still empty
var ErrWallpaperDirCreated = errors.New("wallpaper directory created")

// prepareDirs checks the wallpaper directory and creates the output and
// history directories. A missing default wallpaper directory is created,
// but the run still stops so the user can fill it.
func prepareDirs(cfg *config.AppConfig) error {
	info, err := os.Stat(cfg.WallpaperDir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("invalid directory %s: not a directory", cfg.WallpaperDir)
	case errors.Is(err, fs.ErrNotExist) && cfg.UsingDefaultDir:
		if err := configdir.MakePath(cfg.WallpaperDir); err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.WallpaperDir, err)
		}
		return fmt.Errorf("%w: no directory specified, created %s; put files there or specify one with --dir",
			ErrWallpaperDirCreated, cfg.WallpaperDir)
	case err != nil:
		return fmt.Errorf("invalid directory %s: %w", cfg.WallpaperDir, err)
	}

	if err := configdir.MakePath(cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// printHistory writes changes as an aligned table
func printHistory(w io.Writer, changes []history.Change) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCITY\tCONDITION\tENV\tFILE\tRESULT")
	for _, c := range changes {
		result := "ok"
		if !c.Success {
			result = c.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Timestamp.Local().Format(time.DateTime), c.City, c.Condition, c.Environment, c.SourcePath, result)
	}
	return tw.Flush()
}

// showHistory deletes entries older than keep when keep is positive, then
// prints the latest limit entries
func showHistory(w io.Writer, store *history.Store, limit int, keep time.Duration, now time.Time) error {
	if keep > 0 {
		n, err := store.Prune(now.Add(-keep))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "pruned %d entries older than %s\n", n, keep)
	}

	changes, err := store.Recent(limit)
	if err != nil {
		return err
	}
	return printHistory(w, changes)
}

// parseDesktopFlag accepts only desktop names that have a wallpaper mechanism
func parseDesktopFlag(name string) (domain.DesktopEnvironment, error) {
	env := domain.ParseDesktopEnvironment(name)
	if !executor.Supports(env) {
		return "", fmt.Errorf("unsupported desktop environment %q", name)
	}
	return env, nil
}
