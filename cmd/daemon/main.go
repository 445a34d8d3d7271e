package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/engine"
	"github.com/genricoloni/weatherdesk/internal/executor"
	"github.com/genricoloni/weatherdesk/internal/history"
	"github.com/genricoloni/weatherdesk/internal/naming"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const stopTimeout = 15 * time.Second

func main() {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().Run(ctx, normalizeTimeFlag(os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  config.AppName,
		Usage: "Change the wallpaper based on the weather",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the TOML config file",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "wallpaper directory (default ~/.weatherdesk_walls)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "image file format (default .jpg)",
			},
			&cli.IntFlag{
				Name:    "wait",
				Aliases: []string{"w"},
				Usage:   "seconds to wait between updates (default 600)",
			},
			&cli.IntFlag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "use different wallpapers for the time of day: 2 = day/night, 3 = day/evening/night, 4 = morning/day/evening/night",
			},
			&cli.StringFlag{
				Name:    "city",
				Aliases: []string{"c"},
				Usage:   "city for the weather lookup; taken from ipinfo.io when not given",
			},
			&cli.BoolFlag{
				Name:  "fit",
				Usage: "scale and crop wallpapers to the screen before applying them",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:    "naming",
				Aliases: []string{"n"},
				Usage:   "show the image file-naming rules and exit",
			},
		},
		Action: runDaemon,
		Commands: []*cli.Command{
			{
				Name:   "detect",
				Usage:  "print the detected desktop environment",
				Action: runDetect,
			},
			{
				Name:      "apply",
				Usage:     "set an image as wallpaper once",
				ArgsUsage: "<image>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "desktop",
						Usage: "skip detection and use this desktop environment, e.g. xfce4",
					},
				},
				Action: runApply,
			},
			{
				Name:   "naming",
				Usage:  "show the image file-naming rules",
				Action: runNaming,
			},
			{
				Name:  "history",
				Usage: "show recently applied wallpapers",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   10,
						Usage:   "number of entries to show",
					},
					&cli.DurationFlag{
						Name:  "prune",
						Usage: "delete entries older than this age before listing, e.g. 720h",
					},
				},
				Action: runHistory,
			},
		},
	}
}

// normalizeTimeFlag lets --time be given without a value, meaning level 3
func normalizeTimeFlag(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for i, arg := range args {
		out = append(out, arg)
		if arg != "-t" && arg != "--time" {
			continue
		}
		if i+1 < len(args) {
			if _, err := strconv.Atoi(args[i+1]); err == nil {
				continue
			}
		}
		out = append(out, "3")
	}
	return out
}

// loadConfig layers the command-line flags over file and environment settings
func loadConfig(cmd *cli.Command) (*config.AppConfig, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cli.Command, cfg *config.AppConfig) {
	if cmd.IsSet("dir") {
		cfg.SetWallpaperDir(cmd.String("dir"))
	}
	if cmd.IsSet("format") {
		cfg.SetFormat(cmd.String("format"))
	}
	if cmd.IsSet("wait") {
		cfg.Interval = time.Duration(cmd.Int("wait")) * time.Second
	}
	if cmd.IsSet("time") {
		cfg.TimeDetail = int(cmd.Int("time"))
	}
	if cmd.IsSet("city") {
		cfg.City = cmd.String("city")
	}
	if cmd.IsSet("fit") {
		cfg.Mode = config.ModeCopy
		if cmd.Bool("fit") {
			cfg.Mode = config.ModeFill
		}
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
}

func runDaemon(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("naming") {
		fmt.Print(naming.Rules(cfg.Format))
		return nil
	}

	if err := prepareDirs(cfg); err != nil {
		return err
	}

	app := fx.New(
		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions(cfg),
	)

	// Start the application
	if err := app.Start(ctx); err != nil {
		var missing *engine.MissingFilesError
		if errors.As(err, &missing) {
			return fmt.Errorf("%w\n\n%s", missing, naming.Rules(cfg.Format))
		}
		return err
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return app.Stop(stopCtx)
}

func runDetect(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var detector domain.Detector
	app := fx.New(toolOptions(cfg), fx.NopLogger, fx.Populate(&detector))
	if err := app.Err(); err != nil {
		return err
	}

	detectCtx, cancel := context.WithTimeout(ctx, cfg.DetectTimeout)
	defer cancel()

	env := detector.Detect(detectCtx)
	fmt.Println(env)
	if !executor.Supports(env) {
		return cli.Exit("no wallpaper mechanism is available for this desktop", 2)
	}
	return nil
}

func runApply(ctx context.Context, cmd *cli.Command) (err error) {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: "+config.AppName+" apply [--desktop <env>] <image>", 2)
	}
	image, err := filepath.Abs(cmd.Args().First())
	if err != nil {
		return err
	}
	if _, err := os.Stat(image); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var forced domain.DesktopEnvironment
	if cmd.IsSet("desktop") {
		if forced, err = parseDesktopFlag(cmd.String("desktop")); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	var (
		detector   domain.Detector
		dispatcher domain.Dispatcher
	)
	app := fx.New(toolOptions(cfg), fx.NopLogger, fx.Populate(&detector, &dispatcher))
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
	}()

	env := forced
	if env == "" {
		detectCtx, cancel := context.WithTimeout(ctx, cfg.DetectTimeout)
		env = detector.Detect(detectCtx)
		cancel()
	}

	if err := dispatcher.Apply(ctx, env, image); err != nil {
		return fmt.Errorf("%s: %w", executor.KindOf(err), err)
	}
	fmt.Printf("%s: wallpaper set to %s\n", env, image)
	return nil
}

func runNaming(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Print(naming.Rules(cfg.Format))
	return nil
}

func runHistory(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return showHistory(os.Stdout, store, int(cmd.Int("limit")), cmd.Duration("prune"), time.Now())
}
