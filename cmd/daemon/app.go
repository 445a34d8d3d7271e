package main

import (
	"context"

	"github.com/genricoloni/weatherdesk/internal/config"
	"github.com/genricoloni/weatherdesk/internal/desktop"
	"github.com/genricoloni/weatherdesk/internal/display"
	"github.com/genricoloni/weatherdesk/internal/domain"
	"github.com/genricoloni/weatherdesk/internal/engine"
	"github.com/genricoloni/weatherdesk/internal/executor"
	"github.com/genricoloni/weatherdesk/internal/history"
	"github.com/genricoloni/weatherdesk/internal/processor"
	"github.com/genricoloni/weatherdesk/internal/runner"
	"github.com/genricoloni/weatherdesk/internal/weather"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// toolOptions provides detection and dispatch only, for the one-shot commands
func toolOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			fx.Annotate(newRunner, fx.As(new(runner.CommandRunner))),
			fx.Annotate(newDetector, fx.As(new(domain.Detector))),
			newDispatcher,
			func(d *executor.Dispatcher) domain.Dispatcher { return d },
		),
	)
}

// coreOptions provides every component without starting anything
func coreOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		toolOptions(cfg),
		fx.Provide(
			fx.Annotate(func(c *config.AppConfig) *config.AppConfig { return c }, fx.As(new(domain.Config))),
			fx.Annotate(newWeatherProvider, fx.As(new(domain.WeatherProvider))),
			display.NewScreenResolution,
			fx.Annotate(newProcessor, fx.As(new(domain.Processor))),
			newHistory,
			func(s *history.Store) domain.HistoryRecorder { return s },
			engine.NewEngine,
		),
	)
}

// AppOptions is the full daemon graph: every component plus the lifecycle hooks
func AppOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		coreOptions(cfg),
		fx.Invoke(registerHooks),
	)
}

// newLogger creates a production zap logger at the configured level
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newRunner(logger *zap.Logger, cfg *config.AppConfig) *runner.ExecRunner {
	return runner.NewExecRunner(logger, cfg.CommandTimeout)
}

func newDetector(logger *zap.Logger, r runner.CommandRunner) *desktop.Detector {
	return desktop.NewDetector(logger, r)
}

// newDispatcher owns the Plasma session bus client and closes it on shutdown
func newDispatcher(lc fx.Lifecycle, logger *zap.Logger, r runner.CommandRunner) *executor.Dispatcher {
	plasma := executor.NewDBusPlasmaShell()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return plasma.Close()
		},
	})
	return executor.NewDispatcher(logger, r, executor.WithPlasmaShell(plasma))
}

func newWeatherProvider(logger *zap.Logger, cfg *config.AppConfig) *weather.HTTPProvider {
	return weather.NewHTTPProvider(logger, cfg.WeatherURL, cfg.GeoURL)
}

func newProcessor(logger *zap.Logger, res *domain.ScreenResolution, cfg domain.Config) *processor.StageProcessor {
	return processor.NewStageProcessor(logger, res, cfg)
}

func newHistory(lc fx.Lifecycle, cfg *config.AppConfig) (*history.Store, error) {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("WeatherDesk Daemon Started", cfg.LogFields()...)
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			err := eng.Stop(ctx)
			_ = logger.Sync()
			return err
		},
	})
}
