package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/config"
	"github.com/showgo/player/internal/display"
	"github.com/showgo/player/internal/domain"
	"github.com/showgo/player/internal/playlist"
	"github.com/showgo/player/internal/render"
	"github.com/showgo/player/internal/session"
	"github.com/showgo/player/internal/status"
)

// AppOptions is the daemon's dependency graph, exposed so tests can
// validate it
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		newConfig,
		newScreen,
		playlist.NewSource,
		render.New,
		status.NewMetrics,
		display.NewInhibitor,
		newManager,
		newStatusServer,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// Wait for an interrupt signal or an internal shutdown request
	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// newConfig loads process configuration behind the shared interface
func newConfig(logger *zap.Logger) (domain.Config, error) {
	return config.NewAppConfig(logger)
}

// newScreen detects the output resolution once at startup
func newScreen(logger *zap.Logger) domain.ScreenResolution {
	return *display.NewScreenResolution(logger)
}

func newManager(
	logger *zap.Logger,
	cfg domain.Config,
	source domain.SnapshotSource,
	renderer domain.Renderer,
	screen domain.ScreenResolution,
	metrics *status.PromMetrics,
	shutdowner fx.Shutdowner,
) (*session.Manager, error) {
	return session.New(session.Deps{
		Logger:   logger,
		Config:   cfg,
		Source:   source,
		Renderer: renderer,
		Screen:   screen,
		Metrics:  metrics,
		OnFatal: func(err error) {
			if err := shutdowner.Shutdown(); err != nil {
				logger.Error("Failed to request shutdown", zap.Error(err))
			}
		},
	})
}

func newStatusServer(logger *zap.Logger, cfg domain.Config, manager *session.Manager, metrics *status.PromMetrics) *status.Server {
	return status.NewServer(logger, cfg.GetListenAddr(), manager, metrics)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	manager *session.Manager,
	server *status.Server,
	inhibitor domain.Inhibitor,
	renderer domain.Renderer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("ShowGo Player Started")
			if err := inhibitor.Inhibit(ctx); err != nil {
				logger.Warn("Failed to inhibit screen blanking", zap.Error(err))
			}
			renderer.SetCursorHidden(true)
			if err := server.Start(ctx); err != nil {
				return err
			}
			return manager.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			err := manager.Stop(ctx)
			err = multierr.Append(err, server.Stop(ctx))
			if rerr := inhibitor.Release(ctx); rerr != nil {
				logger.Warn("Failed to release display inhibit", zap.Error(rerr))
			}
			return multierr.Append(err, renderer.Close())
		},
	})
}
