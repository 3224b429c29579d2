// entry point of the application
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"oxyget/internal/auth"
	"oxyget/internal/config"
	"oxyget/internal/depmanager"
	"oxyget/internal/engine"
	httprouter "oxyget/internal/infrastructure/delivery/http"
	"oxyget/internal/joblog"
	"oxyget/internal/observability"
	"oxyget/internal/queue"
	"oxyget/internal/settings"
	httpserver "oxyget/pkg/http/server"
	"oxyget/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		slog.Error("config new", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Options{
		AddSource: true,
		Level:     cfg.App.LogLevel,
	})
	if err != nil {
		slog.WarnContext(ctx, "logger level invalid; defaulting to info", slog.Any("error", err))
	}

	metrics := observability.New()

	if cfg.DepManager.Enabled {
		depMgr := depmanager.New(log, cfg)

		log.InfoContext(ctx, "checking if yt-dlp and ffmpeg are installed. it may take some time...")

		if err := depMgr.Start(ctx); err != nil {
			log.ErrorContext(ctx, "depmanager start", slog.Any("error", err))
			stop()
			os.Exit(1)
		}

		// Downloaded binaries take precedence over any system ones.
		os.Setenv("PATH", cfg.DepManager.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}

	settingsStore, err := settings.New(log, cfg.Dir.ConfigRoot)
	if err != nil {
		log.ErrorContext(ctx, "settings store", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	authStore, err := auth.New(log, cfg.Dir.ConfigRoot)
	if err != nil {
		log.ErrorContext(ctx, "auth store", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	recorder, err := joblog.New(log, cfg.Dir.ConfigRoot)
	if err != nil {
		log.ErrorContext(ctx, "log recorder", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	eng := engine.New(log, cfg)

	manager := queue.New(log, cfg, eng, settingsStore, authStore, recorder, metrics, queue.Callbacks{})

	router := httprouter.New(log, manager, settingsStore, authStore, recorder, metrics)

	httpSrv := httpserver.New(router, httpserver.Options{
		Addr:            cfg.HTTP.Port,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})

	manager.Start(ctx)

	log.InfoContext(ctx, "oxyget started", slog.String("port", cfg.HTTP.Port))

	select {
	case <-ctx.Done():
	case err := <-httpSrv.Notify():
		log.ErrorContext(ctx, "http server", slog.Any("error", err))
		stop()
	}

	if err := httpSrv.Shutdown(); err != nil {
		log.Error(err.Error())
	}

	manager.Wait()

	log.InfoContext(ctx, "oxyget shut down gracefully")
}
