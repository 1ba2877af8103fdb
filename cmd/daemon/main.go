// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/ytaudio/internal/api"
	"github.com/ManuGH/ytaudio/internal/audio"
	"github.com/ManuGH/ytaudio/internal/config"
	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/fsutil"
	"github.com/ManuGH/ytaudio/internal/health"
	xglog "github.com/ManuGH/ytaudio/internal/log"
	"github.com/ManuGH/ytaudio/internal/transcoder"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg := config.FromEnv()

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: version,
	})
	logger := xglog.WithComponent("daemon")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.invalid").
			Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Msg("starting ytaudio")
	logger.Info().Msgf("→ Work dir: %s (retention: %s, sweep every %s)", cfg.WorkDir, cfg.Retention, cfg.CleanupInterval)
	logger.Info().Msgf("→ Extractor: %s", cfg.YTDLPPath)
	logger.Info().Msgf("→ Transcoder: %s", cfg.FFmpegPath)
	logger.Info().Msgf("→ Duration gate: %s", cfg.MaxDuration)

	extractor := extract.New(extract.Options{
		BinaryPath:      cfg.YTDLPPath,
		UserAgents:      cfg.UserAgents,
		ProbeTimeout:    cfg.ProbeTimeout,
		DownloadTimeout: cfg.DownloadTimeout,
	})
	prober := transcoder.New(cfg.FFmpegPath)
	pipeline := audio.New(extractor, prober, audio.Config{WorkDir: cfg.WorkDir})

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewBinaryChecker("ytdlp", cfg.YTDLPPath, false))
	hm.RegisterChecker(health.NewBinaryChecker("ffmpeg", cfg.FFmpegPath, true))

	server := api.New(cfg, pipeline, hm)

	apiSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("event", "api.listening").Str("addr", cfg.ListenAddr).Msg("API server listening")
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var metricsSrv *http.Server
	if cfg.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("event", "metrics.listening").Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	janitor := fsutil.NewJanitor(cfg.WorkDir, cfg.Retention, cfg.CleanupInterval)
	g.Go(func() error {
		janitor.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Str("event", "shutdown.initiated").Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("api server shutdown failed")
		}
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown failed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon failed")
	}

	logger.Info().Msg("server exiting")
}
