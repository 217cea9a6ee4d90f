package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/mcstatus/internal/config"
	"github.com/hamed0406/mcstatus/internal/httpapi"
	"github.com/hamed0406/mcstatus/internal/logging"
	"github.com/hamed0406/mcstatus/internal/notify"
	"github.com/hamed0406/mcstatus/internal/probe"
	"github.com/hamed0406/mcstatus/internal/repo"
	"github.com/hamed0406/mcstatus/internal/repo/file"
	"github.com/hamed0406/mcstatus/internal/repo/memory"
	"github.com/hamed0406/mcstatus/internal/repo/postgres"
	"github.com/hamed0406/mcstatus/internal/scheduler"
	"github.com/hamed0406/mcstatus/internal/version"
)

func main() {
	cfgPath := config.PathFromEnv()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStateStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("state_store_open_failed", zap.Error(err))
	}
	defer closeStore()

	channel := notify.NewDiscord(cfg.WebhookURL, styleFrom(cfg.Embed), logger, cfg.Debug)
	notifier := scheduler.NewStatusNotifier(
		logger,
		probe.NewSRVResolver(),
		probe.NewTCPProber(probe.DefaultProbeTimeout),
		channel,
		store,
		memory.New(),
		cfg.Domain,
	)
	if err := notifier.Load(ctx); err != nil {
		logger.Warn("state_load_failed", zap.Error(err))
	}

	api := httpapi.NewServer(logger, notifier, cfg.Domain, cfg.Interval())
	api.RateRPM, api.RateBurst = cfg.RateRPM, cfg.RateBurst
	api.TrustProxy = cfg.TrustProxy
	api.Diagnose = probe.CheckDNS

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("version", version.Version),
		zap.String("config", cfgPath),
		zap.String("domain", cfg.Domain),
		zap.Duration("interval", cfg.Interval()),
		zap.Bool("debug", cfg.Debug),
		zap.Strings("endpoints", []string{"/health", "/status/{domain}", "/discord/{domain}"}),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	runner := scheduler.NewRunner(logger, notifier, cfg.Domain, cfg.Interval())
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		if err := runner.Run(ctx); err != nil {
			logger.Error("runner_failed", zap.Error(err))
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("api_listen_failed", zap.Error(err))
		stop()
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}
	<-runnerDone
	logger.Info("api_stopped")
}

func openStateStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.StateStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("state_backend", zap.String("backend", "file"), zap.String("path", cfg.StateFile))
		return file.New(cfg.StateFile, logger), func() {}, nil
	}
	pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("state_backend", zap.String("backend", "postgres"))
	return pg.Scope(cfg.Domain), pg.Close, nil
}

func styleFrom(e config.Embed) notify.Style {
	links := make([]notify.Link, 0, len(e.Links))
	for _, l := range e.Links {
		links = append(links, notify.Link{Name: l.Name, Label: l.Label, URL: l.URL})
	}
	return notify.Style{
		Username:  e.Username,
		AvatarURL: e.AvatarURL,
		Title:     e.Title,
		Footer:    e.Footer,
		Version:   e.Version,
		Whitelist: e.Whitelist,
		Links:     links,
	}
}
