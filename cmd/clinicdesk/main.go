package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clinicdesk/clinicdesk/internal/app"
	"github.com/clinicdesk/clinicdesk/internal/devbridge"
	"github.com/clinicdesk/clinicdesk/internal/diag"
	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	"github.com/clinicdesk/clinicdesk/pkg/bridge/rpc"
	"github.com/clinicdesk/clinicdesk/pkg/config"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "clinicdesk"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "clinicdesk",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		dataBridge bridge.Bridge
		pinger     diag.Pinger
		closeFn    func() error
	)
	if cfg.Bridge.IsEmbedded() {
		client, err := devbridge.New(ctx, cfg.DevBridge, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap embedded bridge", err)
			os.Exit(1)
		}
		dataBridge = client
		pinger = client
		closeFn = client.Close
	} else {
		client, err := rpc.New(cfg.Bridge, logg)
		if err != nil {
			logg.Error(ctx, "failed to build bridge client", err)
			os.Exit(1)
		}
		dataBridge = client
		pinger = client
	}
	defer func() {
		if closeFn == nil {
			return
		}
		if err := closeFn(); err != nil {
			logg.Error(context.Background(), "error closing embedded bridge", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	application, err := app.New(app.Params{
		Config:   cfg,
		Bridge:   dataBridge,
		Logger:   logg,
		Registry: registry,
	})
	if err != nil {
		logg.Error(ctx, "failed to assemble stores", err)
		os.Exit(1)
	}

	if err := application.LoadAll(ctx); err != nil {
		logg.Error(ctx, "initial load incomplete", err)
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"bridge_mode": cfg.Bridge.Mode,
	})
	logg.Info(startCtx, "clinicdesk state layer running")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = application.Poller.Run(ctx)
	}()

	if cfg.Diag.Enabled {
		router := diag.NewRouter(cfg, logg, pinger, registry)
		server := diag.NewServer(cfg, logg, router)
		if err := server.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "diagnostics server stopped unexpectedly", err)
		}
	}

	<-ctx.Done()
	<-done
	logg.Info(context.Background(), "clinicdesk shut down")
}
