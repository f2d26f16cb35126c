package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vudials/vudials-go/internal/app"
	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vudials-monitor start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("monitor starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon, err := app.NewMonitor(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize monitor", "error", err.Error())
		return err
	}

	if err := mon.Run(ctx); err != nil {
		return fmt.Errorf("monitor run: %w", err)
	}

	return nil
}
