package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bankdesk/bank-console/internal/app"
	"github.com/bankdesk/bank-console/internal/config"
	"github.com/bankdesk/bank-console/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "console start failed: %v\n", err)
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

	logger.InfoObj("console starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console, err := app.NewConsole(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize console", "error", err)
		return err
	}

	if err := console.Run(ctx); err != nil {
		return fmt.Errorf("console run: %w", err)
	}
	return nil
}
