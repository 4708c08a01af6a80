package main

import (
	"context"
	"encoding/json"
	"flag"
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
		fmt.Fprintf(os.Stderr, "loadtest failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	history := flag.Int("history", 0, "print the N most recent stored reports instead of running")
	workers := flag.Int("workers", 0, "override load_workers")
	requests := flag.Int("requests", 0, "override load_requests_per_worker")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tester, err := app.NewLoadTester(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize load tester", "error", err)
		return err
	}
	defer func() {
		if err := tester.Close(); err != nil {
			logger.ErrorObj("load tester close failed", "error", err)
		}
	}()

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	if *history > 0 {
		reports, err := tester.History(*history)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		return out.Encode(reports)
	}

	plan := tester.Plan()
	if *workers > 0 {
		plan.Workers = *workers
	}
	if *requests > 0 {
		plan.RequestsPerWorker = *requests
	}

	report, runErr := tester.Run(ctx, plan)
	if err := out.Encode(report); err != nil {
		return fmt.Errorf("print report: %w", err)
	}
	return runErr
}
