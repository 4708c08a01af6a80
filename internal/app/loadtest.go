package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bankdesk/bank-console/internal/config"
	"github.com/bankdesk/bank-console/internal/domain"
	"github.com/bankdesk/bank-console/internal/loadtest"
	"github.com/bankdesk/bank-console/internal/logger"
	"github.com/bankdesk/bank-console/internal/storage"
	"github.com/bankdesk/bank-console/pkg/publishers"
)

// LoadTester runs load-test plans, keeps their reports and publishes them downstream.
type LoadTester struct {
	cfg    *config.Config
	runner *loadtest.Runner
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewLoadTester builds the load-test runtime from config.
func NewLoadTester(ctx context.Context, cfg *config.Config, log logger.Logger) (*LoadTester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ReportTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"report_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &LoadTester{
		cfg:    cfg,
		runner: loadtest.NewRunner(NewTransactionsClient(cfg), cfg.APIBaseURL, log),
		store:  store,
		fanout: fanout,
		log:    log,
	}, nil
}

// buildFanout loads the publishers file; an empty path means no publishers.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.InfoObj("no publishers file configured", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Plan returns the plan described by config.
func (l *LoadTester) Plan() loadtest.Plan {
	plan := loadtest.DefaultPlan()
	plan.Workers = l.cfg.LoadWorkers
	plan.RequestsPerWorker = l.cfg.LoadRequestsPerWorker
	return plan
}

// Run executes the plan, then stores and publishes the report. A cancelled run
// still records its partial report.
func (l *LoadTester) Run(ctx context.Context, plan loadtest.Plan) (domain.Report, error) {
	if l == nil || l.runner == nil {
		return domain.Report{}, fmt.Errorf("load tester is not initialized")
	}

	report, runErr := l.runner.Run(ctx, plan)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return report, fmt.Errorf("run load test: %w", runErr)
	}

	var errs []error
	if runErr != nil {
		errs = append(errs, fmt.Errorf("run load test: %w", runErr))
	}
	if err := l.store.SaveReport(report); err != nil {
		errs = append(errs, fmt.Errorf("save report: %w", err))
	}

	// Publishing must not be cut short by the run's cancellation.
	delivered, err := l.fanout.Publish(context.WithoutCancel(ctx), publishers.NewReportEvent(report))
	if err != nil {
		l.log.ErrorObj("report publish failed", "error", err)
		errs = append(errs, fmt.Errorf("publish report: %w", err))
	}
	l.log.InfoObj("report recorded", "report_delivery", map[string]any{
		"report_id":  report.ID,
		"publishers": l.fanout.Size(),
		"delivered":  delivered,
	})

	return report, errors.Join(errs...)
}

// History returns up to limit stored reports, newest first.
func (l *LoadTester) History(limit int) ([]domain.Report, error) {
	if l == nil || l.store == nil {
		return nil, fmt.Errorf("load tester is not initialized")
	}
	return l.store.RecentReports(limit)
}

// Close releases storage and publisher clients.
func (l *LoadTester) Close() error {
	if l == nil {
		return nil
	}
	var errs []error
	if l.store != nil {
		if err := l.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := l.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
