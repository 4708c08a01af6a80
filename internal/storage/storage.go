package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/bankdesk/bank-console/internal/domain"
)

// Package storage keeps load-test reports between runs.

// Store persists load-test reports.
type Store interface {
	Close() error
	SaveReport(report domain.Report) error
	RecentReports(limit int) ([]domain.Report, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ReportTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultReportTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ReportTTL <= 0 {
		opts.ReportTTL = defaultReportTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                { return nil }
func (noopStore) SaveReport(domain.Report) error              { return nil }
func (noopStore) RecentReports(int) ([]domain.Report, error) { return nil, nil }
