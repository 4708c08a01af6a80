// Package loadtest drives concurrent create requests against the transactions backend.
package loadtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankdesk/bank-console/internal/domain"
	"github.com/bankdesk/bank-console/internal/logger"
	"github.com/bankdesk/bank-console/pkg/transactions"
)

const (
	DefaultWorkers           = 100
	DefaultRequestsPerWorker = 200
)

// Creator is the subset of the transactions client the runner exercises.
type Creator interface {
	Create(ctx context.Context, tx *transactions.Transaction) (*transactions.Transaction, error)
}

// Plan describes one run: Workers goroutines each sending RequestsPerWorker creates.
type Plan struct {
	Workers           int
	RequestsPerWorker int
	Template          transactions.Transaction
}

// DefaultTemplate is the record posted by every request unless the plan overrides it.
func DefaultTemplate() transactions.Transaction {
	return transactions.Transaction{
		Type:          transactions.TypeDeposit,
		Status:        transactions.StatusSuccess,
		Amount:        decimal.RequireFromString("100.00"),
		Currency:      transactions.CurrencyCNY,
		AccountNumber: "622202020000000000",
		UserName:      "load-test",
		Channel:       transactions.ChannelCounter,
		Description:   "load test",
	}
}

// DefaultPlan mirrors the reference pressure test: 100 workers x 200 requests.
func DefaultPlan() Plan {
	return Plan{
		Workers:           DefaultWorkers,
		RequestsPerWorker: DefaultRequestsPerWorker,
		Template:          DefaultTemplate(),
	}
}

func (p Plan) validate() error {
	if p.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", p.Workers)
	}
	if p.RequestsPerWorker <= 0 {
		return fmt.Errorf("requests per worker must be positive, got %d", p.RequestsPerWorker)
	}
	return nil
}

// Runner executes plans through a Creator.
type Runner struct {
	creator Creator
	target  string
	log     logger.Logger
	now     func() time.Time
}

// NewRunner wires a runner. target is recorded in reports for reference only.
func NewRunner(creator Creator, target string, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Runner{
		creator: creator,
		target:  target,
		log:     log,
		now:     time.Now,
	}
}

// Run executes the plan and returns its report. When ctx is cancelled, workers stop
// between requests and the partial report is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, plan Plan) (domain.Report, error) {
	if r == nil || r.creator == nil {
		return domain.Report{}, fmt.Errorf("load test runner is not initialized")
	}
	if err := plan.validate(); err != nil {
		return domain.Report{}, err
	}

	start := r.now()
	r.log.InfoObj("load test started", "load_plan", map[string]any{
		"target":              r.target,
		"workers":             plan.Workers,
		"requests_per_worker": plan.RequestsPerWorker,
	})

	t := &tally{}
	var wg sync.WaitGroup
	for w := 0; w < plan.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r.runWorker(ctx, worker, plan, t)
		}(w)
	}
	wg.Wait()

	report := t.report(start, r.now().Sub(start))
	report.ID = uuid.NewString()
	report.Target = r.target
	report.Workers = plan.Workers

	r.log.InfoObj("load test completed", "load_report", report)
	return report, ctx.Err()
}

func (r *Runner) runWorker(ctx context.Context, worker int, plan Plan, t *tally) {
	for i := 0; i < plan.RequestsPerWorker; i++ {
		if ctx.Err() != nil {
			return
		}

		tx := plan.Template
		begin := r.now()
		_, err := r.creator.Create(ctx, &tx)
		latency := r.now().Sub(begin)
		if err != nil && ctx.Err() != nil {
			// Cut short by cancellation, not answered by the backend.
			return
		}

		o := classify(err)
		t.add(o, latency, answered(err))
		if o == outcomeFailed {
			r.log.DebugObj("load test request failed", "load_failure", map[string]any{
				"worker": worker,
				"error":  err.Error(),
			})
		}
	}
}

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeDegraded
	outcomeFailed
)

func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeSucceeded
	case transactions.IsDegraded(err):
		return outcomeDegraded
	default:
		return outcomeFailed
	}
}

// answered reports whether the backend produced a response, so the latency is meaningful.
func answered(err error) bool {
	if err == nil {
		return true
	}
	var (
		apiErr    *transactions.APIError
		statusErr *transactions.StatusError
		decodeErr *transactions.DecodeError
	)
	return errors.As(err, &apiErr) || errors.As(err, &statusErr) || errors.As(err, &decodeErr)
}

// tally aggregates outcomes across workers.
type tally struct {
	mu        sync.Mutex
	total     int
	succeeded int
	degraded  int
	failed    int
	samples   int
	sum       time.Duration
	min       time.Duration
	max       time.Duration
}

func (t *tally) add(o outcome, latency time.Duration, record bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	switch o {
	case outcomeSucceeded:
		t.succeeded++
	case outcomeDegraded:
		t.degraded++
	default:
		t.failed++
	}

	if !record {
		return
	}
	if t.samples == 0 || latency < t.min {
		t.min = latency
	}
	if latency > t.max {
		t.max = latency
	}
	t.sum += latency
	t.samples++
}

func (t *tally) report(start time.Time, elapsed time.Duration) domain.Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	rep := domain.Report{
		StartedAt:     start.UTC(),
		TotalRequests: t.total,
		Succeeded:     t.succeeded,
		Degraded:      t.degraded,
		Failed:        t.failed,
		Duration:      elapsed,
		MinLatency:    t.min,
		MaxLatency:    t.max,
	}
	if t.samples > 0 {
		rep.AvgLatency = t.sum / time.Duration(t.samples)
	}
	if elapsed > 0 {
		rep.Throughput = float64(t.total) / elapsed.Seconds()
	}
	return rep
}
