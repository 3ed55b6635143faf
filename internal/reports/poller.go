package reports

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

const (
	defaultInterval = 5 * time.Minute
	jobName         = "reports"
)

// PollerParams configure the report auto-refresh loop.
type PollerParams struct {
	Store    *Store
	Logger   *logger.Logger
	Metrics  *metrics.RefreshJobMetrics
	Interval time.Duration
}

// Poller refreshes the reports store on a fixed cadence. Only one refresh
// runs at a time; a tick that lands mid-refresh is skipped.
type Poller struct {
	store    *Store
	logg     *logger.Logger
	metrics  *metrics.RefreshJobMetrics
	interval time.Duration

	busy sync.Mutex
}

// NewPoller builds a poller.
func NewPoller(params PollerParams) (*Poller, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reports store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		store:    params.Store,
		logg:     params.Logger,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run refreshes immediately, then on every tick until the context is
// canceled.
func (p *Poller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.runOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "report poller context canceled")
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	if !p.busy.TryLock() {
		p.logg.Info(ctx, "report refresh still running; skipping this tick")
		return
	}
	defer p.busy.Unlock()

	refreshCtx := p.logg.WithField(ctx, "job", jobName)
	p.logg.Info(refreshCtx, "report refresh starting")
	start := time.Now()
	err := p.store.Refresh(refreshCtx)
	duration := time.Since(start)
	p.metrics.ObserveDuration(jobName, duration)
	refreshCtx = p.logg.WithField(refreshCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		p.logg.Error(refreshCtx, "report refresh failed", err)
		p.metrics.IncFailure(jobName)
		return
	}
	p.logg.Info(refreshCtx, "report refresh complete")
	p.metrics.IncSuccess(jobName)
}
