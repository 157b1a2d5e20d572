// Package poller keeps the tenant snapshot fresh. The console treats
// the platform as the single source of truth: a repeating task refetches
// the full snapshot on a fixed interval, and admin mutations force an
// immediate refresh. Start and Stop are deterministic so tests and
// shutdown control the lifecycle explicitly.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("poller")

// FetchFunc loads the current tenant collection from the platform.
type FetchFunc func(ctx context.Context) ([]domain.TenantSnapshot, error)

// Poller periodically refreshes the tenant snapshot. At most one fetch
// is in flight; each completed fetch replaces the snapshot wholesale
// (last response wins — responses are full snapshots, not deltas).
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu        sync.RWMutex
	tenants   []domain.TenantSnapshot
	fetchedAt time.Time
	loaded    bool
	fetching  bool

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a poller. It does not start fetching until Start.
func New(fetch FetchFunc, interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Poller {
	return &Poller{
		fetch:    fetch,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the repeating task: one immediate fetch, then one per
// interval until Stop or ctx cancellation. Subsequent calls are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		ctx, p.cancel = context.WithCancel(ctx)
		go p.run(ctx)
	})
}

// Stop cancels the repeating task and waits for it to exit.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
			<-p.done
		}
	})
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("initial snapshot fetch failed", zap.Error(err))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Warn("snapshot refresh failed", zap.Error(err))
			}
		}
	}
}

// Refresh performs one fetch now and installs the result. If another
// fetch is already in flight the call returns immediately — the running
// fetch's response will be the authoritative one.
func (p *Poller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.fetching {
		p.mu.Unlock()
		return nil
	}
	p.fetching = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.fetching = false
		p.mu.Unlock()
	}()

	ctx, span := tracer.Start(ctx, "Poller.Refresh")
	defer span.End()

	start := time.Now()
	tenants, err := p.fetch(ctx)
	if p.metrics != nil {
		p.metrics.RecordPoll(time.Since(start), err)
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.tenants = tenants
	p.fetchedAt = time.Now()
	p.loaded = true
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.SetTenantCount(len(tenants))
	}
	p.logger.Debug("snapshot refreshed",
		zap.Int("tenants", len(tenants)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Snapshot returns the latest tenant collection, when it was fetched,
// and whether any snapshot has loaded yet. Callers get a shared
// read-only slice; they must not mutate it.
func (p *Poller) Snapshot() ([]domain.TenantSnapshot, time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tenants, p.fetchedAt, p.loaded
}
