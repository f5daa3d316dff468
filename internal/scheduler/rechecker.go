// Package scheduler runs due monitor checks on a fixed tick.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
)

// Backend is the slice of the site backend the rechecker needs.
type Backend interface {
	GetSites(ctx context.Context) ([]domain.Site, error)
	CheckSiteNow(ctx context.Context, identifier, monitorID string) error
}

type Rechecker struct {
	Logger      *zap.Logger
	Backend     Backend
	Tick        time.Duration
	Timeout     time.Duration
	Concurrency int
	// DefaultInterval applies to monitors whose CheckIntervalMS is 0.
	DefaultInterval time.Duration

	now func() time.Time
}

func NewRechecker(
	logger *zap.Logger,
	backend Backend,
	tick time.Duration,
	timeout time.Duration,
	concurrency int,
	defaultInterval time.Duration,
) *Rechecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if tick < 0 {
		tick = 0
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if defaultInterval <= 0 {
		defaultInterval = tick
	}
	return &Rechecker{
		Logger:          logger,
		Backend:         backend,
		Tick:            tick,
		Timeout:         timeout,
		Concurrency:     concurrency,
		DefaultInterval: defaultInterval,
		now:             time.Now,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (r *Rechecker) Run(ctx context.Context) {
	if r.Tick == 0 {
		// disabled
		r.Logger.Info("rechecker_disabled")
		return
	}
	t := time.NewTicker(r.Tick)
	defer t.Stop()

	// immediate pass
	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("rechecker_stopped")
			return
		case <-t.C:
			r.runOnce(ctx)
		}
	}
}

type dueCheck struct {
	site    string
	monitor string
}

// due lists monitored monitors whose interval has elapsed since their last check.
func (r *Rechecker) due(sites []domain.Site) []dueCheck {
	now := r.now()
	var out []dueCheck
	for _, s := range sites {
		for _, m := range s.Monitors {
			if !m.Monitoring {
				continue
			}
			interval := time.Duration(m.CheckIntervalMS) * time.Millisecond
			if interval <= 0 {
				interval = r.DefaultInterval
			}
			if m.LastChecked != nil && now.Sub(*m.LastChecked) < interval {
				continue
			}
			out = append(out, dueCheck{site: s.Identifier, monitor: m.ID})
		}
	}
	return out
}

func (r *Rechecker) runOnce(ctx context.Context) {
	sites, err := r.Backend.GetSites(ctx)
	if err != nil {
		r.Logger.Warn("rechecker_list_error", zap.Error(err))
		return
	}
	checks := r.due(sites)
	if len(checks) == 0 {
		return
	}

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for _, c := range checks {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			if err := r.Backend.CheckSiteNow(cctx, c.site, c.monitor); err != nil {
				r.Logger.Warn("rechecker_check_error",
					zap.String("site", c.site),
					zap.String("monitor", c.monitor),
					zap.Error(err),
				)
				return
			}
			r.Logger.Debug("rechecker_checked",
				zap.String("site", c.site),
				zap.String("monitor", c.monitor),
			)
		}()
	}

	wg.Wait()
}
