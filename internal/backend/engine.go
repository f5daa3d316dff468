// Package backend is the authoritative side of site synchronization: it owns
// persisted sites, runs probes on demand and publishes status and sync events.
package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/probe"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

var (
	_ repo.Backend      = (*Engine)(nil)
	_ repo.EventChannel = (*Engine)(nil)
)

// CheckerFactory picks the checker and target for a monitor.
type CheckerFactory func(domain.Monitor) (probe.Checker, string)

type Engine struct {
	store        repo.SiteStore
	logger       *zap.Logger
	metrics      *telemetry.BackendMetrics
	checkers     CheckerFactory
	historyLimit int
	now          func() time.Time

	// mu serializes read-modify-write cycles against the store.
	mu         sync.Mutex
	lastSyncAt time.Time

	status     map[domain.StatusCategory]*topic[domain.StatusUpdate]
	syncEvents *topic[domain.SyncEvent]
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(m *telemetry.BackendMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithHistoryLimit bounds monitor history. Values <= 0 keep the default.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithProbeOptions sets the defaults used by the built-in checker factory.
func WithProbeOptions(opts probe.Options) Option {
	return func(e *Engine) {
		e.checkers = func(m domain.Monitor) (probe.Checker, string) {
			return probe.ForMonitor(m, opts)
		}
	}
}

func WithCheckerFactory(f CheckerFactory) Option {
	return func(e *Engine) { e.checkers = f }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store repo.SiteStore, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		logger:       zap.NewNop(),
		historyLimit: domain.DefaultHistoryLimit,
		now:          func() time.Time { return time.Now().UTC() },
		checkers: func(m domain.Monitor) (probe.Checker, string) {
			return probe.ForMonitor(m, probe.Options{})
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.status = make(map[domain.StatusCategory]*topic[domain.StatusUpdate], len(domain.StatusCategories))
	for _, c := range domain.StatusCategories {
		e.status[c] = newTopic[domain.StatusUpdate](string(c), e.logger)
	}
	e.syncEvents = newTopic[domain.SyncEvent]("state-sync", e.logger)
	return e
}

// ---- SiteService ----

func (e *Engine) GetSites(ctx context.Context) ([]domain.Site, error) {
	sites, err := e.store.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// AddSite stores a new site. Missing identifiers are generated; every
// monitor starts monitoring in the pending state.
func (e *Engine) AddSite(ctx context.Context, site domain.Site) (domain.Site, error) {
	const op = "add_site"
	if strings.TrimSpace(site.Name) == "" || len(site.Monitors) == 0 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: op, Site: site.Identifier}
	}
	site = site.Clone()
	if site.Identifier == "" {
		site.Identifier = uuid.NewString()
	}
	seen := make(map[string]struct{}, len(site.Monitors))
	for i := range site.Monitors {
		m := &site.Monitors[i]
		if err := m.Validate(); err != nil {
			return domain.Site{}, err
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, dup := seen[m.ID]; dup {
			return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: op, Site: site.Identifier, Monitor: m.ID}
		}
		seen[m.ID] = struct{}{}
		m.Monitoring = true
		m.Status = domain.StatusPending
		m.History = nil
		m.LastChecked = nil
		m.ResponseTime = 0
	}
	site.Monitoring = site.AnyMonitoring()

	e.mu.Lock()
	existing, err := e.store.GetSite(ctx, site.Identifier)
	if err == nil && existing != nil {
		e.mu.Unlock()
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: op, Site: site.Identifier}
	}
	if err == nil {
		err = e.store.UpsertSite(ctx, site)
	}
	if err == nil {
		e.touch()
	}
	e.mu.Unlock()
	if err != nil {
		return domain.Site{}, fmt.Errorf("%s: %w", op, err)
	}

	e.mutated(ctx, op, domain.SyncUpdate, site.Identifier)
	return site, nil
}

func (e *Engine) RemoveSite(ctx context.Context, identifier string) error {
	const op = "remove_site"
	e.mu.Lock()
	ok, err := e.store.DeleteSite(ctx, identifier)
	if err == nil && ok {
		e.touch()
	}
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return &domain.ValidationError{Code: domain.CodeSiteNotFound, Op: op, Site: identifier}
	}

	e.mutated(ctx, op, domain.SyncDelete, identifier)
	return nil
}

// UpdateSite applies the non-nil fields of update. Monitors in the update
// replace the monitor list: known ids keep their runtime state, new entries
// are created pending.
func (e *Engine) UpdateSite(ctx context.Context, identifier string, update domain.SiteUpdate) (domain.Site, error) {
	const op = "update_site"
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: op, Site: identifier}
	}
	for _, m := range update.Monitors {
		if err := m.Validate(); err != nil {
			return domain.Site{}, err
		}
	}

	updated, err := e.modify(ctx, op, identifier, func(site *domain.Site) error {
		if update.Name != nil {
			site.Name = strings.TrimSpace(*update.Name)
		}
		if len(update.Monitors) > 0 {
			monitors, err := mergeMonitors(identifier, site.Monitors, update.Monitors)
			if err != nil {
				return err
			}
			site.Monitors = monitors
		}
		if update.Monitoring != nil {
			for i := range site.Monitors {
				site.Monitors[i] = withMonitoring(site.Monitors[i], *update.Monitoring)
			}
		}
		site.Monitoring = site.AnyMonitoring()
		return nil
	})
	if err != nil {
		return domain.Site{}, err
	}
	e.mutated(ctx, op, domain.SyncUpdate, identifier)
	return updated, nil
}

func (e *Engine) RemoveMonitor(ctx context.Context, identifier, monitorID string) (domain.Site, error) {
	const op = "remove_monitor"
	updated, err := e.modify(ctx, op, identifier, func(site *domain.Site) error {
		if _, ok := site.Monitor(monitorID); !ok {
			return &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: op, Site: identifier, Monitor: monitorID}
		}
		if len(site.Monitors) <= 1 {
			return &domain.ValidationError{Code: domain.CodeCannotRemoveLast, Op: op, Site: identifier, Monitor: monitorID}
		}
		kept := make([]domain.Monitor, 0, len(site.Monitors)-1)
		for _, m := range site.Monitors {
			if m.ID != monitorID {
				kept = append(kept, m)
			}
		}
		site.Monitors = kept
		site.Monitoring = site.AnyMonitoring()
		return nil
	})
	if err != nil {
		return domain.Site{}, err
	}
	e.mutated(ctx, op, domain.SyncUpdate, identifier)
	return updated, nil
}

// ---- MonitoringService ----

func (e *Engine) StartMonitoring(ctx context.Context, identifier, monitorID string) error {
	return e.setMonitoring(ctx, "start_monitoring", identifier, monitorID, true)
}

func (e *Engine) StopMonitoring(ctx context.Context, identifier, monitorID string) error {
	return e.setMonitoring(ctx, "stop_monitoring", identifier, monitorID, false)
}

func (e *Engine) StartSiteMonitoring(ctx context.Context, identifier string) error {
	return e.setMonitoring(ctx, "start_site_monitoring", identifier, "", true)
}

func (e *Engine) StopSiteMonitoring(ctx context.Context, identifier string) error {
	return e.setMonitoring(ctx, "stop_site_monitoring", identifier, "", false)
}

// CheckSiteNow probes one monitor, records the sample and publishes the
// resulting status. The probe runs outside the store lock; the sample is
// applied to whatever the site looks like when the probe finishes.
func (e *Engine) CheckSiteNow(ctx context.Context, identifier, monitorID string) error {
	const op = "check_now"
	site, err := e.store.GetSite(ctx, identifier)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if site == nil {
		return &domain.ValidationError{Code: domain.CodeSiteNotFound, Op: op, Site: identifier}
	}
	m, ok := site.Monitor(monitorID)
	if !ok {
		return &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: op, Site: identifier, Monitor: monitorID}
	}

	checker, target := e.checkers(m)
	result := checker.Check(ctx, target)
	sample := probe.Sample(result, e.now())
	e.metrics.RecordCheck(ctx, string(sample.Status))
	e.logger.Info("check_completed",
		zap.String("site", identifier),
		zap.String("monitor", monitorID),
		zap.String("target", target),
		zap.Bool("up", result.Success),
		zap.Float64("latency_ms", result.LatencyMS),
		zap.String("message", result.Message),
	)

	var previous domain.MonitorStatus
	updated, err := e.modify(ctx, op, identifier, func(s *domain.Site) error {
		current, ok := s.Monitor(monitorID)
		if !ok {
			return &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: op, Site: identifier, Monitor: monitorID}
		}
		previous = current.Status
		*s = s.WithMonitor(current.WithSample(sample, e.historyLimit))
		return nil
	})
	if err != nil {
		return err
	}

	update := domain.StatusUpdate{
		Site:           updated,
		MonitorID:      monitorID,
		Status:         sample.Status,
		PreviousStatus: previous,
		Timestamp:      sample.Timestamp,
	}
	category := domain.CategoryMonitorDown
	if sample.Status == domain.StatusUp {
		category = domain.CategoryMonitorUp
	}
	e.publishStatus(ctx, category, update)
	if previous != sample.Status {
		e.publishStatus(ctx, domain.CategoryStatusChanged, update)
	}
	return nil
}

// ---- EventChannel ----

func (e *Engine) StatusCategories() []domain.StatusCategory {
	return append([]domain.StatusCategory(nil), domain.StatusCategories...)
}

func (e *Engine) OnStatusUpdate(category domain.StatusCategory, handler func(domain.StatusUpdate)) (repo.Subscription, error) {
	t, ok := e.status[category]
	if !ok {
		return nil, fmt.Errorf("unknown status category %q", category)
	}
	if handler == nil {
		return nil, fmt.Errorf("nil handler for %q", category)
	}
	return t.subscribe(handler), nil
}

func (e *Engine) OnStateSyncEvent(handler func(domain.SyncEvent)) (repo.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("nil state sync handler")
	}
	return e.syncEvents.subscribe(handler), nil
}

func (e *Engine) GetSyncStatus(ctx context.Context) (domain.SyncStatusSummary, error) {
	sites, err := e.store.ListSites(ctx)
	if err != nil {
		return domain.SyncStatusSummary{}, fmt.Errorf("sync status: %w", err)
	}
	e.mu.Lock()
	last := e.lastSyncAt
	e.mu.Unlock()

	st := domain.SyncStatusSummary{
		SiteCount:    len(sites),
		Synchronized: true,
		Source:       domain.SourceDatabase,
	}
	if !last.IsZero() {
		st.LastSyncAt = &last
	}
	return st, nil
}

// RequestFullSync publishes a bulk-sync event carrying every site.
func (e *Engine) RequestFullSync(ctx context.Context) error {
	sites, err := e.GetSites(ctx)
	if err != nil {
		return err
	}
	e.publishSync(ctx, domain.SyncEvent{
		Action:    domain.SyncBulk,
		Sites:     sites,
		Source:    domain.SourceDatabase,
		Timestamp: e.now(),
	})
	return nil
}

// Subscribers reports attached listeners per stream, for diagnostics.
func (e *Engine) Subscribers() map[string]int {
	out := make(map[string]int, len(e.status)+1)
	for c, t := range e.status {
		out[string(c)] = t.len()
	}
	out["state-sync"] = e.syncEvents.len()
	return out
}

// Close detaches every subscriber.
func (e *Engine) Close() {
	for _, t := range e.status {
		t.closeAll()
	}
	e.syncEvents.closeAll()
}

// ---- internals ----

func (e *Engine) setMonitoring(ctx context.Context, op, identifier, monitorID string, on bool) error {
	updated, err := e.modify(ctx, op, identifier, func(site *domain.Site) error {
		if monitorID == "" {
			for i := range site.Monitors {
				site.Monitors[i] = withMonitoring(site.Monitors[i], on)
			}
			site.Monitoring = site.AnyMonitoring()
			return nil
		}
		m, ok := site.Monitor(monitorID)
		if !ok {
			return &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: op, Site: identifier, Monitor: monitorID}
		}
		*site = site.WithMonitor(withMonitoring(m, on))
		return nil
	})
	if err != nil {
		return err
	}

	category := domain.CategoryMonitoringStopped
	if on {
		category = domain.CategoryMonitoringStarted
	}
	e.metrics.RecordMutation(ctx, op)
	e.logger.Info("monitoring_changed", zap.String("op", op), zap.String("site", identifier), zap.String("monitor", monitorID))
	e.publishStatus(ctx, category, domain.StatusUpdate{
		Site:      updated,
		MonitorID: monitorID,
		Timestamp: e.now(),
	})
	return nil
}

// modify loads a site, applies change and stores the result, all under mu.
func (e *Engine) modify(ctx context.Context, op, identifier string, change func(*domain.Site) error) (domain.Site, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	site, err := e.store.GetSite(ctx, identifier)
	if err != nil {
		return domain.Site{}, fmt.Errorf("%s: %w", op, err)
	}
	if site == nil {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeSiteNotFound, Op: op, Site: identifier}
	}
	next := site.Clone()
	if err := change(&next); err != nil {
		return domain.Site{}, err
	}
	if err := e.store.UpsertSite(ctx, next); err != nil {
		return domain.Site{}, fmt.Errorf("%s: %w", op, err)
	}
	e.touch()
	return next, nil
}

// touch records a store write. Callers hold mu.
func (e *Engine) touch() {
	e.lastSyncAt = e.now()
}

func (e *Engine) mutated(ctx context.Context, op string, action domain.SyncAction, identifier string) {
	e.metrics.RecordMutation(ctx, op)
	e.logger.Info("site_mutated", zap.String("op", op), zap.String("site", identifier))
	e.publishSync(ctx, domain.SyncEvent{
		Action:         action,
		SiteIdentifier: identifier,
		Source:         domain.SourceDatabase,
		Timestamp:      e.now(),
	})
}

func (e *Engine) publishStatus(ctx context.Context, category domain.StatusCategory, update domain.StatusUpdate) {
	delivered, dropped := e.status[category].publish(update)
	e.recordPublish(ctx, string(category), delivered, dropped)
}

func (e *Engine) publishSync(ctx context.Context, ev domain.SyncEvent) {
	delivered, dropped := e.syncEvents.publish(ev)
	e.recordPublish(ctx, "state-sync:"+string(ev.Action), delivered, dropped)
}

func (e *Engine) recordPublish(ctx context.Context, stream string, delivered, dropped int) {
	for i := 0; i < delivered; i++ {
		e.metrics.RecordEvent(ctx, stream, true)
	}
	for i := 0; i < dropped; i++ {
		e.metrics.RecordEvent(ctx, stream, false)
	}
	if dropped > 0 {
		e.logger.Warn("event_dropped", zap.String("stream", stream), zap.Int("subscribers", dropped))
	}
}

func withMonitoring(m domain.Monitor, on bool) domain.Monitor {
	m = m.Clone()
	m.Monitoring = on
	if on {
		m.Status = domain.StatusPending
	} else {
		m.Status = domain.StatusPaused
	}
	return m
}

// mergeMonitors builds the new monitor list. Configuration comes from next;
// runtime state of monitors that already exist is carried over.
func mergeMonitors(identifier string, current, next []domain.Monitor) ([]domain.Monitor, error) {
	byID := make(map[string]domain.Monitor, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}
	out := make([]domain.Monitor, 0, len(next))
	seen := make(map[string]struct{}, len(next))
	for _, m := range next {
		m = m.Clone()
		if prev, ok := byID[m.ID]; ok && m.ID != "" {
			m.Monitoring = prev.Monitoring
			m.Status = prev.Status
			m.ResponseTime = prev.ResponseTime
			m.LastChecked = prev.LastChecked
			m.History = prev.History
		} else {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			m.Monitoring = true
			m.Status = domain.StatusPending
			m.ResponseTime = 0
			m.LastChecked = nil
			m.History = nil
		}
		if _, dup := seen[m.ID]; dup {
			return nil, &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: "update_site", Site: identifier, Monitor: m.ID}
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}
