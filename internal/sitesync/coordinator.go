package sitesync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

const resyncKey = "sites"

// Coordinator is the single authority over the local site collection.
type Coordinator struct {
	sites       repo.SiteService
	events      repo.EventChannel
	updateSites Updater
	logger      *zap.Logger
	metrics     *telemetry.SyncMetrics

	writeMu sync.Mutex

	resyncMu sync.Mutex
	inflight bool
	group    singleflight.Group
}

func NewCoordinator(sites repo.SiteService, events repo.EventChannel, get Getter, set Setter, opts ...Option) *Coordinator {
	o := newOptions(opts)
	c := &Coordinator{
		sites:       sites,
		events:      events,
		updateSites: o.updater,
		logger:      o.logger,
		metrics:     o.metrics,
	}
	if c.updateSites == nil {
		c.updateSites = lockedUpdater(&c.writeMu, get, set)
	}
	return c
}

// SyncSites fetches every site from the backend and commits the sanitized
// list with exactly one Setter call. Fetch errors are returned unchanged and
// nothing is committed.
func (c *Coordinator) SyncSites(ctx context.Context) error {
	start := time.Now()
	sites, err := c.sites.GetSites(ctx)
	c.metrics.RecordResync(ctx, time.Since(start), err == nil)
	if err != nil {
		c.logger.Warn("sync_sites_fetch_error", zap.Error(err))
		return err
	}
	c.commit(ctx, "sync", sites)
	return nil
}

// FullResyncSites runs SyncSites, sharing one fetch between every caller that
// arrives while it is in flight. The in-flight slot is released when the fetch
// returns, whatever its outcome.
//
// The fetch is detached from ctx: if ctx ends first the caller stops waiting,
// but the fetch still completes and commits.
func (c *Coordinator) FullResyncSites(ctx context.Context) error {
	c.resyncMu.Lock()
	joined := c.inflight
	c.inflight = true
	ch := c.group.DoChan(resyncKey, func() (any, error) {
		defer c.finishResync()
		return nil, c.SyncSites(context.WithoutCancel(ctx))
	})
	c.resyncMu.Unlock()

	if joined {
		c.metrics.RecordCoalesced(ctx)
		c.logger.Info("full_resync_coalesced")
	} else {
		c.logger.Debug("full_resync_started")
	}

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finishResync releases the in-flight slot. The key is forgotten under the
// same lock that sets the flag, so a caller either joins this fetch and sees
// the flag set, or starts a new fetch and sees it clear.
func (c *Coordinator) finishResync() {
	c.resyncMu.Lock()
	c.inflight = false
	c.group.Forget(resyncKey)
	c.resyncMu.Unlock()
}

// SubscribeToSyncEvents attaches one handler to the backend's state sync
// stream. The returned function detaches it and may be called repeatedly.
func (c *Coordinator) SubscribeToSyncEvents() (func(), error) {
	sub, err := c.events.OnStateSyncEvent(c.HandleSyncEvent)
	if err != nil {
		c.logger.Error("sync_events_subscribe_error", zap.Error(err))
		return func() {}, err
	}
	c.logger.Info("sync_events_subscribed")

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Cancel()
			c.logger.Info("sync_events_unsubscribed")
		})
	}, nil
}

// HandleSyncEvent applies one state sync event. It never panics and never
// returns an error; failures are logged.
func (c *Coordinator) HandleSyncEvent(ev domain.SyncEvent) {
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("sync_event_panic", zap.String("action", string(ev.Action)), zap.Any("panic", r))
		}
	}()
	c.metrics.RecordSyncEvent(ctx, string(ev.Action))

	switch ev.Action {
	case domain.SyncBulk:
		if ev.Sites == nil {
			c.logger.Error("sync_event_missing_payload", zap.String("action", string(ev.Action)))
			return
		}
		c.commit(ctx, "bulk-sync", ev.Sites)
	case domain.SyncUpdate, domain.SyncDelete:
		if ev.SiteIdentifier == "" {
			c.logger.Error("sync_event_missing_payload", zap.String("action", string(ev.Action)))
			return
		}
		if err := c.FullResyncSites(ctx); err != nil {
			c.logger.Error("sync_event_resync_error",
				zap.String("action", string(ev.Action)),
				zap.String("site", ev.SiteIdentifier),
				zap.Error(err),
			)
		}
	default:
		c.logger.Error("sync_event_unknown_action", zap.String("action", string(ev.Action)))
	}
}

// ApplyStatusUpdate replaces the matching site with the snapshot carried by
// update. An update for a site that is not in the collection is never applied;
// it triggers a full resync instead.
func (c *Coordinator) ApplyStatusUpdate(ctx context.Context, update domain.StatusUpdate) {
	id := update.Site.Identifier
	if reason := malformedReason(update.Site); reason != "" {
		c.metrics.RecordStatusUpdate(ctx, "malformed")
		c.logger.Error("status_update_malformed", zap.String("site", id), zap.String("reason", reason))
		return
	}

	known := false
	c.updateSites(func(current []domain.Site) ([]domain.Site, bool) {
		idx := indexOf(current, id)
		if idx < 0 {
			return nil, false
		}
		known = true
		next := make([]domain.Site, len(current))
		copy(next, current)
		next[idx] = update.Site.Clone()
		return next, true
	})

	if !known {
		c.metrics.RecordStatusUpdate(ctx, "unknown_site")
		c.logger.Info("status_update_unknown_site", zap.String("site", id))
		if err := c.FullResyncSites(ctx); err != nil {
			c.logger.Error("status_update_resync_error", zap.String("site", id), zap.Error(err))
		}
		return
	}

	c.metrics.RecordStatusUpdate(ctx, "applied")
	c.logger.Debug("status_update_applied",
		zap.String("site", id),
		zap.String("monitor", update.MonitorID),
		zap.String("status", string(update.Status)),
	)
}

// GetSyncStatus asks the backend for its sync summary. Any failure yields
// domain.FallbackSyncStatus.
func (c *Coordinator) GetSyncStatus(ctx context.Context) (st domain.SyncStatusSummary) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("sync_status_panic", zap.Any("panic", r))
			st = domain.FallbackSyncStatus()
		}
	}()

	st, err := c.events.GetSyncStatus(ctx)
	if err != nil {
		c.logger.Warn("sync_status_fallback", zap.Error(err))
		return domain.FallbackSyncStatus()
	}
	return st
}

func (c *Coordinator) commit(ctx context.Context, source string, sites []domain.Site) {
	clean, warnings := SanitizeSites(sites)
	logIntegrity(ctx, c.logger, c.metrics, source, warnings)
	c.updateSites(func([]domain.Site) ([]domain.Site, bool) { return clean, true })
	c.logger.Debug("sites_committed", zap.String("source", source), zap.Int("count", len(clean)))
}

func indexOf(sites []domain.Site, identifier string) int {
	for i := range sites {
		if sites[i].Identifier == identifier {
			return i
		}
	}
	return -1
}
