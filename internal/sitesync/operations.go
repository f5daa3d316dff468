package sitesync

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

// Operations is the mutation surface. Each method checks local preconditions,
// makes exactly one backend call and, on success, puts the site returned by
// the backend into the collection by identifier. Backend errors are returned
// unchanged and leave the collection untouched.
type Operations struct {
	sites       repo.SiteService
	getSites    Getter
	updateSites Updater
	logger      *zap.Logger
	metrics     *telemetry.SyncMetrics

	writeMu sync.Mutex
}

func NewOperations(sites repo.SiteService, get Getter, set Setter, opts ...Option) *Operations {
	o := newOptions(opts)
	ops := &Operations{
		sites:       sites,
		getSites:    get,
		updateSites: o.updater,
		logger:      o.logger,
		metrics:     o.metrics,
	}
	if ops.updateSites == nil {
		ops.updateSites = lockedUpdater(&ops.writeMu, get, set)
	}
	return ops
}

func (o *Operations) CreateSite(ctx context.Context, site domain.Site) (domain.Site, error) {
	if strings.TrimSpace(site.Name) == "" || len(site.Monitors) == 0 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "create_site", Site: site.Identifier}
	}
	for _, m := range site.Monitors {
		if err := m.Validate(); err != nil {
			return domain.Site{}, err
		}
	}

	created, err := o.sites.AddSite(ctx, site)
	if err != nil {
		o.logger.Warn("create_site_error", zap.String("name", site.Name), zap.Error(err))
		return domain.Site{}, err
	}
	o.replace(created)
	o.logger.Info("site_created", zap.String("site", created.Identifier), zap.Int("monitors", len(created.Monitors)))
	return created, nil
}

func (o *Operations) RemoveSite(ctx context.Context, identifier string) error {
	if identifier == "" {
		return &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "remove_site"}
	}
	if err := o.sites.RemoveSite(ctx, identifier); err != nil {
		o.logger.Warn("remove_site_error", zap.String("site", identifier), zap.Error(err))
		return err
	}

	o.updateSites(func(current []domain.Site) ([]domain.Site, bool) {
		next := make([]domain.Site, 0, len(current))
		for _, s := range current {
			if s.Identifier != identifier {
				next = append(next, s)
			}
		}
		return next, true
	})
	o.logger.Info("site_removed", zap.String("site", identifier))
	return nil
}

func (o *Operations) UpdateSite(ctx context.Context, identifier string, update domain.SiteUpdate) (domain.Site, error) {
	if identifier == "" {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "update_site"}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "update_site", Site: identifier}
	}
	for _, m := range update.Monitors {
		if err := m.Validate(); err != nil {
			return domain.Site{}, err
		}
	}
	return o.update(ctx, "update_site", identifier, update)
}

// AddMonitorToSite appends monitor to the site's monitors.
func (o *Operations) AddMonitorToSite(ctx context.Context, identifier string, monitor domain.Monitor) (domain.Site, error) {
	site, err := o.localSite("add_monitor", identifier)
	if err != nil {
		return domain.Site{}, err
	}
	if err := monitor.Validate(); err != nil {
		return domain.Site{}, err
	}

	monitors := site.Clone().Monitors
	monitors = append(monitors, monitor)
	return o.update(ctx, "add_monitor", identifier, domain.SiteUpdate{Monitors: monitors})
}

// RemoveMonitorFromSite refuses to remove the last monitor of a site without
// calling the backend. Removal makes no separate stop-monitoring call; the
// backend drops the monitor's schedule as part of the removal.
func (o *Operations) RemoveMonitorFromSite(ctx context.Context, identifier, monitorID string) (domain.Site, error) {
	site, err := o.localSite("remove_monitor", identifier)
	if err != nil {
		return domain.Site{}, err
	}
	if _, ok := site.Monitor(monitorID); !ok {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: "remove_monitor", Site: identifier, Monitor: monitorID}
	}
	if len(site.Monitors) <= 1 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeCannotRemoveLast, Op: "remove_monitor", Site: identifier, Monitor: monitorID}
	}

	updated, err := o.sites.RemoveMonitor(ctx, identifier, monitorID)
	if err != nil {
		o.logger.Warn("remove_monitor_error", zap.String("site", identifier), zap.String("monitor", monitorID), zap.Error(err))
		return domain.Site{}, err
	}
	o.replace(updated)
	o.logger.Info("monitor_removed", zap.String("site", identifier), zap.String("monitor", monitorID))
	return updated, nil
}

func (o *Operations) UpdateMonitorTimeout(ctx context.Context, identifier, monitorID string, timeout time.Duration) (domain.Site, error) {
	if timeout <= 0 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: "update_monitor_timeout", Site: identifier, Monitor: monitorID}
	}
	return o.updateMonitor(ctx, "update_monitor_timeout", identifier, monitorID, func(m *domain.Monitor) {
		m.TimeoutMS = timeout.Milliseconds()
	})
}

func (o *Operations) UpdateMonitorRetryAttempts(ctx context.Context, identifier, monitorID string, attempts int) (domain.Site, error) {
	if attempts < 0 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: "update_monitor_retries", Site: identifier, Monitor: monitorID}
	}
	return o.updateMonitor(ctx, "update_monitor_retries", identifier, monitorID, func(m *domain.Monitor) {
		m.RetryAttempts = attempts
	})
}

func (o *Operations) UpdateSiteCheckInterval(ctx context.Context, identifier, monitorID string, interval time.Duration) (domain.Site, error) {
	if interval <= 0 {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: "update_check_interval", Site: identifier, Monitor: monitorID}
	}
	return o.updateMonitor(ctx, "update_check_interval", identifier, monitorID, func(m *domain.Monitor) {
		m.CheckIntervalMS = interval.Milliseconds()
	})
}

// DownloadBackup does not touch the collection.
func (o *Operations) DownloadBackup(ctx context.Context) (domain.BackupPayload, error) {
	payload, err := o.sites.DownloadBackup(ctx)
	if err != nil {
		o.logger.Warn("download_backup_error", zap.Error(err))
		return domain.BackupPayload{}, err
	}
	o.logger.Info("backup_downloaded", zap.String("file", payload.FileName), zap.Int("bytes", len(payload.Data)))
	return payload, nil
}

// RestoreBackup replaces the collection with the sites the backend restored.
func (o *Operations) RestoreBackup(ctx context.Context, payload domain.BackupPayload) error {
	if len(payload.Data) == 0 {
		return &domain.ValidationError{Code: domain.CodeInvalidBackup, Op: "restore_backup"}
	}
	sites, err := o.sites.RestoreBackup(ctx, payload)
	if err != nil {
		o.logger.Warn("restore_backup_error", zap.String("file", payload.FileName), zap.Error(err))
		return err
	}

	clean, warnings := SanitizeSites(sites)
	logIntegrity(ctx, o.logger, o.metrics, "restore", warnings)
	o.updateSites(func([]domain.Site) ([]domain.Site, bool) { return clean, true })
	o.logger.Info("backup_restored", zap.String("file", payload.FileName), zap.Int("sites", len(clean)))
	return nil
}

func (o *Operations) updateMonitor(ctx context.Context, op, identifier, monitorID string, change func(*domain.Monitor)) (domain.Site, error) {
	site, err := o.localSite(op, identifier)
	if err != nil {
		return domain.Site{}, err
	}
	monitor, ok := site.Monitor(monitorID)
	if !ok {
		return domain.Site{}, &domain.ValidationError{Code: domain.CodeMonitorNotFound, Op: op, Site: identifier, Monitor: monitorID}
	}

	monitor = monitor.Clone()
	change(&monitor)
	next := site.WithMonitor(monitor)
	return o.update(ctx, op, identifier, domain.SiteUpdate{Monitors: next.Monitors})
}

func (o *Operations) update(ctx context.Context, op, identifier string, update domain.SiteUpdate) (domain.Site, error) {
	updated, err := o.sites.UpdateSite(ctx, identifier, update)
	if err != nil {
		o.logger.Warn("update_site_error", zap.String("op", op), zap.String("site", identifier), zap.Error(err))
		return domain.Site{}, err
	}
	o.replace(updated)
	o.logger.Info("site_updated", zap.String("op", op), zap.String("site", identifier))
	return updated, nil
}

func (o *Operations) localSite(op, identifier string) (domain.Site, error) {
	for _, s := range o.getSites() {
		if s.Identifier == identifier {
			return s, nil
		}
	}
	return domain.Site{}, &domain.ValidationError{Code: domain.CodeSiteNotFound, Op: op, Site: identifier}
}

// replace puts site into the collection in place of the entry with the same
// identifier, or appends it.
func (o *Operations) replace(site domain.Site) {
	o.updateSites(func(current []domain.Site) ([]domain.Site, bool) {
		next := make([]domain.Site, len(current), len(current)+1)
		copy(next, current)
		if i := indexOf(next, site.Identifier); i >= 0 {
			next[i] = site
			return next, true
		}
		return append(next, site), true
	})
}
