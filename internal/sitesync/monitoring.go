package sitesync

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

// MonitoringActions issues monitoring commands. Start and stop resync after
// the backend accepts them; CheckSiteNow does not, because the backend pushes
// a status update when the check finishes and a resync could overwrite it
// with older data.
type MonitoringActions struct {
	monitoring repo.MonitoringService
	resync     func(context.Context) error
	logger     *zap.Logger
}

// NewMonitoringActions takes the resync to run after start/stop, normally
// Coordinator.FullResyncSites.
func NewMonitoringActions(svc repo.MonitoringService, resync func(context.Context) error, opts ...Option) *MonitoringActions {
	o := newOptions(opts)
	return &MonitoringActions{
		monitoring: svc,
		resync:     resync,
		logger:     o.logger,
	}
}

func (a *MonitoringActions) StartSiteMonitorMonitoring(ctx context.Context, identifier, monitorID string) error {
	if err := requireMonitorRef("start_monitoring", identifier, monitorID); err != nil {
		return err
	}
	return a.thenResync(ctx, "start_monitoring", identifier, monitorID,
		a.monitoring.StartMonitoring(ctx, identifier, monitorID))
}

func (a *MonitoringActions) StopSiteMonitorMonitoring(ctx context.Context, identifier, monitorID string) error {
	if err := requireMonitorRef("stop_monitoring", identifier, monitorID); err != nil {
		return err
	}
	return a.thenResync(ctx, "stop_monitoring", identifier, monitorID,
		a.monitoring.StopMonitoring(ctx, identifier, monitorID))
}

// StartSiteMonitoring starts every monitor of a site.
func (a *MonitoringActions) StartSiteMonitoring(ctx context.Context, identifier string) error {
	if identifier == "" {
		return &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "start_site_monitoring"}
	}
	return a.thenResync(ctx, "start_site_monitoring", identifier, "",
		a.monitoring.StartSiteMonitoring(ctx, identifier))
}

// StopSiteMonitoring stops every monitor of a site.
func (a *MonitoringActions) StopSiteMonitoring(ctx context.Context, identifier string) error {
	if identifier == "" {
		return &domain.ValidationError{Code: domain.CodeInvalidSite, Op: "stop_site_monitoring"}
	}
	return a.thenResync(ctx, "stop_site_monitoring", identifier, "",
		a.monitoring.StopSiteMonitoring(ctx, identifier))
}

func (a *MonitoringActions) CheckSiteNow(ctx context.Context, identifier, monitorID string) error {
	if err := requireMonitorRef("check_now", identifier, monitorID); err != nil {
		return err
	}
	if err := a.monitoring.CheckSiteNow(ctx, identifier, monitorID); err != nil {
		a.logger.Warn("check_now_error", zap.String("site", identifier), zap.String("monitor", monitorID), zap.Error(err))
		return err
	}
	a.logger.Info("check_now_requested", zap.String("site", identifier), zap.String("monitor", monitorID))
	return nil
}

func (a *MonitoringActions) thenResync(ctx context.Context, op, identifier, monitorID string, callErr error) error {
	if callErr != nil {
		a.logger.Warn("monitoring_command_error",
			zap.String("op", op),
			zap.String("site", identifier),
			zap.String("monitor", monitorID),
			zap.Error(callErr),
		)
		return callErr
	}
	a.logger.Info("monitoring_command_accepted", zap.String("op", op), zap.String("site", identifier), zap.String("monitor", monitorID))
	return a.resync(ctx)
}

func requireMonitorRef(op, identifier, monitorID string) error {
	if identifier == "" {
		return &domain.ValidationError{Code: domain.CodeInvalidSite, Op: op, Monitor: monitorID}
	}
	if monitorID == "" {
		return &domain.ValidationError{Code: domain.CodeInvalidMonitor, Op: op, Site: identifier}
	}
	return nil
}
