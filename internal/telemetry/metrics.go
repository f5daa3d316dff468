// Package telemetry provides OpenTelemetry metrics for the sync core and the
// reference backend.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMeterName is the meter used by the client-side sync core
	SyncMeterName = "github.com/hamed0406/sitesync/sync"

	// BackendMeterName is the meter used by the backend engine
	BackendMeterName = "github.com/hamed0406/sitesync/backend"
)

// SyncMetrics holds the instruments recorded by the sync core. A nil
// *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	resyncs           metric.Int64Counter
	resyncDuration    metric.Float64Histogram
	coalesced         metric.Int64Counter
	syncEvents        metric.Int64Counter
	statusUpdates     metric.Int64Counter
	integrityWarnings metric.Int64Counter
}

// NewSyncMetrics creates the sync instruments. If provider is nil, it returns
// nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}
	meter := provider.Meter(SyncMeterName)

	resyncs, err := meter.Int64Counter(
		"sitesync_resyncs_total",
		metric.WithDescription("Full site fetches by result"),
	)
	if err != nil {
		return nil, err
	}
	resyncDuration, err := meter.Float64Histogram(
		"sitesync_resync_duration_seconds",
		metric.WithDescription("Duration of full site fetches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}
	coalesced, err := meter.Int64Counter(
		"sitesync_resyncs_coalesced_total",
		metric.WithDescription("Resync calls that joined an in-flight fetch"),
	)
	if err != nil {
		return nil, err
	}
	syncEvents, err := meter.Int64Counter(
		"sitesync_sync_events_total",
		metric.WithDescription("State sync events received by action"),
	)
	if err != nil {
		return nil, err
	}
	statusUpdates, err := meter.Int64Counter(
		"sitesync_status_updates_total",
		metric.WithDescription("Status updates received by outcome"),
	)
	if err != nil {
		return nil, err
	}
	integrityWarnings, err := meter.Int64Counter(
		"sitesync_integrity_warnings_total",
		metric.WithDescription("Snapshot sanitization warnings by kind"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		resyncs:           resyncs,
		resyncDuration:    resyncDuration,
		coalesced:         coalesced,
		syncEvents:        syncEvents,
		statusUpdates:     statusUpdates,
		integrityWarnings: integrityWarnings,
	}, nil
}

// RecordResync records one completed full fetch.
func (m *SyncMetrics) RecordResync(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.resyncs.Add(ctx, 1, attrs)
	m.resyncDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *SyncMetrics) RecordCoalesced(ctx context.Context) {
	if m == nil {
		return
	}
	m.coalesced.Add(ctx, 1)
}

func (m *SyncMetrics) RecordSyncEvent(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.syncEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

func (m *SyncMetrics) RecordStatusUpdate(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.statusUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *SyncMetrics) RecordIntegrityWarning(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.integrityWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// BackendMetrics holds the instruments recorded by the backend engine.
type BackendMetrics struct {
	mutations       metric.Int64Counter
	checks          metric.Int64Counter
	eventsPublished metric.Int64Counter
	eventsDropped   metric.Int64Counter
}

// NewBackendMetrics creates the backend instruments. If provider is nil, it
// returns nil (no-op metrics).
func NewBackendMetrics(provider metric.MeterProvider) (*BackendMetrics, error) {
	if provider == nil {
		return nil, nil
	}
	meter := provider.Meter(BackendMeterName)

	mutations, err := meter.Int64Counter(
		"sitesync_backend_mutations_total",
		metric.WithDescription("Accepted site mutations by operation"),
	)
	if err != nil {
		return nil, err
	}
	checks, err := meter.Int64Counter(
		"sitesync_backend_checks_total",
		metric.WithDescription("On-demand checks by resulting status"),
	)
	if err != nil {
		return nil, err
	}
	published, err := meter.Int64Counter(
		"sitesync_backend_events_published_total",
		metric.WithDescription("Events delivered to subscribers by stream"),
	)
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64Counter(
		"sitesync_backend_events_dropped_total",
		metric.WithDescription("Events dropped because a subscriber was full"),
	)
	if err != nil {
		return nil, err
	}

	return &BackendMetrics{
		mutations:       mutations,
		checks:          checks,
		eventsPublished: published,
		eventsDropped:   dropped,
	}, nil
}

func (m *BackendMetrics) RecordMutation(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (m *BackendMetrics) RecordCheck(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.checks.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *BackendMetrics) RecordEvent(ctx context.Context, stream string, delivered bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stream", stream))
	if delivered {
		m.eventsPublished.Add(ctx, 1, attrs)
		return
	}
	m.eventsDropped.Add(ctx, 1, attrs)
}
