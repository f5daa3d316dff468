package sitesync

import (
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/telemetry"
)

type options struct {
	logger   *zap.Logger
	metrics  *telemetry.SyncMetrics
	onChange func([]domain.Site)
	updater  Updater
}

// Option configures the components of this package.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSyncMetrics sets the metrics recorder. A nil value disables metrics.
func WithSyncMetrics(m *telemetry.SyncMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithCommitHook is called with the collection after each commit. Only New
// uses it.
func WithCommitHook(fn func([]domain.Site)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithUpdater makes read-modify-write commits go through u instead of the
// Getter and Setter. Components given the same u never lose each other's
// writes.
func WithUpdater(u Updater) Option {
	return func(o *options) {
		o.updater = u
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
