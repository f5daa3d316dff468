// Package alerting turns monitor status transitions into notifications.
package alerting

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/notify"
	"github.com/hamed0406/sitesync/internal/repo"
)

type Config struct {
	AlertOnRecovery bool
	Cooldown        time.Duration
}

type Alerter struct {
	alertDB  repo.AlertStore
	notifier notify.Notifier
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	// mu serializes decisions; the same transition can arrive on more than
	// one status category.
	mu sync.Mutex
}

func NewAlerter(alertDB repo.AlertStore, notifier notify.Notifier, cfg Config, logger *zap.Logger) *Alerter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Alerter{
		alertDB:  alertDB,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleStatusUpdate decides whether update warrants a notification and
// records the monitor's new status. Updates that carry no check result
// (monitoring started or stopped) are ignored.
func (a *Alerter) HandleStatusUpdate(ctx context.Context, update domain.StatusUpdate) error {
	if update.MonitorID == "" || (update.Status != domain.StatusUp && update.Status != domain.StatusDown) {
		return nil
	}
	key := repo.AlertKey(update.Site.Identifier, update.MonitorID)

	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.alertDB.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("alert state %s: %w", key, err)
	}
	if rec != nil && rec.LastStatus == update.Status {
		return nil
	}

	now := a.now()
	var lastSent time.Time
	if rec != nil && rec.LastSentAt != nil {
		lastSent = *rec.LastSentAt
	}

	// Cooldown only matters for DOWN alerts (suppresses flapping).
	cooled := lastSent.IsZero() || now.Sub(lastSent) >= a.cfg.Cooldown
	down := update.Status == domain.StatusDown && cooled
	recovery := update.Status == domain.StatusUp && rec != nil && rec.LastStatus == domain.StatusDown && a.cfg.AlertOnRecovery

	if !down && !recovery {
		if update.Status == domain.StatusDown {
			a.logger.Info("alert_suppressed", zap.String("key", key), zap.Time("last_sent", lastSent))
		}
		return a.alertDB.Set(ctx, key, update.Status, lastSent)
	}

	title, text := message(update)
	sendErr := a.notifier.Send(ctx, title, text)
	if sendErr != nil {
		a.logger.Warn("alert_send_failed", zap.String("key", key), zap.Error(sendErr))
	} else {
		a.logger.Info("alert_sent", zap.String("key", key), zap.String("status", string(update.Status)))
		lastSent = now
	}
	return multierr.Append(sendErr, a.alertDB.Set(ctx, key, update.Status, lastSent))
}

func message(u domain.StatusUpdate) (title, text string) {
	title = "🔴 Monitor DOWN"
	if u.Status == domain.StatusUp {
		title = "🟢 Monitor RECOVERED"
	}

	name := u.Site.Name
	if name == "" {
		name = u.Site.Identifier
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Site: %s\n", name)
	if m, ok := u.Site.Monitor(u.MonitorID); ok {
		fmt.Fprintf(&b, "Monitor: %s %s\n", m.Type, m.Target())
		if len(m.History) > 0 {
			latest := m.History[0]
			fmt.Fprintf(&b, "Latency: %.0f ms\n", latest.ResponseTime)
			if latest.Details != "" {
				fmt.Fprintf(&b, "Reason: %s\n", latest.Details)
			}
		}
	} else {
		fmt.Fprintf(&b, "Monitor: %s\n", u.MonitorID)
	}
	fmt.Fprintf(&b, "Checked: %s", u.Timestamp.Format(time.RFC3339))
	return title, b.String()
}
