package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/alerting"
	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/notify"
	"github.com/hamed0406/sitesync/internal/repo/memory"
	"github.com/hamed0406/sitesync/internal/sitesync"
)

// alerter sends to the log and, when a webhook is configured, to Slack.
func (a *app) alerter() *alerting.Alerter {
	notifier := notify.Multi{notify.Log{Logger: a.logger}}
	if s := notify.NewSlack(a.cfg.SlackWebhookURL); s != nil {
		notifier = append(notifier, s)
	}
	cfg := alerting.Config{AlertOnRecovery: a.cfg.AlertOnRecovery, Cooldown: a.cfg.AlertCooldown}
	return alerting.NewAlerter(memory.New(), notifier, cfg, a.logger)
}

// tableWriter reprints the site table on every commit.
type tableWriter struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger
}

func (t *tableWriter) commit(sites []domain.Site) {
	t.mu.Lock()
	defer t.mu.Unlock()
	printf(t.w, "\n%s\n", time.Now().Format(time.DateTime))
	if err := renderSites(t.w, sites); err != nil {
		t.logger.Warn("render_error", zap.Error(err))
	}
}

func (a *app) watchCmd() *cobra.Command {
	var noAlerts bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the daemon's sites live and alert on status changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.client()
			if err != nil {
				return err
			}
			tw := &tableWriter{w: cmd.OutOrStdout(), logger: a.logger}
			sites := sitesync.New(c, c, sitesync.WithLogger(a.logger), sitesync.WithCommitHook(tw.commit))
			defer sites.Close()

			handler := func(domain.StatusUpdate) {}
			if !noAlerts {
				al := a.alerter()
				handler = func(u domain.StatusUpdate) {
					if err := al.HandleStatusUpdate(ctx, u); err != nil {
						a.logger.Warn("alert_error", zap.String("site", u.Site.Identifier), zap.Error(err))
					}
				}
			}

			res, err := sites.Start(ctx, handler)
			if res.RequestedListeners == 0 {
				// the sync event stream did not attach
				return err
			}
			if !res.Subscribed() {
				return fmt.Errorf("subscribe to status updates: %w", multierr.Combine(res.Errors...))
			}
			if !res.Success() {
				a.logger.Warn("watch_partial_subscription",
					zap.Int("attached", res.AttachedListeners),
					zap.Int("requested", res.RequestedListeners),
				)
			}
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVar(&noAlerts, "no-alerts", false, "Only print the table")
	return cmd
}
