package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/sitesync"
)

func (a *app) monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monitor",
		Aliases: []string{"mon"},
		Short:   "Manage the monitors of a site",
	}
	cmd.AddCommand(a.monitorAddCmd())
	cmd.AddCommand(a.monitorRemoveCmd())
	cmd.AddCommand(a.monitorActionCmd("start", "Start monitoring a monitor",
		func(ctx context.Context, s *sitesync.Sites, site, monitor string) error {
			return s.Monitoring.StartSiteMonitorMonitoring(ctx, site, monitor)
		}))
	cmd.AddCommand(a.monitorActionCmd("stop", "Stop monitoring a monitor",
		func(ctx context.Context, s *sitesync.Sites, site, monitor string) error {
			return s.Monitoring.StopSiteMonitorMonitoring(ctx, site, monitor)
		}))
	cmd.AddCommand(a.monitorActionCmd("check", "Run a check now",
		func(ctx context.Context, s *sitesync.Sites, site, monitor string) error {
			return s.Monitoring.CheckSiteNow(ctx, site, monitor)
		}))
	cmd.AddCommand(a.monitorSettingCmd("timeout", "DURATION", "Set the probe timeout",
		func(ctx context.Context, s *sitesync.Sites, site, monitor, raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			_, err = s.Operations.UpdateMonitorTimeout(ctx, site, monitor, d)
			return err
		}))
	cmd.AddCommand(a.monitorSettingCmd("retries", "N", "Set the retry attempts",
		func(ctx context.Context, s *sitesync.Sites, site, monitor, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("retries: %w", err)
			}
			_, err = s.Operations.UpdateMonitorRetryAttempts(ctx, site, monitor, n)
			return err
		}))
	cmd.AddCommand(a.monitorSettingCmd("interval", "DURATION", "Set the check interval",
		func(ctx context.Context, s *sitesync.Sites, site, monitor, raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			_, err = s.Operations.UpdateSiteCheckInterval(ctx, site, monitor, d)
			return err
		}))
	return cmd
}

func (a *app) monitorAddCmd() *cobra.Command {
	var mf monitorFlags
	cmd := &cobra.Command{
		Use:   "add SITE",
		Short: "Add monitors to a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			monitors, err := mf.monitors(a.cfg.RetryAttempts)
			if err != nil {
				return err
			}
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			var site domain.Site
			for _, m := range monitors {
				if site, err = sites.Operations.AddMonitorToSite(cmd.Context(), args[0], m); err != nil {
					return err
				}
			}
			printf(cmd.OutOrStdout(), "%s now has %d monitors\n", site.Identifier, len(site.Monitors))
			return nil
		},
	}
	mf.bind(cmd)
	return cmd
}

func (a *app) monitorRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove SITE MONITOR",
		Aliases: []string{"rm"},
		Short:   "Remove a monitor; a site keeps at least one",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			_, err = sites.Operations.RemoveMonitorFromSite(cmd.Context(), args[0], args[1])
			if errors.Is(err, domain.ErrCannotRemoveLast) {
				return fmt.Errorf("%s is the last monitor of %s; remove the site instead", args[1], args[0])
			}
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "removed %s from %s\n", args[1], args[0])
			return nil
		},
	}
}

func (a *app) monitorActionCmd(verb, short string, run func(context.Context, *sitesync.Sites, string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " SITE MONITOR",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), sites, args[0], args[1]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s/%s\n", pastTense(verb), args[0], args[1])
			return nil
		},
	}
}

func (a *app) monitorSettingCmd(name, value, short string, run func(context.Context, *sitesync.Sites, string, string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " SITE MONITOR " + value,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), sites, args[0], args[1], args[2]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s/%s %s set to %s\n", args[0], args[1], name, args[2])
			return nil
		},
	}
}
