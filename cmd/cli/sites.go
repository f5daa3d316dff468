package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/sitesync/internal/domain"
)

// monitorFlags are the per-monitor settings shared by add and monitor add.
type monitorFlags struct {
	http, port, dns, ping []string
	timeout, interval     time.Duration
	retries               int
}

func (f *monitorFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.http, "http", nil, "HTTP monitor URL (repeatable)")
	cmd.Flags().StringArrayVar(&f.port, "port", nil, "TCP monitor host:port (repeatable)")
	cmd.Flags().StringArrayVar(&f.dns, "dns", nil, "DNS monitor host (repeatable)")
	cmd.Flags().StringArrayVar(&f.ping, "ping", nil, "Ping monitor host (repeatable)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Probe timeout (default: daemon setting)")
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "Check interval (default: daemon setting)")
	cmd.Flags().IntVar(&f.retries, "retries", -1, "Retry attempts (default: RETRY_ATTEMPTS)")
}

func (f *monitorFlags) monitors(defaultRetries int) ([]domain.Monitor, error) {
	var out []domain.Monitor
	for _, group := range []struct {
		typ    domain.MonitorType
		values []string
	}{
		{domain.MonitorHTTP, f.http},
		{domain.MonitorPort, f.port},
		{domain.MonitorDNS, f.dns},
		{domain.MonitorPing, f.ping},
	} {
		for _, v := range group.values {
			m, err := parseMonitor(group.typ, v)
			if err != nil {
				return nil, err
			}
			m.TimeoutMS = f.timeout.Milliseconds()
			m.CheckIntervalMS = f.interval.Milliseconds()
			m.RetryAttempts = f.retries
			if f.retries < 0 {
				m.RetryAttempts = defaultRetries
			}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no monitor given; use --http, --port, --dns or --ping")
	}
	return out, nil
}

// parseMonitor builds a monitor of type typ from its command-line form.
func parseMonitor(typ domain.MonitorType, raw string) (domain.Monitor, error) {
	raw = strings.TrimSpace(raw)
	m := domain.Monitor{Type: typ}
	switch typ {
	case domain.MonitorHTTP:
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		m.URL = raw
	case domain.MonitorPort:
		host, port, err := net.SplitHostPort(raw)
		if err != nil {
			return domain.Monitor{}, fmt.Errorf("port monitor %q: %w", raw, err)
		}
		n, err := strconv.Atoi(port)
		if err != nil {
			return domain.Monitor{}, fmt.Errorf("port monitor %q: bad port", raw)
		}
		m.Host, m.Port = host, n
	default:
		m.Host = raw
	}
	if err := m.Validate(); err != nil {
		return domain.Monitor{}, fmt.Errorf("%s monitor %q: %w", typ, raw, err)
	}
	return m, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sites and their monitors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			return renderSites(cmd.OutOrStdout(), sites.Store.Sites())
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		id string
		mf monitorFlags
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a site with one or more monitors",
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
			created, err := sites.Operations.CreateSite(cmd.Context(), domain.Site{
				Identifier: id,
				Name:       args[0],
				Monitors:   monitors,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "added %s (%d monitors)\n", created.Identifier, len(created.Monitors))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Site identifier (default: generated)")
	mf.bind(cmd)
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove SITE",
		Aliases: []string{"rm"},
		Short:   "Remove a site",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := sites.Operations.RemoveSite(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

// siteMonitoringCmd builds "start" or "stop" for a whole site.
func (a *app) siteMonitoringCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " SITE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			action := sites.Monitoring.StartSiteMonitoring
			if verb == "stop" {
				action = sites.Monitoring.StopSiteMonitoring
			}
			if err := action(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s\n", pastTense(verb), args[0])
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			st := sites.Coordinator.GetSyncStatus(cmd.Context())
			return renderSyncStatus(cmd.OutOrStdout(), st, len(sites.Store.Sites()))
		},
	}
}

func pastTense(verb string) string {
	switch verb {
	case "stop":
		return "stopped"
	default:
		return verb + "ed"
	}
}
