// Command sitesctl manages the sites of a running sitesync daemon.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/config"
	"github.com/hamed0406/sitesync/internal/httpclient"
	"github.com/hamed0406/sitesync/internal/logging"
	"github.com/hamed0406/sitesync/internal/sitesync"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs to reach the daemon.
type app struct {
	v      *viper.Viper
	debug  bool
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}
	var cfgFile string

	root := &cobra.Command{
		Use:           "sitesctl",
		Short:         "Manage monitored sites on a sitesync daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				a.v.SetConfigFile(cfgFile)
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := "warn"
			if a.debug {
				level = "debug"
			}
			logger, err := logging.NewLogger(cfg.LogDir, level, logging.WithConsole())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().String("api", "", "Daemon base URL (API_BASE)")
	root.PersistentFlags().String("key", "", "API key (API_KEY)")
	_ = v.BindPFlag(config.KeyAPIBase, root.PersistentFlags().Lookup("api"))
	_ = v.BindPFlag(config.KeyAPIKey, root.PersistentFlags().Lookup("key"))

	root.AddCommand(a.listCmd())
	root.AddCommand(a.addCmd())
	root.AddCommand(a.removeCmd())
	root.AddCommand(a.siteMonitoringCmd("start", "Start monitoring every monitor of a site"))
	root.AddCommand(a.siteMonitoringCmd("stop", "Stop monitoring every monitor of a site"))
	root.AddCommand(a.monitorCmd())
	root.AddCommand(a.backupCmd())
	root.AddCommand(a.statusCmd())
	root.AddCommand(a.importCmd())
	root.AddCommand(a.watchCmd())
	return root
}

func (a *app) client() (*httpclient.Client, error) {
	return httpclient.New(a.cfg.APIBase,
		httpclient.WithAPIKey(a.cfg.APIKey),
		httpclient.WithLogger(a.logger),
	)
}

// connect returns a sync core loaded with the daemon's current sites.
func (a *app) connect(ctx context.Context, opts ...sitesync.Option) (*sitesync.Sites, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	sites := sitesync.New(c, c, append([]sitesync.Option{sitesync.WithLogger(a.logger)}, opts...)...)
	if err := sites.Coordinator.FullResyncSites(ctx); err != nil {
		return nil, fmt.Errorf("load sites from %s: %w", a.cfg.APIBase, err)
	}
	return sites, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
