package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hamed0406/sitesync/internal/domain"
)

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download or restore a backup of every site",
	}
	cmd.AddCommand(a.backupDownloadCmd())
	cmd.AddCommand(a.backupRestoreCmd())
	return cmd
}

func (a *app) backupDownloadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Write a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			payload, err := sites.Operations.DownloadBackup(cmd.Context())
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = payload.FileName
			}
			if err := os.WriteFile(path, payload.Data, 0o600); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "wrote %s (%d sites, %d bytes)\n", path, payload.Metadata.SiteCount, len(payload.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: name chosen by the daemon)")
	return cmd
}

func (a *app) backupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace every site with the contents of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			payload := domain.BackupPayload{FileName: filepath.Base(args[0]), Data: data}
			if err := sites.Operations.RestoreBackup(cmd.Context(), payload); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "restored %d sites from %s\n", len(sites.Store.Sites()), args[0])
			return nil
		},
	}
}
