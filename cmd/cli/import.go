package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/sitesync/internal/domain"
)

// siteFile is the YAML form accepted by import:
//
//	sites:
//	  - identifier: shop
//	    name: Shop
//	    monitors:
//	      - type: http
//	        url: https://shop.example.com
//	        interval: 1m
type siteFile struct {
	Sites []siteDef `yaml:"sites"`
}

type siteDef struct {
	Identifier string       `yaml:"identifier"`
	Name       string       `yaml:"name"`
	Monitors   []monitorDef `yaml:"monitors"`
}

type monitorDef struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Interval string `yaml:"interval"`
	Timeout  string `yaml:"timeout"`
	Retries  *int   `yaml:"retries"`
}

func parseDuration(field, raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d.Milliseconds(), nil
}

// loadSites decodes a site file. Unknown keys are rejected.
func loadSites(r io.Reader, defaultRetries int) ([]domain.Site, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f siteFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("site file is empty")
		}
		return nil, err
	}

	out := make([]domain.Site, 0, len(f.Sites))
	for i, sd := range f.Sites {
		site := domain.Site{Identifier: sd.Identifier, Name: sd.Name}
		for j, md := range sd.Monitors {
			m := domain.Monitor{
				ID:            md.ID,
				Type:          domain.MonitorType(md.Type),
				URL:           md.URL,
				Host:          md.Host,
				Port:          md.Port,
				RetryAttempts: defaultRetries,
			}
			if md.Retries != nil {
				m.RetryAttempts = *md.Retries
			}
			var err error
			if m.CheckIntervalMS, err = parseDuration("interval", md.Interval); err == nil {
				m.TimeoutMS, err = parseDuration("timeout", md.Timeout)
			}
			if err == nil {
				err = m.Validate()
			}
			if err != nil {
				return nil, fmt.Errorf("sites[%d].monitors[%d]: %w", i, j, err)
			}
			site.Monitors = append(site.Monitors, m)
		}
		out = append(out, site)
	}
	return out, nil
}

func (a *app) importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create the sites listed in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()
			defs, err := loadSites(fh, a.cfg.RetryAttempts)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			sites, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			existing := make(map[string]bool)
			for _, s := range sites.Store.Sites() {
				existing[s.Identifier] = true
			}

			out := cmd.OutOrStdout()
			created := 0
			for _, def := range defs {
				if def.Identifier != "" && existing[def.Identifier] {
					printf(out, "skipped %s (exists)\n", def.Identifier)
					continue
				}
				site, err := sites.Operations.CreateSite(cmd.Context(), def)
				if err != nil {
					return fmt.Errorf("create %q: %w", def.Name, err)
				}
				printf(out, "added %s\n", site.Identifier)
				created++
			}
			printf(out, "%d of %d sites imported\n", created, len(defs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level sites list")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
