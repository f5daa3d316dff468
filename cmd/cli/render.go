package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/hamed0406/sitesync/internal/domain"
)

// renderSites prints one row per monitor.
func renderSites(w io.Writer, sites []domain.Site) error {
	if len(sites) == 0 {
		printf(w, "no sites\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Site", "Name", "Monitor", "Type", "Target", "Status", "Latency", "Checked")
	for _, s := range sites {
		for _, m := range s.Monitors {
			latency, checked := "-", "-"
			if m.LastChecked != nil {
				latency = fmt.Sprintf("%.0fms", m.ResponseTime)
				checked = m.LastChecked.Local().Format(time.DateTime)
			}
			row := []string{s.Identifier, s.Name, m.ID, string(m.Type), m.Target(), string(m.Status), latency, checked}
			if err := table.Append(row); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

func renderSyncStatus(w io.Writer, st domain.SyncStatusSummary, local int) error {
	last := "never"
	if st.LastSyncAt != nil {
		last = st.LastSyncAt.Local().Format(time.DateTime)
	}
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][]string{
		{"source", st.Source},
		{"synchronized", strconv.FormatBool(st.Synchronized)},
		{"sites (daemon)", strconv.Itoa(st.SiteCount)},
		{"sites (local)", strconv.Itoa(local)},
		{"last change", last},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
