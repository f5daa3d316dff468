package domain

import "time"

// StatusCategory names one stream of per-check status events.
type StatusCategory string

const (
	CategoryStatusChanged     StatusCategory = "monitor-status-changed"
	CategoryMonitorUp         StatusCategory = "monitor-up"
	CategoryMonitorDown       StatusCategory = "monitor-down"
	CategoryMonitoringStarted StatusCategory = "monitoring-started"
	CategoryMonitoringStopped StatusCategory = "monitoring-stopped"
)

// StatusCategories lists every category a status-update subscriber must listen to.
var StatusCategories = []StatusCategory{
	CategoryStatusChanged,
	CategoryMonitorUp,
	CategoryMonitorDown,
	CategoryMonitoringStarted,
	CategoryMonitoringStopped,
}

// StatusUpdate is pushed by the backend after a check or a monitoring state
// change. Site is always a full snapshot.
type StatusUpdate struct {
	Site           Site          `json:"site"`
	MonitorID      string        `json:"monitor_id,omitempty"`
	Status         MonitorStatus `json:"status,omitempty"`
	PreviousStatus MonitorStatus `json:"previous_status,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

type SyncAction string

const (
	SyncBulk   SyncAction = "bulk-sync"
	SyncUpdate SyncAction = "update"
	SyncDelete SyncAction = "delete"
)

// SyncEvent is a state-sync notification. A nil Sites means the event carried
// no site list; an empty non-nil slice is a valid empty snapshot.
type SyncEvent struct {
	Action         SyncAction `json:"action"`
	SiteIdentifier string     `json:"site_identifier,omitempty"`
	Sites          []Site     `json:"sites"`
	Source         string     `json:"source,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

const (
	SourceFrontend = "frontend"
	SourceDatabase = "database"
)

// SyncStatusSummary is diagnostic only.
type SyncStatusSummary struct {
	SiteCount    int        `json:"site_count"`
	Synchronized bool       `json:"synchronized"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	Source       string     `json:"source"`
}

// FallbackSyncStatus is reported when the backend cannot be asked.
func FallbackSyncStatus() SyncStatusSummary {
	return SyncStatusSummary{Source: SourceFrontend}
}
