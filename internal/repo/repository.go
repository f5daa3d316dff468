package repo

import (
	"context"

	"github.com/hamed0406/sitesync/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks -source=repository.go SiteService,MonitoringService,Backend,EventChannel,Subscription

// Ports (interfaces) between the sync core and whatever backend it talks to.

// SiteService is the mutation and fetch surface of the backend.
type SiteService interface {
	GetSites(ctx context.Context) ([]domain.Site, error)
	AddSite(ctx context.Context, site domain.Site) (domain.Site, error)
	RemoveSite(ctx context.Context, identifier string) error
	UpdateSite(ctx context.Context, identifier string, update domain.SiteUpdate) (domain.Site, error)
	RemoveMonitor(ctx context.Context, identifier, monitorID string) (domain.Site, error)
	DownloadBackup(ctx context.Context) (domain.BackupPayload, error)
	RestoreBackup(ctx context.Context, payload domain.BackupPayload) ([]domain.Site, error)
}

// MonitoringService carries the imperative monitoring commands.
type MonitoringService interface {
	StartMonitoring(ctx context.Context, identifier, monitorID string) error
	StopMonitoring(ctx context.Context, identifier, monitorID string) error
	StartSiteMonitoring(ctx context.Context, identifier string) error
	StopSiteMonitoring(ctx context.Context, identifier string) error
	CheckSiteNow(ctx context.Context, identifier, monitorID string) error
}

type Backend interface {
	SiteService
	MonitoringService
}

// Subscription is a single attached listener. Cancel detaches it and is safe
// to call more than once.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Cancel() { f() }

// EventChannel is the push side of the backend.
type EventChannel interface {
	// StatusCategories lists the categories a complete status subscription
	// attaches to. Its length is the expected listener count.
	StatusCategories() []domain.StatusCategory
	OnStatusUpdate(category domain.StatusCategory, handler func(domain.StatusUpdate)) (Subscription, error)
	OnStateSyncEvent(handler func(domain.SyncEvent)) (Subscription, error)
	GetSyncStatus(ctx context.Context) (domain.SyncStatusSummary, error)
}

// SiteStore persists sites for the backend engine.
type SiteStore interface {
	ListSites(ctx context.Context) ([]domain.Site, error)
	// GetSite returns nil, nil if the site does not exist.
	GetSite(ctx context.Context, identifier string) (*domain.Site, error)
	UpsertSite(ctx context.Context, site domain.Site) error
	// DeleteSite reports whether a row was removed.
	DeleteSite(ctx context.Context, identifier string) (bool, error)
	ReplaceSites(ctx context.Context, sites []domain.Site) error
}
