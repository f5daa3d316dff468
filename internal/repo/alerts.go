package repo

import (
	"context"
	"time"

	"github.com/hamed0406/sitesync/internal/domain"
)

// AlertRecord holds the last status we saw for a monitor and the last time
// we sent a notification for it (used for cooldown).
type AlertRecord struct {
	Key        string
	LastStatus domain.MonitorStatus
	LastSentAt *time.Time
}

// AlertKey builds the AlertStore key for a monitor of a site.
func AlertKey(siteIdentifier, monitorID string) string {
	return siteIdentifier + "/" + monitorID
}

// AlertStore is implemented by a persistence layer to store alert state.
type AlertStore interface {
	// Get returns nil, nil if there's no record yet.
	Get(ctx context.Context, key string) (*AlertRecord, error)
	// Set upserts the record. If sentAt.IsZero() the send time is cleared.
	Set(ctx context.Context, key string, status domain.MonitorStatus, sentAt time.Time) error
}
