package repo_test

import (
	"testing"

	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/repo/memory"
	"github.com/hamed0406/sitesync/internal/repo/mocks"
	pg "github.com/hamed0406/sitesync/internal/repo/postgres"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.SiteStore = memory.New()
	var _ repo.AlertStore = memory.New()

	var _ repo.SiteStore = (*pg.Store)(nil)
	var _ repo.AlertStore = (*pg.Store)(nil)

	var _ repo.Backend = (*mocks.MockBackend)(nil)
	var _ repo.EventChannel = (*mocks.MockEventChannel)(nil)
	var _ repo.Subscription = repo.SubscriptionFunc(nil)
}

func TestSubscriptionFunc(t *testing.T) {
	n := 0
	var sub repo.Subscription = repo.SubscriptionFunc(func() { n++ })
	sub.Cancel()
	sub.Cancel()
	if n != 2 {
		t.Fatalf("expected Cancel to call through each time, got %d", n)
	}
}

func TestAlertKey(t *testing.T) {
	if got := repo.AlertKey("site-1", "m-2"); got != "site-1/m-2" {
		t.Fatalf("unexpected key %q", got)
	}
}
