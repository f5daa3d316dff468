package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitesync/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

func TestPostgresStore_SiteRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// unique id per run so reruns against the same volume do not collide
	id := fmt.Sprintf("test-%d", time.Now().UTC().UnixNano())
	checked := time.Now().UTC().Truncate(time.Millisecond)
	site := domain.Site{
		Identifier: id,
		Name:       "Integration",
		Monitoring: true,
		Monitors: []domain.Monitor{{
			ID:          "m1",
			Type:        domain.MonitorHTTP,
			URL:         "https://example.com",
			Monitoring:  true,
			Status:      domain.StatusUp,
			LastChecked: &checked,
			History:     []domain.StatusSample{{Status: domain.StatusUp, ResponseTime: 42, Timestamp: checked}},
		}},
	}
	if err := store.UpsertSite(ctx, site); err != nil {
		t.Fatalf("UpsertSite: %v", err)
	}
	t.Cleanup(func() { _, _ = store.DeleteSite(context.Background(), id) })

	got, err := store.GetSite(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("GetSite: %v %v", got, err)
	}
	if got.Name != "Integration" || len(got.Monitors) != 1 || got.Monitors[0].URL != "https://example.com" {
		t.Fatalf("unexpected site: %+v", got)
	}
	if len(got.Monitors[0].History) != 1 || got.Monitors[0].History[0].ResponseTime != 42 {
		t.Fatalf("history not persisted: %+v", got.Monitors[0].History)
	}

	list, err := store.ListSites(ctx)
	if err != nil {
		t.Fatalf("ListSites: %v", err)
	}
	found := false
	for _, s := range list {
		if s.Identifier == id {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("upserted site not listed; got %d rows", len(list))
	}

	ok, err := store.DeleteSite(ctx, id)
	if err != nil || !ok {
		t.Fatalf("DeleteSite: %v %v", ok, err)
	}
	missing, err := store.GetSite(ctx, id)
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil after delete, got %v %v", missing, err)
	}
}
