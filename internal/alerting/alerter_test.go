package alerting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
	"github.com/hamed0406/sitesync/internal/repo/memory"
)

// ---- shared helpers ----

type memNotifier struct {
	mu     sync.Mutex
	titles []string
	texts  []string
	err    error
}

func (m *memNotifier) Send(ctx context.Context, title, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.titles = append(m.titles, title)
	m.texts = append(m.texts, text)
	return nil
}

func (m *memNotifier) n() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.titles)
}

func update(status domain.MonitorStatus) domain.StatusUpdate {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.StatusUpdate{
		Site: domain.Site{
			Identifier: "shop",
			Name:       "Shop",
			Monitors: []domain.Monitor{{
				ID:     "web",
				Type:   domain.MonitorHTTP,
				URL:    "https://shop.example.com",
				Status: status,
				History: []domain.StatusSample{
					{Status: status, ResponseTime: 87, Details: "503 Service Unavailable", Timestamp: ts},
				},
			}},
		},
		MonitorID: "web",
		Status:    status,
		Timestamp: ts,
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newAlerter(cfg Config) (*Alerter, *memNotifier, *memory.Store, *clock) {
	store := memory.New()
	nt := &memNotifier{}
	al := NewAlerter(store, nt, cfg, nil)
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	al.now = c.now
	return al, nt, store, c
}

// ---- tests ----

func TestAlerter_SendsOnDown_RespectsCooldown(t *testing.T) {
	al, nt, _, c := newAlerter(Config{AlertOnRecovery: false, Cooldown: time.Minute})
	ctx := context.Background()

	// first down -> alert
	if err := al.HandleStatusUpdate(ctx, update(domain.StatusDown)); err != nil {
		t.Fatal(err)
	}
	if nt.n() != 1 {
		t.Fatalf("want 1 alert, got %d", nt.n())
	}
	if !strings.Contains(nt.titles[0], "DOWN") || !strings.Contains(nt.texts[0], "Reason: 503 Service Unavailable") {
		t.Fatalf("unexpected message %q / %q", nt.titles[0], nt.texts[0])
	}

	// repeated down -> nothing new
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	if nt.n() != 1 {
		t.Fatalf("repeat down should not alert, got %d", nt.n())
	}

	// flap up (no recovery alerts) and down again within cooldown -> suppressed
	c.advance(10 * time.Second)
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusUp))
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	if nt.n() != 1 {
		t.Fatalf("down within cooldown should be suppressed, got %d", nt.n())
	}

	// after cooldown a new transition alerts again
	c.advance(2 * time.Minute)
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusUp))
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	if nt.n() != 2 {
		t.Fatalf("want 2 alerts after cooldown, got %d", nt.n())
	}
}

func TestAlerter_RecoveryBypassesCooldown(t *testing.T) {
	al, nt, store, _ := newAlerter(Config{AlertOnRecovery: true, Cooldown: time.Hour})
	ctx := context.Background()

	// first sighting up is not a recovery
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusUp))
	if nt.n() != 0 {
		t.Fatalf("first up should not alert, got %d", nt.n())
	}

	_ = al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusUp))
	if nt.n() != 2 || !strings.Contains(nt.titles[1], "RECOVERED") {
		t.Fatalf("want down then recovery, got %v", nt.titles)
	}

	rec, err := store.Get(ctx, repo.AlertKey("shop", "web"))
	if err != nil || rec == nil {
		t.Fatalf("alert record missing: %v", err)
	}
	if rec.LastStatus != domain.StatusUp || rec.LastSentAt == nil {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestAlerter_IgnoresMonitoringCommands(t *testing.T) {
	al, nt, store, _ := newAlerter(Config{Cooldown: time.Minute})
	ctx := context.Background()

	u := update(domain.StatusDown)
	u.Status = ""
	_ = al.HandleStatusUpdate(ctx, u)

	u = update(domain.StatusDown)
	u.MonitorID = ""
	_ = al.HandleStatusUpdate(ctx, u)

	if nt.n() != 0 {
		t.Fatalf("want no alerts, got %d", nt.n())
	}
	if rec, _ := store.Get(ctx, repo.AlertKey("shop", "web")); rec != nil {
		t.Fatalf("no state should be recorded, got %+v", rec)
	}
}

func TestAlerter_SameTransitionFromTwoCategoriesAlertsOnce(t *testing.T) {
	al, nt, _, _ := newAlerter(Config{Cooldown: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = al.HandleStatusUpdate(context.Background(), update(domain.StatusDown))
		}()
	}
	wg.Wait()
	if nt.n() != 1 {
		t.Fatalf("want exactly 1 alert, got %d", nt.n())
	}
}

func TestAlerter_SendFailureIsRetriedOnNextTransition(t *testing.T) {
	al, nt, store, _ := newAlerter(Config{Cooldown: time.Hour})
	ctx := context.Background()
	nt.err = errors.New("webhook down")

	err := al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	if err == nil {
		t.Fatal("expected the send error")
	}
	rec, _ := store.Get(ctx, repo.AlertKey("shop", "web"))
	if rec == nil || rec.LastStatus != domain.StatusDown || rec.LastSentAt != nil {
		t.Fatalf("failed send must not start the cooldown: %+v", rec)
	}

	nt.err = nil
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusUp))
	_ = al.HandleStatusUpdate(ctx, update(domain.StatusDown))
	if nt.n() != 1 {
		t.Fatalf("want 1 alert once the webhook works, got %d", nt.n())
	}
}
