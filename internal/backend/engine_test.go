package backend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/probe"
	"github.com/hamed0406/sitesync/internal/repo/memory"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type stubChecker struct {
	mu     sync.Mutex
	result probe.CheckResult
	calls  int
}

func (s *stubChecker) Check(context.Context, string) probe.CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result
}

func (s *stubChecker) set(r probe.CheckResult) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *stubChecker) {
	t.Helper()
	checker := &stubChecker{result: probe.CheckResult{Name: "HTTP", Success: true, LatencyMS: 12, Message: "200 OK"}}
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithCheckerFactory(func(m domain.Monitor) (probe.Checker, string) { return checker, m.Target() }),
	}
	e := New(memory.New(), append(base, opts...)...)
	t.Cleanup(e.Close)
	return e, checker
}

func httpMonitor(url string) domain.Monitor {
	return domain.Monitor{Type: domain.MonitorHTTP, URL: url}
}

// collect subscribes to a stream and returns a function that waits for n values.
func collectSync(t *testing.T, e *Engine) func(n int) []domain.SyncEvent {
	t.Helper()
	ch := make(chan domain.SyncEvent, 32)
	sub, err := e.OnStateSyncEvent(func(ev domain.SyncEvent) { ch <- ev })
	require.NoError(t, err)
	t.Cleanup(sub.Cancel)
	return func(n int) []domain.SyncEvent {
		out := make([]domain.SyncEvent, 0, n)
		for len(out) < n {
			select {
			case ev := <-ch:
				out = append(out, ev)
			case <-time.After(2 * time.Second):
				t.Fatalf("timed out waiting for %d sync events, got %d", n, len(out))
			}
		}
		return out
	}
}

func collectStatus(t *testing.T, e *Engine, category domain.StatusCategory) chan domain.StatusUpdate {
	t.Helper()
	ch := make(chan domain.StatusUpdate, 32)
	sub, err := e.OnStatusUpdate(category, func(u domain.StatusUpdate) { ch <- u })
	require.NoError(t, err)
	t.Cleanup(sub.Cancel)
	return ch
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	var zero T
	return zero
}

func TestEngine_AddSiteAssignsIdentifiersAndPublishes(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	events := collectSync(t, e)

	site, err := e.AddSite(context.Background(), domain.Site{
		Name:     "Shop",
		Monitors: []domain.Monitor{httpMonitor("https://shop.example.com"), {Type: domain.MonitorPort, Host: "db", Port: 5432}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, site.Identifier)
	assert.True(t, site.Monitoring)
	for _, m := range site.Monitors {
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, domain.StatusPending, m.Status)
		assert.True(t, m.Monitoring)
	}

	ev := events(1)[0]
	assert.Equal(t, domain.SyncUpdate, ev.Action)
	assert.Equal(t, site.Identifier, ev.SiteIdentifier)
	assert.Nil(t, ev.Sites)

	sites, err := e.GetSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, site, sites[0])
}

func TestEngine_AddSiteValidation(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.AddSite(ctx, domain.Site{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSite)

	_, err = e.AddSite(ctx, domain.Site{Name: "x", Monitors: []domain.Monitor{{Type: domain.MonitorPort, Host: "h"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidMonitor)

	_, err = e.AddSite(ctx, domain.Site{Identifier: "fixed", Name: "x", Monitors: []domain.Monitor{httpMonitor("https://a")}})
	require.NoError(t, err)
	_, err = e.AddSite(ctx, domain.Site{Identifier: "fixed", Name: "y", Monitors: []domain.Monitor{httpMonitor("https://b")}})
	assert.ErrorIs(t, err, domain.ErrInvalidSite)
}

func TestEngine_RemoveMonitor(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()
	site, err := e.AddSite(ctx, domain.Site{
		Identifier: "s",
		Name:       "S",
		Monitors: []domain.Monitor{
			{ID: "m1", Type: domain.MonitorHTTP, URL: "https://a"},
			{ID: "m2", Type: domain.MonitorHTTP, URL: "https://b"},
		},
	})
	require.NoError(t, err)
	require.Len(t, site.Monitors, 2)

	updated, err := e.RemoveMonitor(ctx, "s", "m1")
	require.NoError(t, err)
	require.Len(t, updated.Monitors, 1)
	assert.Equal(t, "m2", updated.Monitors[0].ID)

	_, err = e.RemoveMonitor(ctx, "s", "m2")
	assert.ErrorIs(t, err, domain.ErrCannotRemoveLast)

	_, err = e.RemoveMonitor(ctx, "s", "ghost")
	assert.ErrorIs(t, err, domain.ErrMonitorNotFound)

	_, err = e.RemoveMonitor(ctx, "nope", "m2")
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestEngine_RemoveSite(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.AddSite(ctx, domain.Site{Identifier: "s", Name: "S", Monitors: []domain.Monitor{httpMonitor("https://a")}})
	require.NoError(t, err)
	events := collectSync(t, e)

	require.NoError(t, e.RemoveSite(ctx, "s"))
	ev := events(1)[0]
	assert.Equal(t, domain.SyncDelete, ev.Action)
	assert.Equal(t, "s", ev.SiteIdentifier)

	assert.ErrorIs(t, e.RemoveSite(ctx, "s"), domain.ErrSiteNotFound)
}

func TestEngine_UpdateSiteKeepsRuntimeState(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.AddSite(ctx, domain.Site{
		Identifier: "s",
		Name:       "S",
		Monitors:   []domain.Monitor{{ID: "m1", Type: domain.MonitorHTTP, URL: "https://a"}},
	})
	require.NoError(t, err)
	require.NoError(t, e.CheckSiteNow(ctx, "s", "m1"))

	name := "Renamed"
	updated, err := e.UpdateSite(ctx, "s", domain.SiteUpdate{
		Name: &name,
		Monitors: []domain.Monitor{
			{ID: "m1", Type: domain.MonitorHTTP, URL: "https://a", TimeoutMS: 2500, Status: domain.StatusDown},
			httpMonitor("https://new"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.Monitors, 2)

	kept := updated.Monitors[0]
	assert.Equal(t, int64(2500), kept.TimeoutMS)
	assert.Equal(t, domain.StatusUp, kept.Status, "runtime status is not client-controlled")
	assert.Len(t, kept.History, 1)

	added := updated.Monitors[1]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, domain.StatusPending, added.Status)

	blank := " "
	_, err = e.UpdateSite(ctx, "s", domain.SiteUpdate{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidSite)
}

func TestEngine_StartStopMonitoring(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.AddSite(ctx, domain.Site{
		Identifier: "s",
		Name:       "S",
		Monitors: []domain.Monitor{
			{ID: "m1", Type: domain.MonitorHTTP, URL: "https://a"},
			{ID: "m2", Type: domain.MonitorHTTP, URL: "https://b"},
		},
	})
	require.NoError(t, err)
	stopped := collectStatus(t, e, domain.CategoryMonitoringStopped)
	started := collectStatus(t, e, domain.CategoryMonitoringStarted)

	require.NoError(t, e.StopMonitoring(ctx, "s", "m1"))
	u := receive(t, stopped)
	assert.Equal(t, "m1", u.MonitorID)
	m1, _ := u.Site.Monitor("m1")
	assert.False(t, m1.Monitoring)
	assert.Equal(t, domain.StatusPaused, m1.Status)
	assert.True(t, u.Site.Monitoring, "m2 still monitoring")

	require.NoError(t, e.StopSiteMonitoring(ctx, "s"))
	u = receive(t, stopped)
	assert.False(t, u.Site.Monitoring)

	require.NoError(t, e.StartSiteMonitoring(ctx, "s"))
	u = receive(t, started)
	assert.True(t, u.Site.Monitoring)
	for _, m := range u.Site.Monitors {
		assert.Equal(t, domain.StatusPending, m.Status)
	}

	assert.ErrorIs(t, e.StartMonitoring(ctx, "s", "ghost"), domain.ErrMonitorNotFound)
}

func TestEngine_CheckSiteNow(t *testing.T) {
	t.Parallel()

	e, checker := newTestEngine(t, WithHistoryLimit(2))
	ctx := context.Background()
	_, err := e.AddSite(ctx, domain.Site{
		Identifier: "s",
		Name:       "S",
		Monitors:   []domain.Monitor{{ID: "m1", Type: domain.MonitorHTTP, URL: "https://a"}},
	})
	require.NoError(t, err)
	up := collectStatus(t, e, domain.CategoryMonitorUp)
	down := collectStatus(t, e, domain.CategoryMonitorDown)
	changed := collectStatus(t, e, domain.CategoryStatusChanged)

	require.NoError(t, e.CheckSiteNow(ctx, "s", "m1"))
	u := receive(t, up)
	assert.Equal(t, domain.StatusUp, u.Status)
	assert.Equal(t, domain.StatusPending, u.PreviousStatus)
	assert.Equal(t, fixedNow, u.Timestamp)
	m, _ := u.Site.Monitor("m1")
	assert.Equal(t, 12.0, m.ResponseTime)
	require.NotNil(t, m.LastChecked)
	assert.Len(t, m.History, 1)
	receive(t, changed)

	// same status again: no status-changed event
	require.NoError(t, e.CheckSiteNow(ctx, "s", "m1"))
	receive(t, up)

	checker.set(probe.CheckResult{Success: false, Message: "connection refused"})
	require.NoError(t, e.CheckSiteNow(ctx, "s", "m1"))
	u = receive(t, down)
	assert.Equal(t, domain.StatusUp, u.PreviousStatus)
	c := receive(t, changed)
	assert.Equal(t, domain.StatusDown, c.Status)
	select {
	case extra := <-changed:
		t.Fatalf("unexpected status-changed event %+v", extra)
	default:
	}

	stored, err := e.GetSites(ctx)
	require.NoError(t, err)
	m, _ = stored[0].Monitor("m1")
	assert.Equal(t, domain.StatusDown, m.Status)
	assert.Len(t, m.History, 2, "history is bounded")
	assert.Equal(t, "connection refused", m.History[0].Details)
	assert.Equal(t, 3, checker.calls)

	assert.ErrorIs(t, e.CheckSiteNow(ctx, "s", "nope"), domain.ErrMonitorNotFound)
	assert.ErrorIs(t, e.CheckSiteNow(ctx, "nope", "m1"), domain.ErrSiteNotFound)
}

func TestEngine_BackupRoundTrip(t *testing.T) {
	t.Parallel()

	src, _ := newTestEngine(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		_, err := src.AddSite(ctx, domain.Site{Identifier: id, Name: id, Monitors: []domain.Monitor{httpMonitor("https://" + id)}})
		require.NoError(t, err)
	}

	payload, err := src.DownloadBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sitesync-backup-20260504T100000Z.json", payload.FileName)
	assert.Equal(t, 2, payload.Metadata.SiteCount)
	assert.Equal(t, len(payload.Data), payload.Metadata.SizeBytes)

	dst, _ := newTestEngine(t)
	_, err = dst.AddSite(ctx, domain.Site{Identifier: "old", Name: "old", Monitors: []domain.Monitor{httpMonitor("https://old")}})
	require.NoError(t, err)
	events := collectSync(t, dst)

	restored, err := dst.RestoreBackup(ctx, payload)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	ev := events(1)[0]
	assert.Equal(t, domain.SyncBulk, ev.Action)
	require.Len(t, ev.Sites, 2)
	assert.Equal(t, "a", ev.Sites[0].Identifier)

	sites, err := dst.GetSites(ctx)
	require.NoError(t, err)
	assert.Equal(t, restored, sites)
}

func TestEngine_RestoreRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	tests := map[string]string{
		"not json":          `nope`,
		"wrong version":     `{"version":"9","sites":[]}`,
		"missing sites":     `{"version":"1"}`,
		"no monitors":       `{"version":"1","sites":[{"identifier":"a","name":"a","monitors":[]}]}`,
		"duplicate site":    `{"version":"1","sites":[{"identifier":"a","monitors":[{"id":"m","type":"dns","host":"x"}]},{"identifier":"a","monitors":[{"id":"m","type":"dns","host":"x"}]}]}`,
		"invalid monitor":   `{"version":"1","sites":[{"identifier":"a","monitors":[{"id":"m","type":"port","host":"x"}]}]}`,
		"monitor no id":     `{"version":"1","sites":[{"identifier":"a","monitors":[{"type":"dns","host":"x"}]}]}`,
		"duplicate monitor": `{"version":"1","sites":[{"identifier":"a","monitors":[{"id":"m","type":"dns","host":"x"},{"id":"m","type":"dns","host":"y"}]}]}`,
	}
	for name, doc := range tests {
		_, err := e.RestoreBackup(context.Background(), domain.BackupPayload{Data: []byte(doc)})
		assert.ErrorIs(t, err, domain.ErrInvalidBackup, name)
	}
}

func TestEngine_GetSyncStatus(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	ctx := context.Background()

	st, err := e.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSummary{Synchronized: true, Source: domain.SourceDatabase}, st)

	_, err = e.AddSite(ctx, domain.Site{Name: "x", Monitors: []domain.Monitor{httpMonitor("https://a")}})
	require.NoError(t, err)
	st, err = e.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.SiteCount)
	require.NotNil(t, st.LastSyncAt)
	assert.Equal(t, fixedNow, *st.LastSyncAt)
}

func TestEngine_RequestFullSync(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	events := collectSync(t, e)

	require.NoError(t, e.RequestFullSync(context.Background()))
	ev := events(1)[0]
	assert.Equal(t, domain.SyncBulk, ev.Action)
	assert.NotNil(t, ev.Sites)
	assert.Empty(t, ev.Sites)
}

func TestEngine_EventChannelContract(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	assert.Equal(t, domain.StatusCategories, e.StatusCategories())

	_, err := e.OnStatusUpdate("bogus", func(domain.StatusUpdate) {})
	assert.Error(t, err)
	_, err = e.OnStatusUpdate(domain.CategoryMonitorUp, nil)
	assert.Error(t, err)

	sub, err := e.OnStatusUpdate(domain.CategoryMonitorUp, func(domain.StatusUpdate) {})
	require.NoError(t, err)
	assert.Equal(t, 1, e.Subscribers()[string(domain.CategoryMonitorUp)])
	sub.Cancel()
	sub.Cancel()
	assert.Zero(t, e.Subscribers()[string(domain.CategoryMonitorUp)])
}

func TestBroker_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	tp := newTopic[int]("test", zap.New(core))

	block := make(chan struct{})
	sub := tp.subscribe(func(int) { <-block })
	defer sub.Cancel()
	defer close(block)

	var dropped int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBufferCap+10; i++ {
			_, d := tp.publish(i)
			dropped += d
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.GreaterOrEqual(t, dropped, 9)
	assert.Zero(t, logs.Len())
}

func TestBroker_PanickingHandlerKeepsDelivering(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	tp := newTopic[int]("test", zap.New(core))

	got := make(chan int, 2)
	sub := tp.subscribe(func(v int) {
		if v == 1 {
			panic("boom")
		}
		got <- v
	})
	defer sub.Cancel()

	tp.publish(1)
	tp.publish(2)
	assert.Equal(t, 2, receive(t, got))
	assert.Equal(t, 1, logs.FilterMessage("subscriber_panic").Len())
}
