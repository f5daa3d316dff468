package sitesync

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/sitesync/internal/domain"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// recorder is a Store that remembers every SetSites call.
type recorder struct {
	store *Store
	mu    sync.Mutex
	calls [][]domain.Site
}

func newRecorder(initial ...domain.Site) *recorder {
	store := NewStore()
	store.SetSites(initial)
	return &recorder{store: store}
}

func (r *recorder) Get() []domain.Site {
	return r.store.Sites()
}

func (r *recorder) Set(sites []domain.Site) {
	r.mu.Lock()
	r.calls = append(r.calls, sites)
	r.mu.Unlock()
	r.store.SetSites(sites)
}

func (r *recorder) Calls() [][]domain.Site {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]domain.Site(nil), r.calls...)
}

func monitor(id string, status domain.MonitorStatus) domain.Monitor {
	return domain.Monitor{
		ID:     id,
		Type:   domain.MonitorHTTP,
		URL:    "https://" + id + ".example.com",
		Status: status,
	}
}

func site(id string, monitors ...domain.Monitor) domain.Site {
	if len(monitors) == 0 {
		monitors = []domain.Monitor{monitor(id+"-m1", domain.StatusUp)}
	}
	return domain.Site{Identifier: id, Name: "site " + id, Monitors: monitors}
}

func ids(sites []domain.Site) []string {
	out := make([]string, 0, len(sites))
	for _, s := range sites {
		out = append(out, s.Identifier)
	}
	return out
}
