package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/sitesync/internal/domain"
	"github.com/hamed0406/sitesync/internal/repo"
)

// Store keeps sites in insertion order and alert state in a map.
type Store struct {
	mu     sync.RWMutex
	order  []string
	sites  map[string]domain.Site
	alerts map[string]repo.AlertRecord
}

func New() *Store {
	return &Store{
		sites:  make(map[string]domain.Site),
		alerts: make(map[string]repo.AlertRecord),
	}
}

// ---- SiteStore ----

func (m *Store) ListSites(ctx context.Context) ([]domain.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Site, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sites[id].Clone())
	}
	return out, nil
}

func (m *Store) GetSite(ctx context.Context, identifier string) (*domain.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sites[identifier]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}

func (m *Store) UpsertSite(ctx context.Context, site domain.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[site.Identifier]; !ok {
		m.order = append(m.order, site.Identifier)
	}
	m.sites[site.Identifier] = site.Clone()
	return nil
}

func (m *Store) DeleteSite(ctx context.Context, identifier string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[identifier]; !ok {
		return false, nil
	}
	delete(m.sites, identifier)
	for i, id := range m.order {
		if id == identifier {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *Store) ReplaceSites(ctx context.Context, sites []domain.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sites = make(map[string]domain.Site, len(sites))
	m.order = make([]string, 0, len(sites))
	for _, s := range sites {
		if _, ok := m.sites[s.Identifier]; !ok {
			m.order = append(m.order, s.Identifier)
		}
		m.sites[s.Identifier] = s.Clone()
	}
	return nil
}

// ---- AlertStore ----

func (m *Store) Get(ctx context.Context, key string) (*repo.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.alerts[key]
	if !ok {
		return nil, nil
	}
	rr := r
	return &rr, nil
}

func (m *Store) Set(ctx context.Context, key string, status domain.MonitorStatus, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ts *time.Time
	if !sentAt.IsZero() {
		ts = &sentAt
	}
	m.alerts[key] = repo.AlertRecord{Key: key, LastStatus: status, LastSentAt: ts}
	return nil
}

var (
	_ repo.SiteStore  = (*Store)(nil)
	_ repo.AlertStore = (*Store)(nil)
)
